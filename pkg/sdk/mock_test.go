package entitysearch

import (
	"context"

	dombatch "github.com/kailas-cloud/entitysearch/internal/domain/batch"
	domindex "github.com/kailas-cloud/entitysearch/internal/domain/index"
	"github.com/kailas-cloud/entitysearch/internal/domain/search/request"
	clusteringuc "github.com/kailas-cloud/entitysearch/internal/usecase/clustering"
	documentuc "github.com/kailas-cloud/entitysearch/internal/usecase/document"
	healthuc "github.com/kailas-cloud/entitysearch/internal/usecase/health"
)

// --- indexUseCase mock ---

type mockIndexUC struct {
	createFn func(ctx context.Context, name string, fields []string, signatureField string) (domindex.Index, error)
	dropFn   func(ctx context.Context, name string) error
	existsFn func(ctx context.Context, name string) (bool, error)
}

func (m *mockIndexUC) Create(
	ctx context.Context, name string, fields []string, signatureField string,
) (domindex.Index, error) {
	return m.createFn(ctx, name, fields, signatureField)
}

func (m *mockIndexUC) Drop(ctx context.Context, name string) error {
	return m.dropFn(ctx, name)
}

func (m *mockIndexUC) Exists(ctx context.Context, name string) (bool, error) {
	return m.existsFn(ctx, name)
}

// --- documentUseCase mock ---

type mockDocumentUC struct {
	indexFn  func(ctx context.Context, index string, items []documentuc.Item) []dombatch.Result
	deleteFn func(ctx context.Context, index string, ids []string) []dombatch.Result
}

func (m *mockDocumentUC) Index(ctx context.Context, index string, items []documentuc.Item) []dombatch.Result {
	return m.indexFn(ctx, index, items)
}

func (m *mockDocumentUC) Delete(ctx context.Context, index string, ids []string) []dombatch.Result {
	return m.deleteFn(ctx, index, ids)
}

// --- clusteringUseCase mock ---

type mockClusteringUC struct {
	searchFn func(ctx context.Context, req *request.Request) (clusteringuc.Response, error)
}

func (m *mockClusteringUC) Search(ctx context.Context, req *request.Request) (clusteringuc.Response, error) {
	return m.searchFn(ctx, req)
}

// --- healthUseCase mock ---

type mockHealthUC struct {
	report healthuc.Report
}

func (m *mockHealthUC) Check(_ context.Context) healthuc.Report { return m.report }

// --- helpers ---

func testClient(idx indexUseCase, docs documentUseCase, search clusteringUseCase) *Client {
	return &Client{
		indexSvc:       idx,
		docSvc:         docs,
		clusteringSvc:  search,
		signatureField: "entityContent",
	}
}
