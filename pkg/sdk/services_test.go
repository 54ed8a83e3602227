package entitysearch

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	dombatch "github.com/kailas-cloud/entitysearch/internal/domain/batch"
	"github.com/kailas-cloud/entitysearch/internal/domain/cluster"
	domindex "github.com/kailas-cloud/entitysearch/internal/domain/index"
	"github.com/kailas-cloud/entitysearch/internal/domain/index/field"
	"github.com/kailas-cloud/entitysearch/internal/domain/search/request"
	"github.com/kailas-cloud/entitysearch/internal/domain/search/result"
	clusteringuc "github.com/kailas-cloud/entitysearch/internal/usecase/clustering"
	documentuc "github.com/kailas-cloud/entitysearch/internal/usecase/document"
	healthuc "github.com/kailas-cloud/entitysearch/internal/usecase/health"
)

// --- IndexService ---

func TestIndexService_Create(t *testing.T) {
	idx := domindex.Reconstruct("news", []field.Field{
		field.Reconstruct("text", field.Text),
		field.Reconstruct("person", field.Text),
		field.Reconstruct("entityContent", field.Tag),
	}, "entityContent", 1000)

	mock := &mockIndexUC{
		createFn: func(_ context.Context, name string, fields []string, sig string) (domindex.Index, error) {
			if name != "news" {
				t.Errorf("name = %q, want news", name)
			}
			if len(fields) != 2 || fields[1] != "person" {
				t.Errorf("fields = %v", fields)
			}
			if sig != "entityContent" {
				t.Errorf("signature field = %q, want entityContent", sig)
			}
			return idx, nil
		},
	}

	info, err := testClient(mock, nil, nil).Indices().Create(context.Background(), "news", WithFields("text", "person"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if info.Name != "news" || info.SignatureField != "entityContent" {
		t.Errorf("info = %+v", info)
	}
	if len(info.TextFields) != 2 {
		t.Errorf("TextFields = %v, want text and person only", info.TextFields)
	}
}

func TestIndexService_Create_ClusterFieldOverride(t *testing.T) {
	var got string
	mock := &mockIndexUC{
		createFn: func(_ context.Context, name string, _ []string, sig string) (domindex.Index, error) {
			got = sig
			return domindex.Reconstruct(name, nil, sig, 0), nil
		},
	}

	_, err := testClient(mock, nil, nil).Indices().Create(context.Background(), "news", WithClusterField("story"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "story" {
		t.Errorf("signature field = %q, want story", got)
	}
}

func TestIndexService_Errors(t *testing.T) {
	mock := &mockIndexUC{
		createFn: func(context.Context, string, []string, string) (domindex.Index, error) {
			return domindex.Index{}, ErrIndexExists
		},
		dropFn: func(context.Context, string) error { return ErrIndexNotFound },
		existsFn: func(context.Context, string) (bool, error) {
			return false, errors.New("db down")
		},
	}
	svc := testClient(mock, nil, nil).Indices()
	ctx := context.Background()

	if _, err := svc.Create(ctx, "news"); !errors.Is(err, ErrIndexExists) {
		t.Errorf("Create err = %v, want ErrIndexExists", err)
	}
	if err := svc.Drop(ctx, "news"); !errors.Is(err, ErrIndexNotFound) {
		t.Errorf("Drop err = %v, want ErrIndexNotFound", err)
	}
	if _, err := svc.Exists(ctx, "news"); err == nil {
		t.Error("Exists: expected error")
	}
}

// --- DocumentService ---

func TestDocumentService_Index(t *testing.T) {
	mock := &mockDocumentUC{
		indexFn: func(_ context.Context, index string, items []documentuc.Item) []dombatch.Result {
			if index != "news" {
				t.Errorf("index = %q, want news", index)
			}
			return []dombatch.Result{
				dombatch.NewOK(items[0].ID),
				dombatch.NewError(items[1].ID, ErrValidation),
			}
		},
	}

	out := testClient(nil, mock, nil).Documents("news").Index(context.Background(), []Document{
		{ID: "a", Fields: map[string]string{"text": "hello"}},
		{ID: "b"},
	})
	if len(out) != 2 {
		t.Fatalf("len = %d, want 2", len(out))
	}
	if !out[0].OK || out[0].ID != "a" {
		t.Errorf("out[0] = %+v", out[0])
	}
	if out[1].OK || !errors.Is(out[1].Err, ErrValidation) {
		t.Errorf("out[1] = %+v", out[1])
	}
}

func TestDocumentService_Delete(t *testing.T) {
	mock := &mockDocumentUC{
		deleteFn: func(_ context.Context, _ string, ids []string) []dombatch.Result {
			return []dombatch.Result{dombatch.NewError(ids[0], ErrDocumentNotFound)}
		},
	}

	out := testClient(nil, mock, nil).Documents("news").Delete(context.Background(), []string{"missing"})
	if len(out) != 1 || !errors.Is(out[0].Err, ErrDocumentNotFound) {
		t.Errorf("out = %+v", out)
	}
}

// --- SearchBuilder ---

func TestSearchBuilder_BuildsRequest(t *testing.T) {
	var got *request.Request
	mock := &mockClusteringUC{
		searchFn: func(_ context.Context, req *request.Request) (clusteringuc.Response, error) {
			got = req
			return clusteringuc.Response{
				Search: result.Meta{Total: 3},
				Hits: []cluster.Hit{
					{ID: "a", Index: "news", Score: 1.5},
					{ID: "b", Index: "news", Score: 1.2},
					{ID: "c", Index: "news", Score: 0.9},
				},
				Clusters: cluster.List{
					{Name: cluster.Of("x"), Members: []string{"a", "b"}},
					{Name: cluster.Absent, Members: []string{"c"}},
				},
			}, nil
		},
	}

	res, err := testClient(nil, nil, mock).Search("news", "blogs").
		Query("met #person").
		DocumentMode().
		From(5).
		Size(20).
		Field("story").
		Do(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if q, ok := got.Query(); !ok || q != "met #person" {
		t.Errorf("Query = %q, %v", q, ok)
	}
	if !got.DocumentMode() || got.From() != 5 || got.Size() != 20 || got.SignatureField() != "story" {
		t.Errorf("request = %+v", got)
	}
	if len(got.Indices()) != 2 {
		t.Errorf("Indices = %v", got.Indices())
	}

	if res.Total != 3 || len(res.Hits) != 3 {
		t.Errorf("hits = %d/%d, want 3", res.Total, len(res.Hits))
	}
	if len(res.Clusters) != 2 {
		t.Fatalf("clusters = %+v", res.Clusters)
	}
	if res.Clusters[0].Name != "x" || res.Clusters[0].Absent || len(res.Clusters[0].Members) != 2 {
		t.Errorf("clusters[0] = %+v", res.Clusters[0])
	}
	if !res.Clusters[1].Absent {
		t.Errorf("clusters[1] = %+v, want absent", res.Clusters[1])
	}
}

func TestSearchBuilder_LeavesSignatureFieldUnset(t *testing.T) {
	var explicit bool
	mock := &mockClusteringUC{
		searchFn: func(_ context.Context, req *request.Request) (clusteringuc.Response, error) {
			explicit = req.HasSignatureField()
			return clusteringuc.Response{}, nil
		},
	}

	if _, err := testClient(nil, nil, mock).Search().Do(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if explicit {
		t.Error("search without Field must leave the signature field to the index")
	}
}

func TestSearchBuilder_Errors(t *testing.T) {
	failing := &mockClusteringUC{
		searchFn: func(context.Context, *request.Request) (clusteringuc.Response, error) {
			return clusteringuc.Response{}, ErrBackend
		},
	}
	unused := &mockClusteringUC{
		searchFn: func(context.Context, *request.Request) (clusteringuc.Response, error) {
			t.Error("search must not run")
			return clusteringuc.Response{}, nil
		},
	}

	tests := []struct {
		name  string
		build func(c *Client) *SearchBuilder
		want  error
	}{
		{
			name:  "invalid span dsl",
			build: func(c *Client) *SearchBuilder { return c.Search("news").Span([]byte(`{"match":{}}`)) },
			want:  ErrTranslation,
		},
		{
			name:  "size too large",
			build: func(c *Client) *SearchBuilder { return c.Search("news").Size(request.MaxSize + 1) },
			want:  ErrValidation,
		},
		{
			name: "text and span together",
			build: func(c *Client) *SearchBuilder {
				return c.Search("news").Query("met").
					Span([]byte(`{"span_near":{"clauses":[{"span_term":{"text":"met"}}]}}`))
			},
			want: ErrValidation,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.build(testClient(nil, nil, unused)).Do(context.Background())
			if !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}

	t.Run("backend error", func(t *testing.T) {
		_, err := testClient(nil, nil, failing).Search("news").Query("met").Do(context.Background())
		if !errors.Is(err, ErrBackend) {
			t.Errorf("err = %v, want ErrBackend", err)
		}
	})
}

func TestTranslate(t *testing.T) {
	data, err := Translate("met #person", true)
	if err != nil {
		t.Fatalf("Translate: %v", err)
	}

	var got map[string]any
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	near, ok := got["span_near"].(map[string]any)
	if !ok {
		t.Fatalf("missing span_near: %s", data)
	}
	if near["slop"] != float64(7) || near["in_order"] != true {
		t.Errorf("slop/in_order = %v/%v", near["slop"], near["in_order"])
	}
	if clauses, _ := near["clauses"].([]any); len(clauses) != 2 {
		t.Errorf("clauses = %v, want 2", near["clauses"])
	}
}

// --- Health ---

func TestClient_Health(t *testing.T) {
	c := &Client{healthSvc: &mockHealthUC{report: healthuc.Report{
		Status: healthuc.Degraded,
		Checks: map[string]healthuc.CheckResult{"database": healthuc.CheckOK, "index:news": healthuc.CheckError},
	}}}

	h := c.Health(context.Background())
	if h.Status != StatusDegraded || h.Checks["index:news"] != "error" {
		t.Errorf("Health = %+v", h)
	}
	if err := c.Ready(context.Background()); err == nil || !strings.Contains(err.Error(), "index:news") {
		t.Errorf("Ready = %v, want index:news named", err)
	}
}

// --- end to end over in-memory bleve ---

func TestClient_EndToEnd(t *testing.T) {
	ctx := context.Background()
	c, err := New(ctx)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer c.Close()

	if _, err := c.Indices().Create(ctx, "news", WithFields("text", "person")); err != nil {
		t.Fatalf("Create: %v", err)
	}
	out := c.Documents("news").Index(ctx, []Document{
		{ID: "a", Fields: map[string]string{"text": "alice met oentityo", "person": "_ _ oentityo", "entityContent": "x"}},
		{ID: "b", Fields: map[string]string{"text": "bob met oentityo", "person": "_ _ oentityo", "entityContent": "x"}},
		{ID: "c", Fields: map[string]string{"text": "carol met oentityo", "person": "_ _ oentityo"}},
		{ID: "d", Fields: map[string]string{"text": "dave met nobody", "entityContent": "z"}},
	})
	for _, r := range out {
		if !r.OK {
			t.Fatalf("index %s: %v", r.ID, r.Err)
		}
	}

	res, err := c.Search("news").Query("met #person").Do(ctx)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if res.Total != 3 {
		t.Errorf("Total = %d, want 3", res.Total)
	}
	if len(res.Clusters) != 2 {
		t.Fatalf("clusters = %+v, want x and absent", res.Clusters)
	}
	if res.Clusters[0].Name != "x" || len(res.Clusters[0].Members) != 2 {
		t.Errorf("clusters[0] = %+v", res.Clusters[0])
	}
	if !res.Clusters[1].Absent {
		t.Errorf("clusters[1] = %+v, want absent", res.Clusters[1])
	}

	trailing, err := c.Search("news").Query("met #person ").Do(ctx)
	if err != nil {
		t.Fatalf("Search with trailing space: %v", err)
	}
	if trailing.Total != res.Total || len(trailing.Clusters) != len(res.Clusters) {
		t.Errorf("trailing space: total=%d clusters=%d, want %d and %d",
			trailing.Total, len(trailing.Clusters), res.Total, len(res.Clusters))
	}

	if err := c.Ready(ctx, "news"); err != nil {
		t.Errorf("Ready(news) = %v", err)
	}
	h := c.Health(ctx, "news", "missing")
	if h.Status != StatusDegraded || len(h.Failing()) != 1 || h.Failing()[0] != "index:missing" {
		t.Errorf("Health = %+v", h)
	}
	if err := c.Ready(ctx, "missing"); err == nil {
		t.Error("Ready(missing): expected error")
	}

	del := c.Documents("news").Delete(ctx, []string{"a", "missing"})
	if !del[0].OK || !errors.Is(del[1].Err, ErrDocumentNotFound) {
		t.Errorf("delete = %+v", del)
	}
}

func TestClient_ClustersOnIndexSignatureField(t *testing.T) {
	ctx := context.Background()
	c, err := New(ctx)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer c.Close()

	if _, err := c.Indices().Create(ctx, "news", WithClusterField("topic")); err != nil {
		t.Fatalf("Create: %v", err)
	}
	out := c.Documents("news").Index(ctx, []Document{
		{ID: "a", Fields: map[string]string{"text": "rates rise", "topic": "economy"}},
		{ID: "b", Fields: map[string]string{"text": "rates fall", "topic": "economy"}},
		{ID: "c", Fields: map[string]string{"text": "rates hold", "topic": "policy"}},
	})
	for _, r := range out {
		if !r.OK {
			t.Fatalf("index %s: %v", r.ID, r.Err)
		}
	}

	res, err := c.Search("news").Query("rates").Do(ctx)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(res.Clusters) != 2 || res.Clusters[0].Name != "economy" || res.Clusters[1].Name != "policy" {
		t.Errorf("clusters = %+v, want economy then policy", res.Clusters)
	}

	explicit, err := c.Search("news").Query("rates").Field(cluster.DefaultSignatureField).Do(ctx)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(explicit.Clusters) != 1 || !explicit.Clusters[0].Absent {
		t.Errorf("clusters = %+v, want one absent cluster", explicit.Clusters)
	}
}
