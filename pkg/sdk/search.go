package entitysearch

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/kailas-cloud/entitysearch/internal/domain"
	"github.com/kailas-cloud/entitysearch/internal/domain/query"
	"github.com/kailas-cloud/entitysearch/internal/domain/search/request"
	clusteringuc "github.com/kailas-cloud/entitysearch/internal/usecase/clustering"
)

// SearchBuilder is a fluent builder for a search with clusters.
// Without Query or Span every document matches.
type SearchBuilder struct {
	indices        []string
	signatureField string
	svc            clusteringUseCase
	obs            *observer

	text         *string
	span         *query.SpanQuery
	documentMode bool
	from         int
	size         int
	err          error
}

// Query sets a text query. Tokens starting with '#' match any entity of
// that type, other tokens match words of the "text" field.
func (b *SearchBuilder) Query(q string) *SearchBuilder {
	b.text = &q
	return b
}

// Span sets a span_near query in its JSON form.
func (b *SearchBuilder) Span(dsl []byte) *SearchBuilder {
	q, err := query.ParseDSL(dsl)
	if err != nil {
		b.err = domain.NewTranslationError(string(dsl), err)
		return b
	}
	b.span = &q
	return b
}

// DocumentMode targets the document-level variant of entity fields.
func (b *SearchBuilder) DocumentMode() *SearchBuilder {
	b.documentMode = true
	return b
}

// From sets the hit offset.
func (b *SearchBuilder) From(n int) *SearchBuilder {
	b.from = n
	return b
}

// Size sets the page size. Default: 10.
func (b *SearchBuilder) Size(n int) *SearchBuilder {
	b.size = n
	return b
}

// Field sets the field hits are clustered on. Without it the field the
// indices were created with is used, then the client default.
func (b *SearchBuilder) Field(name string) *SearchBuilder {
	b.signatureField = name
	return b
}

// Do runs the search and clusters the returned page.
func (b *SearchBuilder) Do(ctx context.Context) (res SearchResult, err error) {
	defer func(start time.Time) { b.obs.observe("search", start, err) }(time.Now())

	if b.err != nil {
		return SearchResult{}, fmt.Errorf("search: %w", b.err)
	}

	search := &request.Search{Query: b.text, Span: b.span, From: b.from, Size: b.size}
	if b.documentMode {
		search.Type = request.DocumentModeType
	}
	req, err := request.New(request.Params{
		Indices:        b.indices,
		Search:         search,
		SignatureField: b.signatureField,
	})
	if err != nil {
		return SearchResult{}, fmt.Errorf("search: %w", err)
	}

	resp, err := b.svc.Search(ctx, &req)
	if err != nil {
		return SearchResult{}, fmt.Errorf("search: %w", err)
	}

	b.obs.observeClusters(len(resp.Clusters))
	return fromResponse(&resp), nil
}

// Translate returns the span_near JSON a text query is rewritten to.
func Translate(text string, documentMode bool) ([]byte, error) {
	q := query.TranslateText(text, documentMode)
	data, err := json.Marshal(q)
	if err != nil {
		return nil, fmt.Errorf("translate: %w", err)
	}
	return data, nil
}

func fromResponse(resp *clusteringuc.Response) SearchResult {
	hits := make([]Hit, len(resp.Hits))
	for i, h := range resp.Hits {
		hits[i] = Hit{Index: h.Index, ID: h.ID, Score: h.Score, Fields: h.Fields}
	}
	clusters := make([]Cluster, len(resp.Clusters))
	for i, c := range resp.Clusters {
		members := make([]string, len(c.Members))
		copy(members, c.Members)
		clusters[i] = Cluster{Name: c.Name.Value, Absent: !c.Name.Present, Members: members}
	}
	return SearchResult{
		Took:     resp.Search.Took,
		TimedOut: resp.Search.TimedOut,
		Total:    resp.Search.Total,
		Hits:     hits,
		Clusters: clusters,
	}
}
