package clustering

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/entitysearch/internal/domain/cluster"
	"github.com/kailas-cloud/entitysearch/internal/domain/query"
	"github.com/kailas-cloud/entitysearch/internal/domain/search/request"
	"github.com/kailas-cloud/entitysearch/internal/domain/search/result"
	"github.com/kailas-cloud/entitysearch/internal/logger"
	"github.com/kailas-cloud/entitysearch/internal/metrics"
)

// Query sources, used as a metrics label.
const (
	SourceText     = "text"
	SourceSpan     = "span"
	SourceMatchAll = "match_all"
)

// Response is the delegate search outcome plus the ranked clusters over its hits.
type Response struct {
	Search   result.Meta
	Hits     []cluster.Hit
	Clusters cluster.List
}

// Service translates queries, runs the delegate search and clusters the hits.
type Service struct {
	repo         Repository
	resolver     SignatureResolver
	defaultField string
}

// New creates a clustering service.
func New(repo Repository) *Service {
	return &Service{repo: repo}
}

// WithSignatureResolver looks up the target indices' signature field when a
// request does not name one.
func (s *Service) WithSignatureResolver(r SignatureResolver) *Service {
	s.resolver = r
	return s
}

// WithDefaultSignatureField sets the field used when neither the request nor
// the target indices name one.
func (s *Service) WithDefaultSignatureField(name string) *Service {
	s.defaultField = name
	return s
}

// Search runs the delegate search for req and groups its hits by signature.
// Backend failures are returned wrapped; nothing is retried.
func (s *Service) Search(ctx context.Context, req *request.Request) (Response, error) {
	log := logger.FromContext(ctx)
	q, source := spanQuery(req)
	if source == SourceText {
		metrics.SearchClauses.Observe(float64(len(q.Clauses)))
		log.Debug("Translated query",
			zap.Int("clauses", len(q.Clauses)),
			zap.Bool("document_mode", req.DocumentMode()),
		)
	}

	start := time.Now()
	res, err := s.repo.Search(ctx, req.Indices(), q, req.From(), req.Size())
	metrics.SearchDuration.WithLabelValues(source).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.SearchRequestsTotal.WithLabelValues(source, "error").Inc()
		log.Error("Delegate search failed",
			zap.Strings("indices", req.Indices()),
			zap.String("source", source),
			zap.Error(err),
		)
		return Response{}, fmt.Errorf("delegate search: %w", err)
	}

	signatureField := s.signatureField(ctx, req)
	clusters := cluster.Rank(cluster.Build(res.Hits, signatureField))

	metrics.SearchRequestsTotal.WithLabelValues(source, "ok").Inc()
	metrics.HitsPerRequest.Observe(float64(len(res.Hits)))
	metrics.ClustersPerRequest.Observe(float64(len(clusters)))

	log.Debug("Clustered hits",
		zap.Int("hits", len(res.Hits)),
		zap.Int("total", res.Meta.Total),
		zap.Int("clusters", len(clusters)),
		zap.String("signature_field", signatureField),
	)

	return Response{Search: res.Meta, Hits: res.Hits, Clusters: clusters}, nil
}

// signatureField resolves the clustering field: the request's own field, then
// the field the target indices were created with, then the configured default.
func (s *Service) signatureField(ctx context.Context, req *request.Request) string {
	if req.HasSignatureField() {
		return req.SignatureField()
	}
	if s.resolver != nil && len(req.Indices()) > 0 {
		f, err := s.resolver.SignatureField(ctx, req.Indices())
		if err != nil {
			logger.FromContext(ctx).Warn("Signature field lookup failed",
				zap.Strings("indices", req.Indices()),
				zap.Error(err),
			)
		} else if f != "" {
			return f
		}
	}
	if s.defaultField != "" {
		return s.defaultField
	}
	return req.SignatureField()
}

// spanQuery picks the query the delegate search runs: the translated text
// query, the caller's span query unchanged, or nil for match-all.
func spanQuery(req *request.Request) (*query.SpanQuery, string) {
	if text, ok := req.Query(); ok {
		q := query.TranslateText(text, req.DocumentMode())
		return &q, SourceText
	}
	if sq := req.Span(); sq != nil {
		return sq, SourceSpan
	}
	return nil, SourceMatchAll
}
