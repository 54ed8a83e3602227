package chi

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
	"go.uber.org/zap"

	"github.com/kailas-cloud/entitysearch/internal/domain"
	"github.com/kailas-cloud/entitysearch/internal/domain/query"
	"github.com/kailas-cloud/entitysearch/internal/domain/search/request"
	"github.com/kailas-cloud/entitysearch/internal/logger"
	clusteringuc "github.com/kailas-cloud/entitysearch/internal/usecase/clustering"
)

// SearchWithClusters handles GET and POST on /_search_with_clusters,
// /{index}/_search_with_clusters and /{index}/{type}/_search_with_clusters.
// POST requires a body; GET must not carry one.
func (s *Server) SearchWithClusters(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(w, r)
	if err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid request body: "+err.Error())
		return
	}
	hasBody := len(bytes.TrimSpace(body)) > 0

	var params request.Params
	switch r.Method {
	case http.MethodPost:
		if !hasBody {
			writeError(w, http.StatusBadRequest, CodeBadRequest, "request body is required")
			return
		}
		var req SearchWithClustersRequest
		if err := json.Unmarshal(body, &req); err != nil {
			writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid request body: "+err.Error())
			return
		}
		params, err = paramsFromBody(req, body)
	default:
		if hasBody {
			writeError(w, http.StatusBadRequest, CodeBadRequest, "request body is not allowed")
			return
		}
		var qp SearchWithClustersParams
		if err := bindSearchParams(r, &qp); err != nil {
			writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid query parameters: "+err.Error())
			return
		}
		params = paramsFromQuery(qp)
	}
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	params.Indices = splitIndices(chi.URLParam(r, "index"))
	if chi.URLParam(r, "type") == request.DocumentModeType && params.Search != nil {
		params.Search.Type = request.DocumentModeType
	}
	req, err := request.New(params)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	ctx := logger.WithFields(r.Context(), zap.Strings("indices", req.Indices()))
	resp, err := s.clustering.Search(ctx, &req)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, searchResponseToDTO(&resp))
}

func bindSearchParams(r *http.Request, p *SearchWithClustersParams) error {
	q := r.URL.Query()
	if err := runtime.BindQueryParameter("form", true, false, "q", q, &p.Q); err != nil {
		return err //nolint:wrapcheck // message names the parameter
	}
	if err := runtime.BindQueryParameter("form", true, false, "type", q, &p.Type); err != nil {
		return err //nolint:wrapcheck // message names the parameter
	}
	if err := runtime.BindQueryParameter("form", true, false, "from", q, &p.From); err != nil {
		return err //nolint:wrapcheck // message names the parameter
	}
	if err := runtime.BindQueryParameter("form", true, false, "size", q, &p.Size); err != nil {
		return err //nolint:wrapcheck // message names the parameter
	}
	if err := runtime.BindQueryParameter("form", true, false, "field", q, &p.Field); err != nil {
		return err //nolint:wrapcheck // message names the parameter
	}
	return nil
}

func paramsFromQuery(p SearchWithClustersParams) request.Params {
	search := &request.Search{Query: p.Q}
	if p.Type != nil {
		search.Type = *p.Type
	}
	if p.From != nil {
		search.From = *p.From
	}
	if p.Size != nil {
		search.Size = *p.Size
	}
	out := request.Params{Search: search}
	if p.Field != nil {
		out.SignatureField = *p.Field
	}
	return out
}

func paramsFromBody(req SearchWithClustersRequest, body []byte) (request.Params, error) {
	out := request.Params{SignatureField: req.Field}
	if req.SearchRequest == nil {
		return out, nil
	}
	search, err := searchFromDTO(req.SearchRequest, body)
	if err != nil {
		return request.Params{}, err
	}
	out.Search = search
	return out, nil
}

// searchFromDTO decodes the query: a JSON string is a text query, an object
// is a span_near query. A missing or null query is rejected.
func searchFromDTO(sr *SearchRequest, body []byte) (*request.Search, error) {
	out := &request.Search{Type: sr.Type, From: sr.From, Size: sr.Size}

	raw := bytes.TrimSpace(sr.Query)
	switch {
	case len(raw) == 0 || bytes.Equal(raw, []byte("null")):
		return nil, domain.NewTranslationError(string(body), errors.New("search_request.query is required"))
	case raw[0] == '"':
		var text string
		if err := json.Unmarshal(raw, &text); err != nil {
			return nil, domain.NewTranslationError(string(raw), err)
		}
		out.Query = &text
	case raw[0] == '{':
		q, err := query.ParseDSL(raw)
		if err != nil {
			return nil, domain.NewTranslationError(string(raw), err)
		}
		out.Span = &q
	default:
		return nil, domain.NewTranslationError(string(raw),
			errors.New("query must be a string or a span_near object"))
	}
	return out, nil
}

func splitIndices(param string) []string {
	if param == "" {
		return nil
	}
	parts := strings.Split(param, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func searchResponseToDTO(resp *clusteringuc.Response) SearchWithClustersResponse {
	hits := make([]Hit, len(resp.Hits))
	for i, h := range resp.Hits {
		source := h.Fields
		if source == nil {
			source = map[string]string{}
		}
		hits[i] = Hit{Index: h.Index, ID: h.ID, Score: h.Score, Source: source}
	}

	clusters := make([]ClusterJS, len(resp.Clusters))
	for i, c := range resp.Clusters {
		members := make([]ClusterMember, len(c.Members))
		for j, id := range c.Members {
			members[j] = ClusterMember{ID: id}
		}
		clusters[i] = ClusterJS{Name: c.Name, Document: members}
	}

	return SearchWithClustersResponse{
		Took:     resp.Search.Took.Milliseconds(),
		TimedOut: resp.Search.TimedOut,
		Shards: ShardsInfo{
			Total:      resp.Search.Shards.Total,
			Successful: resp.Search.Shards.Successful,
			Failed:     resp.Search.Shards.Failed,
		},
		Hits:     HitsInfo{Total: resp.Search.Total, Hits: hits},
		Clusters: clusters,
	}
}
