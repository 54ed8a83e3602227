package chi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/entitysearch/internal/domain"
	dombatch "github.com/kailas-cloud/entitysearch/internal/domain/batch"
	domindex "github.com/kailas-cloud/entitysearch/internal/domain/index"
	clusteringuc "github.com/kailas-cloud/entitysearch/internal/usecase/clustering"
	documentuc "github.com/kailas-cloud/entitysearch/internal/usecase/document"
	healthuc "github.com/kailas-cloud/entitysearch/internal/usecase/health"
	indexuc "github.com/kailas-cloud/entitysearch/internal/usecase/index"
)

// maxBodyBytes caps request bodies.
const maxBodyBytes = 16 << 20

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server serves the search-with-clusters API.
type Server struct {
	clustering     *clusteringuc.Service
	indices        *indexuc.Service
	documents      *documentuc.Service
	health         *healthuc.Service
	signatureField string
	logger         *zap.Logger
	errorHandlers  []errorHandler
}

// NewServer creates an HTTP API server. signatureField is the tag field of
// indices created without one.
func NewServer(
	clustering *clusteringuc.Service,
	indices *indexuc.Service,
	documents *documentuc.Service,
	health *healthuc.Service,
	signatureField string,
	logger *zap.Logger,
) *Server {
	s := &Server{
		clustering:     clustering,
		indices:        indices,
		documents:      documents,
		health:         health,
		signatureField: signatureField,
		logger:         logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrValidation, http.StatusBadRequest, CodeValidationFailed),
		sentinelHandler(domain.ErrTranslation, http.StatusBadRequest, CodeBadRequest),
		sentinelHandler(domain.ErrIndexNotFound, http.StatusNotFound, CodeIndexNotFound),
		sentinelHandler(domain.ErrDocumentNotFound, http.StatusNotFound, CodeDocumentNotFound),
		sentinelHandler(domain.ErrIndexExists, http.StatusConflict, CodeIndexAlreadyExists),
		sentinelHandler(domain.ErrBackend, http.StatusBadGateway, CodeBackendError),
	}
	return s
}

// Routes registers every endpoint on r.
func (s *Server) Routes(r chi.Router) {
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)

	r.Get("/_search_with_clusters", s.SearchWithClusters)
	r.Post("/_search_with_clusters", s.SearchWithClusters)
	r.Get("/{index}/_search_with_clusters", s.SearchWithClusters)
	r.Post("/{index}/_search_with_clusters", s.SearchWithClusters)
	r.Get("/{index}/{type}/_search_with_clusters", s.SearchWithClusters)
	r.Post("/{index}/{type}/_search_with_clusters", s.SearchWithClusters)

	r.Put("/{index}", s.CreateIndex)
	r.Head("/{index}", s.IndexExists)
	r.Delete("/{index}", s.DropIndex)

	r.Post("/{index}/_bulk", s.Bulk)
	r.Post("/{index}/_bulk_delete", s.BulkDelete)
}

// CreateIndex handles PUT /{index}. An empty body creates the default schema.
func (s *Server) CreateIndex(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(w, r)
	if err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	var req CreateIndexRequest
	if len(body) > 0 {
		if err := json.Unmarshal(body, &req); err != nil {
			writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid request body: "+err.Error())
			return
		}
	}

	signatureField := req.SignatureField
	if signatureField == "" {
		signatureField = s.signatureField
	}

	idx, err := s.indices.Create(r.Context(), chi.URLParam(r, "index"), req.Fields, signatureField)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, indexToDTO(idx))
}

// IndexExists handles HEAD /{index}.
func (s *Server) IndexExists(w http.ResponseWriter, r *http.Request) {
	ok, err := s.indices.Exists(r.Context(), chi.URLParam(r, "index"))
	if err != nil {
		s.logger.Warn("index exists check failed", zap.Error(err))
		w.WriteHeader(http.StatusBadGateway)
		return
	}
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// DropIndex handles DELETE /{index}.
func (s *Server) DropIndex(w http.ResponseWriter, r *http.Request) {
	if err := s.indices.Drop(r.Context(), chi.URLParam(r, "index")); err != nil {
		s.handleDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Bulk handles POST /{index}/_bulk.
func (s *Server) Bulk(w http.ResponseWriter, r *http.Request) {
	var req BulkRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if len(req.Documents) == 0 {
		writeError(w, http.StatusBadRequest, CodeValidationFailed, "documents must not be empty")
		return
	}

	items := make([]documentuc.Item, len(req.Documents))
	for i, d := range req.Documents {
		items[i] = documentuc.Item{ID: d.ID, Fields: d.Fields}
	}

	results := s.documents.Index(r.Context(), chi.URLParam(r, "index"), items)
	writeJSON(w, http.StatusOK, batchToDTO(results))
}

// BulkDelete handles POST /{index}/_bulk_delete.
func (s *Server) BulkDelete(w http.ResponseWriter, r *http.Request) {
	var req BulkDeleteRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if len(req.IDs) == 0 {
		writeError(w, http.StatusBadRequest, CodeValidationFailed, "ids must not be empty")
		return
	}

	results := s.documents.Delete(r.Context(), chi.URLParam(r, "index"), req.IDs)
	writeJSON(w, http.StatusOK, batchToDTO(results))
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, HealthResponse{
		Status: string(report.Status),
		Checks: checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	if r.Body == nil {
		return nil, nil
	}
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	return data, nil
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	body, err := readBody(w, r)
	if err != nil {
		return err
	}
	if len(body) == 0 {
		return errors.New("request body is required")
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("decode body: %w", err)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code ErrorResponseCode, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a client-facing message without exposing internals.
// Validation and translation errors describe the caller's input and are returned in full.
func safeDomainMessage(err error) string {
	if errors.Is(err, domain.ErrValidation) {
		return err.Error()
	}
	var te *domain.TranslationError
	if errors.As(err, &te) {
		return te.Error()
	}
	sentinels := []error{
		domain.ErrIndexNotFound,
		domain.ErrDocumentNotFound,
		domain.ErrIndexExists,
		domain.ErrBackend,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code ErrorResponseCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, CodeInternalError, "internal error")
}

func indexToDTO(idx domindex.Index) IndexResponse {
	fields := make([]FieldDefinition, len(idx.Fields()))
	for i, f := range idx.Fields() {
		fields[i] = FieldDefinition{Name: f.Name(), Type: string(f.FieldType())}
	}
	return IndexResponse{
		Name:           idx.Name(),
		Fields:         fields,
		SignatureField: idx.SignatureField(),
		CreatedAt:      time.UnixMilli(idx.CreatedAt()).UTC(),
	}
}

func batchToDTO(results []dombatch.Result) BatchResponse {
	c := dombatch.Count(results)
	resp := BatchResponse{
		Items:     make([]BatchResultItem, len(results)),
		Succeeded: c.OK,
		Failed:    c.Failed,
	}
	for i, res := range results {
		item := BatchResultItem{ID: res.ID(), Status: string(res.Status())}
		if res.Err() != nil {
			item.Error = &ErrorResponse{
				Code:    batchErrorCode(res.Err()),
				Message: safeDomainMessage(res.Err()),
			}
		}
		resp.Items[i] = item
	}
	return resp
}

func batchErrorCode(err error) ErrorResponseCode {
	switch {
	case errors.Is(err, domain.ErrIndexNotFound):
		return CodeIndexNotFound
	case errors.Is(err, domain.ErrDocumentNotFound):
		return CodeDocumentNotFound
	case errors.Is(err, domain.ErrValidation):
		return CodeValidationFailed
	case errors.Is(err, domain.ErrBackend):
		return CodeBackendError
	default:
		return CodeInternalError
	}
}
