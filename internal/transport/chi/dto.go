package chi

import (
	"encoding/json"
	"time"

	"github.com/kailas-cloud/entitysearch/internal/domain/cluster"
)

// ErrorResponseCode is the machine-readable error code of an ErrorResponse.
type ErrorResponseCode string

// Error codes.
const (
	CodeBadRequest         ErrorResponseCode = "bad_request"
	CodeValidationFailed   ErrorResponseCode = "validation_failed"
	CodeUnauthorized       ErrorResponseCode = "unauthorized"
	CodeIndexNotFound      ErrorResponseCode = "index_not_found"
	CodeIndexAlreadyExists ErrorResponseCode = "index_already_exists"
	CodeDocumentNotFound   ErrorResponseCode = "document_not_found"
	CodeBackendError       ErrorResponseCode = "backend_error"
	CodeInternalError      ErrorResponseCode = "internal_error"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Code    ErrorResponseCode `json:"code"`
	Message string            `json:"message"`
}

// SearchWithClustersRequest is the POST body of the search-with-clusters endpoints.
type SearchWithClustersRequest struct {
	SearchRequest *SearchRequest `json:"search_request"`
	Field         string         `json:"field,omitempty"`
}

// SearchRequest is the delegate search. Query is either a text string or a
// span_near object and is required.
type SearchRequest struct {
	Query json.RawMessage `json:"query,omitempty"`
	Type  string          `json:"type,omitempty"`
	From  int             `json:"from,omitempty"`
	Size  int             `json:"size,omitempty"`
}

// SearchWithClustersParams are the GET query parameters.
type SearchWithClustersParams struct {
	Q     *string `json:"q,omitempty"`
	Type  *string `json:"type,omitempty"`
	From  *int    `json:"from,omitempty"`
	Size  *int    `json:"size,omitempty"`
	Field *string `json:"field,omitempty"`
}

// SearchWithClustersResponse carries the delegate search response with the
// ranked clusters alongside.
type SearchWithClustersResponse struct {
	Took     int64       `json:"took"`
	TimedOut bool        `json:"timed_out"`
	Shards   ShardsInfo  `json:"_shards"`
	Hits     HitsInfo    `json:"hits"`
	Clusters []ClusterJS `json:"clusters"`
}

// ShardsInfo reports partition status.
type ShardsInfo struct {
	Total      int `json:"total"`
	Successful int `json:"successful"`
	Failed     int `json:"failed"`
}

// HitsInfo holds the total match count and the returned page.
type HitsInfo struct {
	Total int   `json:"total"`
	Hits  []Hit `json:"hits"`
}

// Hit is a single search hit.
type Hit struct {
	Index  string            `json:"_index"`
	ID     string            `json:"_id"`
	Score  float64           `json:"_score"`
	Source map[string]string `json:"_source"`
}

// ClusterJS is one ranked cluster. A null name is the absent-signature cluster.
type ClusterJS struct {
	Name     cluster.Signature `json:"name"`
	Document []ClusterMember   `json:"document"`
}

// ClusterMember is a cluster member reference.
type ClusterMember struct {
	ID string `json:"id"`
}

// CreateIndexRequest is the body of PUT /{index}.
type CreateIndexRequest struct {
	Fields         []string `json:"fields,omitempty"`
	SignatureField string   `json:"signature_field,omitempty"`
}

// IndexResponse describes an index.
type IndexResponse struct {
	Name           string            `json:"name"`
	Fields         []FieldDefinition `json:"fields"`
	SignatureField string            `json:"signature_field"`
	CreatedAt      time.Time         `json:"created_at"`
}

// FieldDefinition is one schema field.
type FieldDefinition struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// BulkRequest is the body of POST /{index}/_bulk.
type BulkRequest struct {
	Documents []BulkDocument `json:"documents"`
}

// BulkDocument is one document to index. An empty ID is generated.
type BulkDocument struct {
	ID     string            `json:"id,omitempty"`
	Fields map[string]string `json:"fields"`
}

// BulkDeleteRequest is the body of POST /{index}/_bulk_delete.
type BulkDeleteRequest struct {
	IDs []string `json:"ids"`
}

// BatchResponse reports per-item outcomes of a bulk request.
type BatchResponse struct {
	Items     []BatchResultItem `json:"items"`
	Succeeded int               `json:"succeeded"`
	Failed    int               `json:"failed"`
}

// BatchResultItem is the outcome of one bulk item.
type BatchResultItem struct {
	ID     string         `json:"id"`
	Status string         `json:"status"`
	Error  *ErrorResponse `json:"error,omitempty"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}
