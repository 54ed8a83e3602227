package request

import (
	"errors"
	"fmt"
	"regexp"

	"go.uber.org/multierr"

	"github.com/kailas-cloud/entitysearch/internal/domain"
	"github.com/kailas-cloud/entitysearch/internal/domain/cluster"
	"github.com/kailas-cloud/entitysearch/internal/domain/query"
)

// Search parameter limits.
const (
	// MaxQueryLength is the maximum allowed text query length in bytes.
	MaxQueryLength = 4096
	DefaultSize    = 10
	MaxSize        = 1000
	MaxIndices     = 16
)

// DocumentModeType is the "type" value that switches entity clauses to their
// document-level field variant.
const DocumentModeType = "d_document"

var indexRegex = regexp.MustCompile(`^[a-zA-Z0-9_:-]+$`)

// Search describes the delegate search the clusters are computed over.
// Query and Span are mutually exclusive; with neither set every document matches.
type Search struct {
	Query *string
	Span  *query.SpanQuery
	Type  string
	From  int
	Size  int
}

// Params is the unvalidated input of New.
type Params struct {
	Indices        []string
	Search         *Search
	SignatureField string
}

// Request is a validated search-with-clusters request.
type Request struct {
	indices        []string
	query          *string
	span           *query.SpanQuery
	documentMode   bool
	from           int
	size           int
	signatureField string
	explicitField  bool
}

// New validates p. All validation failures are reported together in a
// *domain.ValidationError.
func New(p Params) (Request, error) {
	var errs error

	if len(p.Indices) > MaxIndices {
		errs = multierr.Append(errs, fmt.Errorf("too many indices (max %d)", MaxIndices))
	}
	for _, idx := range p.Indices {
		if !indexRegex.MatchString(idx) {
			errs = multierr.Append(errs, fmt.Errorf("invalid index name %q", idx))
		}
	}

	signatureField := p.SignatureField
	if signatureField == "" {
		signatureField = cluster.DefaultSignatureField
	}

	s := p.Search
	if s == nil {
		errs = multierr.Append(errs, errors.New("no delegate search request"))
		return Request{}, domain.NewValidationError(errs)
	}

	if s.Query != nil && s.Span != nil {
		errs = multierr.Append(errs, errors.New("query text and span query are mutually exclusive"))
	}
	if s.Query != nil && len(*s.Query) > MaxQueryLength {
		errs = multierr.Append(errs, fmt.Errorf("query too long (max %d bytes)", MaxQueryLength))
	}
	if s.Span != nil && s.Span.IsEmpty() {
		errs = multierr.Append(errs, errors.New("span query has no clauses"))
	}
	if s.From < 0 {
		errs = multierr.Append(errs, errors.New("from must not be negative"))
	}
	if s.Size < 0 {
		errs = multierr.Append(errs, errors.New("size must not be negative"))
	}
	if s.Size > MaxSize {
		errs = multierr.Append(errs, fmt.Errorf("size must not exceed %d", MaxSize))
	}

	if errs != nil {
		return Request{}, domain.NewValidationError(errs)
	}

	size := s.Size
	if size == 0 {
		size = DefaultSize
	}

	indices := make([]string, len(p.Indices))
	copy(indices, p.Indices)

	return Request{
		indices:        indices,
		query:          s.Query,
		span:           s.Span,
		documentMode:   s.Type == DocumentModeType,
		from:           s.From,
		size:           size,
		signatureField: signatureField,
		explicitField:  p.SignatureField != "",
	}, nil
}

// Indices returns the target indices (empty means the backend default).
func (r *Request) Indices() []string { return r.indices }

// Query returns the free-text query, if present.
func (r *Request) Query() (string, bool) {
	if r.query == nil {
		return "", false
	}
	return *r.query, true
}

// Span returns the caller-supplied span query (nil when absent).
func (r *Request) Span() *query.SpanQuery { return r.span }

// DocumentMode reports whether entity clauses target the "_begin" field variant.
func (r *Request) DocumentMode() bool { return r.documentMode }

// From returns the hit offset.
func (r *Request) From() int { return r.from }

// Size returns the number of hits to fetch.
func (r *Request) Size() int { return r.size }

// SignatureField returns the field hits are clustered on.
func (r *Request) SignatureField() string { return r.signatureField }

// HasSignatureField reports whether the caller named the signature field.
func (r *Request) HasSignatureField() bool { return r.explicitField }
