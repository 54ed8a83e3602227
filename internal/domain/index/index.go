package index

import (
	"fmt"
	"regexp"
	"time"

	"github.com/kailas-cloud/entitysearch/internal/domain/cluster"
	"github.com/kailas-cloud/entitysearch/internal/domain/index/field"
	"github.com/kailas-cloud/entitysearch/internal/domain/query"
)

var nameRegex = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// MaxFields is the maximum number of fields in an index schema.
const MaxFields = 64

// Index is the index aggregate (immutable value object).
// The schema always contains the positional "text" field and the signature field.
type Index struct {
	name           string
	fields         []field.Field
	signatureField string
	createdAt      int64
}

func validateName(name string) error {
	if name == "" {
		return fmt.Errorf("index name is required")
	}
	if len(name) > 64 {
		return fmt.Errorf("index name too long (max 64)")
	}
	if !nameRegex.MatchString(name) {
		return fmt.Errorf("index name must be alphanumeric with underscores and hyphens")
	}
	return nil
}

func validateFields(fields []field.Field) error {
	if len(fields) > MaxFields {
		return fmt.Errorf("too many fields (max %d)", MaxFields)
	}
	seen := make(map[string]bool, len(fields))
	for _, f := range fields {
		if seen[f.Name()] {
			return fmt.Errorf("duplicate field name: %s", f.Name())
		}
		seen[f.Name()] = true
	}
	return nil
}

// New validates and creates an Index.
// The "text" field and the signature field (default entityContent) are added
// when missing. The mask field must be positional, the signature field must be a tag.
func New(name string, fields []field.Field, signatureField string) (Index, error) {
	if err := validateName(name); err != nil {
		return Index{}, err
	}
	if signatureField == "" {
		signatureField = cluster.DefaultSignatureField
	}
	if err := validateFields(fields); err != nil {
		return Index{}, err
	}

	out := make([]field.Field, 0, len(fields)+2)
	var hasText, hasSig bool
	for _, f := range fields {
		switch f.Name() {
		case query.MaskField:
			if !f.Positional() {
				return Index{}, fmt.Errorf("field %q must be a text field", query.MaskField)
			}
			hasText = true
		case signatureField:
			if f.FieldType() != field.Tag {
				return Index{}, fmt.Errorf("signature field %q must be a tag field", signatureField)
			}
			hasSig = true
		}
		out = append(out, f)
	}
	if !hasText {
		out = append([]field.Field{field.Reconstruct(query.MaskField, field.Text)}, out...)
	}
	if !hasSig {
		out = append(out, field.Reconstruct(signatureField, field.Tag))
	}
	if len(out) > MaxFields {
		return Index{}, fmt.Errorf("too many fields (max %d)", MaxFields)
	}

	return Index{
		name:           name,
		fields:         out,
		signatureField: signatureField,
		createdAt:      time.Now().UnixMilli(),
	}, nil
}

// Reconstruct creates an Index without validation (storage hydration).
func Reconstruct(name string, fields []field.Field, signatureField string, createdAt int64) Index {
	return Index{name: name, fields: fields, signatureField: signatureField, createdAt: createdAt}
}

// Name returns the index name.
func (i Index) Name() string { return i.name }

// Fields returns the schema fields.
func (i Index) Fields() []field.Field { return i.fields }

// SignatureField returns the field hits of this index are clustered on.
func (i Index) SignatureField() string { return i.signatureField }

// CreatedAt returns the creation timestamp (unix millis).
func (i Index) CreatedAt() int64 { return i.createdAt }
