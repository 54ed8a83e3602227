package document

import (
	"fmt"
	"regexp"
)

var idRegex = regexp.MustCompile(`^[a-zA-Z0-9_:.-]+$`)

// MaxFieldsSize is the maximum total size of a document's field values in bytes.
const MaxFieldsSize = 163840 // 160KB

// Document is an entity-annotated document (immutable value object).
// Fields hold whitespace-tokenized text: "text" carries the masked sentence,
// entity fields carry the entity sentinel at the entity positions.
type Document struct {
	id     string
	fields map[string]string
}

// New validates and creates a Document.
// ID: ^[a-zA-Z0-9_:.-]+$, 1-256 chars. Fields: at least one, max 160KB total.
func New(id string, fields map[string]string) (Document, error) {
	if id == "" {
		return Document{}, fmt.Errorf("document ID is required")
	}
	if len(id) > 256 {
		return Document{}, fmt.Errorf("document ID too long (max 256)")
	}
	if !idRegex.MatchString(id) {
		return Document{}, fmt.Errorf("document ID must be alphanumeric with underscores, colons, dots and hyphens")
	}
	if len(fields) == 0 {
		return Document{}, fmt.Errorf("document has no fields")
	}
	size := 0
	for k, v := range fields {
		if k == "" {
			return Document{}, fmt.Errorf("field name is required")
		}
		size += len(k) + len(v)
	}
	if size > MaxFieldsSize {
		return Document{}, fmt.Errorf("document too large (max %d bytes)", MaxFieldsSize)
	}

	return Document{id: id, fields: cloneStringMap(fields)}, nil
}

// Reconstruct creates a Document without validation (storage hydration).
func Reconstruct(id string, fields map[string]string) Document {
	return Document{id: id, fields: fields}
}

// ID returns the document identifier.
func (d *Document) ID() string { return d.id }

// Fields returns the document fields.
func (d *Document) Fields() map[string]string { return d.fields }

// Field returns a single field value.
func (d *Document) Field(name string) (string, bool) {
	v, ok := d.fields[name]
	return v, ok
}

func cloneStringMap(m map[string]string) map[string]string {
	if m == nil {
		return nil
	}
	c := make(map[string]string, len(m))
	for k, v := range m {
		c[k] = v
	}
	return c
}
