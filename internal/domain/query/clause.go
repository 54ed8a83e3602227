package query

// Span query constants.
const (
	// DefaultSlop is the number of non-matching positions allowed between clauses.
	DefaultSlop = 7
	// EntitySentinel is the indexed placeholder value for an entity occurrence.
	EntitySentinel = "oentityo"
	// DocumentFieldSuffix selects the document-level variant of an entity field.
	DocumentFieldSuffix = "_begin"
	// MaskField is the logical field every clause reports its match in.
	MaskField = "text"
)

// Clause is one positional element of a SpanQuery.
// Implementations: TermClause, MaskedEntityClause.
type Clause interface {
	// PositionField is the field whose positions the clause is matched against.
	PositionField() string
	// Term is the single term the clause matches.
	Term() string
	// ReportedField is the field the match is attributed to.
	ReportedField() string

	isClause()
}

// TermClause matches a literal term in a field.
type TermClause struct {
	Field string
	Value string
}

// NewTermClause creates a clause matching value in the text field.
func NewTermClause(value string) TermClause {
	return TermClause{Field: MaskField, Value: value}
}

// PositionField returns the matched field.
func (c TermClause) PositionField() string { return c.Field }

// Term returns the matched value.
func (c TermClause) Term() string { return c.Value }

// ReportedField returns the matched field (no masking).
func (c TermClause) ReportedField() string { return c.Field }

func (TermClause) isClause() {}

// MaskedEntityClause matches InnerValue in InnerField and reports the span as MaskedField.
type MaskedEntityClause struct {
	MaskedField string
	InnerField  string
	InnerValue  string
}

// NewMaskedEntityClause creates an entity clause over field, masked as the text field.
func NewMaskedEntityClause(field string) MaskedEntityClause {
	return MaskedEntityClause{
		MaskedField: MaskField,
		InnerField:  field,
		InnerValue:  EntitySentinel,
	}
}

// PositionField returns the inner (entity) field.
func (c MaskedEntityClause) PositionField() string { return c.InnerField }

// Term returns the entity sentinel value.
func (c MaskedEntityClause) Term() string { return c.InnerValue }

// ReportedField returns the masking field.
func (c MaskedEntityClause) ReportedField() string { return c.MaskedField }

func (MaskedEntityClause) isClause() {}
