package query

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// Wire shapes of the span query DSL (Elasticsearch span_near family).
type (
	dslQuery struct {
		SpanNear *dslSpanNear `json:"span_near"`
	}

	dslSpanNear struct {
		Clauses []dslClause `json:"clauses"`
		Slop    *int        `json:"slop,omitempty"`
		InOrder *bool       `json:"in_order,omitempty"`
	}

	dslClause struct {
		SpanTerm         map[string]json.RawMessage `json:"span_term,omitempty"`
		FieldMaskingSpan *dslFieldMaskingSpan       `json:"field_masking_span,omitempty"`
	}

	dslFieldMaskingSpan struct {
		Query *dslClause `json:"query"`
		Field string     `json:"field"`
	}

	dslTermValue struct {
		Value *string `json:"value"`
	}
)

// MarshalJSON encodes the query as {"span_near": {...}}.
func (q SpanQuery) MarshalJSON() ([]byte, error) {
	clauses := make([]dslClause, 0, len(q.Clauses))
	for i, c := range q.Clauses {
		dc, err := encodeClause(c)
		if err != nil {
			return nil, fmt.Errorf("clause %d: %w", i, err)
		}
		clauses = append(clauses, dc)
	}

	slop := q.Slop
	inOrder := q.InOrder
	return json.Marshal(dslQuery{SpanNear: &dslSpanNear{
		Clauses: clauses,
		Slop:    &slop,
		InOrder: &inOrder,
	}})
}

func encodeClause(c Clause) (dslClause, error) {
	switch v := c.(type) {
	case TermClause:
		return spanTerm(v.Field, v.Value)
	case MaskedEntityClause:
		inner, err := spanTerm(v.InnerField, v.InnerValue)
		if err != nil {
			return dslClause{}, err
		}
		return dslClause{FieldMaskingSpan: &dslFieldMaskingSpan{Query: &inner, Field: v.MaskedField}}, nil
	default:
		return dslClause{}, fmt.Errorf("unsupported clause type %T", c)
	}
}

func spanTerm(field, value string) (dslClause, error) {
	raw, err := json.Marshal(value)
	if err != nil {
		return dslClause{}, err
	}
	return dslClause{SpanTerm: map[string]json.RawMessage{field: raw}}, nil
}

// ParseDSL decodes a span_near query. Only span_term and field_masking_span
// clauses are accepted. A missing slop means 0 and a missing in_order means true.
func ParseDSL(data []byte) (SpanQuery, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	var q dslQuery
	if err := dec.Decode(&q); err != nil {
		return SpanQuery{}, fmt.Errorf("decode span query: %w", err)
	}
	if q.SpanNear == nil {
		return SpanQuery{}, errors.New("span_near is required")
	}
	if len(q.SpanNear.Clauses) == 0 {
		return SpanQuery{}, errors.New("span_near.clauses must not be empty")
	}

	out := SpanQuery{InOrder: true}
	if q.SpanNear.Slop != nil {
		if *q.SpanNear.Slop < 0 {
			return SpanQuery{}, errors.New("span_near.slop must not be negative")
		}
		out.Slop = *q.SpanNear.Slop
	}
	if q.SpanNear.InOrder != nil {
		out.InOrder = *q.SpanNear.InOrder
	}

	out.Clauses = make([]Clause, 0, len(q.SpanNear.Clauses))
	for i := range q.SpanNear.Clauses {
		c, err := decodeClause(&q.SpanNear.Clauses[i])
		if err != nil {
			return SpanQuery{}, fmt.Errorf("clause %d: %w", i, err)
		}
		out.Clauses = append(out.Clauses, c)
	}
	return out, nil
}

func decodeClause(dc *dslClause) (Clause, error) {
	switch {
	case dc.SpanTerm != nil && dc.FieldMaskingSpan != nil:
		return nil, errors.New("clause must have exactly one of span_term, field_masking_span")
	case dc.SpanTerm != nil:
		field, value, err := decodeSpanTerm(dc.SpanTerm)
		if err != nil {
			return nil, err
		}
		return TermClause{Field: field, Value: value}, nil
	case dc.FieldMaskingSpan != nil:
		fms := dc.FieldMaskingSpan
		if fms.Field == "" {
			return nil, errors.New("field_masking_span.field is required")
		}
		if fms.Query == nil || fms.Query.SpanTerm == nil {
			return nil, errors.New("field_masking_span.query must be a span_term")
		}
		field, value, err := decodeSpanTerm(fms.Query.SpanTerm)
		if err != nil {
			return nil, err
		}
		return MaskedEntityClause{MaskedField: fms.Field, InnerField: field, InnerValue: value}, nil
	default:
		return nil, errors.New("unsupported clause, expected span_term or field_masking_span")
	}
}

func decodeSpanTerm(m map[string]json.RawMessage) (field, value string, err error) {
	if len(m) != 1 {
		return "", "", fmt.Errorf("span_term must name exactly one field, got %d", len(m))
	}
	for f, raw := range m {
		field = f
		if err = json.Unmarshal(raw, &value); err == nil {
			return field, value, nil
		}
		var tv dslTermValue
		if err = json.Unmarshal(raw, &tv); err != nil || tv.Value == nil {
			return "", "", fmt.Errorf("span_term.%s must be a string or {\"value\": string}", f)
		}
		return field, *tv.Value, nil
	}
	return "", "", nil
}
