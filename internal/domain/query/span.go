package query

// SpanQuery is an ordered list of clauses that must occur near each other.
type SpanQuery struct {
	Clauses []Clause
	Slop    int
	InOrder bool
}

// Translate builds a span query from tokens, one clause per token, in token order.
// Entity tokens become masked entity clauses; in document mode their field
// gets the "_begin" suffix.
func Translate(tokens []Token, documentMode bool) SpanQuery {
	clauses := make([]Clause, 0, len(tokens))
	for _, t := range tokens {
		if !t.Entity {
			clauses = append(clauses, NewTermClause(t.Text))
			continue
		}
		field := t.Text
		if documentMode {
			field += DocumentFieldSuffix
		}
		clauses = append(clauses, NewMaskedEntityClause(field))
	}

	return SpanQuery{
		Clauses: clauses,
		Slop:    DefaultSlop,
		InOrder: true,
	}
}

// TranslateText tokenizes raw and translates the tokens.
func TranslateText(raw string, documentMode bool) SpanQuery {
	return Translate(Tokenize(raw), documentMode)
}

// Fields returns the distinct position fields in clause order.
func (q *SpanQuery) Fields() []string {
	seen := make(map[string]struct{}, len(q.Clauses))
	fields := make([]string, 0, len(q.Clauses))
	for _, c := range q.Clauses {
		f := c.PositionField()
		if _, ok := seen[f]; ok {
			continue
		}
		seen[f] = struct{}{}
		fields = append(fields, f)
	}
	return fields
}

// HasEmptyTerm reports whether any clause has an empty term or field.
// Such a query can never match.
func (q *SpanQuery) HasEmptyTerm() bool {
	for _, c := range q.Clauses {
		if c.Term() == "" || c.PositionField() == "" {
			return true
		}
	}
	return false
}

// IsEmpty reports whether the query has no clauses.
func (q *SpanQuery) IsEmpty() bool { return len(q.Clauses) == 0 }
