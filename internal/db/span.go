package db

import (
	"sort"
	"strings"

	"github.com/kailas-cloud/entitysearch/internal/domain/query"
)

// PositionFunc returns the ascending token positions of term in field.
type PositionFunc func(field, term string) []int

// Positions splits value on single spaces and returns the positions of term.
// Empty pieces still occupy a position, so fields written token-aligned with
// the text field share its positions.
func Positions(value, term string) []int {
	if value == "" || term == "" {
		return nil
	}
	var out []int
	for i, piece := range strings.Split(value, " ") {
		if piece == term {
			out = append(out, i)
		}
	}
	return out
}

// FieldPositions adapts a stored field map to a PositionFunc.
func FieldPositions(fields map[string]string) PositionFunc {
	return func(field, term string) []int {
		return Positions(fields[field], term)
	}
}

// MatchSpan reports whether a document matches q. One position is chosen per
// clause; the match width (last - first + 1 - clauses) must not exceed q.Slop.
// In order, positions must strictly increase in clause order; otherwise any
// order of distinct positions is accepted.
func MatchSpan(q *query.SpanQuery, pos PositionFunc) bool {
	if q == nil || q.IsEmpty() || q.HasEmptyTerm() {
		return false
	}
	lists := make([][]int, len(q.Clauses))
	for i, c := range q.Clauses {
		lists[i] = pos(c.PositionField(), c.Term())
		if len(lists[i]) == 0 {
			return false
		}
	}
	if q.InOrder {
		return matchOrdered(lists, q.Slop)
	}
	return matchUnordered(lists, q.Slop)
}

func matchOrdered(lists [][]int, slop int) bool {
	n := len(lists)
	for _, first := range lists[0] {
		last := first
		for i := 1; i < n; i++ {
			j := sort.SearchInts(lists[i], last+1)
			if j == len(lists[i]) {
				// a later first position cannot do better
				return false
			}
			last = lists[i][j]
		}
		if last-first+1-n <= slop {
			return true
		}
	}
	return false
}

func matchUnordered(lists [][]int, slop int) bool {
	width := slop + len(lists) - 1
	var starts []int
	for _, l := range lists {
		starts = append(starts, l...)
	}
	sort.Ints(starts)
	for i, s := range starts {
		if i > 0 && starts[i-1] == s {
			continue
		}
		if assignDistinct(lists, s, s+width) {
			return true
		}
	}
	return false
}

// assignDistinct finds one distinct position per clause inside [lo, hi].
func assignDistinct(lists [][]int, lo, hi int) bool {
	owner := make(map[int]int)
	for c := range lists {
		if !augment(c, lists, lo, hi, owner, make(map[int]bool)) {
			return false
		}
	}
	return true
}

func augment(c int, lists [][]int, lo, hi int, owner map[int]int, seen map[int]bool) bool {
	for _, p := range lists[c] {
		if p < lo || p > hi || seen[p] {
			continue
		}
		seen[p] = true
		prev, taken := owner[p]
		if !taken || augment(prev, lists, lo, hi, owner, seen) {
			owner[p] = c
			return true
		}
	}
	return false
}
