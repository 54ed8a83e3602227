package redis

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/redis/rueidis"
	"golang.org/x/sync/errgroup"

	"github.com/kailas-cloud/entitysearch/internal/db"
	"github.com/kailas-cloud/entitysearch/internal/domain/query"
)

// SearchSpan runs q against every requested index concurrently. FT.SEARCH
// selects candidates containing every clause term; the span constraint is then
// checked on the returned field values, since RediSearch keeps one offset
// sequence per document and cannot align positions across fields.
func (s *Store) SearchSpan(ctx context.Context, q *db.SpanSearch) (*db.SearchResult, error) {
	start := time.Now()

	names := q.Indices
	if len(names) == 0 {
		var err error
		if names, err = s.listIndices(ctx); err != nil {
			return nil, err
		}
	}

	result := &db.SearchResult{Shards: db.Shards{Total: len(names)}}
	if q.Query != nil && (q.Query.IsEmpty() || q.Query.HasEmptyTerm()) {
		result.Shards.Successful = len(names)
		result.Entries = []db.SearchEntry{}
		result.Took = time.Since(start)
		return result, nil
	}

	parts := make([][]db.SearchEntry, len(names))
	totals := make([]int, len(names))

	g, gctx := errgroup.WithContext(ctx)
	for i, name := range names {
		g.Go(func() error {
			entries, total, err := s.searchIndex(gctx, name, q)
			if err != nil {
				return err
			}
			parts[i] = entries
			totals[i] = total
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for _, t := range totals {
		result.Total += t
	}
	result.Shards.Successful = len(names)
	result.Entries = db.Page(db.MergeEntries(parts), q.From, q.Size)
	result.Took = time.Since(start)
	return result, nil
}

func (s *Store) searchIndex(ctx context.Context, index string, q *db.SpanSearch) ([]db.SearchEntry, int, error) {
	queryStr := "*"
	limit := q.From + q.Size
	if q.Query != nil {
		queryStr = buildSpanQuery(q.Query)
		limit = s.maxCandidates
	}

	args := []string{index, queryStr, "VERBATIM", "WITHSCORES", "LIMIT", "0", strconv.Itoa(limit), "DIALECT", "2"}

	cmd := s.b().Arbitrary("FT.SEARCH").Args(args...).Build()
	raw, err := s.do(ctx, cmd).ToArray()
	if err != nil {
		if isRedisErr(err, "no such index") || isRedisErr(err, "unknown index name") {
			return nil, 0, fmt.Errorf("index %s: %w", index, db.ErrIndexNotFound)
		}
		return nil, 0, &db.Error{Op: db.OpSearch, Err: fmt.Errorf("index %s: %w", index, err)}
	}

	res, err := parseScoredResult(raw)
	if err != nil {
		return nil, 0, &db.Error{Op: db.OpSearch, Err: err}
	}

	prefix := s.indexPrefix(index)
	entries := make([]db.SearchEntry, 0, len(res.Entries))
	for _, e := range res.Entries {
		if q.Query != nil && !db.MatchSpan(q.Query, db.FieldPositions(e.Fields)) {
			continue
		}
		e.ID = strings.TrimPrefix(e.ID, prefix)
		e.Index = index
		entries = append(entries, e)
	}

	if q.Query == nil {
		return entries, res.Total, nil
	}
	return entries, len(entries), nil
}

// buildSpanQuery renders the candidate query: an intersection of one term per
// clause. Slop and order are left to db.MatchSpan, which counts positions on
// space-separated tokens rather than RediSearch's punctuation-split ones.
func buildSpanQuery(q *query.SpanQuery) string {
	parts := make([]string, len(q.Clauses))
	for i, c := range q.Clauses {
		parts[i] = fmt.Sprintf("@%s:(%s)", escapeQuery(c.PositionField()), escapeQuery(c.Term()))
	}
	return "(" + strings.Join(parts, " ") + ")"
}

// --- Result parsing ---

func parseScoredResult(raw []rueidis.RedisMessage) (*db.SearchResult, error) {
	if len(raw) == 0 {
		return &db.SearchResult{}, nil
	}

	total, err := raw[0].AsInt64()
	if err != nil {
		return nil, fmt.Errorf("parse total: %w", err)
	}
	if total == 0 {
		return &db.SearchResult{}, nil
	}

	entries := make([]db.SearchEntry, 0, (len(raw)-1)/3)
	// 3-stride: [total, key1, score1, fields1, key2, score2, fields2, ...]
	for i := 1; i+2 < len(raw); i += 3 {
		key, err := raw[i].ToString()
		if err != nil {
			continue
		}

		scoreStr, err := raw[i+1].ToString()
		if err != nil {
			continue
		}
		score, err := strconv.ParseFloat(scoreStr, 64)
		if err != nil {
			continue
		}

		fields, err := raw[i+2].ToArray()
		if err != nil {
			continue
		}

		entries = append(entries, db.SearchEntry{
			ID:     key,
			Score:  score,
			Fields: parseFieldPairs(fields),
		})
	}

	return &db.SearchResult{Total: int(total), Entries: entries}, nil
}

func parseFieldPairs(fields []rueidis.RedisMessage) map[string]string {
	m := make(map[string]string, len(fields)/2)
	for j := 0; j+1 < len(fields); j += 2 {
		name, err := fields[j].ToString()
		if err != nil {
			continue
		}
		value, err := fields[j+1].ToString()
		if err != nil {
			continue
		}
		m[name] = value
	}
	return m
}

// --- Query helpers ---

func escapeQuery(s string) string {
	return queryEscaper.Replace(s)
}

var queryEscaper = strings.NewReplacer(
	`\`, `\\`,
	`'`, `\'`,
	`"`, `\"`,
	`@`, `\@`,
	`{`, `\{`,
	`}`, `\}`,
	`(`, `\(`,
	`)`, `\)`,
	`|`, `\|`,
	`-`, `\-`,
	`~`, `\~`,
	`*`, `\*`,
	`[`, `\[`,
	`]`, `\]`,
	`!`, `\!`,
	`%`, `\%`,
	`^`, `\^`,
	`$`, `\$`,
	`<`, `\<`,
	`>`, `\>`,
	`=`, `\=`,
	`;`, `\;`,
	`+`, `\+`,
	`:`, `\:`,
	`.`, `\.`,
	`,`, `\,`,
	` `, `\ `,
)
