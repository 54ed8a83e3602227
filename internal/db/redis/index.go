package redis

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/redis/rueidis"

	"github.com/kailas-cloud/entitysearch/internal/db"
)

// CreateIndex creates an FT index over the hashes of def.Name.
func (s *Store) CreateIndex(ctx context.Context, def *db.IndexDefinition) error {
	args, err := s.buildCreateArgs(def)
	if err != nil {
		return err
	}

	cmd := s.b().Arbitrary("FT.CREATE").Args(args...).Build()
	if err := s.do(ctx, cmd).Error(); err != nil {
		if isRedisErr(err, "index already exists") {
			return db.ErrIndexExists
		}
		return &db.Error{Op: db.OpCreateIndex, Err: err}
	}
	return nil
}

// DropIndex removes an FT index by name together with its documents.
func (s *Store) DropIndex(ctx context.Context, name string) error {
	cmd := s.b().Arbitrary("FT.DROPINDEX").Args(name, "DD").Build()
	if err := s.do(ctx, cmd).Error(); err != nil {
		if isRedisErr(err, "unknown index name") || isRedisErr(err, "no such index") {
			return db.ErrIndexNotFound
		}
		return &db.Error{Op: db.OpDropIndex, Err: err}
	}
	return nil
}

// IndexExists probes index existence via FT.INFO; "unknown index name" means absent.
func (s *Store) IndexExists(ctx context.Context, name string) (bool, error) {
	cmd := s.b().Arbitrary("FT.INFO").Args(name).Build()
	if err := s.do(ctx, cmd).Error(); err != nil {
		if isRedisErr(err, "unknown index name") || isRedisErr(err, "no such index") {
			return false, nil
		}
		return false, &db.Error{Op: db.OpIndexInfo, Err: err}
	}
	return true, nil
}

// SignatureField returns the TAG attribute listed by FT.INFO.
func (s *Store) SignatureField(ctx context.Context, name string) (string, error) {
	cmd := s.b().Arbitrary("FT.INFO").Args(name).Build()
	arr, err := s.do(ctx, cmd).ToArray()
	if err != nil {
		if isRedisErr(err, "unknown index name") || isRedisErr(err, "no such index") {
			return "", db.ErrIndexNotFound
		}
		return "", &db.Error{Op: db.OpIndexInfo, Err: err}
	}

	// FT.INFO returns alternating key-value pairs.
	for i := 0; i+1 < len(arr); i += 2 {
		if key, _ := arr[i].ToString(); key != "attributes" {
			continue
		}
		attrs, err := arr[i+1].ToArray()
		if err != nil {
			return "", &db.Error{Op: db.OpIndexInfo, Err: fmt.Errorf("index %s attributes: %w", name, err)}
		}
		for _, a := range attrs {
			if tag := tagAttribute(a); tag != "" {
				return tag, nil
			}
		}
	}
	return "", nil
}

// tagAttribute returns the attribute name of a TAG schema entry. Entries mix
// key-value pairs with bare flags such as CASESENSITIVE.
func tagAttribute(attr rueidis.RedisMessage) string {
	items, err := attr.ToArray()
	if err != nil {
		return ""
	}
	var name, typ string
	for i := 0; i+1 < len(items); i++ {
		key, err := items[i].ToString()
		if err != nil {
			continue
		}
		val, err := items[i+1].ToString()
		if err != nil {
			continue
		}
		switch strings.ToLower(key) {
		case "attribute":
			name = val
		case "type":
			typ = val
		}
	}
	if strings.EqualFold(typ, "TAG") {
		return name
	}
	return ""
}

// listIndices returns every FT index name.
func (s *Store) listIndices(ctx context.Context) ([]string, error) {
	cmd := s.b().Arbitrary("FT._LIST").Build()
	names, err := s.do(ctx, cmd).AsStrSlice()
	if err != nil {
		return nil, &db.Error{Op: db.OpIndexList, Err: err}
	}
	return names, nil
}

// buildCreateArgs renders FT.CREATE arguments. Stop words are disabled so
// every span term is indexed.
func (s *Store) buildCreateArgs(idx *db.IndexDefinition) ([]string, error) {
	if idx.Name == "" {
		return nil, errors.New("index name is required")
	}
	if len(idx.Fields) == 0 {
		return nil, errors.New("at least one field is required")
	}

	args := []string{
		idx.Name,
		"ON", "HASH",
		"PREFIX", "1", s.indexPrefix(idx.Name),
		"STOPWORDS", "0",
		"SCHEMA",
	}

	for i := range idx.Fields {
		fieldArgs, err := buildFieldArgs(&idx.Fields[i])
		if err != nil {
			return nil, err
		}
		args = append(args, fieldArgs...)
	}

	return args, nil
}

func buildFieldArgs(f *db.IndexField) ([]string, error) {
	if f.Name == "" {
		return nil, errors.New("field name is required")
	}

	args := []string{f.Name}

	switch f.Type {
	case db.IndexFieldText:
		args = append(args, "TEXT", "NOSTEM")

	case db.IndexFieldTag:
		args = append(args, "TAG")
		if f.TagSeparator != "" {
			args = append(args, "SEPARATOR", f.TagSeparator)
		}
		if f.TagCaseSensitive {
			args = append(args, "CASESENSITIVE")
		}

	default:
		return nil, errors.New("unknown field type")
	}

	return args, nil
}
