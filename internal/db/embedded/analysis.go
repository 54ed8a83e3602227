package embedded

import (
	"bytes"
	"fmt"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/custom"
	"github.com/blevesearch/bleve/v2/mapping"
	"github.com/blevesearch/bleve/v2/registry"

	"github.com/kailas-cloud/entitysearch/internal/db"
)

const (
	// SpaceTokenizerName splits on the space character only.
	SpaceTokenizerName = "entity_space"
	// SpaceAnalyzerName is the analyzer of positional fields: space tokenizer, no filters.
	SpaceAnalyzerName = "entity_space_analyzer"
)

func init() {
	_ = registry.RegisterTokenizer(SpaceTokenizerName, spaceTokenizerConstructor)
}

func spaceTokenizerConstructor(_ map[string]interface{}, _ *registry.Cache) (analysis.Tokenizer, error) {
	return &spaceTokenizer{}, nil
}

// spaceTokenizer emits one token per space-separated piece. Empty pieces are
// skipped but keep their position, matching db.Positions.
type spaceTokenizer struct{}

func (t *spaceTokenizer) Tokenize(input []byte) analysis.TokenStream {
	result := make(analysis.TokenStream, 0, bytes.Count(input, []byte{' '})+1)
	start := 0
	pos := 1
	for i := 0; i <= len(input); i++ {
		if i < len(input) && input[i] != ' ' {
			continue
		}
		if i > start {
			result = append(result, &analysis.Token{
				Term:     input[start:i],
				Start:    start,
				End:      i,
				Position: pos,
				Type:     analysis.AlphaNumeric,
			})
		}
		pos++
		start = i + 1
	}
	return result
}

// buildMapping creates the index mapping for def. Undeclared fields are
// indexed dynamically as positional text.
func buildMapping(def *db.IndexDefinition) (*mapping.IndexMappingImpl, error) {
	im := bleve.NewIndexMapping()

	err := im.AddCustomAnalyzer(SpaceAnalyzerName, map[string]interface{}{
		"type":      custom.Name,
		"tokenizer": SpaceTokenizerName,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to add custom analyzer: %w", err)
	}
	im.DefaultAnalyzer = SpaceAnalyzerName
	im.StoreDynamic = true

	dm := bleve.NewDocumentMapping()
	for i := range def.Fields {
		f := &def.Fields[i]
		var fm *mapping.FieldMapping
		switch f.Type {
		case db.IndexFieldTag:
			fm = bleve.NewKeywordFieldMapping()
		default:
			fm = bleve.NewTextFieldMapping()
			fm.Analyzer = SpaceAnalyzerName
			fm.IncludeTermVectors = true
		}
		fm.Store = true
		dm.AddFieldMappingsAt(f.Name, fm)
	}
	im.DefaultMapping = dm

	return im, nil
}
