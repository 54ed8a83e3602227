package main

import (
	"os"
	"strings"

	"github.com/spf13/cobra"

	entitysearch "github.com/kailas-cloud/entitysearch/pkg/sdk"
)

type searchOutput struct {
	TookMS   int64           `json:"took"`
	Total    int             `json:"total"`
	Hits     []hitOutput     `json:"hits"`
	Clusters []clusterOutput `json:"clusters"`
}

type hitOutput struct {
	Index  string            `json:"_index"`
	ID     string            `json:"_id"`
	Score  float64           `json:"_score"`
	Source map[string]string `json:"_source"`
}

type clusterOutput struct {
	Name    *string  `json:"name"`
	Members []string `json:"members"`
}

func newSearchCmd(bf *backendFlags) *cobra.Command {
	var (
		indices      []string
		spanFile     string
		field        string
		documentMode bool
		from, size   int
	)

	cmd := &cobra.Command{
		Use:   "search [query]",
		Short: "Search and cluster the hits by signature",
		Long: `Search and cluster the hits by signature.

The query is a text query: '#type' tokens match any entity of that type.
With --span the query is read from a span_near JSON file instead. With
neither every document matches.

Examples:
  entitysearchctl search --path ./data --index news "met #person"
  entitysearchctl search --path ./data --index news --document-mode "#person said"
  entitysearchctl search --path ./data --span query.json --field story`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			c, err := bf.open(ctx, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer c.Close()

			b := c.Search(indices...).From(from).Size(size)
			if len(args) > 0 {
				b.Query(strings.Join(args, " "))
			}
			if spanFile != "" {
				data, err := os.ReadFile(spanFile)
				if err != nil {
					return err //nolint:wrapcheck // path is in the message
				}
				b.Span(data)
			}
			if documentMode {
				b.DocumentMode()
			}
			if field != "" {
				b.Field(field)
			}

			res, err := b.Do(ctx)
			if err != nil {
				return err //nolint:wrapcheck // already prefixed
			}
			return printJSON(cmd.OutOrStdout(), toSearchOutput(&res))
		},
	}

	f := cmd.Flags()
	f.StringSliceVarP(&indices, "index", "i", nil, "Indices to search (default all)")
	f.StringVar(&spanFile, "span", "", "File holding a span_near query")
	f.StringVar(&field, "field", "", "Field to cluster hits on")
	f.BoolVar(&documentMode, "document-mode", false, "Target the document-level entity fields")
	f.IntVar(&from, "from", 0, "Hit offset")
	f.IntVar(&size, "size", 10, "Hits to return")
	return cmd
}

func toSearchOutput(res *entitysearch.SearchResult) searchOutput {
	out := searchOutput{
		TookMS:   res.Took.Milliseconds(),
		Total:    res.Total,
		Hits:     make([]hitOutput, len(res.Hits)),
		Clusters: make([]clusterOutput, len(res.Clusters)),
	}
	for i, h := range res.Hits {
		out.Hits[i] = hitOutput{Index: h.Index, ID: h.ID, Score: h.Score, Source: h.Fields}
	}
	for i, cl := range res.Clusters {
		co := clusterOutput{Members: cl.Members}
		if !cl.Absent {
			name := cl.Name
			co.Name = &name
		}
		out.Clusters[i] = co
	}
	return out
}
