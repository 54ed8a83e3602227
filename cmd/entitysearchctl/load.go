package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	entitysearch "github.com/kailas-cloud/entitysearch/pkg/sdk"
)

const (
	loadBatchSize = 500
	maxLineBytes  = 1 << 20
)

type loadOutput struct {
	Indexed int           `json:"indexed"`
	Failed  int           `json:"failed"`
	Errors  []loadFailure `json:"errors,omitempty"`
}

type loadFailure struct {
	ID    string `json:"id"`
	Error string `json:"error"`
}

func newLoadCmd(bf *backendFlags) *cobra.Command {
	var index string

	cmd := &cobra.Command{
		Use:   "load <file.jsonl>",
		Short: "Index documents from a JSON Lines file",
		Long: `Index documents from a JSON Lines file, one document per line:

  {"id": "a", "fields": {"text": "alice met oentityo", "person": "_ _ oentityo", "entityContent": "x"}}

A missing id is generated. "-" reads from stdin.

Examples:
  entitysearchctl load --path ./data --index news docs.jsonl`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in := cmd.InOrStdin()
			if args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return err //nolint:wrapcheck // path is in the message
				}
				defer f.Close()
				in = f
			}

			docs, err := readDocuments(in)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			c, err := bf.open(ctx, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer c.Close()

			var out loadOutput
			svc := c.Documents(index)
			for start := 0; start < len(docs); start += loadBatchSize {
				end := min(start+loadBatchSize, len(docs))
				for _, r := range svc.Index(ctx, docs[start:end]) {
					if r.OK {
						out.Indexed++
						continue
					}
					out.Failed++
					out.Errors = append(out.Errors, loadFailure{ID: r.ID, Error: r.Err.Error()})
				}
			}
			return printJSON(cmd.OutOrStdout(), out)
		},
	}

	cmd.Flags().StringVarP(&index, "index", "i", "", "Target index")
	_ = cmd.MarkFlagRequired("index")
	return cmd
}

type documentLine struct {
	ID     string            `json:"id"`
	Fields map[string]string `json:"fields"`
}

// readDocuments parses JSON Lines. Blank lines are skipped.
func readDocuments(r io.Reader) ([]entitysearch.Document, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	var docs []entitysearch.Document
	line := 0
	for sc.Scan() {
		line++
		raw := sc.Bytes()
		if len(raw) == 0 {
			continue
		}
		var dl documentLine
		if err := json.Unmarshal(raw, &dl); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		docs = append(docs, entitysearch.Document{ID: dl.ID, Fields: dl.Fields})
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read documents: %w", err)
	}
	return docs, nil
}
