package main

import (
	"encoding/json"
	"strings"

	"github.com/spf13/cobra"

	entitysearch "github.com/kailas-cloud/entitysearch/pkg/sdk"
)

func newTranslateCmd() *cobra.Command {
	var documentMode bool

	cmd := &cobra.Command{
		Use:   "translate <query>",
		Short: "Print the span_near query a text query is rewritten to",
		Long: `Print the span_near query a text query is rewritten to.

Examples:
  entitysearchctl translate "met #person"
  entitysearchctl translate --document-mode "#person said"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := entitysearch.Translate(strings.Join(args, " "), documentMode)
			if err != nil {
				return err //nolint:wrapcheck // already prefixed
			}
			return printJSON(cmd.OutOrStdout(), json.RawMessage(data))
		},
	}
	cmd.Flags().BoolVar(&documentMode, "document-mode", false, "Target the document-level entity fields")
	return cmd
}
