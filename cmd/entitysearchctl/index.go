package main

import (
	"github.com/spf13/cobra"

	entitysearch "github.com/kailas-cloud/entitysearch/pkg/sdk"
)

type existsOutput struct {
	Name   string `json:"name"`
	Exists bool   `json:"exists"`
}

func newIndexCmd(bf *backendFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "index",
		Short: "Manage indices",
	}
	cmd.AddCommand(newIndexCreateCmd(bf), newIndexDropCmd(bf), newIndexExistsCmd(bf))
	return cmd
}

func newIndexCreateCmd(bf *backendFlags) *cobra.Command {
	var (
		fields       []string
		clusterField string
	)

	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create an index",
		Long: `Create an index.

Examples:
  entitysearchctl index create --path ./data news --fields text,person,person_begin`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			c, err := bf.open(ctx, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer c.Close()

			opts := []entitysearch.IndexOption{entitysearch.WithFields(fields...)}
			if clusterField != "" {
				opts = append(opts, entitysearch.WithClusterField(clusterField))
			}
			info, err := c.Indices().Create(ctx, args[0], opts...)
			if err != nil {
				return err //nolint:wrapcheck // already prefixed
			}
			return printJSON(cmd.OutOrStdout(), info)
		},
	}

	cmd.Flags().StringSliceVar(&fields, "fields", []string{"text"}, "Positional text fields")
	cmd.Flags().StringVar(&clusterField, "cluster-field", "", "Signature field hits are clustered on")
	return cmd
}

func newIndexDropCmd(bf *backendFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "drop <name>",
		Short: "Drop an index and its documents",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			c, err := bf.open(ctx, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer c.Close()

			return c.Indices().Drop(ctx, args[0]) //nolint:wrapcheck // already prefixed
		},
	}
}

func newIndexExistsCmd(bf *backendFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "exists <name>",
		Short: "Report whether an index exists",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			c, err := bf.open(ctx, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer c.Close()

			ok, err := c.Indices().Exists(ctx, args[0])
			if err != nil {
				return err //nolint:wrapcheck // already prefixed
			}
			return printJSON(cmd.OutOrStdout(), existsOutput{Name: args[0], Exists: ok})
		},
	}
}
