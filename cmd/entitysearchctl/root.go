package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/kailas-cloud/entitysearch/internal/version"
	entitysearch "github.com/kailas-cloud/entitysearch/pkg/sdk"
)

// backendFlags select the store every command opens.
type backendFlags struct {
	driver   string
	addr     string
	password string
	path     string
	prefix   string
	verbose  bool
}

func newRootCmd() *cobra.Command {
	var bf backendFlags

	root := &cobra.Command{
		Use:           "entitysearchctl",
		Short:         "Entity-aware span search with hit clustering",
		Version:       version.String(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&bf.driver, "driver", entitysearch.DriverBleve, "Backend driver (bleve, redis)")
	pf.StringVar(&bf.path, "path", "", "Bleve data directory (empty keeps indices in memory)")
	pf.StringVar(&bf.addr, "addr", "localhost:6379", "Redis address")
	pf.StringVar(&bf.password, "password", os.Getenv("ENTITYSEARCH_REDIS_PASSWORD"), "Redis password")
	pf.StringVar(&bf.prefix, "key-prefix", "es:", "Redis key prefix")
	pf.BoolVarP(&bf.verbose, "verbose", "v", false, "Log SDK operations to stderr")

	root.AddCommand(
		newSearchCmd(&bf),
		newLoadCmd(&bf),
		newIndexCmd(&bf),
		newTranslateCmd(),
	)
	return root
}

func (bf *backendFlags) open(ctx context.Context, stderr io.Writer) (*entitysearch.Client, error) {
	opts := []entitysearch.Option{entitysearch.WithKeyPrefix(bf.prefix)}
	switch bf.driver {
	case entitysearch.DriverRedis:
		opts = append(opts, entitysearch.WithRedis(bf.addr, bf.password))
	case entitysearch.DriverBleve:
		opts = append(opts, entitysearch.WithBleve(bf.path))
	default:
		return nil, fmt.Errorf("unknown driver %q", bf.driver)
	}
	if bf.verbose {
		opts = append(opts, entitysearch.WithLogger(
			slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: slog.LevelDebug})),
		))
	}

	c, err := entitysearch.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("open backend: %w", err)
	}
	return c, nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	return nil
}
