package health

import "context"

// DBPinger checks backend availability.
type DBPinger interface {
	Ping(ctx context.Context) error
}

// IndexChecker checks that an index exists.
type IndexChecker interface {
	Exists(ctx context.Context, name string) (bool, error)
}
