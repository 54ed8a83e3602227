// Package batch holds per-item outcomes of bulk document operations.
package batch

// ItemStatus is the processing outcome of a single batch item.
type ItemStatus string

// Batch item status values.
const (
	StatusOK    ItemStatus = "ok"
	StatusError ItemStatus = "error"
)

// Result is the outcome of one document in a bulk index or delete.
type Result struct {
	id     string
	status ItemStatus
	err    error
}

// NewOK creates a successful batch result.
func NewOK(id string) Result { return Result{id: id, status: StatusOK} }

// NewError creates a failed batch result.
func NewError(id string, err error) Result { return Result{id: id, status: StatusError, err: err} }

// FailAll returns one failed result per id, all carrying err. Used when a
// whole request is rejected before any document is written.
func FailAll(ids []string, err error) []Result {
	out := make([]Result, len(ids))
	for i, id := range ids {
		out[i] = NewError(id, err)
	}
	return out
}

// ID returns the document id.
func (r Result) ID() string { return r.id }

// Status returns the processing outcome.
func (r Result) Status() ItemStatus { return r.status }

// Err returns the error, if any.
func (r Result) Err() error { return r.err }

// OK reports whether the item succeeded.
func (r Result) OK() bool { return r.status == StatusOK }

// Counts tallies results by outcome.
type Counts struct {
	OK     int
	Failed int
}

// Count tallies results. Zero-value results count as failed.
func Count(results []Result) Counts {
	var c Counts
	for _, r := range results {
		if r.OK() {
			c.OK++
		} else {
			c.Failed++
		}
	}
	return c
}

// FirstError returns the error of the first failed item, or nil.
func FirstError(results []Result) error {
	for _, r := range results {
		if r.err != nil {
			return r.err
		}
	}
	return nil
}
