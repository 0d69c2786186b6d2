package batch

import "github.com/openstax/openstax-resource-names/internal/domain/resource"

// ItemStatus is the lookup outcome of a single batch item.
type ItemStatus string

// Batch item status values.
const (
	StatusOK      ItemStatus = "ok"
	StatusError   ItemStatus = "error"
	StatusSkipped ItemStatus = "skipped"
)

// Result is the outcome of resolving one name in a batch lookup.
type Result struct {
	orn      string
	status   ItemStatus
	resource resource.Resource
	err      error
}

// NewOK creates a successful batch result.
func NewOK(orn string, r resource.Resource) Result {
	return Result{orn: orn, status: StatusOK, resource: r}
}

// NewError creates a failed batch result.
func NewError(orn string, err error) Result { return Result{orn: orn, status: StatusError, err: err} }

// NewSkipped marks an item that was never attempted.
func NewSkipped(orn string) Result { return Result{orn: orn, status: StatusSkipped} }

// ORN returns the requested name.
func (r Result) ORN() string { return r.orn }

// Status returns the lookup outcome.
func (r Result) Status() ItemStatus { return r.status }

// Resource returns the resolved record, nil unless the status is ok.
func (r Result) Resource() resource.Resource { return r.resource }

// Err returns the error, if any.
func (r Result) Err() error { return r.err }

// FirstError returns the error of the earliest failed item.
func FirstError(results []Result) error {
	for _, r := range results {
		if r.err != nil {
			return r.err
		}
	}
	return nil
}
