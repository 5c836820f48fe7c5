package registry

import (
	"fmt"

	"mlxd/pkg/types"
)

// kindMismatchError signals a cached handle whose kind conflicts with the
// request. The registry never re-loads under a kind change; evict first.
type kindMismatchError struct {
	id   string
	have types.ModelKind
	want types.ModelKind
}

func (e kindMismatchError) Error() string {
	return fmt.Sprintf("model %q is resident as %s, requested %s", e.id, e.have, e.want)
}

// IsKindMismatch reports whether err indicates a cached-kind conflict.
func IsKindMismatch(err error) bool {
	_, ok := err.(kindMismatchError)
	return ok
}

// loadFailedError wraps an external loader failure with its cause.
type loadFailedError struct {
	id    string
	cause error
}

func (e loadFailedError) Error() string {
	return fmt.Sprintf("load model %q: %v", e.id, e.cause)
}

func (e loadFailedError) Unwrap() error { return e.cause }

// ErrLoadFailed constructs a loadFailedError.
func ErrLoadFailed(id string, cause error) error { return loadFailedError{id: id, cause: cause} }

// IsLoadFailed reports whether err indicates an external loader failure.
func IsLoadFailed(err error) bool {
	_, ok := err.(loadFailedError)
	return ok
}

// capacityError signals that a load would exceed the resident-model cap.
// Nothing is evicted automatically; eviction is an operator decision.
type capacityError struct {
	id    string
	limit int
}

func (e capacityError) Error() string {
	return fmt.Sprintf("cannot load %q: resident model cap of %d reached (evict a model first)", e.id, e.limit)
}

// IsCapacity reports whether err indicates the resident cap was hit.
func IsCapacity(err error) bool {
	_, ok := err.(capacityError)
	return ok
}
