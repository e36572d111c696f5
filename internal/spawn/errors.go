package spawn

import "errors"

var (
	// ErrInvalidHandle is returned for stale or out-of-range handles.
	ErrInvalidHandle = errors.New("spawn: invalid handle")
	// ErrInFlight is returned when a request is touched while the scheduler
	// is servicing it.
	ErrInFlight = errors.New("spawn: request is processing")
	// ErrNotFailed is returned by Retry for requests that have not failed.
	ErrNotFailed = errors.New("spawn: request has not failed")
	// ErrNotDeferred is returned by FinishDeferred for requests that did not
	// ask for deferred activation or have no entity yet.
	ErrNotDeferred = errors.New("spawn: request has no deferred activation")
)
