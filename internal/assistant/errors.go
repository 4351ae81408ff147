package assistant

import "errors"

// The four failure kinds a turn can surface. Callers classify with errors.Is
// to pick an HTTP status; none of these is retried inside the engine.
var (
	ErrConfiguration   = errors.New("assistant configuration error")
	ErrDataUnavailable = errors.New("assistant data unavailable")
	ErrCompletion      = errors.New("completion failed")
	ErrPersistence     = errors.New("turn persistence failed")
)
