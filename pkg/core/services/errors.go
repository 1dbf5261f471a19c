package services

import (
	"errors"
	"fmt"
)

// ErrUnknownStrategy is returned when a simulation names a strategy the
// simulator does not implement
var ErrUnknownStrategy = errors.New("unknown strategy")

// FetchError reports an upstream fetch failure with enough context to
// identify which person or source failed. It fails the whole aggregation
// request: a partial timeline would look misleadingly complete.
type FetchError struct {
	Source string // "shifts", "timeoff", "events", "appointments"
	Scope  string // person name or calendar identifier
	Err    error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("%s fetch failed for %s: %v", e.Source, e.Scope, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}
