package dataset

import (
	"errors"
	"fmt"
)

// ErrGranularity is returned when a store is asked for a period of the wrong kind
// (an annual period for daily data or a monthly one for annual data).
var ErrGranularity = errors.New("period granularity mismatch")

// UnknownKindError reports a request for a kind the source cannot produce
type UnknownKindError struct {
	Kind Kind
}

func (e *UnknownKindError) Error() string {
	return fmt.Sprintf("unknown series kind %q", e.Kind)
}

// SourceError wraps a failure of the injected source for one plant series
type SourceError struct {
	Request Request
	Err     error
}

func (e *SourceError) Error() string {
	return fmt.Sprintf("source failed for %s/%s/%s: %v", e.Request.Kind, e.Request.Plant.ID, e.Request.Period, e.Err)
}

func (e *SourceError) Unwrap() error {
	return e.Err
}
