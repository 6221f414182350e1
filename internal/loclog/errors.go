package loclog

import (
	"errors"
	"fmt"
)

// Sentinel load errors.
var (
	ErrUnexpectedStatus = errors.New("unexpected response status")
	ErrMissingColumn    = errors.New("missing required column")
	ErrEmptySource      = errors.New("log source is empty")
)

// Load operations reported by LoadError.
const (
	OpFetch = "fetch"
	OpRead  = "read"
	OpParse = "parse"
)

// LoadError reports a failure to fetch or parse a log. It is fatal for the
// analytics view and is always returned to the caller.
type LoadError struct {
	Source string
	Op     string
	Err    error
}

// Error implements the error interface.
func (e *LoadError) Error() string {
	return fmt.Sprintf("load %s: %s: %v", e.Source, e.Op, e.Err)
}

// Unwrap returns the underlying cause.
func (e *LoadError) Unwrap() error {
	return e.Err
}

func newLoadError(source, op string, err error) *LoadError {
	return &LoadError{Source: source, Op: op, Err: err}
}
