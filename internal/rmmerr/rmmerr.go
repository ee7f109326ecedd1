// Package rmmerr defines the typed errors construction and query
// operations can return.
//
// The shape (a code, a message, an optional wrapped cause, an Is method
// keyed on the code) is ported from the perf-analysis pack's
// pkg/errors.AppError, adapted to this package's four error kinds.
package rmmerr

import "fmt"

// Error codes.
const (
	CodeInputTooSmall        = "INPUT_TOO_SMALL"
	CodeAllocationFailed     = "ALLOCATION_FAILED"
	CodeDescentInconsistency = "DESCENT_INCONSISTENCY"
	CodeNoMatch              = "NO_MATCH"
)

// Error is a typed RMM error: a stable code plus a human message and an
// optional wrapped cause.
type Error struct {
	Code    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is an *Error with the same Code, so callers
// can use errors.Is(err, rmmerr.ErrNoMatch) regardless of wrapping.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

func newErr(code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Wrap attaches code and message to an underlying cause.
func Wrap(code, message string, err error) *Error {
	return &Error{Code: code, Message: message, Err: err}
}

// Sentinel errors matching spec.md §7.
var (
	// ErrInputTooSmall is returned by Build when n <= the chunk size.
	ErrInputTooSmall = newErr(CodeInputTooSmall, "input size must exceed the chunk size")

	// ErrAllocationFailed is the code Build wraps around the cause when
	// one of its parallel construction stages returns an error (for
	// example a cancelled context); construction errors are fatal, no
	// partial Index is ever returned. Build does not check the derived
	// array sizes for overflow, and a failed make panics rather than
	// returning this error.
	ErrAllocationFailed = newErr(CodeAllocationFailed, "failed to allocate RMM arrays")

	// ErrDescentInconsistency is returned by FwdSearch when, during the
	// climb-then-descend search, neither child of a node covers the
	// target excess. It signals a malformed bit sequence (not
	// balanced) or a construction bug, and is fatal to the query.
	ErrDescentInconsistency = newErr(CodeDescentInconsistency, "neither child covers the target excess during descent")

	// ErrNoMatch is returned by FwdSearch/FindClose when no qualifying
	// position exists. It is a legitimate result, not a fault:
	// callers should test errors.Is(err, rmmerr.ErrNoMatch).
	ErrNoMatch = newErr(CodeNoMatch, "no position satisfies the forward search target")
)
