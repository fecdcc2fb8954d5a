package reactor

import (
	"errors"
	"fmt"
)

// Code is the error-kind taxonomy the reactor and its socket-ops
// collaborator share (spec §7).
type Code int

const (
	// CodeOK indicates success ("no" in the spec's terminology); it only
	// appears via CodeOf on a nil error, never as a constructed *Error.
	CodeOK Code = iota
	// CodeInvalid indicates a null handle, empty I/O mask, or uninitialized
	// loop was passed to an operation.
	CodeInvalid
	// CodeUnknown indicates a syscall failure not otherwise classified.
	CodeUnknown
	// CodeAgain indicates a non-blocking operation would block (socket ops only).
	CodeAgain
	// CodeInProgress indicates a non-blocking connect is pending (socket ops only).
	CodeInProgress
	// CodeInterruptedSyscall indicates a syscall was interrupted by a signal
	// (socket ops only; the reactor's own poll wait absorbs EINTR silently
	// and never surfaces this code itself).
	CodeInterruptedSyscall
)

// String returns a lowercase, spec-matching name for the code.
func (c Code) String() string {
	switch c {
	case CodeOK:
		return "no"
	case CodeInvalid:
		return "invalid"
	case CodeUnknown:
		return "unknown"
	case CodeAgain:
		return "again"
	case CodeInProgress:
		return "in-progress"
	case CodeInterruptedSyscall:
		return "interrupted-syscall"
	default:
		return fmt.Sprintf("code(%d)", int(c))
	}
}

// Error wraps a Code with the failing operation and, where available, the
// underlying system error.
type Error struct {
	Code Code
	Op   string
	Err  error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("reactor: %s: %s: %v", e.Op, e.Code, e.Err)
	}
	return fmt.Sprintf("reactor: %s: %s", e.Op, e.Code)
}

// Unwrap returns the underlying cause for use with [errors.Is] and [errors.As].
func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is an *Error with the same Code, so callers can
// write errors.Is(err, &Error{Code: CodeAgain}) without matching Op/Err.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

func newError(code Code, op string, cause error) *Error {
	return &Error{Code: code, Op: op, Err: cause}
}

// CodeOf extracts the Code from err: CodeOK for a nil error, CodeUnknown for
// any non-nil error that isn't (or doesn't wrap) an *Error from this package.
func CodeOf(err error) Code {
	if err == nil {
		return CodeOK
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeUnknown
}
