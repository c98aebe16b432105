// Package symerr implements §7's error taxonomy: a single typed,
// result-or-error pathway for the builder's boundary, adapted from the
// teacher's internal/errors package (SentraError/ErrorType) but retargeted
// at the term engine's own error kinds.
package symerr

import (
	"fmt"

	"github.com/pkg/errors"
)

// Kind is the taxonomy of recoverable builder-boundary errors.
type Kind string

const (
	// TypeMismatch is a residual dynamic sort mismatch the sort system
	// could not catch statically; it is a programmer error (§7).
	TypeMismatch Kind = "TypeMismatch"
	// InvalidRange is the kind of the error that the builder's bounded
	// fresh-variable constructors panic with when lo > hi; they do not
	// return it as an error value.
	InvalidRange Kind = "InvalidRange"
	// Capacity covers identifier-counter overflow (practically
	// unreachable with a 64-bit counter, but still a declared kind).
	Capacity Kind = "Capacity"
)

// Error is the engine's single error type. It wraps an underlying cause
// (captured with github.com/pkg/errors so a stack trace travels with it)
// instead of the teacher's hand-rolled CallStack/StackFrame bookkeeping.
type Error struct {
	Kind    Kind
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.cause }

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message, cause: errors.New(message)}
}

func Newf(kind Kind, format string, args ...any) *Error {
	msg := fmt.Sprintf(format, args...)
	return &Error{Kind: kind, Message: msg, cause: errors.New(msg)}
}

// InvalidRangeErr builds the InvalidRange(sort, lo, hi) error named in §7.
// lo/hi are pre-formatted by the caller so a nil bound never has to flow
// through a Stringer method that would panic on a nil receiver.
func InvalidRangeErr(sortDesc, lo, hi string) *Error {
	return Newf(InvalidRange, "invalid range for sort %s: lo=%s hi=%s", sortDesc, lo, hi)
}

// Wrap attaches additional context to an existing error while preserving
// its stack trace.
func Wrap(err error, kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message, cause: errors.Wrap(err, message)}
}
