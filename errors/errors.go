// Package errors defines the compile and runtime error taxonomy of bf along
// with a formatter that renders errors with source context.
package errors

import (
	goerrors "errors"
	"fmt"
)

// Sentinel errors. Every CompileError and RuntimeError unwraps to exactly one
// of these, so callers can branch with errors.Is.
var (
	ErrBracketMismatch    = goerrors.New("bracket mismatch")
	ErrUnmatchedOpen      = goerrors.New("unmatched opening bracket")
	ErrPointerUnderflow   = goerrors.New("pointer underflow")
	ErrPointerOverflow    = goerrors.New("pointer overflow")
	ErrUnimplementedInput = goerrors.New("input not implemented")
	ErrIO                 = goerrors.New("i/o error")
)

// SourceLocation represents a position in source code.
type SourceLocation struct {
	Filename string
	Line     int    // 1-based line number
	Column   int    // 1-based column number
	Source   string // The line of source code
}

// String returns a formatted string representation of the source location.
func (s SourceLocation) String() string {
	if s.Filename != "" {
		return fmt.Sprintf("%s:%d:%d", s.Filename, s.Line, s.Column)
	}
	return fmt.Sprintf("%d:%d", s.Line, s.Column)
}

// IsZero returns true if the location has not been set.
func (s SourceLocation) IsZero() bool {
	return s.Line == 0 && s.Column == 0
}

// FriendlyError is an interface for errors that have a human friendly message
// in addition to a the lower level default error message.
type FriendlyError interface {
	Error() string
	FriendlyErrorMessage() string
}

// FormattableError is an interface for errors that can be formatted with
// the enhanced error formatter (with colors, source context, etc).
type FormattableError interface {
	Error() string
	ToFormatted() *FormattedError
}

// IsCompileError reports whether err is, or wraps, a compile error.
func IsCompileError(err error) bool {
	var ce *CompileError
	return goerrors.As(err, &ce)
}

// IsRuntimeError reports whether err is, or wraps, a runtime error.
func IsRuntimeError(err error) bool {
	var re *RuntimeError
	return goerrors.As(err, &re)
}
