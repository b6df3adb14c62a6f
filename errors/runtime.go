package errors

import (
	"fmt"
	"strings"
)

// RuntimeError is a fatal error raised while executing a compiled program.
// It records the machine state at the failing instruction.
type RuntimeError struct {
	Code        ErrorCode
	Message     string
	PC          int
	Instruction string
	DataPointer int
	Location    SourceLocation
	// Cause is the underlying error, if any, such as a failed write.
	Cause error
}

// NewRuntimeError creates a runtime error with the given code and message.
func NewRuntimeError(code ErrorCode, format string, args ...any) *RuntimeError {
	return &RuntimeError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Error implements the error interface.
func (e *RuntimeError) Error() string {
	var b strings.Builder
	b.WriteString("runtime error: ")
	b.WriteString(e.Message)
	if e.Instruction != "" {
		fmt.Fprintf(&b, " (pc %d: %s, pointer %d)", e.PC, e.Instruction, e.DataPointer)
	}
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

// Unwrap returns the sentinel error for the error code and the cause.
func (e *RuntimeError) Unwrap() []error {
	errs := make([]error, 0, 2)
	if sentinel := e.Code.Sentinel(); sentinel != nil {
		errs = append(errs, sentinel)
	}
	if e.Cause != nil {
		errs = append(errs, e.Cause)
	}
	return errs
}

// FriendlyErrorMessage returns a human-friendly error message.
func (e *RuntimeError) FriendlyErrorMessage() string {
	return NewFormatter(false).Format(e.ToFormatted())
}

// ToFormatted converts to the FormattedError type for display.
func (e *RuntimeError) ToFormatted() *FormattedError {
	msg := e.Message
	if e.Cause != nil {
		msg = msg + ": " + e.Cause.Error()
	}
	fe := &FormattedError{
		Code:       e.Code,
		Kind:       "runtime error",
		Message:    msg,
		Filename:   e.Location.Filename,
		Line:       e.Location.Line,
		Column:     e.Location.Column,
		SourceLine: e.Location.Source,
	}
	if e.Instruction != "" {
		fe.Note = fmt.Sprintf("at pc %d (%s) with data pointer %d", e.PC, e.Instruction, e.DataPointer)
	}
	return fe
}
