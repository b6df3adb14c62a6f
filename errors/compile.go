package errors

import (
	"fmt"
	"strings"
)

// CompileError represents a compilation error with rich context.
type CompileError struct {
	Code       ErrorCode
	Message    string
	Filename   string
	Line       int
	Column     int
	SourceLine string
	Note       string
}

// NewCompileError creates a compile error at the given location.
func NewCompileError(code ErrorCode, loc SourceLocation, format string, args ...any) *CompileError {
	return &CompileError{
		Code:       code,
		Message:    fmt.Sprintf(format, args...),
		Filename:   loc.Filename,
		Line:       loc.Line,
		Column:     loc.Column,
		SourceLine: loc.Source,
	}
}

// Error implements the error interface.
func (e *CompileError) Error() string {
	var b strings.Builder
	b.WriteString("compile error: ")
	b.WriteString(e.Message)
	if e.Filename != "" || e.Line > 0 {
		b.WriteString("\n\nlocation: ")
		if e.Filename != "" {
			b.WriteString(e.Filename)
			b.WriteString(":")
		}
		fmt.Fprintf(&b, "%d:%d", e.Line, e.Column)
		fmt.Fprintf(&b, " (line %d, column %d)", e.Line, e.Column)
	}
	return b.String()
}

// Unwrap returns the sentinel error for the error code.
func (e *CompileError) Unwrap() error {
	return e.Code.Sentinel()
}

// Location returns the source location of the error.
func (e *CompileError) Location() SourceLocation {
	return SourceLocation{
		Filename: e.Filename,
		Line:     e.Line,
		Column:   e.Column,
		Source:   e.SourceLine,
	}
}

// FriendlyErrorMessage returns a human-friendly error message.
func (e *CompileError) FriendlyErrorMessage() string {
	return NewFormatter(false).Format(e.ToFormatted())
}

// ToFormatted converts to the FormattedError type for display.
func (e *CompileError) ToFormatted() *FormattedError {
	return &FormattedError{
		Code:       e.Code,
		Kind:       "compile error",
		Message:    e.Message,
		Filename:   e.Filename,
		Line:       e.Line,
		Column:     e.Column,
		SourceLine: e.SourceLine,
		Note:       e.Note,
	}
}
