package errors

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFormatCompileError(t *testing.T) {
	err := NewCompileError(E2002, SourceLocation{
		Filename: "loop.bf",
		Line:     1,
		Column:   3,
		Source:   "++[>+",
	}, "unclosed '['")

	expected := strings.Join([]string{
		"error[E2002]: compile error: unclosed '['",
		"  --> loop.bf:1:3",
		"   |",
		" 1 | ++[>+",
		"   |   ^",
		"",
	}, "\n")
	require.Equal(t, expected, err.FriendlyErrorMessage())
}

func TestFormatRuntimeError(t *testing.T) {
	err := NewRuntimeError(E3002, "pointer moved past the end of the tape")
	err.PC = 0
	err.Instruction = "MOVE_RIGHT(30000)"

	expected := strings.Join([]string{
		"error[E3002]: runtime error: pointer moved past the end of the tape",
		"   = note: at pc 0 (MOVE_RIGHT(30000)) with data pointer 0",
		"",
	}, "\n")
	require.Equal(t, expected, err.FriendlyErrorMessage())
}

func TestFormatMultiple(t *testing.T) {
	f := NewFormatter(false)
	require.Equal(t, "", f.FormatMultiple(nil))

	errs := []*FormattedError{
		{Message: "first"},
		{Message: "second"},
	}
	out := f.FormatMultiple(errs)
	require.Equal(t, "error[1/2]: first\n\nerror[2/2]: second\n", out)
}

func TestFormatWithColor(t *testing.T) {
	f := NewFormatter(true)
	out := f.Format(&FormattedError{Code: E2001, Message: "boom"})
	require.Contains(t, out, "\x1b[")
	require.Contains(t, out, "boom")
}
