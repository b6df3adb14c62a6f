package errors

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
)

// Formatter formats errors in a compiler-style layout, optionally colored.
type Formatter struct {
	// UseColor enables ANSI color codes in output.
	UseColor bool
}

// NewFormatter creates a new error formatter.
func NewFormatter(useColor bool) *Formatter {
	return &Formatter{UseColor: useColor}
}

// Colors used for error formatting
var (
	colorError     = []color.Attribute{color.FgRed}
	colorErrorBold = []color.Attribute{color.FgHiRed, color.Bold}
	colorCode      = []color.Attribute{color.FgHiBlack}
	colorLocation  = []color.Attribute{color.FgCyan}
	colorPipe      = []color.Attribute{color.FgHiBlack}
	colorCaret     = []color.Attribute{color.FgHiRed}
	colorNote      = []color.Attribute{color.FgHiBlue}
)

// FormattedError represents an error ready for display.
type FormattedError struct {
	Code       ErrorCode
	Kind       string // "compile error", "runtime error", etc.
	Message    string
	Filename   string
	Line       int
	Column     int
	SourceLine string
	Note       string
}

// Format formats the error as a string.
func (f *Formatter) Format(err *FormattedError) string {
	return f.FormatWithPrefix(err, "")
}

// FormatWithPrefix formats the error with an optional prefix like "1/5".
// The prefix is only shown when the error has no code.
func (f *Formatter) FormatWithPrefix(err *FormattedError, prefix string) string {
	var b strings.Builder

	lineNumWidth := 2
	if n := len(fmt.Sprintf("%d", err.Line)); n > lineNumWidth {
		lineNumWidth = n
	}

	f.writeHeader(&b, err, prefix)
	f.writeLocation(&b, err, lineNumWidth)
	f.writeSource(&b, err, lineNumWidth)
	if err.Note != "" {
		f.writeNote(&b, err.Note, lineNumWidth)
	}
	return b.String()
}

// FormatMultiple formats multiple errors, numbering them when there is more
// than one.
func (f *Formatter) FormatMultiple(errs []*FormattedError) string {
	if len(errs) == 0 {
		return ""
	}
	if len(errs) == 1 {
		return f.Format(errs[0])
	}
	var b strings.Builder
	for i, err := range errs {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(f.FormatWithPrefix(err, fmt.Sprintf("%d/%d", i+1, len(errs))))
	}
	return b.String()
}

func (f *Formatter) apply(attrs []color.Attribute, s string) string {
	if !f.UseColor {
		return s
	}
	c := color.New(attrs...)
	c.EnableColor()
	return c.Sprint(s)
}

func (f *Formatter) writeHeader(b *strings.Builder, err *FormattedError, prefix string) {
	label := "error"
	b.WriteString(f.apply(colorErrorBold, label))
	if err.Code != "" {
		b.WriteString(f.apply(colorCode, fmt.Sprintf("[%s]", err.Code)))
	} else if prefix != "" {
		b.WriteString(f.apply(colorCode, fmt.Sprintf("[%s]", prefix)))
	}
	b.WriteString(f.apply(colorError, ": "))
	if err.Kind != "" {
		b.WriteString(err.Kind)
		b.WriteString(": ")
	}
	b.WriteString(err.Message)
	b.WriteString("\n")
}

func (f *Formatter) writeLocation(b *strings.Builder, err *FormattedError, lineNumWidth int) {
	if err.Line == 0 && err.Filename == "" {
		return
	}
	b.WriteString(strings.Repeat(" ", lineNumWidth))
	b.WriteString(f.apply(colorLocation, "-->"))
	b.WriteString(" ")
	loc := err.Filename
	if err.Line > 0 {
		if loc != "" {
			loc += ":"
		}
		loc += fmt.Sprintf("%d:%d", err.Line, err.Column)
	}
	b.WriteString(f.apply(colorLocation, loc))
	b.WriteString("\n")
}

func (f *Formatter) writeSource(b *strings.Builder, err *FormattedError, lineNumWidth int) {
	if err.SourceLine == "" || err.Line == 0 {
		return
	}
	padding := strings.Repeat(" ", lineNumWidth)

	b.WriteString(padding)
	b.WriteString(f.apply(colorPipe, " |\n"))

	b.WriteString(f.apply(colorPipe, fmt.Sprintf("%*d", lineNumWidth, err.Line)))
	b.WriteString(f.apply(colorPipe, " | "))
	b.WriteString(err.SourceLine)
	b.WriteString("\n")

	if err.Column > 0 {
		b.WriteString(padding)
		b.WriteString(f.apply(colorPipe, " | "))
		b.WriteString(strings.Repeat(" ", err.Column-1))
		b.WriteString(f.apply(colorCaret, "^"))
		b.WriteString("\n")
	}
}

func (f *Formatter) writeNote(b *strings.Builder, note string, lineNumWidth int) {
	b.WriteString(strings.Repeat(" ", lineNumWidth))
	b.WriteString(f.apply(colorPipe, " = "))
	b.WriteString(f.apply(colorNote, "note: "))
	b.WriteString(note)
	b.WriteString("\n")
}
