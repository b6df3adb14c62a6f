package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/hokaccha/go-prettyjson"
	"github.com/mattn/go-isatty"

	"github.com/deepnoodle-ai/bf/compiler"
	"github.com/deepnoodle-ai/bf/errors"
)

var red = color.New(color.FgRed).SprintFunc()

func (a *app) printError(msg string) {
	if a.colorEnabled(a.stderr) {
		msg = red(msg)
	}
	fmt.Fprintln(a.stderr, msg)
}

// colorEnabled reports whether output written to w should be colored.
func (a *app) colorEnabled(w io.Writer) bool {
	if a.v.GetBool("no-color") || color.NoColor {
		return false
	}
	return isTerminal(w)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// formatError renders compile and runtime errors with source context.
// Other errors are returned as plain text.
func (a *app) formatError(err error) string {
	formatter := errors.NewFormatter(a.colorEnabled(a.stderr))

	if compileErrs := compiler.CompileErrors(err); len(compileErrs) > 1 {
		formatted := make([]*errors.FormattedError, 0, len(compileErrs))
		for _, ce := range compileErrs {
			formatted = append(formatted, ce.ToFormatted())
		}
		return formatter.FormatMultiple(formatted)
	}
	if formattable, ok := err.(errors.FormattableError); ok {
		return formatter.Format(formattable.ToFormatted())
	}
	return err.Error() + "\n"
}

// writeJSON writes v as indented JSON, colorized when w is a terminal.
func (a *app) writeJSON(w io.Writer, v any) error {
	var data []byte
	var err error
	if a.colorEnabled(w) {
		data, err = prettyjson.Marshal(v)
	} else {
		data, err = json.MarshalIndent(v, "", "  ")
	}
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
