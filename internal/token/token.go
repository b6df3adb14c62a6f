// Package token defines the tokens produced when lexing bf source code.
package token

import "github.com/deepnoodle-ai/bf/op"

// Position points to a particular location in an input string.
type Position struct {
	Char      int    // byte offset within the file
	LineStart int    // byte offset of the start of the current line
	Line      int    // 0-indexed line number
	Column    int    // 0-indexed column number, in runes
	File      string // filename
}

// LineNumber returns the 1-indexed line number for this position in the input.
func (p Position) LineNumber() int {
	return p.Line + 1
}

// ColumnNumber returns the 1-indexed column number for this position in the input.
func (p Position) ColumnNumber() int {
	return p.Column + 1
}

// Token is one operator character lexed from the input source code.
// Characters that are not operators never become tokens.
type Token struct {
	Op       op.Code
	Literal  byte
	Position Position
}

// EOF is returned by the lexer once the input is exhausted.
var EOF = Token{Op: op.Invalid}

// IsEOF returns true if the token marks the end of the input.
func (t Token) IsEOF() bool {
	return t.Op == op.Invalid
}
