// Package lexer turns bf source code into a stream of operator tokens.
package lexer

import (
	"strings"
	"unicode/utf8"

	"github.com/deepnoodle-ai/bf/internal/token"
	"github.com/deepnoodle-ai/bf/op"
)

// Lexer scans source code one operator at a time. Every other character is
// a comment and is skipped. The ',' character is a comment too unless the
// input operator is enabled.
type Lexer struct {
	input         string
	file          string
	pos           int // byte offset of the next character to read
	line          int
	lineStart     int
	inputOperator bool
}

// New returns a Lexer for the given input.
func New(input string) *Lexer {
	return &Lexer{input: input}
}

// SetFilename sets the filename recorded in token positions.
func (l *Lexer) SetFilename(filename string) {
	l.file = filename
}

// SetInputOperator controls whether ',' is lexed as READ_INPUT.
func (l *Lexer) SetInputOperator(enabled bool) {
	l.inputOperator = enabled
}

// Next returns the next operator token, or token.EOF at the end of input.
func (l *Lexer) Next() token.Token {
	for l.pos < len(l.input) {
		c := l.input[l.pos]
		code, ok := op.FromSymbol(c)
		if !ok || (code == op.ReadInput && !l.inputOperator) {
			l.skip(c)
			continue
		}
		tok := token.Token{
			Op:      code,
			Literal: c,
			Position: token.Position{
				Char:      l.pos,
				LineStart: l.lineStart,
				Line:      l.line,
				Column:    utf8.RuneCountInString(l.input[l.lineStart:l.pos]),
				File:      l.file,
			},
		}
		l.pos++
		return tok
	}
	return token.EOF
}

// Repeat consumes the next character if it is exactly literal and reports
// whether it did. Unlike Next it never skips comments, so any other
// character ends a run.
func (l *Lexer) Repeat(literal byte) bool {
	if l.pos < len(l.input) && l.input[l.pos] == literal {
		l.pos++
		return true
	}
	return false
}

// GetLineText returns the text of the line containing the given position,
// without its line terminator.
func (l *Lexer) GetLineText(pos token.Position) string {
	if pos.LineStart > len(l.input) {
		return ""
	}
	line := l.input[pos.LineStart:]
	if end := strings.IndexByte(line, '\n'); end >= 0 {
		line = line[:end]
	}
	return strings.TrimSuffix(line, "\r")
}

func (l *Lexer) skip(c byte) {
	l.pos++
	if c == '\n' {
		l.line++
		l.lineStart = l.pos
	}
}
