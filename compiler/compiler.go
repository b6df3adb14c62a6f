// Package compiler is used to compile bf source code into the corresponding
// bytecode.
//
// # Run-Length Compaction
//
// The cell and pointer operators (+ - < >) and output (.) are compacted: a
// run of immediately adjacent identical operators becomes one instruction
// whose operand is the run length. Any other character ends the run, so
// "+++" compiles to INCREMENT(3) while "+ +" compiles to two INCREMENT(1).
//
// # Input
//
// The ',' character is a comment unless Config.InputOperator is set, in which
// case each ',' compiles to its own READ_INPUT.
//
// # Bracket Resolution
//
// Loops are resolved in the same single pass using a stack of open bracket
// positions. On '[' a JUMP_IF_ZERO placeholder is emitted and its index is
// pushed. On ']' the index is popped, a JUMP_IF_NON_ZERO targeting the
// instruction after the '[' is emitted, and the placeholder is patched to
// target the new JUMP_IF_NON_ZERO. The stack must be empty at the end of the
// input.
package compiler

import (
	"fmt"

	"github.com/gofrs/uuid"
	"github.com/rs/zerolog"

	"github.com/deepnoodle-ai/bf/bytecode"
	"github.com/deepnoodle-ai/bf/errors"
	"github.com/deepnoodle-ai/bf/internal/lexer"
	"github.com/deepnoodle-ai/bf/internal/token"
	"github.com/deepnoodle-ai/bf/op"
)

// Placeholder is the target written to a JUMP_IF_ZERO before its matching
// bracket is found. It is always replaced before compilation completes.
const Placeholder = 0

// Compiler compiles bf source code into bytecode.
type Compiler struct {
	filename      string
	inputOperator bool
	logger        zerolog.Logger

	lexer        *lexer.Lexer
	instructions []bytecode.Instruction
	locations    []bytecode.SourceLocation

	// Open brackets awaiting their match, innermost last
	loops []loopStart
}

type loopStart struct {
	index int
	tok   token.Token
}

// Config holds compiler configuration options.
type Config struct {
	// Filename is the source filename, used for error messages.
	Filename string

	// InputOperator compiles ',' into READ_INPUT instead of ignoring it.
	InputOperator bool

	// Logger receives debug output. Defaults to a no-op logger.
	Logger *zerolog.Logger
}

// Compile compiles the given source code and returns immutable bytecode.
// Pass nil for cfg to use default settings.
func Compile(source string, cfg *Config) (*bytecode.Code, error) {
	return New(cfg).Compile(source)
}

// New creates and returns a new Compiler. Pass nil for cfg to use defaults.
func New(cfg *Config) *Compiler {
	c := &Compiler{logger: zerolog.Nop()}
	if cfg != nil {
		c.filename = cfg.Filename
		c.inputOperator = cfg.InputOperator
		if cfg.Logger != nil {
			c.logger = *cfg.Logger
		}
	}
	return c
}

// Compile compiles the given source code. The first error encountered stops
// compilation and no code is returned. A Compiler may be used to compile
// any number of sources, one at a time.
func (c *Compiler) Compile(source string) (*bytecode.Code, error) {
	c.reset(source)

	tok := c.lexer.Next()
	for !tok.IsEOF() {
		switch tok.Op {
		case op.JumpIfZero:
			c.loops = append(c.loops, loopStart{index: len(c.instructions), tok: tok})
			c.emit(op.JumpIfZero, Placeholder, tok)
			tok = c.lexer.Next()
		case op.JumpIfNonZero:
			if len(c.loops) == 0 {
				return nil, c.bracketMismatch(tok)
			}
			start := c.loops[len(c.loops)-1]
			c.loops = c.loops[:len(c.loops)-1]
			end := c.emit(op.JumpIfNonZero, start.index+1, tok)
			c.instructions[start.index].Operand = end
			tok = c.lexer.Next()
		case op.ReadInput:
			c.emit(op.ReadInput, 0, tok)
			tok = c.lexer.Next()
		default:
			count := 1
			for c.lexer.Repeat(tok.Literal) {
				count++
			}
			c.emit(tok.Op, count, tok)
			tok = c.lexer.Next()
		}
	}
	if len(c.loops) > 0 {
		return nil, c.unmatchedOpen(c.loops[len(c.loops)-1].tok)
	}

	id, err := uuid.NewV4()
	if err != nil {
		return nil, fmt.Errorf("failed to generate code id: %w", err)
	}
	code := bytecode.NewCode(bytecode.CodeParams{
		ID:           id.String(),
		Filename:     c.filename,
		Source:       source,
		Instructions: c.instructions,
		Locations:    c.locations,
	})
	c.logger.Debug().
		Str("id", code.ID()).
		Str("filename", c.filename).
		Int("source_bytes", len(source)).
		Int("instructions", code.InstructionCount()).
		Msg("compiled program")
	return code, nil
}

func (c *Compiler) reset(source string) {
	c.lexer = lexer.New(source)
	c.lexer.SetFilename(c.filename)
	c.lexer.SetInputOperator(c.inputOperator)
	c.instructions = nil
	c.locations = nil
	c.loops = nil
}

// emit appends an instruction and returns its index.
func (c *Compiler) emit(code op.Code, operand int, tok token.Token) int {
	c.instructions = append(c.instructions, bytecode.Instruction{Op: code, Operand: operand})
	c.locations = append(c.locations, bytecode.SourceLocation{
		Line:   tok.Position.LineNumber(),
		Column: tok.Position.ColumnNumber(),
	})
	return len(c.instructions) - 1
}

func (c *Compiler) location(tok token.Token) errors.SourceLocation {
	return errors.SourceLocation{
		Filename: c.filename,
		Line:     tok.Position.LineNumber(),
		Column:   tok.Position.ColumnNumber(),
		Source:   c.lexer.GetLineText(tok.Position),
	}
}

func (c *Compiler) bracketMismatch(tok token.Token) *errors.CompileError {
	return errors.NewCompileError(errors.E2001, c.location(tok),
		"unexpected ']' with no matching '['")
}

func (c *Compiler) unmatchedOpen(tok token.Token) *errors.CompileError {
	err := errors.NewCompileError(errors.E2002, c.location(tok), "unclosed '['")
	err.Note = "every '[' must be closed by a matching ']'"
	return err
}
