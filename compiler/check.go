package compiler

import (
	"github.com/hashicorp/go-multierror"

	"github.com/deepnoodle-ai/bf/errors"
	"github.com/deepnoodle-ai/bf/op"
)

// Check reports every bracket error in the source, rather than stopping at
// the first one like Compile. Unmatched closing brackets are reported in
// source order, followed by unclosed opening brackets in source order.
// The returned error is a *multierror.Error whose entries are
// *errors.CompileError values, or nil if the source compiles.
func (c *Compiler) Check(source string) error {
	c.reset(source)

	var result *multierror.Error
	for tok := c.lexer.Next(); !tok.IsEOF(); tok = c.lexer.Next() {
		switch tok.Op {
		case op.JumpIfZero:
			c.loops = append(c.loops, loopStart{tok: tok})
		case op.JumpIfNonZero:
			if len(c.loops) == 0 {
				result = multierror.Append(result, c.bracketMismatch(tok))
				continue
			}
			c.loops = c.loops[:len(c.loops)-1]
		}
	}
	for _, open := range c.loops {
		result = multierror.Append(result, c.unmatchedOpen(open.tok))
	}
	return result.ErrorOrNil()
}

// Check reports every bracket error in the source. Pass nil for cfg to use
// default settings.
func Check(source string, cfg *Config) error {
	return New(cfg).Check(source)
}

// CompileErrors extracts the individual compile errors from an error
// returned by Check or Compile.
func CompileErrors(err error) []*errors.CompileError {
	if err == nil {
		return nil
	}
	var errs []error
	if merr, ok := err.(*multierror.Error); ok {
		errs = merr.WrappedErrors()
	} else {
		errs = []error{err}
	}
	var result []*errors.CompileError
	for _, e := range errs {
		if ce, ok := e.(*errors.CompileError); ok {
			result = append(result, ce)
		}
	}
	return result
}
