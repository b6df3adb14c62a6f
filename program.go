package bf

import (
	"context"
	"io"

	"github.com/deepnoodle-ai/bf/bytecode"
	"github.com/deepnoodle-ai/bf/dis"
	"github.com/deepnoodle-ai/bf/vm"
)

// Program is the compiled representation of source code.
// It is immutable after creation and safe for concurrent use.
// Multiple goroutines can call Run on the same Program simultaneously, each
// run getting its own tape.
type Program struct {
	code *bytecode.Code
}

// Source returns the original source code that was compiled.
func (p *Program) Source() string {
	return p.code.Source()
}

// Filename returns the filename associated with this program, if any.
func (p *Program) Filename() string {
	return p.code.Filename()
}

// Stats returns statistics about the compiled program.
func (p *Program) Stats() bytecode.Stats {
	return p.code.Stats()
}

// Code returns the compiled bytecode.
func (p *Program) Code() *bytecode.Code {
	return p.code
}

// Disassemble returns the compiled instructions in listing form.
func (p *Program) Disassemble() []dis.Instruction {
	return dis.Disassemble(p.code)
}

// List writes the "index: instruction" listing of the program to w.
func (p *Program) List(w io.Writer) error {
	return dis.List(p.code, w)
}

// Run executes the program on a fresh tape. Only execution options (input,
// output, observer, step limit, logger, context check interval) apply here.
func (p *Program) Run(ctx context.Context, opts ...Option) error {
	o := collectOptions(opts...)
	return vm.Run(ctx, p.code, o.vmOpts()...)
}

// MarshalBinary encodes the program in the compact binary format.
func (p *Program) MarshalBinary() ([]byte, error) {
	return bytecode.MarshalBinary(p.code)
}

// MarshalJSON encodes the program as JSON.
func (p *Program) MarshalJSON() ([]byte, error) {
	return bytecode.Marshal(p.code)
}
