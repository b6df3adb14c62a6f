// Package bf compiles and runs programs written in the eight-operator tape
// language.
//
// Source is compiled into a compact instruction sequence: runs of identical
// operators collapse into a single counted instruction and loops are resolved
// into absolute jump targets. The instructions then run against a tape of
// 30,000 byte cells whose arithmetic wraps modulo 256.
//
//	err := bf.Eval(ctx, "++++++++[>++++++++<-]>+.", bf.WithOutput(os.Stdout))
package bf

import (
	"context"
	"io"

	"github.com/rs/zerolog"

	"github.com/deepnoodle-ai/bf/bytecode"
	"github.com/deepnoodle-ai/bf/compiler"
	"github.com/deepnoodle-ai/bf/vm"
)

// Option configures a compilation or execution.
type Option func(*options)

type options struct {
	filename      string
	inputOperator bool
	stepLimit     int64
	input         io.Reader
	output        io.Writer
	observer      vm.Observer
	logger        *zerolog.Logger
	checkInterval *int
}

func collectOptions(opts ...Option) *options {
	o := &options{}
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}
	return o
}

func (o *options) compilerConfig() *compiler.Config {
	return &compiler.Config{
		Filename:      o.filename,
		InputOperator: o.inputOperator,
		Logger:        o.logger,
	}
}

func (o *options) vmOpts() []vm.Option {
	var opts []vm.Option
	if o.input != nil {
		opts = append(opts, vm.WithInput(o.input))
	}
	if o.output != nil {
		opts = append(opts, vm.WithOutput(o.output))
	}
	if o.observer != nil {
		opts = append(opts, vm.WithObserver(o.observer))
	}
	if o.logger != nil {
		opts = append(opts, vm.WithLogger(*o.logger))
	}
	if o.stepLimit > 0 {
		opts = append(opts, vm.WithStepLimit(o.stepLimit))
	}
	if o.checkInterval != nil {
		opts = append(opts, vm.WithContextCheckInterval(*o.checkInterval))
	}
	return opts
}

// WithFilename sets the filename for the source code being compiled.
// This is used for error messages.
func WithFilename(filename string) Option {
	return func(o *options) {
		o.filename = filename
	}
}

// WithInputOperator compiles ',' into an input read. By default ',' is a
// comment character like any other non-operator.
func WithInputOperator() Option {
	return func(o *options) {
		o.inputOperator = true
	}
}

// WithInput sets the reader consumed by the ',' operator when it is enabled
// with WithInputOperator. Without it, a program that reads input fails with
// errors.ErrUnimplementedInput.
func WithInput(r io.Reader) Option {
	return func(o *options) {
		o.input = r
	}
}

// WithOutput sets the writer that receives the program's output.
// Output is discarded by default.
func WithOutput(w io.Writer) Option {
	return func(o *options) {
		o.output = w
	}
}

// WithObserver sets an observer that is called before each instruction.
func WithObserver(observer vm.Observer) Option {
	return func(o *options) {
		o.observer = observer
	}
}

// WithStepLimit stops each run with vm.ErrStepLimitExceeded before it
// executes more than limit instructions. The count restarts on every run.
func WithStepLimit(limit int64) Option {
	return func(o *options) {
		o.stepLimit = limit
	}
}

// WithLogger sets the logger used for compiler and VM debug output.
func WithLogger(logger zerolog.Logger) Option {
	return func(o *options) {
		o.logger = &logger
	}
}

// WithContextCheckInterval sets how many instructions run between checks
// for context cancellation. Zero disables the checks.
func WithContextCheckInterval(interval int) Option {
	return func(o *options) {
		o.checkInterval = &interval
	}
}

// Compile compiles source code into an executable Program.
// The returned Program is immutable and safe for concurrent use.
func Compile(source string, opts ...Option) (*Program, error) {
	o := collectOptions(opts...)
	code, err := compiler.Compile(source, o.compilerConfig())
	if err != nil {
		return nil, err
	}
	return &Program{code: code}, nil
}

// Check reports every bracket error in the source at once. See
// compiler.Check.
func Check(source string, opts ...Option) error {
	o := collectOptions(opts...)
	return compiler.Check(source, o.compilerConfig())
}

// Load decodes a Program previously encoded with Program.MarshalBinary or
// Program.MarshalJSON. The encoding is detected from the data.
func Load(data []byte) (*Program, error) {
	var code *bytecode.Code
	var err error
	if bytecode.IsBinary(data) {
		code, err = bytecode.UnmarshalBinary(data)
	} else {
		code, err = bytecode.Unmarshal(data)
	}
	if err != nil {
		return nil, err
	}
	return &Program{code: code}, nil
}

// Eval is a convenience function that compiles and runs source code.
// It is equivalent to Compile() followed by Program.Run().
func Eval(ctx context.Context, source string, opts ...Option) error {
	program, err := Compile(source, opts...)
	if err != nil {
		return err
	}
	return program.Run(ctx, opts...)
}
