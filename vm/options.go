package vm

import (
	"io"

	"github.com/rs/zerolog"
)

// Option is a configuration function for a Virtual Machine.
type Option func(*VirtualMachine)

// WithInput sets the reader that READ_INPUT instructions consume one byte at
// a time. End of input stores 0 in the current cell. Without an input,
// READ_INPUT fails with errors.ErrUnimplementedInput.
func WithInput(r io.Reader) Option {
	return func(vm *VirtualMachine) {
		vm.input = r
	}
}

// WithOutput sets the writer that WRITE_OUTPUT instructions write to.
// Output is discarded by default.
func WithOutput(w io.Writer) Option {
	return func(vm *VirtualMachine) {
		vm.output = w
	}
}

// WithContextCheckInterval sets how often the VM checks ctx.Done() during
// execution. The interval is specified in number of instructions. A value of 0
// disables checking, so the program runs until it halts or fails. The default
// is DefaultContextCheckInterval (1000).
func WithContextCheckInterval(interval int) Option {
	return func(vm *VirtualMachine) {
		vm.contextCheckInterval = interval
	}
}

// WithObserver sets an observer that is called before each instruction.
// Observer methods are called synchronously during execution, so
// implementations should be fast to avoid impacting performance.
// Returning false halts execution immediately.
func WithObserver(observer Observer) Option {
	return func(vm *VirtualMachine) {
		vm.observer = observer
	}
}

// WithLogger sets the logger used for debug output.
func WithLogger(logger zerolog.Logger) Option {
	return func(vm *VirtualMachine) {
		vm.logger = logger
	}
}

// WithStepLimit stops execution with ErrStepLimitExceeded before the VM
// would execute more than limit instructions. The count belongs to the VM,
// so every run starts from zero. A limit of 0 means no limit.
func WithStepLimit(limit int64) Option {
	return func(vm *VirtualMachine) {
		vm.stepLimit = limit
	}
}
