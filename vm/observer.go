package vm

import (
	"github.com/rs/zerolog"

	"github.com/deepnoodle-ai/bf/bytecode"
)

// StepEvent describes the machine state just before an instruction executes.
type StepEvent struct {
	PC          int
	Instruction bytecode.Instruction
	DataPointer int
	Cell        byte
	Location    bytecode.SourceLocation
}

// Observer receives callbacks for VM execution events. This enables
// tracers and debuggers without modifying the VM. An observer passed to
// several VMs is shared by all of them, so it must not keep per-run state
// unless it synchronizes it.
type Observer interface {
	// OnStep is called before each instruction. Returning false halts
	// execution with ErrHaltedByObserver.
	OnStep(event StepEvent) bool
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(event StepEvent) bool

// OnStep calls f(event).
func (f ObserverFunc) OnStep(event StepEvent) bool {
	return f(event)
}

// NewTraceObserver returns an observer that logs every step at trace level.
func NewTraceObserver(logger zerolog.Logger) Observer {
	return ObserverFunc(func(event StepEvent) bool {
		logger.Trace().
			Int("pc", event.PC).
			Stringer("instruction", event.Instruction).
			Int("pointer", event.DataPointer).
			Uint8("cell", event.Cell).
			Stringer("location", event.Location).
			Msg("step")
		return true
	})
}
