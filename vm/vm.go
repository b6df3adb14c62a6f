// Package vm provides a VirtualMachine that executes compiled bf code.
package vm

import (
	"bufio"
	"context"
	goerrors "errors"
	"fmt"
	"io"
	"sync"

	"github.com/rs/zerolog"

	"github.com/deepnoodle-ai/bf/bytecode"
	"github.com/deepnoodle-ai/bf/errors"
	"github.com/deepnoodle-ai/bf/op"
)

const (
	// TapeSize is the number of cells on the tape.
	TapeSize = 30000

	// DefaultContextCheckInterval is the number of instructions between
	// deterministic checks of ctx.Done(). Set to 0 to disable.
	DefaultContextCheckInterval = 1000
)

var (
	// ErrAlreadyRun is returned when Run is called on a VM that has already run.
	ErrAlreadyRun = goerrors.New("vm has already run")

	// ErrHaltedByObserver is returned when an observer's OnStep returns false.
	ErrHaltedByObserver = goerrors.New("execution halted by observer")

	// ErrStepLimitExceeded is returned when a run would execute more
	// instructions than WithStepLimit allows.
	ErrStepLimitExceeded = goerrors.New("step limit exceeded")
)

// VirtualMachine executes one compiled program against a zeroed tape.
// A VirtualMachine runs at most once; execution cannot be resumed after it
// halts or fails.
type VirtualMachine struct {
	pc    int // program counter
	dp    int // data pointer
	steps int64
	main  *bytecode.Code
	tape  [TapeSize]byte

	input  io.Reader
	reader io.ByteReader
	output io.Writer

	// contextCheckInterval is the number of instructions between deterministic
	// checks of ctx.Done(). A value of 0 disables checking.
	contextCheckInterval int

	// stepLimit caps the instructions executed by this run. 0 means no limit.
	stepLimit int64

	// observer receives a callback before each instruction executes.
	// If nil, no callbacks are made.
	observer Observer

	logger   zerolog.Logger
	ran      bool
	runMutex sync.Mutex
}

// New creates a new Virtual Machine for the given code.
func New(main *bytecode.Code, options ...Option) *VirtualMachine {
	vm := &VirtualMachine{
		main:                 main,
		output:               io.Discard,
		contextCheckInterval: DefaultContextCheckInterval,
		logger:               zerolog.Nop(),
	}
	for _, opt := range options {
		opt(vm)
	}
	if vm.input != nil {
		if br, ok := vm.input.(io.ByteReader); ok {
			vm.reader = br
		} else {
			vm.reader = bufio.NewReader(vm.input)
		}
	}
	return vm
}

func (vm *VirtualMachine) start() error {
	vm.runMutex.Lock()
	defer vm.runMutex.Unlock()
	if vm.ran {
		return ErrAlreadyRun
	}
	vm.ran = true
	return nil
}

// Run executes the program until the program counter passes the last
// instruction or an error occurs. Output written before a failure is still
// flushed to the configured writer.
func (vm *VirtualMachine) Run(ctx context.Context) (err error) {
	if vm.main == nil {
		return fmt.Errorf("no main code available")
	}
	if err := vm.start(); err != nil {
		return err
	}
	out := bufio.NewWriter(vm.output)
	defer func() {
		if flushErr := out.Flush(); flushErr != nil && err == nil {
			err = vm.ioError("failed to write output", flushErr)
		}
		vm.logResult(err)
	}()
	return vm.eval(ctx, out)
}

func (vm *VirtualMachine) eval(ctx context.Context, out *bufio.Writer) error {
	// Instruction counter for deterministic context checking
	var instructionCount int
	checkInterval := vm.contextCheckInterval
	doneChan := ctx.Done()

	code := vm.main
	end := code.InstructionCount()

	for vm.pc < end {
		if checkInterval > 0 && doneChan != nil {
			instructionCount++
			if instructionCount >= checkInterval {
				instructionCount = 0
				select {
				case <-doneChan:
					return ctx.Err()
				default:
				}
			}
		}

		if vm.stepLimit > 0 && vm.steps >= vm.stepLimit {
			return ErrStepLimitExceeded
		}

		instr := code.InstructionAt(vm.pc)

		if vm.observer != nil {
			event := StepEvent{
				PC:          vm.pc,
				Instruction: instr,
				DataPointer: vm.dp,
				Cell:        vm.tape[vm.dp],
				Location:    code.LocationAt(vm.pc),
			}
			if !vm.observer.OnStep(event) {
				return ErrHaltedByObserver
			}
		}
		vm.steps++

		switch instr.Op {
		case op.Increment:
			vm.tape[vm.dp] += byte(instr.Operand)
		case op.Decrement:
			vm.tape[vm.dp] -= byte(instr.Operand)
		case op.MoveLeft:
			if vm.dp < instr.Operand {
				return vm.runtimeError(errors.E3001, instr,
					"cannot move left by %d from cell %d", instr.Operand, vm.dp)
			}
			vm.dp -= instr.Operand
		case op.MoveRight:
			if instr.Operand >= TapeSize-vm.dp {
				return vm.runtimeError(errors.E3002, instr,
					"cannot move right by %d from cell %d past the end of the tape (%d cells)",
					instr.Operand, vm.dp, TapeSize)
			}
			vm.dp += instr.Operand
		case op.ReadInput:
			if err := vm.readInput(instr, out); err != nil {
				return err
			}
		case op.WriteOutput:
			cell := vm.tape[vm.dp]
			for i := 0; i < instr.Operand; i++ {
				if err := out.WriteByte(cell); err != nil {
					return vm.ioError("failed to write output", err)
				}
			}
		case op.JumpIfZero:
			if vm.tape[vm.dp] == 0 {
				vm.pc = instr.Operand
				continue
			}
		case op.JumpIfNonZero:
			if vm.tape[vm.dp] != 0 {
				vm.pc = instr.Operand
				continue
			}
		default:
			return fmt.Errorf("unknown opcode %d at pc %d", instr.Op, vm.pc)
		}
		vm.pc++
	}
	return nil
}

func (vm *VirtualMachine) readInput(instr bytecode.Instruction, out *bufio.Writer) error {
	if vm.reader == nil {
		return vm.runtimeError(errors.E3003, instr, "no input source configured")
	}
	// Anything the program printed so far is visible before it blocks on input
	if err := out.Flush(); err != nil {
		return vm.ioError("failed to write output", err)
	}
	b, err := vm.reader.ReadByte()
	switch {
	case err == nil:
		vm.tape[vm.dp] = b
	case goerrors.Is(err, io.EOF):
		vm.tape[vm.dp] = 0
	default:
		return vm.ioError("failed to read input", err)
	}
	return nil
}

// PC returns the program counter. After a successful run it equals the
// instruction count; after a failure it is the index of the failing
// instruction.
func (vm *VirtualMachine) PC() int {
	return vm.pc
}

// DataPointer returns the current index into the tape.
func (vm *VirtualMachine) DataPointer() int {
	return vm.dp
}

// Cell returns the value of the tape cell at the given index, or 0 if the
// index is outside the tape.
func (vm *VirtualMachine) Cell(index int) byte {
	if index < 0 || index >= TapeSize {
		return 0
	}
	return vm.tape[index]
}

// Steps returns the number of instructions executed.
func (vm *VirtualMachine) Steps() int64 {
	return vm.steps
}

func (vm *VirtualMachine) runtimeError(code errors.ErrorCode, instr bytecode.Instruction, format string, args ...any) *errors.RuntimeError {
	err := errors.NewRuntimeError(code, format, args...)
	err.PC = vm.pc
	err.Instruction = instr.String()
	err.DataPointer = vm.dp
	if loc := vm.main.LocationAt(vm.pc); !loc.IsZero() {
		err.Location = errors.SourceLocation{
			Filename: vm.main.Filename(),
			Line:     loc.Line,
			Column:   loc.Column,
			Source:   vm.main.GetSourceLine(loc.Line),
		}
	}
	return err
}

func (vm *VirtualMachine) ioError(msg string, cause error) *errors.RuntimeError {
	var instr bytecode.Instruction
	if vm.pc < vm.main.InstructionCount() {
		instr = vm.main.InstructionAt(vm.pc)
	}
	err := vm.runtimeError(errors.E3004, instr, "%s", msg)
	if instr.Op == op.Invalid {
		err.Instruction = ""
	}
	err.Cause = cause
	return err
}

func (vm *VirtualMachine) logResult(err error) {
	var event *zerolog.Event
	if err != nil {
		event = vm.logger.Debug().Err(err)
	} else {
		event = vm.logger.Debug()
	}
	event.
		Str("id", vm.main.ID()).
		Int64("steps", vm.steps).
		Int("pc", vm.pc).
		Int("pointer", vm.dp).
		Msg("program finished")
}
