package vm

import (
	"bytes"
	"context"
	goerrors "errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/deepnoodle-ai/bf/bytecode"
	"github.com/deepnoodle-ai/bf/compiler"
	"github.com/deepnoodle-ai/bf/errors"
	"github.com/deepnoodle-ai/bf/op"
)

func compile(t *testing.T, source string) *bytecode.Code {
	t.Helper()
	code, err := compiler.Compile(source, &compiler.Config{Filename: "test.bf", InputOperator: true})
	require.NoError(t, err)
	return code
}

func codeOf(instructions ...bytecode.Instruction) *bytecode.Code {
	return bytecode.NewCode(bytecode.CodeParams{ID: "test", Instructions: instructions})
}

// run executes source and returns the VM and what it wrote.
func run(t *testing.T, source string, opts ...Option) (*VirtualMachine, string, error) {
	t.Helper()
	var out bytes.Buffer
	machine := New(compile(t, source), append([]Option{WithOutput(&out)}, opts...)...)
	err := machine.Run(context.Background())
	return machine, out.String(), err
}

func TestEndToEnd(t *testing.T) {
	machine, out, err := run(t, "++++++++[>++++[>++>+++>+++>+<<<<-]>+>+>->>+[<]<-]>>.")
	require.NoError(t, err)
	require.Equal(t, "H", out)
	require.Equal(t, 32, machine.PC())
	require.Equal(t, 2, machine.DataPointer())
	require.Equal(t, int64(556), machine.Steps())
}

func TestPrintA(t *testing.T) {
	_, out, err := run(t, "++++++++[>++++++++<-]>+.")
	require.NoError(t, err)
	require.Equal(t, "A", out)
}

func TestCommentOnlyProgramHalts(t *testing.T) {
	machine, out, err := run(t, "nothing to see here\n")
	require.NoError(t, err)
	require.Equal(t, "", out)
	require.Equal(t, 0, machine.PC())
	require.Equal(t, int64(0), machine.Steps())
}

func TestCellArithmeticWraps(t *testing.T) {
	tests := []struct {
		name     string
		code     *bytecode.Code
		expected byte
	}{
		{"255 plus one", codeOf(
			bytecode.Instruction{Op: op.Decrement, Operand: 1},
			bytecode.Instruction{Op: op.Increment, Operand: 1},
		), 0},
		{"zero minus one", codeOf(bytecode.Instruction{Op: op.Decrement, Operand: 1}), 255},
		{"full turn", codeOf(bytecode.Instruction{Op: op.Increment, Operand: 256}), 0},
		{"large increment", codeOf(bytecode.Instruction{Op: op.Increment, Operand: 300}), 44},
		{"large decrement", codeOf(bytecode.Instruction{Op: op.Decrement, Operand: 513}), 255},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			machine := New(tt.code)
			require.NoError(t, machine.Run(context.Background()))
			require.Equal(t, tt.expected, machine.Cell(0))
		})
	}
}

func TestPointerUnderflow(t *testing.T) {
	machine, _, err := run(t, "+\n <")
	require.Error(t, err)
	require.True(t, goerrors.Is(err, errors.ErrPointerUnderflow))

	var runtimeErr *errors.RuntimeError
	require.True(t, goerrors.As(err, &runtimeErr))
	require.Equal(t, errors.E3001, runtimeErr.Code)
	require.Equal(t, 1, runtimeErr.PC)
	require.Equal(t, "MOVE_LEFT(1)", runtimeErr.Instruction)
	require.Equal(t, 0, runtimeErr.DataPointer)
	require.Equal(t, errors.SourceLocation{Filename: "test.bf", Line: 2, Column: 2, Source: " <"}, runtimeErr.Location)
	require.Equal(t, 1, machine.PC())
	require.Equal(t, 0, machine.DataPointer())
}

func TestPointerUnderflowByCount(t *testing.T) {
	machine, _, err := run(t, ">><<<")
	require.True(t, goerrors.Is(err, errors.ErrPointerUnderflow))
	require.Equal(t, 2, machine.DataPointer())
}

func TestPointerOverflow(t *testing.T) {
	code := codeOf(
		bytecode.Instruction{Op: op.MoveRight, Operand: TapeSize - 1},
		bytecode.Instruction{Op: op.Increment, Operand: 7},
		bytecode.Instruction{Op: op.MoveRight, Operand: 1},
	)
	machine := New(code)
	err := machine.Run(context.Background())
	require.True(t, goerrors.Is(err, errors.ErrPointerOverflow))
	require.Equal(t, 2, machine.PC())
	require.Equal(t, TapeSize-1, machine.DataPointer())
	require.Equal(t, byte(7), machine.Cell(TapeSize-1))
}

func TestPointerOverflowFromStart(t *testing.T) {
	machine := New(codeOf(bytecode.Instruction{Op: op.MoveRight, Operand: TapeSize}))
	err := machine.Run(context.Background())
	require.True(t, goerrors.Is(err, errors.ErrPointerOverflow))
	require.Equal(t, 0, machine.DataPointer())
}

func TestLastCellIsReachable(t *testing.T) {
	machine, _, err := run(t, strings.Repeat(">", TapeSize-1)+"+")
	require.NoError(t, err)
	require.Equal(t, TapeSize-1, machine.DataPointer())
	require.Equal(t, byte(1), machine.Cell(TapeSize-1))
	require.Equal(t, byte(0), machine.Cell(TapeSize))
	require.Equal(t, byte(0), machine.Cell(-1))
}

func TestWriteOutputRepeats(t *testing.T) {
	_, out, err := run(t, "+++...")
	require.NoError(t, err)
	require.Equal(t, "\x03\x03\x03", out)
}

func TestWriteOutputFullByteRange(t *testing.T) {
	_, out, err := run(t, "-.+.")
	require.NoError(t, err)
	require.Equal(t, []byte{0xff, 0x00}, []byte(out))
}

func TestOutputIsFlushedOnFailure(t *testing.T) {
	_, out, err := run(t, "+.<")
	require.True(t, goerrors.Is(err, errors.ErrPointerUnderflow))
	require.Equal(t, "\x01", out)
}

func TestReadInputWithoutSource(t *testing.T) {
	_, _, err := run(t, ",")
	require.True(t, goerrors.Is(err, errors.ErrUnimplementedInput))

	var runtimeErr *errors.RuntimeError
	require.True(t, goerrors.As(err, &runtimeErr))
	require.Equal(t, errors.E3003, runtimeErr.Code)
	require.Equal(t, "READ_INPUT", runtimeErr.Instruction)
}

func TestReadInput(t *testing.T) {
	_, out, err := run(t, ",.,.", WithInput(strings.NewReader("hi")))
	require.NoError(t, err)
	require.Equal(t, "hi", out)
}

func TestReadInputEOFStoresZero(t *testing.T) {
	machine, _, err := run(t, "+++,", WithInput(strings.NewReader("")))
	require.NoError(t, err)
	require.Equal(t, byte(0), machine.Cell(0))
}

func TestCatProgram(t *testing.T) {
	_, out, err := run(t, ",[.,]", WithInput(strings.NewReader("hello, world")))
	require.NoError(t, err)
	require.Equal(t, "hello, world", out)
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, io.ErrUnexpectedEOF
}

func TestReadInputError(t *testing.T) {
	_, _, err := run(t, ",", WithInput(failingReader{}))
	require.True(t, goerrors.Is(err, errors.ErrIO))
	require.True(t, goerrors.Is(err, io.ErrUnexpectedEOF))
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, io.ErrClosedPipe
}

func TestWriteOutputError(t *testing.T) {
	machine := New(compile(t, "+."), WithOutput(failingWriter{}))
	err := machine.Run(context.Background())
	require.True(t, goerrors.Is(err, errors.ErrIO))
	require.True(t, goerrors.Is(err, io.ErrClosedPipe))
}

func TestRunOnlyOnce(t *testing.T) {
	machine := New(compile(t, "+"))
	require.NoError(t, machine.Run(context.Background()))
	require.Equal(t, ErrAlreadyRun, machine.Run(context.Background()))
	require.Equal(t, byte(1), machine.Cell(0))
}

func TestRunWithoutCode(t *testing.T) {
	require.Error(t, New(nil).Run(context.Background()))
}

func TestContextCancellation(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err := Run(ctx, compile(t, "+[]"))
	require.Equal(t, context.DeadlineExceeded, err)
}

func TestContextCheckDisabled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	machine := New(compile(t, "+++"), WithContextCheckInterval(0))
	require.NoError(t, machine.Run(ctx))
	require.Equal(t, byte(3), machine.Cell(0))
}

func TestContextCheckInterval(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	machine := New(compile(t, "+>+>+>+"), WithContextCheckInterval(3))
	require.Equal(t, context.Canceled, machine.Run(ctx))
	require.Equal(t, int64(2), machine.Steps())
}

func TestRunLengthCompactionIsLossless(t *testing.T) {
	for _, k := range []int{1, 2, 7, 255, 256, 1000} {
		for _, c := range []op.Code{op.Increment, op.Decrement, op.MoveRight} {
			compacted := codeOf(bytecode.Instruction{Op: c, Operand: k})
			single := make([]bytecode.Instruction, k)
			for i := range single {
				single[i] = bytecode.Instruction{Op: c, Operand: 1}
			}
			expanded := codeOf(single...)

			a := New(compacted)
			b := New(expanded)
			require.NoError(t, a.Run(context.Background()))
			require.NoError(t, b.Run(context.Background()))
			require.Equal(t, a.DataPointer(), b.DataPointer())
			require.Equal(t, a.tape, b.tape)
		}
	}
}

func TestStepLimit(t *testing.T) {
	machine := New(compile(t, "+[]"), WithStepLimit(10))
	err := machine.Run(context.Background())
	require.Equal(t, ErrStepLimitExceeded, err)
	require.Equal(t, int64(10), machine.Steps())
	require.Equal(t, 2, machine.PC())
}

func TestStepLimitAllowsShortPrograms(t *testing.T) {
	machine := New(compile(t, "+++."), WithStepLimit(2))
	require.NoError(t, machine.Run(context.Background()))
	require.Equal(t, int64(2), machine.Steps())
}

func TestStepLimitIsPerRun(t *testing.T) {
	code := compile(t, "+++[-]")
	for i := 0; i < 3; i++ {
		machine := New(code, WithStepLimit(20))
		require.NoError(t, machine.Run(context.Background()), "run %d", i)
		require.Equal(t, int64(8), machine.Steps())
	}
}
