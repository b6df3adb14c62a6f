package vm

import (
	"bytes"
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/deepnoodle-ai/bf/bytecode"
	"github.com/deepnoodle-ai/bf/op"
)

func TestObserverSeesEveryStep(t *testing.T) {
	var events []StepEvent
	machine := New(compile(t, "++>-"), WithObserver(ObserverFunc(func(e StepEvent) bool {
		events = append(events, e)
		return true
	})))
	require.NoError(t, machine.Run(context.Background()))
	require.Len(t, events, 3)

	require.Equal(t, StepEvent{
		PC:          0,
		Instruction: bytecode.Instruction{Op: op.Increment, Operand: 2},
		DataPointer: 0,
		Cell:        0,
		Location:    bytecode.SourceLocation{Line: 1, Column: 1},
	}, events[0])
	require.Equal(t, 1, events[1].PC)
	require.Equal(t, byte(2), events[1].Cell)
	require.Equal(t, 1, events[2].DataPointer)
	require.Equal(t, bytecode.SourceLocation{Line: 1, Column: 4}, events[2].Location)
}

func TestObserverHalts(t *testing.T) {
	var steps int
	halt := ObserverFunc(func(StepEvent) bool {
		steps++
		return steps <= 10
	})
	machine := New(compile(t, "+[]"), WithObserver(halt))
	err := machine.Run(context.Background())
	require.Equal(t, ErrHaltedByObserver, err)
	require.Equal(t, int64(10), machine.Steps())
}

func TestTraceObserver(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf).Level(zerolog.TraceLevel)
	machine := New(compile(t, "+>"), WithObserver(NewTraceObserver(logger)))
	require.NoError(t, machine.Run(context.Background()))

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 2)
	require.Contains(t, string(lines[0]), `"instruction":"INCREMENT(1)"`)
	require.Contains(t, string(lines[1]), `"instruction":"MOVE_RIGHT(1)"`)
	require.Contains(t, string(lines[1]), `"cell":0`)
	require.Contains(t, string(lines[1]), `"location":"1:2"`)
}

func TestRunLogsResult(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf).Level(zerolog.DebugLevel)
	require.NoError(t, Run(context.Background(), compile(t, "+++"), WithLogger(logger)))
	require.Contains(t, buf.String(), `"message":"program finished"`)
	require.Contains(t, buf.String(), `"steps":1`)
}
