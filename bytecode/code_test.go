package bytecode

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/deepnoodle-ai/bf/op"
)

// loopCode is the compiled form of "[->+<]".
func loopCode() *Code {
	return NewCode(CodeParams{
		ID:       "loop",
		Filename: "loop.bf",
		Source:   "[->+<]",
		Instructions: []Instruction{
			{Op: op.JumpIfZero, Operand: 5},
			{Op: op.Decrement, Operand: 1},
			{Op: op.MoveRight, Operand: 1},
			{Op: op.Increment, Operand: 1},
			{Op: op.MoveLeft, Operand: 1},
			{Op: op.JumpIfNonZero, Operand: 1},
		},
		Locations: []SourceLocation{
			{Line: 1, Column: 1},
			{Line: 1, Column: 2},
			{Line: 1, Column: 3},
			{Line: 1, Column: 4},
			{Line: 1, Column: 5},
			{Line: 1, Column: 6},
		},
	})
}

func TestNewCodeImmutability(t *testing.T) {
	instructions := []Instruction{{Op: op.Increment, Operand: 3}}
	locations := []SourceLocation{{Line: 1, Column: 1}}

	code := NewCode(CodeParams{
		ID:           "test",
		Instructions: instructions,
		Locations:    locations,
	})

	instructions[0] = Instruction{Op: op.Decrement, Operand: 9}
	locations[0] = SourceLocation{Line: 999, Column: 999}

	require.Equal(t, Instruction{Op: op.Increment, Operand: 3}, code.InstructionAt(0))
	require.Equal(t, SourceLocation{Line: 1, Column: 1}, code.LocationAt(0))
}

func TestCodeAccessors(t *testing.T) {
	code := loopCode()
	require.Equal(t, "loop", code.ID())
	require.Equal(t, "loop.bf", code.Filename())
	require.Equal(t, "[->+<]", code.Source())
	require.Equal(t, 6, code.InstructionCount())
	require.Equal(t, 6, code.LocationCount())
	require.Equal(t, op.JumpIfNonZero, code.InstructionAt(5).Op)
	require.Equal(t, SourceLocation{Line: 1, Column: 6}, code.LocationAt(5))
	require.True(t, code.LocationAt(6).IsZero())
	require.True(t, code.LocationAt(-1).IsZero())
}

func TestGetSourceLine(t *testing.T) {
	code := NewCode(CodeParams{Source: "+++\r\n>>.\n"})
	require.Equal(t, "+++", code.GetSourceLine(1))
	require.Equal(t, ">>.", code.GetSourceLine(2))
	require.Equal(t, "", code.GetSourceLine(3))
	require.Equal(t, "", code.GetSourceLine(4))
	require.Equal(t, "", code.GetSourceLine(0))
}

func TestInstructionString(t *testing.T) {
	tests := []struct {
		instr    Instruction
		expected string
	}{
		{Instruction{Op: op.Increment, Operand: 8}, "INCREMENT(8)"},
		{Instruction{Op: op.MoveLeft, Operand: 1}, "MOVE_LEFT(1)"},
		{Instruction{Op: op.WriteOutput, Operand: 2}, "WRITE_OUTPUT(2)"},
		{Instruction{Op: op.JumpIfZero, Operand: 7}, "JUMP_IF_ZERO(7)"},
		{Instruction{Op: op.ReadInput}, "READ_INPUT"},
	}
	for _, tt := range tests {
		require.Equal(t, tt.expected, tt.instr.String())
	}
}

func TestStats(t *testing.T) {
	code := NewCode(CodeParams{
		Source: "+++[>[-]<,]..",
		Instructions: []Instruction{
			{Op: op.Increment, Operand: 3},
			{Op: op.JumpIfZero, Operand: 8},
			{Op: op.MoveRight, Operand: 1},
			{Op: op.JumpIfZero, Operand: 5},
			{Op: op.Decrement, Operand: 1},
			{Op: op.JumpIfNonZero, Operand: 4},
			{Op: op.MoveLeft, Operand: 1},
			{Op: op.ReadInput},
			{Op: op.JumpIfNonZero, Operand: 2},
			{Op: op.WriteOutput, Operand: 2},
		},
	})
	stats := code.Stats()
	require.NoError(t, code.Validate())
	require.Equal(t, 10, stats.InstructionCount)
	require.Equal(t, 2, stats.LoopCount)
	require.Equal(t, 2, stats.MaxLoopDepth)
	require.Equal(t, 13, stats.SourceBytes)
	require.Equal(t, 13, stats.OperatorCount)
	require.InDelta(t, 1.3, stats.CompactionRatio(), 1e-9)
}

func TestStatsEmpty(t *testing.T) {
	stats := NewCode(CodeParams{}).Stats()
	require.Equal(t, Stats{}, stats)
	require.Equal(t, 1.0, stats.CompactionRatio())
}
