package op

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGetInfo(t *testing.T) {
	info := GetInfo(JumpIfNonZero)
	require.Equal(t, "JUMP_IF_NON_ZERO", info.Name)
	require.Equal(t, byte(']'), info.Symbol)
	require.True(t, info.HasOperand)
	require.False(t, info.Compacted)
	require.Equal(t, JumpIfNonZero, info.Code)
}

func TestGetInfoAllOpcodes(t *testing.T) {
	tests := []struct {
		code      Code
		name      string
		symbol    byte
		operand   bool
		compacted bool
	}{
		{Increment, "INCREMENT", '+', true, true},
		{Decrement, "DECREMENT", '-', true, true},
		{MoveLeft, "MOVE_LEFT", '<', true, true},
		{MoveRight, "MOVE_RIGHT", '>', true, true},
		{ReadInput, "READ_INPUT", ',', false, false},
		{WriteOutput, "WRITE_OUTPUT", '.', true, true},
		{JumpIfZero, "JUMP_IF_ZERO", '[', true, false},
		{JumpIfNonZero, "JUMP_IF_NON_ZERO", ']', true, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := GetInfo(tt.code)
			require.Equal(t, tt.code, info.Code)
			require.Equal(t, tt.name, info.Name)
			require.Equal(t, tt.symbol, info.Symbol)
			require.Equal(t, tt.operand, info.HasOperand)
			require.Equal(t, tt.compacted, info.Compacted)
			require.Equal(t, tt.name, tt.code.String())
			require.True(t, tt.code.IsValid())

			code, ok := FromSymbol(tt.symbol)
			require.True(t, ok)
			require.Equal(t, tt.code, code)
		})
	}
}

func TestFromSymbolIgnoresOtherCharacters(t *testing.T) {
	for _, c := range []byte("abc XYZ\n\t#0123456789{}()") {
		code, ok := FromSymbol(c)
		require.False(t, ok, "character %q", c)
		require.Equal(t, Invalid, code)
	}
}

func TestInvalidCode(t *testing.T) {
	require.False(t, Invalid.IsValid())
	require.False(t, Code(99).IsValid())
	require.Equal(t, "INVALID", Code(99).String())
	require.Equal(t, Info{}, GetInfo(Code(200)))
}

func TestIsJump(t *testing.T) {
	require.True(t, JumpIfZero.IsJump())
	require.True(t, JumpIfNonZero.IsJump())
	require.False(t, Increment.IsJump())
	require.False(t, ReadInput.IsJump())
}
