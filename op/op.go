// Package op defines opcodes used by the bf compiler and virtual machine.
package op

// Code is an integer opcode that indicates an operation to execute.
type Code uint8

const (
	Invalid Code = 0

	// Cell arithmetic
	Increment Code = 1
	Decrement Code = 2

	// Data pointer
	MoveLeft  Code = 10
	MoveRight Code = 11

	// I/O
	ReadInput   Code = 20
	WriteOutput Code = 21

	// Jump
	JumpIfZero    Code = 30
	JumpIfNonZero Code = 31
)

// Info contains information about an opcode.
type Info struct {
	Code Code
	Name string
	// Symbol is the source character the opcode is compiled from.
	Symbol byte
	// HasOperand is false only for opcodes that ignore their operand.
	HasOperand bool
	// Compacted opcodes are run-length encoded by the compiler.
	Compacted bool
}

var (
	infos   = make([]Info, 256)
	symbols = make([]Code, 256)
)

func init() {
	type opInfo struct {
		op        Code
		name      string
		symbol    byte
		operand   bool
		compacted bool
	}
	ops := []opInfo{
		{Increment, "INCREMENT", '+', true, true},
		{Decrement, "DECREMENT", '-', true, true},
		{MoveLeft, "MOVE_LEFT", '<', true, true},
		{MoveRight, "MOVE_RIGHT", '>', true, true},
		{ReadInput, "READ_INPUT", ',', false, false},
		{WriteOutput, "WRITE_OUTPUT", '.', true, true},
		{JumpIfZero, "JUMP_IF_ZERO", '[', true, false},
		{JumpIfNonZero, "JUMP_IF_NON_ZERO", ']', true, false},
	}
	for _, o := range ops {
		infos[o.op] = Info{
			Code:       o.op,
			Name:       o.name,
			Symbol:     o.symbol,
			HasOperand: o.operand,
			Compacted:  o.compacted,
		}
		symbols[o.symbol] = o.op
	}
}

// GetInfo returns information about the given opcode.
func GetInfo(op Code) Info {
	return infos[op]
}

// FromSymbol returns the opcode compiled from the given source character.
// The second return value is false for characters that are not operators.
func FromSymbol(c byte) (Code, bool) {
	code := symbols[c]
	return code, code != Invalid
}

// IsValid returns true if the code is one of the defined opcodes.
func (c Code) IsValid() bool {
	return infos[c].Code != Invalid
}

// IsJump returns true for the two conditional jump opcodes.
func (c Code) IsJump() bool {
	return c == JumpIfZero || c == JumpIfNonZero
}

// String returns the opcode name, for example "MOVE_RIGHT".
func (c Code) String() string {
	if name := infos[c].Name; name != "" {
		return name
	}
	return "INVALID"
}
