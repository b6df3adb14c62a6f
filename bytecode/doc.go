// Package bytecode provides the immutable representation of a compiled
// bf program.
//
// A program is a flat sequence of [Instruction] values. Each instruction is a
// tagged variant: an opcode from the [github.com/deepnoodle-ai/bf/op] package
// and a single integer operand whose meaning depends on the opcode:
//
//   - INCREMENT, DECREMENT, MOVE_LEFT, MOVE_RIGHT, WRITE_OUTPUT: a repeat
//     count of at least one, produced by run-length compaction.
//   - JUMP_IF_ZERO: the index of the matching JUMP_IF_NON_ZERO.
//   - JUMP_IF_NON_ZERO: the index just after the matching JUMP_IF_ZERO.
//   - READ_INPUT: unused, always zero.
//
// # Immutability Guarantees
//
// [Code] is immutable after construction. Its constructor copies the input
// slices and index-based accessors are used for all collections:
//
//	code.InstructionAt(0)
//	code.LocationAt(i)
//
// A Code may therefore be shared by any number of virtual machines.
//
// # Serialization
//
// Code can be encoded as JSON with [Marshal] or as a compact CBOR document
// with [MarshalBinary]. Decoding always validates the program, so a decoded
// Code upholds the same invariants as a freshly compiled one.
package bytecode
