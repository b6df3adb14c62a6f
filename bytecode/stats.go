package bytecode

import "github.com/deepnoodle-ai/bf/op"

// Stats contains statistics about compiled bytecode.
// This is useful for auditing programs before execution.
type Stats struct {
	// InstructionCount is the total number of compiled instructions.
	InstructionCount int `json:"instruction_count"`

	// OperatorCount is the number of source operators the instructions
	// represent, counting each compacted run at its full length.
	OperatorCount int `json:"operator_count"`

	// LoopCount is the number of bracket pairs.
	LoopCount int `json:"loop_count"`

	// MaxLoopDepth is the deepest bracket nesting level.
	MaxLoopDepth int `json:"max_loop_depth"`

	// SourceBytes is the size of the original source code in bytes.
	SourceBytes int `json:"source_bytes"`
}

// CompactionRatio returns how many source operators each instruction stands
// for on average. An empty program has a ratio of 1.
func (s Stats) CompactionRatio() float64 {
	if s.InstructionCount == 0 {
		return 1
	}
	return float64(s.OperatorCount) / float64(s.InstructionCount)
}

// Stats computes statistics for the code.
func (c *Code) Stats() Stats {
	stats := Stats{
		InstructionCount: len(c.instructions),
		SourceBytes:      len(c.source),
	}
	depth := 0
	for _, instr := range c.instructions {
		switch instr.Op {
		case op.JumpIfZero:
			stats.LoopCount++
			stats.OperatorCount++
			depth++
			if depth > stats.MaxLoopDepth {
				stats.MaxLoopDepth = depth
			}
		case op.JumpIfNonZero:
			stats.OperatorCount++
			depth--
		case op.ReadInput:
			stats.OperatorCount++
		default:
			stats.OperatorCount += instr.Operand
		}
	}
	return stats
}
