package bytecode

import (
	"errors"
	"fmt"

	"github.com/deepnoodle-ai/bf/op"
)

// ErrInvalidCode is wrapped by every error returned from Validate.
var ErrInvalidCode = errors.New("invalid code")

// Validate checks that the code upholds the invariants the virtual machine
// relies on: every opcode is defined, counts are positive, and each jump
// targets its matching bracket.
func (c *Code) Validate() error {
	if c.locations != nil && len(c.locations) != len(c.instructions) {
		return fmt.Errorf("%w: %d locations for %d instructions",
			ErrInvalidCode, len(c.locations), len(c.instructions))
	}
	var open []int
	for i, instr := range c.instructions {
		info := op.GetInfo(instr.Op)
		if !instr.Op.IsValid() {
			return fmt.Errorf("%w: instruction %d: unknown opcode %d", ErrInvalidCode, i, instr.Op)
		}
		switch {
		case info.Compacted:
			if instr.Operand < 1 {
				return fmt.Errorf("%w: instruction %d: %s count must be positive", ErrInvalidCode, i, instr)
			}
		case !info.HasOperand:
			if instr.Operand != 0 {
				return fmt.Errorf("%w: instruction %d: %s takes no operand", ErrInvalidCode, i, instr.Op)
			}
		}
		switch instr.Op {
		case op.JumpIfZero:
			open = append(open, i)
		case op.JumpIfNonZero:
			if len(open) == 0 {
				return fmt.Errorf("%w: instruction %d: %s has no matching %s",
					ErrInvalidCode, i, instr.Op, op.JumpIfZero)
			}
			start := open[len(open)-1]
			open = open[:len(open)-1]
			if instr.Operand != start+1 {
				return fmt.Errorf("%w: instruction %d: %s must target %d",
					ErrInvalidCode, i, instr, start+1)
			}
			if target := c.instructions[start].Operand; target != i {
				return fmt.Errorf("%w: instruction %d: %s must target %d",
					ErrInvalidCode, start, c.instructions[start], i)
			}
		}
	}
	if len(open) > 0 {
		start := open[len(open)-1]
		return fmt.Errorf("%w: instruction %d: %s has no matching %s",
			ErrInvalidCode, start, op.JumpIfZero, op.JumpIfNonZero)
	}
	return nil
}
