package bytecode

import (
	"fmt"

	"github.com/deepnoodle-ai/bf/op"
)

// Instruction is a single compiled operation and its operand.
type Instruction struct {
	Op      op.Code
	Operand int
}

// String renders the instruction the way it appears in listings, for
// example "INCREMENT(3)", "JUMP_IF_ZERO(7)" or "READ_INPUT".
func (i Instruction) String() string {
	if !op.GetInfo(i.Op).HasOperand {
		return i.Op.String()
	}
	return fmt.Sprintf("%s(%d)", i.Op, i.Operand)
}
