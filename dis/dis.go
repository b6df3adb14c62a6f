// Package dis supports analysis of compiled bf programs by disassembling
// them into listings.
package dis

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/deepnoodle-ai/bf/bytecode"
	"github.com/deepnoodle-ai/bf/op"
)

// Instruction represents a single compiled instruction and its operand.
type Instruction struct {
	Index      int                     `json:"index"`
	Name       string                  `json:"name"`
	Opcode     op.Code                 `json:"opcode"`
	Operand    int                     `json:"operand"`
	HasOperand bool                    `json:"has_operand"`
	Location   bytecode.SourceLocation `json:"location"`
	Annotation string                  `json:"annotation,omitempty"`
}

// String renders the instruction in listing form, e.g. "3: INCREMENT(4)".
func (i Instruction) String() string {
	return fmt.Sprintf("%d: %s", i.Index, bytecode.Instruction{Op: i.Opcode, Operand: i.Operand})
}

// Disassemble returns a parsed representation of the given bytecode.
func Disassemble(code *bytecode.Code) []Instruction {
	instructions := make([]Instruction, 0, code.InstructionCount())
	for i := 0; i < code.InstructionCount(); i++ {
		instr := code.InstructionAt(i)
		info := op.GetInfo(instr.Op)
		var annotation string
		switch instr.Op {
		case op.JumpIfZero:
			annotation = fmt.Sprintf("if zero goto %d", instr.Operand)
		case op.JumpIfNonZero:
			annotation = fmt.Sprintf("if non-zero goto %d", instr.Operand)
		}
		instructions = append(instructions, Instruction{
			Index:      i,
			Name:       info.Name,
			Opcode:     instr.Op,
			Operand:    instr.Operand,
			HasOperand: info.HasOperand,
			Location:   code.LocationAt(i),
			Annotation: annotation,
		})
	}
	return instructions
}

// List writes the plain "index: instruction" listing of the code, one
// instruction per line.
func List(code *bytecode.Code, w io.Writer) error {
	for _, instr := range Disassemble(code) {
		if _, err := fmt.Fprintln(w, instr.String()); err != nil {
			return err
		}
	}
	return nil
}

// Print a table of the given instructions to the given writer. Colors follow
// the fatih/color global setting.
func Print(instructions []Instruction, writer io.Writer) {
	bold := color.New(color.Bold).SprintFunc()
	jump := color.New(color.FgHiCyan).SprintFunc()
	count := color.New(color.FgYellow).SprintFunc()

	tw := table.NewWriter()
	tw.SetOutputMirror(writer)
	tw.AppendHeader(table.Row{"INDEX", "OPCODE", "OPERAND", "LOCATION", "INFO"})
	for _, instr := range instructions {
		operand := ""
		if instr.HasOperand {
			if instr.Opcode.IsJump() {
				operand = jump(instr.Operand)
			} else {
				operand = count(instr.Operand)
			}
		}
		location := ""
		if !instr.Location.IsZero() {
			location = instr.Location.String()
		}
		tw.AppendRow(table.Row{
			instr.Index,
			bold(instr.Name),
			operand,
			location,
			instr.Annotation,
		})
	}
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignRight, AlignHeader: text.AlignCenter},
		{Number: 2, Align: text.AlignLeft, AlignHeader: text.AlignCenter},
		{Number: 3, Align: text.AlignRight, AlignHeader: text.AlignCenter},
		{Number: 4, Align: text.AlignLeft, AlignHeader: text.AlignCenter},
		{Number: 5, Align: text.AlignLeft, AlignHeader: text.AlignCenter},
	})
	tw.Render()
}
