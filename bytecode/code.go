package bytecode

import (
	"strings"
)

// Code is a compiled program. It is immutable after creation and safe for
// concurrent use.
type Code struct {
	id           string
	filename     string
	source       string
	instructions []Instruction

	// Source map: one location per instruction for error reporting
	locations []SourceLocation
}

// CodeParams contains parameters for creating a new Code.
type CodeParams struct {
	ID           string
	Filename     string
	Source       string
	Instructions []Instruction
	Locations    []SourceLocation
}

// NewCode creates a new immutable Code from the given parameters.
// Input slices are copied to ensure immutability.
func NewCode(params CodeParams) *Code {
	return &Code{
		id:           params.ID,
		filename:     params.Filename,
		source:       params.Source,
		instructions: copyInstructions(params.Instructions),
		locations:    copyLocations(params.Locations),
	}
}

// ID returns the unique identifier assigned at compile time.
func (c *Code) ID() string {
	return c.id
}

// Filename returns the name of the file the code was compiled from, if any.
func (c *Code) Filename() string {
	return c.filename
}

// Source returns the source text the code was compiled from.
func (c *Code) Source() string {
	return c.source
}

// InstructionCount returns the number of instructions.
func (c *Code) InstructionCount() int {
	return len(c.instructions)
}

// InstructionAt returns the instruction at the given index.
func (c *Code) InstructionAt(index int) Instruction {
	return c.instructions[index]
}

// LocationCount returns the number of source locations.
func (c *Code) LocationCount() int {
	return len(c.locations)
}

// LocationAt returns the source location of the instruction at the given
// index, or a zero location if none was recorded.
func (c *Code) LocationAt(index int) SourceLocation {
	if index < 0 || index >= len(c.locations) {
		return SourceLocation{}
	}
	return c.locations[index]
}

// GetSourceLine returns the given 1-based line of the source, without its
// trailing newline. An empty string is returned for out of range lines.
func (c *Code) GetSourceLine(line int) string {
	if line < 1 || c.source == "" {
		return ""
	}
	lines := strings.Split(c.source, "\n")
	if line > len(lines) {
		return ""
	}
	return strings.TrimSuffix(lines[line-1], "\r")
}

func copyInstructions(src []Instruction) []Instruction {
	if src == nil {
		return nil
	}
	dst := make([]Instruction, len(src))
	copy(dst, src)
	return dst
}

func copyLocations(src []SourceLocation) []SourceLocation {
	if src == nil {
		return nil
	}
	dst := make([]SourceLocation, len(src))
	copy(dst, src)
	return dst
}
