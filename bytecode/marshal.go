package bytecode

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/fxamacker/cbor/v2"

	"github.com/deepnoodle-ai/bf/op"
)

// BinaryMagic prefixes every program encoded with MarshalBinary.
var BinaryMagic = []byte("BFC\x01")

var cborEncMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("bytecode: failed to create CBOR enc mode: %v", err))
	}
	cborEncMode = em
}

// Marshal converts a Code object into a JSON representation.
func Marshal(code *Code) ([]byte, error) {
	return json.Marshal(stateFromCode(code))
}

// Unmarshal converts a JSON representation into a validated Code object.
func Unmarshal(data []byte) (*Code, error) {
	var state codeDef
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, err
	}
	return codeFromState(&state)
}

// MarshalBinary encodes a Code object as CBOR behind the BinaryMagic header.
func MarshalBinary(code *Code) ([]byte, error) {
	data, err := cborEncMode.Marshal(stateFromCode(code))
	if err != nil {
		return nil, fmt.Errorf("bytecode: marshal binary: %w", err)
	}
	out := make([]byte, 0, len(BinaryMagic)+len(data))
	out = append(out, BinaryMagic...)
	return append(out, data...), nil
}

// UnmarshalBinary decodes a Code object produced by MarshalBinary.
func UnmarshalBinary(data []byte) (*Code, error) {
	if !IsBinary(data) {
		return nil, errors.New("bytecode: missing binary header")
	}
	var state codeDef
	if err := cbor.Unmarshal(data[len(BinaryMagic):], &state); err != nil {
		return nil, fmt.Errorf("bytecode: unmarshal binary: %w", err)
	}
	return codeFromState(&state)
}

// IsBinary returns true if data starts with the BinaryMagic header.
func IsBinary(data []byte) bool {
	return bytes.HasPrefix(data, BinaryMagic)
}

// Serialization types

type instructionDef struct {
	_       struct{} `cbor:",toarray"`
	Op      op.Code  `json:"op"`
	Operand int      `json:"operand"`
}

type locationDef struct {
	_      struct{} `cbor:",toarray"`
	Line   int      `json:"line"`
	Column int      `json:"column"`
}

type codeDef struct {
	ID           string           `json:"id" cbor:"1,keyasint"`
	Filename     string           `json:"filename,omitempty" cbor:"2,keyasint,omitempty"`
	Source       string           `json:"source,omitempty" cbor:"3,keyasint,omitempty"`
	Instructions []instructionDef `json:"instructions" cbor:"4,keyasint"`
	Locations    []locationDef    `json:"locations,omitempty" cbor:"5,keyasint,omitempty"`
}

func stateFromCode(code *Code) *codeDef {
	state := &codeDef{
		ID:           code.ID(),
		Filename:     code.Filename(),
		Source:       code.Source(),
		Instructions: make([]instructionDef, code.InstructionCount()),
	}
	for i := 0; i < code.InstructionCount(); i++ {
		instr := code.InstructionAt(i)
		state.Instructions[i] = instructionDef{Op: instr.Op, Operand: instr.Operand}
	}
	if code.LocationCount() > 0 {
		state.Locations = make([]locationDef, code.LocationCount())
		for i := 0; i < code.LocationCount(); i++ {
			loc := code.LocationAt(i)
			state.Locations[i] = locationDef{Line: loc.Line, Column: loc.Column}
		}
	}
	return state
}

func codeFromState(state *codeDef) (*Code, error) {
	instructions := make([]Instruction, len(state.Instructions))
	for i, def := range state.Instructions {
		instructions[i] = Instruction{Op: def.Op, Operand: def.Operand}
	}
	var locations []SourceLocation
	if len(state.Locations) > 0 {
		locations = make([]SourceLocation, len(state.Locations))
		for i, def := range state.Locations {
			locations[i] = SourceLocation{Line: def.Line, Column: def.Column}
		}
	}
	code := NewCode(CodeParams{
		ID:           state.ID,
		Filename:     state.Filename,
		Source:       state.Source,
		Instructions: instructions,
		Locations:    locations,
	})
	if err := code.Validate(); err != nil {
		return nil, err
	}
	return code, nil
}
