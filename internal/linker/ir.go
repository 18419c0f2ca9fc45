package linker

import (
	"fmt"

	"sil/internal/source"
	"sil/internal/tree"
	"sil/internal/types"
)

// FlatID indexes an instruction inside one entity's flat body.
type FlatID uint32

// NoFlatID marks the absence of an instruction reference.
const NoFlatID FlatID = ^FlatID(0)

// IsValid reports whether the id refers to an instruction.
func (id FlatID) IsValid() bool { return id != NoFlatID }

// InstrKind discriminates flat instructions. The full lowering lives in
// an external flattener; the core emits the subset it needs to resolve
// and instantiate declarations.
type InstrKind uint8

const (
	// InstrParamDecl declares a generative template formal in the body.
	InstrParamDecl InstrKind = iota
	// InstrPortDecl declares a module port or struct field.
	InstrPortDecl
	// InstrLiteral is a written literal value.
	InstrLiteral
	// InstrConstRef is a written mention of a global constant.
	InstrConstRef
)

// Instruction is one element of an entity's flat body.
type Instruction struct {
	Kind InstrKind
	Span source.Span

	// InstrParamDecl / InstrPortDecl
	Name     string
	NameSpan source.Span
	ParamIdx int
	Dir      tree.PortDir
	Type     *WrittenType

	// InstrLiteral
	Value types.Value

	// InstrConstRef
	Constant ConstantID
}

// Body is an entity's flat, append-only instruction list. It is produced
// by the flatten stage and cleared wholesale when the entity is reset.
type Body struct {
	Instrs []Instruction
}

// Add appends an instruction and returns its id.
func (b *Body) Add(instr Instruction) FlatID {
	id := FlatID(len(b.Instrs))
	b.Instrs = append(b.Instrs, instr)
	return id
}

// Get returns the instruction at id; an invalid id is an internal defect.
func (b *Body) Get(id FlatID) *Instruction {
	if !id.IsValid() || int(id) >= len(b.Instrs) {
		panic(fmt.Errorf("linker: flat id %d out of range (%d instructions)", id, len(b.Instrs)))
	}
	return &b.Instrs[id]
}

// Len reports the number of instructions.
func (b *Body) Len() int { return len(b.Instrs) }

// Clear drops all instructions ahead of a re-flatten.
func (b *Body) Clear() { b.Instrs = nil }
