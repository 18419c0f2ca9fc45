package types

// AbstractType is the coarse type of a template argument slot as
// determined by the abstract typecheck: either "this slot is a type" or
// the abstract type of the value written in it.
type AbstractType uint8

const (
	// AbstractUnknown marks a slot the typecheck could not classify.
	AbstractUnknown AbstractType = iota
	// AbstractTypeSlot marks a slot holding a type argument.
	AbstractTypeSlot
	// AbstractBool marks a slot holding a boolean value argument.
	AbstractBool
	// AbstractInt marks a slot holding an integer value argument.
	AbstractInt
)

func (a AbstractType) String() string {
	switch a {
	case AbstractTypeSlot:
		return "type"
	case AbstractBool:
		return "bool"
	case AbstractInt:
		return "int"
	}
	return "unknown"
}
