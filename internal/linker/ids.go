package linker

import "fmt"

// ModuleID indexes the module arena.
type ModuleID uint32

// TypeID indexes the struct-type arena.
type TypeID uint32

// ConstantID indexes the constant arena.
type ConstantID uint32

// GlobalKind discriminates the three entity arenas.
type GlobalKind uint8

const (
	// KindModule marks a module entity.
	KindModule GlobalKind = iota
	// KindType marks a struct-type entity.
	KindType
	// KindConstant marks a constant entity.
	KindConstant
)

func (k GlobalKind) String() string {
	switch k {
	case KindModule:
		return "Module"
	case KindType:
		return "Struct"
	case KindConstant:
		return "Constant"
	}
	return "Unknown"
}

// GlobalID addresses any entity across the three arenas. It is a value
// type usable as a map key and inside dependency sets.
type GlobalID struct {
	Kind  GlobalKind
	Index uint32
}

func (g GlobalID) String() string {
	return fmt.Sprintf("%s#%d", g.Kind, g.Index)
}

// ModuleGlobal wraps a module id.
func ModuleGlobal(id ModuleID) GlobalID { return GlobalID{Kind: KindModule, Index: uint32(id)} }

// TypeGlobal wraps a type id.
func TypeGlobal(id TypeID) GlobalID { return GlobalID{Kind: KindType, Index: uint32(id)} }

// ConstantGlobal wraps a constant id.
func ConstantGlobal(id ConstantID) GlobalID { return GlobalID{Kind: KindConstant, Index: uint32(id)} }

// AsModule unwraps a module id; panics on kind mismatch, which is an
// internal defect (callers check kinds before unwrapping).
func (g GlobalID) AsModule() ModuleID {
	if g.Kind != KindModule {
		panic(fmt.Errorf("linker: %s is not a module id", g))
	}
	return ModuleID(g.Index)
}

// AsType unwraps a struct-type id.
func (g GlobalID) AsType() TypeID {
	if g.Kind != KindType {
		panic(fmt.Errorf("linker: %s is not a type id", g))
	}
	return TypeID(g.Index)
}

// AsConstant unwraps a constant id.
func (g GlobalID) AsConstant() ConstantID {
	if g.Kind != KindConstant {
		panic(fmt.Errorf("linker: %s is not a constant id", g))
	}
	return ConstantID(g.Index)
}
