package linker

import (
	"sil/internal/source"
	"sil/internal/tree"
	"sil/internal/types"
)

// Port is a module port or struct field after flatten: resolved written
// type, still parametric.
type Port struct {
	Name     string
	NameSpan source.Span
	Dir      tree.PortDir
	Decl     FlatID
	Type     WrittenType
}

// Module is a hardware module entity.
type Module struct {
	Link           LinkInfo
	Ports          []Port
	Instantiations InstantiationCache
}

// StructType is a value-type entity. Builtins carry a name only.
type StructType struct {
	IsBuiltin   bool
	BuiltinName string

	Link           LinkInfo
	Fields         []Port
	Instantiations InstantiationCache
}

// Name returns the declared or builtin name.
func (t *StructType) Name() string {
	if t.IsBuiltin {
		return t.BuiltinName
	}
	return t.Link.Name
}

// NamedConstant is a constant entity. Builtins carry a name and value
// only; user constants own a full link record.
type NamedConstant struct {
	IsBuiltin   bool
	BuiltinName string

	Link LinkInfo
	Typ  types.ConcreteType
	Val  types.Value
}

// Name returns the declared or builtin name.
func (c *NamedConstant) Name() string {
	if c.IsBuiltin {
		return c.BuiltinName
	}
	return c.Link.Name
}

var builtinTypes = [...]string{
	"bool",
	"int",
}

var builtinConstants = [...]struct {
	name string
	val  types.Value
}{
	{"true", types.BoolValue(true)},
	{"false", types.BoolValue(false)},
}

// Builtin entity ids are fixed by registration order in NewLinker.
const (
	// BuiltinBool is the builtin boolean type.
	BuiltinBool TypeID = 0
	// BuiltinInt is the builtin integer type.
	BuiltinInt TypeID = 1
	// BuiltinTrue is the builtin true constant.
	BuiltinTrue ConstantID = 0
	// BuiltinFalse is the builtin false constant.
	BuiltinFalse ConstantID = 1
)

// errorLocation describes a resolved global for diagnostics: its kind
// and full name, plus declaration site for user entities. Builtins have
// no source location.
type errorLocation struct {
	kindName string
	fullName string
	span     source.Span
	hasSpan  bool
}

func (l *Linker) locationOf(id GlobalID) errorLocation {
	loc := errorLocation{kindName: id.Kind.String()}
	switch id.Kind {
	case KindModule:
		md := l.modules.Get(uint32(id.AsModule()))
		loc.fullName = md.Link.FullName()
		loc.span = md.Link.NameSpan
		loc.hasSpan = true
	case KindType:
		st := l.structs.Get(uint32(id.AsType()))
		if st.IsBuiltin {
			loc.kindName = "Builtin Type"
			loc.fullName = "::" + st.BuiltinName
			return loc
		}
		loc.fullName = st.Link.FullName()
		loc.span = st.Link.NameSpan
		loc.hasSpan = true
	case KindConstant:
		c := l.constants.Get(uint32(id.AsConstant()))
		if c.IsBuiltin {
			loc.kindName = "Builtin Constant"
			loc.fullName = "::" + c.BuiltinName
			return loc
		}
		loc.fullName = c.Link.FullName()
		loc.span = c.Link.NameSpan
		loc.hasSpan = true
	}
	return loc
}

// linkOf returns the entity's link record, or nil for builtins.
func (l *Linker) linkOf(id GlobalID) *LinkInfo {
	switch id.Kind {
	case KindModule:
		return &l.modules.Get(uint32(id.AsModule())).Link
	case KindType:
		st := l.structs.Get(uint32(id.AsType()))
		if st.IsBuiltin {
			return nil
		}
		return &st.Link
	case KindConstant:
		c := l.constants.Get(uint32(id.AsConstant()))
		if c.IsBuiltin {
			return nil
		}
		return &c.Link
	}
	return nil
}

// isBuiltin reports whether the id names a pre-registered entity.
func (l *Linker) isBuiltin(id GlobalID) bool {
	switch id.Kind {
	case KindType:
		return l.structs.Get(uint32(id.AsType())).IsBuiltin
	case KindConstant:
		return l.constants.Get(uint32(id.AsConstant())).IsBuiltin
	}
	return false
}
