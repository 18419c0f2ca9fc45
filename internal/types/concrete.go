package types

import (
	"strconv"
	"strings"
)

// TypeRef is the raw index of a struct-type entity in the linker's type
// arena. types cannot import the linker, so the ref is untyped here; the
// linker wraps and unwraps it at its boundary.
type TypeRef uint32

// ConcreteType is a fully specialized type: a named type entity applied
// to concrete template arguments.
type ConcreteType struct {
	ID   TypeRef
	Args []ConcreteTemplateArg
}

// ArgKind discriminates concrete template argument slots.
type ArgKind uint8

const (
	// ArgNotProvided marks a slot with no argument and no default.
	ArgNotProvided ArgKind = iota
	// ArgType marks a slot filled with a concrete type.
	ArgType
	// ArgValue marks a slot filled with a typed compile-time value.
	ArgValue
)

// ConcreteTemplateArg is one resolved argument slot at instantiation
// time.
type ConcreteTemplateArg struct {
	Kind  ArgKind
	Type  ConcreteType
	Value Value
}

// NotProvided is the empty slot.
func NotProvided() ConcreteTemplateArg { return ConcreteTemplateArg{Kind: ArgNotProvided} }

// TypeArg fills a slot with a concrete type.
func TypeArg(t ConcreteType) ConcreteTemplateArg {
	return ConcreteTemplateArg{Kind: ArgType, Type: t}
}

// ValueArg fills a slot with a compile-time value.
func ValueArg(v Value) ConcreteTemplateArg {
	return ConcreteTemplateArg{Kind: ArgValue, Value: v}
}

// Provided reports whether the slot carries an argument.
func (a ConcreteTemplateArg) Provided() bool { return a.Kind != ArgNotProvided }

// ArgsKey renders a concrete argument tuple as a deterministic string
// usable as an instantiation cache key. Go maps cannot key on slices, so
// the tuple is folded into its canonical text instead.
func ArgsKey(args []ConcreteTemplateArg) string {
	if len(args) == 0 {
		return ""
	}
	var b strings.Builder
	for i, arg := range args {
		if i > 0 {
			b.WriteByte('#')
		}
		writeArgKey(&b, arg)
	}
	return b.String()
}

func writeArgKey(b *strings.Builder, arg ConcreteTemplateArg) {
	switch arg.Kind {
	case ArgNotProvided:
		b.WriteByte('_')
	case ArgValue:
		b.WriteByte('v')
		b.WriteString(arg.Value.String())
	case ArgType:
		b.WriteByte('t')
		writeTypeKey(b, arg.Type)
	}
}

func writeTypeKey(b *strings.Builder, t ConcreteType) {
	b.WriteString(strconv.FormatUint(uint64(t.ID), 10))
	if len(t.Args) == 0 {
		return
	}
	b.WriteByte('(')
	for i, arg := range t.Args {
		if i > 0 {
			b.WriteByte(',')
		}
		writeArgKey(b, arg)
	}
	b.WriteByte(')')
}
