// Package tree defines the syntax artifact handed to the linker by the
// external grammar toolchain. The core never parses source text itself:
// an embedding front end either decodes a msgpack artifact produced next
// to the source file (foo.sil + foo.sil.ast) or constructs a File
// directly. After handoff the tree is read-only.
//
// All offsets are byte positions into the normalized source text; the
// linker combines them with its own file id to form source spans.
package tree

import (
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
)

// DeclKind discriminates top-level declarations.
type DeclKind uint8

const (
	// DeclModule is a hardware module with ports.
	DeclModule DeclKind = iota
	// DeclStruct is a value type with fields.
	DeclStruct
	// DeclConst is a named compile-time constant.
	DeclConst
)

func (k DeclKind) String() string {
	switch k {
	case DeclModule:
		return "module"
	case DeclStruct:
		return "struct"
	case DeclConst:
		return "const"
	}
	return "unknown"
}

// ParamKind discriminates template formals.
type ParamKind uint8

const (
	// ParamType is a type-valued template parameter.
	ParamType ParamKind = iota
	// ParamValue is a generative (value) template parameter.
	ParamValue
)

// File is one file's parsed declarations.
type File struct {
	Decls       []Decl       `msgpack:"decls"`
	ParseErrors []ParseError `msgpack:"parse_errors"`
}

// ParseError is a file-level error forwarded from the external parser.
type ParseError struct {
	Start uint32 `msgpack:"start"`
	End   uint32 `msgpack:"end"`
	Msg   string `msgpack:"msg"`
}

// Decl is one top-level declaration.
type Decl struct {
	Kind      DeclKind `msgpack:"kind"`
	NameStart uint32   `msgpack:"name_start"`
	NameEnd   uint32   `msgpack:"name_end"`
	Params    []Param  `msgpack:"params"`
	// Ports holds module ports or struct fields; empty for constants.
	Ports []Port `msgpack:"ports"`
	// Value is the written type of a constant declaration.
	Value *TypeRef `msgpack:"value"`
	// Literal is a constant declaration's literal value, if it is one.
	Literal *int64 `msgpack:"literal"`
}

// Param is a declared template formal.
type Param struct {
	Kind      ParamKind `msgpack:"kind"`
	NameStart uint32    `msgpack:"name_start"`
	NameEnd   uint32    `msgpack:"name_end"`
	DeclStart uint32    `msgpack:"decl_start"`
	DeclEnd   uint32    `msgpack:"decl_end"`
	// DefaultType is an optional default for type parameters.
	DefaultType *TypeRef `msgpack:"default_type"`
	// DefaultValue is an optional default for value parameters.
	DefaultValue *int64 `msgpack:"default_value"`
}

// PortDir distinguishes module port directions from struct fields.
type PortDir uint8

const (
	// PortIn is a module input.
	PortIn PortDir = iota
	// PortOut is a module output.
	PortOut
	// PortField is a struct field.
	PortField
)

// Port is a module port or struct field with its written type.
type Port struct {
	Dir       PortDir `msgpack:"dir"`
	NameStart uint32  `msgpack:"name_start"`
	NameEnd   uint32  `msgpack:"name_end"`
	Type      TypeRef `msgpack:"type"`
}

// TypeRef is an as-written mention of a global by name, with as-written
// template arguments. Args align positionally with the target's formals;
// a shorter list leaves trailing formals unprovided.
type TypeRef struct {
	NameStart uint32    `msgpack:"name_start"`
	NameEnd   uint32    `msgpack:"name_end"`
	Args      []TypeArg `msgpack:"args"`
}

// TypeArg is one written template argument: a nested type reference or a
// literal value. Exactly one of Type/Value is set.
type TypeArg struct {
	Start uint32   `msgpack:"start"`
	End   uint32   `msgpack:"end"`
	Type  *TypeRef `msgpack:"type"`
	Value *int64   `msgpack:"value"`
}

// Decode reads a msgpack syntax artifact.
func Decode(data []byte) (*File, error) {
	var f File
	if err := msgpack.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decode syntax artifact: %w", err)
	}
	return &f, nil
}

// Encode serializes a File. The external toolchain owns the real encoder;
// this one exists for tests and for the driver's artifact cache.
func Encode(f *File) ([]byte, error) {
	data, err := msgpack.Marshal(f)
	if err != nil {
		return nil, fmt.Errorf("encode syntax artifact: %w", err)
	}
	return data, nil
}
