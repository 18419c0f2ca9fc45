// Package types holds the value and type representations exchanged
// between the linker, the typechecker, and the instantiation cache:
// compile-time values, abstract types inferred for template argument
// slots, and fully concrete types produced by specialization.
package types

import (
	"fmt"
	"strconv"
)

// ValueKind discriminates compile-time values.
type ValueKind uint8

const (
	// ValueBool is a boolean compile-time value.
	ValueBool ValueKind = iota
	// ValueInt is an integer compile-time value.
	ValueInt
)

// Value is a typed compile-time value. Generative template arguments and
// builtin constants carry these.
type Value struct {
	Kind ValueKind
	Bool bool
	Int  int64
}

// BoolValue makes a boolean compile-time value.
func BoolValue(v bool) Value { return Value{Kind: ValueBool, Bool: v} }

// IntValue makes an integer compile-time value.
func IntValue(v int64) Value { return Value{Kind: ValueInt, Int: v} }

func (v Value) String() string {
	switch v.Kind {
	case ValueBool:
		return strconv.FormatBool(v.Bool)
	case ValueInt:
		return strconv.FormatInt(v.Int, 10)
	}
	return fmt.Sprintf("value(kind=%d)", v.Kind)
}

// Abstract returns the abstract type of the value.
func (v Value) Abstract() AbstractType {
	if v.Kind == ValueBool {
		return AbstractBool
	}
	return AbstractInt
}
