package linker

import (
	"testing"

	"sil/internal/diag"
	"sil/internal/tree"
	"sil/internal/types"
)

func addVec(t *testing.T, l *Linker) {
	t.Helper()
	text, tf := vecFile(t)
	l.AddFile("vec.sil", []byte(text), tf)
}

func TestTemplateArityOverflow(t *testing.T) {
	l := NewLinker()
	addVec(t, l)

	text := "module Ary { in v : Vec(bool, 4, 5) }"
	d := decl(t, text, tree.DeclModule, "Ary")
	args := []tree.TypeArg{
		typeArg(t, text, "bool", 0),
		valueArg(t, text, "4", 0, 4),
		valueArg(t, text, "5", 0, 5),
	}
	d.Ports = []tree.Port{port(t, text, tree.PortIn, "v", 0, typeRef(t, text, "Vec", 0, args...))}
	l.AddFile("ary.sil", []byte(text), &tree.File{Decls: []tree.Decl{d}})
	l.RecompileAll()

	id, _ := l.GlobalByName("Ary")
	items := errorsOnly(l.Module(id.AsModule()).Link.Errors.Items())
	if len(items) != 1 || items[0].Code != diag.TypeParamArity {
		t.Fatalf("items = %v", items)
	}
}

func TestTemplateSlotKindMismatch(t *testing.T) {
	l := NewLinker()
	addVec(t, l)

	// Value written where the type formal sits, type written where the
	// value formal sits.
	text := "module Bad { in v : Vec(4, bool) }"
	d := decl(t, text, tree.DeclModule, "Bad")
	args := []tree.TypeArg{
		valueArg(t, text, "4", 0, 4),
		typeArg(t, text, "bool", 0),
	}
	d.Ports = []tree.Port{port(t, text, tree.PortIn, "v", 0, typeRef(t, text, "Vec", 0, args...))}
	l.AddFile("bad.sil", []byte(text), &tree.File{Decls: []tree.Decl{d}})
	l.RecompileAll()

	id, _ := l.GlobalByName("Bad")
	items := errorsOnly(l.Module(id.AsModule()).Link.Errors.Items())
	if len(items) != 2 {
		t.Fatalf("items = %v", items)
	}
	seen := map[diag.Code]bool{}
	for _, it := range items {
		seen[it.Code] = true
		if len(it.Notes) != 1 {
			t.Fatalf("expected a note at the formal declaration: %v", it)
		}
	}
	if !seen[diag.TypeArgNotType] || !seen[diag.TypeArgNotConst] {
		t.Fatalf("codes = %v", items)
	}
}

func TestAbstractTypesRecordedPerSlot(t *testing.T) {
	l := NewLinker()
	addVec(t, l)

	text := "module Top { in v : Vec(bool, 4) }"
	d := decl(t, text, tree.DeclModule, "Top")
	args := []tree.TypeArg{
		typeArg(t, text, "bool", 0),
		valueArg(t, text, "4", 0, 4),
	}
	d.Ports = []tree.Port{port(t, text, tree.PortIn, "v", 0, typeRef(t, text, "Vec", 0, args...))}
	l.AddFile("top.sil", []byte(text), &tree.File{Decls: []tree.Decl{d}})
	l.RecompileAll()

	id, _ := l.GlobalByName("Top")
	md := l.Module(id.AsModule())
	wt := &md.Ports[0].Type
	if wt.Kind != WrittenNamed {
		t.Fatalf("port type = %+v", wt)
	}
	got := wt.Named.TemplateArgTypes
	if len(got) != 2 || got[0] != types.AbstractTypeSlot || got[1] != types.AbstractInt {
		t.Fatalf("abstract slot types = %v", got)
	}
}

func TestDefaultTypeMustBeConcrete(t *testing.T) {
	l := NewLinker()
	addVec(t, l)

	// Vec is generic, so it cannot serve as a default.
	text := "struct Wrap(T type = Vec) { flag : bool }"
	d := decl(t, text, tree.DeclStruct, "Wrap")
	p := param(t, text, tree.ParamType, "T", 0)
	ref := typeRef(t, text, "Vec", 0)
	p.DefaultType = &ref
	d.Params = []tree.Param{p}
	d.Ports = []tree.Port{port(t, text, tree.PortField, "flag", 0, typeRef(t, text, "bool", 0))}
	l.AddFile("wrap.sil", []byte(text), &tree.File{Decls: []tree.Decl{d}})
	l.RecompileAll()

	id, _ := l.GlobalByName("Wrap")
	items := errorsOnly(l.Struct(id.AsType()).Link.Errors.Items())
	if len(items) != 1 || items[0].Code != diag.TypeDefaultNotConcrete {
		t.Fatalf("items = %v", items)
	}
}

func TestDefaultTypeResolved(t *testing.T) {
	l := NewLinker()
	text := "struct Wrap(T type = bool) { data : T }"
	d := decl(t, text, tree.DeclStruct, "Wrap")
	p := param(t, text, tree.ParamType, "T", 0)
	ref := typeRef(t, text, "bool", 0)
	p.DefaultType = &ref
	d.Params = []tree.Param{p}
	d.Ports = []tree.Port{port(t, text, tree.PortField, "data", 0, typeRef(t, text, "T", 1))}
	l.AddFile("wrap.sil", []byte(text), &tree.File{Decls: []tree.Decl{d}})
	l.RecompileAll()

	id, _ := l.GlobalByName("Wrap")
	inst, ok := l.Instantiate(id, nil)
	if !ok {
		t.Fatalf("default type must satisfy the slot: %v",
			l.Struct(id.AsType()).Link.Errors.Items())
	}
	if len(inst.Ports) != 1 || inst.Ports[0].Type.ID != types.TypeRef(BuiltinBool) {
		t.Fatalf("ports = %+v", inst.Ports)
	}
}

func TestConstantTypedAndValued(t *testing.T) {
	l := NewLinker()
	text := "const WIDTH : int = 4"
	d := decl(t, text, tree.DeclConst, "WIDTH")
	ref := typeRef(t, text, "int", 0)
	d.Value = &ref
	lit := int64(4)
	d.Literal = &lit
	l.AddFile("width.sil", []byte(text), &tree.File{Decls: []tree.Decl{d}})
	l.RecompileAll()

	id, _ := l.GlobalByName("WIDTH")
	c := l.Constant(id.AsConstant())
	if c.Val.Kind != types.ValueInt || c.Val.Int != 4 {
		t.Fatalf("value = %+v", c.Val)
	}
	if c.Typ.ID != types.TypeRef(BuiltinInt) {
		t.Fatalf("type = %+v", c.Typ)
	}
}

func TestValueFormalUsedAsTypeIsRejected(t *testing.T) {
	l := NewLinker()
	text := "struct Odd(N int) { data : N }"
	d := decl(t, text, tree.DeclStruct, "Odd")
	d.Params = []tree.Param{param(t, text, tree.ParamValue, "N", 0)}
	d.Ports = []tree.Port{port(t, text, tree.PortField, "data", 0, typeRef(t, text, "N", 1))}
	l.AddFile("odd.sil", []byte(text), &tree.File{Decls: []tree.Decl{d}})
	l.RecompileAll()

	id, _ := l.GlobalByName("Odd")
	items := errorsOnly(l.Struct(id.AsType()).Link.Errors.Items())
	if len(items) != 1 || items[0].Code != diag.LinkKindMismatch {
		t.Fatalf("items = %v", items)
	}
}

func TestLintUnusedParam(t *testing.T) {
	l := NewLinker()
	text := "struct Box(T type) { flag : bool }"
	d := decl(t, text, tree.DeclStruct, "Box")
	d.Params = []tree.Param{param(t, text, tree.ParamType, "T", 0)}
	d.Ports = []tree.Port{port(t, text, tree.PortField, "flag", 0, typeRef(t, text, "bool", 0))}
	l.AddFile("box.sil", []byte(text), &tree.File{Decls: []tree.Decl{d}})
	l.RecompileAll()

	id, _ := l.GlobalByName("Box")
	items := l.Struct(id.AsType()).Link.Errors.Items()
	if len(items) != 1 || items[0].Code != diag.LintUnusedParam || items[0].Severity != diag.SevWarning {
		t.Fatalf("items = %v", items)
	}
}

func TestLintSkippedBelowStage(t *testing.T) {
	l := NewLinker()
	text := "struct Box(T type) { flag : bool }"
	d := decl(t, text, tree.DeclStruct, "Box")
	d.Params = []tree.Param{param(t, text, tree.ParamType, "T", 0)}
	d.Ports = []tree.Port{port(t, text, tree.PortField, "flag", 0, typeRef(t, text, "bool", 0))}
	l.AddFile("box.sil", []byte(text), &tree.File{Decls: []tree.Decl{d}})
	l.RecompileUpTo(StageTypecheck, nil)

	id, _ := l.GlobalByName("Box")
	if n := l.Struct(id.AsType()).Link.Errors.Len(); n != 0 {
		t.Fatalf("lint ran below its stage: %d diagnostics", n)
	}
}

func TestStageObserverOrder(t *testing.T) {
	l := NewLinker()
	text, tf := pointFile(t)
	l.AddFile("point.sil", []byte(text), tf)

	var stages []Stage
	l.RecompileUpTo(StageCodegen, func(s Stage) { stages = append(stages, s) })

	want := []Stage{StageFlatten, StageTypecheck, StageLint, StageInstantiate}
	if len(stages) != len(want) {
		t.Fatalf("stages = %v", stages)
	}
	for i := range want {
		if stages[i] != want[i] {
			t.Fatalf("stages = %v", stages)
		}
	}
}
