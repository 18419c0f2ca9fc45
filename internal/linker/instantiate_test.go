package linker

import (
	"testing"

	"sil/internal/diag"
	"sil/internal/tree"
	"sil/internal/types"
)

func boolType() types.ConcreteType {
	return types.ConcreteType{ID: types.TypeRef(BuiltinBool)}
}

// errorsOnly drops warnings (Vec's unused value formal draws one from
// the lint stage) so tests can count hard errors.
func errorsOnly(items []diag.Diagnostic) []diag.Diagnostic {
	var out []diag.Diagnostic
	for _, d := range items {
		if d.Severity >= diag.SevError {
			out = append(out, d)
		}
	}
	return out
}

func setupVec(t *testing.T) (*Linker, TypeID) {
	t.Helper()
	l := NewLinker()
	text, tf := vecFile(t)
	l.AddFile("vec.sil", []byte(text), tf)
	l.RecompileAll()

	id, ok := l.GlobalByName("Vec")
	if !ok || id.Kind != KindType {
		t.Fatalf("Vec not declared: id=%v ok=%v", id, ok)
	}
	return l, id.AsType()
}

func TestInstantiateSharesResult(t *testing.T) {
	l, vec := setupVec(t)
	args := []types.ConcreteTemplateArg{
		types.TypeArg(boolType()),
		types.ValueArg(types.IntValue(4)),
	}

	first, ok := l.Instantiate(TypeGlobal(vec), args)
	if !ok || first == nil {
		t.Fatalf("instantiation failed")
	}
	second, ok := l.Instantiate(TypeGlobal(vec), args)
	if !ok || second != first {
		t.Fatalf("identical argument tuples must share one instantiation")
	}

	if len(first.Ports) != 1 || first.Ports[0].Name != "data" {
		t.Fatalf("ports = %+v", first.Ports)
	}
	if first.Ports[0].Type.ID != types.TypeRef(BuiltinBool) {
		t.Fatalf("data field type = %+v", first.Ports[0].Type)
	}
}

func TestInstantiateDistinctArgs(t *testing.T) {
	l, vec := setupVec(t)

	a, _ := l.Instantiate(TypeGlobal(vec), []types.ConcreteTemplateArg{
		types.TypeArg(boolType()),
		types.ValueArg(types.IntValue(4)),
	})
	b, _ := l.Instantiate(TypeGlobal(vec), []types.ConcreteTemplateArg{
		types.TypeArg(boolType()),
		types.ValueArg(types.IntValue(8)),
	})
	if a == b {
		t.Fatalf("different argument tuples must not share an instantiation")
	}
}

func TestMissingArgsSingleBatchedError(t *testing.T) {
	l, vec := setupVec(t)

	inst, ok := l.Instantiate(TypeGlobal(vec), nil)
	if ok || inst != nil {
		t.Fatalf("instantiation with no arguments must fail")
	}

	link := &l.Struct(vec).Link
	items := errorsOnly(link.Errors.Items())
	if len(items) != 1 || items[0].Code != diag.LinkMissingTemplateArg {
		t.Fatalf("items = %v", items)
	}
	if len(items[0].Notes) != 2 {
		t.Fatalf("expected one note per missing formal, got %d", len(items[0].Notes))
	}

	// Repeating the attempt hits the cached failure: no new diagnostics.
	inst, ok = l.Instantiate(TypeGlobal(vec), nil)
	if ok || inst != nil {
		t.Fatalf("cached failure must stay a failure")
	}
	if n := len(errorsOnly(link.Errors.Items())); n != 1 {
		t.Fatalf("failure diagnosed twice: %v", link.Errors.Items())
	}
}

func TestRecompileResetsInstantiationErrors(t *testing.T) {
	l, vec := setupVec(t)
	l.Instantiate(TypeGlobal(vec), nil)
	if n := len(errorsOnly(l.Struct(vec).Link.Errors.Items())); n != 1 {
		t.Fatalf("expected one rejection error, got %d", n)
	}

	// Instantiation writes land after the last checkpoint, so the next
	// pipeline run rolls them back and clears the cache.
	l.RecompileAll()
	link := &l.Struct(vec).Link
	if n := len(errorsOnly(link.Errors.Items())); n != 0 {
		t.Fatalf("errors survived recompile: %v", link.Errors.Items())
	}

	inst, ok := l.Instantiate(TypeGlobal(vec), nil)
	if ok || inst != nil {
		t.Fatalf("rejection must recompute after invalidation")
	}
	if n := len(errorsOnly(link.Errors.Items())); n != 1 {
		t.Fatalf("errors = %v", link.Errors.Items())
	}
}

func TestDefaultFillsMissingSlot(t *testing.T) {
	l := NewLinker()
	text := "struct Buf(N int = 8) { flag : bool }"
	d := decl(t, text, tree.DeclStruct, "Buf")
	p := param(t, text, tree.ParamValue, "N", 0)
	dv := int64(8)
	p.DefaultValue = &dv
	d.Params = []tree.Param{p}
	d.Ports = []tree.Port{port(t, text, tree.PortField, "flag", 0, typeRef(t, text, "bool", 0))}
	l.AddFile("buf.sil", []byte(text), &tree.File{Decls: []tree.Decl{d}})
	l.RecompileAll()

	id, _ := l.GlobalByName("Buf")
	inst, ok := l.Instantiate(id, nil)
	if !ok {
		t.Fatalf("default must satisfy the missing slot: %v",
			l.Struct(id.AsType()).Link.Errors.Items())
	}
	if len(inst.Args) != 1 || inst.Args[0].Kind != types.ArgValue || inst.Args[0].Value.Int != 8 {
		t.Fatalf("args = %+v", inst.Args)
	}

	// Explicit argument and defaulted argument are distinct tuples only
	// when they differ.
	same, _ := l.Instantiate(id, []types.ConcreteTemplateArg{types.ValueArg(types.IntValue(8))})
	if same != inst {
		t.Fatalf("explicit 8 must share the defaulted instantiation")
	}
	other, _ := l.Instantiate(id, []types.ConcreteTemplateArg{types.ValueArg(types.IntValue(16))})
	if other == inst {
		t.Fatalf("explicit 16 must not share the defaulted instantiation")
	}
}

func TestEagerInstantiationOfZeroParamEntities(t *testing.T) {
	l := NewLinker()
	addFiles(t, l, map[string]func(*testing.T) (string, *tree.File){
		"point.sil": pointFile,
		"use.sil":   useFile,
		"vec.sil":   vecFile,
	})
	l.RecompileAll()

	useID, _ := l.GlobalByName("Use")
	if n := len(l.Module(useID.AsModule()).Instantiations.instances); n != 1 {
		t.Fatalf("zero-param module not eagerly instantiated: %d instances", n)
	}
	pointID, _ := l.GlobalByName("Point")
	if n := len(l.Struct(pointID.AsType()).Instantiations.instances); n != 1 {
		t.Fatalf("zero-param struct not eagerly instantiated: %d instances", n)
	}
	vecID, _ := l.GlobalByName("Vec")
	if n := len(l.Struct(vecID.AsType()).Instantiations.instances); n != 0 {
		t.Fatalf("generic struct must not instantiate eagerly: %d instances", n)
	}
}

func TestGenericUseElaboratesPorts(t *testing.T) {
	l := NewLinker()
	vecText, vecTree := vecFile(t)
	l.AddFile("vec.sil", []byte(vecText), vecTree)

	text := "module Top { in v : Vec(bool, 4) }"
	d := decl(t, text, tree.DeclModule, "Top")
	args := []tree.TypeArg{
		typeArg(t, text, "bool", 0),
		valueArg(t, text, "4", 0, 4),
	}
	d.Ports = []tree.Port{port(t, text, tree.PortIn, "v", 0, typeRef(t, text, "Vec", 0, args...))}
	l.AddFile("top.sil", []byte(text), &tree.File{Decls: []tree.Decl{d}})
	l.RecompileAll()

	topID, _ := l.GlobalByName("Top")
	md := l.Module(topID.AsModule())
	if md.Link.Errors.Len() != 0 {
		t.Fatalf("errors: %v", md.Link.Errors.Items())
	}

	inst, ok := l.Instantiate(topID, nil)
	if !ok {
		t.Fatalf("Top failed to instantiate")
	}
	if len(inst.Ports) != 1 {
		t.Fatalf("ports = %+v", inst.Ports)
	}
	vecID, _ := l.GlobalByName("Vec")
	pt := inst.Ports[0].Type
	if pt.ID != types.TypeRef(vecID.AsType()) || len(pt.Args) != 2 {
		t.Fatalf("port type = %+v", pt)
	}
	if pt.Args[0].Kind != types.ArgType || pt.Args[0].Type.ID != types.TypeRef(BuiltinBool) {
		t.Fatalf("type slot = %+v", pt.Args[0])
	}
	if pt.Args[1].Kind != types.ArgValue || pt.Args[1].Value.Int != 4 {
		t.Fatalf("value slot = %+v", pt.Args[1])
	}
}

func TestConstantAsTemplateArgument(t *testing.T) {
	l := NewLinker()
	vecText, vecTree := vecFile(t)
	l.AddFile("vec.sil", []byte(vecText), vecTree)

	constText := "const WIDTH : int = 4"
	cd := decl(t, constText, tree.DeclConst, "WIDTH")
	ref := typeRef(t, constText, "int", 0)
	cd.Value = &ref
	lit := int64(4)
	cd.Literal = &lit
	l.AddFile("width.sil", []byte(constText), &tree.File{Decls: []tree.Decl{cd}})

	text := "module Top { in v : Vec(bool, WIDTH) }"
	d := decl(t, text, tree.DeclModule, "Top")
	args := []tree.TypeArg{
		typeArg(t, text, "bool", 0),
		typeArg(t, text, "WIDTH", 0),
	}
	d.Ports = []tree.Port{port(t, text, tree.PortIn, "v", 0, typeRef(t, text, "Vec", 0, args...))}
	l.AddFile("top.sil", []byte(text), &tree.File{Decls: []tree.Decl{d}})
	l.RecompileAll()

	topID, _ := l.GlobalByName("Top")
	md := l.Module(topID.AsModule())
	if md.Link.Errors.Len() != 0 {
		t.Fatalf("errors: %v", md.Link.Errors.Items())
	}

	// The constant mention lands in the dependency record.
	widthID, _ := l.GlobalByName("WIDTH")
	found := false
	for _, refID := range md.Link.Globals.Refs {
		if refID == widthID {
			found = true
		}
	}
	if !found {
		t.Fatalf("WIDTH missing from deps: %v", md.Link.Globals.Refs)
	}

	inst, ok := l.Instantiate(topID, nil)
	if !ok {
		t.Fatalf("Top failed to instantiate")
	}
	pt := inst.Ports[0].Type
	if pt.Args[1].Kind != types.ArgValue || pt.Args[1].Value.Int != 4 {
		t.Fatalf("constant value not substituted: %+v", pt.Args[1])
	}
}

func TestInstantiateBuiltinPanics(t *testing.T) {
	l := NewLinker()
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic for builtin instantiation")
		}
	}()
	l.Instantiate(TypeGlobal(BuiltinBool), nil)
}
