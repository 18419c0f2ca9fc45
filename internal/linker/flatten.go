package linker

import (
	"sil/internal/diag"
	"sil/internal/source"
	"sil/internal/tree"
	"sil/internal/types"
	"strconv"
)

// flattenAll lowers every user entity's declaration into its flat body.
// All entities finish flattening before any typechecking begins: the
// typecheck reads other entities' finished bodies.
func flattenAll(l *Linker) {
	l.forEachLinked(func(id GlobalID, _ *LinkInfo) {
		flattenEntity(l, id)
	})
}

func flattenEntity(l *Linker, id GlobalID) {
	errs, globals := TakeErrorsGlobals(l, id)
	r := NewResolver(l, l.linkOf(id), errs, globals)

	link := l.linkOf(id)
	fd := l.files.Get(uint32(link.File))
	decl := &fd.Tree.Decls[link.DeclIdx]

	var body Body
	for i := range link.Params {
		p := &link.Params[i]
		if p.Kind != TemplateValue {
			continue
		}
		p.DeclInstr = body.Add(Instruction{
			Kind:     InstrParamDecl,
			Span:     p.DeclSpan,
			Name:     p.Name,
			NameSpan: p.NameSpan,
			ParamIdx: i,
		})
	}

	ports := flattenPorts(r, link, decl, &body)

	switch id.Kind {
	case KindModule:
		link.Body = body
		l.modules.Get(uint32(id.AsModule())).Ports = ports
	case KindType:
		link.Body = body
		l.structs.Get(uint32(id.AsType())).Fields = ports
	case KindConstant:
		flattenConstant(r, link, decl, &body)
		link.Body = body
	}

	errs, globals = r.Decommission()
	link.Reabsorb(errs, globals, checkpointFlatten)
}

func flattenPorts(r *Resolver, link *LinkInfo, decl *tree.Decl, body *Body) []Port {
	if len(decl.Ports) == 0 {
		return nil
	}
	ports := make([]Port, 0, len(decl.Ports))
	for i := range decl.Ports {
		p := &decl.Ports[i]
		nameSpan := r.Span(p.NameStart, p.NameEnd)
		wt := flattenWrittenType(r, link, body, &p.Type)
		declID := body.Add(Instruction{
			Kind:     InstrPortDecl,
			Span:     nameSpan.Cover(wt.Span),
			Name:     r.Text(nameSpan),
			NameSpan: nameSpan,
			Dir:      p.Dir,
			Type:     &wt,
		})
		ports = append(ports, Port{
			Name:     r.Text(nameSpan),
			NameSpan: nameSpan,
			Dir:      p.Dir,
			Decl:     declID,
			Type:     wt,
		})
	}
	return ports
}

func flattenConstant(r *Resolver, link *LinkInfo, decl *tree.Decl, body *Body) {
	if decl.Value != nil {
		wt := flattenWrittenType(r, link, body, decl.Value)
		body.Add(Instruction{
			Kind: InstrPortDecl,
			Span: wt.Span,
			Name: link.Name,
			Dir:  tree.PortField,
			Type: &wt,
		})
	}
	if decl.Literal != nil {
		body.Add(Instruction{
			Kind:  InstrLiteral,
			Span:  link.NameSpan,
			Value: types.IntValue(*decl.Literal),
		})
	}
}

// flattenWrittenType resolves one as-written type: an enclosing type
// formal, or a global struct type with its written template arguments.
func flattenWrittenType(r *Resolver, link *LinkInfo, body *Body, tref *tree.TypeRef) WrittenType {
	span := r.Span(tref.NameStart, tref.NameEnd)
	name := r.Text(span)

	for i := range link.Params {
		if link.Params[i].Name != name {
			continue
		}
		if link.Params[i].Kind == TemplateValue {
			r.Errors().Add(diag.NewError(diag.LinkKindMismatch, span,
				"'"+name+"' is a value formal, a type was expected").
				WithNote(link.Params[i].NameSpan, "declared here"))
			return WrittenType{Kind: WrittenError, Span: span}
		}
		return WrittenType{Kind: WrittenParam, Span: span, ParamIdx: i}
	}

	id, ok := r.ResolveGlobal(span)
	if !ok {
		return WrittenType{Kind: WrittenError, Span: span}
	}
	if id.Kind != KindType {
		r.NotExpectedGlobalError(id, span, "Type")
		return WrittenType{Kind: WrittenError, Span: span}
	}
	tid := id.AsType()

	target := r.Struct(tid)
	formals := len(target.Link.Params)

	written := tref.Args
	if len(written) > formals {
		r.Errors().Add(diag.NewError(diag.TypeParamArity, span,
			target.Name()+" expects "+strconv.Itoa(formals)+
				" template arguments, "+strconv.Itoa(len(written))+" were written"))
		written = written[:formals]
	}

	var templateSpan source.Span
	args := make([]WrittenArg, formals)
	for i := range written {
		args[i] = flattenWrittenArg(r, link, body, &written[i])
		if args[i].Provided() {
			if templateSpan.Empty() {
				templateSpan = args[i].Span
			} else {
				templateSpan = templateSpan.Cover(args[i].Span)
			}
		}
	}

	return WrittenType{
		Kind: WrittenNamed,
		Span: span,
		Named: &GlobalReference[TypeID]{
			NameSpan:     span,
			ID:           tid,
			TemplateArgs: args,
			TemplateSpan: templateSpan,
		},
	}
}

// flattenWrittenArg classifies one written template argument. The
// parser cannot tell type arguments from named value arguments, so a
// name mention is classified here by what it resolves to.
func flattenWrittenArg(r *Resolver, link *LinkInfo, body *Body, arg *tree.TypeArg) WrittenArg {
	span := r.Span(arg.Start, arg.End)

	if arg.Value != nil {
		id := body.Add(Instruction{
			Kind:  InstrLiteral,
			Span:  span,
			Value: types.IntValue(*arg.Value),
		})
		return WrittenArg{Kind: WrittenValueArg, Span: span, Value: id}
	}
	if arg.Type == nil {
		return WrittenArg{Kind: WrittenNone}
	}

	// A bare name with no nested arguments may be a value mention: a
	// generative formal or a global constant.
	if len(arg.Type.Args) == 0 {
		nameSpan := r.Span(arg.Type.NameStart, arg.Type.NameEnd)
		name := r.Text(nameSpan)
		for i := range link.Params {
			if link.Params[i].Name != name || link.Params[i].Kind != TemplateValue {
				continue
			}
			return WrittenArg{Kind: WrittenValueArg, Span: span, Value: link.Params[i].DeclInstr}
		}
		if entry, ok := r.linker.lookupName(name); ok {
			if id, ok := r.linker.directResolution(entry); ok && id.Kind == KindConstant {
				r.globals.Refs = append(r.globals.Refs, id)
				instr := body.Add(Instruction{
					Kind:     InstrConstRef,
					Span:     span,
					Constant: id.AsConstant(),
				})
				return WrittenArg{Kind: WrittenValueArg, Span: span, Value: instr}
			}
		}
	}

	wt := flattenWrittenType(r, link, body, arg.Type)
	return WrittenArg{Kind: WrittenTypeArg, Span: span, Type: &wt}
}
