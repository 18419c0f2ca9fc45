package linker

import (
	"sil/internal/diag"
	"sil/internal/types"
)

// typecheckAll runs the abstract typecheck over every user entity. Every
// entity has finished flattening by now, so other entities' formals and
// bodies are safe to read.
func typecheckAll(l *Linker) {
	l.forEachLinked(func(id GlobalID, _ *LinkInfo) {
		typecheckEntity(l, id)
	})
}

func typecheckEntity(l *Linker, id GlobalID) {
	errs, globals := TakeErrorsGlobals(l, id)
	link := l.linkOf(id)
	r := NewResolver(l, link, errs, globals)

	for i := range link.Body.Instrs {
		instr := &link.Body.Instrs[i]
		if instr.Type != nil {
			checkWrittenType(r, link, instr.Type)
		}
	}
	resolveParamDefaults(r, link)

	if id.Kind == KindConstant {
		typecheckConstant(r, l.constants.Get(uint32(id.AsConstant())))
	}

	errs, globals = r.Decommission()
	link.Reabsorb(errs, globals, checkpointTypecheck)
}

// checkWrittenType classifies every template argument slot of a
// reference against the target's declared formals and records each
// slot's abstract type on the reference.
func checkWrittenType(r *Resolver, link *LinkInfo, wt *WrittenType) {
	if wt.Kind != WrittenNamed {
		return
	}
	ref := wt.Named
	target := r.Struct(ref.ID)

	ref.TemplateArgTypes = make([]types.AbstractType, len(ref.TemplateArgs))
	for i := range ref.TemplateArgs {
		arg := &ref.TemplateArgs[i]
		ref.TemplateArgTypes[i] = checkTemplateSlot(r, link, &target.Link.Params[i], arg)
		if arg.Kind == WrittenTypeArg {
			checkWrittenType(r, link, arg.Type)
		}
	}
}

func checkTemplateSlot(r *Resolver, link *LinkInfo, formal *TemplateParam, arg *WrittenArg) types.AbstractType {
	switch arg.Kind {
	case WrittenNone:
		return types.AbstractUnknown
	case WrittenTypeArg:
		if formal.Kind == TemplateValue {
			r.Errors().Add(diag.NewError(diag.TypeArgNotConst, arg.Span,
				"'"+formal.Name+"' is a value formal, a type argument was written").
				WithNote(formal.NameSpan, "'"+formal.Name+"' declared here"))
			return types.AbstractUnknown
		}
		return types.AbstractTypeSlot
	case WrittenValueArg:
		if formal.Kind == TemplateType {
			r.Errors().Add(diag.NewError(diag.TypeArgNotType, arg.Span,
				"'"+formal.Name+"' is a type formal, a value argument was written").
				WithNote(formal.NameSpan, "'"+formal.Name+"' declared here"))
			return types.AbstractUnknown
		}
		return valueArgAbstract(r, link, arg.Value)
	}
	return types.AbstractUnknown
}

func valueArgAbstract(r *Resolver, link *LinkInfo, id FlatID) types.AbstractType {
	if !id.IsValid() {
		return types.AbstractUnknown
	}
	instr := link.Body.Get(id)
	switch instr.Kind {
	case InstrLiteral:
		return instr.Value.Abstract()
	case InstrConstRef:
		return r.Constant(instr.Constant).Val.Abstract()
	case InstrParamDecl:
		// Generative formals are integer-valued.
		return types.AbstractInt
	}
	return types.AbstractUnknown
}

// resolveParamDefaults turns each formal's written default into a
// concrete argument, ready for substitution at instantiation time.
// Defaults must be fully concrete: a literal, or a type mention with no
// free template arguments of its own.
func resolveParamDefaults(r *Resolver, link *LinkInfo) {
	fd := r.file
	decl := &fd.Tree.Decls[link.DeclIdx]
	for i := range link.Params {
		p := &decl.Params[i]
		switch {
		case p.DefaultValue != nil:
			link.Params[i].Default = types.ValueArg(types.IntValue(*p.DefaultValue))
		case p.DefaultType != nil:
			span := r.Span(p.DefaultType.NameStart, p.DefaultType.NameEnd)
			id, ok := r.ResolveGlobal(span)
			if !ok {
				continue
			}
			if id.Kind != KindType {
				r.NotExpectedGlobalError(id, span, "Type")
				continue
			}
			target := r.Struct(id.AsType())
			if len(target.Link.Params) > 0 || len(p.DefaultType.Args) > 0 {
				r.Errors().Add(diag.NewError(diag.TypeDefaultNotConcrete, span,
					"default for '"+link.Params[i].Name+"' must name a non-generic type"))
				continue
			}
			link.Params[i].Default = types.TypeArg(types.ConcreteType{ID: types.TypeRef(id.AsType())})
		}
	}
}

// typecheckConstant fixes the constant's value and concrete type from
// its flat body.
func typecheckConstant(r *Resolver, c *NamedConstant) {
	for i := range c.Link.Body.Instrs {
		instr := &c.Link.Body.Instrs[i]
		switch instr.Kind {
		case InstrLiteral:
			c.Val = instr.Value
		case InstrPortDecl:
			if instr.Type != nil && instr.Type.Kind == WrittenNamed && len(instr.Type.Named.TemplateArgs) == 0 {
				c.Typ = types.ConcreteType{ID: types.TypeRef(instr.Type.Named.ID)}
			}
		}
	}
}
