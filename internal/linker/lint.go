package linker

import (
	"sil/internal/diag"
)

// lintAll runs advisory checks over every user entity's finished body.
func lintAll(l *Linker) {
	l.forEachLinked(func(id GlobalID, _ *LinkInfo) {
		lintEntity(l, id)
	})
}

func lintEntity(l *Linker, id GlobalID) {
	errs, globals := TakeErrorsGlobals(l, id)
	link := l.linkOf(id)
	r := NewResolver(l, link, errs, globals)

	lintUnusedParams(r, link)

	errs, globals = r.Decommission()
	link.Reabsorb(errs, globals, checkpointLint)
}

// lintUnusedParams warns about template formals no port, field, or
// argument ever mentions.
func lintUnusedParams(r *Resolver, link *LinkInfo) {
	if len(link.Params) == 0 {
		return
	}
	used := make([]bool, len(link.Params))
	for i := range link.Body.Instrs {
		instr := &link.Body.Instrs[i]
		if instr.Type != nil {
			markUsedParams(link, instr.Type, used)
		}
	}
	for i := range link.Params {
		if used[i] {
			continue
		}
		p := &link.Params[i]
		r.Errors().Add(diag.New(diag.SevWarning, diag.LintUnusedParam, p.NameSpan,
			"template parameter '"+p.Name+"' is never used"))
	}
}

func markUsedParams(link *LinkInfo, wt *WrittenType, used []bool) {
	switch wt.Kind {
	case WrittenParam:
		used[wt.ParamIdx] = true
	case WrittenNamed:
		for i := range wt.Named.TemplateArgs {
			arg := &wt.Named.TemplateArgs[i]
			switch arg.Kind {
			case WrittenTypeArg:
				markUsedParams(link, arg.Type, used)
			case WrittenValueArg:
				if arg.Value.IsValid() {
					instr := link.Body.Get(arg.Value)
					if instr.Kind == InstrParamDecl {
						used[instr.ParamIdx] = true
					}
				}
			}
		}
	}
}
