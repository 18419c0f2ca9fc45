package linker

import (
	"strings"

	"sil/internal/diag"
	"sil/internal/source"
	"sil/internal/types"
)

// GlobalReference is a use-site mention of an entity: the resolved id,
// the mention's span, and the as-written template argument list. Slots
// align positionally with the target's declared formals and may be
// sparse; defaults fill the gaps at instantiation time.
type GlobalReference[ID ~uint32] struct {
	NameSpan source.Span
	ID       ID

	// TemplateArgs has one slot per formal of the target.
	TemplateArgs []WrittenArg
	// TemplateArgTypes is filled per slot by the abstract typecheck.
	TemplateArgTypes []types.AbstractType
	// TemplateSpan covers the written argument list, empty when none.
	TemplateSpan source.Span
}

// TotalSpan covers the name and any written argument list.
func (g *GlobalReference[ID]) TotalSpan() source.Span {
	result := g.NameSpan
	if !g.TemplateSpan.Empty() {
		result = result.Cover(g.TemplateSpan)
	}
	return result
}

// WrittenArgKind discriminates as-written template argument slots.
type WrittenArgKind uint8

const (
	// WrittenNone marks a slot the use site did not provide.
	WrittenNone WrittenArgKind = iota
	// WrittenTypeArg marks a slot with a written type.
	WrittenTypeArg
	// WrittenValueArg marks a slot with a written value expression.
	WrittenValueArg
)

// WrittenArg is one as-written template argument slot.
type WrittenArg struct {
	Kind WrittenArgKind
	Span source.Span
	// Type holds the written type for WrittenTypeArg slots.
	Type *WrittenType
	// Value holds the body instruction for WrittenValueArg slots.
	Value FlatID
}

// Provided reports whether the slot was written at the use site.
func (a WrittenArg) Provided() bool { return a.Kind != WrittenNone }

// WrittenTypeKind discriminates written types.
type WrittenTypeKind uint8

const (
	// WrittenNamed is a reference to a global struct type.
	WrittenNamed WrittenTypeKind = iota
	// WrittenParam is a reference to an enclosing template type formal.
	WrittenParam
	// WrittenError marks a type whose resolution failed; the error has
	// already been reported and later stages skip the reference.
	WrittenError
)

// WrittenType is a type as it appears in source, after name resolution
// but before specialization.
type WrittenType struct {
	Kind WrittenTypeKind
	Span source.Span
	// Named is set for WrittenNamed.
	Named *GlobalReference[TypeID]
	// ParamIdx indexes the enclosing entity's formals for WrittenParam.
	ParamIdx int
}

// ValidateTemplateArgs scans every formal of the target; slots still
// unprovided after default substitution are batched into exactly one
// error naming them all, with one note per missing formal pointing at
// its declaration. Callers must not instantiate on failure.
func ValidateTemplateArgs(
	errors *diag.Store,
	span source.Span,
	target *LinkInfo,
	args []types.ConcreteTemplateArg,
) bool {
	var missing []*TemplateParam
	for i := range target.Params {
		if i >= len(args) || !args[i].Provided() {
			missing = append(missing, &target.Params[i])
		}
	}
	if len(missing) == 0 {
		return true
	}

	var list strings.Builder
	for i, p := range missing {
		if i > 0 {
			list.WriteString(", ")
		}
		list.WriteString("'" + p.Name + "'")
	}
	d := diag.NewError(diag.LinkMissingTemplateArg, span,
		"could not instantiate "+target.FullName()+
			" because the template arguments "+list.String()+
			" were missing and no default was provided")
	for _, p := range missing {
		d = d.WithNote(p.NameSpan, "'"+p.Name+"' declared here")
	}
	errors.Add(d)
	return false
}

// applyDefaults returns the argument tuple with every unprovided slot
// replaced by its formal's default, where one exists. The input is not
// modified.
func applyDefaults(target *LinkInfo, args []types.ConcreteTemplateArg) []types.ConcreteTemplateArg {
	out := make([]types.ConcreteTemplateArg, len(target.Params))
	for i := range target.Params {
		if i < len(args) && args[i].Provided() {
			out[i] = args[i]
			continue
		}
		out[i] = target.Params[i].Default
	}
	return out
}
