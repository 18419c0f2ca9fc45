package linker

import (
	"sil/internal/diag"
	"sil/internal/source"
)

// Resolver is bound to exactly one unit for the duration of one pipeline
// stage. It owns the unit's error store and dependency record (taken
// with TakeErrorsGlobals) while the rest of the linker stays
// shared-readable; Decommission hands the state back for Reabsorb.
//
// Every touch of another entity through the resolver, not just name
// lookups, lands in the dependency record: a unit's correctness can
// depend on another entity's content, not merely its existence.
type Resolver struct {
	linker *Linker
	file   *FileRecord
	fileID source.FileID

	errors  diag.Store
	globals ResolvedGlobals
}

// TakeErrorsGlobals detaches a unit's error and dependency state ahead
// of a resolver-driven stage.
func TakeErrorsGlobals(l *Linker, id GlobalID) (diag.Store, ResolvedGlobals) {
	link := l.linkOf(id)
	return link.Errors.Take(), link.Globals.Take()
}

// NewResolver binds a resolver to the unit owning link, carrying the
// detached state.
func NewResolver(l *Linker, link *LinkInfo, errors diag.Store, globals ResolvedGlobals) *Resolver {
	return &Resolver{
		linker:  l,
		file:    l.files.Get(uint32(link.File)),
		fileID:  link.File,
		errors:  errors,
		globals: globals,
	}
}

// Decommission returns the unit's error and dependency state for
// reattachment.
func (r *Resolver) Decommission() (diag.Store, ResolvedGlobals) {
	return r.errors, r.globals
}

// Errors exposes the unit's error store for stage code that reports
// through the resolver's unit.
func (r *Resolver) Errors() *diag.Store { return &r.errors }

// Span qualifies artifact offsets with the resolver's file.
func (r *Resolver) Span(start, end uint32) source.Span {
	return r.file.spanOf(r.fileID, start, end)
}

// Text returns the identifier text at span in the unit's file.
func (r *Resolver) Text(span source.Span) string {
	return r.file.Text.Slice(span)
}

// ResolveGlobal reads the identifier at span, looks it up in the global
// namespace, and records the resolution as a dependency. Failure
// (unknown name or unprotected collision) reports through the unit's own
// error store, marks the unit's resolution incomplete, and returns
// false; the caller continues analyzing without the id.
func (r *Resolver) ResolveGlobal(span source.Span) (GlobalID, bool) {
	name := r.Text(span)

	entry, ok := r.linker.lookupName(name)
	if !ok {
		r.globals.AllResolved = false
		r.errors.Add(diag.NewError(diag.LinkUnresolvedName, span,
			"no global of the name '"+name+"' was found"))
		return GlobalID{}, false
	}
	if id, ok := r.linker.directResolution(entry); ok {
		r.globals.Refs = append(r.globals.Refs, id)
		return id, true
	}

	r.globals.AllResolved = false
	d := diag.NewError(diag.LinkCollidingImport, span,
		"there were colliding declarations for the name '"+name+"'")
	for _, collider := range entry.ids {
		loc := r.linker.locationOf(collider)
		d = d.WithNote(loc.span, loc.kindName+" "+loc.fullName+" declared here")
	}
	r.errors.Add(d)
	return GlobalID{}, false
}

// NotExpectedGlobalError reports that a resolved global exists but is
// the wrong kind, with a note at the original declaration when it has
// one.
func (r *Resolver) NotExpectedGlobalError(id GlobalID, span source.Span, expected string) {
	loc := r.linker.locationOf(id)
	d := diag.NewError(diag.LinkKindMismatch, span,
		loc.fullName+" is not a "+expected+", it is a "+loc.kindName+" instead")
	if loc.hasSpan {
		d = d.WithNote(loc.span, "declared here")
	}
	r.errors.Add(d)
}

// Module reads a module entity, recording the access as a dependency.
func (r *Resolver) Module(id ModuleID) *Module {
	r.globals.Refs = append(r.globals.Refs, ModuleGlobal(id))
	return r.linker.modules.Get(uint32(id))
}

// Struct reads a struct-type entity, recording the access as a
// dependency.
func (r *Resolver) Struct(id TypeID) *StructType {
	r.globals.Refs = append(r.globals.Refs, TypeGlobal(id))
	return r.linker.structs.Get(uint32(id))
}

// Constant reads a constant entity, recording the access as a
// dependency.
func (r *Resolver) Constant(id ConstantID) *NamedConstant {
	r.globals.Refs = append(r.globals.Refs, ConstantGlobal(id))
	return r.linker.constants.Get(uint32(id))
}

// LinkOf reads another entity's link record, recording the access as a
// dependency. Returns nil for builtins.
func (r *Resolver) LinkOf(id GlobalID) *LinkInfo {
	r.globals.Refs = append(r.globals.Refs, id)
	return r.linker.linkOf(id)
}
