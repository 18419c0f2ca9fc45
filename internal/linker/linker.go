// Package linker is the semantic core of the compiler: the global store
// of named entities, the namespace that resolves identifiers against it,
// the per-file registry, the per-unit dependency tracking, the
// template-argument machinery, and the checkpointed incremental
// recompilation pipeline.
//
// The whole package is single-threaded and pass-oriented. One pipeline
// pass holds the Linker exclusively; within a pass the detach/reabsorb
// protocol on LinkInfo lets one unit be mutated while the rest of the
// store is read. User-facing problems become diagnostics attributed to
// the unit that triggered them; violations of the package's own
// invariants panic, because they are defects in the compiler, not in
// user input.
package linker

import (
	"sil/internal/arena"
	"sil/internal/diag"
	"sil/internal/source"
	"sil/internal/types"
)

// Linker is the fully linked set of all files: three entity arenas, the
// global namespace over them, and the file registry. Incremental
// operations (add, update, remove files) keep it consistent across
// edits.
type Linker struct {
	modules   *arena.Arena[Module]
	structs   *arena.Arena[StructType]
	constants *arena.Arena[NamedConstant]

	globalNamespace map[string]namespaceEntry

	files *arena.Arena[FileRecord]
}

// NewLinker builds an empty linker with builtins pre-registered and
// permanently protected.
func NewLinker() *Linker {
	l := &Linker{
		modules:         arena.New[Module](16),
		structs:         arena.New[StructType](16),
		constants:       arena.New[NamedConstant](16),
		globalNamespace: make(map[string]namespaceEntry),
		files:           arena.New[FileRecord](4),
	}

	for _, name := range builtinTypes {
		id := TypeID(l.structs.Alloc(StructType{IsBuiltin: true, BuiltinName: name}))
		l.declareName(name, TypeGlobal(id))
	}
	for _, bc := range builtinConstants {
		id := ConstantID(l.constants.Alloc(NamedConstant{
			IsBuiltin:   true,
			BuiltinName: bc.name,
			Typ:         types.ConcreteType{ID: types.TypeRef(BuiltinBool)},
			Val:         bc.val,
		}))
		l.declareName(bc.name, ConstantGlobal(id))
	}
	return l
}

// Module returns the module entity for id.
func (l *Linker) Module(id ModuleID) *Module {
	return l.modules.Get(uint32(id))
}

// Struct returns the struct-type entity for id.
func (l *Linker) Struct(id TypeID) *StructType {
	return l.structs.Get(uint32(id))
}

// Constant returns the constant entity for id.
func (l *Linker) Constant(id ConstantID) *NamedConstant {
	return l.constants.Get(uint32(id))
}

// GlobalByName resolves a name to a single entity outside any unit's
// analysis: no dependency is recorded and no diagnostic emitted. Used by
// tests and external tooling (hover, go-to-definition).
func (l *Linker) GlobalByName(name string) (GlobalID, bool) {
	entry, ok := l.lookupName(name)
	if !ok {
		return GlobalID{}, false
	}
	return l.directResolution(entry)
}

// forEachLinked visits every user entity's link record.
func (l *Linker) forEachLinked(fn func(id GlobalID, link *LinkInfo)) {
	l.modules.For(func(raw uint32, md *Module) {
		fn(ModuleGlobal(ModuleID(raw)), &md.Link)
	})
	l.structs.For(func(raw uint32, st *StructType) {
		if !st.IsBuiltin {
			fn(TypeGlobal(TypeID(raw)), &st.Link)
		}
	})
	l.constants.For(func(raw uint32, c *NamedConstant) {
		if !c.IsBuiltin {
			fn(ConstantGlobal(ConstantID(raw)), &c.Link)
		}
	})
}

// RemoveFiles frees the given files and every entity they declare, and
// prunes the namespace. Freed ids are never reissued this session;
// dereferencing one afterwards panics.
func (l *Linker) RemoveFiles(ids []source.FileID) {
	l.removeFileData(ids)
	for _, id := range ids {
		l.files.Free(uint32(id))
	}
}

// removeFileData frees the files' entities and namespace bindings while
// keeping the file slots themselves, so UpdateFile can reuse the id.
func (l *Linker) removeFileData(ids []source.FileID) {
	removed := make(map[GlobalID]bool)
	for _, fileID := range ids {
		fd := l.files.Get(uint32(fileID))
		for _, g := range fd.Entities {
			removed[g] = true
			switch g.Kind {
			case KindModule:
				l.modules.Free(uint32(g.AsModule()))
			case KindType:
				l.structs.Free(uint32(g.AsType()))
			case KindConstant:
				l.constants.Free(uint32(g.AsConstant()))
			}
		}
	}
	l.removeNames(removed)
}

// CollectAllErrorsInFile gathers everything a renderer needs for one
// file: the parser's own errors, duplicate-declaration reports, and each
// declared entity's accumulated link errors.
func (l *Linker) CollectAllErrorsInFile(fileID source.FileID, bag *diag.Bag) {
	fd := l.files.Get(uint32(fileID))
	bag.AddAll(&fd.ParseErrors)
	l.collectDuplicateDeclarations(fileID, bag)
	for _, g := range fd.Entities {
		if link := l.linkOf(g); link != nil {
			bag.AddAll(&link.Errors)
		}
	}
}

// collectDuplicateDeclarations walks collision buckets and reports, for
// every user declaration in the queried file, the set it conflicts with.
// Builtin conflicts are reported at declaration-gathering time instead,
// so they are skipped here.
func (l *Linker) collectDuplicateDeclarations(fileID source.FileID, bag *diag.Bag) {
	for name, entry := range l.globalNamespace {
		if !entry.isCollision() || l.isBuiltin(entry.ids[0]) {
			continue
		}
		for _, id := range entry.ids {
			link := l.linkOf(id)
			if link == nil || link.File != fileID {
				continue
			}
			d := diag.NewError(diag.LinkDuplicateDeclaration, link.NameSpan,
				"'"+name+"' conflicts with other declarations")
			for _, otherID := range entry.ids {
				if otherID == id {
					continue
				}
				loc := l.locationOf(otherID)
				d = d.WithNote(loc.span, "conflicts with "+loc.kindName+" "+loc.fullName+" declared here")
			}
			bag.Add(d)
		}
	}
}
