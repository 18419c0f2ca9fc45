package linker

import (
	"fmt"

	"sil/internal/diag"
	"sil/internal/source"
	"sil/internal/tree"
)

// StageObserver is notified as each pipeline stage begins, for progress
// reporting. It must not touch the linker.
type StageObserver func(Stage)

// AddFile registers a new file: normalized text, its externally parsed
// syntax artifact, declaration gathering, and the post-gathering
// checkpoint for each declared entity. The identifier must be new.
func (l *Linker) AddFile(identifier string, text []byte, t *tree.File) source.FileID {
	duplicate := false
	l.files.For(func(_ uint32, fd *FileRecord) {
		if fd.Identifier == identifier {
			duplicate = true
		}
	})
	if duplicate {
		panic(fmt.Errorf("linker: file %q is already registered", identifier))
	}

	fileID := source.FileID(l.files.Reserve())
	l.fillFile(fileID, identifier, text, t)
	gatherFileDeclarations(l, fileID)
	return fileID
}

// UpdateFile replaces a registered file's text and artifact under the
// same id: the file's entities and namespace bindings are removed, then
// gathering reruns as in AddFile.
func (l *Linker) UpdateFile(fileID source.FileID, text []byte, t *tree.File) {
	identifier := l.files.Get(uint32(fileID)).Identifier
	l.removeFileData([]source.FileID{fileID})
	l.files.Revert(uint32(fileID))
	l.fillFile(fileID, identifier, text, t)
	gatherFileDeclarations(l, fileID)
}

func (l *Linker) fillFile(fileID source.FileID, identifier string, text []byte, t *tree.File) {
	fd := FileRecord{
		Identifier: identifier,
		Text:       source.NewText(text, 0),
		Tree:       t,
	}
	for _, pe := range t.ParseErrors {
		fd.ParseErrors.Add(diag.NewError(diag.SynExternalParse,
			source.Span{File: fileID, Start: pe.Start, End: pe.End}, pe.Msg))
	}
	l.files.Fill(uint32(fileID), fd)
}

// RecompileAll reruns the full pipeline over every registered entity.
func (l *Linker) RecompileAll() {
	l.RecompileUpTo(StageCodegen, nil)
}

// RecompileUpTo rewinds every entity to its post-declaration-gathering
// checkpoint, then runs the remaining stages in fixed order, each stage
// finishing for all entities before the next begins for any. Passing an
// earlier stage stops the pipeline there, leaving partial artifacts for
// callers that only need them (hover, completion).
func (l *Linker) RecompileUpTo(stage Stage, observe StageObserver) {
	l.resetAll()

	if stage < StageFlatten {
		return
	}
	notify(observe, StageFlatten)
	flattenAll(l)

	if stage < StageTypecheck {
		return
	}
	notify(observe, StageTypecheck)
	typecheckAll(l)

	if stage < StageLint {
		return
	}
	notify(observe, StageLint)
	lintAll(l)

	if stage < StageInstantiate {
		return
	}
	notify(observe, StageInstantiate)
	l.instantiateEager()
}

func notify(observe StageObserver, stage Stage) {
	if observe != nil {
		observe(stage)
	}
}

// resetAll rewinds every entity to just after declaration gathering,
// discarding flatten/typecheck results and every cached instantiation.
// Nothing is re-parsed and no names are re-gathered.
func (l *Linker) resetAll() {
	l.modules.For(func(_ uint32, md *Module) {
		md.Link.ResetTo(checkpointDeclarations)
		md.Link.Body.Clear()
		md.Ports = nil
		md.Instantiations.Clear()
	})
	l.structs.For(func(_ uint32, st *StructType) {
		if st.IsBuiltin {
			return
		}
		st.Link.ResetTo(checkpointDeclarations)
		st.Link.Body.Clear()
		st.Fields = nil
		st.Instantiations.Clear()
	})
	l.constants.For(func(_ uint32, c *NamedConstant) {
		if c.IsBuiltin {
			return
		}
		c.Link.ResetTo(checkpointDeclarations)
		c.Link.Body.Clear()
	})
}

// instantiateEager specializes every zero-parameter module and struct
// exactly once: only one instance of those can ever exist.
func (l *Linker) instantiateEager() {
	l.modules.For(func(raw uint32, md *Module) {
		if len(md.Link.Params) == 0 {
			l.Instantiate(ModuleGlobal(ModuleID(raw)), nil)
		}
	})
	l.structs.For(func(raw uint32, st *StructType) {
		if !st.IsBuiltin && len(st.Link.Params) == 0 {
			l.Instantiate(TypeGlobal(TypeID(raw)), nil)
		}
	})
}
