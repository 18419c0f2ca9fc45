package linker

import (
	"sil/internal/diag"
	"sil/internal/source"
	"sil/internal/tree"
	"sil/internal/types"
)

// gatherFileDeclarations walks a file's syntax artifact and registers
// every top-level declaration: entity allocated, name declared, and the
// post-gathering checkpoint bound. Cross-references are not resolved
// here; that is the flatten stage's job.
func gatherFileDeclarations(l *Linker, fileID source.FileID) {
	fd := l.files.Get(uint32(fileID))

	for declIdx := range fd.Tree.Decls {
		decl := &fd.Tree.Decls[declIdx]
		nameSpan := fd.spanOf(fileID, decl.NameStart, decl.NameEnd)
		name := fd.Text.Slice(nameSpan)

		link := LinkInfo{
			Name:     name,
			NameSpan: nameSpan,
			File:     fileID,
			DeclIdx:  declIdx,
			Params:   gatherParams(fd, fileID, decl),
			Globals:  EmptyResolvedGlobals(),
		}

		// Redeclaring a builtin is reported on the offending unit right
		// away; the builtin stays directly resolvable regardless.
		if entry, ok := l.lookupName(name); ok && l.isBuiltin(entry.ids[0]) {
			link.Errors.Add(diag.NewError(diag.LinkRedeclareBuiltin, nameSpan,
				"cannot redeclare the builtin '"+name+"'"))
		}

		var id GlobalID
		switch decl.Kind {
		case tree.DeclModule:
			id = ModuleGlobal(ModuleID(l.modules.Alloc(Module{Link: link})))
		case tree.DeclStruct:
			id = TypeGlobal(TypeID(l.structs.Alloc(StructType{Link: link})))
		case tree.DeclConst:
			id = ConstantGlobal(ConstantID(l.constants.Alloc(NamedConstant{Link: link})))
		}

		fd.Entities = append(fd.Entities, id)
		l.declareName(name, id)
		l.linkOf(id).BindCheckpoint(checkpointDeclarations)
	}
}

func gatherParams(fd *FileRecord, fileID source.FileID, decl *tree.Decl) []TemplateParam {
	if len(decl.Params) == 0 {
		return nil
	}
	params := make([]TemplateParam, 0, len(decl.Params))
	for _, p := range decl.Params {
		nameSpan := fd.spanOf(fileID, p.NameStart, p.NameEnd)
		kind := TemplateType
		if p.Kind == tree.ParamValue {
			kind = TemplateValue
		}
		params = append(params, TemplateParam{
			Name:      fd.Text.Slice(nameSpan),
			NameSpan:  nameSpan,
			DeclSpan:  fd.spanOf(fileID, p.DeclStart, p.DeclEnd),
			Kind:      kind,
			DeclInstr: NoFlatID,
			Default:   types.NotProvided(),
		})
	}
	return params
}
