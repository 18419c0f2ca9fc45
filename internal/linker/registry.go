package linker

import (
	"sil/internal/diag"
	"sil/internal/source"
	"sil/internal/tree"
)

// FileRecord is one registered file: normalized text, the read-only
// syntax artifact, the entities it declares, and the parse errors the
// external parser reported for it. The record owns its entities'
// existence; freeing the file frees them.
type FileRecord struct {
	Identifier  string
	Text        source.Text
	Tree        *tree.File
	Entities    []GlobalID
	ParseErrors diag.Store
}

// spanOf builds a file-qualified span from artifact offsets.
func (f *FileRecord) spanOf(id source.FileID, start, end uint32) source.Span {
	return source.Span{File: id, Start: start, End: end}
}

// File returns the record for a registered file id.
func (l *Linker) File(id source.FileID) *FileRecord {
	return l.files.Get(uint32(id))
}

// SourceFor exposes a file's identifier and normalized text for
// diagnostic rendering. ok is false for unregistered ids.
func (l *Linker) SourceFor(id source.FileID) (string, *source.Text, bool) {
	if !l.files.IsLive(uint32(id)) {
		return "", nil, false
	}
	fd := l.files.Get(uint32(id))
	return fd.Identifier, &fd.Text, true
}

// Files iterates registered files in id order.
func (l *Linker) Files(fn func(id source.FileID, fd *FileRecord)) {
	l.files.For(func(raw uint32, fd *FileRecord) {
		fn(source.FileID(raw), fd)
	})
}
