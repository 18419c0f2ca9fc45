// Package diagfmt renders aggregated diagnostics for humans (colored
// terminal output with source excerpts) and for tools (JSON).
package diagfmt

import "sil/internal/source"

// FileSource resolves a file id to its identifier and normalized text.
// The linker satisfies this.
type FileSource interface {
	SourceFor(id source.FileID) (identifier string, text *source.Text, ok bool)
}

// PrettyOpts configures pretty-printing of diagnostics.
type PrettyOpts struct {
	Color bool
	// ShowNotes includes secondary notes under each diagnostic.
	ShowNotes bool
	// ShowExcerpts includes the source line with an underline.
	ShowExcerpts bool
}

// JSONOpts configures JSON output of diagnostics.
type JSONOpts struct {
	IncludePositions bool // add line/col to every location
	IncludeNotes     bool
	Max              int // truncate output, not the bag
}
