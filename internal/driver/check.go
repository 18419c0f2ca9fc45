// Package driver wires the batch entry points the CLI uses: it loads
// sources and their syntax artifacts in parallel, feeds them to the
// single-threaded linker core, runs the pipeline to a requested stage,
// and aggregates diagnostics for rendering.
package driver

import (
	"context"
	"fmt"

	"sil/internal/diag"
	"sil/internal/linker"
	"sil/internal/source"
	"sil/internal/tree"
)

// Options configures one batch check. Passed explicitly; the driver
// keeps no process-global state.
type Options struct {
	// Stage stops the pipeline early; defaults to a full run.
	Stage linker.Stage
	// MaxDiagnostics caps the aggregated bag.
	MaxDiagnostics int
	// Cache optionally serves artifacts for unchanged sources.
	Cache *DiskCache
	// Progress receives stage events; may be nil.
	Progress ProgressSink
}

// DefaultMaxDiagnostics caps output when Options leaves it unset.
const DefaultMaxDiagnostics = 100

// FileEntry maps one loaded path to its linker file id.
type FileEntry struct {
	Path   string
	FileID source.FileID
}

// Result carries the artifacts of one batch check.
type Result struct {
	Linker *linker.Linker
	Files  []FileEntry
	Bag    *diag.Bag
}

// CheckDir compiles every *.sil file under dir up to the requested
// stage and returns the populated linker plus sorted diagnostics.
func CheckDir(ctx context.Context, dir string, opts *Options) (*Result, error) {
	if opts == nil {
		opts = &Options{Stage: linker.StageCodegen}
	}
	paths, err := ListSourceFiles(dir)
	if err != nil {
		return nil, fmt.Errorf("list sources: %w", err)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no .sil files under %s", dir)
	}
	for _, p := range paths {
		emit(opts.Progress, Event{File: p, Stage: StageLoad, Status: StatusQueued})
	}

	loaded, err := loadFiles(ctx, paths, opts.Cache, opts.Progress)
	if err != nil {
		return nil, err
	}
	return check(loaded, opts)
}

// CheckFiles compiles an explicit list of already-loaded (path, text,
// artifact) triples. Used by tests and by front ends that manage their
// own IO.
func CheckFiles(ctx context.Context, files []InputFile, opts *Options) (*Result, error) {
	if opts == nil {
		opts = &Options{Stage: linker.StageCodegen}
	}
	loaded := make([]loadedFile, 0, len(files))
	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		loaded = append(loaded, loadedFile{path: f.Path, text: f.Text, tree: f.Tree})
	}
	return check(loaded, opts)
}

// InputFile is one pre-loaded source for CheckFiles.
type InputFile struct {
	Path string
	Text []byte
	Tree *tree.File
}

func check(loaded []loadedFile, opts *Options) (*Result, error) {
	maxDiags := opts.MaxDiagnostics
	if maxDiags <= 0 {
		maxDiags = DefaultMaxDiagnostics
	}
	bag := diag.NewBag(maxDiags)

	l := linker.NewLinker()
	res := &Result{Linker: l, Bag: bag}

	for i := range loaded {
		lf := &loaded[i]
		emit(opts.Progress, Event{File: lf.path, Stage: StageLink, Status: StatusWorking})
		if lf.loadErr != nil {
			bag.Add(diag.NewError(diag.DrvLoadFileError, source.Span{File: source.NoFile}, lf.path+": "+lf.loadErr.Error()))
			emit(opts.Progress, Event{File: lf.path, Stage: StageLink, Status: StatusError, Err: lf.loadErr})
			continue
		}
		fileID := l.AddFile(lf.path, lf.text, lf.tree)
		res.Files = append(res.Files, FileEntry{Path: lf.path, FileID: fileID})
		emit(opts.Progress, Event{File: lf.path, Stage: StageLink, Status: StatusDone})
	}

	l.RecompileUpTo(opts.Stage, func(stage linker.Stage) {
		emit(opts.Progress, Event{Stage: Stage(stage.String()), Status: StatusWorking})
	})

	for _, f := range res.Files {
		l.CollectAllErrorsInFile(f.FileID, bag)
	}
	bag.Sort()
	bag.Dedup()
	return res, nil
}
