package driver

import (
	"context"
	"crypto/sha256"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"sil/internal/tree"
)

// ArtifactSuffix is appended to a source path to locate its syntax
// artifact produced by the external parser toolchain.
const ArtifactSuffix = ".ast"

// loadedFile is one source file plus its decoded artifact, ready for
// registration with the linker.
type loadedFile struct {
	path    string
	text    []byte
	tree    *tree.File
	loadErr error
}

// ListSourceFiles returns every *.sil file under dir, sorted for a
// deterministic compilation order.
func ListSourceFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(path, ".sil") {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

// loadFiles reads sources and decodes artifacts in parallel. Results
// come back in input order; per-file failures are recorded on the entry
// rather than aborting the batch. Only the load is parallel; the
// linker itself is strictly single-threaded.
func loadFiles(ctx context.Context, paths []string, cache *DiskCache, sink ProgressSink) ([]loadedFile, error) {
	out := make([]loadedFile, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			emit(sink, Event{File: path, Stage: StageLoad, Status: StatusWorking})
			out[i] = loadOne(path, cache)
			status := StatusDone
			if out[i].loadErr != nil {
				status = StatusError
			}
			emit(sink, Event{File: path, Stage: StageLoad, Status: status, Err: out[i].loadErr})
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func loadOne(path string, cache *DiskCache) loadedFile {
	lf := loadedFile{path: path}

	text, err := os.ReadFile(path)
	if err != nil {
		lf.loadErr = fmt.Errorf("read source: %w", err)
		return lf
	}
	lf.text = text

	raw, err := readArtifact(path, text, cache)
	if err != nil {
		lf.loadErr = err
		return lf
	}
	t, err := tree.Decode(raw)
	if err != nil {
		lf.loadErr = err
		return lf
	}
	lf.tree = t
	return lf
}

// readArtifact prefers the artifact next to the source; when absent it
// falls back to the disk cache keyed by the source's content hash, and
// refreshes the cache after a successful filesystem read.
func readArtifact(path string, text []byte, cache *DiskCache) ([]byte, error) {
	key := sha256.Sum256(text)

	raw, err := os.ReadFile(path + ArtifactSuffix)
	if err == nil {
		// Cache write failures do not fail the load.
		_ = cache.Put(key, &ArtifactPayload{Path: path, Artifact: raw})
		return raw, nil
	}

	var payload ArtifactPayload
	if ok, cacheErr := cache.Get(key, &payload); cacheErr == nil && ok {
		return payload.Artifact, nil
	}
	return nil, fmt.Errorf("no syntax artifact for %s: %w", path, err)
}
