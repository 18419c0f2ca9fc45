// Package project locates and parses sil.toml, the per-project
// manifest naming the package and its compile settings.
package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// ManifestName is the file looked up when resolving a project root.
const ManifestName = "sil.toml"

// Manifest is a located and parsed sil.toml.
type Manifest struct {
	Path   string
	Root   string
	Config Config
}

type Config struct {
	Package PackageConfig `toml:"package"`
	Compile CompileConfig `toml:"compile"`
}

type PackageConfig struct {
	Name string `toml:"name"`
	// Root is the source directory relative to the manifest; "." when
	// omitted.
	Root string `toml:"root"`
}

type CompileConfig struct {
	MaxDiagnostics int `toml:"max_diagnostics"`
	// Stage optionally stops the pipeline early; one of "flatten",
	// "typecheck", "lint", "instantiate".
	Stage string `toml:"stage"`
	// Color is "auto", "always" or "never".
	Color string `toml:"color"`
}

// FindManifest walks up from startDir to locate sil.toml.
func FindManifest(startDir string) (path string, ok bool, err error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, ManifestName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// Load finds and parses the manifest governing startDir. ok is false
// when no manifest exists between startDir and the filesystem root.
func Load(startDir string) (*Manifest, bool, error) {
	manifestPath, ok, err := FindManifest(startDir)
	if err != nil || !ok {
		return nil, ok, err
	}
	cfg, err := loadConfig(manifestPath)
	if err != nil {
		return nil, true, err
	}
	return &Manifest{
		Path:   manifestPath,
		Root:   filepath.Dir(manifestPath),
		Config: cfg,
	}, true, nil
}

func loadConfig(path string) (Config, error) {
	var cfg Config
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if !meta.IsDefined("package") {
		return Config{}, fmt.Errorf("%s: missing [package]", path)
	}
	if !meta.IsDefined("package", "name") || strings.TrimSpace(cfg.Package.Name) == "" {
		return Config{}, fmt.Errorf("%s: missing [package].name", path)
	}
	if cfg.Package.Root == "" {
		cfg.Package.Root = "."
	}
	if cfg.Compile.Color == "" {
		cfg.Compile.Color = "auto"
	}
	switch cfg.Compile.Color {
	case "auto", "always", "never":
	default:
		return Config{}, fmt.Errorf("%s: [compile].color must be auto, always or never", path)
	}
	if cfg.Compile.MaxDiagnostics < 0 {
		return Config{}, fmt.Errorf("%s: [compile].max_diagnostics must not be negative", path)
	}
	return cfg, nil
}

// SourceDir resolves the package source directory against the project
// root.
func (m *Manifest) SourceDir() string {
	return filepath.Join(m.Root, filepath.FromSlash(m.Config.Package.Root))
}
