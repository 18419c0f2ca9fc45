package project

import (
	"os"
	"path/filepath"
	"testing"
)

func writeManifest(t *testing.T, dir, body string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, ManifestName), []byte(body), 0o644); err != nil {
		t.Fatalf("write manifest: %v", err)
	}
}

func TestLoadFromNestedDir(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, root, `
[package]
name = "chip"
root = "rtl"

[compile]
max_diagnostics = 20
stage = "typecheck"
`)
	nested := filepath.Join(root, "rtl", "cpu")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	m, ok, err := Load(nested)
	if err != nil || !ok {
		t.Fatalf("Load: ok=%v err=%v", ok, err)
	}
	if m.Config.Package.Name != "chip" {
		t.Fatalf("name = %q", m.Config.Package.Name)
	}
	if m.Config.Compile.MaxDiagnostics != 20 {
		t.Fatalf("max_diagnostics = %d", m.Config.Compile.MaxDiagnostics)
	}
	if m.Config.Compile.Stage != "typecheck" {
		t.Fatalf("stage = %q", m.Config.Compile.Stage)
	}
	if got, want := m.SourceDir(), filepath.Join(root, "rtl"); got != want {
		t.Fatalf("SourceDir = %q, want %q", got, want)
	}
}

func TestLoadDefaults(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, root, "[package]\nname = \"chip\"\n")

	m, ok, err := Load(root)
	if err != nil || !ok {
		t.Fatalf("Load: ok=%v err=%v", ok, err)
	}
	if m.Config.Package.Root != "." {
		t.Fatalf("root default = %q", m.Config.Package.Root)
	}
	if m.Config.Compile.Color != "auto" {
		t.Fatalf("color default = %q", m.Config.Compile.Color)
	}
}

func TestLoadRejectsBadManifest(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"missing package", "[compile]\nmax_diagnostics = 5\n"},
		{"missing name", "[package]\nroot = \".\"\n"},
		{"blank name", "[package]\nname = \"  \"\n"},
		{"bad color", "[package]\nname = \"chip\"\n[compile]\ncolor = \"sometimes\"\n"},
		{"negative cap", "[package]\nname = \"chip\"\n[compile]\nmax_diagnostics = -1\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			root := t.TempDir()
			writeManifest(t, root, tc.body)
			if _, _, err := Load(root); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}

func TestLoadNoManifest(t *testing.T) {
	_, ok, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if ok {
		t.Fatalf("unexpected manifest found")
	}
}
