package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".ccg.yaml")
	writeFile(t, path, `extensions:
  - .py
  - .go
exclude_dirs:
  - generated
  - third_party
ignore_file: .myignore
report:
  title: My Project
  max_diagram_nodes: 50
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(cfg.Extensions) != 2 || cfg.Extensions[0] != ".py" {
		t.Errorf("extensions = %v", cfg.Extensions)
	}
	if cfg.IgnoreFile != ".myignore" {
		t.Errorf("ignore_file = %q", cfg.IgnoreFile)
	}
	if cfg.Report.Title != "My Project" || cfg.Report.MaxDiagramNodes != 50 {
		t.Errorf("report = %+v", cfg.Report)
	}

	set := cfg.ExcludeDirSet()
	if !set["generated"] || !set["third_party"] || len(set) != 2 {
		t.Errorf("exclude set = %v", set)
	}
}

func TestLoadInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".ccg.yaml")
	writeFile(t, path, "extensions: [unclosed\n")
	if _, err := Load(path); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestLoadFromRootMissingFile(t *testing.T) {
	cfg, err := LoadFromRoot(t.TempDir())
	if err != nil {
		t.Fatalf("missing config should not error: %v", err)
	}
	if len(cfg.Extensions) != 0 || cfg.ExcludeDirSet() != nil {
		t.Errorf("cfg = %+v, want zero value", cfg)
	}
}

func TestLoadFromRoot(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, DefaultFileName), "extensions: [.py]\n")

	cfg, err := LoadFromRoot(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(cfg.Extensions) != 1 || cfg.Extensions[0] != ".py" {
		t.Errorf("extensions = %v", cfg.Extensions)
	}
}
