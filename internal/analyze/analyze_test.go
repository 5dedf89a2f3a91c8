package analyze

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
}

func TestAnalyze(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "app.py"), `# TODO: add retries
def fetch():
    pass

class Client:
    pass
`)
	writeFile(t, filepath.Join(dir, "NOTES.md"), "todo: write docs\nnothing here\n")

	rep, err := Analyze(context.Background(), dir, Options{})
	if err != nil {
		t.Fatal(err)
	}

	if rep.Summary.Files != 2 {
		t.Errorf("files = %d, want 2", rep.Summary.Files)
	}
	if rep.Summary.Todos != 2 {
		t.Errorf("todos = %d, want 2", rep.Summary.Todos)
	}
	if rep.Summary.Functions != 1 || rep.Summary.Classes != 1 {
		t.Errorf("summary = %+v", rep.Summary)
	}

	byPath := map[string]FileReport{}
	for _, f := range rep.Files {
		byPath[f.Path] = f
	}

	py := byPath["app.py"]
	if len(py.Todos) != 1 || py.Todos[0].Line != 1 || py.Todos[0].Text != "add retries" {
		t.Errorf("app.py todos = %+v", py.Todos)
	}
	if len(py.Definitions) != 2 {
		t.Errorf("app.py defs = %+v", py.Definitions)
	}
	if py.Hash == "" || len(py.Hash) != 16 {
		t.Errorf("app.py hash = %q", py.Hash)
	}

	md := byPath["NOTES.md"]
	if len(md.Todos) != 1 || md.Todos[0].Text != "write docs" {
		t.Errorf("NOTES.md todos = %+v (marker match is case-insensitive)", md.Todos)
	}
	if md.Definitions != nil {
		t.Errorf("doc file grew definitions: %+v", md.Definitions)
	}
}

func TestAnalyzeInvalidRoot(t *testing.T) {
	if _, err := Analyze(context.Background(), filepath.Join(t.TempDir(), "nope"), Options{}); err == nil {
		t.Fatal("expected error for missing root")
	}
}

func TestAnalyzeHashChangesWithContent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.py")
	writeFile(t, path, "x = 1\n")

	rep1, err := Analyze(context.Background(), dir, Options{})
	if err != nil {
		t.Fatal(err)
	}
	writeFile(t, path, "x = 2\n")
	rep2, err := Analyze(context.Background(), dir, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if rep1.Files[0].Hash == rep2.Files[0].Hash {
		t.Error("hash unchanged after content change")
	}
}

func TestScanTodos(t *testing.T) {
	todos := scanTodos([]byte("a\n// TODO fix this\nplain todo\nTODOS is not a marker\n"))
	if len(todos) != 2 {
		t.Fatalf("todos = %+v", todos)
	}
	if todos[0].Line != 2 || todos[0].Text != "fix this" {
		t.Errorf("todos[0] = %+v", todos[0])
	}
	if todos[1].Line != 3 || todos[1].Text != "" {
		t.Errorf("todos[1] = %+v", todos[1])
	}
}
