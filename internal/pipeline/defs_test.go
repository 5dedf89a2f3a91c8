package pipeline

import (
	"path/filepath"
	"testing"

	"github.com/DeusData/code-context-graph/internal/graph"
)

func TestExtractDefinitionsPython(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "svc.py")
	writeFile(t, path, `"""Module docstring."""

def fetch(url):
    """Fetch a URL.

    Retries are the caller's problem.
    """
    pass

class Client:
    """HTTP client wrapper."""

    def _request(self):
        pass

async def poll():
    pass
`)

	defs := ExtractDefinitions(path)
	if len(defs) != 3 {
		t.Fatalf("defs = %+v, want fetch, Client, poll", defs)
	}

	if defs[0].Name != "fetch" || defs[0].Kind != graph.KindFunction {
		t.Errorf("defs[0] = %+v", defs[0])
	}
	if want := "Fetch a URL.\n\nRetries are the caller's problem."; defs[0].Doc != want {
		t.Errorf("fetch doc = %q, want %q", defs[0].Doc, want)
	}
	if defs[1].Name != "Client" || defs[1].Kind != graph.KindClass {
		t.Errorf("defs[1] = %+v", defs[1])
	}
	if defs[1].Doc != "HTTP client wrapper." {
		t.Errorf("Client doc = %q", defs[1].Doc)
	}
	// _request is a method, not top-level.
	for _, d := range defs {
		if d.Name == "_request" {
			t.Error("nested method leaked into top-level defs")
		}
	}
}

func TestExtractDefinitionsGoComments(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "svc.go")
	writeFile(t, path, `package svc

// Fetch retrieves a resource.
// It returns the raw body.
func Fetch(url string) ([]byte, error) {
	return nil, nil
}

func undocumented() {}
`)

	defs := ExtractDefinitions(path)
	if len(defs) != 2 {
		t.Fatalf("defs = %+v", defs)
	}
	if want := "Fetch retrieves a resource.\nIt returns the raw body."; defs[0].Doc != want {
		t.Errorf("Fetch doc = %q, want %q", defs[0].Doc, want)
	}
	if defs[1].Doc != "" {
		t.Errorf("undocumented doc = %q, want empty", defs[1].Doc)
	}
}

func TestExtractDefinitionsJavaScriptWrappers(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "app.js")
	writeFile(t, path, `export function handler(req) {}

export class Router {}

const helper = (x) => x + 1;
`)

	defs := ExtractDefinitions(path)
	names := map[string]graph.Kind{}
	for _, d := range defs {
		names[d.Name] = d.Kind
	}
	if names["handler"] != graph.KindFunction {
		t.Errorf("handler missing from %+v", defs)
	}
	if names["Router"] != graph.KindClass {
		t.Errorf("Router missing from %+v", defs)
	}
	if names["helper"] != graph.KindFunction {
		t.Errorf("arrow function helper missing from %+v", defs)
	}
}

func TestExtractDefinitionsUnsupported(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "notes.txt")
	writeFile(t, path, "just text\n")

	if defs := ExtractDefinitions(path); defs != nil {
		t.Errorf("unsupported extension: defs = %+v, want nil", defs)
	}
	if defs := ExtractDefinitions(filepath.Join(dir, "missing.py")); defs != nil {
		t.Errorf("missing file: defs = %+v, want nil", defs)
	}
}

func TestExtractDefinitionsSyntaxError(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "broken.py")
	writeFile(t, path, "def valid_looking():\n    pass\n\ndef (((:\n")

	if defs := ExtractDefinitions(path); defs != nil {
		t.Errorf("broken file: defs = %+v, want nil", defs)
	}
}
