package tools

import (
	"strings"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/DeusData/code-context-graph/internal/graph"
	"github.com/DeusData/code-context-graph/internal/pipeline"
	"github.com/DeusData/code-context-graph/internal/store"
)

func testServer(t *testing.T) *Server {
	t.Helper()
	st, err := store.OpenMemory()
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { st.Close() })
	return NewServer(st)
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	if len(res.Content) == 0 {
		t.Fatal("result has no content")
	}
	tc, ok := res.Content[0].(*mcp.TextContent)
	if !ok {
		t.Fatalf("content = %T, want *mcp.TextContent", res.Content[0])
	}
	return tc.Text
}

func TestDeleteProject(t *testing.T) {
	srv := testServer(t)

	g := graph.New()
	g.AddNode(graph.Node{ID: "module:app", Kind: graph.KindModule, Name: "app", QualifiedName: "app"})
	if err := srv.store.Save("demo", "/repo/demo", g, pipeline.Stats{FilesScanned: 1}); err != nil {
		t.Fatal(err)
	}

	res := srv.deleteProject("demo")
	if res.IsError {
		t.Fatalf("delete failed: %s", resultText(t, res))
	}
	if !strings.Contains(resultText(t, res), `"deleted"`) {
		t.Errorf("result = %s", resultText(t, res))
	}
	if _, _, err := srv.store.Load("demo"); err == nil {
		t.Error("deleted project still loads")
	}
}

func TestDeleteProjectUnknown(t *testing.T) {
	srv := testServer(t)

	res := srv.deleteProject("nope")
	if !res.IsError {
		t.Fatal("expected error for unknown project")
	}
}

func TestDeleteProjectEmptyName(t *testing.T) {
	srv := testServer(t)

	res := srv.deleteProject("")
	if !res.IsError {
		t.Fatal("expected error for empty project name")
	}
	if !strings.Contains(resultText(t, res), "required") {
		t.Errorf("result = %s", resultText(t, res))
	}
}

func TestGetArgs(t *testing.T) {
	args := map[string]any{"name": "foo", "max_nodes": float64(50)}

	if got := getStringArg(args, "name"); got != "foo" {
		t.Errorf("getStringArg = %q", got)
	}
	if got := getStringArg(args, "missing"); got != "" {
		t.Errorf("getStringArg missing = %q", got)
	}
	if got := getIntArg(args, "max_nodes", 300); got != 50 {
		t.Errorf("getIntArg = %d", got)
	}
	if got := getIntArg(args, "missing", 300); got != 300 {
		t.Errorf("getIntArg default = %d", got)
	}
}
