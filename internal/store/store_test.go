package store

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/DeusData/code-context-graph/internal/graph"
	"github.com/DeusData/code-context-graph/internal/pipeline"
)

func testGraph(t *testing.T) *graph.Graph {
	t.Helper()
	g, err := graph.FromParts(
		[]graph.Node{
			{ID: "module:app", Kind: graph.KindModule, Name: "app", QualifiedName: "app", SourceFile: "app.py"},
			{ID: "fn:app::foo", Kind: graph.KindFunction, Name: "foo", QualifiedName: "app::foo", Module: "app"},
			{ID: "fn:app::caller", Kind: graph.KindFunction, Name: "caller", QualifiedName: "app::caller", Module: "app"},
			{ID: "unresolved-fn:get", Kind: graph.KindUnresolvedFunc, Name: "get"},
		},
		[]graph.Edge{
			{FromID: "module:app", ToID: "fn:app::foo", Type: graph.EdgeDefines},
			{FromID: "module:app", ToID: "fn:app::caller", Type: graph.EdgeDefines},
			{FromID: "fn:app::caller", ToID: "fn:app::foo", Type: graph.EdgeCalls},
			// duplicate on purpose: the edge multiset must survive storage
			{FromID: "fn:app::caller", ToID: "fn:app::foo", Type: graph.EdgeCalls},
			{FromID: "fn:app::caller", ToID: "unresolved-fn:get", Type: graph.EdgeCalls},
		},
	)
	if err != nil {
		t.Fatal(err)
	}
	return g
}

func TestSaveLoadRoundTrip(t *testing.T) {
	s, err := OpenMemory()
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	g := testGraph(t)
	stats := pipeline.Stats{FilesScanned: 3, FilesSkipped: 1}
	if err := s.Save("demo", "/repo/demo", g, stats); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, info, err := s.Load("demo")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if info.RootPath != "/repo/demo" || info.FilesScanned != 3 || info.FilesSkipped != 1 {
		t.Errorf("info = %+v", info)
	}

	want, _ := json.Marshal(g)
	got, _ := json.Marshal(loaded)
	if string(got) != string(want) {
		t.Errorf("round trip mismatch:\n%s\n%s", got, want)
	}
}

func TestSaveReplacesPreviousBuild(t *testing.T) {
	s, err := OpenMemory()
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	if err := s.Save("demo", "/repo", testGraph(t), pipeline.Stats{}); err != nil {
		t.Fatal(err)
	}

	small := graph.New()
	small.AddNode(graph.Node{ID: "module:only", Kind: graph.KindModule, Name: "only"})
	if err := s.Save("demo", "/repo", small, pipeline.Stats{FilesScanned: 1}); err != nil {
		t.Fatal(err)
	}

	loaded, info, err := s.Load("demo")
	if err != nil {
		t.Fatal(err)
	}
	if len(loaded.Nodes) != 1 || len(loaded.Edges) != 0 {
		t.Errorf("stale rows survived: %d nodes, %d edges", len(loaded.Nodes), len(loaded.Edges))
	}
	if info.FilesScanned != 1 {
		t.Errorf("info = %+v", info)
	}
}

func TestLoadUnknownProject(t *testing.T) {
	s, err := OpenMemory()
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	if _, _, err := s.Load("nope"); err == nil {
		t.Fatal("expected error for unknown project")
	}
}

func TestProjectsAndDelete(t *testing.T) {
	s, err := OpenMemory()
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	if err := s.Save("a", "/ra", testGraph(t), pipeline.Stats{}); err != nil {
		t.Fatal(err)
	}
	if err := s.Save("b", "/rb", graph.New(), pipeline.Stats{}); err != nil {
		t.Fatal(err)
	}

	projects, err := s.Projects()
	if err != nil {
		t.Fatal(err)
	}
	if len(projects) != 2 {
		t.Fatalf("projects = %+v", projects)
	}

	if err := s.DeleteProject("a"); err != nil {
		t.Fatal(err)
	}
	projects, err = s.Projects()
	if err != nil {
		t.Fatal(err)
	}
	if len(projects) != 1 || projects[0].Name != "b" {
		t.Errorf("projects after delete = %+v", projects)
	}
	if _, _, err := s.Load("a"); err == nil {
		t.Error("deleted project still loads")
	}
}

func TestOpenPathPersists(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "graphs.db")

	s, err := OpenPath(dbPath)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Save("demo", "/repo", testGraph(t), pipeline.Stats{}); err != nil {
		t.Fatal(err)
	}
	s.Close()

	s2, err := OpenPath(dbPath)
	if err != nil {
		t.Fatal(err)
	}
	defer s2.Close()
	loaded, _, err := s2.Load("demo")
	if err != nil {
		t.Fatalf("Load after reopen: %v", err)
	}
	if len(loaded.Nodes) != 4 {
		t.Errorf("nodes = %d, want 4", len(loaded.Nodes))
	}
}
