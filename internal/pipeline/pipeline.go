// Package pipeline builds the Code Context Graph: it parses source files,
// extracts function/class definitions, and emits defines, calls, inherits
// and instantiates edges with best-effort name resolution.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"unicode"
	"unicode/utf8"

	"golang.org/x/sync/errgroup"

	"github.com/DeusData/code-context-graph/internal/collect"
	"github.com/DeusData/code-context-graph/internal/graph"
)

// Options configures a build.
type Options struct {
	// Extensions restricts collection; empty means all supported source
	// extensions.
	Extensions []string
	// ExcludeDirs overrides the default directory exclusions when non-nil.
	ExcludeDirs map[string]bool
	// IgnoreFile is an optional ignore-pattern file path.
	IgnoreFile string
}

// Stats reports per-file degradation: skips are observable but never block
// the graph from materializing.
type Stats struct {
	FilesScanned int `json:"files_scanned"`
	FilesSkipped int `json:"files_skipped"`
}

// Build constructs a graph from every supported source file under root.
// Files are iterated in lexicographic path order so rebuilding from the
// same input yields the same node id set and edge multiset. The only error
// is an invalid root; individual files that fail to read or parse are
// skipped and counted in Stats.
func Build(ctx context.Context, root string, opts Options) (*graph.Graph, Stats, error) {
	var stats Stats

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, stats, err
	}
	info, err := os.Stat(absRoot)
	if err != nil {
		return nil, stats, fmt.Errorf("invalid analysis root %q: %w", root, err)
	}
	if !info.IsDir() {
		return nil, stats, fmt.Errorf("invalid analysis root %q: not a directory", root)
	}

	files, err := collect.Collect(ctx, absRoot, collect.Options{
		Extensions:  opts.Extensions,
		ExcludeDirs: opts.ExcludeDirs,
		IgnoreFile:  opts.IgnoreFile,
	})
	if err != nil {
		return nil, stats, err
	}

	// Only parseable source files feed the graph.
	var sources []collect.FileInfo
	for _, f := range files {
		if f.Language != "" {
			sources = append(sources, f)
		}
	}
	slog.Info("build.start", "root", absRoot, "files", len(sources))

	results, err := parseAll(ctx, absRoot, sources)
	if err != nil {
		return nil, stats, err
	}

	g := graph.New()
	ix := newNameIndex()

	// Pass 1: module nodes and definitions, in file sort order.
	for _, r := range results {
		if r.Err != nil {
			slog.Warn("parse.file.err", "path", r.File.RelPath, "err", r.Err)
			stats.FilesSkipped++
			continue
		}
		stats.FilesScanned++
		registerModule(g, ix, r)
	}

	// Pass 2: inheritance edges (base -> subclass).
	for _, r := range results {
		if r.Err != nil {
			continue
		}
		registerInherits(g, ix, r)
	}

	// Pass 3: call and instantiation edges.
	for _, r := range results {
		if r.Err != nil {
			continue
		}
		registerCalls(g, ix, r)
	}

	slog.Info("build.done", "nodes", len(g.Nodes), "edges", len(g.Edges),
		"scanned", stats.FilesScanned, "skipped", stats.FilesSkipped)
	return g, stats, nil
}

// parseAll parses files in parallel. Parsing is pure per file, so results
// can be produced in any order; the slice preserves the input's sorted
// order for deterministic merging.
func parseAll(ctx context.Context, root string, files []collect.FileInfo) ([]*fileSymbols, error) {
	results := make([]*fileSymbols, len(files))
	numWorkers := runtime.NumCPU()
	if numWorkers > len(files) {
		numWorkers = len(files)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(numWorkers)
	for i, f := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = parseFile(root, f)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// registerModule adds the file's module node (always, even with zero
// definitions) plus a node and defines edge for every definition.
func registerModule(g *graph.Graph, ix *nameIndex, r *fileSymbols) {
	moduleID := graph.ModuleNodeID(r.Module)
	moduleNode := graph.Node{
		ID:            moduleID,
		Kind:          graph.KindModule,
		Name:          r.Module,
		QualifiedName: r.Module,
		Module:        r.Module,
		SourceFile:    r.File.RelPath,
	}
	if g.AddNode(moduleNode) {
		ix.Add(moduleNode)
	}

	for _, d := range r.Defs {
		id := graph.FuncNodeID(d.Qualified)
		if d.Kind == graph.KindClass {
			id = graph.ClassNodeID(d.Qualified)
		}
		n := graph.Node{
			ID:            id,
			Kind:          d.Kind,
			Name:          d.Name,
			QualifiedName: d.Qualified,
			Module:        r.Module,
		}
		if g.AddNode(n) {
			ix.Add(n)
		}
		_ = g.AddEdge(graph.Edge{FromID: moduleID, ToID: id, Type: graph.EdgeDefines})
	}
}

// registerInherits emits an inherits edge for every declared base, from the
// base (resolved definition or lazily created placeholder) to the subclass.
func registerInherits(g *graph.Graph, ix *nameIndex, r *fileSymbols) {
	for _, d := range r.Defs {
		if d.Kind != graph.KindClass {
			continue
		}
		classID := graph.ClassNodeID(d.Qualified)
		for _, base := range d.Bases {
			res := ix.Resolve(base)
			baseID := res.NodeID
			if !res.Resolved() {
				baseID = graph.BaseNodeID(res.Name)
				placeholder := graph.Node{
					ID:   baseID,
					Kind: graph.KindBase,
					Name: res.Name,
				}
				if g.AddNode(placeholder) {
					ix.Add(placeholder)
				}
			}
			_ = g.AddEdge(graph.Edge{FromID: baseID, ToID: classID, Type: graph.EdgeInherits})
		}
	}
}

// registerCalls emits a calls edge per call site and, for capitalized
// targets, an instantiates edge. The capitalization rule is a constructor
// heuristic carried over from dynamic-language analysis, not type
// information; treat instantiates edges as approximate.
func registerCalls(g *graph.Graph, ix *nameIndex, r *fileSymbols) {
	moduleID := graph.ModuleNodeID(r.Module)
	for _, c := range r.Calls {
		fromID := c.OriginID
		if fromID == "" || !g.HasNode(fromID) {
			fromID = moduleID
		}

		res := ix.Resolve(c.Target)
		toID := res.NodeID
		if !res.Resolved() {
			toID = graph.UnresolvedFuncID(res.Name)
			placeholder := graph.Node{
				ID:   toID,
				Kind: graph.KindUnresolvedFunc,
				Name: res.Name,
			}
			if g.AddNode(placeholder) {
				ix.Add(placeholder)
			}
		}
		_ = g.AddEdge(graph.Edge{FromID: fromID, ToID: toID, Type: graph.EdgeCalls})

		if name := finalSegment(c.Target); startsUpper(name) {
			instID := toID
			if !res.Resolved() {
				instID = graph.UnresolvedClassID(name)
				placeholder := graph.Node{
					ID:   instID,
					Kind: graph.KindUnresolvedClass,
					Name: name,
				}
				if g.AddNode(placeholder) {
					ix.Add(placeholder)
				}
			}
			_ = g.AddEdge(graph.Edge{FromID: fromID, ToID: instID, Type: graph.EdgeInstantiates})
		}
	}
}

func startsUpper(s string) bool {
	r, _ := utf8.DecodeRuneInString(s)
	return unicode.IsUpper(r)
}
