package graph

import (
	"fmt"

	"github.com/DeusData/code-context-graph/internal/fqn"
)

// Kind classifies a graph node.
type Kind string

const (
	KindModule          Kind = "module"
	KindFunction        Kind = "function"
	KindClass           Kind = "class"
	KindBase            Kind = "base"
	KindUnresolvedFunc  Kind = "unresolved-function"
	KindUnresolvedClass Kind = "unresolved-class"
)

// EdgeType classifies a graph edge.
type EdgeType string

const (
	EdgeDefines      EdgeType = "defines"
	EdgeCalls        EdgeType = "calls"
	EdgeInherits     EdgeType = "inherits"
	EdgeInstantiates EdgeType = "instantiates"
)

// Node is a unit in the graph. IDs are namespaced by kind so a function and
// a class sharing a short name never collide.
type Node struct {
	ID            string `json:"id"`
	Kind          Kind   `json:"kind"`
	Name          string `json:"name"`
	QualifiedName string `json:"qualified_name"`
	Module        string `json:"module"`
	SourceFile    string `json:"source_file,omitempty"`
}

// Edge is a directed relation between two node ids. Edges form a multiset:
// repeated identical edges are kept, in insertion order.
type Edge struct {
	FromID string   `json:"from_id"`
	ToID   string   `json:"to_id"`
	Type   EdgeType `json:"type"`
}

// ModuleNodeID returns the id for a module node.
func ModuleNodeID(module string) string { return "module:" + module }

// FuncNodeID returns the id for a function node.
func FuncNodeID(qualified string) string { return "fn:" + qualified }

// ClassNodeID returns the id for a class node.
func ClassNodeID(qualified string) string { return "class:" + qualified }

// BaseNodeID returns the id for a base-class placeholder node.
func BaseNodeID(name string) string { return "base:" + name }

// UnresolvedFuncID returns the id for an unresolved call-target placeholder.
func UnresolvedFuncID(name string) string { return "unresolved-fn:" + name }

// UnresolvedClassID returns the id for an unresolved class placeholder.
func UnresolvedClassID(name string) string { return "unresolved-class:" + name }

// Graph is the Code Context Graph: an immutable-by-convention value built
// once from a file set and discarded after querying or rendering.
type Graph struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`

	byID map[string]int
}

// New returns an empty graph.
func New() *Graph {
	return &Graph{byID: make(map[string]int)}
}

// FromParts reconstructs a graph from serialized nodes and edges (e.g. after
// JSON decoding or a store load), validating that every edge endpoint exists.
func FromParts(nodes []Node, edges []Edge) (*Graph, error) {
	g := New()
	for _, n := range nodes {
		g.AddNode(n)
	}
	for _, e := range edges {
		if err := g.AddEdge(e); err != nil {
			return nil, err
		}
	}
	return g, nil
}

func (g *Graph) index() map[string]int {
	if g.byID == nil {
		g.byID = make(map[string]int, len(g.Nodes))
		for i, n := range g.Nodes {
			if _, ok := g.byID[n.ID]; !ok {
				g.byID[n.ID] = i
			}
		}
	}
	return g.byID
}

// AddNode registers a node. Re-adding an existing id is a no-op, so node
// identity is first-registration-wins. Reports whether the node was added.
func (g *Graph) AddNode(n Node) bool {
	idx := g.index()
	if _, ok := idx[n.ID]; ok {
		return false
	}
	idx[n.ID] = len(g.Nodes)
	g.Nodes = append(g.Nodes, n)
	return true
}

// AddEdge appends an edge. Both endpoints must already exist.
func (g *Graph) AddEdge(e Edge) error {
	idx := g.index()
	if _, ok := idx[e.FromID]; !ok {
		return fmt.Errorf("edge source not in graph: %s", e.FromID)
	}
	if _, ok := idx[e.ToID]; !ok {
		return fmt.Errorf("edge target not in graph: %s", e.ToID)
	}
	g.Edges = append(g.Edges, e)
	return nil
}

// NodeByID returns the node with the given id.
func (g *Graph) NodeByID(id string) (Node, bool) {
	if i, ok := g.index()[id]; ok {
		return g.Nodes[i], true
	}
	return Node{}, false
}

// HasNode reports whether a node id exists.
func (g *Graph) HasNode(id string) bool {
	_, ok := g.index()[id]
	return ok
}

// matches reports whether a node answers to the given name: its exact
// qualified name, its short name, or the trailing segment of its qualified
// name.
func (n Node) matches(name string) bool {
	if name == "" {
		return false
	}
	if n.QualifiedName == name || n.Name == name {
		return true
	}
	return fqn.ShortName(n.QualifiedName) == name
}
