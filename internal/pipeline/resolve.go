package pipeline

import "github.com/DeusData/code-context-graph/internal/graph"

// resolution is the tagged outcome of resolving a reference by name:
// either a node id, or the best-effort name that matched nothing. Keeping
// the ambiguity explicit lets callers decide how to synthesize placeholders
// and makes the policy testable in isolation.
type resolution struct {
	NodeID string // set when resolved
	Name   string // final-segment name when unresolved
}

func (r resolution) Resolved() bool { return r.NodeID != "" }

// nameIndex maps short and qualified names to node ids in insertion order.
// First match by insertion order wins, which keeps ties deterministic.
type nameIndex struct {
	byName  map[string][]string
	byQName map[string][]string
}

func newNameIndex() *nameIndex {
	return &nameIndex{
		byName:  make(map[string][]string),
		byQName: make(map[string][]string),
	}
}

// Add indexes a node under its short name and qualified name.
func (ix *nameIndex) Add(n graph.Node) {
	if n.Name != "" {
		ix.byName[n.Name] = append(ix.byName[n.Name], n.ID)
	}
	if n.QualifiedName != "" && n.QualifiedName != n.Name {
		ix.byQName[n.QualifiedName] = append(ix.byQName[n.QualifiedName], n.ID)
	}
}

// Resolve matches a best-effort reference name against known nodes.
// Policy: exact qualified name, then exact short name, then — for dotted
// references — the final attribute component. Full-path matching is
// preferred over last-segment fallback.
func (ix *nameIndex) Resolve(name string) resolution {
	if ids := ix.byQName[name]; len(ids) > 0 {
		return resolution{NodeID: ids[0]}
	}
	if ids := ix.byName[name]; len(ids) > 0 {
		return resolution{NodeID: ids[0]}
	}
	if last := finalSegment(name); last != name {
		if ids := ix.byQName[last]; len(ids) > 0 {
			return resolution{NodeID: ids[0]}
		}
		if ids := ix.byName[last]; len(ids) > 0 {
			return resolution{NodeID: ids[0]}
		}
		return resolution{Name: last}
	}
	return resolution{Name: name}
}
