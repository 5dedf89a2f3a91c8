package graph

import "sort"

// CallersOf returns the ids of nodes with a calls edge into any node
// matching name. Results are unique and sorted lexicographically by id,
// regardless of edge insertion order.
func CallersOf(g *Graph, name string) []string {
	targets := matchingIDs(g, name)
	out := map[string]bool{}
	for _, e := range g.Edges {
		if e.Type == EdgeCalls && targets[e.ToID] {
			out[e.FromID] = true
		}
	}
	return sortedIDs(out)
}

// CalleesOf returns the ids of nodes any matching node calls.
func CalleesOf(g *Graph, name string) []string {
	sources := matchingIDs(g, name)
	out := map[string]bool{}
	for _, e := range g.Edges {
		if e.Type == EdgeCalls && sources[e.FromID] {
			out[e.ToID] = true
		}
	}
	return sortedIDs(out)
}

// SubclassesOf returns the ids of classes that extend any node matching
// name, following inherits edges in their base-to-subclass direction.
func SubclassesOf(g *Graph, name string) []string {
	bases := matchingIDs(g, name)
	out := map[string]bool{}
	for _, e := range g.Edges {
		if e.Type == EdgeInherits && bases[e.FromID] {
			out[e.ToID] = true
		}
	}
	return sortedIDs(out)
}

func matchingIDs(g *Graph, name string) map[string]bool {
	ids := map[string]bool{}
	for _, n := range g.Nodes {
		if n.matches(name) {
			ids[n.ID] = true
		}
	}
	return ids
}

func sortedIDs(set map[string]bool) []string {
	ids := make([]string, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
