// Package report renders an analysis report and graph into a markdown
// document and a mermaid diagram.
package report

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/DeusData/code-context-graph/internal/analyze"
	"github.com/DeusData/code-context-graph/internal/graph"
)

// Options configures rendering.
type Options struct {
	// Title of the generated document. Empty means a default.
	Title string
	// MaxDiagramNodes caps the mermaid diagram size; 0 means 300.
	MaxDiagramNodes int
	// Now supplies the timestamp; nil means time.Now. Tests pin it.
	Now func() time.Time
}

const defaultMaxDiagramNodes = 300

// Markdown renders a project report: overview, per-file summary with TODO
// markers, an API listing from the graph, and the mermaid diagram. Either
// argument may be nil; the corresponding sections are omitted.
func Markdown(a *analyze.Report, g *graph.Graph, opts Options) string {
	now := time.Now
	if opts.Now != nil {
		now = opts.Now
	}
	title := opts.Title
	if title == "" {
		title = "Code Context Report"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", title)
	fmt.Fprintf(&b, "*Generated: %s*\n\n", now().UTC().Format(time.RFC3339))

	if a != nil {
		b.WriteString("## Overview\n\n")
		fmt.Fprintf(&b, "- Root path: `%s`\n", a.Path)
		fmt.Fprintf(&b, "- Files scanned: %d\n", a.Summary.Files)
		fmt.Fprintf(&b, "- Functions: %d, classes: %d\n", a.Summary.Functions, a.Summary.Classes)
		fmt.Fprintf(&b, "- TODO markers: %d\n\n", a.Summary.Todos)

		if a.Summary.Todos > 0 {
			b.WriteString("## TODOs\n\n")
			for _, f := range a.Files {
				for _, t := range f.Todos {
					fmt.Fprintf(&b, "- `%s:%d` %s\n", f.Path, t.Line, t.Text)
				}
			}
			b.WriteString("\n")
		}
	}

	if g != nil {
		writeAPISection(&b, g)
		b.WriteString("## Diagram\n\n")
		b.WriteString(Mermaid(g, opts.MaxDiagramNodes))
		b.WriteString("\n")
	}
	return b.String()
}

// writeAPISection lists defined functions and classes in qualified-name
// tables, sorted by node id.
func writeAPISection(b *strings.Builder, g *graph.Graph) {
	var funcs, classes []graph.Node
	for _, n := range g.Nodes {
		switch n.Kind {
		case graph.KindFunction:
			funcs = append(funcs, n)
		case graph.KindClass:
			classes = append(classes, n)
		}
	}
	sort.Slice(funcs, func(i, j int) bool { return funcs[i].ID < funcs[j].ID })
	sort.Slice(classes, func(i, j int) bool { return classes[i].ID < classes[j].ID })

	if len(funcs) == 0 && len(classes) == 0 {
		return
	}
	b.WriteString("## API Reference\n\n")
	if len(funcs) > 0 {
		b.WriteString("### Functions\n\n")
		b.WriteString("| Name | Module |\n|---|---|\n")
		for _, n := range funcs {
			fmt.Fprintf(b, "| `%s` | `%s` |\n", n.QualifiedName, n.Module)
		}
		b.WriteString("\n")
	}
	if len(classes) > 0 {
		b.WriteString("### Classes\n\n")
		b.WriteString("| Name | Module |\n|---|---|\n")
		for _, n := range classes {
			fmt.Fprintf(b, "| `%s` | `%s` |\n", n.QualifiedName, n.Module)
		}
		b.WriteString("\n")
	}
}

// idSanitizer rewrites the characters mermaid rejects in node identifiers.
var idSanitizer = strings.NewReplacer(":", "_", "/", "_", ".", "_", "-", "_")

// Mermaid renders the graph as a fenced `graph TD` mermaid block. Node ids
// are sanitized for mermaid; labels keep the original name with the kind in
// parentheses. maxNodes caps the node count (0 means 300); edges whose
// endpoints were cut are dropped so the diagram stays well-formed.
func Mermaid(g *graph.Graph, maxNodes int) string {
	if maxNodes <= 0 {
		maxNodes = defaultMaxDiagramNodes
	}

	var b strings.Builder
	b.WriteString("```mermaid\ngraph TD\n")

	kept := make(map[string]bool, len(g.Nodes))
	for i, n := range g.Nodes {
		if i >= maxNodes {
			break
		}
		kept[n.ID] = true
		label := n.Name
		if label == "" {
			label = n.ID
		}
		label = strings.ReplaceAll(label, `"`, "'")
		fmt.Fprintf(&b, "    %s[\"%s\\n(%s)\"]\n", idSanitizer.Replace(n.ID), label, n.Kind)
	}
	for _, e := range g.Edges {
		if !kept[e.FromID] || !kept[e.ToID] {
			continue
		}
		fmt.Fprintf(&b, "    %s -->|%s| %s\n",
			idSanitizer.Replace(e.FromID), e.Type, idSanitizer.Replace(e.ToID))
	}
	b.WriteString("```")
	return b.String()
}
