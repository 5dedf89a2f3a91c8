package pipeline

import (
	"os"
	"path/filepath"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/DeusData/code-context-graph/internal/graph"
	"github.com/DeusData/code-context-graph/internal/lang"
	"github.com/DeusData/code-context-graph/internal/parser"
)

// Definition is a top-level symbol in a single file, as surfaced in
// analysis reports.
type Definition struct {
	Kind graph.Kind `json:"kind"`
	Name string     `json:"name"`
	Doc  string     `json:"doc,omitempty"`
}

// wrapperKinds are node kinds that enclose a definition without being one:
// the real definition is a direct child.
var wrapperKinds = map[string]bool{
	"decorated_definition": true, // Python decorators
	"export_statement":     true, // JS/TS export
	"type_declaration":     true, // Go: type_spec lives inside
	"lexical_declaration":  true, // JS/TS: const f = () => {}
	"variable_declaration": true,
	"variable_declarator":  true,
	"expression_statement": true,
	"assignment_statement": true, // Lua: f = function() end
	"local_declaration":    true,
}

// ExtractDefinitions lists the top-level function and class definitions in a
// single file, with documentation where present. Unsupported extensions and
// unreadable or unparsable files yield nil.
func ExtractDefinitions(path string) []Definition {
	spec := lang.ForExtension(filepath.Ext(path))
	if spec == nil {
		return nil
	}
	source, err := os.ReadFile(path)
	if err != nil {
		return nil
	}
	tree, err := parser.Parse(spec.Language, source)
	if err != nil {
		return nil
	}
	defer tree.Close()
	if tree.RootNode().HasError() {
		return nil
	}

	funcKinds := toSet(spec.FunctionNodeTypes)
	classKinds := toSet(spec.ClassNodeTypes)

	var defs []Definition
	var visit func(node *tree_sitter.Node, depth int)
	visit = func(node *tree_sitter.Node, depth int) {
		kind := node.Kind()
		switch {
		case funcKinds[kind] || classKinds[kind]:
			name := defName(node, source, spec.Language)
			if name == "" {
				return
			}
			k := graph.KindFunction
			if classKinds[kind] {
				k = graph.KindClass
			}
			defs = append(defs, Definition{
				Kind: k,
				Name: name,
				Doc:  extractDoc(node, source, spec.Language, spec),
			})
		case depth == 0 || wrapperKinds[kind]:
			for i := uint(0); i < node.ChildCount(); i++ {
				if child := node.Child(i); child != nil {
					visit(child, depth+1)
				}
			}
		}
	}
	visit(tree.RootNode(), 0)
	return defs
}
