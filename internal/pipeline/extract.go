package pipeline

import (
	"errors"
	"os"
	"strings"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/DeusData/code-context-graph/internal/collect"
	"github.com/DeusData/code-context-graph/internal/fqn"
	"github.com/DeusData/code-context-graph/internal/graph"
	"github.com/DeusData/code-context-graph/internal/lang"
	"github.com/DeusData/code-context-graph/internal/parser"
)

// symbolDef is one function/class definition found in a file, in walk order.
type symbolDef struct {
	Kind      graph.Kind // KindFunction or KindClass
	Name      string
	Qualified string
	Doc       string
	Bases     []string // class base types, best-effort names
}

// callSite is one call expression found in a file, attributed to the nearest
// enclosing definition.
type callSite struct {
	// OriginID is the node id of the nearest enclosing function or class;
	// "" when the call occurs at module scope.
	OriginID string
	// Target is the best-effort callee name (full dotted form when the call
	// is an attribute access).
	Target string
}

// fileSymbols holds the pure parse output for one file. No shared state:
// results from parallel parses merge deterministically in file sort order.
type fileSymbols struct {
	File   collect.FileInfo
	Module string
	Defs   []symbolDef
	Calls  []callSite
	Err    error // read or parse failure; the file contributes nothing
}

// errSyntax marks a file whose tree contains ERROR nodes. Tree-sitter
// recovers and returns a partial tree for broken input, so the error check
// is explicit; a broken file must contribute nothing, not garbage symbols.
var errSyntax = errors.New("source contains syntax errors")

// parseFile reads and parses one file and extracts its definitions and call
// sites. Failures are recorded on the result, never returned: a bad file
// degrades to a skip.
func parseFile(root string, f collect.FileInfo) *fileSymbols {
	out := &fileSymbols{File: f, Module: fqn.ModuleID(root, f.Path)}

	source, err := os.ReadFile(f.Path)
	if err != nil {
		out.Err = err
		return out
	}
	tree, err := parser.Parse(f.Language, source)
	if err != nil {
		out.Err = err
		return out
	}
	defer tree.Close()
	if tree.RootNode().HasError() {
		out.Err = errSyntax
		return out
	}

	spec := lang.ForLanguage(f.Language)
	if spec == nil {
		return out
	}

	w := &defWalker{
		source: source,
		spec:   spec,
		lang:   f.Language,
		module: out.Module,
		out:    out,
	}
	w.walk(tree.RootNode(), nil)
	return out
}

// defWalker traverses a syntax tree tracking the lexical stack of enclosing
// definitions. The stack is passed explicitly through walk, not kept as
// mutable visitor state.
type defWalker struct {
	source []byte
	spec   *lang.LanguageSpec
	lang   lang.Language
	module string
	out    *fileSymbols

	funcKinds  map[string]bool
	classKinds map[string]bool
	callKinds  map[string]bool
}

// stackEntry is one enclosing definition on the lexical stack.
type stackEntry struct {
	Name string
	Kind graph.Kind
}

func (w *defWalker) kinds() {
	if w.funcKinds == nil {
		w.funcKinds = toSet(w.spec.FunctionNodeTypes)
		w.classKinds = toSet(w.spec.ClassNodeTypes)
		w.callKinds = toSet(w.spec.CallNodeTypes)
	}
}

func (w *defWalker) walk(node *tree_sitter.Node, stack []stackEntry) {
	w.kinds()

	kind := node.Kind()
	switch {
	case w.funcKinds[kind]:
		w.visitDef(node, stack, graph.KindFunction)
		return
	case w.classKinds[kind]:
		w.visitDef(node, stack, graph.KindClass)
		return
	case w.callKinds[kind]:
		w.visitCall(node, stack)
		// keep walking: call arguments may contain nested calls or defs
	}

	for i := uint(0); i < node.ChildCount(); i++ {
		if child := node.Child(i); child != nil {
			w.walk(child, stack)
		}
	}
}

// visitDef registers a function/class definition and recurses into its body
// with the definition pushed onto the lexical stack. Anonymous definitions
// (lambdas, arrow functions bound to nothing) are transparent: their bodies
// are walked with the enclosing stack unchanged.
func (w *defWalker) visitDef(node *tree_sitter.Node, stack []stackEntry, kind graph.Kind) {
	name := defName(node, w.source, w.lang)
	if name == "" {
		for i := uint(0); i < node.ChildCount(); i++ {
			if child := node.Child(i); child != nil {
				w.walk(child, stack)
			}
		}
		return
	}

	enclosing := make([]string, len(stack))
	for i, e := range stack {
		enclosing[i] = e.Name
	}
	qualified := fqn.Qualified(w.module, enclosing, name)

	def := symbolDef{
		Kind:      kind,
		Name:      name,
		Qualified: qualified,
		Doc:       extractDoc(node, w.source, w.lang, w.spec),
	}
	if kind == graph.KindClass {
		def.Bases = extractBases(node, w.source, w.lang)
	}
	w.out.Defs = append(w.out.Defs, def)

	child := append(append([]stackEntry{}, stack...), stackEntry{Name: name, Kind: kind})
	for i := uint(0); i < node.ChildCount(); i++ {
		if c := node.Child(i); c != nil {
			w.walk(c, child)
		}
	}
}

// visitCall records a call site attributed to the nearest enclosing
// definition, then walks the call's children for nested calls.
func (w *defWalker) visitCall(node *tree_sitter.Node, stack []stackEntry) {
	target := calleeName(node, w.source, w.lang)
	if target != "" {
		w.out.Calls = append(w.out.Calls, callSite{
			OriginID: originID(w.module, stack),
			Target:   target,
		})
	}
	for i := uint(0); i < node.ChildCount(); i++ {
		if child := node.Child(i); child != nil {
			w.walk(child, stack)
		}
	}
}

// originID computes the node id of the nearest enclosing definition, or ""
// for module scope.
func originID(module string, stack []stackEntry) string {
	if len(stack) == 0 {
		return ""
	}
	names := make([]string, len(stack)-1)
	for i := 0; i < len(stack)-1; i++ {
		names[i] = stack[i].Name
	}
	top := stack[len(stack)-1]
	qualified := fqn.Qualified(module, names, top.Name)
	if top.Kind == graph.KindClass {
		return graph.ClassNodeID(qualified)
	}
	return graph.FuncNodeID(qualified)
}

// defName resolves the declared name of a function/class node, handling the
// language quirks where the name lives outside the definition node.
func defName(node *tree_sitter.Node, source []byte, l lang.Language) string {
	if nameNode := node.ChildByFieldName("name"); nameNode != nil {
		return parser.NodeText(nameNode, source)
	}

	// JS/TS/TSX: const f = () => {} — name on the parent variable_declarator.
	if node.Kind() == "arrow_function" || node.Kind() == "function_expression" {
		if p := node.Parent(); p != nil && p.Kind() == "variable_declarator" {
			if nameNode := p.ChildByFieldName("name"); nameNode != nil {
				return parser.NodeText(nameNode, source)
			}
		}
	}

	// Lua: local f = function() end
	if l == lang.Lua && node.Kind() == "function_definition" {
		if p := node.Parent(); p != nil && p.Kind() == "assignment_statement" {
			if left := parser.FindChildByKind(p, "variable_list"); left != nil {
				return parser.NodeText(left, source)
			}
		}
	}

	return ""
}

// calleeName extracts a best-effort name for a call expression's target:
// a simple identifier, or the full dotted path for attribute-style calls.
func calleeName(node *tree_sitter.Node, source []byte, l lang.Language) string {
	if funcNode := node.ChildByFieldName("function"); funcNode != nil {
		switch funcNode.Kind() {
		case "identifier", "simple_identifier",
			"attribute", "member_expression", "selector_expression",
			"field_expression", "scoped_identifier":
			return parser.NodeText(funcNode, source)
		}
		return ""
	}

	// Java method_invocation, object_creation_expression
	if nameNode := node.ChildByFieldName("name"); nameNode != nil {
		return parser.NodeText(nameNode, source)
	}
	if typeNode := node.ChildByFieldName("type"); typeNode != nil {
		return parser.NodeText(typeNode, source)
	}

	// JS/TS new_expression
	if ctorNode := node.ChildByFieldName("constructor"); ctorNode != nil {
		return parser.NodeText(ctorNode, source)
	}

	// PHP object_creation_expression carries the class name as a bare child.
	if l == lang.PHP && node.Kind() == "object_creation_expression" {
		for i := uint(0); i < node.NamedChildCount(); i++ {
			child := node.NamedChild(i)
			if child == nil {
				continue
			}
			switch child.Kind() {
			case "name", "qualified_name", "variable_name":
				return parser.NodeText(child, source)
			}
		}
	}

	// Kotlin call_expression: first named child carries the callee
	if l == lang.Kotlin {
		if first := node.NamedChild(0); first != nil {
			switch first.Kind() {
			case "identifier", "simple_identifier", "navigation_expression":
				return parser.NodeText(first, source)
			}
		}
	}

	// Lua function_call: name field absent, prefix child carries the callee
	if l == lang.Lua {
		if first := node.NamedChild(0); first != nil {
			switch first.Kind() {
			case "identifier", "variable", "dot_index_expression", "method_index_expression":
				return parser.NodeText(first, source)
			}
		}
	}

	return ""
}

// finalSegment reduces a dotted callee name to its final attribute component.
func finalSegment(name string) string {
	if i := strings.LastIndex(name, "."); i >= 0 {
		return name[i+1:]
	}
	return name
}

func toSet(items []string) map[string]bool {
	set := make(map[string]bool, len(items))
	for _, s := range items {
		set[s] = true
	}
	return set
}
