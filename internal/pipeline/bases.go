package pipeline

import (
	"strings"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/DeusData/code-context-graph/internal/lang"
	"github.com/DeusData/code-context-graph/internal/parser"
)

// extractBases returns the declared base-type names of a class definition.
// Dotted/attribute forms are kept whole; resolution decides later whether to
// match the full path or the final component. Languages without class
// inheritance return nil.
func extractBases(node *tree_sitter.Node, source []byte, l lang.Language) []string {
	switch l {
	case lang.Python:
		return pythonBases(node, source)
	case lang.JavaScript, lang.TypeScript, lang.TSX:
		return heritageBases(node, source)
	case lang.Java:
		return javaBases(node, source)
	case lang.CPP:
		return cppBases(node, source)
	case lang.CSharp:
		return csharpBases(node, source)
	case lang.PHP:
		return phpBases(node, source)
	case lang.Scala:
		return scalaBases(node, source)
	case lang.Kotlin:
		return kotlinBases(node, source)
	}
	// Go, Rust, Lua: no class inheritance in the graph's sense.
	return nil
}

func pythonBases(node *tree_sitter.Node, source []byte) []string {
	superNode := node.ChildByFieldName("superclasses")
	if superNode == nil {
		return nil
	}
	var bases []string
	for i := uint(0); i < superNode.NamedChildCount(); i++ {
		child := superNode.NamedChild(i)
		if child == nil || child.Kind() == "keyword_argument" {
			continue
		}
		if name := parser.NodeText(child, source); name != "" {
			bases = append(bases, name)
		}
	}
	return bases
}

// heritageBases handles JS/TS class_heritage: extends clauses wrap the base
// in TS, while JS puts a bare identifier directly under the heritage node.
func heritageBases(node *tree_sitter.Node, source []byte) []string {
	var bases []string
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		if child == nil || child.Kind() != "class_heritage" {
			continue
		}
		for j := uint(0); j < child.ChildCount(); j++ {
			h := child.Child(j)
			if h == nil {
				continue
			}
			switch h.Kind() {
			case "extends_clause":
				if v := h.ChildByFieldName("value"); v != nil {
					if name := parser.NodeText(v, source); name != "" {
						bases = append(bases, name)
					}
					continue
				}
				for k := uint(0); k < h.NamedChildCount(); k++ {
					ident := h.NamedChild(k)
					if ident == nil {
						continue
					}
					if ident.Kind() == "identifier" || ident.Kind() == "member_expression" {
						if name := parser.NodeText(ident, source); name != "" {
							bases = append(bases, name)
						}
					}
				}
			case "identifier", "member_expression":
				if name := parser.NodeText(h, source); name != "" {
					bases = append(bases, name)
				}
			}
		}
	}
	return bases
}

func javaBases(node *tree_sitter.Node, source []byte) []string {
	var bases []string
	if superNode := node.ChildByFieldName("superclass"); superNode != nil {
		// Raw text includes the "extends" keyword; take the type identifier.
		if typeID := parser.FindChildByKind(superNode, "type_identifier"); typeID != nil {
			if name := parser.NodeText(typeID, source); name != "" {
				bases = append(bases, name)
			}
		}
	}
	if implNode := node.ChildByFieldName("interfaces"); implNode != nil {
		if list := parser.FindChildByKind(implNode, "type_list"); list != nil {
			for i := uint(0); i < list.NamedChildCount(); i++ {
				child := list.NamedChild(i)
				if child == nil {
					continue
				}
				if name := parser.NodeText(child, source); name != "" {
					bases = append(bases, name)
				}
			}
		}
	}
	return bases
}

func cppBases(node *tree_sitter.Node, source []byte) []string {
	var bases []string
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		if child == nil || child.Kind() != "base_class_clause" {
			continue
		}
		for j := uint(0); j < child.NamedChildCount(); j++ {
			base := child.NamedChild(j)
			if base != nil && (base.Kind() == "type_identifier" || base.Kind() == "qualified_identifier") {
				if name := parser.NodeText(base, source); name != "" {
					bases = append(bases, name)
				}
			}
		}
	}
	return bases
}

func csharpBases(node *tree_sitter.Node, source []byte) []string {
	var bases []string
	if list := parser.FindChildByKind(node, "base_list"); list != nil {
		for i := uint(0); i < list.NamedChildCount(); i++ {
			child := list.NamedChild(i)
			if child == nil {
				continue
			}
			if name := parser.NodeText(child, source); name != "" {
				bases = append(bases, name)
			}
		}
	}
	return bases
}

func phpBases(node *tree_sitter.Node, source []byte) []string {
	var bases []string
	for _, kind := range []string{"base_clause", "class_interface_clause"} {
		clause := parser.FindChildByKind(node, kind)
		if clause == nil {
			continue
		}
		for i := uint(0); i < clause.NamedChildCount(); i++ {
			child := clause.NamedChild(i)
			if child == nil {
				continue
			}
			if name := parser.NodeText(child, source); name != "" {
				bases = append(bases, name)
			}
		}
	}
	return bases
}

func scalaBases(node *tree_sitter.Node, source []byte) []string {
	clause := parser.FindChildByKind(node, "extends_clause")
	if clause == nil {
		return nil
	}
	if typeNode := clause.ChildByFieldName("type"); typeNode != nil {
		if name := parser.NodeText(typeNode, source); name != "" {
			return []string{name}
		}
	}
	var bases []string
	for i := uint(0); i < clause.NamedChildCount(); i++ {
		child := clause.NamedChild(i)
		if child == nil || child.Kind() == "arguments" {
			continue
		}
		if name := parser.NodeText(child, source); name != "" {
			bases = append(bases, name)
		}
	}
	return bases
}

func kotlinBases(node *tree_sitter.Node, source []byte) []string {
	var bases []string
	for i := uint(0); i < node.NamedChildCount(); i++ {
		child := node.NamedChild(i)
		if child == nil || child.Kind() != "delegation_specifier" {
			continue
		}
		// constructor_invocation wraps the supertype; bare user_type for
		// interfaces.
		name := parser.NodeText(child, source)
		if i := strings.IndexByte(name, '('); i >= 0 {
			name = name[:i]
		}
		if name = strings.TrimSpace(name); name != "" {
			bases = append(bases, name)
		}
	}
	return bases
}
