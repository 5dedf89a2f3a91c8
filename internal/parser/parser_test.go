package parser

import (
	"testing"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/DeusData/code-context-graph/internal/lang"
)

var samples = map[lang.Language]string{
	lang.Python:     "def f():\n    pass\n",
	lang.JavaScript: "function f() {}\n",
	lang.TypeScript: "function f(): void {}\n",
	lang.TSX:        "const C = () => <div/>;\n",
	lang.Go:         "package p\n\nfunc f() {}\n",
	lang.Rust:       "fn f() {}\n",
	lang.Java:       "class A { void f() {} }\n",
	lang.CPP:        "void f() {}\n",
	lang.CSharp:     "class A { void F() {} }\n",
	lang.PHP:        "<?php function f() {} ?>\n",
	lang.Lua:        "function f() end\n",
	lang.Scala:      "object A { def f(): Unit = {} }\n",
	lang.Kotlin:     "fun f() {}\n",
}

func TestParseAllLanguages(t *testing.T) {
	for _, l := range lang.AllLanguages() {
		src, ok := samples[l]
		if !ok {
			t.Errorf("no sample for %s", l)
			continue
		}
		tree, err := Parse(l, []byte(src))
		if err != nil {
			t.Errorf("Parse(%s): %v", l, err)
			continue
		}
		if tree.RootNode() == nil {
			t.Errorf("Parse(%s): nil root", l)
		}
		tree.Close()
	}
}

func TestParseUnsupportedLanguage(t *testing.T) {
	if _, err := Parse("cobol", []byte("x")); err == nil {
		t.Fatal("expected error for unsupported language")
	}
}

func TestWalkAndNodeText(t *testing.T) {
	src := []byte("def foo():\n    pass\n")
	tree, err := Parse(lang.Python, src)
	if err != nil {
		t.Fatal(err)
	}
	defer tree.Close()

	var fnNode *tree_sitter.Node
	Walk(tree.RootNode(), func(n *tree_sitter.Node) bool {
		if n.Kind() == "function_definition" {
			fnNode = n
			return false
		}
		return true
	})
	if fnNode == nil {
		t.Fatal("function_definition not visited")
	}
	name := fnNode.ChildByFieldName("name")
	if name == nil || NodeText(name, src) != "foo" {
		t.Errorf("name = %v", name)
	}
}

func TestFindChildByKind(t *testing.T) {
	src := []byte("def foo():\n    pass\n")
	tree, err := Parse(lang.Python, src)
	if err != nil {
		t.Fatal(err)
	}
	defer tree.Close()

	if n := FindChildByKind(tree.RootNode(), "function_definition"); n == nil {
		t.Error("function_definition not found as direct child")
	}
	if n := FindChildByKind(tree.RootNode(), "nope"); n != nil {
		t.Error("found nonexistent kind")
	}
}
