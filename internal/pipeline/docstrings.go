package pipeline

import (
	"bytes"
	"strings"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/DeusData/code-context-graph/internal/lang"
	"github.com/DeusData/code-context-graph/internal/parser"
)

// extractDoc extracts the documentation string for a definition.
// Python: the PEP 257 triple-quoted string heading the body.
// Other languages: the comment block immediately above the definition.
// Returns "" when no documentation is attached.
func extractDoc(node *tree_sitter.Node, source []byte, l lang.Language, spec *lang.LanguageSpec) string {
	if l == lang.Python {
		return pythonDocstring(node, source)
	}
	return commentDoc(source, int(node.StartPosition().Row), spec.DocCommentPrefix)
}

func pythonDocstring(node *tree_sitter.Node, source []byte) string {
	body := node.ChildByFieldName("body")
	if body == nil || body.NamedChildCount() == 0 {
		return ""
	}
	first := body.NamedChild(0)
	if first == nil || first.Kind() != "expression_statement" || first.NamedChildCount() == 0 {
		return ""
	}
	strNode := first.NamedChild(0)
	if strNode == nil || strNode.Kind() != "string" {
		return ""
	}
	return cleanPythonDocstring(parser.NodeText(strNode, source))
}

// cleanPythonDocstring removes triple-quote delimiters and normalizes
// indentation.
func cleanPythonDocstring(s string) string {
	for _, delim := range []string{`"""`, `'''`} {
		if strings.HasPrefix(s, delim) && strings.HasSuffix(s, delim) && len(s) >= 6 {
			s = s[3 : len(s)-3]
			break
		}
	}
	lines := strings.Split(s, "\n")
	if len(lines) <= 1 {
		return strings.TrimSpace(s)
	}
	minIndent := -1
	for _, line := range lines[1:] {
		trimmed := strings.TrimLeft(line, " \t")
		if trimmed == "" {
			continue
		}
		indent := len(line) - len(trimmed)
		if minIndent < 0 || indent < minIndent {
			minIndent = indent
		}
	}
	if minIndent > 0 {
		for i := 1; i < len(lines); i++ {
			if len(lines[i]) >= minIndent {
				lines[i] = lines[i][minIndent:]
			}
		}
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

// commentDoc scans backwards from the definition's line for a contiguous
// comment block: line comments with the language's doc prefix, or a
// /* ... */ block ending on the previous line.
func commentDoc(source []byte, startLine int, prefix string) string {
	lines := bytes.Split(source, []byte("\n"))
	if startLine <= 0 || startLine > len(lines) {
		return ""
	}

	lineIdx := startLine - 1
	trimmed := strings.TrimSpace(string(lines[lineIdx]))
	if trimmed == "" {
		return ""
	}

	if strings.HasSuffix(trimmed, "*/") {
		return blockComment(lines, lineIdx)
	}
	if prefix != "" && strings.HasPrefix(trimmed, prefix) {
		return lineComments(lines, lineIdx, prefix)
	}
	return ""
}

func blockComment(lines [][]byte, endIdx int) string {
	var collected []string
	for i := endIdx; i >= 0; i-- {
		line := strings.TrimSpace(string(lines[i]))
		collected = append([]string{line}, collected...)
		if strings.HasPrefix(line, "/*") {
			break
		}
	}
	for i, line := range collected {
		line = strings.TrimPrefix(line, "/**")
		line = strings.TrimPrefix(line, "/*")
		line = strings.TrimSuffix(line, "*/")
		line = strings.TrimPrefix(strings.TrimSpace(line), "*")
		collected[i] = strings.TrimSpace(line)
	}
	return strings.TrimSpace(strings.Join(collected, "\n"))
}

func lineComments(lines [][]byte, endIdx int, prefix string) string {
	var collected []string
	for i := endIdx; i >= 0; i-- {
		line := strings.TrimSpace(string(lines[i]))
		if !strings.HasPrefix(line, prefix) {
			break
		}
		line = strings.TrimSpace(strings.TrimPrefix(line, prefix))
		collected = append([]string{line}, collected...)
	}
	return strings.TrimSpace(strings.Join(collected, "\n"))
}
