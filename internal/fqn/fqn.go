package fqn

import (
	"path/filepath"
	"strings"
)

// Sep separates the module identifier from the symbol path inside a
// qualified name. It is deliberately distinct from attribute-access dots so
// "pkg/mod::Outer.method" cannot be confused with a dotted name.
const Sep = "::"

// ModuleID derives a module identifier for a file: the path relative to the
// analysis root, slash-separated, with the source suffix stripped. Files
// outside the root fall back to their base name without extension.
func ModuleID(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		rel = filepath.Base(path)
	}
	rel = filepath.ToSlash(rel)
	return strings.TrimSuffix(rel, filepath.Ext(rel))
}

// Qualified builds the qualified name for a symbol: the module identifier,
// Sep, then the chain of enclosing names joined with dots.
func Qualified(module string, enclosing []string, name string) string {
	parts := make([]string, 0, len(enclosing)+1)
	parts = append(parts, enclosing...)
	parts = append(parts, name)
	joined := strings.Join(parts, ".")
	if module == "" {
		return joined
	}
	return module + Sep + joined
}

// ShortName returns the final segment of a qualified name.
func ShortName(qualified string) string {
	if i := strings.LastIndex(qualified, Sep); i >= 0 {
		qualified = qualified[i+len(Sep):]
	}
	if i := strings.LastIndex(qualified, "."); i >= 0 {
		qualified = qualified[i+1:]
	}
	return qualified
}

// ModuleOf returns the module identifier portion of a qualified name
// ("" when the name carries no module prefix).
func ModuleOf(qualified string) string {
	if i := strings.Index(qualified, Sep); i >= 0 {
		return qualified[:i]
	}
	return ""
}
