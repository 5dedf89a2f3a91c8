package lang

import (
	"sort"
	"testing"
)

func TestForExtension(t *testing.T) {
	tests := []struct {
		ext  string
		want Language
	}{
		{".py", Python},
		{".js", JavaScript},
		{".jsx", JavaScript},
		{".ts", TypeScript},
		{".tsx", TSX},
		{".go", Go},
		{".rs", Rust},
		{".java", Java},
		{".hpp", CPP},
		{".cs", CSharp},
		{".php", PHP},
		{".lua", Lua},
		{".scala", Scala},
		{".kt", Kotlin},
	}
	for _, tt := range tests {
		spec := ForExtension(tt.ext)
		if spec == nil || spec.Language != tt.want {
			t.Errorf("ForExtension(%s) = %v, want %s", tt.ext, spec, tt.want)
		}
	}
	if ForExtension(".xyz") != nil {
		t.Error("unknown extension returned a spec")
	}
}

func TestEveryLanguageHasASpec(t *testing.T) {
	for _, l := range AllLanguages() {
		spec := ForLanguage(l)
		if spec == nil {
			t.Errorf("no spec registered for %s", l)
			continue
		}
		if len(spec.FileExtensions) == 0 {
			t.Errorf("%s: no file extensions", l)
		}
		if len(spec.FunctionNodeTypes) == 0 {
			t.Errorf("%s: no function node types", l)
		}
		if len(spec.CallNodeTypes) == 0 {
			t.Errorf("%s: no call node types", l)
		}
	}
}

func TestSourceExtensionsSorted(t *testing.T) {
	exts := SourceExtensions()
	if len(exts) == 0 {
		t.Fatal("no extensions registered")
	}
	if !sort.StringsAreSorted(exts) {
		t.Errorf("not sorted: %v", exts)
	}
	seen := map[string]bool{}
	for _, e := range exts {
		if seen[e] {
			t.Errorf("duplicate extension %s", e)
		}
		seen[e] = true
	}
}

func TestLanguageForExtension(t *testing.T) {
	l, ok := LanguageForExtension(".py")
	if !ok || l != Python {
		t.Errorf("LanguageForExtension(.py) = %s, %v", l, ok)
	}
	if _, ok := LanguageForExtension(".md"); ok {
		t.Error(".md should not map to a language")
	}
}
