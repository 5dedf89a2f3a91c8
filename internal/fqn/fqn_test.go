package fqn

import (
	"path/filepath"
	"testing"
)

func TestModuleID(t *testing.T) {
	root := filepath.Join("/", "repo")
	tests := []struct {
		path string
		want string
	}{
		{filepath.Join(root, "app.py"), "app"},
		{filepath.Join(root, "pkg", "svc.py"), "pkg/svc"},
		{filepath.Join(root, "a", "b", "c.ts"), "a/b/c"},
		{filepath.Join("/", "elsewhere", "x.py"), "x"}, // outside root
	}
	for _, tt := range tests {
		if got := ModuleID(root, tt.path); got != tt.want {
			t.Errorf("ModuleID(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestQualified(t *testing.T) {
	tests := []struct {
		module    string
		enclosing []string
		name      string
		want      string
	}{
		{"app", nil, "foo", "app::foo"},
		{"pkg/svc", []string{"Service"}, "run", "pkg/svc::Service.run"},
		{"m", []string{"Outer", "Inner"}, "f", "m::Outer.Inner.f"},
		{"", nil, "foo", "foo"},
	}
	for _, tt := range tests {
		if got := Qualified(tt.module, tt.enclosing, tt.name); got != tt.want {
			t.Errorf("Qualified(%q, %v, %q) = %q, want %q", tt.module, tt.enclosing, tt.name, got, tt.want)
		}
	}
}

func TestShortName(t *testing.T) {
	tests := []struct{ in, want string }{
		{"pkg/svc::Service.run", "run"},
		{"app::foo", "foo"},
		{"bare", "bare"},
		{"a.b.c", "c"},
	}
	for _, tt := range tests {
		if got := ShortName(tt.in); got != tt.want {
			t.Errorf("ShortName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestModuleOf(t *testing.T) {
	if got := ModuleOf("pkg/svc::Service.run"); got != "pkg/svc" {
		t.Errorf("ModuleOf = %q", got)
	}
	if got := ModuleOf("bare"); got != "" {
		t.Errorf("ModuleOf(bare) = %q, want empty", got)
	}
}
