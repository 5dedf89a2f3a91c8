package collect

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/DeusData/code-context-graph/internal/lang"
)

// DefaultExcludeDirs are directory names skipped anywhere in the tree:
// VCS metadata, virtual environments, temp clone staging, caches and
// build output.
var DefaultExcludeDirs = map[string]bool{
	".git": true, ".hg": true, ".svn": true,
	".idea": true, ".vscode": true, ".cache": true,
	".mypy_cache": true, ".pytest_cache": true, ".ruff_cache": true,
	".tox": true, ".nox": true, ".eggs": true,
	".env": true, ".venv": true, "env": true, "venv": true,
	"__pycache__": true, "site-packages": true,
	"tmp_clones": true, "tmp": true, ".tmp": true,
	"node_modules": true, "bower_components": true,
	"build": true, "dist": true, "target": true, "vendor": true,
	"coverage": true, "htmlcov": true,
}

// DefaultExtensions returns the default extension set: every supported
// source extension plus doc files (which feed the TODO scan).
func DefaultExtensions() []string {
	return append(lang.SourceExtensions(), ".md", ".txt")
}

// FileInfo represents a collected file.
type FileInfo struct {
	Path     string        // absolute path
	RelPath  string        // relative to the collection root, slash-separated
	Language lang.Language // detected language ("" for non-source files)
}

// Options configures collection.
type Options struct {
	// Extensions to include. Empty means DefaultExtensions.
	Extensions []string
	// ExcludeDirs are directory names to skip anywhere in the path.
	// Nil means DefaultExcludeDirs; an explicit non-nil map replaces it.
	ExcludeDirs map[string]bool
	// IgnoreFile is the path to an ignore-pattern file. Empty means
	// <root>/.ccgignore if present.
	IgnoreFile string
}

// normalizeExtensions lowercases and dot-prefixes extensions, dropping blanks.
func normalizeExtensions(exts []string) map[string]bool {
	set := make(map[string]bool, len(exts))
	for _, e := range exts {
		e = strings.ToLower(strings.TrimSpace(e))
		if e == "" || e == "." {
			continue
		}
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		set[e] = true
	}
	return set
}

// Collect walks root and returns matching files as absolute, deduplicated,
// lexicographically sorted paths. A missing root yields an empty slice, not
// an error. Unreadable directories are skipped.
func Collect(ctx context.Context, root string, opts Options) ([]FileInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	exts := opts.Extensions
	if len(exts) == 0 {
		exts = DefaultExtensions()
	}
	extSet := normalizeExtensions(exts)
	if len(extSet) == 0 {
		return nil, fmt.Errorf("invalid extension set: %v", opts.Extensions)
	}

	excludes := opts.ExcludeDirs
	if excludes == nil {
		excludes = DefaultExcludeDirs
	}

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	if info, statErr := os.Stat(absRoot); statErr != nil || !info.IsDir() {
		return nil, nil
	}

	var extraIgnore []string
	if opts.IgnoreFile != "" {
		extraIgnore, _ = loadIgnoreFile(opts.IgnoreFile)
	} else {
		extraIgnore, _ = loadIgnoreFile(filepath.Join(absRoot, ".ccgignore"))
	}

	seen := make(map[string]bool)
	var files []FileInfo

	walkErr := filepath.Walk(absRoot, func(path string, info os.FileInfo, err error) error {
		if cerr := ctx.Err(); cerr != nil {
			return cerr
		}
		if err != nil {
			// Permission errors and races: skip, not fatal.
			if info != nil && info.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		rel, _ := filepath.Rel(absRoot, path)
		rel = filepath.ToSlash(rel)

		if info.IsDir() {
			if path != absRoot && shouldSkipDir(info.Name(), rel, excludes, extraIgnore) {
				return filepath.SkipDir
			}
			return nil
		}

		ext := strings.ToLower(filepath.Ext(path))
		if !extSet[ext] {
			return nil
		}
		if seen[path] {
			return nil
		}
		seen[path] = true

		l, _ := lang.LanguageForExtension(ext)
		files = append(files, FileInfo{Path: path, RelPath: rel, Language: l})
		return nil
	})
	if walkErr != nil {
		return nil, walkErr
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	return files, nil
}

// shouldSkipDir reports whether a directory should be skipped.
func shouldSkipDir(name, rel string, excludes map[string]bool, extraIgnore []string) bool {
	if excludes[name] {
		return true
	}
	for _, pattern := range extraIgnore {
		if matched, _ := filepath.Match(pattern, name); matched {
			return true
		}
		if matched, _ := filepath.Match(pattern, rel); matched {
			return true
		}
	}
	return false
}

func loadIgnoreFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var patterns []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" && !strings.HasPrefix(line, "#") {
			patterns = append(patterns, line)
		}
	}
	return patterns, scanner.Err()
}
