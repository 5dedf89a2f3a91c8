// Package analyze produces a per-file summary of a source tree: TODO
// markers, top-level definitions and content hashes, with aggregate counts.
package analyze

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/zeebo/xxh3"

	"github.com/DeusData/code-context-graph/internal/collect"
	"github.com/DeusData/code-context-graph/internal/graph"
	"github.com/DeusData/code-context-graph/internal/pipeline"
)

// todoRE matches TODO markers in any casing, capturing the trailing text.
var todoRE = regexp.MustCompile(`(?i)\bTODO\b[:\s-]?(.*)`)

// Options configures an analysis run. Zero value uses the collector
// defaults.
type Options struct {
	Extensions  []string
	ExcludeDirs map[string]bool
	IgnoreFile  string
}

// TODO is one TODO marker found in a file.
type TODO struct {
	Line int    `json:"line"`
	Text string `json:"text"`
}

// FileReport summarizes one collected file.
type FileReport struct {
	Path        string                `json:"path"` // relative to the analysis root
	Extension   string                `json:"extension"`
	Hash        string                `json:"hash"` // xxh3 of the raw content
	Todos       []TODO                `json:"todos,omitempty"`
	Definitions []pipeline.Definition `json:"definitions,omitempty"`
}

// Summary aggregates counts across all files in a report.
type Summary struct {
	Files     int `json:"files"`
	Todos     int `json:"todos"`
	Functions int `json:"functions"`
	Classes   int `json:"classes"`
}

// Report is the result of analyzing a path.
type Report struct {
	Path    string       `json:"path"`
	Files   []FileReport `json:"files"`
	Summary Summary      `json:"summary"`
}

// Analyze scans every collected file under root and returns a report with
// per-file TODO markers, top-level definitions for supported source files,
// content hashes and aggregate counts. Files are listed in lexicographic
// path order. Unreadable files are skipped with a warning.
func Analyze(ctx context.Context, root string, opts Options) (*Report, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	if info, statErr := os.Stat(absRoot); statErr != nil || !info.IsDir() {
		return nil, fmt.Errorf("invalid analysis root %q", root)
	}

	files, err := collect.Collect(ctx, absRoot, collect.Options{
		Extensions:  opts.Extensions,
		ExcludeDirs: opts.ExcludeDirs,
		IgnoreFile:  opts.IgnoreFile,
	})
	if err != nil {
		return nil, err
	}

	report := &Report{Path: absRoot}
	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		source, err := os.ReadFile(f.Path)
		if err != nil {
			slog.Warn("analyze.file.err", "path", f.RelPath, "err", err)
			continue
		}

		fr := FileReport{
			Path:      f.RelPath,
			Extension: strings.ToLower(filepath.Ext(f.Path)),
			Hash:      fmt.Sprintf("%016x", xxh3.Hash(source)),
			Todos:     scanTodos(source),
		}
		if f.Language != "" {
			fr.Definitions = pipeline.ExtractDefinitions(f.Path)
		}

		report.Files = append(report.Files, fr)
		report.Summary.Files++
		report.Summary.Todos += len(fr.Todos)
		for _, d := range fr.Definitions {
			switch d.Kind {
			case graph.KindFunction:
				report.Summary.Functions++
			case graph.KindClass:
				report.Summary.Classes++
			}
		}
	}
	return report, nil
}

// scanTodos extracts TODO markers line by line.
func scanTodos(source []byte) []TODO {
	var todos []TODO
	scanner := bufio.NewScanner(bytes.NewReader(source))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		if m := todoRE.FindStringSubmatch(scanner.Text()); m != nil {
			todos = append(todos, TODO{Line: line, Text: strings.TrimSpace(m[1])})
		}
	}
	return todos
}
