// Command code-context-graph builds and queries code context graphs: nodes
// for modules, functions and classes, edges for defines, calls, inherits
// and instantiates relationships.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/DeusData/code-context-graph/internal/analyze"
	"github.com/DeusData/code-context-graph/internal/config"
	"github.com/DeusData/code-context-graph/internal/graph"
	"github.com/DeusData/code-context-graph/internal/pipeline"
	"github.com/DeusData/code-context-graph/internal/report"
	"github.com/DeusData/code-context-graph/internal/store"
	"github.com/DeusData/code-context-graph/internal/tools"
)

var version = "dev"

const usage = `usage: code-context-graph <command> [args]

commands:
  build <root>              build the graph and print it as JSON
  analyze <root>            scan files: TODOs, top-level defs, hashes
  callers <root> <name>     functions calling <name>
  callees <root> <name>     call targets of <name>
  subclasses <root> <name>  classes inheriting from <name>
  report <root>             render a markdown report
  diagram <root>            render a mermaid diagram
  serve                     run the MCP stdio server
  --version                 print version
`

func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	switch os.Args[1] {
	case "--version":
		fmt.Println("code-context-graph", version)
	case "build":
		runBuild(os.Args[2:])
	case "analyze":
		runAnalyze(os.Args[2:])
	case "callers":
		runQuery(os.Args[2:], graph.CallersOf)
	case "callees":
		runQuery(os.Args[2:], graph.CalleesOf)
	case "subclasses":
		runQuery(os.Args[2:], graph.SubclassesOf)
	case "report":
		runReport(os.Args[2:])
	case "diagram":
		runDiagram(os.Args[2:])
	case "serve":
		runServe()
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n%s", os.Args[1], usage)
		os.Exit(2)
	}
}

func requireRoot(args []string) string {
	if len(args) < 1 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
	return args[0]
}

// buildGraph loads the root's config and builds its graph.
func buildGraph(ctx context.Context, root string) (*graph.Graph, pipeline.Stats, error) {
	cfg, err := config.LoadFromRoot(root)
	if err != nil {
		return nil, pipeline.Stats{}, err
	}
	return pipeline.Build(ctx, root, pipeline.Options{
		Extensions:  cfg.Extensions,
		ExcludeDirs: cfg.ExcludeDirSet(),
		IgnoreFile:  cfg.IgnoreFile,
	})
}

func runBuild(args []string) {
	root := requireRoot(args)
	g, stats, err := buildGraph(context.Background(), root)
	if err != nil {
		log.Fatalf("build err=%v", err)
	}
	slog.Info("build.stats", "scanned", stats.FilesScanned, "skipped", stats.FilesSkipped)
	printJSON(g)
}

func runAnalyze(args []string) {
	root := requireRoot(args)
	cfg, err := config.LoadFromRoot(root)
	if err != nil {
		log.Fatalf("config err=%v", err)
	}
	rep, err := analyze.Analyze(context.Background(), root, analyze.Options{
		Extensions:  cfg.Extensions,
		ExcludeDirs: cfg.ExcludeDirSet(),
		IgnoreFile:  cfg.IgnoreFile,
	})
	if err != nil {
		log.Fatalf("analyze err=%v", err)
	}
	printJSON(rep)
}

func runQuery(args []string, query func(*graph.Graph, string) []string) {
	if len(args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
	root, name := args[0], args[1]
	g, _, err := buildGraph(context.Background(), root)
	if err != nil {
		log.Fatalf("build err=%v", err)
	}
	for _, id := range query(g, name) {
		if n, ok := g.NodeByID(id); ok {
			fmt.Printf("%s\t%s\n", n.ID, n.QualifiedName)
		}
	}
}

func runReport(args []string) {
	root := requireRoot(args)
	cfg, err := config.LoadFromRoot(root)
	if err != nil {
		log.Fatalf("config err=%v", err)
	}
	ctx := context.Background()
	g, _, err := buildGraph(ctx, root)
	if err != nil {
		log.Fatalf("build err=%v", err)
	}
	a, err := analyze.Analyze(ctx, root, analyze.Options{
		Extensions:  cfg.Extensions,
		ExcludeDirs: cfg.ExcludeDirSet(),
		IgnoreFile:  cfg.IgnoreFile,
	})
	if err != nil {
		log.Fatalf("analyze err=%v", err)
	}
	fmt.Print(report.Markdown(a, g, report.Options{
		Title:           cfg.Report.Title,
		MaxDiagramNodes: cfg.Report.MaxDiagramNodes,
	}))
}

func runDiagram(args []string) {
	root := requireRoot(args)
	g, _, err := buildGraph(context.Background(), root)
	if err != nil {
		log.Fatalf("build err=%v", err)
	}
	fmt.Println(report.Mermaid(g, 0))
}

func runServe() {
	s, err := store.Open()
	if err != nil {
		log.Fatalf("store open err=%v", err)
	}

	srv := tools.NewServer(s)
	runErr := srv.Run(context.Background())
	s.Close()
	if runErr != nil {
		log.Fatalf("server err=%v", runErr)
	}
}

func printJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		log.Fatalf("encode err=%v", err)
	}
}
