// Package tools exposes the graph builder, queries and renderer as MCP
// tools over stdio.
package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/DeusData/code-context-graph/internal/analyze"
	"github.com/DeusData/code-context-graph/internal/graph"
	"github.com/DeusData/code-context-graph/internal/pipeline"
	"github.com/DeusData/code-context-graph/internal/report"
	"github.com/DeusData/code-context-graph/internal/store"
)

// Server wraps the MCP server with tool handlers.
type Server struct {
	mcp   *mcp.Server
	store *store.Store
}

// NewServer creates an MCP server with all tools registered.
func NewServer(st *store.Store) *Server {
	srv := &Server{
		store: st,
		mcp: mcp.NewServer(
			&mcp.Implementation{
				Name:    "code-context-graph",
				Version: "0.1.0",
			},
			nil,
		),
	}
	srv.registerTools()
	return srv
}

// Run serves MCP over stdio until the client disconnects.
func (s *Server) Run(ctx context.Context) error {
	return s.mcp.Run(ctx, &mcp.StdioTransport{})
}

func (s *Server) registerTools() {
	s.mcp.AddTool(&mcp.Tool{
		Name:        "build_graph",
		Description: "Build the code context graph for a directory tree and store it under a project name. Parses source files, extracts functions and classes, and records defines/calls/inherits/instantiates relationships.",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"root": {
					"type": "string",
					"description": "Absolute path of the directory to analyze"
				},
				"project": {
					"type": "string",
					"description": "Project name to store the graph under. Defaults to the root directory's base name."
				}
			},
			"required": ["root"]
		}`),
	}, s.handleBuildGraph)

	s.mcp.AddTool(&mcp.Tool{
		Name:        "query_callers",
		Description: "List the functions and modules that call the named function in a stored graph. Matches the exact qualified name (e.g. 'pkg/mod::foo') or the short name.",
		InputSchema: nameQuerySchema,
	}, s.handleQueryCallers)

	s.mcp.AddTool(&mcp.Tool{
		Name:        "query_callees",
		Description: "List the call targets of the named function in a stored graph. Matches the exact qualified name or the short name.",
		InputSchema: nameQuerySchema,
	}, s.handleQueryCallees)

	s.mcp.AddTool(&mcp.Tool{
		Name:        "query_subclasses",
		Description: "List the classes that inherit from the named base class in a stored graph. Matches the exact qualified name or the short name.",
		InputSchema: nameQuerySchema,
	}, s.handleQuerySubclasses)

	s.mcp.AddTool(&mcp.Tool{
		Name:        "analyze_path",
		Description: "Scan a directory tree and return a per-file summary: TODO markers, top-level function/class definitions with documentation, content hashes, and aggregate counts.",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"root": {
					"type": "string",
					"description": "Absolute path of the directory to analyze"
				}
			},
			"required": ["root"]
		}`),
	}, s.handleAnalyzePath)

	s.mcp.AddTool(&mcp.Tool{
		Name:        "render_report",
		Description: "Render a markdown report for a stored graph: overview, TODO list, API reference tables and a mermaid diagram. When the project's root path is still accessible, the report includes the file-level analysis summary.",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"project": {
					"type": "string",
					"description": "Stored project name"
				},
				"title": {
					"type": "string",
					"description": "Report title"
				}
			},
			"required": ["project"]
		}`),
	}, s.handleRenderReport)

	s.mcp.AddTool(&mcp.Tool{
		Name:        "render_diagram",
		Description: "Render a stored graph as a mermaid 'graph TD' diagram with sanitized node identifiers.",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"project": {
					"type": "string",
					"description": "Stored project name"
				},
				"max_nodes": {
					"type": "integer",
					"description": "Maximum diagram nodes (default 300)"
				}
			},
			"required": ["project"]
		}`),
	}, s.handleRenderDiagram)

	s.mcp.AddTool(&mcp.Tool{
		Name:        "list_projects",
		Description: "List stored projects with their root path, build time and file counts.",
		InputSchema: json.RawMessage(`{"type": "object"}`),
	}, s.handleListProjects)

	s.mcp.AddTool(&mcp.Tool{
		Name:        "delete_project",
		Description: "Delete a stored project and its graph.",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"project": {
					"type": "string",
					"description": "Stored project name"
				}
			},
			"required": ["project"]
		}`),
	}, s.handleDeleteProject)
}

var nameQuerySchema = json.RawMessage(`{
	"type": "object",
	"properties": {
		"project": {
			"type": "string",
			"description": "Stored project name"
		},
		"name": {
			"type": "string",
			"description": "Qualified name (e.g. 'pkg/mod::Outer.method') or short name"
		}
	},
	"required": ["project", "name"]
}`)

func (s *Server) handleBuildGraph(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, err := parseArgs(req)
	if err != nil {
		return errResult(err.Error()), nil
	}
	root := getStringArg(args, "root")
	if root == "" {
		return errResult("root is required"), nil
	}
	project := getStringArg(args, "project")
	if project == "" {
		project = filepath.Base(filepath.Clean(root))
	}

	g, stats, err := pipeline.Build(ctx, root, pipeline.Options{})
	if err != nil {
		return errResult(fmt.Sprintf("build graph: %v", err)), nil
	}
	if err := s.store.Save(project, root, g, stats); err != nil {
		return errResult(fmt.Sprintf("save graph: %v", err)), nil
	}

	return jsonResult(map[string]any{
		"project":       project,
		"nodes":         len(g.Nodes),
		"edges":         len(g.Edges),
		"files_scanned": stats.FilesScanned,
		"files_skipped": stats.FilesSkipped,
	}), nil
}

func (s *Server) handleQueryCallers(_ context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.nameQuery(req, graph.CallersOf)
}

func (s *Server) handleQueryCallees(_ context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.nameQuery(req, graph.CalleesOf)
}

func (s *Server) handleQuerySubclasses(_ context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.nameQuery(req, graph.SubclassesOf)
}

// nameQuery runs one of the by-name graph queries against a stored project.
func (s *Server) nameQuery(req *mcp.CallToolRequest, query func(*graph.Graph, string) []string) (*mcp.CallToolResult, error) {
	args, err := parseArgs(req)
	if err != nil {
		return errResult(err.Error()), nil
	}
	project := getStringArg(args, "project")
	name := getStringArg(args, "name")
	if project == "" || name == "" {
		return errResult("project and name are required"), nil
	}

	g, _, err := s.store.Load(project)
	if err != nil {
		return errResult(fmt.Sprintf("load graph: %v", err)), nil
	}

	ids := query(g, name)
	results := make([]graph.Node, 0, len(ids))
	for _, id := range ids {
		if n, ok := g.NodeByID(id); ok {
			results = append(results, n)
		}
	}
	return jsonResult(map[string]any{"name": name, "results": results}), nil
}

func (s *Server) handleAnalyzePath(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, err := parseArgs(req)
	if err != nil {
		return errResult(err.Error()), nil
	}
	root := getStringArg(args, "root")
	if root == "" {
		return errResult("root is required"), nil
	}

	rep, err := analyze.Analyze(ctx, root, analyze.Options{})
	if err != nil {
		return errResult(fmt.Sprintf("analyze: %v", err)), nil
	}
	return jsonResult(rep), nil
}

func (s *Server) handleRenderReport(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, err := parseArgs(req)
	if err != nil {
		return errResult(err.Error()), nil
	}
	project := getStringArg(args, "project")
	if project == "" {
		return errResult("project is required"), nil
	}

	g, info, err := s.store.Load(project)
	if err != nil {
		return errResult(fmt.Sprintf("load graph: %v", err)), nil
	}

	// Best-effort analysis: the stored root may no longer exist.
	a, err := analyze.Analyze(ctx, info.RootPath, analyze.Options{})
	if err != nil {
		a = nil
	}

	md := report.Markdown(a, g, report.Options{Title: getStringArg(args, "title")})
	return textResult(md), nil
}

func (s *Server) handleRenderDiagram(_ context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, err := parseArgs(req)
	if err != nil {
		return errResult(err.Error()), nil
	}
	project := getStringArg(args, "project")
	if project == "" {
		return errResult("project is required"), nil
	}

	g, _, err := s.store.Load(project)
	if err != nil {
		return errResult(fmt.Sprintf("load graph: %v", err)), nil
	}
	return textResult(report.Mermaid(g, getIntArg(args, "max_nodes", 0))), nil
}

func (s *Server) handleDeleteProject(_ context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, err := parseArgs(req)
	if err != nil {
		return errResult(err.Error()), nil
	}
	return s.deleteProject(getStringArg(args, "project")), nil
}

// deleteProject removes a stored project, verifying it exists first so the
// caller gets a real answer instead of a silent no-op.
func (s *Server) deleteProject(name string) *mcp.CallToolResult {
	if name == "" {
		return errResult("project is required")
	}
	if _, err := s.store.Project(name); err != nil {
		return errResult(fmt.Sprintf("load project: %v", err))
	}
	if err := s.store.DeleteProject(name); err != nil {
		return errResult(fmt.Sprintf("delete project: %v", err))
	}
	return jsonResult(map[string]any{"deleted": name})
}

func (s *Server) handleListProjects(_ context.Context, _ *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	projects, err := s.store.Projects()
	if err != nil {
		return errResult(fmt.Sprintf("list projects: %v", err)), nil
	}
	return jsonResult(projects), nil
}

// jsonResult marshals data to JSON and returns it as a tool result.
func jsonResult(data any) *mcp.CallToolResult {
	b, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return errResult("json marshal err=" + err.Error())
	}
	return textResult(string(b))
}

// textResult returns a plain text tool result.
func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: text},
		},
	}
}

// errResult returns a tool result indicating an error.
func errResult(msg string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: msg},
		},
		IsError: true,
	}
}

func parseArgs(req *mcp.CallToolRequest) (map[string]any, error) {
	if len(req.Params.Arguments) == 0 {
		return map[string]any{}, nil
	}
	var m map[string]any
	if err := json.Unmarshal(req.Params.Arguments, &m); err != nil {
		return nil, fmt.Errorf("invalid arguments: %w", err)
	}
	return m, nil
}

// getStringArg extracts a string argument from parsed args.
func getStringArg(args map[string]any, key string) string {
	s, _ := args[key].(string)
	return s
}

// getIntArg extracts an integer argument with a default value.
func getIntArg(args map[string]any, key string, defaultVal int) int {
	f, ok := args[key].(float64) // JSON numbers decode as float64
	if !ok {
		return defaultVal
	}
	return int(f)
}
