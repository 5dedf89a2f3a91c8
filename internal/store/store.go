// Package store persists built graphs in SQLite so a graph built in one
// invocation can be queried in another. The builder itself never touches
// the database; the store is an export sink the caller opts into.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/DeusData/code-context-graph/internal/graph"
	"github.com/DeusData/code-context-graph/internal/pipeline"
)

// Store wraps a SQLite connection for graph storage.
type Store struct {
	db     *sql.DB
	dbPath string
}

// ProjectInfo describes one stored project.
type ProjectInfo struct {
	Name         string    `json:"name"`
	RootPath     string    `json:"root_path"`
	BuiltAt      time.Time `json:"built_at"`
	FilesScanned int       `json:"files_scanned"`
	FilesSkipped int       `json:"files_skipped"`
}

// cacheDir returns the default directory for graph databases.
func cacheDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("home dir: %w", err)
	}
	dir := filepath.Join(home, ".cache", "code-context-graph")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("mkdir cache: %w", err)
	}
	return dir, nil
}

// Open opens (or creates) the default graph database.
func Open() (*Store, error) {
	dir, err := cacheDir()
	if err != nil {
		return nil, err
	}
	return OpenPath(filepath.Join(dir, "graphs.db"))
}

// OpenPath opens a SQLite database at the given path.
func OpenPath(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000&_fk=on")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	s := &Store{db: db, dbPath: dbPath}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return s, nil
}

// OpenMemory opens an in-memory database (for testing).
func OpenMemory() (*Store, error) {
	db, err := sql.Open("sqlite3", ":memory:?_fk=on")
	if err != nil {
		return nil, fmt.Errorf("open memory db: %w", err)
	}
	// Each new connection would get a fresh empty memory database.
	db.SetMaxOpenConns(1)
	s := &Store{db: db, dbPath: ":memory:"}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS projects (
		name TEXT PRIMARY KEY,
		root_path TEXT NOT NULL,
		built_at TEXT NOT NULL,
		files_scanned INTEGER NOT NULL DEFAULT 0,
		files_skipped INTEGER NOT NULL DEFAULT 0
	);

	CREATE TABLE IF NOT EXISTS nodes (
		project TEXT NOT NULL REFERENCES projects(name) ON DELETE CASCADE,
		node_id TEXT NOT NULL,
		kind TEXT NOT NULL,
		name TEXT NOT NULL,
		qualified_name TEXT NOT NULL DEFAULT '',
		module TEXT NOT NULL DEFAULT '',
		source_file TEXT NOT NULL DEFAULT '',
		seq INTEGER NOT NULL,
		PRIMARY KEY (project, node_id)
	);

	CREATE INDEX IF NOT EXISTS idx_nodes_kind ON nodes(project, kind);
	CREATE INDEX IF NOT EXISTS idx_nodes_name ON nodes(project, name);

	CREATE TABLE IF NOT EXISTS edges (
		project TEXT NOT NULL REFERENCES projects(name) ON DELETE CASCADE,
		seq INTEGER NOT NULL,
		from_id TEXT NOT NULL,
		to_id TEXT NOT NULL,
		type TEXT NOT NULL,
		PRIMARY KEY (project, seq)
	);

	CREATE INDEX IF NOT EXISTS idx_edges_from ON edges(project, from_id, type);
	CREATE INDEX IF NOT EXISTS idx_edges_to ON edges(project, to_id, type);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Save stores a built graph under a project name, replacing any previous
// build for that project. Node and edge order is preserved so Load returns
// an equal graph value.
func (s *Store) Save(project, rootPath string, g *graph.Graph, stats pipeline.Stats) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM projects WHERE name = ?`, project); err != nil {
		return fmt.Errorf("clear project: %w", err)
	}
	if _, err := tx.Exec(
		`INSERT INTO projects (name, root_path, built_at, files_scanned, files_skipped) VALUES (?, ?, ?, ?, ?)`,
		project, rootPath, time.Now().UTC().Format(time.RFC3339), stats.FilesScanned, stats.FilesSkipped,
	); err != nil {
		return fmt.Errorf("insert project: %w", err)
	}

	insNode, err := tx.Prepare(
		`INSERT INTO nodes (project, node_id, kind, name, qualified_name, module, source_file, seq) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare node insert: %w", err)
	}
	defer insNode.Close()
	for i, n := range g.Nodes {
		if _, err := insNode.Exec(project, n.ID, string(n.Kind), n.Name, n.QualifiedName, n.Module, n.SourceFile, i); err != nil {
			return fmt.Errorf("insert node %s: %w", n.ID, err)
		}
	}

	insEdge, err := tx.Prepare(
		`INSERT INTO edges (project, seq, from_id, to_id, type) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare edge insert: %w", err)
	}
	defer insEdge.Close()
	for i, e := range g.Edges {
		if _, err := insEdge.Exec(project, i, e.FromID, e.ToID, string(e.Type)); err != nil {
			return fmt.Errorf("insert edge %s->%s: %w", e.FromID, e.ToID, err)
		}
	}

	return tx.Commit()
}

// Load reconstructs a stored graph. Unknown projects return an error.
func (s *Store) Load(project string) (*graph.Graph, ProjectInfo, error) {
	info, err := s.Project(project)
	if err != nil {
		return nil, ProjectInfo{}, err
	}

	rows, err := s.db.Query(
		`SELECT node_id, kind, name, qualified_name, module, source_file FROM nodes WHERE project = ? ORDER BY seq`, project)
	if err != nil {
		return nil, ProjectInfo{}, fmt.Errorf("query nodes: %w", err)
	}
	defer rows.Close()

	var nodes []graph.Node
	for rows.Next() {
		var n graph.Node
		var kind string
		if err := rows.Scan(&n.ID, &kind, &n.Name, &n.QualifiedName, &n.Module, &n.SourceFile); err != nil {
			return nil, ProjectInfo{}, fmt.Errorf("scan node: %w", err)
		}
		n.Kind = graph.Kind(kind)
		nodes = append(nodes, n)
	}
	if err := rows.Err(); err != nil {
		return nil, ProjectInfo{}, err
	}

	erows, err := s.db.Query(
		`SELECT from_id, to_id, type FROM edges WHERE project = ? ORDER BY seq`, project)
	if err != nil {
		return nil, ProjectInfo{}, fmt.Errorf("query edges: %w", err)
	}
	defer erows.Close()

	var edges []graph.Edge
	for erows.Next() {
		var e graph.Edge
		var typ string
		if err := erows.Scan(&e.FromID, &e.ToID, &typ); err != nil {
			return nil, ProjectInfo{}, fmt.Errorf("scan edge: %w", err)
		}
		e.Type = graph.EdgeType(typ)
		edges = append(edges, e)
	}
	if err := erows.Err(); err != nil {
		return nil, ProjectInfo{}, err
	}

	g, err := graph.FromParts(nodes, edges)
	if err != nil {
		return nil, ProjectInfo{}, fmt.Errorf("rebuild graph: %w", err)
	}
	return g, info, nil
}

// Project returns the metadata row for a stored project.
func (s *Store) Project(name string) (ProjectInfo, error) {
	var info ProjectInfo
	var builtAt string
	err := s.db.QueryRow(
		`SELECT name, root_path, built_at, files_scanned, files_skipped FROM projects WHERE name = ?`, name).
		Scan(&info.Name, &info.RootPath, &builtAt, &info.FilesScanned, &info.FilesSkipped)
	if err == sql.ErrNoRows {
		return info, fmt.Errorf("unknown project %q", name)
	}
	if err != nil {
		return info, fmt.Errorf("query project: %w", err)
	}
	info.BuiltAt, _ = time.Parse(time.RFC3339, builtAt)
	return info, nil
}

// Projects lists stored projects, newest first.
func (s *Store) Projects() ([]ProjectInfo, error) {
	rows, err := s.db.Query(
		`SELECT name, root_path, built_at, files_scanned, files_skipped FROM projects ORDER BY built_at DESC, name`)
	if err != nil {
		return nil, fmt.Errorf("query projects: %w", err)
	}
	defer rows.Close()

	var out []ProjectInfo
	for rows.Next() {
		var info ProjectInfo
		var builtAt string
		if err := rows.Scan(&info.Name, &info.RootPath, &builtAt, &info.FilesScanned, &info.FilesSkipped); err != nil {
			return nil, fmt.Errorf("scan project: %w", err)
		}
		info.BuiltAt, _ = time.Parse(time.RFC3339, builtAt)
		out = append(out, info)
	}
	return out, rows.Err()
}

// DeleteProject removes a stored project and its graph.
func (s *Store) DeleteProject(name string) error {
	if _, err := s.db.Exec(`DELETE FROM projects WHERE name = ?`, name); err != nil {
		return fmt.Errorf("delete project: %w", err)
	}
	_, _ = s.db.Exec(`DELETE FROM nodes WHERE project = ?`, name)
	_, _ = s.db.Exec(`DELETE FROM edges WHERE project = ?`, name)
	return nil
}
