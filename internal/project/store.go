package project

import (
	"context"
	"database/sql"
	"encoding/json"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/thoreinstein/nexus/internal/errors"
	"github.com/thoreinstein/nexus/internal/paths"
)

// openDB is swapped in tests.
var openDB = sql.Open

// Store persists projects in a SQLite database. Selections are stored as a
// JSON document per project.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the database at path.
func Open(path string) (*Store, error) {
	if err := paths.EnsureDir(filepath.Dir(path), 0); err != nil {
		return nil, errors.NewIOError(filepath.Dir(path), err)
	}

	db, err := openDB("sqlite", path)
	if err != nil {
		return nil, errors.Wrap(err, "opening project database")
	}
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, errors.Wrapf(err, "pragma %q", p)
		}
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "migrating project database")
	}
	return s, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
CREATE TABLE IF NOT EXISTS projects (
    name       TEXT PRIMARY KEY,
    directory  TEXT NOT NULL DEFAULT '',
    data       TEXT NOT NULL DEFAULT '{}',
    created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_projects_directory ON projects(directory);
`
	_, err := s.db.Exec(schema)
	return err
}

// Save validates, normalizes and upserts p.
func (s *Store) Save(ctx context.Context, p *Project) error {
	if err := p.Validate(); err != nil {
		return err
	}
	p.Normalize()

	data, err := json.Marshal(p)
	if err != nil {
		return errors.Wrap(err, "encoding project")
	}
	_, err = s.db.ExecContext(ctx, `
INSERT INTO projects (name, directory, data) VALUES (?, ?, ?)
ON CONFLICT(name) DO UPDATE SET
    directory = excluded.directory,
    data = excluded.data,
    updated_at = CURRENT_TIMESTAMP`,
		p.Name, p.Directory, string(data))
	if err != nil {
		return errors.Wrapf(err, "saving project %q", p.Name)
	}
	return nil
}

// Get loads a project; a missing project returns ErrNotFound.
func (s *Store) Get(ctx context.Context, name string) (*Project, error) {
	var data string
	err := s.db.QueryRowContext(ctx, `SELECT data FROM projects WHERE name = ?`, name).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errors.WithHint(
			errors.Wrapf(errors.ErrNotFound, "project %q", name),
			"Run 'nexus project list' to see configured projects",
		)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "loading project %q", name)
	}
	return decode(data)
}

// FindByDirectory returns the project configured for dir, or ErrNotFound.
func (s *Store) FindByDirectory(ctx context.Context, dir string) (*Project, error) {
	var data string
	err := s.db.QueryRowContext(ctx,
		`SELECT data FROM projects WHERE directory = ? ORDER BY name LIMIT 1`, dir).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errors.Wrapf(errors.ErrNotFound, "no project for %s", dir)
	}
	if err != nil {
		return nil, errors.Wrap(err, "querying projects")
	}
	return decode(data)
}

// List returns every project sorted by name.
func (s *Store) List(ctx context.Context) ([]*Project, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT data FROM projects ORDER BY name`)
	if err != nil {
		return nil, errors.Wrap(err, "listing projects")
	}
	defer rows.Close()

	var out []*Project
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, errors.Wrap(err, "scanning project")
		}
		p, err := decode(data)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// Delete removes a project record. Files in its directory are untouched.
func (s *Store) Delete(ctx context.Context, name string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM projects WHERE name = ?`, name)
	if err != nil {
		return errors.Wrapf(err, "deleting project %q", name)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errors.Wrapf(errors.ErrNotFound, "project %q", name)
	}
	return nil
}

func decode(data string) (*Project, error) {
	var p Project
	if err := json.Unmarshal([]byte(data), &p); err != nil {
		return nil, errors.Malformed(err, "decoding project")
	}
	return &p, nil
}
