// Package store keeps beatline projects in a SQLite database, one row per
// project holding the project as a JSON blob.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite" // pure go sqlite driver

	"github.com/beatline/beatline"
)

// Store is safe for concurrent use.
type Store struct {
	db   *sql.DB
	mu   sync.Mutex
	path string
}

// Entry describes a stored project without loading it.
type Entry struct {
	ID        string
	Name      string
	UpdatedAt time.Time
}

var ErrNotFound = errors.New("project not found")

// timeLayout has a fixed width so that updated_at sorts as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Open opens or creates the database at path. An empty path means
// "beatline.db" in the working directory.
func Open(ctx context.Context, path string) (*Store, error) {
	if path == "" {
		path = "beatline.db"
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil && !errors.Is(err, os.ErrExist) {
		return nil, fmt.Errorf("create dirs: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if _, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS projects (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		updated_at TEXT NOT NULL,
		payload BLOB NOT NULL
	)`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create projects table: %w", err)
	}
	return &Store{db: db, path: path}, nil
}

// Save stamps the project's UpdatedAt and upserts it. It returns the stamp.
func (s *Store) Save(ctx context.Context, p *beatline.Project) (time.Time, error) {
	if p.ID == "" {
		return time.Time{}, errors.New("save: project has no id")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	stamp := time.Now().UTC()
	prev := p.UpdatedAt
	p.UpdatedAt = stamp
	data, err := json.Marshal(p)
	if err != nil {
		p.UpdatedAt = prev
		return time.Time{}, fmt.Errorf("encode project: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, `INSERT INTO projects(id,name,updated_at,payload) VALUES(?,?,?,?)
		ON CONFLICT(id) DO UPDATE SET name=excluded.name, updated_at=excluded.updated_at, payload=excluded.payload`,
		p.ID, p.Name, stamp.Format(timeLayout), data); err != nil {
		p.UpdatedAt = prev
		return time.Time{}, fmt.Errorf("upsert %s: %w", p.ID, err)
	}
	return stamp, nil
}

// Load returns the project with the given id.
func (s *Store) Load(ctx context.Context, id string) (beatline.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var payload []byte
	err := s.db.QueryRowContext(ctx, `SELECT payload FROM projects WHERE id = ?`, id).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return beatline.Project{}, fmt.Errorf("load %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return beatline.Project{}, fmt.Errorf("select %s: %w", id, err)
	}
	var p beatline.Project
	if err := json.Unmarshal(payload, &p); err != nil {
		return beatline.Project{}, fmt.Errorf("decode %s: %w", id, err)
	}
	if p.Regions == nil {
		p.Regions = map[string]*beatline.Region{}
	}
	return p, nil
}

// List returns the stored projects, most recently saved first.
func (s *Store) List(ctx context.Context) ([]Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, updated_at FROM projects ORDER BY updated_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("select projects: %w", err)
	}
	defer func() { _ = rows.Close() }()
	var ret []Entry
	for rows.Next() {
		var e Entry
		var updated string
		if err := rows.Scan(&e.ID, &e.Name, &updated); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		if e.UpdatedAt, err = time.Parse(timeLayout, updated); err != nil {
			return nil, fmt.Errorf("parse updated_at of %s: %w", e.ID, err)
		}
		ret = append(ret, e)
	}
	return ret, rows.Err()
}

// Delete removes the project with the given id.
func (s *Store) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	res, err := s.db.ExecContext(ctx, `DELETE FROM projects WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete %s: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("delete %s: %w", id, ErrNotFound)
	}
	return nil
}

func (s *Store) Close() error { return s.db.Close() }

// Path returns the database path.
func (s *Store) Path() string { return s.path }
