package state

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/certwatch/docsite/internal/content"
)

// Store persists build history and the last docs-set manifest using SQLite.
// It backs incremental rebuild decisions and the daemon's build log.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// BuildRecord is one completed build.
type BuildRecord struct {
	ID        string
	StartedAt time.Time
	Duration  time.Duration
	Pages     int
	Outcome   string // success|failed|canceled
	Error     string
}

// Open opens (or creates) a store. Use ":memory:" for tests.
func Open(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	s := &Store{db: db}
	if err := s.initialize(); err != nil {
		_ = db.Close() // Best effort cleanup on initialization error
		return nil, fmt.Errorf("initialize schema: %w", err)
	}
	return s, nil
}

func (s *Store) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS builds (
		id TEXT PRIMARY KEY,
		started_at INTEGER NOT NULL,
		duration_ms INTEGER NOT NULL,
		pages INTEGER NOT NULL,
		outcome TEXT NOT NULL,
		error TEXT
	);
	CREATE INDEX IF NOT EXISTS idx_builds_started ON builds(started_at);
	CREATE TABLE IF NOT EXISTS manifests (
		build_id TEXT PRIMARY KEY,
		created_at INTEGER NOT NULL,
		set_hash TEXT NOT NULL,
		files BLOB NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_manifests_created ON manifests(created_at);
	`
	_, err := s.db.Exec(schema)
	return err
}

// RecordBuild appends a build record.
func (s *Store) RecordBuild(ctx context.Context, b BuildRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO builds (id, started_at, duration_ms, pages, outcome, error) VALUES (?, ?, ?, ?, ?, ?)",
		b.ID, b.StartedAt.Unix(), b.Duration.Milliseconds(), b.Pages, b.Outcome, b.Error,
	)
	if err != nil {
		return fmt.Errorf("insert build: %w", err)
	}
	return nil
}

// RecentBuilds returns up to limit builds, newest first.
func (s *Store) RecentBuilds(ctx context.Context, limit int) ([]BuildRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT id, started_at, duration_ms, pages, outcome, COALESCE(error, '') FROM builds ORDER BY started_at DESC, id DESC LIMIT ?",
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query builds: %w", err)
	}
	defer rows.Close()

	var out []BuildRecord
	for rows.Next() {
		var b BuildRecord
		var started, durMS int64
		if err := rows.Scan(&b.ID, &started, &durMS, &b.Pages, &b.Outcome, &b.Error); err != nil {
			return nil, fmt.Errorf("scan build: %w", err)
		}
		b.StartedAt = time.Unix(started, 0)
		b.Duration = time.Duration(durMS) * time.Millisecond
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	return out, nil
}

// SaveManifest stores the docs-set manifest produced by a build.
func (s *Store) SaveManifest(ctx context.Context, buildID string, m *content.Manifest) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	files, err := json.Marshal(m.Files)
	if err != nil {
		return fmt.Errorf("marshal manifest files: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		"INSERT OR REPLACE INTO manifests (build_id, created_at, set_hash, files) VALUES (?, ?, ?, ?)",
		buildID, time.Now().Unix(), m.Hash, files,
	)
	if err != nil {
		return fmt.Errorf("insert manifest: %w", err)
	}
	return nil
}

// LatestManifest returns the most recently stored manifest, or nil when the
// store holds none yet.
func (s *Store) LatestManifest(ctx context.Context) (*content.Manifest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx,
		"SELECT set_hash, files FROM manifests ORDER BY created_at DESC, build_id DESC LIMIT 1")

	var hash string
	var files []byte
	if err := row.Scan(&hash, &files); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("scan manifest: %w", err)
	}

	m := &content.Manifest{Hash: hash}
	if err := json.Unmarshal(files, &m.Files); err != nil {
		return nil, fmt.Errorf("unmarshal manifest files: %w", err)
	}
	return m, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}
