// Package store persists rendered insights and dashboard snapshots in SQLite.
// The database is a cache of what the content directory and mock generators
// produced; it can always be rebuilt from scratch.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"git.home.luguber.info/inful/esgboard/internal/esg"
	"git.home.luguber.info/inful/esgboard/internal/insight"
)

// ErrNotFound is returned when a requested insight does not exist.
var ErrNotFound = sql.ErrNoRows

// Store is the SQLite-backed persistence layer.
// Use ":memory:" as the path for tests.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// Open opens (and if needed initializes) the database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	s := &Store{db: db}
	if err := s.initialize(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}
	return s, nil
}

func (s *Store) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS insights (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		category TEXT NOT NULL DEFAULT '',
		severity TEXT NOT NULL DEFAULT 'info',
		tags TEXT NOT NULL DEFAULT '[]',
		published INTEGER NOT NULL DEFAULT 1,
		source_path TEXT NOT NULL,
		html TEXT NOT NULL,
		excerpt TEXT NOT NULL DEFAULT '',
		updated_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_insights_category ON insights(category);
	CREATE TABLE IF NOT EXISTS snapshots (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		captured_at INTEGER NOT NULL,
		payload BLOB NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_snapshots_captured ON snapshots(captured_at);
	`
	_, err := s.db.Exec(schema)
	return err
}

// UpsertInsight inserts or replaces one insight by ID.
func (s *Store) UpsertInsight(ctx context.Context, ins insight.Insight) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tags, err := json.Marshal(ins.Tags)
	if err != nil {
		return fmt.Errorf("marshal tags: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO insights (id, title, category, severity, tags, published, source_path, html, excerpt, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title=excluded.title, category=excluded.category, severity=excluded.severity,
			tags=excluded.tags, published=excluded.published, source_path=excluded.source_path,
			html=excluded.html, excerpt=excluded.excerpt, updated_at=excluded.updated_at`,
		ins.ID, ins.Title, ins.Category, ins.Severity, string(tags), boolInt(ins.Published),
		ins.SourcePath, ins.HTML, ins.Excerpt, ins.UpdatedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("upsert insight %s: %w", ins.ID, err)
	}
	return nil
}

// GetInsight returns one insight by ID, or ErrNotFound.
func (s *Store) GetInsight(ctx context.Context, id string) (insight.Insight, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, `
		SELECT id, title, category, severity, tags, published, source_path, html, excerpt, updated_at
		FROM insights WHERE id = ?`, id)
	return scanInsight(row)
}

// ListInsights returns all insights ordered by source path. When
// publishedOnly is set, drafts are excluded.
func (s *Store) ListInsights(ctx context.Context, publishedOnly bool) ([]insight.Insight, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	q := `SELECT id, title, category, severity, tags, published, source_path, html, excerpt, updated_at
		FROM insights`
	if publishedOnly {
		q += ` WHERE published = 1`
	}
	q += ` ORDER BY source_path`

	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("query insights: %w", err)
	}
	defer rows.Close()

	var out []insight.Insight
	for rows.Next() {
		ins, err := scanInsight(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, ins)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate insights: %w", err)
	}
	return out, nil
}

// PruneInsights deletes every insight whose ID is not in keep, returning the
// number removed. Used after a reload so deleted files disappear from the API.
func (s *Store) PruneInsights(ctx context.Context, keep []string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(keep) == 0 {
		res, err := s.db.ExecContext(ctx, `DELETE FROM insights`)
		return rowsAffected(res, err)
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(keep)), ",")
	args := make([]any, len(keep))
	for i, id := range keep {
		args[i] = id
	}
	res, err := s.db.ExecContext(ctx, `DELETE FROM insights WHERE id NOT IN (`+placeholders+`)`, args...)
	return rowsAffected(res, err)
}

// SaveSnapshot stores a dashboard dataset capture.
func (s *Store) SaveSnapshot(ctx context.Context, ds *esg.Dataset) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	payload, err := json.Marshal(ds)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO snapshots (captured_at, payload) VALUES (?, ?)`,
		ds.GeneratedAt.Unix(), payload)
	if err != nil {
		return fmt.Errorf("insert snapshot: %w", err)
	}
	return nil
}

// LatestSnapshot returns the most recently captured dataset, or ErrNotFound.
func (s *Store) LatestSnapshot(ctx context.Context) (*esg.Dataset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var payload []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT payload FROM snapshots ORDER BY captured_at DESC, id DESC LIMIT 1`).Scan(&payload)
	if err != nil {
		return nil, err
	}

	var ds esg.Dataset
	if err := json.Unmarshal(payload, &ds); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	return &ds, nil
}

// Close closes the database.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanInsight(row rowScanner) (insight.Insight, error) {
	var ins insight.Insight
	var tags string
	var published int
	var updated int64

	err := row.Scan(&ins.ID, &ins.Title, &ins.Category, &ins.Severity, &tags,
		&published, &ins.SourcePath, &ins.HTML, &ins.Excerpt, &updated)
	if err != nil {
		return insight.Insight{}, err
	}

	if err := json.Unmarshal([]byte(tags), &ins.Tags); err != nil {
		return insight.Insight{}, fmt.Errorf("unmarshal tags: %w", err)
	}
	ins.Published = published != 0
	ins.UpdatedAt = time.Unix(updated, 0).UTC()
	return ins, nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func rowsAffected(res sql.Result, err error) (int, error) {
	if err != nil {
		return 0, fmt.Errorf("prune insights: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("prune insights: %w", err)
	}
	return int(n), nil
}
