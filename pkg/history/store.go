// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package history

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"

	_ "modernc.org/sqlite"
)

// 📜 Entry is one completed organize call
type Entry struct {
	ID          string
	Source      string
	Destination string
	Filename    string
	Category    string
	Outcome     string
	Size        int64
	SHA256      string
	IsDir       bool
	ProcessedAt time.Time
}

// 📊 CategoryStats aggregates entries of one category
type CategoryStats struct {
	Category string
	Count    int
	Bytes    int64
}

// 📊 Stats aggregates the whole journal
type Stats struct {
	Count      int
	Bytes      int64
	First      time.Time
	Last       time.Time
	Categories []CategoryStats // Largest count first
}

// 🗄️ Store is the sqlite-backed move journal
type Store struct {
	db   *sql.DB
	path string
	now  func() time.Time
}

// DefaultPath returns the default history location next to the settings file
func DefaultPath(configDir string) string {
	return filepath.Join(configDir, "history.db")
}

// 🏭 Open initializes or connects to the history database at path
func Open(ctx context.Context, path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, errors.Errorf("creating history directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.Errorf("opening sqlite db: %w", err)
	}
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			_ = db.Close()
			return nil, errors.Errorf("applying pragma %q: %w", pragma, err)
		}
	}

	store := &Store{db: db, path: path, now: time.Now}
	if err := store.initSchema(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	zerolog.Ctx(ctx).Debug().Str("path", path).Msg("history opened")
	return store, nil
}

// Path returns the database location
func (s *Store) Path() string {
	return s.path
}

// Close closes the underlying database connection
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// 📝 Record appends e to the journal, filling ID and ProcessedAt when unset
func (s *Store) Record(ctx context.Context, e Entry) (Entry, error) {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.ProcessedAt.IsZero() {
		e.ProcessedAt = s.now()
	}
	if e.Filename == "" {
		e.Filename = filepath.Base(e.Destination)
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO moves (id, source, destination, filename, category, outcome, size, sha256, is_dir, processed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.Source, e.Destination, e.Filename, e.Category, e.Outcome,
		e.Size, e.SHA256, boolToInt(e.IsDir), e.ProcessedAt.UnixNano(),
	)
	if err != nil {
		return Entry{}, errors.Errorf("recording move of %s: %w", e.Source, err)
	}
	return e, nil
}

// 📋 List returns the newest entries first; limit <= 0 returns everything
func (s *Store) List(ctx context.Context, limit int) ([]Entry, error) {
	query := `
		SELECT id, source, destination, filename, category, outcome, size, sha256, is_dir, processed_at
		FROM moves
		ORDER BY processed_at DESC, rowid DESC`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Errorf("listing history: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			e     Entry
			isDir int
			at    int64
		)
		if err := rows.Scan(&e.ID, &e.Source, &e.Destination, &e.Filename, &e.Category,
			&e.Outcome, &e.Size, &e.SHA256, &isDir, &at); err != nil {
			return nil, errors.Errorf("scanning history row: %w", err)
		}
		e.IsDir = isDir != 0
		e.ProcessedAt = time.Unix(0, at)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Errorf("iterating history: %w", err)
	}
	return entries, nil
}

// 📊 Stats aggregates the journal per category
func (s *Store) Stats(ctx context.Context) (*Stats, error) {
	stats := &Stats{}

	var first, last sql.NullInt64
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(1), COALESCE(SUM(size), 0), MIN(processed_at), MAX(processed_at) FROM moves",
	).Scan(&stats.Count, &stats.Bytes, &first, &last)
	if err != nil {
		return nil, errors.Errorf("reading history totals: %w", err)
	}
	if first.Valid {
		stats.First = time.Unix(0, first.Int64)
	}
	if last.Valid {
		stats.Last = time.Unix(0, last.Int64)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT category, COUNT(1), COALESCE(SUM(size), 0)
		FROM moves
		GROUP BY category
		ORDER BY COUNT(1) DESC, category ASC`)
	if err != nil {
		return nil, errors.Errorf("reading category totals: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var c CategoryStats
		if err := rows.Scan(&c.Category, &c.Count, &c.Bytes); err != nil {
			return nil, errors.Errorf("scanning category totals: %w", err)
		}
		stats.Categories = append(stats.Categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Errorf("iterating category totals: %w", err)
	}
	return stats, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
