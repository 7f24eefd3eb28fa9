/*
 * Copyright (c) 2026 by the mushafkit authors.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package storage persists rendered page layouts in an embedded SQLite
// database so revisiting a page skips justification and shaping. The
// store is an optional cache: a missing or corrupt row is a miss, never
// a failure.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	applog "mushafkit/internal/log"
	"mushafkit/internal/render"
	"log/slog"

	// Pure-Go SQLite driver (CGO-free)
	_ "modernc.org/sqlite"
)

// DefaultMaxRows bounds the cache when the caller passes no limit.
const DefaultMaxRows = 128

// Store is a size-bounded page-layout cache backed by SQLite.
type Store struct {
	db      *sql.DB
	maxRows int
}

// Open creates or opens a layout store at path. maxRows <= 0 uses
// DefaultMaxRows.
func Open(path string, maxRows int) (*Store, error) {
	l := applog.WithOperation(applog.WithComponent("storage"), "layouts_open").With(
		slog.String("path", path),
	)
	if path == "" {
		return nil, errors.New("layout store path is required")
	}
	if maxRows <= 0 {
		maxRows = DefaultMaxRows
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		l.Error("create store dir failed", slog.Any("err", err))
		return nil, fmt.Errorf("create store dir: %w", err)
	}
	dsn := fmt.Sprintf("file:%s?cache=shared&_pragma=busy_timeout(5000)", filepath.ToSlash(path))
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		l.Error("sqlite open failed", slog.Any("err", err))
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// Single writer is enough for an embedded cache.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL;"); err != nil {
		_ = db.Close()
		l.Error("enable WAL failed", slog.Any("err", err))
		return nil, fmt.Errorf("enable WAL: %w", err)
	}
	if err := ensureLayoutSchema(ctx, db); err != nil {
		_ = db.Close()
		l.Error("ensure layout schema failed", slog.Any("err", err))
		return nil, err
	}
	l.Info("layout store ready")
	return &Store{db: db, maxRows: maxRows}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error { return s.db.Close() }

func ensureLayoutSchema(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS meta (
			key   TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);`,
		`INSERT INTO meta(key,value) VALUES('schema_version','1')
			ON CONFLICT(key) DO NOTHING;`,
		`CREATE TABLE IF NOT EXISTS layouts (
			page        INTEGER NOT NULL,
			variant     TEXT    NOT NULL,
			blob        BLOB    NOT NULL,
			size        INTEGER NOT NULL DEFAULT 0,
			updated_at  TEXT    NOT NULL,
			last_access TEXT,
			PRIMARY KEY(page, variant)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_layouts_access ON layouts(last_access);`,
	}
	for _, q := range stmts {
		if _, err := db.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("ensure layouts table: %w", err)
		}
	}
	return nil
}

// PutPage stores the rendered lines of one page, then evicts the
// least-recently-accessed rows beyond the row cap.
func (s *Store) PutPage(ctx context.Context, page int, variant string, lines []render.Result) error {
	blob, err := json.Marshal(lines)
	if err != nil {
		return fmt.Errorf("encode layout: %w", err)
	}
	now := time.Now().UTC().Format(time.RFC3339)
	_, err = s.db.ExecContext(ctx, `INSERT INTO layouts(page,variant,blob,size,updated_at,last_access)
		VALUES(?,?,?,?,?,?)
		ON CONFLICT(page,variant) DO UPDATE SET blob=excluded.blob, size=excluded.size, updated_at=excluded.updated_at, last_access=excluded.last_access`,
		page, variant, blob, len(blob), now, now)
	if err != nil {
		return fmt.Errorf("upsert layout: %w", err)
	}
	return s.evictToFit(ctx)
}

// GetPage fetches a cached page layout and touches its access time.
// A missing row returns (nil, false, nil). A row that fails to decode is
// deleted and reported as a miss.
func (s *Store) GetPage(ctx context.Context, page int, variant string) ([]render.Result, bool, error) {
	var blob []byte
	err := s.db.QueryRowContext(ctx, `SELECT blob FROM layouts WHERE page=? AND variant=?`, page, variant).Scan(&blob)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("query layout: %w", err)
	}
	var lines []render.Result
	if err := json.Unmarshal(blob, &lines); err != nil {
		applog.WithComponent("storage").Warn("dropping corrupt layout row",
			slog.Int("page", page), slog.String("variant", variant), slog.Any("err", err))
		_, _ = s.db.ExecContext(ctx, `DELETE FROM layouts WHERE page=? AND variant=?`, page, variant)
		return nil, false, nil
	}
	now := time.Now().UTC().Format(time.RFC3339)
	_, _ = s.db.ExecContext(ctx, `UPDATE layouts SET last_access=? WHERE page=? AND variant=?`, now, page, variant)
	return lines, true, nil
}

// Count returns the number of cached page layouts.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM layouts`).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// evictToFit deletes least-recently-used rows until the row count is
// within the cap. Rows that were never read sort first.
func (s *Store) evictToFit(ctx context.Context) error {
	n, err := s.Count(ctx)
	if err != nil {
		return fmt.Errorf("count layouts: %w", err)
	}
	if n <= s.maxRows {
		return nil
	}
	over := n - s.maxRows
	_, err = s.db.ExecContext(ctx, `DELETE FROM layouts WHERE rowid IN (
		SELECT rowid FROM layouts ORDER BY
			CASE WHEN last_access IS NULL THEN 0 ELSE 1 END ASC, last_access ASC
		LIMIT ?)`, over)
	if err != nil {
		return fmt.Errorf("evict layouts: %w", err)
	}
	return nil
}

// Clear drops all cached layouts. Call it alongside the in-memory caches
// when font or layout-affecting configuration changes.
func (s *Store) Clear(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM layouts`)
	return err
}
