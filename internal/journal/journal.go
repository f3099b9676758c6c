/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package journal records scene changes in an embedded SQLite database for
// diagnostics. A continuous drag of one element collapses into a single row.
package journal

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	applog "modcanvas/internal/log"
	"modcanvas/internal/scene"
	"modcanvas/internal/version"

	// Pure-Go SQLite driver (CGO-free)
	_ "modernc.org/sqlite"
)

// schemaVersion tracks the journal schema. Bump it together with a new
// migration step.
const schemaVersion = 2

// ErrClosed is returned by every operation after Close.
var ErrClosed = errors.New("journal: closed")

// Options tune a journal. Zero values pick the defaults.
type Options struct {
	// Coalesce merges consecutive updates of the same element that arrive
	// within this window. Negative disables coalescing.
	Coalesce time.Duration
	// KeepLast, when positive, prunes to this many rows on Close.
	KeepLast int
	Logger   *slog.Logger
	// Now is the clock; tests replace it.
	Now func() time.Time
}

// Entry is one journal row.
type Entry struct {
	Seq       int64
	TS        time.Time
	Op        scene.Op
	ElementID string
	Related   string
	Affected  []string
	Payload   json.RawMessage
}

type lastRow struct {
	seq int64
	op  scene.Op
	id  string
	ts  time.Time
}

// Journal is safe for concurrent use.
type Journal struct {
	db   *sql.DB
	path string
	opts Options
	log  *slog.Logger

	mu     sync.Mutex
	last   *lastRow
	err    error
	closed bool
}

// Open creates or opens the journal at path, enables WAL mode, and brings the
// schema up to date.
func Open(ctx context.Context, path string, opts Options) (*Journal, error) {
	if opts.Coalesce == 0 {
		opts.Coalesce = 250 * time.Millisecond
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = applog.WithComponent("journal")
	}
	l := applog.WithOperation(opts.Logger, "open").With(slog.String("path", path))
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("journal path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		l.Error("create journal dir failed", slog.Any("err", err))
		return nil, fmt.Errorf("create journal dir: %w", err)
	}
	dsn := fmt.Sprintf("file:%s?cache=shared&_pragma=busy_timeout(5000)", filepath.ToSlash(path))
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		l.Error("sqlite open failed", slog.Any("err", err))
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL;"); err != nil {
		_ = db.Close()
		l.Error("enable WAL failed", slog.Any("err", err))
		return nil, fmt.Errorf("enable WAL: %w", err)
	}
	if err := ensureMetaAndVersion(ctx, db); err != nil {
		_ = db.Close()
		l.Error("ensure meta/version failed", slog.Any("err", err))
		return nil, err
	}
	if err := ensureSchema(ctx, db); err != nil {
		_ = db.Close()
		l.Error("ensure journal schema failed", slog.Any("err", err))
		return nil, err
	}
	if err := runMigrations(ctx, db); err != nil {
		_ = db.Close()
		l.Error("run migrations failed", slog.Any("err", err))
		return nil, err
	}
	l.Debug("journal ready")
	return &Journal{db: db, path: path, opts: opts, log: opts.Logger}, nil
}

func ensureMetaAndVersion(ctx context.Context, db *sql.DB) error {
	ddl := []string{
		`CREATE TABLE IF NOT EXISTS meta (
			key   TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS version (
			id          INTEGER PRIMARY KEY CHECK(id=1),
			schema      INTEGER NOT NULL,
			app         TEXT,
			created_at  TEXT NOT NULL,
			updated_at  TEXT NOT NULL
		);`,
	}
	for _, q := range ddl {
		if _, err := db.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("create table: %w", err)
		}
	}
	now := time.Now().UTC().Format(time.RFC3339)
	appv := version.String()
	var cur int
	err := db.QueryRowContext(ctx, `SELECT schema FROM version WHERE id=1`).Scan(&cur)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		// a fresh database starts at v1 and migrates forward like any other
		if _, err := db.ExecContext(ctx, `INSERT INTO version (id, schema, app, created_at, updated_at) VALUES(1, 1, ?, ?, ?)`, appv, now, now); err != nil {
			return fmt.Errorf("insert version: %w", err)
		}
	case err != nil:
		return fmt.Errorf("read version: %w", err)
	default:
		if _, err := db.ExecContext(ctx, `UPDATE version SET app=?, updated_at=? WHERE id=1`, appv, now); err != nil {
			return fmt.Errorf("update version: %w", err)
		}
	}
	if _, err := db.ExecContext(ctx, `INSERT INTO meta(key, value) VALUES('opened_at', ?)
		ON CONFLICT(key) DO UPDATE SET value=excluded.value`, now); err != nil {
		return fmt.Errorf("write meta: %w", err)
	}
	return nil
}

// ensureSchema creates the v1 tables.
func ensureSchema(ctx context.Context, db *sql.DB) error {
	q := `CREATE TABLE IF NOT EXISTS changes (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		ts          TEXT NOT NULL,
		op          TEXT NOT NULL,
		element_id  TEXT NOT NULL,
		related     TEXT NOT NULL DEFAULT '',
		payload     TEXT
	);`
	if _, err := db.ExecContext(ctx, q); err != nil {
		return fmt.Errorf("create changes: %w", err)
	}
	return nil
}

// runMigrations applies incremental schema migrations up to schemaVersion.
func runMigrations(ctx context.Context, db *sql.DB) error {
	var cur int
	if err := db.QueryRowContext(ctx, `SELECT schema FROM version WHERE id=1`).Scan(&cur); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	for cur < schemaVersion {
		next := cur + 1
		var stmts []string
		switch next {
		case 2:
			// cascaded/removed ids and lookup by element
			stmts = []string{
				`ALTER TABLE changes ADD COLUMN affected TEXT NOT NULL DEFAULT '';`,
				`CREATE INDEX IF NOT EXISTS idx_changes_element ON changes(element_id);`,
			}
		}
		tx, err := db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin migration %d: %w", next, err)
		}
		for _, q := range stmts {
			if _, err := tx.ExecContext(ctx, q); err != nil {
				_ = tx.Rollback()
				return fmt.Errorf("migration %d stmt failed: %w", next, err)
			}
		}
		if _, err := tx.ExecContext(ctx, `UPDATE version SET schema=?, updated_at=? WHERE id=1`, next, time.Now().UTC().Format(time.RFC3339)); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("migration %d update version: %w", next, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("migration %d commit: %w", next, err)
		}
		cur = next
	}
	return nil
}

// Path returns the database file path.
func (j *Journal) Path() string { return j.path }

// Observer adapts the journal to a scene observer. Observers cannot fail, so
// the first write error is kept and reported by Err.
func (j *Journal) Observer() scene.Observer {
	return func(c scene.Change) {
		if err := j.Record(context.Background(), c); err != nil && !errors.Is(err, ErrClosed) {
			j.mu.Lock()
			if j.err == nil {
				j.err = err
			}
			j.mu.Unlock()
			j.log.Warn("journal write failed", slog.String("op", string(c.Op)), slog.Any("err", err))
		}
	}
}

// Err returns the first error an Observer swallowed.
func (j *Journal) Err() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.err
}

// Record writes one change. An update of the same element as the previous row
// within the coalesce window replaces that row.
func (j *Journal) Record(ctx context.Context, c scene.Change) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.closed {
		return ErrClosed
	}
	now := j.opts.Now()
	var payload any
	if c.Element != nil {
		b, err := json.Marshal(c.Element)
		if err != nil {
			return fmt.Errorf("encode element: %w", err)
		}
		payload = string(b)
	}
	affected := strings.Join(c.Affected, ",")
	ts := now.UTC().Format(time.RFC3339Nano)

	if l := j.last; l != nil && j.opts.Coalesce > 0 && c.Op == scene.OpUpdate &&
		l.op == scene.OpUpdate && l.id == c.ID && now.Sub(l.ts) < j.opts.Coalesce {
		if _, err := j.db.ExecContext(ctx, `UPDATE changes SET ts=?, payload=?, affected=? WHERE id=?`,
			ts, payload, affected, l.seq); err != nil {
			return fmt.Errorf("coalesce change: %w", err)
		}
		l.ts = now
		return nil
	}
	res, err := j.db.ExecContext(ctx, `INSERT INTO changes(ts, op, element_id, related, payload, affected) VALUES(?, ?, ?, ?, ?, ?)`,
		ts, string(c.Op), c.ID, c.Related, payload, affected)
	if err != nil {
		return fmt.Errorf("insert change: %w", err)
	}
	seq, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("insert change id: %w", err)
	}
	j.last = &lastRow{seq: seq, op: c.Op, id: c.ID, ts: now}
	return nil
}

// List returns the newest limit entries in chronological order. limit <= 0
// returns everything.
func (j *Journal) List(ctx context.Context, limit int) ([]Entry, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.closed {
		return nil, ErrClosed
	}
	q := `SELECT id, ts, op, element_id, related, payload, affected FROM (
		SELECT * FROM changes ORDER BY id DESC LIMIT ?) ORDER BY id ASC`
	if limit <= 0 {
		limit = -1
	}
	rows, err := j.db.QueryContext(ctx, q, limit)
	if err != nil {
		return nil, fmt.Errorf("list changes: %w", err)
	}
	defer rows.Close()
	var out []Entry
	for rows.Next() {
		var (
			e        Entry
			ts, op   string
			payload  sql.NullString
			affected string
		)
		if err := rows.Scan(&e.Seq, &ts, &op, &e.ElementID, &e.Related, &payload, &affected); err != nil {
			return nil, fmt.Errorf("scan change: %w", err)
		}
		e.TS, _ = time.Parse(time.RFC3339Nano, ts)
		e.Op = scene.Op(op)
		if payload.Valid {
			e.Payload = json.RawMessage(payload.String)
		}
		if affected != "" {
			e.Affected = strings.Split(affected, ",")
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate changes: %w", err)
	}
	return out, nil
}

// Prune deletes all but the newest keepLast rows and returns how many were
// removed.
func (j *Journal) Prune(ctx context.Context, keepLast int) (int64, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.closed {
		return 0, ErrClosed
	}
	return j.pruneLocked(ctx, keepLast)
}

func (j *Journal) pruneLocked(ctx context.Context, keepLast int) (int64, error) {
	if keepLast < 0 {
		keepLast = 0
	}
	res, err := j.db.ExecContext(ctx, `DELETE FROM changes WHERE id NOT IN (
		SELECT id FROM changes ORDER BY id DESC LIMIT ?)`, keepLast)
	if err != nil {
		return 0, fmt.Errorf("prune changes: %w", err)
	}
	n, _ := res.RowsAffected()
	if n > 0 {
		j.last = nil
		j.log.Debug("journal pruned", slog.Int64("removed", n), slog.Int("kept", keepLast))
	}
	return n, nil
}

// Close prunes to KeepLast when configured and closes the database. Further
// calls return ErrClosed.
func (j *Journal) Close() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.closed {
		return ErrClosed
	}
	j.closed = true
	var errs []error
	if j.opts.KeepLast > 0 {
		if _, err := j.pruneLocked(context.Background(), j.opts.KeepLast); err != nil {
			errs = append(errs, err)
		}
	}
	if err := j.db.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close sqlite: %w", err))
	}
	return errors.Join(errs...)
}
