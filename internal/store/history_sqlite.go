package store

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"colrev-settings/internal/model"

	_ "modernc.org/sqlite"
)

// Change is one saved field change of the project section.
type Change struct {
	ID     int64           `json:"id"`
	Field  string          `json:"field"`
	Before json.RawMessage `json:"before"`
	After  json.RawMessage `json:"after"`
	At     time.Time       `json:"at"`
}

// History is the append-only log of saved project changes.
type History struct {
	db *sql.DB
}

func (s Store) historyPath() string {
	return filepath.Join(s.localDir(), "history.sqlite")
}

// OpenHistory opens (creating if needed) the repository's change history.
func (s Store) OpenHistory(ctx context.Context) (*History, error) {
	if err := os.MkdirAll(s.localDir(), 0o755); err != nil {
		return nil, err
	}
	// modernc.org/sqlite driver name is "sqlite".
	db, err := sql.Open("sqlite", s.historyPath())
	if err != nil {
		return nil, err
	}
	// WAL enables one writer + many readers; busy_timeout helps avoid "database is locked" flakiness.
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	if err := migrateHistory(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &History{db: db}, nil
}

func migrateHistory(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS changes (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			field TEXT NOT NULL,
			before_json TEXT NOT NULL,
			after_json TEXT NOT NULL,
			at_unixms INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_changes_at ON changes(at_unixms);`,
	}
	for _, st := range stmts {
		if _, err := db.ExecContext(ctx, st); err != nil {
			return err
		}
	}
	return nil
}

func (h *History) Close() error {
	if h == nil || h.db == nil {
		return nil
	}
	return h.db.Close()
}

// Diff returns the JSON keys whose values differ between before and after,
// sorted, with both encoded values.
func Diff(before, after model.Project) ([]Change, error) {
	b, err := fieldsOf(before)
	if err != nil {
		return nil, err
	}
	a, err := fieldsOf(after)
	if err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(a))
	for k := range a {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var out []Change
	for _, k := range keys {
		if bytes.Equal(b[k], a[k]) {
			continue
		}
		out = append(out, Change{Field: k, Before: b[k], After: a[k]})
	}
	return out, nil
}

func fieldsOf(p model.Project) (map[string]json.RawMessage, error) {
	raw, err := json.Marshal(normalizeLists(p))
	if err != nil {
		return nil, err
	}
	var m map[string]json.RawMessage
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, err
	}
	return m, nil
}

// Record appends one row per field that differs between before and after and
// returns how many were written.
func (h *History) Record(ctx context.Context, before, after model.Project, at time.Time) (int, error) {
	if h == nil || h.db == nil {
		return 0, errors.New("history: not open")
	}
	changes, err := Diff(before, after)
	if err != nil {
		return 0, err
	}
	if len(changes) == 0 {
		return 0, nil
	}

	tx, err := h.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback() }()

	for _, c := range changes {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO changes(field, before_json, after_json, at_unixms) VALUES(?, ?, ?, ?)`,
			c.Field, string(c.Before), string(c.After), at.UTC().UnixMilli(),
		); err != nil {
			return 0, fmt.Errorf("history: insert %s: %w", c.Field, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return len(changes), nil
}

// Recent returns up to limit changes, newest first.
func (h *History) Recent(ctx context.Context, limit int) ([]Change, error) {
	if h == nil || h.db == nil {
		return nil, errors.New("history: not open")
	}
	if limit <= 0 {
		limit = 50
	}
	rows, err := h.db.QueryContext(ctx,
		`SELECT id, field, before_json, after_json, at_unixms FROM changes ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Change
	for rows.Next() {
		var (
			c      Change
			before string
			after  string
			atMS   int64
		)
		if err := rows.Scan(&c.ID, &c.Field, &before, &after, &atMS); err != nil {
			return nil, err
		}
		c.Before = json.RawMessage(before)
		c.After = json.RawMessage(after)
		c.At = time.UnixMilli(atMS).UTC()
		out = append(out, c)
	}
	return out, rows.Err()
}
