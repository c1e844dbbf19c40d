package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"fidelity-cli/internal/model"

	_ "modernc.org/sqlite"
)

func (s Store) openSQLite(ctx context.Context) (*sql.DB, error) {
	if err := s.Ensure(); err != nil {
		return nil, err
	}
	// modernc.org/sqlite driver name is "sqlite".
	db, err := sql.Open("sqlite", s.sqlitePath())
	if err != nil {
		return nil, err
	}
	// WAL lets the CLI read while the TUI writes.
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA foreign_keys=ON;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	if err := migrateSQLiteState(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

func migrateSQLiteState(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS state_meta (
			k TEXT PRIMARY KEY,
			v TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS cases (
			id TEXT PRIMARY KEY,
			variant TEXT NOT NULL,
			name TEXT NOT NULL,
			client_initials TEXT NOT NULL,
			created_at_unixms INTEGER NOT NULL,
			updated_at_unixms INTEGER NOT NULL,
			json TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_cases_updated ON cases(updated_at_unixms);`,
	}
	for _, st := range stmts {
		if _, err := db.ExecContext(ctx, st); err != nil {
			return err
		}
	}
	return nil
}

// LoadSQLite reads the full state. A fresh directory yields an empty DB.
func (s Store) LoadSQLite(ctx context.Context) (*DB, error) {
	db, err := s.openSQLite(ctx)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	out := NewDB()
	readMeta := func(k string) string {
		var v string
		_ = db.QueryRowContext(ctx, `SELECT v FROM state_meta WHERE k = ?`, k).Scan(&v)
		return strings.TrimSpace(v)
	}
	if v := readMeta("version"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			out.Version = n
		}
	}
	out.CurrentCaseID = readMeta("current_case_id")
	if v := readMeta("case_order"); v != "" {
		if err := json.Unmarshal([]byte(v), &out.CaseOrder); err != nil {
			return nil, fmt.Errorf("case order: %w", err)
		}
	}

	cases, err := readJSONRows[model.Case](ctx, db, `SELECT json FROM cases ORDER BY created_at_unixms, id`)
	if err != nil {
		return nil, err
	}
	for i := range cases {
		if cases[i].ValueTree == nil {
			cases[i].ValueTree = model.ValueTree{}
		}
	}
	if cases != nil {
		out.Cases = cases
	}
	return out, nil
}

// SaveSQLite replaces the stored state with st in one transaction.
func (s Store) SaveSQLite(ctx context.Context, st *DB) error {
	if st == nil {
		return errors.New("nil db")
	}
	db, err := s.openSQLite(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	tx, err := db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	order, err := json.Marshal(st.CaseOrder)
	if err != nil {
		return err
	}
	meta := [][2]string{
		{"version", strconv.Itoa(st.Version)},
		{"current_case_id", strings.TrimSpace(st.CurrentCaseID)},
		{"case_order", string(order)},
	}
	for _, kv := range meta {
		if _, err := tx.ExecContext(ctx, `INSERT OR REPLACE INTO state_meta(k, v) VALUES(?, ?)`, kv[0], kv[1]); err != nil {
			return err
		}
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM cases`); err != nil {
		return err
	}
	for _, c := range st.Cases {
		b, err := json.Marshal(c)
		if err != nil {
			return fmt.Errorf("case %s: %w", c.ID, err)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO cases(id, variant, name, client_initials, created_at_unixms, updated_at_unixms, json) VALUES(?, ?, ?, ?, ?, ?, ?)`,
			c.ID, string(c.SchemaVariant), c.Meta.Name, c.Meta.ClientInitials,
			unixMs(c.Meta.CreatedAt), unixMs(c.Meta.UpdatedAt), string(b),
		); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func unixMs(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixMilli()
}

func readJSONRows[T any](ctx context.Context, db *sql.DB, query string) ([]T, error) {
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []T
	for rows.Next() {
		var js string
		if err := rows.Scan(&js); err != nil {
			return nil, err
		}
		var v T
		if err := json.Unmarshal([]byte(js), &v); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
