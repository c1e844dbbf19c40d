package store

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"fidelity-cli/internal/model"
)

const sqliteFileName = "fidelity.sqlite"

// DB is the whole persisted state: every case plus the index (display order and the
// current case).
type DB struct {
	Version       int          `json:"version"`
	CurrentCaseID string       `json:"currentCaseId,omitempty"`
	CaseOrder     []string     `json:"caseOrder"`
	Cases         []model.Case `json:"cases"`
}

type Store struct {
	Dir string
}

func NewDB() *DB {
	return &DB{Version: 1, CaseOrder: []string{}, Cases: []model.Case{}}
}

// DataDir resolves the store directory: explicit dir, then config.DataDir, then <configDir>/data.
func DataDir(explicit string, cfg *GlobalConfig) (string, error) {
	if d := strings.TrimSpace(explicit); d != "" {
		return filepath.Clean(d), nil
	}
	if cfg != nil && strings.TrimSpace(cfg.DataDir) != "" {
		return filepath.Clean(strings.TrimSpace(cfg.DataDir)), nil
	}
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "data"), nil
}

func (s Store) Ensure() error {
	return os.MkdirAll(s.Dir, 0o755)
}

func (s Store) sqlitePath() string {
	return filepath.Join(s.Dir, sqliteFileName)
}

func (s Store) Load() (*DB, error) {
	if err := s.Ensure(); err != nil {
		return nil, err
	}
	db, err := s.LoadSQLite(context.Background())
	if err != nil {
		return nil, err
	}
	db.normalizeIndex()
	return db, nil
}

// Save writes the full state atomically (one transaction, replace-all).
func (s Store) Save(db *DB) error {
	return s.SaveSQLite(context.Background(), db)
}

func (db *DB) FindCase(id string) (*model.Case, bool) {
	id = strings.TrimSpace(id)
	if db == nil || id == "" {
		return nil, false
	}
	for i := range db.Cases {
		if db.Cases[i].ID == id {
			return &db.Cases[i], true
		}
	}
	return nil, false
}

// Current returns the current case, if one is set.
func (db *DB) Current() (*model.Case, bool) {
	if db == nil {
		return nil, false
	}
	return db.FindCase(db.CurrentCaseID)
}

// OrderedCases returns cases in index order.
func (db *DB) OrderedCases() []model.Case {
	out := make([]model.Case, 0, len(db.Cases))
	for _, id := range db.CaseOrder {
		if c, ok := db.FindCase(id); ok {
			out = append(out, *c)
		}
	}
	return out
}

// Clone deep-copies the DB so a snapshot can be written while the original keeps changing.
func (db *DB) Clone() *DB {
	if db == nil {
		return nil
	}
	out := &DB{
		Version:       db.Version,
		CurrentCaseID: db.CurrentCaseID,
		CaseOrder:     append([]string{}, db.CaseOrder...),
		Cases:         make([]model.Case, 0, len(db.Cases)),
	}
	for _, c := range db.Cases {
		out.Cases = append(out.Cases, c.Clone())
	}
	return out
}

// normalizeIndex repairs the index after a load: unknown ids are dropped, unlisted
// cases are appended, and a dangling current id is cleared.
func (db *DB) normalizeIndex() {
	if db.Version == 0 {
		db.Version = 1
	}
	if db.Cases == nil {
		db.Cases = []model.Case{}
	}
	present := map[string]bool{}
	for _, c := range db.Cases {
		present[c.ID] = true
	}
	seen := map[string]bool{}
	order := make([]string, 0, len(db.Cases))
	for _, id := range db.CaseOrder {
		if present[id] && !seen[id] {
			order = append(order, id)
			seen[id] = true
		}
	}
	for _, c := range db.Cases {
		if !seen[c.ID] {
			order = append(order, c.ID)
			seen[c.ID] = true
		}
	}
	db.CaseOrder = order
	if !present[db.CurrentCaseID] {
		db.CurrentCaseID = ""
	}
}
