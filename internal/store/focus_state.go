package store

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
)

const focusStateFileName = "focus_state.json"

// FocusMark is where focus mode was last parked in a case.
type FocusMark struct {
	SectionID string `json:"sectionId"`
	ItemID    string `json:"itemId"`
}

// FocusState restores the focused item per case on relaunch. It is best effort:
// callers tolerate missing or stale marks.
type FocusState struct {
	Version int                  `json:"version"`
	Cases   map[string]FocusMark `json:"cases,omitempty"`
}

func (st *FocusState) Mark(caseID string) (FocusMark, bool) {
	if st == nil {
		return FocusMark{}, false
	}
	m, ok := st.Cases[caseID]
	return m, ok
}

func (st *FocusState) SetMark(caseID string, m FocusMark) {
	if st.Cases == nil {
		st.Cases = map[string]FocusMark{}
	}
	st.Cases[caseID] = m
}

// Prune drops marks for cases that no longer exist.
func (st *FocusState) Prune(db *DB) {
	for id := range st.Cases {
		if _, ok := db.FindCase(id); !ok {
			delete(st.Cases, id)
		}
	}
}

func (s Store) focusStatePath() string {
	return filepath.Join(s.Dir, focusStateFileName)
}

func (s Store) LoadFocusState() (*FocusState, error) {
	if strings.TrimSpace(s.Dir) == "" {
		return &FocusState{Version: 1}, nil
	}
	b, err := os.ReadFile(s.focusStatePath())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &FocusState{Version: 1}, nil
		}
		return nil, err
	}
	var st FocusState
	if err := json.Unmarshal(b, &st); err != nil {
		// Corrupted: treat as missing.
		return &FocusState{Version: 1}, nil
	}
	if st.Version == 0 {
		st.Version = 1
	}
	return &st, nil
}

func (s Store) SaveFocusState(st *FocusState) error {
	if st == nil || strings.TrimSpace(s.Dir) == "" {
		return nil
	}
	if err := s.Ensure(); err != nil {
		return err
	}
	if st.Version == 0 {
		st.Version = 1
	}
	b, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return err
	}
	return atomicWriteFile(s.Dir, "focus_state.json.*.tmp", s.focusStatePath(), b, 0o644)
}
