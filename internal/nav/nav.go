package nav

import (
	"fidelity-cli/internal/model"
	"fidelity-cli/internal/progress"
	"fidelity-cli/internal/schema"
)

// Entry is one row of the flattened focus-mode list.
type Entry struct {
	SectionID string      `json:"sectionId"`
	Item      schema.Item `json:"item"`
}

// Key identifies an entry across re-flattening.
func (e Entry) Key() string { return e.SectionID + "/" + e.Item.ID }

type Direction int

const (
	Prev Direction = -1
	Next Direction = 1
)

// NextIncompleteSection returns the first section, in schema order, below 100%.
func NextIncompleteSection(form *schema.Form, snap progress.Snapshot) (string, bool) {
	if form == nil {
		return "", false
	}
	for _, sec := range form.Sections {
		if snap.PerSection[sec.ID] < 100 {
			return sec.ID, true
		}
	}
	return "", false
}

// FlattenVisibleItems lists every visible item, preserving section then item order.
func FlattenVisibleItems(form *schema.Form, tree model.ValueTree) []Entry {
	out := []Entry{}
	if form == nil {
		return out
	}
	for _, sec := range form.Sections {
		for _, it := range sec.Items {
			if progress.IsVisible(it, tree) {
				out = append(out, Entry{SectionID: sec.ID, Item: it})
			}
		}
	}
	return out
}

// Advance moves one step in a list of n entries, clamping at both ends.
func Advance(current int, dir Direction, n int) int {
	if n <= 0 {
		return 0
	}
	next := current
	switch {
	case dir > 0:
		next++
	case dir < 0:
		next--
	}
	if next < 0 {
		next = 0
	}
	if next > n-1 {
		next = n - 1
	}
	return next
}
