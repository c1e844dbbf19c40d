package progress

import (
	"encoding/json"
	"math"
	"strings"

	"fidelity-cli/internal/model"
	"fidelity-cli/internal/schema"
)

// Snapshot is derived state; it is recomputed from (schema, value tree) and never stored.
type Snapshot struct {
	Overall    int            `json:"overall"`
	PerSection map[string]int `json:"perSection"`
}

type SectionProgress struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Percent int    `json:"percent"`
	Filled  int    `json:"filled"`
	Slots   int    `json:"slots"`
}

// Detailed carries the per-section counts behind a Snapshot, in schema order.
type Detailed struct {
	Overall  int               `json:"overall"`
	Sections []SectionProgress `json:"sections"`
}

func (d Detailed) Snapshot() Snapshot {
	out := Snapshot{Overall: d.Overall, PerSection: make(map[string]int, len(d.Sections))}
	for _, s := range d.Sections {
		out.PerSection[s.ID] = s.Percent
	}
	return out
}

func (d Detailed) Section(id string) (SectionProgress, bool) {
	for _, s := range d.Sections {
		if s.ID == id {
			return s, true
		}
	}
	return SectionProgress{}, false
}

func Compute(form *schema.Form, tree model.ValueTree) Snapshot {
	return ComputeDetailed(form, tree).Snapshot()
}

// ComputeDetailed counts filled vs answerable slots per section. Overall progress is the
// rounded mean of the section percentages, so every section weighs the same regardless of
// its size.
func ComputeDetailed(form *schema.Form, tree model.ValueTree) Detailed {
	out := Detailed{Sections: []SectionProgress{}}
	if form == nil {
		return out
	}
	sum := 0
	for _, sec := range form.Sections {
		sp := SectionProgress{ID: sec.ID, Title: sec.Title}
		for _, it := range sec.Items {
			if !IsVisible(it, tree) {
				continue
			}
			filled, slots := ItemSlots(it, tree)
			sp.Filled += filled
			sp.Slots += slots
		}
		sp.Percent = percent(sp.Filled, sp.Slots)
		sum += sp.Percent
		out.Sections = append(out.Sections, sp)
	}
	if len(out.Sections) > 0 {
		out.Overall = int(math.Round(float64(sum) / float64(len(out.Sections))))
	}
	return out
}

func percent(filled, slots int) int {
	if slots == 0 {
		return 0
	}
	return int(math.Round(100 * float64(filled) / float64(slots)))
}

// ItemSlots returns how many answer slots an item has and how many are filled.
// Values of the wrong type count as unfilled.
func ItemSlots(it schema.Item, tree model.ValueTree) (filled, slots int) {
	v, _ := tree.Lookup(it.Path)
	switch it.Type {
	case schema.ItemCheckbox:
		if b, ok := v.(bool); ok && b {
			return 1, 1
		}
		if !it.NotApplicable.Empty() {
			if na, _ := tree.Lookup(it.NotApplicable); na == true {
				return 1, 1
			}
		}
		return 0, 1

	case schema.ItemMultiCheckbox:
		m, _ := v.(map[string]any)
		for _, s := range it.SubItems {
			if b, ok := m[s.ID].(bool); ok && b {
				filled++
			}
		}
		return filled, len(it.SubItems)

	case schema.ItemRadio, schema.ItemSelect:
		if s, ok := v.(string); ok && s != "" {
			return 1, 1
		}
		return 0, 1

	case schema.ItemText:
		if s, ok := v.(string); ok && strings.TrimSpace(s) != "" {
			return 1, 1
		}
		return 0, 1

	case schema.ItemNumericRating:
		if ratingInRange(it, v) {
			return 1, 1
		}
		return 0, 1

	case schema.ItemDualRating:
		m, _ := v.(map[string]any)
		for _, side := range schema.DualSides {
			if _, ok := asNumber(m[side]); ok {
				filled++
			}
		}
		return filled, len(schema.DualSides)
	}
	return 0, 0
}

func ratingInRange(it schema.Item, v any) bool {
	f, ok := asNumber(v)
	if !ok || f != math.Trunc(f) {
		return false
	}
	lo, hi, ok := it.RatingRange()
	if !ok {
		return false
	}
	return f >= float64(lo) && f <= float64(hi)
}

func asNumber(v any) (float64, bool) {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int64:
		f = float64(n)
	case int32:
		f = float64(n)
	case json.Number:
		parsed, err := n.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
