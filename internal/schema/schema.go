package schema

import (
	"strconv"
	"strings"
)

type ItemType string

const (
	ItemCheckbox      ItemType = "checkbox"
	ItemMultiCheckbox ItemType = "multiCheckbox"
	ItemRadio         ItemType = "radio"
	ItemSelect        ItemType = "select"
	ItemText          ItemType = "text"
	ItemDualRating    ItemType = "dualRating"
	ItemNumericRating ItemType = "numericRating"
)

// Dual rating sides. These are also the map keys stored under a dualRating value.
const (
	SideClinician       = "clinician"
	SideCareCoordinator = "careCoordinator"
)

// DualSides lists dual rating sides in display order.
var DualSides = []string{SideClinician, SideCareCoordinator}

type CompareMode string

const (
	CompareEquals    CompareMode = "equals"
	CompareNotEquals CompareMode = "notEquals"
)

// Condition gates an item on the current value of another field.
type Condition struct {
	Field FieldPath   `json:"fieldPath"`
	Mode  CompareMode `json:"mode"`
	Value string      `json:"compareValue"`
}

type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`

	// NotApplicable marks the "N/A" choice. It still counts as an answer for
	// radio/select items but never widens a numeric rating's range.
	NotApplicable bool `json:"notApplicable,omitempty"`
}

type SubItem struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

type Item struct {
	ID    string   `json:"id"`
	Label string   `json:"label"`
	Type  ItemType `json:"itemType"`

	// Path is where the answer lives in the value tree (section.item unless overridden).
	Path FieldPath `json:"path"`

	SubItems []SubItem `json:"subItems,omitempty"`
	Options  []Option  `json:"options,omitempty"`

	// NotApplicable is the path of the paired boolean "N/A" flag of a checkbox, if any.
	NotApplicable FieldPath `json:"notApplicable,omitempty"`

	ConditionalOn *Condition `json:"conditionalOn,omitempty"`

	// DefaultToday seeds a text field with the creation date (YYYY-MM-DD).
	DefaultToday bool `json:"defaultToday,omitempty"`

	// Display-only filters; never consulted by progress.
	ChildFirstOnly      bool `json:"childFirstOnly,omitempty"`
	ClinicianOnly       bool `json:"clinicianOnly,omitempty"`
	CareCoordinatorOnly bool `json:"careCoordinatorOnly,omitempty"`
}

type Section struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Items []Item `json:"items"`
}

// Form is the static schema of one form variant.
type Form struct {
	Variant  Variant   `json:"variant"`
	Title    string    `json:"title"`
	Sections []Section `json:"sections"`
}

// RatingRange returns the inclusive integer range declared by a numeric rating's options.
// Non-numeric and N/A options are ignored.
func (it Item) RatingRange() (lo, hi int, ok bool) {
	for _, o := range it.Options {
		if o.NotApplicable {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSpace(o.Value))
		if err != nil {
			continue
		}
		if !ok {
			lo, hi, ok = n, n, true
			continue
		}
		if n < lo {
			lo = n
		}
		if n > hi {
			hi = n
		}
	}
	return lo, hi, ok
}

func (it Item) Option(value string) (Option, bool) {
	for _, o := range it.Options {
		if o.Value == value {
			return o, true
		}
	}
	return Option{}, false
}

func (f *Form) Section(id string) (*Section, bool) {
	if f == nil {
		return nil, false
	}
	for i := range f.Sections {
		if f.Sections[i].ID == id {
			return &f.Sections[i], true
		}
	}
	return nil, false
}

// Item finds an item by section and item id.
func (f *Form) Item(sectionID, itemID string) (Item, bool) {
	sec, ok := f.Section(sectionID)
	if !ok {
		return Item{}, false
	}
	for _, it := range sec.Items {
		if it.ID == itemID {
			return it, true
		}
	}
	return Item{}, false
}

// ItemCount returns the number of items across all sections.
func (f *Form) ItemCount() int {
	if f == nil {
		return 0
	}
	n := 0
	for _, s := range f.Sections {
		n += len(s.Items)
	}
	return n
}
