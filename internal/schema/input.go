package schema

import (
	"fmt"
	"strconv"
	"strings"
)

// FieldRef is the schema entry a value-tree path points at.
type FieldRef struct {
	SectionID string
	Item      Item

	// Sub is the sub-item id (multiCheckbox) or side (dualRating) when the path points inside the item.
	Sub string
	// NA is set when the path is the item's paired N/A flag.
	NA bool
}

// Resolve maps a path to the item that owns it.
func (f *Form) Resolve(path FieldPath) (FieldRef, bool) {
	if f == nil || path.Empty() {
		return FieldRef{}, false
	}
	for _, sec := range f.Sections {
		for _, it := range sec.Items {
			if path.Equal(it.Path) {
				return FieldRef{SectionID: sec.ID, Item: it}, true
			}
			if !it.NotApplicable.Empty() && path.Equal(it.NotApplicable) {
				return FieldRef{SectionID: sec.ID, Item: it, NA: true}, true
			}
			if len(path) == len(it.Path)+1 && path.HasPrefix(it.Path) {
				sub := path[len(path)-1]
				switch it.Type {
				case ItemMultiCheckbox:
					for _, s := range it.SubItems {
						if s.ID == sub {
							return FieldRef{SectionID: sec.ID, Item: it, Sub: sub}, true
						}
					}
				case ItemDualRating:
					for _, side := range DualSides {
						if side == sub {
							return FieldRef{SectionID: sec.ID, Item: it, Sub: sub}, true
						}
					}
				}
			}
		}
	}
	return FieldRef{}, false
}

// CoerceInput converts user text into the value type stored at path.
func (f *Form) CoerceInput(path FieldPath, raw string) (any, error) {
	ref, ok := f.Resolve(path)
	if !ok {
		return nil, fmt.Errorf("unknown field: %s", path)
	}
	it := ref.Item
	if ref.NA {
		return parseBool(raw)
	}
	switch it.Type {
	case ItemCheckbox:
		return parseBool(raw)
	case ItemMultiCheckbox:
		if ref.Sub == "" {
			return nil, fmt.Errorf("%s: set one sub-item at a time (e.g. %s.%s)", path, path, it.SubItems[0].ID)
		}
		return parseBool(raw)
	case ItemRadio, ItemSelect:
		raw = strings.TrimSpace(raw)
		if raw == "" {
			return "", nil
		}
		for _, o := range it.Options {
			if o.Value == raw || strings.EqualFold(o.Label, raw) {
				return o.Value, nil
			}
		}
		return nil, fmt.Errorf("%s: %q is not one of %s", path, raw, optionValues(it.Options))
	case ItemText:
		return raw, nil
	case ItemNumericRating:
		return parseRating(path, it, raw)
	case ItemDualRating:
		if ref.Sub == "" {
			return nil, fmt.Errorf("%s: set one side at a time (%s.%s or %s.%s)", path, path, SideClinician, path, SideCareCoordinator)
		}
		return parseRating(path, it, raw)
	}
	return nil, fmt.Errorf("%s: unsupported item type %q", path, it.Type)
}

func parseBool(raw string) (any, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "true", "yes", "y", "1", "x", "on":
		return true, nil
	case "false", "no", "n", "0", "", "off":
		return false, nil
	}
	return nil, fmt.Errorf("not a boolean: %q", raw)
}

func parseRating(path FieldPath, it Item, raw string) (any, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" || strings.EqualFold(raw, "null") {
		return nil, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: rating must be an integer: %q", path, raw)
	}
	lo, hi, _ := it.RatingRange()
	if n < lo || n > hi {
		return nil, fmt.Errorf("%s: rating %d outside %d..%d", path, n, lo, hi)
	}
	return float64(n), nil
}

func optionValues(options []Option) string {
	vals := make([]string, 0, len(options))
	for _, o := range options {
		vals = append(vals, o.Value)
	}
	return strings.Join(vals, "|")
}
