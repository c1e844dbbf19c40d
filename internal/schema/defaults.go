package schema

import "time"

// DateLayout is the format of date-valued text fields.
const DateLayout = "2006-01-02"

// Defaults returns a fresh value tree for the form: booleans false, ratings null,
// strings empty (or today's date where the item asks for it). The result only holds
// JSON-shaped values so it survives an export/import round-trip unchanged.
func (f *Form) Defaults(now time.Time) map[string]any {
	root := map[string]any{}
	if f == nil {
		return root
	}
	for _, sec := range f.Sections {
		for _, it := range sec.Items {
			setDefault(root, it.Path, defaultValue(it, now))
			if !it.NotApplicable.Empty() {
				setDefault(root, it.NotApplicable, false)
			}
		}
	}
	return root
}

func defaultValue(it Item, now time.Time) any {
	switch it.Type {
	case ItemCheckbox:
		return false
	case ItemMultiCheckbox:
		m := make(map[string]any, len(it.SubItems))
		for _, s := range it.SubItems {
			m[s.ID] = false
		}
		return m
	case ItemRadio, ItemSelect:
		return ""
	case ItemText:
		if it.DefaultToday {
			return now.Format(DateLayout)
		}
		return ""
	case ItemDualRating:
		m := make(map[string]any, len(DualSides))
		for _, side := range DualSides {
			m[side] = nil
		}
		return m
	case ItemNumericRating:
		return nil
	default:
		return nil
	}
}

func setDefault(root map[string]any, path FieldPath, v any) {
	if path.Empty() {
		return
	}
	cur := root
	for _, seg := range path[:len(path)-1] {
		next, ok := cur[seg].(map[string]any)
		if !ok {
			next = map[string]any{}
			cur[seg] = next
		}
		cur = next
	}
	cur[path[len(path)-1]] = v
}
