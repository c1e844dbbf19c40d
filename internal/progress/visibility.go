package progress

import (
	"encoding/json"
	"strconv"

	"fidelity-cli/internal/model"
	"fidelity-cli/internal/schema"
)

// IsVisible reports whether an item is currently relevant. Rendering, navigation and the
// progress calculator all call this so they cannot disagree.
//
// A condition whose field path cannot be resolved (some key along the path is missing)
// leaves the item visible. An empty answer to the trigger field hides notEquals items:
// an unanswered trigger never satisfies the condition.
func IsVisible(item schema.Item, tree model.ValueTree) bool {
	c := item.ConditionalOn
	if c == nil {
		return true
	}
	raw, ok := tree.Lookup(c.Field)
	if !ok {
		return true
	}
	v := comparable(raw)
	switch c.Mode {
	case schema.CompareNotEquals:
		return v != c.Value && v != ""
	case schema.CompareEquals:
		return v == c.Value
	}
	return true
}

// comparable renders a stored value as the string a condition compares against.
func comparable(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case bool:
		return strconv.FormatBool(x)
	}
	if f, ok := asNumber(v); ok {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(b)
}
