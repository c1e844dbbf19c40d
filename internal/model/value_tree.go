package model

import (
	"encoding/json"
	"reflect"

	"fidelity-cli/internal/schema"
)

// ValueTree holds a case's answers as JSON-shaped data: nested map[string]any whose
// leaves are bool, string, float64 or nil.
type ValueTree map[string]any

// Lookup walks path key by key. ok is false when any key along the way is missing or
// an intermediate value is not an object.
func (t ValueTree) Lookup(path schema.FieldPath) (any, bool) {
	if len(path) == 0 {
		return nil, false
	}
	var cur any = map[string]any(t)
	for _, seg := range path {
		m, ok := asObject(cur)
		if !ok {
			return nil, false
		}
		v, ok := m[seg]
		if !ok {
			return nil, false
		}
		cur = v
	}
	return cur, true
}

// Set stores v at path, creating (or replacing non-object) intermediate values.
// v is normalized to its JSON shape first so typed Go values (ints, map[string]bool, ...)
// compare equal to what a later import produces.
func (t ValueTree) Set(path schema.FieldPath, v any) {
	if t == nil || len(path) == 0 {
		return
	}
	cur := map[string]any(t)
	for _, seg := range path[:len(path)-1] {
		next, ok := asObject(cur[seg])
		if !ok {
			next = map[string]any{}
		}
		cur[seg] = next
		cur = next
	}
	cur[path[len(path)-1]] = Normalize(v)
}

// Clone deep-copies the tree. A nil tree clones to an empty one.
func (t ValueTree) Clone() ValueTree {
	if t == nil {
		return ValueTree{}
	}
	return ValueTree(cloneObject(t))
}

// Normalize converts v to the JSON data model (objects, arrays, strings, float64, bool, nil).
func Normalize(v any) any {
	switch x := v.(type) {
	case nil, bool, string, float64:
		return x
	case ValueTree:
		return cloneObject(x)
	case map[string]any:
		return cloneObject(x)
	case []any:
		out := make([]any, len(x))
		for i := range x {
			out[i] = Normalize(x[i])
		}
		return out
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	var out any
	if err := json.Unmarshal(b, &out); err != nil {
		return nil
	}
	return out
}

func cloneObject(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = Normalize(v)
	}
	return out
}

func asObject(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, m != nil
	case ValueTree:
		return map[string]any(m), m != nil
	}
	// Foreign map types (e.g. map[string]bool built in code) are readable too.
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Map || rv.Type().Key().Kind() != reflect.String || rv.IsNil() {
		return nil, false
	}
	out := make(map[string]any, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		out[iter.Key().String()] = iter.Value().Interface()
	}
	return out, true
}
