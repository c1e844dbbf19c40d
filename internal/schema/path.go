package schema

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// FieldPath addresses a value inside a case's value tree, one map key per segment.
// Paths are parsed once when the static tables are built, so traversal never has to
// re-split strings.
type FieldPath []string

func ParsePath(s string) (FieldPath, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, errors.New("empty field path")
	}
	parts := strings.Split(s, ".")
	out := make(FieldPath, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			return nil, fmt.Errorf("invalid field path %q: empty segment", s)
		}
		out = append(out, p)
	}
	return out, nil
}

// MustPath builds a path from already-split segments. Used by the static tables.
func MustPath(segs ...string) FieldPath {
	var out FieldPath
	for _, s := range segs {
		p, err := ParsePath(s)
		if err != nil {
			panic(err)
		}
		out = append(out, p...)
	}
	return out
}

func (p FieldPath) String() string { return strings.Join(p, ".") }

func (p FieldPath) Empty() bool { return len(p) == 0 }

func (p FieldPath) Equal(o FieldPath) bool {
	if len(p) != len(o) {
		return false
	}
	for i := range p {
		if p[i] != o[i] {
			return false
		}
	}
	return true
}

// Child returns a copy of p extended by seg.
func (p FieldPath) Child(seg string) FieldPath {
	out := make(FieldPath, 0, len(p)+1)
	out = append(out, p...)
	return append(out, seg)
}

// HasPrefix reports whether p starts with every segment of prefix.
func (p FieldPath) HasPrefix(prefix FieldPath) bool {
	if len(prefix) > len(p) {
		return false
	}
	return p[:len(prefix)].Equal(prefix)
}

func (p FieldPath) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.String())
}

func (p *FieldPath) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	if strings.TrimSpace(s) == "" {
		*p = nil
		return nil
	}
	parsed, err := ParsePath(s)
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}
