package model

import (
	"encoding/json"
	"testing"

	"fidelity-cli/internal/schema"

	"github.com/google/go-cmp/cmp"
)

func TestValueTree_LookupMissingIntermediate(t *testing.T) {
	tree := ValueTree{"a": map[string]any{"b": "x"}}

	if v, ok := tree.Lookup(schema.MustPath("a.b")); !ok || v != "x" {
		t.Fatalf("expected a.b=x; got %v ok=%v", v, ok)
	}
	if _, ok := tree.Lookup(schema.MustPath("a.c")); ok {
		t.Fatalf("expected a.c to be missing")
	}
	if _, ok := tree.Lookup(schema.MustPath("z.b")); ok {
		t.Fatalf("expected missing intermediate to fail")
	}
	if _, ok := tree.Lookup(schema.MustPath("a.b.c")); ok {
		t.Fatalf("expected traversal through a string to fail")
	}
}

func TestValueTree_SetCreatesPathAndNormalizes(t *testing.T) {
	tree := ValueTree{}
	tree.Set(schema.MustPath("s.rating"), 2)
	tree.Set(schema.MustPath("s.multi"), map[string]bool{"a": true})
	tree.Set(schema.MustPath("s.text.deep"), "x")

	want := ValueTree{
		"s": map[string]any{
			"rating": float64(2),
			"multi":  map[string]any{"a": true},
			"text":   map[string]any{"deep": "x"},
		},
	}
	if diff := cmp.Diff(want, tree); diff != "" {
		t.Fatalf("tree mismatch (-want +got):\n%s", diff)
	}
}

func TestValueTree_CloneIsDeep(t *testing.T) {
	orig := ValueTree{"s": map[string]any{"m": map[string]any{"a": false}}}
	cp := orig.Clone()
	cp.Set(schema.MustPath("s.m.a"), true)

	if v, _ := orig.Lookup(schema.MustPath("s.m.a")); v != false {
		t.Fatalf("clone mutation leaked into original: %v", v)
	}
}

func TestValueTree_JSONRoundTripStable(t *testing.T) {
	tree := ValueTree{}
	tree.Set(schema.MustPath("a.n"), 3)
	tree.Set(schema.MustPath("a.nil"), nil)
	tree.Set(schema.MustPath("a.b"), true)

	b, err := json.Marshal(tree)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var got ValueTree
	if err := json.Unmarshal(b, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if diff := cmp.Diff(tree, got); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}
}
