package store

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"

	"fidelity-cli/internal/schema"
)

func TestCreateCase_SeedsDefaultsAndBecomesCurrent(t *testing.T) {
	freezeClock(t, time.Date(2026, 5, 4, 8, 0, 0, 0, time.UTC))
	db := NewDB()

	id, ok := db.CreateCase(schema.VariantTermination, "  Lee family ", " KL ")
	if !ok {
		t.Fatalf("CreateCase failed")
	}
	if _, err := uuid.Parse(id); err != nil {
		t.Fatalf("id %q is not a UUID: %v", id, err)
	}
	c, ok := db.Current()
	if !ok || c.ID != id {
		t.Fatalf("expected new case to be current")
	}
	if c.Meta.Name != "Lee family" || c.Meta.ClientInitials != "KL" {
		t.Fatalf("meta not trimmed: %+v", c.Meta)
	}
	if v, ok := c.ValueTree.Lookup(schema.MustPath("terminationInfo", "closingDate")); !ok || v != "2026-05-04" {
		t.Fatalf("closingDate default: %v %v", v, ok)
	}
	if v, ok := c.ValueTree.Lookup(schema.MustPath("terminationInfo", "terminationType")); !ok || v != "" {
		t.Fatalf("terminationType default: %#v %v", v, ok)
	}
}

func TestCreateCase_UnknownVariant(t *testing.T) {
	db := NewDB()
	if id, ok := db.CreateCase(schema.Variant("bogus"), "x", ""); ok || id != "" {
		t.Fatalf("expected failure; got %q %v", id, ok)
	}
	if len(db.Cases) != 0 {
		t.Fatalf("store mutated")
	}
}

func TestSelectCase(t *testing.T) {
	db := NewDB()
	a, _ := db.CreateCase(schema.VariantLegacy, "A", "")
	b, _ := db.CreateCase(schema.VariantLegacy, "B", "")
	if db.CurrentCaseID != b {
		t.Fatalf("expected %s current", b)
	}
	if !db.SelectCase(a) || db.CurrentCaseID != a {
		t.Fatalf("select a failed")
	}
	if db.SelectCase("missing") || db.CurrentCaseID != a {
		t.Fatalf("unknown id must be a no-op")
	}
}

func TestDeleteCase(t *testing.T) {
	db := NewDB()
	a, _ := db.CreateCase(schema.VariantLegacy, "A", "")
	b, _ := db.CreateCase(schema.VariantLegacy, "B", "")

	if db.DeleteCase("missing") {
		t.Fatalf("unknown id reported deleted")
	}
	if !db.DeleteCase(a) {
		t.Fatalf("delete a failed")
	}
	if db.CurrentCaseID != b {
		t.Fatalf("deleting a non-current case changed current: %q", db.CurrentCaseID)
	}
	if !db.DeleteCase(b) {
		t.Fatalf("delete b failed")
	}
	if db.CurrentCaseID != "" || len(db.Cases) != 0 || len(db.CaseOrder) != 0 {
		t.Fatalf("expected empty store; got %+v", db)
	}
}

func TestDuplicateCase_IsIndependent(t *testing.T) {
	advance := freezeClock(t, time.Date(2026, 5, 4, 8, 0, 0, 0, time.UTC))
	db := NewDB()
	src, _ := db.CreateCase(schema.VariantFoundational, "Orig", "AB")
	db.SetField(src, schema.MustPath("reflectivePractice", "awareness", "ownEmotions"), true)
	advance(time.Hour)

	cp, ok := db.DuplicateCase(src)
	if !ok || cp == src {
		t.Fatalf("duplicate failed: %q %v", cp, ok)
	}
	if db.CurrentCaseID != cp {
		t.Fatalf("duplicate should become current")
	}
	orig, _ := db.FindCase(src)
	dup, _ := db.FindCase(cp)
	if diff := cmp.Diff(orig.ValueTree, dup.ValueTree); diff != "" {
		t.Fatalf("tree not copied (-orig +dup):\n%s", diff)
	}
	if !dup.Meta.CreatedAt.Equal(time.Date(2026, 5, 4, 9, 0, 0, 0, time.UTC)) || !dup.Meta.UpdatedAt.Equal(dup.Meta.CreatedAt) {
		t.Fatalf("timestamps not reset: %+v", dup.Meta)
	}

	db.SetField(cp, schema.MustPath("reflectivePractice", "awareness", "selfCare"), true)
	orig, _ = db.FindCase(src)
	if v, _ := orig.ValueTree.Lookup(schema.MustPath("reflectivePractice", "awareness", "selfCare")); v != false {
		t.Fatalf("editing the duplicate leaked into the original: %v", v)
	}

	if _, ok := db.DuplicateCase("missing"); ok {
		t.Fatalf("unknown id duplicated")
	}
}

func TestUpdateMeta(t *testing.T) {
	db := NewDB()
	id, _ := db.CreateCase(schema.VariantLegacy, "A", "AA")
	name := "Renamed"
	if !db.UpdateMeta(id, &name, nil) {
		t.Fatalf("UpdateMeta failed")
	}
	c, _ := db.FindCase(id)
	if c.Meta.Name != "Renamed" || c.Meta.ClientInitials != "AA" {
		t.Fatalf("unexpected meta: %+v", c.Meta)
	}
	if db.UpdateMeta("missing", &name, nil) {
		t.Fatalf("unknown id updated")
	}
}

func TestSetField_BumpsUpdatedAt(t *testing.T) {
	advance := freezeClock(t, time.Date(2026, 5, 4, 8, 0, 0, 0, time.UTC))
	db := NewDB()
	id, _ := db.CreateCase(schema.VariantLegacy, "A", "")
	advance(time.Minute)

	if !db.SetField(id, schema.MustPath("checklist", "overall"), 3) {
		t.Fatalf("SetField failed")
	}
	c, _ := db.FindCase(id)
	if v, _ := c.ValueTree.Lookup(schema.MustPath("checklist", "overall")); v != float64(3) {
		t.Fatalf("value not normalized: %#v", v)
	}
	if !c.Meta.UpdatedAt.After(c.Meta.CreatedAt) {
		t.Fatalf("updatedAt not bumped: %+v", c.Meta)
	}
	if db.SetField("missing", schema.MustPath("a"), 1) || db.SetField(id, nil, 1) {
		t.Fatalf("invalid SetField succeeded")
	}
}
