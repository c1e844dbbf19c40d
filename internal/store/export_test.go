package store

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"fidelity-cli/internal/schema"
)

func TestExportImport_RoundTrip(t *testing.T) {
	db := NewDB()
	id, _ := db.CreateCase(schema.VariantSupervision, "Team A", "TA")
	db.SetField(id, schema.MustPath("reflectiveSupervision", "exploresReactions", "clinician"), 2)
	db.SetField(id, schema.MustPath("caseDiscussion", "topicsCovered", "safety"), true)
	db.SetField(id, schema.MustPath("extra", "unknownKey"), "kept")

	out, ok := db.ExportCase(id)
	if !ok {
		t.Fatalf("ExportCase failed")
	}
	var doc map[string]any
	if err := json.Unmarshal([]byte(out), &doc); err != nil {
		t.Fatalf("export is not JSON: %v", err)
	}
	for _, k := range []string{"meta", "valueTree"} {
		if _, ok := doc[k]; !ok {
			t.Fatalf("export missing %q: %s", k, out)
		}
	}

	newID, ok := db.ImportCase([]byte(out), schema.VariantFoundational)
	if !ok {
		t.Fatalf("ImportCase failed")
	}
	if newID == id {
		t.Fatalf("import reused the exported id")
	}
	orig, _ := db.FindCase(id)
	imp, _ := db.FindCase(newID)
	if diff := cmp.Diff(orig.ValueTree, imp.ValueTree); diff != "" {
		t.Fatalf("round-trip tree mismatch (-orig +imported):\n%s", diff)
	}
	if imp.SchemaVariant != schema.VariantSupervision {
		t.Fatalf("variant: got %q", imp.SchemaVariant)
	}
	if imp.Meta.Name != "Team A" || db.CurrentCaseID != newID {
		t.Fatalf("unexpected import state: %+v current=%s", imp.Meta, db.CurrentCaseID)
	}
}

func TestExportCase_UnknownID(t *testing.T) {
	db := NewDB()
	if s, ok := db.ExportCase("missing"); ok || s != "" {
		t.Fatalf("expected failure; got %q", s)
	}
}

func TestImportCase_FailuresLeaveStoreUntouched(t *testing.T) {
	cases := []struct {
		name string
		in   string
	}{
		{"not json", `{"meta":`},
		{"missing tree", `{"meta":{"name":"x"}}`},
		{"array tree", `{"meta":{},"valueTree":[1,2]}`},
		{"string tree", `{"meta":{},"valueTree":"oops"}`},
		{"null tree", `{"meta":{},"valueTree":null}`},
		{"bad variant", `{"schemaVariant":"nope","meta":{},"valueTree":{}}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			db := NewDB()
			cur, _ := db.CreateCase(schema.VariantLegacy, "Keep", "")
			before := db.Clone()

			id, err := db.ImportCaseDetailed([]byte(tc.in), schema.VariantLegacy)
			if err == nil || id != "" {
				t.Fatalf("expected failure; got id=%q", id)
			}
			var ie *ImportError
			if !errors.As(err, &ie) {
				t.Fatalf("expected *ImportError; got %T", err)
			}
			if diff := cmp.Diff(before, db); diff != "" {
				t.Fatalf("store mutated (-before +after):\n%s", diff)
			}
			if db.CurrentCaseID != cur {
				t.Fatalf("current case changed")
			}
		})
	}
}

func TestImportCase_FallbackVariantAndMissingTimestamps(t *testing.T) {
	db := NewDB()
	id, ok := db.ImportCase([]byte(`{"meta":{"name":"Bare"},"valueTree":{"checklist":{"overall":2}}}`), schema.VariantLegacy)
	if !ok {
		t.Fatalf("ImportCase failed")
	}
	c, _ := db.FindCase(id)
	if c.SchemaVariant != schema.VariantLegacy {
		t.Fatalf("fallback variant not applied: %q", c.SchemaVariant)
	}
	if c.Meta.CreatedAt.IsZero() || c.Meta.UpdatedAt.IsZero() {
		t.Fatalf("timestamps not filled: %+v", c.Meta)
	}
}

func TestImportCase_TolerantMetaTimestamps(t *testing.T) {
	now := time.Date(2026, 3, 2, 9, 30, 0, 0, time.UTC)
	freezeClock(t, now)
	stamp := time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)

	cases := []struct {
		name        string
		meta        string
		wantCreated time.Time
		wantUpdated time.Time
	}{
		{"rfc3339", `{"createdAt":"2024-05-06T07:08:09Z","updatedAt":"2024-05-06T07:08:09Z"}`, stamp, stamp},
		{"empty strings", `{"createdAt":"","updatedAt":""}`, now, now},
		{"epoch millis", `{"createdAt":1714979289000}`, stamp, stamp},
		{"unparseable string", `{"createdAt":"yesterday","updatedAt":"2024-05-06T07:08:09Z"}`, now, stamp},
		{"wrong type", `{"createdAt":{"at":1},"updatedAt":[1]}`, now, now},
		{"null", `{"createdAt":null,"updatedAt":null}`, now, now},
		{"null meta", `null`, now, now},
		{"meta not an object", `"Team A"`, now, now},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			db := NewDB()
			in := `{"meta":` + tc.meta + `,"valueTree":{}}`
			id, err := db.ImportCaseDetailed([]byte(in), schema.VariantLegacy)
			if err != nil {
				t.Fatalf("ImportCaseDetailed: %v", err)
			}
			c, _ := db.FindCase(id)
			if !c.Meta.CreatedAt.Equal(tc.wantCreated) {
				t.Fatalf("createdAt: got %s want %s", c.Meta.CreatedAt, tc.wantCreated)
			}
			if !c.Meta.UpdatedAt.Equal(tc.wantUpdated) {
				t.Fatalf("updatedAt: got %s want %s", c.Meta.UpdatedAt, tc.wantUpdated)
			}
		})
	}
}

func TestImportCase_MetaNameWrongTypeIsDropped(t *testing.T) {
	db := NewDB()
	id, err := db.ImportCaseDetailed([]byte(`{"meta":{"name":42,"clientInitials":"AB"},"valueTree":{}}`), schema.VariantLegacy)
	if err != nil {
		t.Fatalf("ImportCaseDetailed: %v", err)
	}
	c, _ := db.FindCase(id)
	if c.Meta.Name != "" || c.Meta.ClientInitials != "AB" {
		t.Fatalf("unexpected meta: %+v", c.Meta)
	}
}

func TestImportError_Message(t *testing.T) {
	err := &ImportError{Reason: "valueTree must be an object"}
	if !strings.Contains(err.Error(), "valueTree must be an object") {
		t.Fatalf("unexpected message: %s", err)
	}
}
