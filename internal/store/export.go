package store

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"fidelity-cli/internal/model"
	"fidelity-cli/internal/schema"
)

// ExportDocument is the portable shape of one case: meta plus valueTree. schemaVariant is an
// extension on top of that shape; it is always written and optional on import.
type ExportDocument struct {
	SchemaVariant schema.Variant  `json:"schemaVariant,omitempty"`
	Meta          model.CaseMeta  `json:"meta"`
	ValueTree     json.RawMessage `json:"valueTree"`
}

// ImportError explains why a document was rejected.
type ImportError struct {
	Reason string
	Err    error
}

func (e *ImportError) Error() string {
	if e.Err != nil {
		return "import: " + e.Reason + ": " + e.Err.Error()
	}
	return "import: " + e.Reason
}

func (e *ImportError) Unwrap() error { return e.Err }

// importDocument is what ImportCaseDetailed accepts. meta is decoded field by field so that a
// malformed timestamp or name costs that field only.
type importDocument struct {
	SchemaVariant schema.Variant  `json:"schemaVariant"`
	Meta          json.RawMessage `json:"meta"`
	ValueTree     json.RawMessage `json:"valueTree"`
}

type importMeta struct {
	Name           json.RawMessage `json:"name"`
	ClientInitials json.RawMessage `json:"clientInitials"`
	CreatedAt      json.RawMessage `json:"createdAt"`
	UpdatedAt      json.RawMessage `json:"updatedAt"`
}

func decodeImportMeta(raw json.RawMessage) model.CaseMeta {
	var m importMeta
	if err := json.Unmarshal(raw, &m); err != nil {
		return model.CaseMeta{}
	}
	return model.CaseMeta{
		Name:           decodeString(m.Name),
		ClientInitials: decodeString(m.ClientInitials),
		CreatedAt:      decodeTimestamp(m.CreatedAt),
		UpdatedAt:      decodeTimestamp(m.UpdatedAt),
	}
}

func decodeString(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return s
}

// decodeTimestamp reads an RFC 3339 string or a number of epoch milliseconds. Anything else,
// including "" and null, is the zero time.
func decodeTimestamp(raw json.RawMessage) time.Time {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return time.Time{}
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return time.Time{}
		}
		t, err := time.Parse(time.RFC3339Nano, strings.TrimSpace(s))
		if err != nil {
			return time.Time{}
		}
		return t
	}
	var ms float64
	if err := json.Unmarshal(raw, &ms); err != nil || ms <= 0 {
		return time.Time{}
	}
	return time.UnixMilli(int64(ms)).UTC()
}

// ExportCase serializes a case as indented JSON. Unknown ids return "", false.
func (db *DB) ExportCase(id string) (string, bool) {
	c, ok := db.FindCase(id)
	if !ok {
		return "", false
	}
	tree := c.ValueTree
	if tree == nil {
		tree = model.ValueTree{}
	}
	vt, err := json.Marshal(tree)
	if err != nil {
		return "", false
	}
	doc := ExportDocument{SchemaVariant: c.SchemaVariant, Meta: c.Meta, ValueTree: vt}
	b, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", false
	}
	return string(b), true
}

// ImportCase inserts the document as a new current case. Any failure leaves db untouched.
func (db *DB) ImportCase(data []byte, fallback schema.Variant) (string, bool) {
	id, err := db.ImportCaseDetailed(data, fallback)
	return id, err == nil
}

// ImportCaseDetailed is ImportCase with the rejection reason. The imported id, if any, is
// never reused.
func (db *DB) ImportCaseDetailed(data []byte, fallback schema.Variant) (string, error) {
	var doc importDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return "", &ImportError{Reason: "invalid JSON", Err: err}
	}
	raw := bytes.TrimSpace(doc.ValueTree)
	if len(raw) == 0 || raw[0] != '{' {
		return "", &ImportError{Reason: "valueTree must be an object"}
	}
	var tree map[string]any
	if err := json.Unmarshal(raw, &tree); err != nil {
		return "", &ImportError{Reason: "valueTree must be an object", Err: err}
	}

	variant := doc.SchemaVariant
	if strings.TrimSpace(string(variant)) == "" {
		variant = fallback
	}
	v, err := schema.ParseVariant(string(variant))
	if err != nil {
		return "", &ImportError{Reason: fmt.Sprintf("unknown schema variant %q", variant), Err: err}
	}

	now := nowUTC()
	meta := decodeImportMeta(doc.Meta)
	if meta.CreatedAt.IsZero() {
		meta.CreatedAt = now
	}
	if meta.UpdatedAt.IsZero() {
		meta.UpdatedAt = meta.CreatedAt
	}
	c := model.Case{
		ID:            db.newCaseID(),
		SchemaVariant: v,
		ValueTree:     model.ValueTree(tree),
		Meta:          meta,
	}
	db.insert(c)
	return c.ID, nil
}
