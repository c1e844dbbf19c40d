package store

import (
	"strings"
	"time"

	"fidelity-cli/internal/model"
	"fidelity-cli/internal/schema"
)

var nowUTC = func() time.Time { return time.Now().UTC() }

// CreateCase inserts a case seeded with the variant's defaults and makes it current.
// It returns "" and false for an unknown variant.
func (db *DB) CreateCase(v schema.Variant, name, clientInitials string) (string, bool) {
	form, ok := schema.For(v)
	if !ok {
		return "", false
	}
	now := nowUTC()
	c := model.Case{
		ID:            db.newCaseID(),
		SchemaVariant: v,
		ValueTree:     model.ValueTree(form.Defaults(now)),
		Meta: model.CaseMeta{
			Name:           strings.TrimSpace(name),
			ClientInitials: strings.TrimSpace(clientInitials),
			CreatedAt:      now,
			UpdatedAt:      now,
		},
	}
	db.insert(c)
	return c.ID, true
}

func (db *DB) insert(c model.Case) {
	db.Cases = append(db.Cases, c)
	db.CaseOrder = append(db.CaseOrder, c.ID)
	db.CurrentCaseID = c.ID
}

// SelectCase makes id current. Unknown ids are a no-op.
func (db *DB) SelectCase(id string) bool {
	c, ok := db.FindCase(id)
	if !ok {
		return false
	}
	db.CurrentCaseID = c.ID
	return true
}

// DeleteCase removes a case. Deleting the current case leaves no case current.
func (db *DB) DeleteCase(id string) bool {
	id = strings.TrimSpace(id)
	idx := -1
	for i := range db.Cases {
		if db.Cases[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return false
	}
	db.Cases = append(db.Cases[:idx], db.Cases[idx+1:]...)
	order := db.CaseOrder[:0]
	for _, oid := range db.CaseOrder {
		if oid != id {
			order = append(order, oid)
		}
	}
	db.CaseOrder = order
	if db.CurrentCaseID == id {
		db.CurrentCaseID = ""
	}
	return true
}

// DuplicateCase deep-copies a case under a new id with fresh timestamps and makes the copy current.
func (db *DB) DuplicateCase(id string) (string, bool) {
	src, ok := db.FindCase(id)
	if !ok {
		return "", false
	}
	now := nowUTC()
	cp := src.Clone()
	cp.ID = db.newCaseID()
	cp.Meta.CreatedAt = now
	cp.Meta.UpdatedAt = now
	db.insert(cp)
	return cp.ID, true
}

// UpdateMeta renames a case and/or changes its client initials. nil leaves a field untouched.
func (db *DB) UpdateMeta(id string, name, clientInitials *string) bool {
	c, ok := db.FindCase(id)
	if !ok {
		return false
	}
	if name != nil {
		c.Meta.Name = strings.TrimSpace(*name)
	}
	if clientInitials != nil {
		c.Meta.ClientInitials = strings.TrimSpace(*clientInitials)
	}
	c.Meta.UpdatedAt = nowUTC()
	return true
}

// SetField writes one value into a case's tree.
func (db *DB) SetField(id string, path schema.FieldPath, v any) bool {
	c, ok := db.FindCase(id)
	if !ok || path.Empty() {
		return false
	}
	c.ValueTree.Set(path, v)
	c.Meta.UpdatedAt = nowUTC()
	return true
}

func (db *DB) newCaseID() string {
	for {
		id := newCaseID()
		if _, taken := db.FindCase(id); !taken {
			return id
		}
	}
}
