package model

import (
	"time"

	"fidelity-cli/internal/schema"
)

type CaseMeta struct {
	Name           string    `json:"name"`
	ClientInitials string    `json:"clientInitials"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// Case is one filled-in form instance.
type Case struct {
	ID            string         `json:"id"`
	SchemaVariant schema.Variant `json:"schemaVariant"`
	ValueTree     ValueTree      `json:"valueTree"`
	Meta          CaseMeta       `json:"meta"`
}

// Clone returns a deep copy; the value trees share no maps.
func (c Case) Clone() Case {
	out := c
	out.ValueTree = c.ValueTree.Clone()
	return out
}
