package store

import "github.com/google/uuid"

// newCaseID returns a random (v4) UUID.
func newCaseID() string {
	return uuid.NewString()
}
