package cli

import (
	"errors"
	"fmt"

	"fidelity-cli/internal/store"
)

type notFoundError struct {
	kind string
	id   string
}

func (e notFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.kind, e.id)
}

func errNotFound(kind, id string) error {
	return notFoundError{kind: kind, id: id}
}

var errNoCurrentCase = errors.New("no current case; run `fidelity cases new --variant <variant>` or `fidelity cases use <case-id>` (or pass --case)")

// errorCode is the stable code written in error envelopes.
func errorCode(err error) string {
	var nf notFoundError
	var imp *store.ImportError
	switch {
	case errors.As(err, &nf):
		return "not_found"
	case errors.Is(err, errNoCurrentCase):
		return "no_current_case"
	case errors.As(err, &imp):
		return "import_rejected"
	}
	return "error"
}
