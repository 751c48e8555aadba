package multidoc

import "errors"

var (
	// ErrConfiguration is returned when document configuration is malformed
	// or incomplete. Registration aborts without touching router or spec.
	ErrConfiguration = errors.New("multidoc: invalid configuration")

	// ErrConflict is returned when a document ref is declared twice, is
	// already claimed on the shared spec, or when two serving endpoints
	// resolve to the same path.
	ErrConflict = errors.New("multidoc: conflict")

	// ErrNotFound is returned by queries for a ref that was never registered.
	ErrNotFound = errors.New("multidoc: document not found")
)
