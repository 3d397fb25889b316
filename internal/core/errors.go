package core

import "errors"

// Error kinds shared by every quiz package. Returned errors wrap one of these
// with a package prefix, so callers match them with errors.Is.
var (
	// ErrNotFound is returned for lookups of an unknown game identity.
	ErrNotFound = errors.New("not found")

	// ErrInvalidState is returned when a round transition is attempted from
	// the wrong phase (e.g. Advance before Submit).
	ErrInvalidState = errors.New("invalid state")

	// ErrConfiguration marks malformed catalog data: out-of-range correct
	// index, too few options, duplicate game IDs.
	ErrConfiguration = errors.New("configuration error")
)
