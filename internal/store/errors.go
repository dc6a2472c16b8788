package store

import "errors"

// Sentinel errors returned by the stores. Callers match them with
// errors.Is and translate them at the handler boundary; anything else
// is treated as a store failure and surfaces as a generic 500.
var (
	// ErrNotFound covers both "no such row" and "row owned by someone
	// else" for owner-scoped queries, so callers cannot tell the two
	// apart.
	ErrNotFound = errors.New("not found")

	// ErrUsernameTaken is returned when an insert hits the unique
	// constraint on accounts.username.
	ErrUsernameTaken = errors.New("username already exists")

	// ErrForbidden is returned when an item is added to a list the
	// caller does not own.
	ErrForbidden = errors.New("list not owned by caller")
)
