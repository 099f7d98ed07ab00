package ledger

import "errors"

// Failure kinds returned by the ledger and surfaced to API callers.
// Handlers match with errors.Is and translate to a status code plus a
// machine-readable kind string.
var (
	// ErrValidation is returned for malformed or missing fields.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidIdentifier is returned for a malformed id, before any query.
	ErrInvalidIdentifier = errors.New("invalid identifier")

	// ErrNotFound is returned when a referenced user, group or expense is absent.
	ErrNotFound = errors.New("not found")

	// ErrSplitMismatch is returned when split amounts or percentages don't
	// sum to the expense total.
	ErrSplitMismatch = errors.New("split mismatch")

	// ErrConflict is reserved for future concurrent-update detection.
	ErrConflict = errors.New("conflict")
)

// Kind returns the machine-readable kind for a ledger error, or "internal"
// for anything outside the taxonomy.
func Kind(err error) string {
	switch {
	case errors.Is(err, ErrValidation):
		return "validation"
	case errors.Is(err, ErrInvalidIdentifier):
		return "invalid_identifier"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrSplitMismatch):
		return "split_mismatch"
	case errors.Is(err, ErrConflict):
		return "conflict"
	default:
		return "internal"
	}
}
