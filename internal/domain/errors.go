package domain

import "errors"

// Sentinel errors - use with errors.Is()
var (
	// ErrNotFound indicates a lookup miss. Services recover it into a
	// not-found result; it never aborts an otherwise healthy transaction.
	ErrNotFound = errors.New("not found")

	// ErrConflict indicates a uniqueness violation on (owner, title).
	ErrConflict = errors.New("already exists")

	// ErrValidation indicates malformed input, rejected before any
	// database or upstream work happens.
	ErrValidation = errors.New("validation failed")

	// ErrTxRequired indicates a compound write operation was invoked
	// without an active transaction. This is a programming-contract
	// violation, not a recoverable runtime condition.
	ErrTxRequired = errors.New("operation requires an active transaction")
)

// ConflictError carries details about the existing resource so callers
// can report what the request collided with instead of a bare 409.
type ConflictError struct {
	Message      string
	ResourceType string
	ResourceID   string
}

func (e *ConflictError) Error() string {
	return e.Message
}

// Is allows errors.Is() to match against ErrConflict
func (e *ConflictError) Is(target error) bool {
	return target == ErrConflict
}
