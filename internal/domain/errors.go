package domain

import "errors"

// Four-way error taxonomy. Callers branch with errors.Is; finer-grained
// sentinels in other packages wrap one of these.
var (
	// ErrValidation marks missing or malformed input. Operations returning it
	// have not contacted storage.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound marks a referenced entity that does not exist. Non-fatal;
	// callers treat it as a no-op or trigger a repair path.
	ErrNotFound = errors.New("not found")

	// ErrStorage marks a failed record-store call.
	ErrStorage = errors.New("storage failure")

	// ErrAuth marks a credential mismatch or a privileged operation with no
	// signed-in account.
	ErrAuth = errors.New("authentication failed")
)
