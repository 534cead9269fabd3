package domain

import "errors"

// Error message string constants - single source of truth for error messages
// Use these in assert.Contains() checks when testing error messages
const (
	// Ledger errors
	ErrMsgInvalidAmount     = "invalid amount"
	ErrMsgInsufficientFunds = "insufficient funds"
	ErrMsgProfileNotFound   = "profile not found"

	// Collection errors
	ErrMsgPoolExhausted    = "no map segments left to acquire"
	ErrMsgDuplicateSegment = "segment already owned by profile"
	ErrMsgAlreadyOwned     = "segment is already owned"
	ErrMsgAlreadyCompleted = "map already completed"
	ErrMsgInvalidSegment   = "invalid segment number"

	// Query errors
	ErrMsgInvalidPage = "invalid page"

	// Database/System errors
	ErrMsgStorageUnavailable = "storage unavailable"
	ErrMsgTxClosed           = "tx is closed"
)

// Common domain errors
// These errors should be used consistently across all layers of the application.
// Wrap these errors with fmt.Errorf("%w: %s", domain.ErrXxx, details) for additional context.
var (
	// Ledger errors
	ErrInvalidAmount     = errors.New(ErrMsgInvalidAmount)
	ErrInsufficientFunds = errors.New(ErrMsgInsufficientFunds)
	ErrProfileNotFound   = errors.New(ErrMsgProfileNotFound)

	// Collection errors
	ErrPoolExhausted    = errors.New(ErrMsgPoolExhausted)
	ErrDuplicateSegment = errors.New(ErrMsgDuplicateSegment)
	ErrAlreadyOwned     = errors.New(ErrMsgAlreadyOwned)
	ErrAlreadyCompleted = errors.New(ErrMsgAlreadyCompleted)
	ErrInvalidSegment   = errors.New(ErrMsgInvalidSegment)

	// Query errors
	ErrInvalidPage = errors.New(ErrMsgInvalidPage)

	// System errors
	ErrStorageUnavailable = errors.New(ErrMsgStorageUnavailable)
	ErrTxClosed           = errors.New(ErrMsgTxClosed)
)

// IsRetryable reports whether the operation that produced err may succeed if
// the caller simply tries again. A duplicate segment insert means another
// request won the race for the same segment; the pool has changed since.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrDuplicateSegment)
}
