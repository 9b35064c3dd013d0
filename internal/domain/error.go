package domain

import "errors"

var (
	// Access key lifecycle errors. Each maps to one stage of the
	// validation pipeline so callers can tell conditions apart by
	// errors.Is rather than message text.
	ErrInvalidPlan       = errors.New("invalid plan")
	ErrMissingCode       = errors.New("access code is required")
	ErrInvalidCodeFormat = errors.New("invalid access code format")
	ErrCodeNotFound      = errors.New("access code not found")
	ErrCodeAlreadyUsed   = errors.New("access code already used")
	ErrCodeExpired       = errors.New("access code expired")
	ErrHourMismatch      = errors.New("access code issued in a different hour")

	// ErrStoreUnavailable signals an I/O failure reading or writing
	// persisted state. It is never collapsed into "store is empty".
	ErrStoreUnavailable = errors.New("key store unavailable")

	// Common domain errors
	ErrNotFound        = errors.New("entity not found")
	ErrInvalidArgument = errors.New("invalid argument")
	ErrRateLimited     = errors.New("rate limit exceeded")
)
