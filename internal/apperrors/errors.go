package apperrors

import "errors"

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that a write collided with an existing row on a unique key.
// Upserts treat it as a retryable race rather than corrupt data.
var ErrDuplicate = errors.New("resource already exists")

// ErrUnavailable indicates that an upstream source could not deliver data after retries.
var ErrUnavailable = errors.New("upstream unavailable")

// ErrUnauthorized indicates a missing or mismatching shared-secret token.
var ErrUnauthorized = errors.New("unauthorized")

// IsRetryable reports whether err is worth one more attempt by the caller.
// An upstream that is still unavailable after the client's own retries is not.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrDuplicate)
}
