package domain

import "errors"

var (
	ErrMissingSignature = errors.New("missing_signature")
	ErrInvalidTimestamp = errors.New("invalid_timestamp")
	ErrStaleTimestamp   = errors.New("stale_timestamp")
	ErrInvalidSignature = errors.New("invalid_signature")
	ErrInvalidPayload   = errors.New("invalid_payload")
)

// IsAuthError reports whether err means the delivery failed authentication,
// as opposed to failing to parse after a valid signature.
func IsAuthError(err error) bool {
	return errors.Is(err, ErrMissingSignature) ||
		errors.Is(err, ErrInvalidTimestamp) ||
		errors.Is(err, ErrStaleTimestamp) ||
		errors.Is(err, ErrInvalidSignature)
}
