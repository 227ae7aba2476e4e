package processor

import (
	"errors"
	"fmt"
)

var ErrOrderNotFound = errors.New("order_not_found")

// UpstreamError carries the processor's own status and message for any
// remote failure that is not a missing order. The server layer decides how
// much of it leaves the process.
type UpstreamError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *UpstreamError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("upstream failure (status %d)", e.StatusCode)
	}
	return fmt.Sprintf("upstream failure (status %d): %s", e.StatusCode, e.Message)
}
