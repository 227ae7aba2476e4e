package domain

import (
	"context"
	"net/http"
)

// Service consumes processor-pushed events and keeps local verification
// state consistent with remote truth.
type Service interface {
	IngestEvent(ctx context.Context, rawBody []byte, headers http.Header) error
}
