package domain

import "context"

// Service verifies the authoritative status of an order, consulting the
// throttle and result cache before reaching the remote processor.
type Service interface {
	Verify(ctx context.Context, orderID string, callerKey string) (*Result, error)
	Invalidate(orderID string)
	ClearState()
}
