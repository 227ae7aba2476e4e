package domain

import "errors"

var (
	ErrInvalidOrderID = errors.New("invalid_order_id")
	ErrRateLimited    = errors.New("rate_limited")
)
