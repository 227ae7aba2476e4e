package domain

// Webhook header names pushed by the processor alongside the raw body.
const (
	HeaderTimestamp = "x-webhook-timestamp"
	HeaderSignature = "x-webhook-signature"
)

// Event types the processor pushes. Unknown types are acknowledged and
// ignored so new processor events never bounce deliveries.
const (
	EventPaymentSuccess     = "PAYMENT_SUCCESS_WEBHOOK"
	EventPaymentFailed      = "PAYMENT_FAILED_WEBHOOK"
	EventPaymentUserDropped = "PAYMENT_USER_DROPPED_WEBHOOK"
)

// Event is the parsed webhook envelope. It lives only for the duration of
// one delivery; the cache mutation it triggers is the only side effect.
type Event struct {
	Type      string    `json:"type"`
	EventTime string    `json:"event_time"`
	Data      EventData `json:"data"`
}

type EventData struct {
	Order   EventOrder   `json:"order"`
	Payment EventPayment `json:"payment"`
}

type EventOrder struct {
	OrderID string `json:"order_id"`
}

type EventPayment struct {
	PaymentStatus string  `json:"payment_status"`
	PaymentAmount float64 `json:"payment_amount"`
}
