package domain

import (
	"regexp"
	"strings"
	"time"
)

// OrderStatus is the processor-side lifecycle state of an order. The
// processor may introduce new values; anything unrecognized maps to a
// failed payment, never an error.
type OrderStatus string

const (
	OrderStatusActive     OrderStatus = "ACTIVE"
	OrderStatusPaid       OrderStatus = "PAID"
	OrderStatusExpired    OrderStatus = "EXPIRED"
	OrderStatusTerminated OrderStatus = "TERMINATED"
)

// PaymentStatus is derived from OrderStatus, never stored upstream.
type PaymentStatus string

const (
	PaymentStatusSuccess PaymentStatus = "SUCCESS"
	PaymentStatusPending PaymentStatus = "PENDING"
	PaymentStatusFailed  PaymentStatus = "FAILED"
)

// PaymentStatusFor maps an order status to the derived payment status:
// PAID means the money moved, ACTIVE means the order is still payable,
// everything else is a dead order.
func PaymentStatusFor(status OrderStatus) PaymentStatus {
	switch status {
	case OrderStatusPaid:
		return PaymentStatusSuccess
	case OrderStatusActive:
		return PaymentStatusPending
	default:
		return PaymentStatusFailed
	}
}

var orderIDPattern = regexp.MustCompile(`^WX\d{13}$`)

// ValidOrderID reports whether id matches the externally assigned format
// ("WX" followed by 13 digits).
func ValidOrderID(id string) bool {
	return orderIDPattern.MatchString(id)
}

// CustomerSummary is the subset of customer detail echoed back to the
// storefront. Email and phone are stored masked; the full values never
// enter the cache.
type CustomerSummary struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
}

// MaskEmail keeps the first character of the local part and the domain.
func MaskEmail(email string) string {
	email = strings.TrimSpace(email)
	if email == "" {
		return ""
	}
	at := strings.LastIndex(email, "@")
	if at <= 0 {
		return "***"
	}
	return email[:1] + "***" + email[at:]
}

// MaskPhone keeps the last four digits.
func MaskPhone(phone string) string {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return ""
	}
	if len(phone) <= 4 {
		return "******" + phone
	}
	return "******" + phone[len(phone)-4:]
}

// PaymentDetail is best-effort enrichment for confirmed-paid orders.
type PaymentDetail struct {
	PaymentGroup  string `json:"paymentGroup,omitempty"`
	PaymentMethod string `json:"paymentMethod,omitempty"`
	BankReference string `json:"bankReference,omitempty"`
}

// Result is the normalized outcome of one verification. Callers always
// receive their own copy; the cache keeps the canonical one.
type Result struct {
	OrderID       string          `json:"orderId"`
	OrderStatus   OrderStatus     `json:"orderStatus"`
	PaymentStatus PaymentStatus   `json:"paymentStatus"`
	OrderAmount   float64         `json:"orderAmount"`
	OrderCurrency string          `json:"orderCurrency"`
	Customer      CustomerSummary `json:"customer"`
	Payment       *PaymentDetail  `json:"payment,omitempty"`
	VerifiedAt    time.Time       `json:"verifiedAt"`
	Cached        bool            `json:"cached"`
	CacheAgeSec   int64           `json:"cacheAgeSeconds,omitempty"`
}

// Clone returns a copy that shares no pointers with the receiver, so a
// caller mutating its result cannot reach the cached one.
func (r Result) Clone() Result {
	out := r
	if r.Payment != nil {
		detail := *r.Payment
		out.Payment = &detail
	}
	return out
}
