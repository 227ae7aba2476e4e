package processor

import "encoding/json"

// Order is the processor's order entity, trimmed to the fields the
// verification path consumes.
type Order struct {
	OrderID       string          `json:"order_id"`
	OrderStatus   string          `json:"order_status"`
	OrderAmount   float64         `json:"order_amount"`
	OrderCurrency string          `json:"order_currency"`
	Customer      CustomerDetails `json:"customer_details"`
}

type CustomerDetails struct {
	CustomerName  string `json:"customer_name"`
	CustomerEmail string `json:"customer_email"`
	CustomerPhone string `json:"customer_phone"`
}

// Payment is one attempt against an order, as returned by the payments
// sub-resource. PaymentMethod is keyed by instrument type (upi, card, ...).
type Payment struct {
	PaymentStatus string                     `json:"payment_status"`
	PaymentGroup  string                     `json:"payment_group"`
	BankReference string                     `json:"bank_reference"`
	PaymentMethod map[string]json.RawMessage `json:"payment_method"`
}

// MethodName returns the instrument type of the payment, preferring the
// payment_method key over the coarser payment_group.
func (p Payment) MethodName() string {
	for name := range p.PaymentMethod {
		return name
	}
	return p.PaymentGroup
}
