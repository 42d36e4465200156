package billing

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreatePaymentIntentRequest starts a charge for amount, in major currency units
type CreatePaymentIntentRequest struct {
	Amount  decimal.Decimal `json:"amount"`
	OrderID *uuid.UUID      `json:"orderId"`
}

// PaymentIntentResponse carries what the browser needs to complete the charge
type PaymentIntentResponse struct {
	ClientSecret    string `json:"clientSecret"`
	PaymentIntentID string `json:"paymentIntentId"`
}

// ConfirmPaymentRequest checks an intent and, when an order is given, marks it paid
type ConfirmPaymentRequest struct {
	PaymentIntentID string     `json:"paymentIntentId" binding:"required"`
	OrderID         *uuid.UUID `json:"orderId"`
}

// PaymentIntentView is the confirmed intent as returned to the client
type PaymentIntentView struct {
	ID       string            `json:"id"`
	Status   string            `json:"status"`
	Amount   decimal.Decimal   `json:"amount"`
	Currency string            `json:"currency"`
	Metadata map[string]string `json:"metadata"`
}

// RefundRequest refunds all of an intent, or Amount of it
type RefundRequest struct {
	PaymentIntentID string           `json:"paymentIntentId" binding:"required"`
	Amount          *decimal.Decimal `json:"amount"`
	Reason          string           `json:"reason" binding:"omitempty,oneof=duplicate fraudulent requested_by_customer"`
}

// RefundResponse is the gateway's refund record
type RefundResponse struct {
	ID              string          `json:"id"`
	Status          string          `json:"status"`
	Amount          decimal.Decimal `json:"amount"`
	Currency        string          `json:"currency"`
	PaymentIntentID string          `json:"paymentIntentId"`
	Reason          string          `json:"reason"`
	OrderID         *uuid.UUID      `json:"orderId,omitempty"`
}

// PaymentMethodsResponse lists the accepted payment methods
type PaymentMethodsResponse struct {
	Methods []string `json:"methods"`
}

// WebhookResult reports how a verified webhook delivery was handled
type WebhookResult struct {
	EventID   string `json:"eventId"`
	EventType string `json:"eventType"`
	Processed bool   `json:"processed"`
	Duplicate bool   `json:"duplicate,omitempty"`
}
