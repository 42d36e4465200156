package billing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/dripnest/storefront/internal/domain/shared"
	"github.com/dripnest/storefront/internal/infrastructure/config"
	"github.com/stripe/stripe-go/v81"
	"github.com/stripe/stripe-go/v81/client"
	"github.com/stripe/stripe-go/v81/webhook"
	"go.uber.org/zap"
)

// Webhook event types handled by the storefront
const (
	EventPaymentSucceeded = "payment_intent.succeeded"
	EventPaymentFailed    = "payment_intent.payment_failed"
)

// DefaultRefundReason is used when the caller gives none
const DefaultRefundReason = "requested_by_customer"

// ErrGatewayNotConfigured is returned when no Stripe secret key is set
var ErrGatewayNotConfigured = shared.NewDomainError("PAYMENT_UNAVAILABLE", "Payment gateway is not configured")

// PaymentIntent is the gateway's view of a charge in progress
type PaymentIntent struct {
	ID           string
	ClientSecret string
	Status       string
	Amount       int64
	Currency     string
	Metadata     map[string]string
	ReceiptEmail string
	Created      time.Time
}

// Succeeded reports whether the charge completed
func (p *PaymentIntent) Succeeded() bool {
	return p.Status == string(stripe.PaymentIntentStatusSucceeded)
}

// RefundInput describes a refund request. A nil Amount refunds the full charge.
type RefundInput struct {
	PaymentIntentID string
	Amount          *int64
	Reason          string
}

// Refund is the gateway's record of a refund
type Refund struct {
	ID              string
	Status          string
	Amount          int64
	Currency        string
	PaymentIntentID string
	Reason          string
}

// WebhookEvent is a verified webhook delivery
type WebhookEvent struct {
	ID     string
	Type   string
	Intent *PaymentIntent // set for payment_intent.* events
}

// StripeGateway talks to the Stripe API through a per-instance client
type StripeGateway struct {
	api           *client.API
	currency      string
	webhookSecret string
	configured    bool
	logger        *zap.Logger
}

// GatewayOption configures a StripeGateway
type GatewayOption func(*stripe.Backends)

// WithBackend replaces the HTTP backend, used by tests
func WithBackend(b stripe.Backend) GatewayOption {
	return func(backends *stripe.Backends) {
		backends.API = b
		backends.Connect = b
		backends.Uploads = b
	}
}

// NewStripeGateway creates a gateway from configuration
func NewStripeGateway(cfg config.StripeConfig, logger *zap.Logger, opts ...GatewayOption) *StripeGateway {
	if logger == nil {
		logger = zap.NewNop()
	}
	currency := cfg.Currency
	if currency == "" {
		currency = string(stripe.CurrencyUSD)
	}

	var backends *stripe.Backends
	if len(opts) > 0 {
		backends = &stripe.Backends{}
		for _, opt := range opts {
			opt(backends)
		}
	}

	return &StripeGateway{
		api:           client.New(cfg.SecretKey, backends),
		currency:      currency,
		webhookSecret: cfg.WebhookSecret,
		configured:    cfg.SecretKey != "",
		logger:        logger.Named("stripe"),
	}
}

// Currency returns the ISO currency charges are made in
func (g *StripeGateway) Currency() string {
	return g.currency
}

// CreatePaymentIntent creates an automatic-payment-methods intent for amount in the smallest currency unit
func (g *StripeGateway) CreatePaymentIntent(ctx context.Context, amount int64, metadata map[string]string) (*PaymentIntent, error) {
	if !g.configured {
		return nil, ErrGatewayNotConfigured
	}

	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(amount),
		Currency: stripe.String(g.currency),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	params.Context = ctx
	for k, v := range metadata {
		params.AddMetadata(k, v)
	}

	pi, err := g.api.PaymentIntents.New(params)
	if err != nil {
		g.logger.Error("Failed to create payment intent", zap.Int64("amount", amount), zap.Error(err))
		return nil, translateStripeError("failed to create payment intent", err)
	}

	g.logger.Info("Created payment intent",
		zap.String("payment_intent_id", pi.ID),
		zap.Int64("amount", pi.Amount))
	return toPaymentIntent(pi), nil
}

// GetPaymentIntent retrieves an intent by ID
func (g *StripeGateway) GetPaymentIntent(ctx context.Context, id string) (*PaymentIntent, error) {
	if !g.configured {
		return nil, ErrGatewayNotConfigured
	}

	params := &stripe.PaymentIntentParams{}
	params.Context = ctx
	pi, err := g.api.PaymentIntents.Get(id, params)
	if err != nil {
		return nil, translateStripeError("failed to retrieve payment intent", err)
	}
	return toPaymentIntent(pi), nil
}

// CreateRefund refunds all or part of a payment intent
func (g *StripeGateway) CreateRefund(ctx context.Context, in RefundInput) (*Refund, error) {
	if !g.configured {
		return nil, ErrGatewayNotConfigured
	}

	reason := in.Reason
	if reason == "" {
		reason = DefaultRefundReason
	}
	params := &stripe.RefundParams{
		PaymentIntent: stripe.String(in.PaymentIntentID),
		Reason:        stripe.String(reason),
	}
	if in.Amount != nil {
		params.Amount = in.Amount
	}
	params.Context = ctx

	r, err := g.api.Refunds.New(params)
	if err != nil {
		g.logger.Error("Failed to create refund",
			zap.String("payment_intent_id", in.PaymentIntentID),
			zap.Error(err))
		return nil, translateStripeError("failed to create refund", err)
	}

	g.logger.Info("Created refund",
		zap.String("refund_id", r.ID),
		zap.String("payment_intent_id", in.PaymentIntentID),
		zap.Int64("amount", r.Amount))

	out := &Refund{
		ID:              r.ID,
		Status:          string(r.Status),
		Amount:          r.Amount,
		Currency:        string(r.Currency),
		PaymentIntentID: in.PaymentIntentID,
		Reason:          string(r.Reason),
	}
	return out, nil
}

// ParseWebhook verifies the Stripe-Signature header against the raw payload and decodes the event
func (g *StripeGateway) ParseWebhook(payload []byte, signature string) (*WebhookEvent, error) {
	event, err := webhook.ConstructEventWithOptions(payload, signature, g.webhookSecret,
		webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true})
	if err != nil {
		return nil, err
	}

	out := &WebhookEvent{ID: event.ID, Type: string(event.Type)}
	if event.Data != nil && (event.Type == EventPaymentSucceeded || event.Type == EventPaymentFailed) {
		var pi stripe.PaymentIntent
		if err := json.Unmarshal(event.Data.Raw, &pi); err != nil {
			return nil, fmt.Errorf("failed to decode payment intent: %w", err)
		}
		out.Intent = toPaymentIntent(&pi)
	}
	return out, nil
}

func toPaymentIntent(pi *stripe.PaymentIntent) *PaymentIntent {
	out := &PaymentIntent{
		ID:           pi.ID,
		ClientSecret: pi.ClientSecret,
		Status:       string(pi.Status),
		Amount:       pi.Amount,
		Currency:     string(pi.Currency),
		Metadata:     pi.Metadata,
		ReceiptEmail: pi.ReceiptEmail,
	}
	if pi.Created > 0 {
		out.Created = time.Unix(pi.Created, 0)
	}
	if out.Metadata == nil {
		out.Metadata = map[string]string{}
	}
	return out
}

// translateStripeError maps client-side API errors to domain errors; anything else is wrapped
func translateStripeError(op string, err error) error {
	var stripeErr *stripe.Error
	if errors.As(err, &stripeErr) {
		switch {
		case stripeErr.HTTPStatusCode == http.StatusNotFound:
			return shared.NewDomainError("NOT_FOUND", "Payment intent not found")
		case stripeErr.HTTPStatusCode >= 400 && stripeErr.HTTPStatusCode < 500:
			return shared.NewDomainError("PAYMENT_ERROR", stripeErr.Msg)
		}
	}
	return fmt.Errorf("stripe: %s: %w", op, err)
}
