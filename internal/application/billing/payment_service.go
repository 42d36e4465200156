package billing

import (
	"context"
	"errors"
	"time"

	"github.com/dripnest/storefront/internal/application/event"
	"github.com/dripnest/storefront/internal/domain/shared"
	"github.com/dripnest/storefront/internal/domain/trade"
	stripegw "github.com/dripnest/storefront/internal/infrastructure/billing"
	"github.com/dripnest/storefront/internal/infrastructure/cache"
	"github.com/dripnest/storefront/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Stripe retries failed deliveries for up to three days
const webhookDedupTTL = 72 * time.Hour

// Intent metadata keys
const (
	metadataUserID  = "userId"
	metadataOrderID = "orderId"
)

var (
	errInvalidAmount     = shared.NewDomainError("INVALID_INPUT", "Invalid amount")
	errOrderNotFound     = shared.NewDomainError("NOT_FOUND", "Order not found")
	errIntentNotFound    = shared.NewDomainError("NOT_FOUND", "Payment intent not found")
	errPaymentIncomplete = shared.NewDomainError("PAYMENT_NOT_COMPLETED", "Payment not completed")
	errIntentOrder       = shared.NewDomainError("INVALID_INPUT", "Payment intent was created for another order")
)

// AcceptedPaymentMethods is what the checkout offers
var AcceptedPaymentMethods = []string{"card", "paypal"}

// PaymentGateway is the card processor the service charges through
type PaymentGateway interface {
	Currency() string
	CreatePaymentIntent(ctx context.Context, amount int64, metadata map[string]string) (*stripegw.PaymentIntent, error)
	GetPaymentIntent(ctx context.Context, id string) (*stripegw.PaymentIntent, error)
	CreateRefund(ctx context.Context, in stripegw.RefundInput) (*stripegw.Refund, error)
	ParseWebhook(payload []byte, signature string) (*stripegw.WebhookEvent, error)
}

// PaymentRecorder counts payment outcomes that have no order event behind them
type PaymentRecorder interface {
	RecordPayment(ctx context.Context, status string)
}

var _ PaymentGateway = (*stripegw.StripeGateway)(nil)
var _ PaymentRecorder = (*telemetry.BusinessMetrics)(nil)

// PaymentService creates and confirms payment intents, issues refunds and applies webhook events to orders
type PaymentService struct {
	gateway        PaymentGateway
	orderRepo      trade.OrderRepository
	processed      cache.IdempotencyStore
	metrics        PaymentRecorder
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// PaymentServiceOption configures a PaymentService
type PaymentServiceOption func(*PaymentService)

// WithIdempotencyStore drops webhook redeliveries that were already applied
func WithIdempotencyStore(store cache.IdempotencyStore) PaymentServiceOption {
	return func(s *PaymentService) {
		s.processed = store
	}
}

// WithPaymentRecorder records failed payments
func WithPaymentRecorder(r PaymentRecorder) PaymentServiceOption {
	return func(s *PaymentService) {
		s.metrics = r
	}
}

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) PaymentServiceOption {
	return func(s *PaymentService) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewPaymentService creates a new PaymentService
func NewPaymentService(gateway PaymentGateway, orderRepo trade.OrderRepository, opts ...PaymentServiceOption) *PaymentService {
	s := &PaymentService{
		gateway:   gateway,
		orderRepo: orderRepo,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SetEventPublisher sets the publisher for order payment events
func (s *PaymentService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// CreatePaymentIntent starts a charge. When an order is given it must belong to the caller.
func (s *PaymentService) CreatePaymentIntent(ctx context.Context, userID uuid.UUID, req CreatePaymentIntentRequest) (*PaymentIntentResponse, error) {
	if !req.Amount.IsPositive() {
		return nil, errInvalidAmount
	}
	cents := toMinorUnits(req.Amount)
	if cents <= 0 {
		return nil, errInvalidAmount
	}

	metadata := map[string]string{metadataUserID: userID.String(), metadataOrderID: ""}
	if req.OrderID != nil {
		if _, err := s.ownedOrder(ctx, *req.OrderID, userID); err != nil {
			return nil, err
		}
		metadata[metadataOrderID] = req.OrderID.String()
	}

	pi, err := s.gateway.CreatePaymentIntent(ctx, cents, metadata)
	if err != nil {
		return nil, err
	}
	return &PaymentIntentResponse{ClientSecret: pi.ClientSecret, PaymentIntentID: pi.ID}, nil
}

// ConfirmPayment verifies that an intent succeeded and marks the caller's order paid
func (s *PaymentService) ConfirmPayment(ctx context.Context, userID uuid.UUID, req ConfirmPaymentRequest) (*PaymentIntentView, error) {
	pi, err := s.gateway.GetPaymentIntent(ctx, req.PaymentIntentID)
	if err != nil {
		return nil, err
	}
	if owner, ok := pi.Metadata[metadataUserID]; ok && owner != "" && owner != userID.String() {
		return nil, errIntentNotFound
	}
	if !pi.Succeeded() {
		return nil, errPaymentIncomplete
	}

	if req.OrderID != nil {
		if bound := pi.Metadata[metadataOrderID]; bound != "" && bound != req.OrderID.String() {
			return nil, errIntentOrder
		}
		order, err := s.ownedOrder(ctx, *req.OrderID, userID)
		if err != nil {
			return nil, err
		}
		order.MarkPaid(paymentResultOf(pi))
		if err := s.orderRepo.Save(ctx, order); err != nil {
			return nil, err
		}
		s.logger.Info("Order paid",
			zap.String("order_id", order.ID.String()),
			zap.String("payment_intent_id", pi.ID))
		event.PublishAggregateEvents(ctx, s.eventPublisher, s.logger, order)
	}

	return &PaymentIntentView{
		ID:       pi.ID,
		Status:   pi.Status,
		Amount:   fromMinorUnits(pi.Amount),
		Currency: pi.Currency,
		Metadata: pi.Metadata,
	}, nil
}

// PaymentMethods lists the accepted payment methods
func (s *PaymentService) PaymentMethods() PaymentMethodsResponse {
	methods := make([]string, len(AcceptedPaymentMethods))
	copy(methods, AcceptedPaymentMethods)
	return PaymentMethodsResponse{Methods: methods}
}

// Refund refunds an intent the caller created, or any intent for an admin.
// The linked order, if any, is marked refunded.
func (s *PaymentService) Refund(ctx context.Context, userID uuid.UUID, isAdmin bool, req RefundRequest) (*RefundResponse, error) {
	pi, err := s.gateway.GetPaymentIntent(ctx, req.PaymentIntentID)
	if err != nil {
		return nil, err
	}
	if !isAdmin && pi.Metadata[metadataUserID] != userID.String() {
		return nil, errIntentNotFound
	}

	in := stripegw.RefundInput{PaymentIntentID: pi.ID, Reason: req.Reason}
	if in.Reason == "" {
		in.Reason = stripegw.DefaultRefundReason
	}
	if req.Amount != nil {
		if !req.Amount.IsPositive() {
			return nil, errInvalidAmount
		}
		cents := toMinorUnits(*req.Amount)
		in.Amount = &cents
	}

	refund, err := s.gateway.CreateRefund(ctx, in)
	if err != nil {
		return nil, err
	}
	resp := &RefundResponse{
		ID:              refund.ID,
		Status:          refund.Status,
		Amount:          fromMinorUnits(refund.Amount),
		Currency:        refund.Currency,
		PaymentIntentID: refund.PaymentIntentID,
		Reason:          refund.Reason,
	}

	orderID, ok := orderIDOf(pi)
	if !ok {
		return resp, nil
	}
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			s.logger.Warn("Refunded intent references a missing order",
				zap.String("payment_intent_id", pi.ID),
				zap.String("order_id", orderID.String()))
			return resp, nil
		}
		return nil, err
	}
	if err := order.MarkRefunded(); err != nil {
		s.logger.Warn("Order not marked refunded",
			zap.String("order_id", order.ID.String()),
			zap.Error(err))
		return resp, nil
	}
	if err := s.orderRepo.Save(ctx, order); err != nil {
		return nil, err
	}
	s.logger.Info("Order refunded",
		zap.String("order_id", order.ID.String()),
		zap.String("refund_id", refund.ID))
	event.PublishAggregateEvents(ctx, s.eventPublisher, s.logger, order)

	resp.OrderID = &order.ID
	return resp, nil
}

// HandleWebhook verifies a Stripe delivery and applies it to the referenced order.
// A delivery that was already applied is acknowledged without side effects.
func (s *PaymentService) HandleWebhook(ctx context.Context, payload []byte, signature string) (*WebhookResult, error) {
	evt, err := s.gateway.ParseWebhook(payload, signature)
	if err != nil {
		s.logger.Warn("Webhook signature verification failed", zap.Error(err))
		return nil, shared.NewDomainError("WEBHOOK_ERROR", "Webhook Error: "+err.Error())
	}
	result := &WebhookResult{EventID: evt.ID, EventType: evt.Type}

	if s.processed != nil {
		fresh, err := s.processed.MarkProcessed(ctx, evt.ID, webhookDedupTTL)
		if err != nil {
			s.logger.Warn("Webhook idempotency check failed", zap.String("event_id", evt.ID), zap.Error(err))
		} else if !fresh {
			s.logger.Info("Duplicate webhook delivery", zap.String("event_id", evt.ID))
			result.Duplicate = true
			return result, nil
		}
	}

	switch evt.Type {
	case stripegw.EventPaymentSucceeded:
		err = s.applySucceeded(ctx, evt.Intent)
	case stripegw.EventPaymentFailed:
		err = s.applyFailed(ctx, evt.Intent)
	default:
		s.logger.Info("Unhandled webhook event type", zap.String("event_type", evt.Type))
		return result, nil
	}

	if err != nil {
		if s.processed != nil {
			if ferr := s.processed.Forget(ctx, evt.ID); ferr != nil {
				s.logger.Warn("Failed to release webhook event", zap.String("event_id", evt.ID), zap.Error(ferr))
			}
		}
		s.logger.Error("Failed to apply webhook event",
			zap.String("event_id", evt.ID),
			zap.String("event_type", evt.Type),
			zap.Error(err))
		return nil, err
	}
	result.Processed = true
	return result, nil
}

func (s *PaymentService) applySucceeded(ctx context.Context, pi *stripegw.PaymentIntent) error {
	if pi == nil {
		return nil
	}
	s.logger.Info("Payment succeeded", zap.String("payment_intent_id", pi.ID))

	order, err := s.webhookOrder(ctx, pi)
	if err != nil || order == nil {
		return err
	}
	order.MarkPaid(paymentResultOf(pi))
	if err := s.orderRepo.Save(ctx, order); err != nil {
		return err
	}
	event.PublishAggregateEvents(ctx, s.eventPublisher, s.logger, order)
	return nil
}

func (s *PaymentService) applyFailed(ctx context.Context, pi *stripegw.PaymentIntent) error {
	if pi == nil {
		return nil
	}
	s.logger.Warn("Payment failed", zap.String("payment_intent_id", pi.ID))
	if s.metrics != nil {
		s.metrics.RecordPayment(ctx, telemetry.PaymentStatusFailed)
	}

	order, err := s.webhookOrder(ctx, pi)
	if err != nil || order == nil {
		return err
	}
	order.MarkPaymentFailed(paymentResultOf(pi))
	return s.orderRepo.Save(ctx, order)
}

// webhookOrder loads the order named in the intent metadata. A missing or unknown order yields nil.
func (s *PaymentService) webhookOrder(ctx context.Context, pi *stripegw.PaymentIntent) (*trade.Order, error) {
	orderID, ok := orderIDOf(pi)
	if !ok {
		return nil, nil
	}
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			s.logger.Warn("Webhook references a missing order",
				zap.String("payment_intent_id", pi.ID),
				zap.String("order_id", orderID.String()))
			return nil, nil
		}
		return nil, err
	}
	return order, nil
}

func (s *PaymentService) ownedOrder(ctx context.Context, orderID, userID uuid.UUID) (*trade.Order, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, errOrderNotFound
		}
		return nil, err
	}
	if !order.IsOwnedBy(userID) {
		return nil, errOrderNotFound
	}
	return order, nil
}

func orderIDOf(pi *stripegw.PaymentIntent) (uuid.UUID, bool) {
	raw := pi.Metadata[metadataOrderID]
	if raw == "" {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

func paymentResultOf(pi *stripegw.PaymentIntent) trade.PaymentResult {
	return trade.PaymentResult{
		ID:           pi.ID,
		Status:       pi.Status,
		EmailAddress: pi.ReceiptEmail,
	}
}

// toMinorUnits converts an amount to cents, rounding half away from zero
func toMinorUnits(amount decimal.Decimal) int64 {
	return amount.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}

func fromMinorUnits(cents int64) decimal.Decimal {
	return decimal.New(cents, -2)
}
