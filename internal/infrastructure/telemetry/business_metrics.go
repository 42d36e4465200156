package telemetry

import (
	"context"
	"errors"

	"github.com/dripnest/storefront/internal/domain/shared"
	"github.com/dripnest/storefront/internal/domain/trade"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// Payment outcomes recorded on storefront.payments
const (
	PaymentStatusSucceeded = "succeeded"
	PaymentStatusFailed    = "failed"
	PaymentStatusRefunded  = "refunded"
)

// BusinessMetrics turns order events into storefront counters and histograms.
// It is subscribed to the event bus like any other handler.
type BusinessMetrics struct {
	ordersPlaced    metric.Int64Counter
	ordersCancelled metric.Int64Counter
	itemsSold       metric.Int64Counter
	statusChanges   metric.Int64Counter
	orderValue      metric.Float64Histogram
	revenue         metric.Float64Counter
	refunds         metric.Float64Counter
	payments        metric.Int64Counter
	logger          *zap.Logger
}

// NewBusinessMetrics creates the storefront instruments on meter
func NewBusinessMetrics(meter metric.Meter, logger *zap.Logger) (*BusinessMetrics, error) {
	if meter == nil {
		return nil, errors.New("NewBusinessMetrics: meter cannot be nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	bm := &BusinessMetrics{logger: logger}

	var err error
	if bm.ordersPlaced, err = meter.Int64Counter("storefront.orders.placed",
		metric.WithDescription("Orders placed"), metric.WithUnit("{order}")); err != nil {
		return nil, err
	}
	if bm.ordersCancelled, err = meter.Int64Counter("storefront.orders.cancelled",
		metric.WithDescription("Orders cancelled"), metric.WithUnit("{order}")); err != nil {
		return nil, err
	}
	if bm.itemsSold, err = meter.Int64Counter("storefront.items.sold",
		metric.WithDescription("Units sold across placed orders"), metric.WithUnit("{item}")); err != nil {
		return nil, err
	}
	if bm.statusChanges, err = meter.Int64Counter("storefront.orders.status_changes",
		metric.WithDescription("Order status transitions")); err != nil {
		return nil, err
	}
	if bm.orderValue, err = meter.Float64Histogram("storefront.order.value",
		metric.WithDescription("Order totals at placement"), metric.WithUnit("USD"),
		metric.WithExplicitBucketBoundaries(10, 25, 50, 100, 250, 500, 1000)); err != nil {
		return nil, err
	}
	if bm.revenue, err = meter.Float64Counter("storefront.revenue",
		metric.WithDescription("Revenue from paid orders"), metric.WithUnit("USD")); err != nil {
		return nil, err
	}
	if bm.refunds, err = meter.Float64Counter("storefront.refunds",
		metric.WithDescription("Refunded order totals"), metric.WithUnit("USD")); err != nil {
		return nil, err
	}
	if bm.payments, err = meter.Int64Counter("storefront.payments",
		metric.WithDescription("Payment outcomes by status")); err != nil {
		return nil, err
	}
	return bm, nil
}

// Handle records the metrics for one order event
func (bm *BusinessMetrics) Handle(ctx context.Context, event shared.DomainEvent) error {
	switch e := event.(type) {
	case *trade.OrderPlacedEvent:
		bm.ordersPlaced.Add(ctx, 1)
		var units int64
		for _, line := range e.Lines {
			units += int64(line.Quantity)
		}
		bm.itemsSold.Add(ctx, units)
		bm.orderValue.Record(ctx, e.Total.InexactFloat64())
	case *trade.OrderCancelledEvent:
		bm.ordersCancelled.Add(ctx, 1)
	case *trade.OrderStatusChangedEvent:
		bm.statusChanges.Add(ctx, 1, metric.WithAttributes(
			attribute.String("from", string(e.From)),
			attribute.String("to", string(e.To)),
		))
	case *trade.OrderPaidEvent:
		bm.revenue.Add(ctx, e.Total.InexactFloat64())
		bm.RecordPayment(ctx, PaymentStatusSucceeded)
	case *trade.OrderRefundedEvent:
		bm.refunds.Add(ctx, e.Total.InexactFloat64())
		bm.RecordPayment(ctx, PaymentStatusRefunded)
	default:
		bm.logger.Debug("Ignoring event", zap.String("event_type", event.EventType()))
	}
	return nil
}

// RecordPayment counts a payment outcome. Failures are not order events,
// so the payment webhook records them directly.
func (bm *BusinessMetrics) RecordPayment(ctx context.Context, status string) {
	bm.payments.Add(ctx, 1, metric.WithAttributes(attribute.String("status", status)))
}

// EventTypes returns the order events that feed the metrics
func (bm *BusinessMetrics) EventTypes() []string {
	return []string{
		trade.EventTypeOrderPlaced,
		trade.EventTypeOrderStatusChanged,
		trade.EventTypeOrderCancelled,
		trade.EventTypeOrderPaid,
		trade.EventTypeOrderRefunded,
	}
}

var _ shared.EventHandler = (*BusinessMetrics)(nil)
