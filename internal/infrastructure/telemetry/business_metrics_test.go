package telemetry

import (
	"context"
	"testing"

	"github.com/dripnest/storefront/internal/domain/shared"
	"github.com/dripnest/storefront/internal/domain/trade"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	"go.uber.org/zap"
)

func newTestMetrics(t *testing.T) (*BusinessMetrics, *sdkmetric.ManualReader) {
	t.Helper()
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	bm, err := NewBusinessMetrics(provider.Meter("test"), zap.NewNop())
	require.NoError(t, err)
	return bm, reader
}

func collect(t *testing.T, reader *sdkmetric.ManualReader) map[string]metricdata.Aggregation {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	out := map[string]metricdata.Aggregation{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			out[m.Name] = m.Data
		}
	}
	return out
}

func int64Total(t *testing.T, data metricdata.Aggregation) int64 {
	t.Helper()
	sum, ok := data.(metricdata.Sum[int64])
	require.True(t, ok, "expected int64 sum, got %T", data)
	var total int64
	for _, dp := range sum.DataPoints {
		total += dp.Value
	}
	return total
}

func float64Total(t *testing.T, data metricdata.Aggregation) float64 {
	t.Helper()
	sum, ok := data.(metricdata.Sum[float64])
	require.True(t, ok, "expected float64 sum, got %T", data)
	var total float64
	for _, dp := range sum.DataPoints {
		total += dp.Value
	}
	return total
}

func TestNewBusinessMetrics_NilMeter(t *testing.T) {
	bm, err := NewBusinessMetrics(nil, zap.NewNop())
	require.Error(t, err)
	assert.Nil(t, bm)
	assert.Equal(t, "NewBusinessMetrics: meter cannot be nil", err.Error())
}

func TestBusinessMetrics_OrderLifecycle(t *testing.T) {
	bm, reader := newTestMetrics(t)
	ctx := context.Background()
	orderID := uuid.New()

	events := []shared.DomainEvent{
		&trade.OrderPlacedEvent{
			OrderID: orderID,
			Total:   decimal.RequireFromString("79.98"),
			Lines: []trade.OrderLine{
				{ProductID: uuid.New(), Quantity: 2},
				{ProductID: uuid.New(), Quantity: 1},
			},
		},
		&trade.OrderPaidEvent{OrderID: orderID, Total: decimal.RequireFromString("79.98")},
		&trade.OrderStatusChangedEvent{OrderID: orderID, From: trade.OrderStatusPending, To: trade.OrderStatusProcessing},
		&trade.OrderRefundedEvent{OrderID: orderID, Total: decimal.RequireFromString("79.98")},
		&trade.OrderCancelledEvent{OrderID: orderID},
	}
	for _, e := range events {
		require.NoError(t, bm.Handle(ctx, e))
	}

	got := collect(t, reader)
	assert.Equal(t, int64(1), int64Total(t, got["storefront.orders.placed"]))
	assert.Equal(t, int64(3), int64Total(t, got["storefront.items.sold"]))
	assert.Equal(t, int64(1), int64Total(t, got["storefront.orders.cancelled"]))
	assert.InDelta(t, 79.98, float64Total(t, got["storefront.revenue"]), 0.001)
	assert.InDelta(t, 79.98, float64Total(t, got["storefront.refunds"]), 0.001)

	hist, ok := got["storefront.order.value"].(metricdata.Histogram[float64])
	require.True(t, ok)
	require.Len(t, hist.DataPoints, 1)
	assert.Equal(t, uint64(1), hist.DataPoints[0].Count)

	changes := got["storefront.orders.status_changes"].(metricdata.Sum[int64])
	require.Len(t, changes.DataPoints, 1)
	to, _ := changes.DataPoints[0].Attributes.Value(attribute.Key("to"))
	assert.Equal(t, "processing", to.AsString())
}

func TestBusinessMetrics_RecordPayment(t *testing.T) {
	bm, reader := newTestMetrics(t)
	ctx := context.Background()

	bm.RecordPayment(ctx, PaymentStatusFailed)
	bm.RecordPayment(ctx, PaymentStatusFailed)
	require.NoError(t, bm.Handle(ctx, &trade.OrderPaidEvent{Total: decimal.NewFromInt(10)}))

	payments := collect(t, reader)["storefront.payments"].(metricdata.Sum[int64])
	byStatus := map[string]int64{}
	for _, dp := range payments.DataPoints {
		status, _ := dp.Attributes.Value(attribute.Key("status"))
		byStatus[status.AsString()] = dp.Value
	}
	assert.Equal(t, map[string]int64{PaymentStatusFailed: 2, PaymentStatusSucceeded: 1}, byStatus)
}

func TestBusinessMetrics_IgnoresOtherEvents(t *testing.T) {
	bm, reader := newTestMetrics(t)

	event := shared.NewBaseDomainEvent("UserRegistered", "User", uuid.New())
	require.NoError(t, bm.Handle(context.Background(), &event))
	assert.Empty(t, collect(t, reader))
}

func TestBusinessMetrics_EventTypes(t *testing.T) {
	bm, _ := newTestMetrics(t)
	assert.Len(t, bm.EventTypes(), 5)
	assert.Contains(t, bm.EventTypes(), trade.EventTypeOrderPaid)
}
