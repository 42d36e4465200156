package trade

import (
	"regexp"
	"testing"
	"time"

	"github.com/dripnest/storefront/internal/domain/catalog"
	"github.com/dripnest/storefront/internal/domain/shared"
	"github.com/dripnest/storefront/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test helpers
func testAddress() valueobject.Address {
	return valueobject.MustNewAddress("1 Main St", "Springfield", "IL", "62701")
}

func testItem(price int64, qty int) OrderItem {
	return OrderItem{
		ProductID: uuid.New(),
		Name:      "Retro Arcade Tee",
		Image:     "https://cdn.example.com/tee.png",
		Size:      catalog.SizeM,
		Color:     "black",
		Quantity:  qty,
		Price:     decimal.NewFromInt(price),
	}
}

func testInput(items ...OrderItem) NewOrderInput {
	return NewOrderInput{
		UserID:          uuid.New(),
		Items:           items,
		ShippingAddress: testAddress(),
		BillingAddress:  testAddress(),
		PaymentMethod:   PaymentMethod{Type: PaymentTypeStripe},
		Tax:             decimal.RequireFromString("4.50"),
		ShippingCost:    decimal.NewFromInt(5),
	}
}

func createTestOrder(t *testing.T) *Order {
	o, err := NewOrder(testInput(testItem(20, 2), testItem(15, 1)))
	require.NoError(t, err)
	return o
}

// ============================================
// OrderStatus Tests
// ============================================

func TestOrderStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		from OrderStatus
		to   OrderStatus
		want bool
	}{
		{OrderStatusPending, OrderStatusProcessing, true},
		{OrderStatusProcessing, OrderStatusShipped, true},
		{OrderStatusShipped, OrderStatusDelivered, true},
		{OrderStatusDelivered, OrderStatusRefunded, true},
		{OrderStatusPending, OrderStatusCancelled, true},
		{OrderStatusCancelled, OrderStatusPending, false},
		{OrderStatusRefunded, OrderStatusShipped, false},
		{OrderStatusPending, OrderStatus("lost"), false},
	}
	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestOrderStatus_IsCancellable(t *testing.T) {
	assert.True(t, OrderStatusPending.IsCancellable())
	assert.True(t, OrderStatusProcessing.IsCancellable())
	assert.False(t, OrderStatusShipped.IsCancellable())
	assert.False(t, OrderStatusDelivered.IsCancellable())
	assert.False(t, OrderStatusCancelled.IsCancellable())
}

// ============================================
// NewOrder Tests
// ============================================

func TestNewOrder(t *testing.T) {
	t.Run("computes subtotal and total", func(t *testing.T) {
		o := createTestOrder(t)

		assert.True(t, o.Subtotal.Equal(decimal.NewFromInt(55)))
		assert.True(t, o.Total.Equal(decimal.RequireFromString("64.50")))
		assert.Equal(t, OrderStatusPending, o.Status)
		assert.Equal(t, PaymentStatusPending, o.PaymentMethod.Status)
		assert.False(t, o.IsPaid)
		assert.Equal(t, 3, o.ItemCount())
		assert.Regexp(t, regexp.MustCompile(`^DN-\d{8}-[0-9A-Z]{4}$`), o.OrderNumber)
		for _, item := range o.Items {
			assert.Equal(t, o.ID, item.OrderID)
			assert.NotEqual(t, uuid.Nil, item.ID)
		}
	})

	t.Run("records OrderPlaced", func(t *testing.T) {
		o := createTestOrder(t)
		events := o.GetDomainEvents()
		require.Len(t, events, 1)
		placed, ok := events[0].(*OrderPlacedEvent)
		require.True(t, ok)
		assert.Equal(t, o.OrderNumber, placed.OrderNumber)
		assert.Len(t, placed.Lines, 2)
	})

	t.Run("rejects empty order", func(t *testing.T) {
		_, err := NewOrder(testInput())
		require.Error(t, err)
		assert.Equal(t, "Order must contain at least one item", err.Error())
	})

	t.Run("joins item validation messages", func(t *testing.T) {
		bad := testItem(-1, 0)
		bad.Size = "XXS"
		_, err := NewOrder(testInput(bad))
		require.Error(t, err)
		assert.Equal(t, "`XXS` is not a valid size, Quantity must be at least 1, Price cannot be negative", err.Error())
	})

	t.Run("requires addresses and payment type", func(t *testing.T) {
		in := testInput(testItem(10, 1))
		in.ShippingAddress = valueobject.Address{}
		in.PaymentMethod = PaymentMethod{Type: "cash"}
		_, err := NewOrder(in)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Shipping address is required")
		assert.Contains(t, err.Error(), "`cash` is not a valid payment type")
	})
}

// ============================================
// Status and payment Tests
// ============================================

func TestOrder_UpdateStatus(t *testing.T) {
	t.Run("delivered sets delivery flags", func(t *testing.T) {
		o := createTestOrder(t)
		eta := time.Now().Add(72 * time.Hour)
		require.NoError(t, o.UpdateStatus(StatusUpdate{Status: OrderStatusShipped, TrackingNumber: "1Z999", EstimatedDelivery: &eta}))
		assert.Equal(t, "1Z999", o.TrackingNumber)
		assert.False(t, o.IsDelivered)

		require.NoError(t, o.UpdateStatus(StatusUpdate{Status: OrderStatusDelivered}))
		assert.True(t, o.IsDelivered)
		require.NotNil(t, o.DeliveredAt)
		assert.Equal(t, "1Z999", o.TrackingNumber)
	})

	t.Run("terminal status cannot change", func(t *testing.T) {
		o := createTestOrder(t)
		require.NoError(t, o.Cancel())
		err := o.UpdateStatus(StatusUpdate{Status: OrderStatusProcessing})
		require.Error(t, err)
		assert.ErrorIs(t, err, shared.ErrInvalidState)
	})

	t.Run("unknown status", func(t *testing.T) {
		o := createTestOrder(t)
		err := o.UpdateStatus(StatusUpdate{Status: "lost"})
		require.Error(t, err)
		assert.Equal(t, "`lost` is not a valid order status", err.Error())
	})

	t.Run("admin cancel raises OrderCancelled", func(t *testing.T) {
		o := createTestOrder(t)
		o.ClearDomainEvents()
		require.NoError(t, o.UpdateStatus(StatusUpdate{Status: OrderStatusCancelled}))
		events := o.GetDomainEvents()
		require.Len(t, events, 2)
		assert.Equal(t, EventTypeOrderCancelled, events[1].EventType())
	})
}

func TestOrder_Cancel(t *testing.T) {
	o := createTestOrder(t)
	require.NoError(t, o.UpdateStatus(StatusUpdate{Status: OrderStatusShipped}))

	err := o.Cancel()
	require.Error(t, err)
	assert.Equal(t, "Order cannot be cancelled at this stage", err.Error())
	assert.Equal(t, OrderStatusShipped, o.Status)
}

func TestOrder_MarkPaid(t *testing.T) {
	o := createTestOrder(t)
	o.ClearDomainEvents()

	o.MarkPaid(PaymentResult{ID: "pi_123", Status: "succeeded"})
	assert.True(t, o.IsPaid)
	require.NotNil(t, o.PaidAt)
	assert.Equal(t, PaymentStatusCompleted, o.PaymentMethod.Status)
	assert.Equal(t, "pi_123", o.PaymentResult.ID)
	assert.NotEmpty(t, o.PaymentResult.UpdateTime)
	paidAt := *o.PaidAt

	o.MarkPaid(PaymentResult{ID: "pi_123", Status: "succeeded"})
	assert.Equal(t, paidAt, *o.PaidAt)
	assert.Len(t, o.GetDomainEvents(), 1)
}

func TestOrder_MarkPaymentFailed(t *testing.T) {
	o := createTestOrder(t)
	o.MarkPaymentFailed(PaymentResult{ID: "pi_1", Status: "requires_payment_method"})
	assert.Equal(t, PaymentStatusFailed, o.PaymentMethod.Status)
	assert.False(t, o.IsPaid)

	paid := createTestOrder(t)
	paid.MarkPaid(PaymentResult{ID: "pi_2"})
	paid.MarkPaymentFailed(PaymentResult{ID: "pi_2"})
	assert.Equal(t, PaymentStatusCompleted, paid.PaymentMethod.Status)
}

func TestOrder_MarkRefunded(t *testing.T) {
	o := createTestOrder(t)
	err := o.MarkRefunded()
	require.Error(t, err)
	assert.Equal(t, "Order has not been paid", err.Error())

	o.MarkPaid(PaymentResult{ID: "pi_1"})
	require.NoError(t, o.MarkRefunded())
	assert.Equal(t, OrderStatusRefunded, o.Status)
	assert.Equal(t, PaymentStatusRefunded, o.PaymentMethod.Status)
	assert.True(t, o.IsPaid)
}

func TestOrder_AgeInDays(t *testing.T) {
	o := createTestOrder(t)
	o.CreatedAt = time.Now().Add(-50 * time.Hour)
	assert.Equal(t, 2, o.AgeInDays(time.Now()))
	assert.True(t, o.IsOwnedBy(o.UserID))
	assert.False(t, o.IsOwnedBy(uuid.New()))
}

func TestGenerateOrderNumber(t *testing.T) {
	n := GenerateOrderNumber(time.UnixMilli(1712345678901))
	assert.Regexp(t, regexp.MustCompile(`^DN-45678901-[0-9A-Z]{4}$`), n)
}
