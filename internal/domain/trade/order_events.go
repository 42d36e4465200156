package trade

import (
	"github.com/dripnest/storefront/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Aggregate type constant
const AggregateTypeOrder = "Order"

// Event type constants
const (
	EventTypeOrderPlaced        = "OrderPlaced"
	EventTypeOrderStatusChanged = "OrderStatusChanged"
	EventTypeOrderCancelled     = "OrderCancelled"
	EventTypeOrderPaid          = "OrderPaid"
	EventTypeOrderRefunded      = "OrderRefunded"
)

// OrderLine is the event payload of one order item
type OrderLine struct {
	ProductID uuid.UUID `json:"productId"`
	Quantity  int       `json:"quantity"`
}

func orderLines(o *Order) []OrderLine {
	lines := make([]OrderLine, len(o.Items))
	for i, item := range o.Items {
		lines[i] = OrderLine{ProductID: item.ProductID, Quantity: item.Quantity}
	}
	return lines
}

// OrderPlacedEvent is raised when a customer places an order
type OrderPlacedEvent struct {
	shared.BaseDomainEvent
	OrderID     uuid.UUID       `json:"orderId"`
	OrderNumber string          `json:"orderNumber"`
	UserID      uuid.UUID       `json:"userId"`
	Total       decimal.Decimal `json:"total"`
	Lines       []OrderLine     `json:"lines"`
}

// NewOrderPlacedEvent creates a new OrderPlacedEvent
func NewOrderPlacedEvent(o *Order) *OrderPlacedEvent {
	return &OrderPlacedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderPlaced, AggregateTypeOrder, o.ID),
		OrderID:         o.ID,
		OrderNumber:     o.OrderNumber,
		UserID:          o.UserID,
		Total:           o.Total,
		Lines:           orderLines(o),
	}
}

// OrderStatusChangedEvent is raised on every status change
type OrderStatusChangedEvent struct {
	shared.BaseDomainEvent
	OrderID     uuid.UUID   `json:"orderId"`
	OrderNumber string      `json:"orderNumber"`
	From        OrderStatus `json:"from"`
	To          OrderStatus `json:"to"`
}

// NewOrderStatusChangedEvent creates a new OrderStatusChangedEvent
func NewOrderStatusChangedEvent(o *Order, from OrderStatus) *OrderStatusChangedEvent {
	return &OrderStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderStatusChanged, AggregateTypeOrder, o.ID),
		OrderID:         o.ID,
		OrderNumber:     o.OrderNumber,
		From:            from,
		To:              o.Status,
	}
}

// OrderCancelledEvent is raised when an order is cancelled and its stock returned
type OrderCancelledEvent struct {
	shared.BaseDomainEvent
	OrderID     uuid.UUID   `json:"orderId"`
	OrderNumber string      `json:"orderNumber"`
	Lines       []OrderLine `json:"lines"`
}

// NewOrderCancelledEvent creates a new OrderCancelledEvent
func NewOrderCancelledEvent(o *Order) *OrderCancelledEvent {
	return &OrderCancelledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderCancelled, AggregateTypeOrder, o.ID),
		OrderID:         o.ID,
		OrderNumber:     o.OrderNumber,
		Lines:           orderLines(o),
	}
}

// OrderPaidEvent is raised the first time an order's payment completes
type OrderPaidEvent struct {
	shared.BaseDomainEvent
	OrderID     uuid.UUID       `json:"orderId"`
	OrderNumber string          `json:"orderNumber"`
	Total       decimal.Decimal `json:"total"`
	PaymentID   string          `json:"paymentId"`
}

// NewOrderPaidEvent creates a new OrderPaidEvent
func NewOrderPaidEvent(o *Order) *OrderPaidEvent {
	e := &OrderPaidEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderPaid, AggregateTypeOrder, o.ID),
		OrderID:         o.ID,
		OrderNumber:     o.OrderNumber,
		Total:           o.Total,
	}
	if o.PaymentResult != nil {
		e.PaymentID = o.PaymentResult.ID
	}
	return e
}

// OrderRefundedEvent is raised when an order's payment is refunded
type OrderRefundedEvent struct {
	shared.BaseDomainEvent
	OrderID     uuid.UUID       `json:"orderId"`
	OrderNumber string          `json:"orderNumber"`
	Total       decimal.Decimal `json:"total"`
}

// NewOrderRefundedEvent creates a new OrderRefundedEvent
func NewOrderRefundedEvent(o *Order) *OrderRefundedEvent {
	return &OrderRefundedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderRefunded, AggregateTypeOrder, o.ID),
		OrderID:         o.ID,
		OrderNumber:     o.OrderNumber,
		Total:           o.Total,
	}
}
