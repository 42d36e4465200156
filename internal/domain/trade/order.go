package trade

import (
	"fmt"
	"strings"
	"time"

	"github.com/dripnest/storefront/internal/domain/catalog"
	"github.com/dripnest/storefront/internal/domain/shared"
	"github.com/dripnest/storefront/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MaxNotesLength bounds order notes
const MaxNotesLength = 500

// ErrOrderModified is returned when a save loses to a concurrent change of the same order
var ErrOrderModified = shared.NewDomainError("INVALID_STATE", "Order was modified by another request")

// OrderStatus represents the fulfilment status of an order
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
	OrderStatusRefunded   OrderStatus = "refunded"
)

// IsValid checks if the status is a valid OrderStatus
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusShipped,
		OrderStatusDelivered, OrderStatusCancelled, OrderStatusRefunded:
		return true
	}
	return false
}

// String returns the string representation of OrderStatus
func (s OrderStatus) String() string {
	return string(s)
}

// IsTerminal reports whether no further status change is allowed.
// Cancelled orders have had their stock returned and refunded orders their money.
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusCancelled || s == OrderStatusRefunded
}

// CanTransitionTo checks if the status can move to target
func (s OrderStatus) CanTransitionTo(target OrderStatus) bool {
	if !target.IsValid() || s.IsTerminal() {
		return false
	}
	return true
}

// IsCancellable reports whether a customer may still cancel
func (s OrderStatus) IsCancellable() bool {
	return s == OrderStatusPending || s == OrderStatusProcessing
}

// PaymentType is the payment provider used for an order
type PaymentType string

const (
	PaymentTypeStripe PaymentType = "stripe"
	PaymentTypePayPal PaymentType = "paypal"
)

// IsValid checks if the payment type is supported
func (t PaymentType) IsValid() bool {
	return t == PaymentTypeStripe || t == PaymentTypePayPal
}

// PaymentStatus is the state of the order's payment
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusFailed    PaymentStatus = "failed"
	PaymentStatusRefunded  PaymentStatus = "refunded"
)

// IsValid checks if the payment status is valid
func (s PaymentStatus) IsValid() bool {
	switch s {
	case PaymentStatusPending, PaymentStatusCompleted, PaymentStatusFailed, PaymentStatusRefunded:
		return true
	}
	return false
}

// PaymentMethod describes how the order is paid
type PaymentMethod struct {
	Type   PaymentType
	ID     string
	Status PaymentStatus
}

// PaymentResult is the gateway's record of a payment
type PaymentResult struct {
	ID           string
	Status       string
	UpdateTime   string
	EmailAddress string
}

// OrderItem is a product line with its price snapshot
type OrderItem struct {
	ID        uuid.UUID
	OrderID   uuid.UUID
	ProductID uuid.UUID
	Name      string
	Image     string
	Size      catalog.Size
	Color     string
	Quantity  int
	Price     decimal.Decimal
}

// LineTotal returns price × quantity
func (i OrderItem) LineTotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

func (i OrderItem) validate(errs *shared.ValidationErrors) {
	errs.Check(i.ProductID == uuid.Nil, "Product is required")
	errs.Check(strings.TrimSpace(i.Name) == "", "Item name is required")
	errs.Check(!i.Size.IsValid(), "`"+string(i.Size)+"` is not a valid size")
	errs.Check(strings.TrimSpace(i.Color) == "", "Item color is required")
	errs.Check(i.Quantity < 1, "Quantity must be at least 1")
	errs.Check(i.Price.IsNegative(), "Price cannot be negative")
}

// Order is the aggregate root for a customer purchase
type Order struct {
	shared.BaseAggregateRoot
	UserID            uuid.UUID
	UserName          string
	UserEmail         string
	OrderNumber       string
	Items             []OrderItem
	ShippingAddress   valueobject.Address
	BillingAddress    valueobject.Address
	PaymentMethod     PaymentMethod
	PaymentResult     *PaymentResult
	Subtotal          decimal.Decimal
	Tax               decimal.Decimal
	ShippingCost      decimal.Decimal
	Total             decimal.Decimal
	Status            OrderStatus
	TrackingNumber    string
	EstimatedDelivery *time.Time
	Notes             string
	IsPaid            bool
	PaidAt            *time.Time
	IsDelivered       bool
	DeliveredAt       *time.Time
}

// NewOrderInput carries everything needed to place an order
type NewOrderInput struct {
	UserID          uuid.UUID
	Items           []OrderItem
	ShippingAddress valueobject.Address
	BillingAddress  valueobject.Address
	PaymentMethod   PaymentMethod
	Tax             decimal.Decimal
	ShippingCost    decimal.Decimal
	Notes           string
}

// NewOrder creates a pending order. The subtotal is computed from the item
// price snapshots and the total from subtotal, tax and shipping.
func NewOrder(in NewOrderInput) (*Order, error) {
	if len(in.Items) == 0 {
		return nil, shared.NewDomainError("EMPTY_ORDER", "Order must contain at least one item")
	}

	var errs shared.ValidationErrors
	errs.Check(in.UserID == uuid.Nil, "User is required")
	for _, item := range in.Items {
		item.validate(&errs)
	}
	errs.Check(in.ShippingAddress.IsEmpty(), "Shipping address is required")
	errs.Check(in.BillingAddress.IsEmpty(), "Billing address is required")
	errs.Check(!in.PaymentMethod.Type.IsValid(), "`"+string(in.PaymentMethod.Type)+"` is not a valid payment type")
	errs.Check(in.Tax.IsNegative(), "Tax cannot be negative")
	errs.Check(in.ShippingCost.IsNegative(), "Shipping cost cannot be negative")
	errs.Check(len([]rune(in.Notes)) > MaxNotesLength, "Notes cannot exceed 500 characters")
	if err := errs.Err(); err != nil {
		return nil, err
	}

	o := &Order{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		UserID:            in.UserID,
		OrderNumber:       GenerateOrderNumber(time.Now()),
		ShippingAddress:   in.ShippingAddress,
		BillingAddress:    in.BillingAddress,
		PaymentMethod:     in.PaymentMethod,
		Tax:               in.Tax,
		ShippingCost:      in.ShippingCost,
		Status:            OrderStatusPending,
		Notes:             strings.TrimSpace(in.Notes),
	}
	if o.PaymentMethod.Status == "" {
		o.PaymentMethod.Status = PaymentStatusPending
	}

	o.Items = make([]OrderItem, len(in.Items))
	for i, item := range in.Items {
		item.ID = uuid.New()
		item.OrderID = o.ID
		o.Items[i] = item
	}

	o.Subtotal = decimal.Zero
	for _, item := range o.Items {
		o.Subtotal = o.Subtotal.Add(item.LineTotal())
	}
	o.Recalculate()

	o.AddDomainEvent(NewOrderPlacedEvent(o))
	return o, nil
}

// Recalculate refreshes the derived fields: total, the paid flag and the delivered flag.
// Repositories call it before every write.
func (o *Order) Recalculate() {
	o.Total = o.Subtotal.Add(o.Tax).Add(o.ShippingCost)

	now := time.Now()
	if o.PaymentMethod.Status == PaymentStatusCompleted && !o.IsPaid {
		o.IsPaid = true
		o.PaidAt = &now
	}
	if o.Status == OrderStatusDelivered && !o.IsDelivered {
		o.IsDelivered = true
		o.DeliveredAt = &now
	}
}

// StatusUpdate holds an admin status change
type StatusUpdate struct {
	Status            OrderStatus
	TrackingNumber    string
	EstimatedDelivery *time.Time
	Notes             string
}

// UpdateStatus applies an admin status change. Empty optional fields are left unchanged.
func (o *Order) UpdateStatus(update StatusUpdate) error {
	if !update.Status.IsValid() {
		return shared.NewDomainError("INVALID_STATUS", fmt.Sprintf("`%s` is not a valid order status", update.Status))
	}
	if update.Status != o.Status && !o.Status.CanTransitionTo(update.Status) {
		return shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Cannot change status of a %s order", o.Status))
	}
	if len([]rune(update.Notes)) > MaxNotesLength {
		return shared.NewDomainError("VALIDATION_ERROR", "Notes cannot exceed 500 characters")
	}

	from := o.Status
	o.Status = update.Status
	if update.TrackingNumber != "" {
		o.TrackingNumber = update.TrackingNumber
	}
	if update.EstimatedDelivery != nil {
		o.EstimatedDelivery = update.EstimatedDelivery
	}
	if update.Notes != "" {
		o.Notes = update.Notes
	}
	o.Recalculate()
	o.Touch()

	if from != o.Status {
		o.AddDomainEvent(NewOrderStatusChangedEvent(o, from))
		if o.Status == OrderStatusCancelled {
			o.AddDomainEvent(NewOrderCancelledEvent(o))
		}
	}
	return nil
}

// Cancel cancels a pending or processing order
func (o *Order) Cancel() error {
	if !o.Status.IsCancellable() {
		return shared.NewDomainError("INVALID_STATE", "Order cannot be cancelled at this stage")
	}
	from := o.Status
	o.Status = OrderStatusCancelled
	o.Touch()
	o.AddDomainEvent(NewOrderStatusChangedEvent(o, from))
	o.AddDomainEvent(NewOrderCancelledEvent(o))
	return nil
}

// MarkPaid records a completed payment. It is idempotent.
func (o *Order) MarkPaid(result PaymentResult) {
	wasPaid := o.IsPaid
	o.PaymentMethod.Status = PaymentStatusCompleted
	if result.UpdateTime == "" {
		result.UpdateTime = time.Now().UTC().Format(time.RFC3339)
	}
	o.PaymentResult = &result
	o.Recalculate()
	o.Touch()
	if !wasPaid {
		o.AddDomainEvent(NewOrderPaidEvent(o))
	}
}

// MarkPaymentFailed records a failed payment attempt
func (o *Order) MarkPaymentFailed(result PaymentResult) {
	if o.IsPaid {
		return
	}
	o.PaymentMethod.Status = PaymentStatusFailed
	if result.UpdateTime == "" {
		result.UpdateTime = time.Now().UTC().Format(time.RFC3339)
	}
	o.PaymentResult = &result
	o.Touch()
}

// MarkRefunded records a refund of the order's payment
func (o *Order) MarkRefunded() error {
	if !o.IsPaid {
		return shared.NewDomainError("INVALID_STATE", "Order has not been paid")
	}
	if o.Status == OrderStatusRefunded {
		return nil
	}
	from := o.Status
	o.PaymentMethod.Status = PaymentStatusRefunded
	o.Status = OrderStatusRefunded
	o.Touch()
	o.AddDomainEvent(NewOrderStatusChangedEvent(o, from))
	o.AddDomainEvent(NewOrderRefundedEvent(o))
	return nil
}

// IsOwnedBy reports whether userID placed the order
func (o *Order) IsOwnedBy(userID uuid.UUID) bool {
	return o.UserID == userID
}

// ItemCount returns the total quantity across items
func (o *Order) ItemCount() int {
	n := 0
	for _, item := range o.Items {
		n += item.Quantity
	}
	return n
}

// AgeInDays returns whole days elapsed since the order was placed
func (o *Order) AgeInDays(now time.Time) int {
	return int(now.Sub(o.CreatedAt).Hours() / 24)
}

// GenerateOrderNumber returns a new "DN-xxxxxxxx-XXXX" order number
func GenerateOrderNumber(now time.Time) string {
	return shared.GenerateReference(now, 8, 4)
}
