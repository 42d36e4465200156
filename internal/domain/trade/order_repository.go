package trade

import (
	"context"
	"time"

	"github.com/dripnest/storefront/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Filter keys understood by OrderRepository.FindAll and Count.
// Filter.Search matches the order number or the customer's name.
const (
	FilterUserID = "user_id"
	FilterStatus = "status"
)

// ProductSales aggregates the quantity sold of one product
type ProductSales struct {
	ProductID    uuid.UUID
	Name         string
	TotalSold    int64
	TotalRevenue decimal.Decimal
}

// OrderRepository defines the interface for order persistence
type OrderRepository interface {
	// FindByID finds an order by ID, items included
	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)

	// FindAll finds orders matching the filter, newest first, with customer name and email
	FindAll(ctx context.Context, filter shared.Filter) ([]Order, error)

	// Count counts orders matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// Save updates an existing order's header fields. It fails with ErrOrderModified
	// when the order was saved by someone else since it was loaded.
	Save(ctx context.Context, order *Order) error

	// PlaceOrder decrements stock for every item and inserts the order in one
	// transaction. A product without enough stock aborts the whole order with
	// ErrInsufficientStock.
	PlaceOrder(ctx context.Context, order *Order) error

	// CancelOrder saves the order and returns every item's quantity to stock in one
	// transaction. Stock is untouched when the save fails with ErrOrderModified.
	CancelOrder(ctx context.Context, order *Order) error

	// FindPaidSince finds paid orders created at or after since, items included
	FindPaidSince(ctx context.Context, since time.Time) ([]Order, error)

	// SumPaidTotal sums the totals of paid orders created at or after since.
	// A zero since sums every paid order.
	SumPaidTotal(ctx context.Context, since time.Time) (decimal.Decimal, error)

	// CountSince counts orders created at or after since
	CountSince(ctx context.Context, since time.Time) (int64, error)

	// TopSelling returns the best selling products by quantity
	TopSelling(ctx context.Context, limit int) ([]ProductSales, error)
}
