package catalog

import (
	"context"

	"github.com/dripnest/storefront/internal/domain/shared"
	"github.com/google/uuid"
)

// Filter keys understood by ProductRepository.FindAll and Count
const (
	FilterCategory   = "category"
	FilterMinPrice   = "min_price"
	FilterMaxPrice   = "max_price"
	FilterIsActive   = "is_active"
	FilterIsFeatured = "is_featured"
)

// CategoryStat summarises the products of one category
type CategoryStat struct {
	Category   Category
	Count      int64
	TotalStock int64
}

// ProductRepository defines the interface for product persistence
type ProductRepository interface {
	// FindByID finds a product by its ID, reviews included
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)

	// FindByIDs finds multiple products by their IDs, without reviews
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]Product, error)

	// FindAll finds all products matching the filter, without reviews
	FindAll(ctx context.Context, filter shared.Filter) ([]Product, error)

	// Count counts products matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// Create inserts a new product
	Create(ctx context.Context, product *Product) error

	// Update writes the product's editable fields. Stock is never copied from
	// product: stockDelta is added to the stored value instead, so units taken
	// by orders placed since product was read are kept.
	Update(ctx context.Context, product *Product, stockDelta int) error

	// AddReview stores a single review and recomputes the product's rating
	// and review count from every stored review. ErrAlreadyReviewed is
	// returned when the user has reviewed the product before.
	AddReview(ctx context.Context, review *Review) error

	// Delete deletes a product
	Delete(ctx context.Context, id uuid.UUID) error

	// ExistsBySKU checks whether another product already uses sku
	ExistsBySKU(ctx context.Context, sku string, excludeID uuid.UUID) (bool, error)

	// FindLowStock finds products whose stock is below threshold
	FindLowStock(ctx context.Context, threshold, limit int) ([]Product, error)

	// FindOutOfStock finds products with zero stock
	FindOutOfStock(ctx context.Context) ([]Product, error)

	// CategoryStats groups products by category
	CategoryStats(ctx context.Context) ([]CategoryStat, error)
}
