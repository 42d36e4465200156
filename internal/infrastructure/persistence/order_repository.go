package persistence

import (
	"bytes"
	"context"
	"slices"
	"time"

	"github.com/dripnest/storefront/internal/domain/shared"
	"github.com/dripnest/storefront/internal/domain/trade"
	"github.com/dripnest/storefront/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const orderCustomerColumns = "orders.*, users.name AS user_name, users.email AS user_email"

// GormOrderRepository implements OrderRepository using GORM
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GormOrderRepository
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// withCustomer joins the owning user so reads carry the customer name and email
func (r *GormOrderRepository) withCustomer(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Model(&models.OrderModel{}).
		Select(orderCustomerColumns).
		Joins("LEFT JOIN users ON users.id = orders.user_id")
}

func preloadItems(db *gorm.DB) *gorm.DB {
	return db.Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("order_items.name ASC") })
}

// FindByID finds an order by ID, items included
func (r *GormOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*trade.Order, error) {
	var model models.OrderModel
	if err := preloadItems(r.withCustomer(ctx)).Where("orders.id = ?", id).First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindAll finds orders matching the filter
func (r *GormOrderRepository) FindAll(ctx context.Context, filter shared.Filter) ([]trade.Order, error) {
	query := r.applyFilter(preloadItems(r.withCustomer(ctx)), filter).
		Order(orderSort.clause("orders", filter.OrderBy, filter.OrderDir))
	if filter.Limit > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.Limit)
	}

	var rows []models.OrderModel
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return toOrders(rows), nil
}

// Count counts orders matching the filter
func (r *GormOrderRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&models.OrderModel{}).
		Joins("LEFT JOIN users ON users.id = orders.user_id")
	if err := r.applyFilter(query, filter).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save updates an existing order's header fields. Items are immutable once placed.
func (r *GormOrderRepository) Save(ctx context.Context, order *trade.Order) error {
	if err := saveOrder(r.db.WithContext(ctx), order); err != nil {
		return err
	}
	order.IncrementVersion()
	return nil
}

// saveOrder writes the order only while the stored version still matches the
// loaded one, bumping it in the same statement.
func saveOrder(db *gorm.DB, order *trade.Order) error {
	order.Recalculate()
	order.Touch()
	loaded := order.GetVersion()
	model := models.OrderModelFromDomain(order)
	model.Version = loaded + 1

	result := db.Omit(clause.Associations, "created_at").
		Where("id = ? AND version = ?", order.ID, loaded).
		Select("*").
		Updates(model)
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected > 0 {
		return nil
	}

	var count int64
	if err := db.Model(&models.OrderModel{}).Where("id = ?", order.ID).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return shared.ErrNotFound
	}
	return trade.ErrOrderModified
}

// PlaceOrder decrements stock item by item and inserts the order in one transaction.
// The conditional update makes concurrent orders for the last units safe: only one
// of them sees a matching row. Products are updated in ID order so two carts holding
// the same products lock their rows in the same sequence.
func (r *GormOrderRepository) PlaceOrder(ctx context.Context, order *trade.Order) error {
	order.Recalculate()
	model := models.OrderModelFromDomain(order)

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now()
		for _, item := range byProduct(order.Items) {
			result := tx.Exec(
				"UPDATE products SET stock = stock - ?, updated_at = ? WHERE id = ? AND stock >= ?",
				item.Quantity, now, item.ProductID, item.Quantity,
			)
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				return shared.NewDomainError(shared.ErrInsufficientStock.Code, "Insufficient stock for "+item.Name)
			}
		}

		if err := tx.Omit(clause.Associations).Create(model).Error; err != nil {
			return translateError(err)
		}
		if len(model.Items) > 0 {
			if err := tx.Create(&model.Items).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// CancelOrder saves the cancelled order, then returns item quantities to stock.
// A save that loses to another change aborts before any stock moves.
// Products deleted since the order was placed are skipped.
func (r *GormOrderRepository) CancelOrder(ctx context.Context, order *trade.Order) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := saveOrder(tx, order); err != nil {
			return err
		}
		now := time.Now()
		for _, item := range byProduct(order.Items) {
			err := tx.Exec(
				"UPDATE products SET stock = stock + ?, updated_at = ? WHERE id = ?",
				item.Quantity, now, item.ProductID,
			).Error
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	order.IncrementVersion()
	return nil
}

// FindPaidSince finds paid orders created at or after since
func (r *GormOrderRepository) FindPaidSince(ctx context.Context, since time.Time) ([]trade.Order, error) {
	var rows []models.OrderModel
	err := preloadItems(r.db.WithContext(ctx)).
		Where("is_paid = ? AND created_at >= ?", true, since).
		Order("created_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return toOrders(rows), nil
}

// SumPaidTotal sums paid order totals created at or after since
func (r *GormOrderRepository) SumPaidTotal(ctx context.Context, since time.Time) (decimal.Decimal, error) {
	query := r.db.WithContext(ctx).Model(&models.OrderModel{}).
		Select("COALESCE(SUM(total), 0)").
		Where("is_paid = ?", true)
	if !since.IsZero() {
		query = query.Where("created_at >= ?", since)
	}

	var total decimal.Decimal
	if err := query.Row().Scan(&total); err != nil {
		return decimal.Zero, err
	}
	return total, nil
}

// CountSince counts orders created at or after since
func (r *GormOrderRepository) CountSince(ctx context.Context, since time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.OrderModel{}).
		Where("created_at >= ?", since).
		Count(&count).Error
	return count, err
}

// TopSelling ranks products by quantity sold. Cancelled and refunded orders do not count.
func (r *GormOrderRepository) TopSelling(ctx context.Context, limit int) ([]trade.ProductSales, error) {
	var rows []struct {
		ProductID    uuid.UUID
		Name         string
		TotalSold    int64
		TotalRevenue decimal.Decimal
	}
	query := r.db.WithContext(ctx).
		Table("order_items").
		Select(`order_items.product_id AS product_id,
			MAX(order_items.name) AS name,
			SUM(order_items.quantity) AS total_sold,
			COALESCE(SUM(order_items.quantity * order_items.price), 0) AS total_revenue`).
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Where("orders.status NOT IN ?", []string{
			string(trade.OrderStatusCancelled),
			string(trade.OrderStatusRefunded),
		}).
		Group("order_items.product_id").
		Order("total_sold DESC, name ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Scan(&rows).Error; err != nil {
		return nil, err
	}

	sales := make([]trade.ProductSales, len(rows))
	for i, row := range rows {
		sales[i] = trade.ProductSales{
			ProductID:    row.ProductID,
			Name:         row.Name,
			TotalSold:    row.TotalSold,
			TotalRevenue: row.TotalRevenue,
		}
	}
	return sales, nil
}

// applyFilter applies search and filter keys to an orders query joined with users
func (r *GormOrderRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		p := likePattern(filter.Search)
		query = query.Where(
			`LOWER(orders.order_number) LIKE ? ESCAPE '\' OR LOWER(users.name) LIKE ? ESCAPE '\'`,
			p, p,
		)
	}

	for key, value := range filter.Filters {
		switch key {
		case trade.FilterUserID:
			query = query.Where("orders.user_id = ?", value)
		case trade.FilterStatus:
			query = query.Where("orders.status = ?", value)
		}
	}
	return query
}

// byProduct returns a copy of the items ordered by product ID
func byProduct(items []trade.OrderItem) []trade.OrderItem {
	sorted := slices.Clone(items)
	slices.SortFunc(sorted, func(a, b trade.OrderItem) int {
		return bytes.Compare(a.ProductID[:], b.ProductID[:])
	})
	return sorted
}

func toOrders(rows []models.OrderModel) []trade.Order {
	orders := make([]trade.Order, len(rows))
	for i := range rows {
		orders[i] = *rows[i].ToDomain()
	}
	return orders
}

// Ensure GormOrderRepository implements OrderRepository
var _ trade.OrderRepository = (*GormOrderRepository)(nil)
