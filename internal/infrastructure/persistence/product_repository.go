package persistence

import (
	"context"
	"time"

	"github.com/dripnest/storefront/internal/domain/catalog"
	"github.com/dripnest/storefront/internal/domain/shared"
	"github.com/dripnest/storefront/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormProductRepository implements ProductRepository using GORM
type GormProductRepository struct {
	db *gorm.DB
}

// NewGormProductRepository creates a new GormProductRepository
func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// FindByID finds a product by its ID, reviews included
func (r *GormProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	var model models.ProductModel
	err := r.db.WithContext(ctx).
		Preload("Reviews", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		First(&model, "id = ?", id).Error
	if err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindByIDs finds multiple products by their IDs
func (r *GormProductRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]catalog.Product, error) {
	if len(ids) == 0 {
		return []catalog.Product{}, nil
	}
	var rows []models.ProductModel
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	return toProducts(rows), nil
}

// FindAll finds all products matching the filter
func (r *GormProductRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Product, error) {
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.ProductModel{}), filter).
		Order(productSort.clause("", filter.OrderBy, filter.OrderDir))
	if filter.Limit > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.Limit)
	}

	var rows []models.ProductModel
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return toProducts(rows), nil
}

// Count counts products matching the filter
func (r *GormProductRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	if err := r.applyFilter(r.db.WithContext(ctx).Model(&models.ProductModel{}), filter).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// productEditableColumns are the columns Update copies from the domain product.
// stock, rating and num_reviews are only changed by relative SQL updates.
var productEditableColumns = []string{
	"name", "description", "price", "compare_price", "images", "category", "tags",
	"sizes", "colors", "design_type", "design_description", "design_placement",
	"materials", "care", "is_active", "is_featured", "sku",
	"weight", "length", "width", "height", "updated_at",
}

// Create inserts a new product together with any reviews it already carries
func (r *GormProductRepository) Create(ctx context.Context, product *catalog.Product) error {
	model := models.ProductModelFromDomain(product)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(model).Error; err != nil {
			return err
		}
		if len(model.Reviews) > 0 {
			return tx.Create(&model.Reviews).Error
		}
		return nil
	})
	return translateError(err)
}

// Update writes the editable fields of product and adds stockDelta to the
// stored stock, never going below zero. Reviews are left untouched.
func (r *GormProductRepository) Update(ctx context.Context, product *catalog.Product, stockDelta int) error {
	product.Touch()
	model := models.ProductModelFromDomain(product)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("id = ?", product.ID).
			Select(productEditableColumns).
			Updates(model)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		if stockDelta == 0 {
			return nil
		}
		return tx.Exec(
			"UPDATE products SET stock = CASE WHEN stock + ? < 0 THEN 0 ELSE stock + ? END WHERE id = ?",
			stockDelta, stockDelta, product.ID,
		).Error
	})
	return translateError(err)
}

// AddReview inserts review and recomputes the product's rating and review
// count from the stored reviews in the same transaction.
func (r *GormProductRepository) AddReview(ctx context.Context, review *catalog.Review) error {
	model := models.ProductReviewModelFromDomain(review.ProductID, *review)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&model).Error; err != nil {
			if isUniqueViolation(err) {
				return catalog.ErrAlreadyReviewed
			}
			return err
		}
		result := tx.Exec(`UPDATE products SET
			rating = COALESCE((SELECT AVG(product_reviews.rating) FROM product_reviews WHERE product_reviews.product_id = ?), 0),
			num_reviews = (SELECT COUNT(*) FROM product_reviews WHERE product_reviews.product_id = ?),
			updated_at = ?
			WHERE id = ?`,
			review.ProductID, review.ProductID, time.Now(), review.ProductID,
		)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
	return translateError(err)
}

// Delete deletes a product and its reviews
func (r *GormProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("product_id = ?", id).Delete(&models.ProductReviewModel{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.ProductModel{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// ExistsBySKU checks whether a product other than excludeID uses sku
func (r *GormProductRepository) ExistsBySKU(ctx context.Context, sku string, excludeID uuid.UUID) (bool, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&models.ProductModel{}).Where("sku = ?", sku)
	if excludeID != uuid.Nil {
		query = query.Where("id <> ?", excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// FindLowStock finds products with stock below threshold, lowest first.
// A limit of zero returns every match.
func (r *GormProductRepository) FindLowStock(ctx context.Context, threshold, limit int) ([]catalog.Product, error) {
	query := r.db.WithContext(ctx).Where("stock < ?", threshold).Order("stock ASC, name ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	var rows []models.ProductModel
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return toProducts(rows), nil
}

// FindOutOfStock finds products with no stock left
func (r *GormProductRepository) FindOutOfStock(ctx context.Context) ([]catalog.Product, error) {
	var rows []models.ProductModel
	if err := r.db.WithContext(ctx).Where("stock = 0").Order("name ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return toProducts(rows), nil
}

// CategoryStats groups products by category, largest first
func (r *GormProductRepository) CategoryStats(ctx context.Context) ([]catalog.CategoryStat, error) {
	var rows []struct {
		Category   string
		Count      int64
		TotalStock int64
	}
	err := r.db.WithContext(ctx).Model(&models.ProductModel{}).
		Select("category, COUNT(*) AS count, COALESCE(SUM(stock), 0) AS total_stock").
		Group("category").
		Order("count DESC, category ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	stats := make([]catalog.CategoryStat, len(rows))
	for i, row := range rows {
		stats[i] = catalog.CategoryStat{
			Category:   catalog.Category(row.Category),
			Count:      row.Count,
			TotalStock: row.TotalStock,
		}
	}
	return stats, nil
}

// applyFilter applies search and filter keys to the query
func (r *GormProductRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		p := likePattern(filter.Search)
		query = query.Where(
			`LOWER(name) LIKE ? ESCAPE '\' OR LOWER(description) LIKE ? ESCAPE '\' OR LOWER(CAST(tags AS TEXT)) LIKE ? ESCAPE '\'`,
			p, p, p,
		)
	}

	for key, value := range filter.Filters {
		switch key {
		case catalog.FilterCategory:
			query = query.Where("category = ?", value)
		case catalog.FilterMinPrice:
			query = query.Where("price >= ?", value)
		case catalog.FilterMaxPrice:
			query = query.Where("price <= ?", value)
		case catalog.FilterIsActive:
			query = query.Where("is_active = ?", value)
		case catalog.FilterIsFeatured:
			query = query.Where("is_featured = ?", value)
		}
	}
	return query
}

func toProducts(rows []models.ProductModel) []catalog.Product {
	products := make([]catalog.Product, len(rows))
	for i := range rows {
		products[i] = *rows[i].ToDomain()
	}
	return products
}

// Ensure GormProductRepository implements ProductRepository
var _ catalog.ProductRepository = (*GormProductRepository)(nil)
