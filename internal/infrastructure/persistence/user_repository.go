package persistence

import (
	"context"
	"time"

	"github.com/dripnest/storefront/internal/domain/identity"
	"github.com/dripnest/storefront/internal/domain/shared"
	"github.com/dripnest/storefront/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormUserRepository implements UserRepository using GORM
type GormUserRepository struct {
	db *gorm.DB
}

// NewGormUserRepository creates a new GormUserRepository
func NewGormUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

func preloadUserChildren(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Addresses", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Preload("Wishlist", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") })
}

// Create creates a new user with its addresses and wishlist
func (r *GormUserRepository) Create(ctx context.Context, user *identity.User) error {
	model := models.UserModelFromDomain(user)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(model).Error; err != nil {
			return err
		}
		return replaceUserChildren(tx, model)
	})
	return translateError(err)
}

// Update saves an existing user and replaces its addresses and wishlist
func (r *GormUserRepository) Update(ctx context.Context, user *identity.User) error {
	user.Touch()
	model := models.UserModelFromDomain(user)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Omit(clause.Associations, "created_at").
			Where("id = ?", user.ID).
			Select("*").
			Updates(model)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		if err := tx.Where("user_id = ?", user.ID).Delete(&models.UserAddressModel{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", user.ID).Delete(&models.WishlistItemModel{}).Error; err != nil {
			return err
		}
		return replaceUserChildren(tx, model)
	})
	return translateError(err)
}

func replaceUserChildren(tx *gorm.DB, model *models.UserModel) error {
	if len(model.Addresses) > 0 {
		if err := tx.Create(&model.Addresses).Error; err != nil {
			return err
		}
	}
	if len(model.Wishlist) > 0 {
		if err := tx.Create(&model.Wishlist).Error; err != nil {
			return err
		}
	}
	return nil
}

// Delete deletes a user by ID
func (r *GormUserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", id).Delete(&models.UserAddressModel{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&models.WishlistItemModel{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.UserModel{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// FindByID finds a user by ID
func (r *GormUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.User, error) {
	var model models.UserModel
	if err := preloadUserChildren(r.db.WithContext(ctx)).First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindByEmail finds a user by email
func (r *GormUserRepository) FindByEmail(ctx context.Context, email string) (*identity.User, error) {
	var model models.UserModel
	err := preloadUserChildren(r.db.WithContext(ctx)).
		Where("email = ?", identity.NormalizeEmail(email)).
		First(&model).Error
	if err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// ExistsByEmail checks if an email is already registered
func (r *GormUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.UserModel{}).
		Where("email = ?", identity.NormalizeEmail(email)).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// FindAll finds users matching the filter
func (r *GormUserRepository) FindAll(ctx context.Context, filter shared.Filter) ([]identity.User, error) {
	query := r.applyFilter(preloadUserChildren(r.db.WithContext(ctx)).Model(&models.UserModel{}), filter).
		Order(userSort.clause("", filter.OrderBy, filter.OrderDir))
	if filter.Limit > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.Limit)
	}

	var rows []models.UserModel
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	users := make([]identity.User, len(rows))
	for i := range rows {
		users[i] = *rows[i].ToDomain()
	}
	return users, nil
}

// Count counts users matching the filter
func (r *GormUserRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	if err := r.applyFilter(r.db.WithContext(ctx).Model(&models.UserModel{}), filter).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountCustomersSince counts customers created at or after since
func (r *GormUserRepository) CountCustomersSince(ctx context.Context, since time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.UserModel{}).
		Where("role = ? AND created_at >= ?", string(identity.RoleCustomer), since).
		Count(&count).Error
	return count, err
}

// UpdateLastLogin stamps the login time
func (r *GormUserRepository) UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	result := r.db.WithContext(ctx).Model(&models.UserModel{}).
		Where("id = ?", id).
		UpdateColumn("last_login", at)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// applyFilter applies search and filter keys to the query
func (r *GormUserRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		p := likePattern(filter.Search)
		query = query.Where(`LOWER(name) LIKE ? ESCAPE '\' OR LOWER(email) LIKE ? ESCAPE '\'`, p, p)
	}
	for key, value := range filter.Filters {
		if key == identity.FilterRole {
			query = query.Where("role = ?", value)
		}
	}
	return query
}

// Ensure GormUserRepository implements UserRepository
var _ identity.UserRepository = (*GormUserRepository)(nil)
