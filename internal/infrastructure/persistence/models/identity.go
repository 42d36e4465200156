package models

import (
	"time"

	"github.com/dripnest/storefront/internal/domain/identity"
	"github.com/dripnest/storefront/internal/domain/shared/valueobject"
	"github.com/google/uuid"
)

// UserModel is the persistence model for the User aggregate.
type UserModel struct {
	BaseModel
	Name            string     `gorm:"type:varchar(50);not null"`
	Email           string     `gorm:"type:varchar(255);not null;uniqueIndex"`
	PasswordHash    string     `gorm:"type:varchar(255);not null"`
	Avatar          string     `gorm:"type:text"`
	Phone           string     `gorm:"type:varchar(30)"`
	Role            string     `gorm:"type:varchar(20);not null;index"`
	IsEmailVerified bool       `gorm:"not null"`
	LastLogin       *time.Time `gorm:"column:last_login"`

	Addresses []UserAddressModel  `gorm:"foreignKey:UserID"`
	Wishlist  []WishlistItemModel `gorm:"foreignKey:UserID"`
}

// TableName returns the table name for GORM
func (UserModel) TableName() string {
	return "users"
}

// ToDomain converts the persistence model to a domain User.
func (m *UserModel) ToDomain() *identity.User {
	u := &identity.User{
		BaseAggregateRoot: m.aggregateRoot(),
		Name:              m.Name,
		Email:             m.Email,
		PasswordHash:      m.PasswordHash,
		Avatar:            m.Avatar,
		Phone:             m.Phone,
		Role:              identity.Role(m.Role),
		IsEmailVerified:   m.IsEmailVerified,
		LastLogin:         m.LastLogin,
		Addresses:         make([]identity.UserAddress, 0, len(m.Addresses)),
		Wishlist:          make([]uuid.UUID, 0, len(m.Wishlist)),
	}
	for i := range m.Addresses {
		u.Addresses = append(u.Addresses, m.Addresses[i].ToDomain())
	}
	for _, w := range m.Wishlist {
		u.Wishlist = append(u.Wishlist, w.ProductID)
	}
	return u
}

// FromDomain populates the persistence model from a domain User.
func (m *UserModel) FromDomain(u *identity.User) {
	m.FromDomainBaseEntity(u.BaseEntity)
	m.Name = u.Name
	m.Email = u.Email
	m.PasswordHash = u.PasswordHash
	m.Avatar = u.Avatar
	m.Phone = u.Phone
	m.Role = string(u.Role)
	m.IsEmailVerified = u.IsEmailVerified
	m.LastLogin = u.LastLogin
	m.Addresses = make([]UserAddressModel, 0, len(u.Addresses))
	for i, a := range u.Addresses {
		m.Addresses = append(m.Addresses, UserAddressModelFromDomain(u.ID, i, a))
	}
	m.Wishlist = make([]WishlistItemModel, 0, len(u.Wishlist))
	for i, p := range u.Wishlist {
		m.Wishlist = append(m.Wishlist, WishlistItemModel{UserID: u.ID, ProductID: p, Position: i})
	}
}

// UserModelFromDomain creates a new persistence model from a domain User.
func UserModelFromDomain(u *identity.User) *UserModel {
	m := &UserModel{}
	m.FromDomain(u)
	return m
}

// UserAddressModel is one entry of a user's address book.
type UserAddressModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index"`
	Type      string    `gorm:"type:varchar(10);not null"`
	Street    string    `gorm:"type:varchar(200);not null"`
	City      string    `gorm:"type:varchar(100);not null"`
	State     string    `gorm:"type:varchar(100);not null"`
	ZipCode   string    `gorm:"type:varchar(20);not null"`
	Country   string    `gorm:"type:varchar(100);not null"`
	IsDefault bool      `gorm:"not null"`
	Position  int       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (UserAddressModel) TableName() string {
	return "user_addresses"
}

// ToDomain converts the model to a domain UserAddress
func (m *UserAddressModel) ToDomain() identity.UserAddress {
	return identity.UserAddress{
		ID:        m.ID,
		Type:      identity.AddressType(m.Type),
		Address:   valueobject.ReconstructAddress(m.Street, m.City, m.State, m.ZipCode, m.Country),
		IsDefault: m.IsDefault,
	}
}

// UserAddressModelFromDomain creates an address row at position for userID
func UserAddressModelFromDomain(userID uuid.UUID, position int, a identity.UserAddress) UserAddressModel {
	return UserAddressModel{
		ID:        a.ID,
		UserID:    userID,
		Type:      string(a.Type),
		Street:    a.Address.Street(),
		City:      a.Address.City(),
		State:     a.Address.State(),
		ZipCode:   a.Address.ZipCode(),
		Country:   a.Address.Country(),
		IsDefault: a.IsDefault,
		Position:  position,
	}
}

// WishlistItemModel links a user to a saved product.
type WishlistItemModel struct {
	UserID    uuid.UUID `gorm:"type:uuid;primaryKey"`
	ProductID uuid.UUID `gorm:"type:uuid;primaryKey"`
	Position  int       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (WishlistItemModel) TableName() string {
	return "wishlist_items"
}
