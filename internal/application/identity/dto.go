package identity

import (
	"time"

	"github.com/dripnest/storefront/internal/domain/identity"
	"github.com/dripnest/storefront/internal/domain/shared"
	"github.com/dripnest/storefront/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RegisterRequest creates a customer account
type RegisterRequest struct {
	Name     string `json:"name" binding:"required,max=50"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

// LoginRequest authenticates with email and password
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RefreshRequest exchanges a refresh token for a new pair
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

// LogoutInput identifies the access token to revoke
type LogoutInput struct {
	UserID    uuid.UUID
	TokenJTI  string
	ExpiresAt time.Time
}

// AddressRequest is an address book entry
type AddressRequest struct {
	Type      string `json:"type" binding:"omitempty,oneof=home work other"`
	Street    string `json:"street" binding:"required"`
	City      string `json:"city" binding:"required"`
	State     string `json:"state" binding:"required"`
	ZipCode   string `json:"zipCode" binding:"required"`
	Country   string `json:"country"`
	IsDefault bool   `json:"isDefault"`
}

// UpdateAddressRequest patches an address book entry; empty fields are kept
type UpdateAddressRequest struct {
	Type      string `json:"type" binding:"omitempty,oneof=home work other"`
	Street    string `json:"street"`
	City      string `json:"city"`
	State     string `json:"state"`
	ZipCode   string `json:"zipCode"`
	Country   string `json:"country"`
	IsDefault bool   `json:"isDefault"`
}

// UpdateProfileRequest holds optional profile changes. A non-nil Addresses
// replaces the whole address book.
type UpdateProfileRequest struct {
	Name      *string          `json:"name" binding:"omitempty,max=50"`
	Phone     *string          `json:"phone" binding:"omitempty,max=50"`
	Avatar    *string          `json:"avatar" binding:"omitempty,max=500"`
	Addresses []AddressRequest `json:"addresses" binding:"omitempty,dive"`
}

// AddressResponse represents an address book entry
type AddressResponse struct {
	ID        uuid.UUID `json:"id"`
	Type      string    `json:"type"`
	Street    string    `json:"street"`
	City      string    `json:"city"`
	State     string    `json:"state"`
	ZipCode   string    `json:"zipCode"`
	Country   string    `json:"country"`
	IsDefault bool      `json:"isDefault"`
}

// UserResponse represents a user in API responses. The password hash is never exposed.
type UserResponse struct {
	ID              uuid.UUID         `json:"id"`
	Name            string            `json:"name"`
	Email           string            `json:"email"`
	Avatar          string            `json:"avatar,omitempty"`
	Phone           string            `json:"phone,omitempty"`
	Role            string            `json:"role"`
	Addresses       []AddressResponse `json:"addresses"`
	Wishlist        []uuid.UUID       `json:"wishlist"`
	IsEmailVerified bool              `json:"isEmailVerified"`
	LastLogin       *time.Time        `json:"lastLogin,omitempty"`
	CreatedAt       time.Time         `json:"createdAt"`
	UpdatedAt       time.Time         `json:"updatedAt"`
}

// AuthResult is returned by register, login and refresh
type AuthResult struct {
	Token        string       `json:"token"`
	RefreshToken string       `json:"refreshToken"`
	ExpiresAt    time.Time    `json:"expiresAt"`
	User         UserResponse `json:"user"`
}

// WishlistItemResponse is the product summary shown in a wishlist
type WishlistItemResponse struct {
	ID         uuid.UUID       `json:"id"`
	Name       string          `json:"name"`
	Price      decimal.Decimal `json:"price"`
	Images     []string        `json:"images"`
	Rating     float64         `json:"rating"`
	NumReviews int             `json:"numReviews"`
}

// UserListQuery holds the admin user listing parameters
type UserListQuery struct {
	Page   int    `form:"page"`
	Limit  int    `form:"limit"`
	Search string `form:"search"`
}

// UserListResponse is one page of users
type UserListResponse struct {
	Users      []UserResponse    `json:"users"`
	Pagination shared.Pagination `json:"pagination"`
}

// CreateUserRequest is an admin-created account
type CreateUserRequest struct {
	Name            string `json:"name" binding:"required,max=50"`
	Email           string `json:"email" binding:"required,email"`
	Password        string `json:"password" binding:"required,min=6"`
	Role            string `json:"role" binding:"omitempty,oneof=customer admin"`
	IsEmailVerified bool   `json:"isEmailVerified"`
}

// ToUserResponse converts a domain User to a UserResponse
func ToUserResponse(u *identity.User) UserResponse {
	wishlist := u.Wishlist
	if wishlist == nil {
		wishlist = []uuid.UUID{}
	}
	return UserResponse{
		ID:              u.ID,
		Name:            u.Name,
		Email:           u.Email,
		Avatar:          u.Avatar,
		Phone:           u.Phone,
		Role:            string(u.Role),
		Addresses:       toAddressResponses(u.Addresses),
		Wishlist:        wishlist,
		IsEmailVerified: u.IsEmailVerified,
		LastLogin:       u.LastLogin,
		CreatedAt:       u.CreatedAt,
		UpdatedAt:       u.UpdatedAt,
	}
}

func toAddressResponses(addrs []identity.UserAddress) []AddressResponse {
	out := make([]AddressResponse, len(addrs))
	for i, a := range addrs {
		dto := a.Address.ToDTO()
		out[i] = AddressResponse{
			ID:        a.ID,
			Type:      string(a.Type),
			Street:    dto.Street,
			City:      dto.City,
			State:     dto.State,
			ZipCode:   dto.ZipCode,
			Country:   dto.Country,
			IsDefault: a.IsDefault,
		}
	}
	return out
}

// toUserAddress validates the request into an address book entry
func (r AddressRequest) toUserAddress() (identity.UserAddress, error) {
	addr, err := valueobject.AddressDTO{
		Street:  r.Street,
		City:    r.City,
		State:   r.State,
		ZipCode: r.ZipCode,
		Country: r.Country,
	}.ToAddress()
	if err != nil {
		return identity.UserAddress{}, shared.NewDomainError("VALIDATION_ERROR", err.Error())
	}
	return identity.NewUserAddress(identity.AddressType(r.Type), addr, r.IsDefault)
}

func (r UpdateAddressRequest) patch() identity.AddressPatch {
	return identity.AddressPatch{
		Type:      identity.AddressType(r.Type),
		Street:    r.Street,
		City:      r.City,
		State:     r.State,
		ZipCode:   r.ZipCode,
		Country:   r.Country,
		IsDefault: r.IsDefault,
	}
}
