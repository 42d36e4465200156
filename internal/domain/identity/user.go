package identity

import (
	"regexp"
	"slices"
	"strings"
	"time"

	"github.com/dripnest/storefront/internal/domain/shared"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Role is the access role of a user
type Role string

const (
	RoleCustomer Role = "customer"
	RoleAdmin    Role = "admin"
)

// IsValid checks if the role is known
func (r Role) IsValid() bool {
	return r == RoleCustomer || r == RoleAdmin
}

// Field limits
const (
	MaxNameLength     = 50
	MinPasswordLength = 6
	maxPasswordLength = 72 // bcrypt input limit
)

// Password cost for bcrypt
const bcryptCost = 12

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// User is the aggregate root for a storefront account
type User struct {
	shared.BaseAggregateRoot
	Name            string
	Email           string
	PasswordHash    string
	Avatar          string
	Phone           string
	Role            Role
	Addresses       []UserAddress
	Wishlist        []uuid.UUID
	IsEmailVerified bool
	LastLogin       *time.Time
}

// NewUser creates a customer account with a hashed password
func NewUser(name, email, password string) (*User, error) {
	var errs shared.ValidationErrors
	name = strings.TrimSpace(name)
	email = NormalizeEmail(email)
	checkName(&errs, name)
	checkEmail(&errs, email)
	checkPassword(&errs, password)
	if err := errs.Err(); err != nil {
		return nil, err
	}

	hash, err := hashPassword(password)
	if err != nil {
		return nil, shared.NewDomainError("PASSWORD_HASH_ERROR", "Failed to hash password")
	}

	u := &User{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Email:             email,
		PasswordHash:      hash,
		Role:              RoleCustomer,
		Addresses:         []UserAddress{},
		Wishlist:          []uuid.UUID{},
	}
	u.AddDomainEvent(NewUserRegisteredEvent(u))
	return u, nil
}

// SetRole changes the user's role
func (u *User) SetRole(role Role) error {
	if !role.IsValid() {
		return shared.NewDomainError("INVALID_ROLE", "`"+string(role)+"` is not a valid role")
	}
	u.Role = role
	u.Touch()
	return nil
}

// IsAdmin returns true if the user has the admin role
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// ProfileUpdate holds optional profile changes. Nil fields are left unchanged.
type ProfileUpdate struct {
	Name      *string
	Phone     *string
	Avatar    *string
	Addresses []UserAddress
}

// UpdateProfile applies profile changes
func (u *User) UpdateProfile(update ProfileUpdate) error {
	var errs shared.ValidationErrors
	name := u.Name
	if update.Name != nil && strings.TrimSpace(*update.Name) != "" {
		name = strings.TrimSpace(*update.Name)
		checkName(&errs, name)
	}
	if update.Phone != nil {
		errs.Check(len(*update.Phone) > 50, "Phone cannot exceed 50 characters")
	}
	if update.Avatar != nil {
		errs.Check(len(*update.Avatar) > 500, "Avatar URL cannot exceed 500 characters")
	}
	if err := errs.Err(); err != nil {
		return err
	}

	u.Name = name
	if update.Phone != nil && strings.TrimSpace(*update.Phone) != "" {
		u.Phone = strings.TrimSpace(*update.Phone)
	}
	if update.Avatar != nil && strings.TrimSpace(*update.Avatar) != "" {
		u.Avatar = strings.TrimSpace(*update.Avatar)
	}
	if update.Addresses != nil {
		u.ReplaceAddresses(update.Addresses)
	}
	u.Touch()
	return nil
}

// SetPassword replaces the password hash
func (u *User) SetPassword(password string) error {
	var errs shared.ValidationErrors
	checkPassword(&errs, password)
	if err := errs.Err(); err != nil {
		return err
	}
	hash, err := hashPassword(password)
	if err != nil {
		return shared.NewDomainError("PASSWORD_HASH_ERROR", "Failed to hash password")
	}
	u.PasswordHash = hash
	u.Touch()
	return nil
}

// VerifyPassword checks if the provided password matches
func (u *User) VerifyPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

// RecordLogin sets LastLogin to now
func (u *User) RecordLogin() {
	now := time.Now()
	u.LastLogin = &now
}

// MarkEmailVerified flags the email as verified
func (u *User) MarkEmailVerified(verified bool) {
	u.IsEmailVerified = verified
	u.Touch()
}

// AddToWishlist adds productID to the wishlist
func (u *User) AddToWishlist(productID uuid.UUID) error {
	if slices.Contains(u.Wishlist, productID) {
		return shared.NewDomainError("ALREADY_IN_WISHLIST", "Product already in wishlist")
	}
	u.Wishlist = append(u.Wishlist, productID)
	u.Touch()
	return nil
}

// RemoveFromWishlist removes productID. Absent products are ignored.
func (u *User) RemoveFromWishlist(productID uuid.UUID) {
	u.Wishlist = slices.DeleteFunc(u.Wishlist, func(id uuid.UUID) bool { return id == productID })
	u.Touch()
}

// InWishlist reports whether productID is in the wishlist
func (u *User) InWishlist(productID uuid.UUID) bool {
	return slices.Contains(u.Wishlist, productID)
}

// NormalizeEmail lower-cases and trims an email for lookups
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func checkName(errs *shared.ValidationErrors, name string) {
	errs.Check(name == "", "Name is required")
	errs.Check(len([]rune(name)) > MaxNameLength, "Name cannot be more than 50 characters")
}

func checkEmail(errs *shared.ValidationErrors, email string) {
	if email == "" {
		errs.Add("Email is required")
		return
	}
	errs.Check(!emailRegex.MatchString(email), "Please provide a valid email")
}

func checkPassword(errs *shared.ValidationErrors, password string) {
	if password == "" {
		errs.Add("Password is required")
		return
	}
	errs.Check(len(password) < MinPasswordLength, "Password must be at least 6 characters")
	errs.Check(len(password) > maxPasswordLength, "Password cannot exceed 72 characters")
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
