package identity

import (
	"context"
	"time"

	"github.com/dripnest/storefront/internal/domain/shared"
	"github.com/google/uuid"
)

// Filter keys understood by UserRepository.FindAll and Count.
// Filter.Search matches name or email.
const (
	FilterRole = "role"
)

// UserRepository defines the interface for user persistence
type UserRepository interface {
	// Create creates a new user. A taken email returns shared.ErrAlreadyExists.
	Create(ctx context.Context, user *User) error

	// Update saves an existing user, addresses and wishlist included
	Update(ctx context.Context, user *User) error

	// Delete deletes a user by ID
	Delete(ctx context.Context, id uuid.UUID) error

	// FindByID finds a user by ID
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)

	// FindByEmail finds a user by normalized email
	FindByEmail(ctx context.Context, email string) (*User, error)

	// ExistsByEmail checks if an email is already registered
	ExistsByEmail(ctx context.Context, email string) (bool, error)

	// FindAll returns users matching the filter, newest first
	FindAll(ctx context.Context, filter shared.Filter) ([]User, error)

	// Count counts users matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// CountCustomersSince counts customers created at or after since
	CountCustomersSince(ctx context.Context, since time.Time) (int64, error)

	// UpdateLastLogin stamps the last login time without touching other fields
	UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error
}
