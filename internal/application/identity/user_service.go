package identity

import (
	"context"
	"strings"
	"time"

	"github.com/dripnest/storefront/internal/application/event"
	"github.com/dripnest/storefront/internal/domain/catalog"
	"github.com/dripnest/storefront/internal/domain/identity"
	"github.com/dripnest/storefront/internal/domain/shared"
	"github.com/dripnest/storefront/internal/infrastructure/auth"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	DefaultUserPageSize = 20
	MaxUserPageSize     = 100
)

// UserService manages profiles, address books, wishlists and, for admins, accounts
type UserService struct {
	userRepo       identity.UserRepository
	productRepo    catalog.ProductRepository
	blacklist      auth.TokenBlacklist
	revokeTTL      time.Duration
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewUserService creates a new UserService. Deleting a user revokes their
// tokens for revokeTTL, which should cover the refresh token lifetime.
// blacklist may be nil.
func NewUserService(
	userRepo identity.UserRepository,
	productRepo catalog.ProductRepository,
	blacklist auth.TokenBlacklist,
	revokeTTL time.Duration,
	logger *zap.Logger,
) *UserService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UserService{
		userRepo:    userRepo,
		productRepo: productRepo,
		blacklist:   blacklist,
		revokeTTL:   revokeTTL,
		logger:      logger,
	}
}

// SetEventPublisher sets the publisher for account events
func (s *UserService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// GetProfile returns the user's profile
func (s *UserService) GetProfile(ctx context.Context, userID uuid.UUID) (*UserResponse, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	resp := ToUserResponse(user)
	return &resp, nil
}

// UpdateProfile applies profile changes
func (s *UserService) UpdateProfile(ctx context.Context, userID uuid.UUID, req UpdateProfileRequest) (*UserResponse, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	update := identity.ProfileUpdate{
		Name:   req.Name,
		Phone:  req.Phone,
		Avatar: req.Avatar,
	}
	if req.Addresses != nil {
		update.Addresses = make([]identity.UserAddress, 0, len(req.Addresses))
		for _, a := range req.Addresses {
			addr, err := a.toUserAddress()
			if err != nil {
				return nil, err
			}
			update.Addresses = append(update.Addresses, addr)
		}
	}
	if err := user.UpdateProfile(update); err != nil {
		return nil, err
	}
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	resp := ToUserResponse(user)
	return &resp, nil
}

// AddAddress appends an address and returns the full address book
func (s *UserService) AddAddress(ctx context.Context, userID uuid.UUID, req AddressRequest) ([]AddressResponse, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	addr, err := req.toUserAddress()
	if err != nil {
		return nil, err
	}
	user.AddAddress(addr)
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return toAddressResponses(user.Addresses), nil
}

// UpdateAddress patches one address and returns the full address book
func (s *UserService) UpdateAddress(ctx context.Context, userID, addressID uuid.UUID, req UpdateAddressRequest) ([]AddressResponse, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := user.UpdateAddress(addressID, req.patch()); err != nil {
		return nil, err
	}
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return toAddressResponses(user.Addresses), nil
}

// DeleteAddress removes one address and returns the remaining address book
func (s *UserService) DeleteAddress(ctx context.Context, userID, addressID uuid.UUID) ([]AddressResponse, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := user.RemoveAddress(addressID); err != nil {
		return nil, err
	}
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return toAddressResponses(user.Addresses), nil
}

// AddToWishlist saves an existing product to the wishlist
func (s *UserService) AddToWishlist(ctx context.Context, userID, productID uuid.UUID) ([]WishlistItemResponse, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if _, err := s.productRepo.FindByID(ctx, productID); err != nil {
		return nil, err
	}
	if err := user.AddToWishlist(productID); err != nil {
		return nil, err
	}
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return s.wishlistItems(ctx, user.Wishlist)
}

// RemoveFromWishlist drops a product from the wishlist. Absent products are ignored.
func (s *UserService) RemoveFromWishlist(ctx context.Context, userID, productID uuid.UUID) ([]WishlistItemResponse, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.InWishlist(productID) {
		user.RemoveFromWishlist(productID)
		if err := s.userRepo.Update(ctx, user); err != nil {
			return nil, err
		}
	}
	return s.wishlistItems(ctx, user.Wishlist)
}

// GetWishlist returns the wishlisted products in the order they were saved
func (s *UserService) GetWishlist(ctx context.Context, userID uuid.UUID) ([]WishlistItemResponse, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.wishlistItems(ctx, user.Wishlist)
}

func (s *UserService) wishlistItems(ctx context.Context, ids []uuid.UUID) ([]WishlistItemResponse, error) {
	if len(ids) == 0 {
		return []WishlistItemResponse{}, nil
	}
	products, err := s.productRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]catalog.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	items := make([]WishlistItemResponse, 0, len(ids))
	for _, id := range ids {
		p, ok := byID[id]
		if !ok {
			continue
		}
		images := p.Images
		if images == nil {
			images = []string{}
		}
		items = append(items, WishlistItemResponse{
			ID:         p.ID,
			Name:       p.Name,
			Price:      p.Price,
			Images:     images,
			Rating:     p.Rating,
			NumReviews: p.NumReviews,
		})
	}
	return items, nil
}

// ListCustomers returns customers, newest first. Search matches name or email.
func (s *UserService) ListCustomers(ctx context.Context, q UserListQuery) (*UserListResponse, error) {
	page, limit := q.Page, q.Limit
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultUserPageSize
	}
	filter := shared.Filter{
		Page:     page,
		Limit:    min(limit, MaxUserPageSize),
		OrderBy:  "created_at",
		OrderDir: "desc",
		Search:   strings.TrimSpace(q.Search),
		Filters:  map[string]interface{}{identity.FilterRole: string(identity.RoleCustomer)},
	}

	users, err := s.userRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.userRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	out := make([]UserResponse, len(users))
	for i := range users {
		out[i] = ToUserResponse(&users[i])
	}
	return &UserListResponse{
		Users:      out,
		Pagination: shared.NewPagination(filter.Page, filter.Limit, total),
	}, nil
}

// CreateUser creates an account on behalf of an admin
func (s *UserService) CreateUser(ctx context.Context, req CreateUserRequest) (*UserResponse, error) {
	exists, err := s.userRepo.ExistsByEmail(ctx, identity.NormalizeEmail(req.Email))
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "User with this email already exists")
	}

	user, err := identity.NewUser(req.Name, req.Email, req.Password)
	if err != nil {
		return nil, err
	}
	if req.Role != "" {
		if err := user.SetRole(identity.Role(req.Role)); err != nil {
			return nil, err
		}
	}
	if req.IsEmailVerified {
		user.MarkEmailVerified(true)
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	s.logger.Info("User created by admin",
		zap.String("user_id", user.ID.String()),
		zap.String("role", string(user.Role)))
	event.PublishAggregateEvents(ctx, s.eventPublisher, s.logger, user)

	resp := ToUserResponse(user)
	return &resp, nil
}

// DeleteUser removes an account other than the caller's and revokes its tokens
func (s *UserService) DeleteUser(ctx context.Context, id, actorID uuid.UUID) error {
	if id == actorID {
		return shared.NewDomainError("INVALID_OPERATION", "Cannot delete your own account")
	}
	if _, err := s.userRepo.FindByID(ctx, id); err != nil {
		return err
	}
	if err := s.userRepo.Delete(ctx, id); err != nil {
		return err
	}

	if s.blacklist != nil {
		if err := s.blacklist.RevokeUserTokens(ctx, id.String(), s.revokeTTL); err != nil {
			s.logger.Warn("Failed to revoke tokens of deleted user", zap.String("user_id", id.String()), zap.Error(err))
		}
	}
	s.logger.Info("User deleted",
		zap.String("user_id", id.String()),
		zap.String("actor_id", actorID.String()))
	return nil
}
