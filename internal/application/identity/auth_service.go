package identity

import (
	"context"
	"errors"
	"time"

	"github.com/dripnest/storefront/internal/application/event"
	"github.com/dripnest/storefront/internal/domain/identity"
	"github.com/dripnest/storefront/internal/domain/shared"
	"github.com/dripnest/storefront/internal/infrastructure/auth"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var errInvalidCredentials = shared.NewDomainError("INVALID_CREDENTIALS", "Invalid credentials")

// AuthService handles registration, login and token lifecycle
type AuthService struct {
	userRepo       identity.UserRepository
	jwtService     *auth.JWTService
	blacklist      auth.TokenBlacklist
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewAuthService creates a new authentication service
func NewAuthService(
	userRepo identity.UserRepository,
	jwtService *auth.JWTService,
	blacklist auth.TokenBlacklist,
	logger *zap.Logger,
) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		userRepo:   userRepo,
		jwtService: jwtService,
		blacklist:  blacklist,
		logger:     logger,
	}
}

// SetEventPublisher sets the publisher for account events
func (s *AuthService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Register creates a customer account and signs it in
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*AuthResult, error) {
	exists, err := s.userRepo.ExistsByEmail(ctx, identity.NormalizeEmail(req.Email))
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "User already exists")
	}

	user, err := identity.NewUser(req.Name, req.Email, req.Password)
	if err != nil {
		return nil, err
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, shared.ErrAlreadyExists) {
			return nil, shared.NewDomainError("ALREADY_EXISTS", "User already exists")
		}
		return nil, err
	}
	s.logger.Info("User registered", zap.String("user_id", user.ID.String()))
	event.PublishAggregateEvents(ctx, s.eventPublisher, s.logger, user)

	return s.issue(user)
}

// Login authenticates with email and password and records the login time
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*AuthResult, error) {
	user, err := s.userRepo.FindByEmail(ctx, identity.NormalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			s.logger.Warn("Login attempt for unknown email")
			return nil, errInvalidCredentials
		}
		return nil, err
	}
	if !user.VerifyPassword(req.Password) {
		s.logger.Warn("Login attempt with wrong password", zap.String("user_id", user.ID.String()))
		return nil, errInvalidCredentials
	}

	user.RecordLogin()
	if err := s.userRepo.UpdateLastLogin(ctx, user.ID, *user.LastLogin); err != nil {
		s.logger.Warn("Failed to record last login", zap.String("user_id", user.ID.String()), zap.Error(err))
	}
	s.logger.Info("User logged in", zap.String("user_id", user.ID.String()))

	return s.issue(user)
}

// Refresh exchanges a refresh token for a new pair carrying the user's current role
func (s *AuthService) Refresh(ctx context.Context, req RefreshRequest) (*AuthResult, error) {
	claims, err := s.jwtService.ValidateRefreshToken(req.RefreshToken)
	if err != nil {
		return nil, shared.NewDomainError("UNAUTHORIZED", "Invalid refresh token")
	}
	userID, err := claims.UserUUID()
	if err != nil {
		return nil, shared.NewDomainError("UNAUTHORIZED", "Invalid refresh token")
	}

	if s.blacklist != nil {
		revoked, err := s.blacklist.IsRevokedForUser(ctx, userID.String(), claims.IssuedAtTime())
		if err != nil {
			return nil, err
		}
		if revoked {
			return nil, shared.NewDomainError("UNAUTHORIZED", "Token has been revoked")
		}
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("UNAUTHORIZED", "User not found")
		}
		return nil, err
	}

	pair, err := s.jwtService.RefreshTokenPair(req.RefreshToken, subjectOf(user))
	if err != nil {
		return nil, shared.NewDomainError("UNAUTHORIZED", "Invalid refresh token")
	}
	return &AuthResult{
		Token:        pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		ExpiresAt:    pair.AccessTokenExpiresAt,
		User:         ToUserResponse(user),
	}, nil
}

// Me returns the signed-in user
func (s *AuthService) Me(ctx context.Context, userID uuid.UUID) (*UserResponse, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	resp := ToUserResponse(user)
	return &resp, nil
}

// Logout revokes the access token until it would have expired
func (s *AuthService) Logout(ctx context.Context, input LogoutInput) error {
	if s.blacklist == nil || input.TokenJTI == "" {
		return nil
	}
	ttl := time.Until(input.ExpiresAt)
	if ttl <= 0 {
		return nil
	}
	if err := s.blacklist.RevokeToken(ctx, input.TokenJTI, ttl); err != nil {
		s.logger.Error("Failed to revoke token", zap.String("user_id", input.UserID.String()), zap.Error(err))
		return err
	}
	s.logger.Info("User logged out", zap.String("user_id", input.UserID.String()))
	return nil
}

func (s *AuthService) issue(user *identity.User) (*AuthResult, error) {
	pair, err := s.jwtService.GenerateTokenPair(subjectOf(user))
	if err != nil {
		return nil, err
	}
	return &AuthResult{
		Token:        pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		ExpiresAt:    pair.AccessTokenExpiresAt,
		User:         ToUserResponse(user),
	}, nil
}

func subjectOf(user *identity.User) auth.Subject {
	return auth.Subject{UserID: user.ID, Email: user.Email, Role: string(user.Role)}
}
