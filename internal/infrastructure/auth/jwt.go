package auth

import (
	"errors"
	"time"

	"github.com/dripnest/storefront/internal/infrastructure/config"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenType distinguishes access tokens from refresh tokens
type TokenType string

const (
	TokenTypeAccess  TokenType = "access"
	TokenTypeRefresh TokenType = "refresh"
)

var (
	ErrInvalidToken       = errors.New("invalid token")
	ErrExpiredToken       = errors.New("token has expired")
	ErrInvalidTokenType   = errors.New("invalid token type")
	ErrInvalidClaims      = errors.New("invalid token claims")
	ErrTokenNotYetValid   = errors.New("token is not yet valid")
	ErrMaxRefreshExceeded = errors.New("maximum refresh count exceeded")
	ErrTokenBlacklisted   = errors.New("token has been revoked")
)

// Claims is the payload of storefront tokens. The registered ID claim is
// the JTI used to revoke the token on logout.
type Claims struct {
	jwt.RegisteredClaims
	UserID       string    `json:"user_id"`
	Email        string    `json:"email"`
	Role         string    `json:"role"`
	TokenType    TokenType `json:"token_type"`
	RefreshCount int       `json:"refresh_count,omitempty"`
}

// UserUUID parses the user id claim
func (c *Claims) UserUUID() (uuid.UUID, error) {
	return uuid.Parse(c.UserID)
}

// IsAdmin reports whether the token was issued to an admin
func (c *Claims) IsAdmin() bool {
	return c.Role == "admin"
}

// IssuedAtTime returns the iat claim, zero when absent
func (c *Claims) IssuedAtTime() time.Time {
	if c.IssuedAt == nil {
		return time.Time{}
	}
	return c.IssuedAt.Time
}

// RemainingTTL returns how long the token stays valid, never negative
func (c *Claims) RemainingTTL() time.Duration {
	if c.ExpiresAt == nil {
		return 0
	}
	return max(time.Until(c.ExpiresAt.Time), 0)
}

// TokenPair is what login, register and refresh hand back to the client
type TokenPair struct {
	AccessToken           string    `json:"access_token"`
	RefreshToken          string    `json:"refresh_token"`
	AccessTokenExpiresAt  time.Time `json:"access_token_expires_at"`
	RefreshTokenExpiresAt time.Time `json:"refresh_token_expires_at"`
	TokenType             string    `json:"token_type"`
}

// Subject identifies the account a token pair is issued for
type Subject struct {
	UserID uuid.UUID
	Email  string
	Role   string
}

// JWTService signs and verifies HS256 tokens. Access and refresh tokens use
// separate secrets unless no refresh secret is configured.
type JWTService struct {
	keys            map[TokenType][]byte
	ttls            map[TokenType]time.Duration
	issuer          string
	maxRefreshCount int
	now             func() time.Time
}

// NewJWTService creates a JWT service from the jwt config section
func NewJWTService(cfg config.JWTConfig) *JWTService {
	refreshSecret := cfg.RefreshSecret
	if refreshSecret == "" {
		refreshSecret = cfg.Secret
	}

	return &JWTService{
		keys: map[TokenType][]byte{
			TokenTypeAccess:  []byte(cfg.Secret),
			TokenTypeRefresh: []byte(refreshSecret),
		},
		ttls: map[TokenType]time.Duration{
			TokenTypeAccess:  cfg.AccessTokenExpiration,
			TokenTypeRefresh: cfg.RefreshTokenExpiration,
		},
		issuer:          cfg.Issuer,
		maxRefreshCount: cfg.MaxRefreshCount,
		now:             time.Now,
	}
}

// GenerateTokenPair issues a fresh access and refresh token for subject
func (s *JWTService) GenerateTokenPair(subject Subject) (*TokenPair, error) {
	return s.issue(subject, 0)
}

// RefreshTokenPair exchanges a valid refresh token for a new pair.
// The role is taken from current, so a demoted user does not keep admin rights.
func (s *JWTService) RefreshTokenPair(refreshToken string, current Subject) (*TokenPair, error) {
	claims, err := s.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, err
	}
	if claims.RefreshCount >= s.maxRefreshCount {
		return nil, ErrMaxRefreshExceeded
	}
	if userID, err := claims.UserUUID(); err != nil || userID != current.UserID {
		return nil, ErrInvalidClaims
	}
	return s.issue(current, claims.RefreshCount+1)
}

// ValidateAccessToken verifies an access token and returns its claims
func (s *JWTService) ValidateAccessToken(tokenString string) (*Claims, error) {
	return s.verify(tokenString, TokenTypeAccess)
}

// ValidateRefreshToken verifies a refresh token and returns its claims
func (s *JWTService) ValidateRefreshToken(tokenString string) (*Claims, error) {
	return s.verify(tokenString, TokenTypeRefresh)
}

func (s *JWTService) issue(subject Subject, refreshCount int) (*TokenPair, error) {
	now := s.now()

	access, err := s.sign(subject, TokenTypeAccess, now, 0)
	if err != nil {
		return nil, err
	}
	refresh, err := s.sign(subject, TokenTypeRefresh, now, refreshCount)
	if err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:           access,
		RefreshToken:          refresh,
		AccessTokenExpiresAt:  now.Add(s.ttls[TokenTypeAccess]),
		RefreshTokenExpiresAt: now.Add(s.ttls[TokenTypeRefresh]),
		TokenType:             "Bearer",
	}, nil
}

func (s *JWTService) sign(subject Subject, kind TokenType, now time.Time, refreshCount int) (string, error) {
	userID := subject.UserID.String()
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Issuer:    s.issuer,
			Subject:   userID,
			Audience:  jwt.ClaimStrings{s.issuer},
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttls[kind])),
			NotBefore: jwt.NewNumericDate(now),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		UserID:       userID,
		Email:        subject.Email,
		Role:         subject.Role,
		TokenType:    kind,
		RefreshCount: refreshCount,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.keys[kind])
}

func (s *JWTService) verify(tokenString string, kind TokenType) (*Claims, error) {
	keyFunc := func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.keys[kind], nil
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, keyFunc,
		jwt.WithTimeFunc(s.now), jwt.WithIssuer(s.issuer))
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return nil, ErrExpiredToken
	case errors.Is(err, jwt.ErrTokenNotValidYet):
		return nil, ErrTokenNotYetValid
	case err != nil:
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.UserID == "" {
		return nil, ErrInvalidClaims
	}
	if claims.TokenType != kind {
		return nil, ErrInvalidTokenType
	}
	return claims, nil
}
