package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/codemart/codemart-api/internal/domain/user"
	"github.com/codemart/codemart-api/internal/pkg/jwt"
	"github.com/codemart/codemart-api/internal/pkg/password"
)

var (
	// ErrInvalidCredentials is returned on a bad email/password pair
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// WelcomeBonus grants the one-time signup credit; failures must not block
// registration.
type WelcomeBonus interface {
	GrantRegisterBonus(ctx context.Context, userID uuid.UUID) error
}

// Service handles registration and token issuance
type Service struct {
	users user.Repository
	jwt   *jwt.Service
	bonus WelcomeBonus
}

func NewService(users user.Repository, jwtSvc *jwt.Service, bonus WelcomeBonus) *Service {
	return &Service{users: users, jwt: jwtSvc, bonus: bonus}
}

// Register creates a buyer account and grants the signup bonus. The bonus
// is logged-not-fatal: a ledger hiccup should never cost us a signup, and
// the grant is idempotent so it can be retried later.
func (s *Service) Register(ctx context.Context, email, plainPassword string) (*user.User, *TokenPair, error) {
	hash, err := password.Hash(plainPassword)
	if err != nil {
		return nil, nil, err
	}

	now := time.Now()
	u := &user.User{
		ID:           uuid.New(),
		Email:        strings.ToLower(strings.TrimSpace(email)),
		PasswordHash: hash,
		Role:         user.RoleBuyer,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.users.Create(ctx, u); err != nil {
		return nil, nil, err
	}

	if s.bonus != nil {
		if err := s.bonus.GrantRegisterBonus(ctx, u.ID); err != nil {
			log.Error().Err(err).Str("user_id", u.ID.String()).Msg("Register bonus grant failed")
		}
	}

	tokens, err := s.issueTokens(u)
	if err != nil {
		return nil, nil, err
	}
	return u, tokens, nil
}

// Login verifies credentials and issues a token pair
func (s *Service) Login(ctx context.Context, email, plainPassword string) (*user.User, *TokenPair, error) {
	u, err := s.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if errors.Is(err, user.ErrNotFound) {
		return nil, nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, nil, err
	}

	if !password.Verify(u.PasswordHash, plainPassword) {
		return nil, nil, ErrInvalidCredentials
	}

	tokens, err := s.issueTokens(u)
	if err != nil {
		return nil, nil, err
	}
	return u, tokens, nil
}

// Refresh exchanges a valid refresh token for a fresh pair. The role is
// re-read from the store so an upgrade approved since login takes effect.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims, err := s.jwt.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, err
	}

	u, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}

	return s.issueTokens(u)
}

// Me returns the account behind the access token
func (s *Service) Me(ctx context.Context, userID uuid.UUID) (*user.User, error) {
	return s.users.GetByID(ctx, userID)
}

func (s *Service) issueTokens(u *user.User) (*TokenPair, error) {
	access, err := s.jwt.GenerateAccessToken(u.ID, string(u.Role))
	if err != nil {
		return nil, err
	}
	refresh, err := s.jwt.GenerateRefreshToken(u.ID)
	if err != nil {
		return nil, err
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}
