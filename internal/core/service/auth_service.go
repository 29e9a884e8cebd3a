package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/talentbridge/platform-api/internal/auth"
	"github.com/talentbridge/platform-api/internal/core/domain"
	"github.com/talentbridge/platform-api/internal/core/ports"
)

// LoginLimiter abstracts the login attempt throttle (Redis).
type LoginLimiter interface {
	Allow(ctx context.Context, email string) (bool, error)
	Reset(ctx context.Context, email string) error
}

// AuthService implements registration, login, and token verification.
type AuthService struct {
	repo     ports.UserRepository
	codec    *auth.TokenCodec
	limiter  LoginLimiter
	tokenTTL time.Duration
	log      zerolog.Logger
}

func NewAuthService(repo ports.UserRepository, codec *auth.TokenCodec, limiter LoginLimiter, tokenTTL time.Duration, log zerolog.Logger) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 7 * 24 * time.Hour
	}
	return &AuthService{repo: repo, codec: codec, limiter: limiter, tokenTTL: tokenTTL, log: log}
}

func (s *AuthService) Register(ctx context.Context, email, password, name, role string) (*domain.User, error) {
	email = domain.NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}
	if !domain.ValidRole(role) {
		return nil, domain.ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user := &domain.User{
		Email:        email,
		Name:         name,
		PasswordHash: string(hash),
		Role:         role,
		Permissions:  []string{},
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		return nil, err
	}
	return created, nil
}

// Login authenticates email+password and mints a session token. Unknown
// email and wrong password both surface as ErrInvalidCredentials so the
// response never reveals which one happened.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	email = domain.NormalizeEmail(email)
	if email == "" || password == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	if s.limiter != nil {
		allowed, err := s.limiter.Allow(ctx, email)
		if err != nil {
			// Limiter outage must not lock everyone out; log and proceed.
			s.log.Warn().Err(err).Msg("login limiter unavailable, allowing attempt")
		} else if !allowed {
			return "", nil, domain.ErrTooManyAttempts
		}
	}

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return "", nil, domain.ErrInvalidCredentials
		}
		return "", nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", nil, domain.ErrInvalidCredentials
	}
	if !user.IsActive {
		return "", nil, domain.ErrAccountDeactivated
	}

	token, err := s.codec.Issue(user, s.tokenTTL)
	if err != nil {
		return "", nil, err
	}

	if s.limiter != nil {
		if err := s.limiter.Reset(ctx, email); err != nil {
			s.log.Warn().Err(err).Msg("failed to reset login limiter")
		}
	}
	if err := s.repo.TouchLastLogin(ctx, email); err != nil {
		s.log.Warn().Err(err).Str("email", email).Msg("failed to record last login")
	}

	return token, user, nil
}

// VerifyToken validates a credential and re-loads its user, catching the
// case where a token stays cryptographically valid after the account was
// deactivated or removed.
func (s *AuthService) VerifyToken(ctx context.Context, token string) (*domain.User, error) {
	claims, err := s.codec.Verify(token)
	if err != nil {
		return nil, err
	}

	user, err := s.repo.FindByEmail(ctx, domain.NormalizeEmail(claims.Email))
	if err != nil {
		return nil, err
	}
	if !user.IsActive {
		return nil, domain.ErrAccountDeactivated
	}
	return user, nil
}
