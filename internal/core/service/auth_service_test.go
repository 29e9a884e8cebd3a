package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/talentbridge/platform-api/internal/auth"
	"github.com/talentbridge/platform-api/internal/core/domain"
)

type stubUserRepo struct {
	users map[string]*domain.User
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	if _, exists := r.users[user.Email]; exists {
		return nil, domain.ErrUserExists
	}
	copy := cloneUser(user)
	if copy.ID == "" {
		copy.ID = user.Email
	}
	r.users[copy.Email] = cloneUser(copy)
	return cloneUser(copy), nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	u, ok := r.users[email]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) List(_ context.Context) ([]*domain.User, error) {
	out := make([]*domain.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, cloneUser(u))
	}
	return out, nil
}

func (r *stubUserRepo) TouchLastLogin(_ context.Context, email string) error {
	if u, ok := r.users[email]; ok {
		u.LastLogin = time.Now().UTC()
	}
	return nil
}

func (r *stubUserRepo) deactivate(email string) {
	if u, ok := r.users[email]; ok {
		u.IsActive = false
	}
}

type stubLimiter struct {
	allowed bool
	err     error
	resets  int
}

func (l *stubLimiter) Allow(_ context.Context, _ string) (bool, error) {
	return l.allowed, l.err
}

func (l *stubLimiter) Reset(_ context.Context, _ string) error {
	l.resets++
	return nil
}

func newTestService(repo *stubUserRepo, limiter LoginLimiter) *AuthService {
	codec := auth.NewTokenCodec("secret")
	return NewAuthService(repo, codec, limiter, time.Hour, zerolog.Nop())
}

func TestAuthService_Register_Success(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestService(repo, nil)

	user, err := svc.Register(context.Background(), "Alice@Example.com", "pass12345", "Alice", domain.RoleClient)
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if user.Email != "alice@example.com" {
		t.Fatalf("expected case-folded email, got %s", user.Email)
	}
	if user.PasswordHash == "pass12345" {
		t.Fatalf("expected password to be hashed")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("pass12345")); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}
	if !user.IsActive {
		t.Fatalf("new users start active")
	}
	if user.Permissions == nil || len(user.Permissions) != 0 {
		t.Fatalf("new users start with an empty explicit grant set, got %v", user.Permissions)
	}
}

func TestAuthService_Register_Validation(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestService(repo, nil)

	if _, err := svc.Register(context.Background(), "", "pass", "x", domain.RoleClient); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := svc.Register(context.Background(), "bob@example.com", "pass", "Bob", "superuser"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for bad role, got %v", err)
	}
}

func TestAuthService_Register_Duplicate(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestService(repo, nil)

	_, _ = svc.Register(context.Background(), "bob@example.com", "pass12345", "Bob", domain.RoleClient)
	if _, err := svc.Register(context.Background(), "bob@example.com", "other1234", "Bob", domain.RoleClient); !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestAuthService_Login_Success(t *testing.T) {
	repo := newStubUserRepo()
	limiter := &stubLimiter{allowed: true}
	svc := newTestService(repo, limiter)

	if _, err := svc.Register(context.Background(), "carol@example.com", "s3cret123", "Carol", domain.RoleAdmin); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	token, user, err := svc.Login(context.Background(), "Carol@Example.COM", "s3cret123")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if token == "" {
		t.Fatalf("expected token, got empty")
	}
	if user == nil || user.Email != "carol@example.com" {
		t.Fatalf("unexpected user: %+v", user)
	}
	if limiter.resets != 1 {
		t.Fatalf("expected limiter reset after success, got %d", limiter.resets)
	}
	if repo.users["carol@example.com"].LastLogin.IsZero() {
		t.Fatalf("expected last login to be recorded")
	}

	claims, err := auth.NewTokenCodec("secret").Verify(token)
	if err != nil {
		t.Fatalf("token invalid: %v", err)
	}
	if claims.Role != domain.RoleAdmin {
		t.Fatalf("expected role %s, got %s", domain.RoleAdmin, claims.Role)
	}
}

func TestAuthService_Login_WrongPasswordAndUnknownEmailLookAlike(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestService(repo, nil)

	_, _ = svc.Register(context.Background(), "dave@example.com", "goodpass1", "Dave", domain.RoleClient)

	_, _, wrongPass := svc.Login(context.Background(), "dave@example.com", "badpass")
	_, _, unknown := svc.Login(context.Background(), "ghost@example.com", "badpass")

	if !errors.Is(wrongPass, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for wrong password, got %v", wrongPass)
	}
	if !errors.Is(unknown, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for unknown email, got %v", unknown)
	}
}

func TestAuthService_Login_Deactivated(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestService(repo, nil)

	_, _ = svc.Register(context.Background(), "eve@example.com", "passpass1", "Eve", domain.RoleDeveloper)
	repo.deactivate("eve@example.com")

	if _, _, err := svc.Login(context.Background(), "eve@example.com", "passpass1"); !errors.Is(err, domain.ErrAccountDeactivated) {
		t.Fatalf("expected ErrAccountDeactivated, got %v", err)
	}
}

func TestAuthService_Login_RateLimited(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestService(repo, &stubLimiter{allowed: false})

	_, _ = svc.Register(context.Background(), "frank@example.com", "passpass1", "Frank", domain.RoleClient)
	if _, _, err := svc.Login(context.Background(), "frank@example.com", "passpass1"); !errors.Is(err, domain.ErrTooManyAttempts) {
		t.Fatalf("expected ErrTooManyAttempts, got %v", err)
	}
}

func TestAuthService_Login_LimiterFailureFailsOpen(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestService(repo, &stubLimiter{err: errors.New("redis down")})

	_, _ = svc.Register(context.Background(), "gina@example.com", "passpass1", "Gina", domain.RoleClient)
	if _, _, err := svc.Login(context.Background(), "gina@example.com", "passpass1"); err != nil {
		t.Fatalf("limiter outage must not block login: %v", err)
	}
}

func TestAuthService_VerifyToken_Success(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestService(repo, nil)

	_, _ = svc.Register(context.Background(), "henry@example.com", "passpass1", "Henry", domain.RoleDeveloper)
	token, _, err := svc.Login(context.Background(), "henry@example.com", "passpass1")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	user, err := svc.VerifyToken(context.Background(), token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if user.Email != "henry@example.com" {
		t.Fatalf("unexpected user: %+v", user)
	}
}

func TestAuthService_VerifyToken_DeactivatedAfterIssue(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestService(repo, nil)

	_, _ = svc.Register(context.Background(), "iris@example.com", "passpass1", "Iris", domain.RoleClient)
	token, _, err := svc.Login(context.Background(), "iris@example.com", "passpass1")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	// Token stays cryptographically valid; the account no longer is.
	repo.deactivate("iris@example.com")

	if _, err := svc.VerifyToken(context.Background(), token); !errors.Is(err, domain.ErrAccountDeactivated) {
		t.Fatalf("expected ErrAccountDeactivated, got %v", err)
	}
}

func TestAuthService_VerifyToken_BadToken(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestService(repo, nil)

	if _, err := svc.VerifyToken(context.Background(), "garbage"); !errors.Is(err, auth.ErrTokenMalformed) {
		t.Fatalf("expected ErrTokenMalformed, got %v", err)
	}
}
