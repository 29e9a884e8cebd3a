package domain

import (
	"errors"
	"strings"
	"time"
)

const (
	RoleAdmin     = "admin"
	RoleClient    = "client"
	RoleDeveloper = "developer"
)

var ErrInvalidCredentials = errors.New("invalid credentials")
var ErrAccountDeactivated = errors.New("account deactivated")
var ErrUserNotFound = errors.New("user not found")
var ErrUserExists = errors.New("user already exists")
var ErrForbidden = errors.New("access forbidden")
var ErrTooManyAttempts = errors.New("too many login attempts")

// ValidRole reports whether role is one of the closed role set.
func ValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleClient, RoleDeveloper:
		return true
	}
	return false
}

// NormalizeEmail case-folds an email for lookup and storage. Emails are
// unique case-insensitively, so every path into the user store goes
// through this first.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// User models an account on the platform. The auth core reads users, it
// never owns them: persistence and consistency belong to the repository.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	Permissions  []string  `json:"permissions"`
	IsActive     bool      `json:"is_active"`
	LastLogin    time.Time `json:"last_login,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// PublicUser is the subset of User exposed to API callers.
type PublicUser struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	Name        string    `json:"name"`
	Role        string    `json:"role"`
	Permissions []string  `json:"permissions"`
	IsActive    bool      `json:"is_active"`
	LastLogin   time.Time `json:"last_login,omitempty"`
}

// Public strips credential material from a user record.
func (u *User) Public() *PublicUser {
	if u == nil {
		return nil
	}
	return &PublicUser{
		ID:          u.ID,
		Email:       u.Email,
		Name:        u.Name,
		Role:        u.Role,
		Permissions: u.Permissions,
		IsActive:    u.IsActive,
		LastLogin:   u.LastLogin,
	}
}
