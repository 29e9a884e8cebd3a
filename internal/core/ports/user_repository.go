package ports

import (
	"context"

	"github.com/talentbridge/platform-api/internal/core/domain"
)

// UserRepository defines the interface for user persistence. FindByEmail
// expects an already case-folded email.
type UserRepository interface {
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	List(ctx context.Context) ([]*domain.User, error)
	TouchLastLogin(ctx context.Context, email string) error
}
