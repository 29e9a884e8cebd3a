package ports

import (
	"context"

	"github.com/talentbridge/platform-api/internal/core/domain"
)

// AuthService implements the trust boundary: credential checks, token
// minting, and token-to-user resolution.
type AuthService interface {
	Register(ctx context.Context, email, password, name, role string) (*domain.User, error)
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
	VerifyToken(ctx context.Context, token string) (*domain.User, error)
}
