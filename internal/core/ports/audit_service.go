package ports

import (
	"context"
	"time"

	"github.com/talentbridge/platform-api/internal/core/domain"
)

// AuthEventInput is the DTO passed from the transport layer to AuditService.
type AuthEventInput struct {
	Kind      domain.AuthEventKind
	Email     string
	Role      string
	Path      string
	Reason    string
	Timestamp time.Time
}

// AuditService records authentication and authorization decisions.
type AuditService interface {
	Record(ctx context.Context, event AuthEventInput) error
}
