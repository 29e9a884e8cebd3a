package ports

import (
	"context"

	"github.com/talentbridge/platform-api/internal/core/domain"
)

// AuditRepository persists entries to the auth_events audit collection.
type AuditRepository interface {
	InsertEvent(ctx context.Context, event *domain.AuthEvent) error
}
