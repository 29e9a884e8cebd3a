package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/talentbridge/platform-api/internal/core/domain"
	"github.com/talentbridge/platform-api/internal/core/ports"
)

type auditService struct {
	repo ports.AuditRepository
	log  zerolog.Logger
}

// NewAuditService returns an AuditService persisting to the given repository.
func NewAuditService(repo ports.AuditRepository, log zerolog.Logger) ports.AuditService {
	return &auditService{repo: repo, log: log}
}

// Record persists a single auth event. The timestamp defaults to now when
// the producer left it zero.
func (s *auditService) Record(ctx context.Context, in ports.AuthEventInput) error {
	ts := in.Timestamp
	if ts.IsZero() {
		ts = time.Now().UTC()
	}

	event := &domain.AuthEvent{
		Kind:      in.Kind,
		Email:     in.Email,
		Role:      in.Role,
		Path:      in.Path,
		Reason:    in.Reason,
		Timestamp: ts,
	}
	if err := s.repo.InsertEvent(ctx, event); err != nil {
		return fmt.Errorf("record auth event: %w", err)
	}

	s.log.Debug().
		Str("kind", string(in.Kind)).
		Str("email", in.Email).
		Str("path", in.Path).
		Msg("auth event recorded")

	return nil
}
