package services

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/dentara/practice-api/internal/models"
	"github.com/dentara/practice-api/internal/repository"
)

// AuditService records who did what. Recording is best-effort: a failed
// audit write is logged and never fails the business operation it trails.
type AuditService struct {
	audits *repository.AuditRepository
	users  *repository.UserRepository
}

// NewAuditService creates a new audit service
func NewAuditService(audits *repository.AuditRepository, users *repository.UserRepository) *AuditService {
	return &AuditService{audits: audits, users: users}
}

// Record writes one audit entry for the scope's clinic and effective branch.
func (s *AuditService) Record(ctx context.Context, scope models.RequestScope, action, entity, entityID, details string) {
	entry := &models.AuditLog{
		ClinicID: scope.ClinicID,
		BranchID: scope.BranchID,
		UserID:   scope.UserID,
		Action:   action,
		Entity:   entity,
		EntityID: entityID,
		Details:  details,
	}
	if user, err := s.users.Principal(ctx, scope.UserID); err == nil {
		entry.UserName = user.FullName
	}
	if err := s.audits.Create(ctx, entry); err != nil {
		log.Warn().Err(err).
			Str("action", action).
			Str("entity", entity).
			Msg("audit write failed")
	}
}

// List returns audit entries visible to the scope.
func (s *AuditService) List(ctx context.Context, scope models.RequestScope, f repository.AuditFilter) ([]models.AuditLog, error) {
	return s.audits.List(ctx, scope, f)
}

// Trail returns the history of one record.
func (s *AuditService) Trail(ctx context.Context, scope models.RequestScope, entity, entityID string) ([]models.AuditLog, error) {
	return s.audits.ByEntity(ctx, scope, entity, entityID)
}
