package repository

import (
	"context"

	"github.com/dentara/practice-api/internal/database"
	"github.com/dentara/practice-api/internal/models"
)

// AuditRepository handles audit log database operations
type AuditRepository struct{}

// NewAuditRepository creates a new audit repository
func NewAuditRepository() *AuditRepository {
	return &AuditRepository{}
}

// Create creates a new audit log entry
func (r *AuditRepository) Create(ctx context.Context, log *models.AuditLog) error {
	if err := database.DB.WithContext(ctx).Create(log).Error; err != nil {
		return translate(err, "audit log")
	}
	return nil
}

// AuditFilter narrows an audit log listing.
type AuditFilter struct {
	Entity string
	Action string
	Limit  int
	Offset int
}

// List retrieves audit entries for the scope's clinic, newest first. An
// administrator without a branch context sees the whole clinic; otherwise
// entries are limited to the effective branch.
func (r *AuditRepository) List(ctx context.Context, s models.RequestScope, f AuditFilter) ([]models.AuditLog, error) {
	query := branchScoped(database.DB.WithContext(ctx), s).
		Order("created_at DESC")

	if f.Entity != "" {
		query = query.Where("entity = ?", f.Entity)
	}
	if f.Action != "" {
		query = query.Where("action = ?", f.Action)
	}
	if f.Limit <= 0 || f.Limit > 500 {
		f.Limit = 100
	}
	query = query.Limit(f.Limit)
	if f.Offset > 0 {
		query = query.Offset(f.Offset)
	}

	var logs []models.AuditLog
	if err := query.Find(&logs).Error; err != nil {
		return nil, translate(err, "audit logs")
	}
	return logs, nil
}

// ByEntity retrieves the audit trail of one record.
func (r *AuditRepository) ByEntity(ctx context.Context, s models.RequestScope, entity, entityID string) ([]models.AuditLog, error) {
	var logs []models.AuditLog
	err := scoped(database.DB.WithContext(ctx), s).
		Where("entity = ? AND entity_id = ?", entity, entityID).
		Order("created_at DESC").
		Find(&logs).Error
	if err != nil {
		return nil, translate(err, "audit logs")
	}
	return logs, nil
}
