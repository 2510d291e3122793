package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dentara/practice-api/internal/apperr"
	"github.com/dentara/practice-api/internal/database"
	"github.com/dentara/practice-api/internal/models"
)

// BranchRepository handles branch database operations
type BranchRepository struct {
	sequences *SequenceRepository
}

// NewBranchRepository creates a new branch repository
func NewBranchRepository(sequences *SequenceRepository) *BranchRepository {
	return &BranchRepository{sequences: sequences}
}

// BranchInClinic reports whether the branch belongs to the clinic. Used by
// the scope resolver to validate administrator branch selection.
func (r *BranchRepository) BranchInClinic(ctx context.Context, clinicID, branchID uuid.UUID) (bool, error) {
	var count int64
	err := database.DB.WithContext(ctx).
		Model(&models.Branch{}).
		Where("clinic_id = ? AND id = ?", clinicID, branchID).
		Count(&count).Error
	if err != nil {
		return false, apperr.Internalf(err, "internal server error")
	}
	return count > 0, nil
}

// Create inserts a branch with the next per-clinic branch code. Code
// assignment and insert share a transaction so a failed insert does not
// burn the code visibly out of order for long.
func (r *BranchRepository) Create(ctx context.Context, branch *models.Branch) error {
	return database.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return r.CreateTx(tx, branch)
	})
}

// CreateTx assigns the next branch code and inserts the branch inside the
// caller's transaction.
func (r *BranchRepository) CreateTx(tx *gorm.DB, branch *models.Branch) error {
	n, err := r.sequences.NextTx(tx, branch.ClinicID, models.SeqBranch, 1)
	if err != nil {
		return apperr.Internalf(err, "internal server error")
	}
	branch.Code = BranchCode(n)
	if err := tx.Create(branch).Error; err != nil {
		return translate(err, "branch")
	}
	return nil
}

// ListByClinic returns all branches of the scope's clinic.
func (r *BranchRepository) ListByClinic(ctx context.Context, s models.RequestScope) ([]models.Branch, error) {
	var branches []models.Branch
	err := scoped(database.DB.WithContext(ctx), s).
		Order("created_at ASC").
		Find(&branches).Error
	if err != nil {
		return nil, translate(err, "branches")
	}
	return branches, nil
}

// GetByID retrieves one branch of the scope's clinic.
func (r *BranchRepository) GetByID(ctx context.Context, s models.RequestScope, id uuid.UUID) (*models.Branch, error) {
	var branch models.Branch
	err := scoped(database.DB.WithContext(ctx), s).
		Where("id = ?", id).
		First(&branch).Error
	if err != nil {
		return nil, translate(err, "branch")
	}
	return &branch, nil
}

// Update persists mutable branch fields.
func (r *BranchRepository) Update(ctx context.Context, s models.RequestScope, branch *models.Branch) error {
	if branch.ClinicID != s.ClinicID {
		return apperr.NotFoundf("branch not found")
	}
	if err := database.DB.WithContext(ctx).Save(branch).Error; err != nil {
		return translate(err, "branch")
	}
	return nil
}

// Delete removes a branch. A clinic always keeps at least one branch; the
// last one cannot be deleted. Membership rows and default-branch pointers
// referencing the branch are cleaned up in the same transaction.
func (r *BranchRepository) Delete(ctx context.Context, s models.RequestScope, id uuid.UUID) error {
	return database.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var total int64
		if err := tx.Model(&models.Branch{}).
			Where("clinic_id = ?", s.ClinicID).
			Count(&total).Error; err != nil {
			return apperr.Internalf(err, "internal server error")
		}
		if total <= 1 {
			return apperr.Conflictf("cannot delete the only branch of the clinic")
		}

		res := scoped(tx, s).Where("id = ?", id).Delete(&models.Branch{})
		if res.Error != nil {
			return translate(res.Error, "branch")
		}
		if res.RowsAffected == 0 {
			return apperr.NotFoundf("branch not found")
		}

		if err := tx.Exec("DELETE FROM user_branches WHERE branch_id = ?", id).Error; err != nil {
			return translate(err, "branch")
		}
		if err := tx.Model(&models.User{}).
			Where("clinic_id = ? AND default_branch_id = ?", s.ClinicID, id).
			Update("default_branch_id", nil).Error; err != nil {
			return translate(err, "branch")
		}
		return nil
	})
}
