package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/dentara/practice-api/internal/models"
	"github.com/dentara/practice-api/internal/repository"
)

// BranchService handles business logic for branch management
type BranchService struct {
	branches *repository.BranchRepository
	audit    *AuditService
}

// NewBranchService creates a new branch service
func NewBranchService(branches *repository.BranchRepository, audit *AuditService) *BranchService {
	return &BranchService{branches: branches, audit: audit}
}

// Create opens a new branch in the scope's clinic. The branch code is
// assigned from the clinic's sequence.
func (s *BranchService) Create(ctx context.Context, scope models.RequestScope, req models.BranchRequest) (*models.Branch, error) {
	branch := &models.Branch{
		ClinicID:   scope.ClinicID,
		Name:       req.Name,
		Address:    req.Address,
		Phone:      req.Phone,
		ChairCount: req.ChairCount,
		IsActive:   true,
	}
	if branch.ChairCount == 0 {
		branch.ChairCount = 1
	}
	if err := s.branches.Create(ctx, branch); err != nil {
		return nil, err
	}
	s.audit.Record(ctx, scope, "CREATE_BRANCH", "branch", branch.ID.String(), branch.Name)
	return branch, nil
}

// List returns all branches of the scope's clinic.
func (s *BranchService) List(ctx context.Context, scope models.RequestScope) ([]models.Branch, error) {
	return s.branches.ListByClinic(ctx, scope)
}

// Get returns one branch of the scope's clinic.
func (s *BranchService) Get(ctx context.Context, scope models.RequestScope, id uuid.UUID) (*models.Branch, error) {
	return s.branches.GetByID(ctx, scope, id)
}

// Update modifies a branch's profile.
func (s *BranchService) Update(ctx context.Context, scope models.RequestScope, id uuid.UUID, req models.BranchRequest) (*models.Branch, error) {
	branch, err := s.branches.GetByID(ctx, scope, id)
	if err != nil {
		return nil, err
	}
	branch.Name = req.Name
	branch.Address = req.Address
	branch.Phone = req.Phone
	if req.ChairCount > 0 {
		branch.ChairCount = req.ChairCount
	}
	if err := s.branches.Update(ctx, scope, branch); err != nil {
		return nil, err
	}
	s.audit.Record(ctx, scope, "UPDATE_BRANCH", "branch", branch.ID.String(), branch.Name)
	return branch, nil
}

// Delete closes a branch. The clinic's last branch cannot be removed.
func (s *BranchService) Delete(ctx context.Context, scope models.RequestScope, id uuid.UUID) error {
	if err := s.branches.Delete(ctx, scope, id); err != nil {
		return err
	}
	s.audit.Record(ctx, scope, "DELETE_BRANCH", "branch", id.String(), "")
	return nil
}
