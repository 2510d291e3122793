package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/dentara/practice-api/internal/models"
	"github.com/dentara/practice-api/internal/repository"
)

// ProcedureService handles the clinic's billable procedure catalog
type ProcedureService struct {
	procedures *repository.ProcedureRepository
	audit      *AuditService
}

// NewProcedureService creates a new procedure service
func NewProcedureService(procedures *repository.ProcedureRepository, audit *AuditService) *ProcedureService {
	return &ProcedureService{procedures: procedures, audit: audit}
}

// Create adds a catalog entry. Codes are unique per clinic.
func (s *ProcedureService) Create(ctx context.Context, scope models.RequestScope, req models.ProcedureRequest) (*models.Procedure, error) {
	p := &models.Procedure{
		ClinicID:   scope.ClinicID,
		Code:       req.Code,
		Name:       req.Name,
		Price:      req.Price,
		Commission: req.Commission,
		IsActive:   true,
	}
	if req.IsActive != nil {
		p.IsActive = *req.IsActive
	}
	if err := s.procedures.Create(ctx, p); err != nil {
		return nil, err
	}
	s.audit.Record(ctx, scope, "CREATE_PROCEDURE", "procedure", p.ID.String(), p.Code)
	return p, nil
}

// List returns the clinic's catalog.
func (s *ProcedureService) List(ctx context.Context, scope models.RequestScope) ([]models.Procedure, error) {
	return s.procedures.List(ctx, scope)
}

// Get returns one catalog entry.
func (s *ProcedureService) Get(ctx context.Context, scope models.RequestScope, id uuid.UUID) (*models.Procedure, error) {
	return s.procedures.GetByID(ctx, scope, id)
}

// Update modifies a catalog entry. Price changes apply to future invoices
// only; issued invoices keep their frozen amounts.
func (s *ProcedureService) Update(ctx context.Context, scope models.RequestScope, id uuid.UUID, req models.ProcedureRequest) (*models.Procedure, error) {
	p, err := s.procedures.GetByID(ctx, scope, id)
	if err != nil {
		return nil, err
	}
	p.Code = req.Code
	p.Name = req.Name
	p.Price = req.Price
	p.Commission = req.Commission
	if req.IsActive != nil {
		p.IsActive = *req.IsActive
	}
	if err := s.procedures.Update(ctx, scope, p); err != nil {
		return nil, err
	}
	s.audit.Record(ctx, scope, "UPDATE_PROCEDURE", "procedure", p.ID.String(), p.Code)
	return p, nil
}

// Delete removes a catalog entry.
func (s *ProcedureService) Delete(ctx context.Context, scope models.RequestScope, id uuid.UUID) error {
	if err := s.procedures.Delete(ctx, scope, id); err != nil {
		return err
	}
	s.audit.Record(ctx, scope, "DELETE_PROCEDURE", "procedure", id.String(), "")
	return nil
}
