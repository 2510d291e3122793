package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/dentara/practice-api/internal/apperr"
	"github.com/dentara/practice-api/internal/models"
	"github.com/dentara/practice-api/internal/repository"
)

// PrescriptionService handles business logic for prescriptions and the
// clinic drug catalog
type PrescriptionService struct {
	prescriptions *repository.PrescriptionRepository
	patients      *repository.PatientRepository
	audit         *AuditService
}

// NewPrescriptionService creates a new prescription service
func NewPrescriptionService(
	prescriptions *repository.PrescriptionRepository,
	patients *repository.PatientRepository,
	audit *AuditService,
) *PrescriptionService {
	return &PrescriptionService{
		prescriptions: prescriptions,
		patients:      patients,
		audit:         audit,
	}
}

// Create issues a prescription in the scope's branch.
func (s *PrescriptionService) Create(ctx context.Context, scope models.RequestScope, req models.CreatePrescriptionRequest) (*models.Prescription, error) {
	if scope.BranchID == nil {
		return nil, apperr.BadRequestf("no active branch context")
	}
	if _, err := s.patients.GetByID(ctx, scope, req.PatientID); err != nil {
		return nil, err
	}
	p := &models.Prescription{
		ClinicID:      scope.ClinicID,
		BranchID:      *scope.BranchID,
		PatientID:     req.PatientID,
		DoctorID:      req.DoctorID,
		AppointmentID: req.AppointmentID,
		Medications:   req.Medications,
		Notes:         req.Notes,
	}
	if err := s.prescriptions.Create(ctx, p); err != nil {
		return nil, err
	}
	s.audit.Record(ctx, scope, "CREATE_PRESCRIPTION", "prescription", p.ID.String(), "")
	return p, nil
}

// List returns prescriptions visible to the scope.
func (s *PrescriptionService) List(ctx context.Context, scope models.RequestScope, patientID *uuid.UUID) ([]models.Prescription, error) {
	return s.prescriptions.List(ctx, scope, patientID)
}

// Get returns one prescription.
func (s *PrescriptionService) Get(ctx context.Context, scope models.RequestScope, id uuid.UUID) (*models.Prescription, error) {
	return s.prescriptions.GetByID(ctx, scope, id)
}

// Delete removes a prescription.
func (s *PrescriptionService) Delete(ctx context.Context, scope models.RequestScope, id uuid.UUID) error {
	if err := s.prescriptions.Delete(ctx, scope, id); err != nil {
		return err
	}
	s.audit.Record(ctx, scope, "DELETE_PRESCRIPTION", "prescription", id.String(), "")
	return nil
}

// CreateDrug adds a drug to the clinic catalog.
func (s *PrescriptionService) CreateDrug(ctx context.Context, scope models.RequestScope, req models.DrugRequest) (*models.Drug, error) {
	drug := &models.Drug{
		ClinicID:        scope.ClinicID,
		Name:            req.Name,
		Type:            req.Type,
		GenericName:     req.GenericName,
		DefaultDosage:   req.DefaultDosage,
		DefaultDuration: req.DefaultDuration,
		Instruction:     req.Instruction,
	}
	if drug.Type == "" {
		drug.Type = "Tablet"
	}
	if err := s.prescriptions.CreateDrug(ctx, drug); err != nil {
		return nil, err
	}
	s.audit.Record(ctx, scope, "CREATE_DRUG", "drug", drug.ID.String(), drug.Name)
	return drug, nil
}

// ListDrugs returns the clinic's catalog.
func (s *PrescriptionService) ListDrugs(ctx context.Context, scope models.RequestScope) ([]models.Drug, error) {
	return s.prescriptions.ListDrugs(ctx, scope)
}

// UpdateDrug modifies a catalog entry.
func (s *PrescriptionService) UpdateDrug(ctx context.Context, scope models.RequestScope, id uuid.UUID, req models.DrugRequest) (*models.Drug, error) {
	drug, err := s.prescriptions.GetDrug(ctx, scope, id)
	if err != nil {
		return nil, err
	}
	drug.Name = req.Name
	if req.Type != "" {
		drug.Type = req.Type
	}
	drug.GenericName = req.GenericName
	drug.DefaultDosage = req.DefaultDosage
	drug.DefaultDuration = req.DefaultDuration
	drug.Instruction = req.Instruction
	if err := s.prescriptions.UpdateDrug(ctx, scope, drug); err != nil {
		return nil, err
	}
	s.audit.Record(ctx, scope, "UPDATE_DRUG", "drug", drug.ID.String(), drug.Name)
	return drug, nil
}

// DeleteDrug removes a catalog entry.
func (s *PrescriptionService) DeleteDrug(ctx context.Context, scope models.RequestScope, id uuid.UUID) error {
	if err := s.prescriptions.DeleteDrug(ctx, scope, id); err != nil {
		return err
	}
	s.audit.Record(ctx, scope, "DELETE_DRUG", "drug", id.String(), "")
	return nil
}
