package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/dentara/practice-api/internal/apperr"
	"github.com/dentara/practice-api/internal/models"
	"github.com/dentara/practice-api/internal/repository"
)

// PatientService handles business logic for patient records and treatment
// plans
type PatientService struct {
	patients *repository.PatientRepository
	audit    *AuditService
}

// NewPatientService creates a new patient service
func NewPatientService(patients *repository.PatientRepository, audit *AuditService) *PatientService {
	return &PatientService{patients: patients, audit: audit}
}

// Create registers a patient in the scope's branch. The PID code is
// assigned from the clinic sequence; clinic and branch come from the scope,
// never from the payload.
func (s *PatientService) Create(ctx context.Context, scope models.RequestScope, req models.CreatePatientRequest) (*models.Patient, error) {
	if scope.BranchID == nil {
		return nil, apperr.BadRequestf("no active branch context")
	}
	patient := &models.Patient{
		ClinicID:          scope.ClinicID,
		BranchID:          *scope.BranchID,
		FullName:          req.FullName,
		Mobile:            req.Mobile,
		Email:             req.Email,
		Age:               req.Age,
		Gender:            req.Gender,
		BloodGroup:        req.BloodGroup,
		Address:           req.Address,
		EmergencyContact:  req.EmergencyContact,
		EmergencyRelation: req.EmergencyRelation,
		AssignedDoctor:    req.AssignedDoctor,
		ReferredBy:        req.ReferredBy,
		Communication:     req.Communication,
		PrimaryConcern:    req.PrimaryConcern,
		PainLevel:         req.PainLevel,
		Conditions:        req.Conditions,
		Notes:             req.Notes,
		IsActive:          true,
	}
	if patient.Communication == "" {
		patient.Communication = "WhatsApp"
	}
	if err := s.patients.Create(ctx, patient); err != nil {
		return nil, err
	}
	s.audit.Record(ctx, scope, "CREATE_PATIENT", "patient", patient.ID.String(), patient.Code)
	return patient, nil
}

// List returns patients visible to the scope, optionally filtered by a
// search term.
func (s *PatientService) List(ctx context.Context, scope models.RequestScope, search string) ([]models.Patient, error) {
	return s.patients.List(ctx, scope, search)
}

// Get returns one patient with their treatment plan.
func (s *PatientService) Get(ctx context.Context, scope models.RequestScope, id uuid.UUID) (*models.Patient, error) {
	return s.patients.GetByID(ctx, scope, id)
}

// Update modifies a patient's profile. Ownership, code and balances are
// immutable here.
func (s *PatientService) Update(ctx context.Context, scope models.RequestScope, id uuid.UUID, req models.UpdatePatientRequest) (*models.Patient, error) {
	patient, err := s.patients.GetByID(ctx, scope, id)
	if err != nil {
		return nil, err
	}
	if req.FullName != nil {
		patient.FullName = *req.FullName
	}
	if req.Mobile != nil {
		patient.Mobile = *req.Mobile
	}
	if req.Email != nil {
		patient.Email = *req.Email
	}
	if req.Age != nil {
		patient.Age = *req.Age
	}
	if req.Gender != nil {
		patient.Gender = *req.Gender
	}
	if req.BloodGroup != nil {
		patient.BloodGroup = *req.BloodGroup
	}
	if req.Address != nil {
		patient.Address = *req.Address
	}
	if req.EmergencyContact != nil {
		patient.EmergencyContact = *req.EmergencyContact
	}
	if req.EmergencyRelation != nil {
		patient.EmergencyRelation = *req.EmergencyRelation
	}
	if req.AssignedDoctor != nil {
		patient.AssignedDoctor = *req.AssignedDoctor
	}
	if req.PrimaryConcern != nil {
		patient.PrimaryConcern = *req.PrimaryConcern
	}
	if req.PainLevel != nil {
		patient.PainLevel = *req.PainLevel
	}
	if req.Conditions != nil {
		patient.Conditions = req.Conditions
	}
	if req.Notes != nil {
		patient.Notes = *req.Notes
	}
	if err := s.patients.Update(ctx, scope, patient); err != nil {
		return nil, err
	}
	s.audit.Record(ctx, scope, "UPDATE_PATIENT", "patient", patient.ID.String(), patient.Code)
	return patient, nil
}

// Delete removes a patient record.
func (s *PatientService) Delete(ctx context.Context, scope models.RequestScope, id uuid.UUID) error {
	patient, err := s.patients.GetByID(ctx, scope, id)
	if err != nil {
		return err
	}
	if err := s.patients.Delete(ctx, scope, id); err != nil {
		return err
	}
	s.audit.Record(ctx, scope, "DELETE_PATIENT", "patient", id.String(), patient.Code)
	return nil
}

// AddTreatment appends a treatment plan line. Items created In Progress or
// Completed charge the patient's balance immediately.
func (s *PatientService) AddTreatment(ctx context.Context, scope models.RequestScope, patientID uuid.UUID, req models.AddTreatmentRequest) (*models.TreatmentItem, error) {
	if _, err := s.patients.GetByID(ctx, scope, patientID); err != nil {
		return nil, err
	}
	status := req.Status
	if status == "" {
		status = models.TreatmentProposed
	}
	switch status {
	case models.TreatmentProposed, models.TreatmentInProgress, models.TreatmentCompleted:
	default:
		return nil, apperr.BadRequestf("invalid initial treatment status %q", status)
	}
	item := &models.TreatmentItem{
		ClinicID:  scope.ClinicID,
		PatientID: patientID,
		Tooth:     req.Tooth,
		Procedure: req.Procedure,
		Cost:      req.Cost,
		Status:    status,
		Date:      time.Now().UTC(),
	}
	if err := s.patients.AddTreatment(ctx, item); err != nil {
		return nil, err
	}
	s.audit.Record(ctx, scope, "ADD_TREATMENT", "treatment", item.ID.String(), item.Procedure)
	return item, nil
}

// StartTreatments moves proposed plan items to In Progress, charging their
// cost to the patient.
func (s *PatientService) StartTreatments(ctx context.Context, scope models.RequestScope, patientID uuid.UUID, itemIDs []uuid.UUID) ([]models.TreatmentItem, error) {
	if len(itemIDs) == 0 {
		return nil, apperr.BadRequestf("no treatment ids given")
	}
	if _, err := s.patients.GetByID(ctx, scope, patientID); err != nil {
		return nil, err
	}
	items, err := s.patients.StartTreatments(ctx, scope, patientID, itemIDs)
	if err != nil {
		return nil, err
	}
	s.audit.Record(ctx, scope, "START_TREATMENTS", "patient", patientID.String(), "")
	return items, nil
}

// UpdateTreatmentStatus transitions one plan item.
func (s *PatientService) UpdateTreatmentStatus(ctx context.Context, scope models.RequestScope, patientID, itemID uuid.UUID, status models.TreatmentStatus) error {
	switch status {
	case models.TreatmentProposed, models.TreatmentInProgress, models.TreatmentCompleted, models.TreatmentCancelled:
	default:
		return apperr.BadRequestf("invalid treatment status %q", status)
	}
	if _, err := s.patients.GetByID(ctx, scope, patientID); err != nil {
		return err
	}
	if err := s.patients.UpdateTreatmentStatus(ctx, scope, patientID, itemID, status); err != nil {
		return err
	}
	s.audit.Record(ctx, scope, "UPDATE_TREATMENT", "treatment", itemID.String(), string(status))
	return nil
}

// Ledger returns the patient's merged financial history.
func (s *PatientService) Ledger(ctx context.Context, scope models.RequestScope, patientID uuid.UUID) ([]models.LedgerEntry, error) {
	return s.patients.Ledger(ctx, scope, patientID)
}
