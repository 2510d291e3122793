package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/dentara/practice-api/internal/apperr"
	"github.com/dentara/practice-api/internal/models"
	"github.com/dentara/practice-api/internal/repository"
)

// NoteService handles business logic for clinical visit notes
type NoteService struct {
	notes    *repository.NoteRepository
	patients *repository.PatientRepository
	users    *repository.UserRepository
	audit    *AuditService
}

// NewNoteService creates a new note service
func NewNoteService(
	notes *repository.NoteRepository,
	patients *repository.PatientRepository,
	users *repository.UserRepository,
	audit *AuditService,
) *NoteService {
	return &NoteService{notes: notes, patients: patients, users: users, audit: audit}
}

// Create writes a clinical note in the scope's branch, attributed to the
// acting user. The doctor name is snapshotted for display.
func (s *NoteService) Create(ctx context.Context, scope models.RequestScope, req models.CreateNoteRequest) (*models.ClinicalNote, error) {
	if scope.BranchID == nil {
		return nil, apperr.BadRequestf("no active branch context")
	}
	if _, err := s.patients.GetByID(ctx, scope, req.PatientID); err != nil {
		return nil, err
	}

	noteType := req.Type
	if noteType == "" {
		noteType = models.NoteConsultation
	}
	n := &models.ClinicalNote{
		ClinicID:  scope.ClinicID,
		BranchID:  *scope.BranchID,
		PatientID: req.PatientID,
		DoctorID:  scope.UserID,
		Type:      noteType,
		Content:   req.Content,
		Tags:      req.Tags,
	}
	if req.VisitDate != nil {
		n.VisitDate = *req.VisitDate
	}
	if author, err := s.users.Principal(ctx, scope.UserID); err == nil {
		n.DoctorName = author.FullName
	}
	if err := s.notes.Create(ctx, n); err != nil {
		return nil, err
	}
	s.audit.Record(ctx, scope, "CREATE_NOTE", "clinical_note", n.ID.String(), string(n.Type))
	return n, nil
}

// List returns notes visible to the scope.
func (s *NoteService) List(ctx context.Context, scope models.RequestScope, patientID *uuid.UUID) ([]models.ClinicalNote, error) {
	return s.notes.List(ctx, scope, patientID)
}

// Get returns one note.
func (s *NoteService) Get(ctx context.Context, scope models.RequestScope, id uuid.UUID) (*models.ClinicalNote, error) {
	return s.notes.GetByID(ctx, scope, id)
}

// Delete removes a note. Only the author or an administrator may delete.
func (s *NoteService) Delete(ctx context.Context, scope models.RequestScope, id uuid.UUID) error {
	n, err := s.notes.GetByID(ctx, scope, id)
	if err != nil {
		return err
	}
	if !scope.IsAdmin() && n.DoctorID != scope.UserID {
		return apperr.Forbiddenf("only the author may delete this note")
	}
	if err := s.notes.Delete(ctx, scope, id); err != nil {
		return err
	}
	s.audit.Record(ctx, scope, "DELETE_NOTE", "clinical_note", id.String(), "")
	return nil
}
