package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/dentara/practice-api/internal/apperr"
	"github.com/dentara/practice-api/internal/models"
	"github.com/dentara/practice-api/internal/repository"
)

// AppointmentService handles business logic for the branch calendar
type AppointmentService struct {
	appointments *repository.AppointmentRepository
	patients     *repository.PatientRepository
	branches     *repository.BranchRepository
	audit        *AuditService
}

// NewAppointmentService creates a new appointment service
func NewAppointmentService(
	appointments *repository.AppointmentRepository,
	patients *repository.PatientRepository,
	branches *repository.BranchRepository,
	audit *AuditService,
) *AppointmentService {
	return &AppointmentService{
		appointments: appointments,
		patients:     patients,
		branches:     branches,
		audit:        audit,
	}
}

// Create books an appointment in the scope's branch. The chair must exist
// in the branch and be free for the window; the patient must be visible to
// the scope.
func (s *AppointmentService) Create(ctx context.Context, scope models.RequestScope, req models.CreateAppointmentRequest) (*models.Appointment, error) {
	if scope.BranchID == nil {
		return nil, apperr.BadRequestf("no active branch context")
	}
	if _, err := s.patients.GetByID(ctx, scope, req.PatientID); err != nil {
		return nil, err
	}
	branch, err := s.branches.GetByID(ctx, scope, *scope.BranchID)
	if err != nil {
		return nil, err
	}
	if req.ChairID > branch.ChairCount {
		return nil, apperr.BadRequestf("branch has only %d chairs", branch.ChairCount)
	}
	taken, err := s.appointments.ChairTaken(ctx, scope, req.ChairID, req.Start, req.End, nil)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, apperr.Conflictf("chair %d is already booked for this window", req.ChairID)
	}

	status := req.Status
	if status == "" {
		status = models.AppointmentScheduled
	}
	appt := &models.Appointment{
		ClinicID:   scope.ClinicID,
		BranchID:   *scope.BranchID,
		PatientID:  req.PatientID,
		DoctorID:   req.DoctorID,
		Title:      req.Title,
		Phone:      req.Phone,
		DoctorName: req.DoctorName,
		Type:       req.Type,
		Start:      req.Start,
		End:        req.End,
		ChairID:    req.ChairID,
		Status:     status,
	}
	if err := s.appointments.Create(ctx, appt); err != nil {
		return nil, err
	}
	s.audit.Record(ctx, scope, "CREATE_APPOINTMENT", "appointment", appt.ID.String(), appt.Title)
	return appt, nil
}

// List returns appointments visible to the scope, optionally limited to a
// day or range.
func (s *AppointmentService) List(ctx context.Context, scope models.RequestScope, from, to *time.Time) ([]models.Appointment, error) {
	return s.appointments.List(ctx, scope, from, to)
}

// Get returns one appointment.
func (s *AppointmentService) Get(ctx context.Context, scope models.RequestScope, id uuid.UUID) (*models.Appointment, error) {
	return s.appointments.GetByID(ctx, scope, id)
}

// Update reschedules or transitions an appointment. A changed window or
// chair re-checks availability.
func (s *AppointmentService) Update(ctx context.Context, scope models.RequestScope, id uuid.UUID, req models.UpdateAppointmentRequest) (*models.Appointment, error) {
	appt, err := s.appointments.GetByID(ctx, scope, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		appt.Title = *req.Title
	}
	if req.DoctorID != nil {
		appt.DoctorID = *req.DoctorID
	}
	if req.Type != nil {
		appt.Type = *req.Type
	}
	if req.Start != nil {
		appt.Start = *req.Start
	}
	if req.End != nil {
		appt.End = *req.End
	}
	if req.ChairID != nil {
		appt.ChairID = *req.ChairID
	}
	if req.Status != nil {
		appt.Status = *req.Status
	}
	if req.Notes != nil {
		appt.Notes = *req.Notes
	}
	if !appt.End.After(appt.Start) {
		return nil, apperr.BadRequestf("appointment end must be after start")
	}

	if req.Start != nil || req.End != nil || req.ChairID != nil {
		taken, err := s.appointments.ChairTaken(ctx, scope, appt.ChairID, appt.Start, appt.End, &appt.ID)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, apperr.Conflictf("chair %d is already booked for this window", appt.ChairID)
		}
	}

	if err := s.appointments.Update(ctx, scope, appt); err != nil {
		return nil, err
	}
	s.audit.Record(ctx, scope, "UPDATE_APPOINTMENT", "appointment", appt.ID.String(), string(appt.Status))
	return appt, nil
}

// Delete removes an appointment.
func (s *AppointmentService) Delete(ctx context.Context, scope models.RequestScope, id uuid.UUID) error {
	if err := s.appointments.Delete(ctx, scope, id); err != nil {
		return err
	}
	s.audit.Record(ctx, scope, "DELETE_APPOINTMENT", "appointment", id.String(), "")
	return nil
}
