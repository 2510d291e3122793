package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/dentara/practice-api/internal/apperr"
	"github.com/dentara/practice-api/internal/cache"
	"github.com/dentara/practice-api/internal/models"
	"github.com/dentara/practice-api/internal/repository"
)

// BillingService handles business logic for invoices and payments
type BillingService struct {
	billing  *repository.BillingRepository
	patients *repository.PatientRepository
	users    *repository.UserRepository
	settings *SettingsService
	audit    *AuditService
	cache    cache.Cache
}

// NewBillingService creates a new billing service
func NewBillingService(
	billing *repository.BillingRepository,
	patients *repository.PatientRepository,
	users *repository.UserRepository,
	settings *SettingsService,
	audit *AuditService,
	c cache.Cache,
) *BillingService {
	return &BillingService{
		billing:  billing,
		patients: patients,
		users:    users,
		settings: settings,
		audit:    audit,
		cache:    c,
	}
}

// CreateInvoice issues an invoice in the scope's branch. The doctor's
// commission is computed per line from their current rate and frozen on the
// invoice, so later rate changes never rewrite history. Lines referencing
// treatment plan items mark those items billed.
func (s *BillingService) CreateInvoice(ctx context.Context, scope models.RequestScope, req models.CreateInvoiceRequest) (*models.Invoice, error) {
	if scope.BranchID == nil {
		return nil, apperr.BadRequestf("no active branch context")
	}
	if _, err := s.patients.GetByID(ctx, scope, req.PatientID); err != nil {
		return nil, err
	}
	doctor, err := s.users.GetByID(ctx, scope, req.DoctorID)
	if err != nil {
		if apperr.Is(err, apperr.NotFound) {
			return nil, apperr.BadRequestf("doctor does not belong to the clinic")
		}
		return nil, err
	}

	var total float64
	items := make([]models.InvoiceItem, 0, len(req.Items))
	treatmentIDs := make([]uuid.UUID, 0, len(req.Items))
	for _, line := range req.Items {
		total += line.Cost
		items = append(items, models.InvoiceItem{
			TreatmentID:            line.TreatmentID,
			ProcedureName:          line.ProcedureName,
			Cost:                   line.Cost,
			DoctorCommissionAmount: line.Cost * doctor.CommissionRate / 100,
		})
		if line.TreatmentID != nil {
			treatmentIDs = append(treatmentIDs, *line.TreatmentID)
		}
	}
	if req.Discount > total {
		return nil, apperr.BadRequestf("discount exceeds invoice total")
	}
	if req.Discount > 0 {
		ok, err := s.settings.HasPermission(ctx, scope, models.PermFinDiscounts)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, apperr.Forbiddenf("role is not permitted to apply discounts")
		}
	}

	invoice := &models.Invoice{
		ClinicID:    scope.ClinicID,
		BranchID:    *scope.BranchID,
		PatientID:   req.PatientID,
		DoctorID:    &req.DoctorID,
		Items:       items,
		TotalAmount: total,
		Discount:    req.Discount,
		FinalAmount: total - req.Discount,
		Balance:     total - req.Discount,
		Status:      models.InvoiceUnpaid,
		DueDate:     req.DueDate,
		Notes:       req.Notes,
	}
	if err := s.billing.CreateInvoice(ctx, invoice, treatmentIDs); err != nil {
		return nil, err
	}

	s.invalidateDashboards(ctx, scope)
	s.audit.Record(ctx, scope, "CREATE_INVOICE", "invoice", invoice.ID.String(), invoice.Number)
	return invoice, nil
}

// ListInvoices returns invoices visible to the scope.
func (s *BillingService) ListInvoices(ctx context.Context, scope models.RequestScope, patientID *uuid.UUID) ([]models.Invoice, error) {
	return s.billing.ListInvoices(ctx, scope, patientID)
}

// GetInvoice returns one invoice with its lines.
func (s *BillingService) GetInvoice(ctx context.Context, scope models.RequestScope, id uuid.UUID) (*models.Invoice, error) {
	return s.billing.GetInvoice(ctx, scope, id)
}

// CancelInvoice voids an invoice with no recorded payments.
func (s *BillingService) CancelInvoice(ctx context.Context, scope models.RequestScope, id uuid.UUID) error {
	if err := s.billing.CancelInvoice(ctx, scope, id); err != nil {
		return err
	}
	s.invalidateDashboards(ctx, scope)
	s.audit.Record(ctx, scope, "CANCEL_INVOICE", "invoice", id.String(), "")
	return nil
}

// RecordPayment collects money from a patient. The receipt number comes
// from the clinic sequence; patient balance and any target invoice advance
// in the same transaction.
func (s *BillingService) RecordPayment(ctx context.Context, scope models.RequestScope, req models.RecordPaymentRequest) (*models.Payment, error) {
	if scope.BranchID == nil {
		return nil, apperr.BadRequestf("no active branch context")
	}
	if _, err := s.patients.GetByID(ctx, scope, req.PatientID); err != nil {
		return nil, err
	}
	method := req.Method
	if method == "" {
		method = models.PaymentCash
	}
	if !models.ValidPaymentMethod(method) {
		return nil, apperr.BadRequestf("unknown payment method %q", method)
	}
	if req.InvoiceID != nil {
		if _, err := s.billing.GetInvoice(ctx, scope, *req.InvoiceID); err != nil {
			return nil, err
		}
	}

	payment := &models.Payment{
		ClinicID:      scope.ClinicID,
		BranchID:      *scope.BranchID,
		PatientID:     req.PatientID,
		InvoiceID:     req.InvoiceID,
		Amount:        req.Amount,
		Method:        method,
		TransactionID: req.TransactionID,
		Notes:         req.Notes,
	}
	if err := s.billing.RecordPayment(ctx, payment); err != nil {
		return nil, err
	}

	s.invalidateDashboards(ctx, scope)
	s.audit.Record(ctx, scope, "RECORD_PAYMENT", "payment", payment.ID.String(), payment.ReceiptNumber)
	return payment, nil
}

// ListPayments returns payments visible to the scope.
func (s *BillingService) ListPayments(ctx context.Context, scope models.RequestScope, patientID *uuid.UUID) ([]models.Payment, error) {
	return s.billing.ListPayments(ctx, scope, patientID)
}

// GetPayment returns one payment.
func (s *BillingService) GetPayment(ctx context.Context, scope models.RequestScope, id uuid.UUID) (*models.Payment, error) {
	return s.billing.GetPayment(ctx, scope, id)
}

// invalidateDashboards drops the clinic's cached dashboard rollups after a
// financial write. Best-effort.
func (s *BillingService) invalidateDashboards(ctx context.Context, scope models.RequestScope) {
	if err := s.cache.Clear(ctx, cache.Key("dashboard", scope.ClinicID.String())+"*"); err != nil {
		log.Debug().Err(err).Msg("dashboard cache invalidation failed")
	}
}
