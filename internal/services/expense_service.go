package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/dentara/practice-api/internal/apperr"
	"github.com/dentara/practice-api/internal/models"
	"github.com/dentara/practice-api/internal/repository"
)

// ExpenseService handles business logic for branch expenses
type ExpenseService struct {
	expenses *repository.ExpenseRepository
	audit    *AuditService
}

// NewExpenseService creates a new expense service
func NewExpenseService(expenses *repository.ExpenseRepository, audit *AuditService) *ExpenseService {
	return &ExpenseService{expenses: expenses, audit: audit}
}

// Create records an expense against the scope's branch.
func (s *ExpenseService) Create(ctx context.Context, scope models.RequestScope, req models.CreateExpenseRequest) (*models.Expense, error) {
	if scope.BranchID == nil {
		return nil, apperr.BadRequestf("no active branch context")
	}
	if !models.ValidExpenseCategory(req.Category) {
		return nil, apperr.BadRequestf("unknown expense category %q", req.Category)
	}
	method := req.PaymentMethod
	if method == "" {
		method = models.PaymentBankTransfer
	}
	if !models.ValidPaymentMethod(method) {
		return nil, apperr.BadRequestf("unknown payment method %q", method)
	}

	e := &models.Expense{
		ClinicID:      scope.ClinicID,
		BranchID:      *scope.BranchID,
		Title:         req.Title,
		Category:      req.Category,
		Amount:        req.Amount,
		PaymentMethod: method,
		Vendor:        req.Vendor,
		Notes:         req.Notes,
		RecordedBy:    scope.UserID,
	}
	if req.Date != nil {
		e.Date = *req.Date
	}
	if err := s.expenses.Create(ctx, e); err != nil {
		return nil, err
	}
	s.audit.Record(ctx, scope, "CREATE_EXPENSE", "expense", e.ID.String(), e.Title)
	return e, nil
}

// List returns expenses visible to the scope, optionally windowed.
func (s *ExpenseService) List(ctx context.Context, scope models.RequestScope, from, to *time.Time) ([]models.Expense, error) {
	return s.expenses.List(ctx, scope, from, to)
}

// Get returns one expense.
func (s *ExpenseService) Get(ctx context.Context, scope models.RequestScope, id uuid.UUID) (*models.Expense, error) {
	return s.expenses.GetByID(ctx, scope, id)
}

// Delete removes an expense.
func (s *ExpenseService) Delete(ctx context.Context, scope models.RequestScope, id uuid.UUID) error {
	if err := s.expenses.Delete(ctx, scope, id); err != nil {
		return err
	}
	s.audit.Record(ctx, scope, "DELETE_EXPENSE", "expense", id.String(), "")
	return nil
}
