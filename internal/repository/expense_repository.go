package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/dentara/practice-api/internal/apperr"
	"github.com/dentara/practice-api/internal/database"
	"github.com/dentara/practice-api/internal/models"
)

// ExpenseRepository handles expense database operations
type ExpenseRepository struct{}

// NewExpenseRepository creates a new expense repository
func NewExpenseRepository() *ExpenseRepository {
	return &ExpenseRepository{}
}

// Create inserts an expense.
func (r *ExpenseRepository) Create(ctx context.Context, e *models.Expense) error {
	if err := database.DB.WithContext(ctx).Create(e).Error; err != nil {
		return translate(err, "expense")
	}
	return nil
}

// List returns expenses visible to the scope, newest first, optionally
// limited to a [from, to) window.
func (r *ExpenseRepository) List(ctx context.Context, s models.RequestScope, from, to *time.Time) ([]models.Expense, error) {
	q := branchScoped(database.DB.WithContext(ctx), s)
	if from != nil {
		q = q.Where("date >= ?", *from)
	}
	if to != nil {
		q = q.Where("date < ?", *to)
	}
	var expenses []models.Expense
	err := q.Order("date DESC").Find(&expenses).Error
	if err != nil {
		return nil, translate(err, "expenses")
	}
	return expenses, nil
}

// GetByID retrieves one expense visible to the scope.
func (r *ExpenseRepository) GetByID(ctx context.Context, s models.RequestScope, id uuid.UUID) (*models.Expense, error) {
	var e models.Expense
	err := branchScoped(database.DB.WithContext(ctx), s).
		Where("id = ?", id).
		First(&e).Error
	if err != nil {
		return nil, translate(err, "expense")
	}
	return &e, nil
}

// Delete removes an expense visible to the scope.
func (r *ExpenseRepository) Delete(ctx context.Context, s models.RequestScope, id uuid.UUID) error {
	res := branchScoped(database.DB.WithContext(ctx), s).
		Where("id = ?", id).
		Delete(&models.Expense{})
	if res.Error != nil {
		return translate(res.Error, "expense")
	}
	if res.RowsAffected == 0 {
		return apperr.NotFoundf("expense not found")
	}
	return nil
}

// SumInWindow totals expenses dated inside [from, to) for dashboard
// rollups.
func (r *ExpenseRepository) SumInWindow(ctx context.Context, s models.RequestScope, from, to time.Time) (float64, error) {
	var total float64
	err := branchScoped(database.DB.WithContext(ctx), s).
		Model(&models.Expense{}).
		Where("date >= ? AND date < ?", from, to).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&total).Error
	if err != nil {
		return 0, apperr.Internalf(err, "internal server error")
	}
	return total, nil
}
