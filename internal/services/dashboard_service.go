package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/dentara/practice-api/internal/cache"
	"github.com/dentara/practice-api/internal/models"
	"github.com/dentara/practice-api/internal/repository"
)

const dashboardTTL = 2 * time.Minute

// DashboardSummary is the daily rollup for the scope's clinic or branch.
type DashboardSummary struct {
	Date              string  `json:"date"`
	TotalPatients     int64   `json:"total_patients"`
	NewPatientsToday  int64   `json:"new_patients_today"`
	AppointmentsToday int64   `json:"appointments_today"`
	RevenueToday      float64 `json:"revenue_today"`
	ExpensesToday     float64 `json:"expenses_today"`
	OutstandingDue    float64 `json:"outstanding_due"`
	LowStockItems     int     `json:"low_stock_items"`
}

// DashboardService aggregates daily rollups, cached briefly per clinic and
// branch.
type DashboardService struct {
	patients     *repository.PatientRepository
	appointments *repository.AppointmentRepository
	billing      *repository.BillingRepository
	expenses     *repository.ExpenseRepository
	inventory    *repository.InventoryRepository
	cache        cache.Cache
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(
	patients *repository.PatientRepository,
	appointments *repository.AppointmentRepository,
	billing *repository.BillingRepository,
	expenses *repository.ExpenseRepository,
	inventory *repository.InventoryRepository,
	c cache.Cache,
) *DashboardService {
	return &DashboardService{
		patients:     patients,
		appointments: appointments,
		billing:      billing,
		expenses:     expenses,
		inventory:    inventory,
		cache:        c,
	}
}

// Summary computes today's rollup for the scope. An administrator without a
// branch context gets clinic-wide numbers; everyone else gets their branch.
func (s *DashboardService) Summary(ctx context.Context, scope models.RequestScope) (*DashboardSummary, error) {
	day := time.Now().UTC().Truncate(24 * time.Hour)
	key := cache.Key("dashboard", scope.ClinicID.String(), scope.Branch().String(), day.Format("2006-01-02"))

	if raw, err := s.cache.Get(ctx, key); err == nil {
		var cached DashboardSummary
		if json.Unmarshal(raw, &cached) == nil {
			return &cached, nil
		}
	}

	from, to := day, day.Add(24*time.Hour)

	total, recent, err := s.patients.Count(ctx, scope, from, to)
	if err != nil {
		return nil, err
	}
	appts, err := s.appointments.CountInWindow(ctx, scope, from, to)
	if err != nil {
		return nil, err
	}
	revenue, err := s.billing.SumPaymentsInWindow(ctx, scope, from, to)
	if err != nil {
		return nil, err
	}
	spent, err := s.expenses.SumInWindow(ctx, scope, from, to)
	if err != nil {
		return nil, err
	}
	due, err := s.billing.OutstandingBalance(ctx, scope)
	if err != nil {
		return nil, err
	}
	low, err := s.inventory.LowStock(ctx, scope)
	if err != nil {
		return nil, err
	}

	summary := &DashboardSummary{
		Date:              day.Format("2006-01-02"),
		TotalPatients:     total,
		NewPatientsToday:  recent,
		AppointmentsToday: appts,
		RevenueToday:      revenue,
		ExpensesToday:     spent,
		OutstandingDue:    due,
		LowStockItems:     len(low),
	}

	if raw, err := json.Marshal(summary); err == nil {
		if err := s.cache.Set(ctx, key, raw, dashboardTTL); err != nil {
			log.Debug().Err(err).Msg("dashboard cache write failed")
		}
	}
	return summary, nil
}
