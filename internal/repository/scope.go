package repository

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/dentara/practice-api/internal/apperr"
	"github.com/dentara/practice-api/internal/models"
)

// Scoping helpers. Every query in this package goes through one of these so
// the tenant filter lands in the same WHERE clause as the record id.
// Ownership is never checked in a separate step after the fetch.

// scoped filters by the request's clinic. For clinic-scoped record types.
func scoped(db *gorm.DB, s models.RequestScope) *gorm.DB {
	return db.Where("clinic_id = ?", s.ClinicID)
}

// branchScoped filters by clinic and effective branch. A clinic-wide scope
// (administrator, nil branch) omits the branch filter; routes serving
// branch-bound resources guard against that with middleware.RequireBranch,
// so reaching here clinic-wide means the operation is deliberately
// clinic-wide (dashboards, rollups).
func branchScoped(db *gorm.DB, s models.RequestScope) *gorm.DB {
	db = db.Where("clinic_id = ?", s.ClinicID)
	if s.BranchID != nil {
		db = db.Where("branch_id = ?", *s.BranchID)
	}
	return db
}

// translate maps store errors to the API taxonomy. A record that exists but
// fails the tenant filter is reported as not found, same as one that does
// not exist at all.
func translate(err error, entity string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return apperr.NotFoundf("%s not found", entity)
	case isUniqueViolation(err):
		return apperr.Conflictf("%s already exists", entity)
	default:
		return apperr.Internalf(err, "internal server error")
	}
}

// isUniqueViolation detects unique-index conflicts across the postgres
// driver and the sqlite driver used in tests.
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key value") ||
		strings.Contains(msg, "UNIQUE constraint failed")
}
