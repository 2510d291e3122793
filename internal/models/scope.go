package models

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// AuthClaims is the JWT payload. It carries only the user id; the principal
// record is re-loaded from storage on every request so deletions and
// permission changes take effect immediately.
type AuthClaims struct {
	UserID uuid.UUID `json:"user_id"`
	jwt.RegisteredClaims
}

// RequestScope is the resolved tenancy context for one request: the clinic
// the principal belongs to and the effective branch. A nil BranchID means
// clinic-wide scope, which only administrators may hold. It is computed
// fresh per request and never persisted or cached.
type RequestScope struct {
	UserID   uuid.UUID
	ClinicID uuid.UUID
	Role     Role
	BranchID *uuid.UUID
}

// IsAdmin reports whether the acting principal is a clinic administrator.
func (s RequestScope) IsAdmin() bool {
	return s.Role == RoleAdministrator
}

// ClinicWide reports whether the scope has no branch restriction.
func (s RequestScope) ClinicWide() bool {
	return s.BranchID == nil
}

// Branch returns the effective branch id, or uuid.Nil for clinic-wide scope.
func (s RequestScope) Branch() uuid.UUID {
	if s.BranchID == nil {
		return uuid.Nil
	}
	return *s.BranchID
}
