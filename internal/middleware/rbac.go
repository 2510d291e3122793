package middleware

import (
	"net/http"

	"github.com/dentara/practice-api/internal/apperr"
	"github.com/dentara/practice-api/internal/models"
)

// AdminOnly rejects requests from non-administrator principals. Layered on
// top of Authenticate for privileged routes.
func AdminOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		principal, ok := GetPrincipal(r.Context())
		if !ok || principal.Role != models.RoleAdministrator {
			writeError(w, apperr.Forbiddenf("access denied, administrator only"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireRole returns Forbidden unless the scope's role matches the minimum
// role. Administrators pass every check.
func RequireRole(scope models.RequestScope, role models.Role) error {
	if scope.IsAdmin() || scope.Role == role {
		return nil
	}
	return apperr.Forbiddenf("access denied")
}
