package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/dentara/practice-api/internal/apperr"
	"github.com/dentara/practice-api/internal/models"
)

// BranchHeader carries the requested branch id, out-of-band from URL and
// body. Optional per request.
const BranchHeader = "X-Branch-Id"

// BranchChecker verifies that a branch belongs to a clinic. Used for the
// administrator path, where any branch of the principal's own clinic is
// permitted even when absent from the allowed set.
type BranchChecker interface {
	BranchInClinic(ctx context.Context, clinicID, branchID uuid.UUID) (bool, error)
}

// ResolveScope computes the effective tenancy context for one request.
//
// The clinic id always comes from the principal, never from client input.
// A requested branch must be in the principal's allowed set, except for
// administrators, who may select any branch of their own clinic. Without a
// requested branch the principal's default branch applies; a principal with
// no default is valid only for administrators, who then operate clinic-wide.
//
// The result is recomputed from scratch on every call so permission changes
// take effect on the very next request.
func ResolveScope(ctx context.Context, principal *models.User, requestedBranch string, branches BranchChecker) (models.RequestScope, error) {
	scope := models.RequestScope{
		UserID:   principal.ID,
		ClinicID: principal.ClinicID,
		Role:     principal.Role,
	}

	if requestedBranch != "" {
		branchID, err := uuid.Parse(requestedBranch)
		if err != nil {
			return scope, apperr.BadRequestf("invalid %s header", BranchHeader)
		}

		if !principal.CanAccessBranch(branchID) {
			if principal.Role != models.RoleAdministrator {
				return scope, apperr.Forbiddenf("branch access denied")
			}
			ok, err := branches.BranchInClinic(ctx, principal.ClinicID, branchID)
			if err != nil {
				return scope, apperr.Internalf(err, "internal server error")
			}
			// Unknown and other-clinic branches are indistinguishable here.
			if !ok {
				return scope, apperr.Forbiddenf("branch access denied")
			}
		}

		scope.BranchID = &branchID
		return scope, nil
	}

	if principal.DefaultBranchID != nil {
		id := *principal.DefaultBranchID
		scope.BranchID = &id
		return scope, nil
	}

	if principal.Role == models.RoleAdministrator {
		// Clinic-wide scope: valid during initial setup before any branch
		// exists, and for clinic-wide operations.
		return scope, nil
	}

	return scope, apperr.BadRequestf("no active branch context")
}

// BranchScope resolves the request's effective clinic and branch and stores
// the scope in context. All branch special-casing lives here; downstream
// handlers and repositories consume an already-correct scope and never
// re-derive it.
func BranchScope(branches BranchChecker) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, ok := GetPrincipal(r.Context())
			if !ok {
				writeError(w, apperr.Unauthenticatedf("not authorized"))
				return
			}

			scope, err := ResolveScope(r.Context(), principal, r.Header.Get(BranchHeader), branches)
			if err != nil {
				if apperr.KindOf(err) == apperr.Internal {
					log.Error().Err(err).Msg("Failed to resolve branch scope")
				}
				writeError(w, err)
				return
			}

			ctx := context.WithValue(r.Context(), scopeKey, scope)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireBranch rejects clinic-wide requests on routes that operate on
// branch-scoped resources. Administrators without a branch context must
// select one via the branch header before touching these.
func RequireBranch(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		scope, ok := GetScope(r.Context())
		if !ok || scope.ClinicWide() {
			writeError(w, apperr.BadRequestf("no active branch context"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetScope extracts the resolved request scope from context.
func GetScope(ctx context.Context) (models.RequestScope, bool) {
	scope, ok := ctx.Value(scopeKey).(models.RequestScope)
	return scope, ok
}
