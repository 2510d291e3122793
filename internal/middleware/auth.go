package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/dentara/practice-api/internal/apperr"
	"github.com/dentara/practice-api/internal/auth"
	"github.com/dentara/practice-api/internal/models"
)

type contextKey string

const (
	principalKey contextKey = "principal"
	scopeKey     contextKey = "scope"
)

// PrincipalLoader loads the acting user for a verified credential. The
// password hash must be excluded from the loaded projection.
type PrincipalLoader interface {
	Principal(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// Authenticate verifies the bearer credential and attaches the principal to
// the request context. The principal record is re-loaded from storage on
// every call; a valid token whose user has since been deleted is rejected.
func Authenticate(secret string, users PrincipalLoader) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				writeError(w, apperr.Unauthenticatedf("not authorized, no token"))
				return
			}

			parts := strings.SplitN(header, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				writeError(w, apperr.Unauthenticatedf("invalid authorization format, expected: Bearer <token>"))
				return
			}

			claims, err := auth.ParseToken(parts[1], secret)
			if err != nil {
				writeError(w, apperr.Unauthenticatedf("not authorized, token failed"))
				return
			}

			principal, err := users.Principal(r.Context(), claims.UserID)
			if err != nil {
				if apperr.Is(err, apperr.NotFound) {
					writeError(w, apperr.Unauthenticatedf("user not found, authorization denied"))
					return
				}
				log.Error().Err(err).Msg("Failed to load principal")
				writeError(w, apperr.Internalf(err, "internal server error"))
				return
			}

			if principal.Status == models.UserInactive {
				writeError(w, apperr.Unauthenticatedf("account is inactive"))
				return
			}

			ctx := context.WithValue(r.Context(), principalKey, principal)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetPrincipal extracts the authenticated user from context.
func GetPrincipal(ctx context.Context) (*models.User, bool) {
	principal, ok := ctx.Value(principalKey).(*models.User)
	return principal, ok
}

func writeError(w http.ResponseWriter, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(apperr.Status(err))
	json.NewEncoder(w).Encode(map[string]string{"message": apperr.ClientMessage(err)})
}
