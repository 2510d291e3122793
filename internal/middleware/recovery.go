package middleware

import (
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/dentara/practice-api/internal/apperr"
)

// Recovery middleware recovers from panics
func Recovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				log.Error().
					Interface("error", err).
					Str("path", r.URL.Path).
					Msg("Panic recovered")

				writeError(w, apperr.Internalf(nil, "internal server error"))
			}
		}()

		next.ServeHTTP(w, r)
	})
}
