package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/dentara/practice-api/internal/apperr"
)

var validate = validator.New()

// writeJSON serializes v with the given status.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		if err := json.NewEncoder(w).Encode(v); err != nil {
			log.Error().Err(err).Msg("response encoding failed")
		}
	}
}

// writeErr maps a service error onto the HTTP taxonomy. Internal detail is
// logged, never serialized.
func writeErr(w http.ResponseWriter, err error) {
	status := apperr.Status(err)
	if status >= http.StatusInternalServerError {
		log.Error().Err(err).Msg("request failed")
	}
	writeJSON(w, status, map[string]string{"error": apperr.ClientMessage(err)})
}

// decode unmarshals and validates a request body into dst. dst must be a
// pointer to a struct carrying validate tags.
func decode(r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return apperr.BadRequestf("invalid request body")
	}
	if err := validate.Struct(dst); err != nil {
		if invalid, ok := err.(*validator.InvalidValidationError); ok {
			return apperr.Internalf(invalid, "internal server error")
		}
		fields := err.(validator.ValidationErrors)
		if len(fields) > 0 {
			return apperr.BadRequestf("validation failed on field %q (%s)", fields[0].Field(), fields[0].Tag())
		}
		return apperr.BadRequestf("validation failed")
	}
	return nil
}

// pathID parses the named chi URL parameter as a uuid.
func pathID(r *http.Request, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		return uuid.Nil, apperr.BadRequestf("invalid %s", name)
	}
	return id, nil
}

// queryUUID parses an optional uuid query parameter, returning nil when the
// parameter is absent.
func queryUUID(r *http.Request, name string) (*uuid.UUID, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, apperr.BadRequestf("invalid %s", name)
	}
	return &id, nil
}
