package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/aromeroh/usuarios-api/internal/errs"
)

// envelope is the response body shape for every endpoint. Status mirrors
// the HTTP status line because clients read either.
type envelope struct {
	Data    any    `json:"data,omitempty"`
	Message string `json:"message"`
	Status  int    `json:"status"`
	Error   string `json:"error,omitempty"`
}

func respond(w http.ResponseWriter, status int, message string, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(envelope{Data: data, Message: message, Status: status})
}

// respondError maps a service error to an HTTP status. Internal causes are
// logged and never emitted; all other kinds carry messages written to be
// safe for clients.
func respondError(w http.ResponseWriter, message string, err error) {
	status := http.StatusInternalServerError
	detail := "internal server error"

	switch {
	case errors.Is(err, errs.ErrValidation):
		status = http.StatusUnprocessableEntity
		detail = err.Error()
	case errors.Is(err, errs.ErrConflict):
		status = http.StatusConflict
		detail = err.Error()
	case errors.Is(err, errs.ErrNotFound):
		status = http.StatusNotFound
		detail = err.Error()
	case errors.Is(err, errs.ErrUnauthorized):
		status = http.StatusUnauthorized
		detail = err.Error()
	default:
		log.Error().Err(err).Msg(message)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(envelope{Message: message, Status: status, Error: detail})
}

// RespondUnauthorized is used by the auth middleware, which lives outside
// this package but must speak the same envelope.
func RespondUnauthorized(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(envelope{Message: "Unauthenticated", Status: http.StatusUnauthorized, Error: msg})
}
