package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/aromeroh/usuarios-api/internal/errs"
	"github.com/aromeroh/usuarios-api/internal/services"
)

// UserHandler handles HTTP requests for user management.
type UserHandler struct {
	service services.UserServiceProvider
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(service services.UserServiceProvider) *UserHandler {
	return &UserHandler{service: service}
}

// List handles retrieving all users.
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	usuarios, err := h.service.List()
	if err != nil {
		log.Error().Err(err).Msg("Failed to list usuarios")
		respondError(w, "Error retrieving usuarios", err)
		return
	}
	respond(w, http.StatusOK, "Usuarios retrieved successfully", usuarios)
}

// Create handles creating a user through the CRUD surface. The password is
// optional here; an account without one simply cannot log in.
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var payload services.CreateUserInput
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondError(w, "Invalid request body", errs.Validation("malformed JSON body"))
		return
	}

	u, err := h.service.Create(payload)
	if err != nil {
		log.Warn().Err(err).Str("email", payload.Email).Msg("Failed to create usuario")
		respondError(w, "Error creating usuario", err)
		return
	}
	respond(w, http.StatusCreated, "Usuario created successfully", u)
}

// Get handles retrieving a user by their ID.
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	u, err := h.service.GetByID(id)
	if err != nil {
		log.Warn().Err(err).Str("user_id", id).Msg("Failed to get usuario")
		respondError(w, "Usuario not found", err)
		return
	}
	respond(w, http.StatusOK, "Usuario retrieved successfully", u)
}

// Update handles a partial update; only the fields present in the body are
// written.
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var payload services.UpdateUserInput
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondError(w, "Invalid request body", errs.Validation("malformed JSON body"))
		return
	}

	u, err := h.service.Update(id, payload)
	if err != nil {
		log.Warn().Err(err).Str("user_id", id).Msg("Failed to update usuario")
		respondError(w, "Error updating usuario", err)
		return
	}
	respond(w, http.StatusOK, "Usuario updated successfully", u)
}

// Delete handles the permanent deletion of a user account.
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.service.Delete(id); err != nil {
		log.Warn().Err(err).Str("user_id", id).Msg("Failed to delete usuario")
		respondError(w, "Error deleting usuario", err)
		return
	}
	respond(w, http.StatusOK, "Usuario deleted successfully", nil)
}
