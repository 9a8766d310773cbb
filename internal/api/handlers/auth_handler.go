package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/aromeroh/usuarios-api/internal/auth"
	"github.com/aromeroh/usuarios-api/internal/errs"
	"github.com/aromeroh/usuarios-api/internal/services"
)

// AuthHandler handles registration and the session lifecycle.
type AuthHandler struct {
	users    services.UserServiceProvider
	sessions services.SessionServiceProvider
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(users services.UserServiceProvider, sessions services.SessionServiceProvider) *AuthHandler {
	return &AuthHandler{users: users, sessions: sessions}
}

// LoginPayload defines the structure for login requests.
type LoginPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register handles new user registration. Unlike the plain CRUD create, a
// password is required here: the account is meant to log in.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var payload services.CreateUserInput
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondError(w, "Invalid request body", errs.Validation("malformed JSON body"))
		return
	}
	if payload.Password == "" {
		respondError(w, "Error registering usuario", errs.Validation("password: cannot be blank"))
		return
	}

	u, err := h.users.Create(payload)
	if err != nil {
		log.Warn().Err(err).Str("email", payload.Email).Msg("Failed to register usuario")
		respondError(w, "Error registering usuario", err)
		return
	}

	respond(w, http.StatusCreated, "Usuario registered successfully", u)
}

// Login handles credential authentication and token issuance.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var payload LoginPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondError(w, "Invalid request body", errs.Validation("malformed JSON body"))
		return
	}

	result, err := h.sessions.Login(payload.Email, payload.Password)
	if err != nil {
		log.Warn().Str("email", payload.Email).Msg("Failed authentication attempt")
		respondError(w, "Error during login", err)
		return
	}

	respond(w, http.StatusOK, "Login successful", map[string]any{
		"user":       result.User,
		"token":      result.Token.Token,
		"expires_at": result.Token.ExpiresAt,
		"expires_in": int64(result.Token.ExpiresAt.Sub(result.Token.IssuedAt).Seconds()),
	})
}

// Logout revokes the presented token. Revoking a token that is already
// gone still succeeds; the session is equally terminated either way.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	session, ok := auth.SessionFromContext(r.Context())
	if !ok {
		RespondUnauthorized(w, "missing auth token")
		return
	}

	if err := h.sessions.Logout(session.Token); err != nil {
		log.Error().Err(err).Str("user_id", session.User.ID).Msg("Failed to log out")
		respondError(w, "Error during logout", err)
		return
	}

	respond(w, http.StatusOK, "Usuario log out successful", nil)
}

// Refresh rotates the presented token: revokes it and issues a new one
// with a fresh TTL.
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	session, ok := auth.SessionFromContext(r.Context())
	if !ok {
		RespondUnauthorized(w, "missing auth token")
		return
	}

	t, err := h.sessions.Refresh(session.Token)
	if err != nil {
		log.Warn().Err(err).Str("user_id", session.User.ID).Msg("Failed to refresh token")
		respondError(w, "Error refreshing token", err)
		return
	}

	respond(w, http.StatusOK, "Token refreshed successfully", map[string]any{
		"token":      t.Token,
		"expires_at": t.ExpiresAt,
		"expires_in": int64(t.ExpiresAt.Sub(t.IssuedAt).Seconds()),
	})
}

// Check reports the validity and remaining lifetime of the presented
// token. The middleware already validated it; reaching here means valid.
func (h *AuthHandler) Check(w http.ResponseWriter, r *http.Request) {
	session, ok := auth.SessionFromContext(r.Context())
	if !ok {
		RespondUnauthorized(w, "missing auth token")
		return
	}

	respond(w, http.StatusOK, "Token is valid", session)
}

// Me returns the authenticated user.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	session, ok := auth.SessionFromContext(r.Context())
	if !ok {
		RespondUnauthorized(w, "missing auth token")
		return
	}

	respond(w, http.StatusOK, "Usuario retrieved successfully", session.User)
}
