package services

import (
	"errors"
	"time"

	"github.com/aromeroh/usuarios-api/internal/auth"
	"github.com/aromeroh/usuarios-api/internal/errs"
	"github.com/aromeroh/usuarios-api/internal/models"
)

// invalidCredentials is the single message for every login failure. Unknown
// email and wrong password must be indistinguishable to the caller.
const invalidCredentials = "invalid credentials"

// LoginResult is what a successful login returns to the client.
type LoginResult struct {
	User  models.Usuario `json:"user"`
	Token models.Token   `json:"-"`
}

// SessionServiceProvider defines the interface for session services.
type SessionServiceProvider interface {
	Login(email, password string) (LoginResult, error)
	Logout(token string) error
	Refresh(token string) (models.Token, error)
	Check(token string) (models.TokenStatus, error)
}

// SessionService orchestrates the token lifecycle: issue on login, rotate
// on refresh, delete on logout, validate lazily on check.
type SessionService struct {
	users  UserServiceProvider
	tokens auth.TokenStoreProvider
	ttl    time.Duration
	now    func() time.Time
}

// NewSessionService creates a new SessionService. ttl applies to every
// issued token.
func NewSessionService(users UserServiceProvider, tokens auth.TokenStoreProvider, ttl time.Duration) *SessionService {
	return &SessionService{users: users, tokens: tokens, ttl: ttl, now: time.Now}
}

// Login verifies credentials and issues a fresh token. Every failure path
// returns the same unauthorized error.
func (s *SessionService) Login(email, password string) (LoginResult, error) {
	u, err := s.users.GetByEmail(email)
	if err != nil || !auth.CheckPassword(password, u.PasswordHash) {
		return LoginResult{}, errs.Unauthorized(invalidCredentials)
	}

	t, err := s.tokens.Issue(u.ID, auth.ScopeServerUpdate, s.ttl)
	if err != nil {
		return LoginResult{}, err
	}

	u.PasswordHash = ""
	return LoginResult{User: u, Token: t}, nil
}

// Logout revokes the presented token only, not every token of the user.
// Revoking an already-absent token is treated as already logged out.
func (s *SessionService) Logout(token string) error {
	err := s.tokens.Revoke(token)
	if errors.Is(err, errs.ErrNotFound) {
		return nil
	}
	return err
}

// Refresh rotates a valid token: the old one is revoked and a new one is
// issued for the same user with a fresh TTL from now.
func (s *SessionService) Refresh(token string) (models.Token, error) {
	old, err := s.tokens.Lookup(token)
	if err != nil {
		return models.Token{}, errs.Unauthorized("invalid token")
	}
	if !old.ExpiresAt.After(s.now()) {
		return models.Token{}, errs.Unauthorized("token expired")
	}

	if err := s.tokens.Revoke(old.Token); err != nil && !errors.Is(err, errs.ErrNotFound) {
		return models.Token{}, err
	}

	return s.tokens.Issue(old.UserID, old.Scopes, s.ttl)
}

// Check validates a token at the current instant. An expired record that
// still exists in storage is invalid; expiry is evaluated here, not only
// when rows are deleted.
func (s *SessionService) Check(token string) (models.TokenStatus, error) {
	t, err := s.tokens.Lookup(token)
	if err != nil {
		return models.TokenStatus{}, errs.Unauthorized("invalid token")
	}

	remaining := t.ExpiresAt.Sub(s.now())
	if remaining <= 0 {
		return models.TokenStatus{}, errs.Unauthorized("token expired")
	}

	u, err := s.users.GetByID(t.UserID)
	if err != nil {
		return models.TokenStatus{}, errs.Unauthorized("invalid token")
	}

	return models.TokenStatus{
		Valid:     true,
		Token:     t.Token,
		ExpiresAt: t.ExpiresAt,
		ExpiresIn: int64(remaining.Seconds()),
		User:      u,
	}, nil
}
