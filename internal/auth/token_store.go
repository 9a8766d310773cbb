package auth

import (
	"crypto/rand"
	"database/sql"
	"encoding/base64"
	"time"

	"github.com/aromeroh/usuarios-api/internal/errs"
	"github.com/aromeroh/usuarios-api/internal/models"
)

// ScopeServerUpdate is the single ability granted to session tokens.
const ScopeServerUpdate = "server:update"

// tokenBytes is the entropy of a token string before encoding. 32 bytes
// keeps collision and guessing probability negligible.
const tokenBytes = 32

// TokenStoreProvider defines the interface for token persistence.
type TokenStoreProvider interface {
	Issue(userID, scopes string, ttl time.Duration) (models.Token, error)
	Lookup(token string) (models.Token, error)
	Revoke(token string) error
	DeleteExpired(now time.Time) (int64, error)
}

// TokenStore persists issued bearer tokens.
type TokenStore struct {
	db  *sql.DB
	now func() time.Time
}

// NewTokenStore creates a new TokenStore.
func NewTokenStore(db *sql.DB) *TokenStore {
	return &TokenStore{db: db, now: time.Now}
}

// Issue mints a new unguessable token for userID, valid for ttl from now,
// and persists it. A negative ttl produces an already-expired token.
func (s *TokenStore) Issue(userID, scopes string, ttl time.Duration) (models.Token, error) {
	raw := make([]byte, tokenBytes)
	if _, err := rand.Read(raw); err != nil {
		return models.Token{}, errs.Internal(err)
	}

	now := s.now().UTC()
	t := models.Token{
		Token:     base64.RawURLEncoding.EncodeToString(raw),
		UserID:    userID,
		Scopes:    scopes,
		IssuedAt:  now,
		ExpiresAt: now.Add(ttl),
	}

	_, err := s.db.Exec(
		"INSERT INTO tokens (token, user_id, scopes, issued_at, expires_at) VALUES (?, ?, ?, ?, ?)",
		t.Token, t.UserID, t.Scopes, t.IssuedAt, t.ExpiresAt,
	)
	if err != nil {
		return models.Token{}, errs.Internal(err)
	}
	return t, nil
}

// Lookup returns the stored record for a token string. Expiry is not
// evaluated here; that is the caller's policy.
func (s *TokenStore) Lookup(token string) (models.Token, error) {
	var t models.Token
	row := s.db.QueryRow(
		"SELECT token, user_id, scopes, issued_at, expires_at FROM tokens WHERE token = ?", token)
	err := row.Scan(&t.Token, &t.UserID, &t.Scopes, &t.IssuedAt, &t.ExpiresAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.Token{}, errs.NotFound("token not found")
		}
		return models.Token{}, errs.Internal(err)
	}
	return t, nil
}

// Revoke deletes a token record. Reports ErrNotFound when no row was
// deleted; callers decide whether that matters.
func (s *TokenStore) Revoke(token string) error {
	res, err := s.db.Exec("DELETE FROM tokens WHERE token = ?", token)
	if err != nil {
		return errs.Internal(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return errs.Internal(err)
	}
	if n == 0 {
		return errs.NotFound("token not found")
	}
	return nil
}

// DeleteExpired removes every token whose expiry is at or before now.
// Used by the optional background sweep; lazy expiry does not depend on it.
func (s *TokenStore) DeleteExpired(now time.Time) (int64, error) {
	res, err := s.db.Exec("DELETE FROM tokens WHERE expires_at <= ?", now.UTC())
	if err != nil {
		return 0, errs.Internal(err)
	}
	return res.RowsAffected()
}
