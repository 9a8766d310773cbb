package models

import "time"

// Token is an issued bearer token. The token string itself is the primary
// key; it is opaque to clients and revoked by deleting the row.
type Token struct {
	Token     string    `json:"token"`
	UserID    string    `json:"user_id"`
	Scopes    string    `json:"scopes"`
	IssuedAt  time.Time `json:"issued_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// TokenStatus is the result of validating a bearer token at a point in time.
type TokenStatus struct {
	Valid     bool      `json:"valid"`
	Token     string    `json:"-"`
	ExpiresAt time.Time `json:"expires_at"`
	ExpiresIn int64     `json:"expires_in"` // seconds remaining
	User      Usuario   `json:"user"`
}
