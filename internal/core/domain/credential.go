package domain

import "time"

// AccessCredential is a signed, time-bounded token asserting a user identity.
// It is never persisted.
type AccessCredential struct {
	Token     string    `json:"token"`
	ID        string    `json:"-"`
	UserID    string    `json:"-"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// CredentialClaims is what a verified credential yields.
type CredentialClaims struct {
	ID        string
	UserID    string
	ExpiresAt time.Time
}
