package domain

import "time"

// User models an identity reconciled from Google (web OAuth or Android sign-in).
// Email is unique; GoogleID is unique when present.
type User struct {
	ID        string    `json:"id"`
	GoogleID  string    `json:"googleId,omitempty"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Avatar    string    `json:"avatar,omitempty"`
	FCMToken  string    `json:"-"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// HasPushAddress reports whether the user registered a device for push delivery.
func (u *User) HasPushAddress() bool {
	return u != nil && u.FCMToken != ""
}

// OAuthProfile is the subset of a Google OAuth profile the resolver consumes.
type OAuthProfile struct {
	ProviderID string
	Email      string
	Name       string
	Avatar     string
}

// VerifiedIdentity is the payload of an ID token that has already been
// verified against Google's signing keys.
type VerifiedIdentity struct {
	Subject string
	Email   string
	Name    string
	Picture string
}
