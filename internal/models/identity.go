package models

import "time"

// Identity mirrors the identity provider's account record. It doubles as the
// session snapshot persisted after sign-in, so it never carries credentials.
type Identity struct {
	Uid           string    `json:"uid"`
	Email         string    `json:"email"`
	DisplayName   string    `json:"displayName"`
	PhotoURL      string    `json:"photoURL"`
	EmailVerified bool      `json:"emailVerified"`
	Provider      string    `json:"provider"`
	IsNewUser     bool      `json:"isNewUser"`
	CreatedAt     time.Time `json:"createdAt"`
	LastLoginAt   time.Time `json:"lastLoginAt"`
}
