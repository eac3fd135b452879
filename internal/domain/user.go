package domain

import "time"

// AuthProvider enumerates how an account authenticates.
type AuthProvider string

const (
	AuthProviderLocal  AuthProvider = "local"
	AuthProviderGoogle AuthProvider = "google"
	AuthProviderBoth   AuthProvider = "both"
)

// User represents an authenticated account. PasswordHash is empty for
// accounts created through Google sign-in that never set a password.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Avatar       string
	GoogleSub    string
	Provider     AuthProvider
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// HasPassword reports whether the account can log in with email/password.
func (u User) HasPassword() bool {
	return u.PasswordHash != ""
}
