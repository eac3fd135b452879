// Package auth implements credential verification for the API. Each way of
// proving an identity (email/password, Google ID token) is a strategy behind
// the same interface; handlers receive the strategies as explicit
// dependencies rather than a global registry.
package auth

import (
	"context"

	"billtrack/internal/domain"
)

// Credentials carries the proof material for one verification attempt. Only
// the fields a given strategy understands need to be set.
type Credentials struct {
	Email    string
	Password string
	IDToken  string
}

// Verifier resolves credentials to the account they belong to. A failed
// verification is reported as domain.ErrUnauthorized without distinguishing
// unknown accounts from wrong secrets.
type Verifier interface {
	Verify(ctx context.Context, creds Credentials) (*domain.User, error)
}
