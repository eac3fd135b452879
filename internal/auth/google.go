package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"billtrack/internal/domain"
)

// IDTokenVerifier validates a federated ID token and returns its claims.
// The production implementation checks Google's JWKS signatures.
type IDTokenVerifier interface {
	VerifyIDToken(ctx context.Context, token string) (map[string]any, error)
}

// GoogleVerifier authenticates Google ID tokens and resolves or provisions
// the matching account.
type GoogleVerifier struct {
	Users  domain.UserRepository
	Tokens IDTokenVerifier
}

// NewGoogleVerifier constructs the strategy.
func NewGoogleVerifier(users domain.UserRepository, tokens IDTokenVerifier) *GoogleVerifier {
	return &GoogleVerifier{Users: users, Tokens: tokens}
}

// Verify checks the ID token, then resolves the account: first by Google
// subject, then by email (linking Google onto an existing local account),
// creating a fresh account when neither matches.
func (v *GoogleVerifier) Verify(ctx context.Context, creds Credentials) (*domain.User, error) {
	if creds.IDToken == "" {
		return nil, fmt.Errorf("%w: id token required", domain.ErrUnauthorized)
	}
	claims, err := v.Tokens.VerifyIDToken(ctx, creds.IDToken)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid google token", domain.ErrUnauthorized)
	}

	sub, _ := claims["sub"].(string)
	email, _ := claims["email"].(string)
	name, _ := claims["name"].(string)
	picture, _ := claims["picture"].(string)
	if sub == "" || email == "" {
		return nil, fmt.Errorf("%w: google token missing subject or email", domain.ErrUnauthorized)
	}
	email = NormalizeEmail(email)

	user, err := v.Users.GetByGoogleSub(ctx, sub)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	user, err = v.Users.GetByEmail(ctx, email)
	if err == nil {
		// Link Google to the existing account.
		user.GoogleSub = sub
		if user.Avatar == "" {
			user.Avatar = picture
		}
		if user.Provider == domain.AuthProviderLocal {
			user.Provider = domain.AuthProviderBoth
		}
		return v.Users.Update(ctx, user)
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	return v.Users.Create(ctx, &domain.User{
		ID:        uuid.NewString(),
		Name:      name,
		Email:     email,
		Avatar:    picture,
		GoogleSub: sub,
		Provider:  domain.AuthProviderGoogle,
	})
}
