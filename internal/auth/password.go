package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"billtrack/internal/domain"
)

// PasswordVerifier authenticates email/password credentials against stored
// bcrypt hashes.
type PasswordVerifier struct {
	Users domain.UserRepository
}

// NewPasswordVerifier constructs the strategy.
func NewPasswordVerifier(users domain.UserRepository) *PasswordVerifier {
	return &PasswordVerifier{Users: users}
}

// Verify looks the account up by email and compares the password. Unknown
// email, password-less account, and wrong password all collapse into
// domain.ErrUnauthorized.
func (v *PasswordVerifier) Verify(ctx context.Context, creds Credentials) (*domain.User, error) {
	email := NormalizeEmail(creds.Email)
	if email == "" || creds.Password == "" {
		return nil, fmt.Errorf("%w: invalid email or password", domain.ErrUnauthorized)
	}

	user, err := v.Users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("%w: invalid email or password", domain.ErrUnauthorized)
		}
		return nil, err
	}
	if !user.HasPassword() {
		// Google-only account; a password was never set.
		return nil, fmt.Errorf("%w: please login with Google or set a password", domain.ErrUnauthorized)
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(creds.Password)) != nil {
		return nil, fmt.Errorf("%w: invalid email or password", domain.ErrUnauthorized)
	}
	return user, nil
}

// HashPassword hashes a plaintext password for storage.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// NormalizeEmail lowercases and trims an email address so lookups and
// uniqueness checks agree.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
