// Package handlers implements the HTTP API surface. Handlers decode and
// validate requests, call into the domain packages, and render the standard
// response envelope.
package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"billtrack/internal/auth"
	"billtrack/internal/domain"
	"billtrack/internal/middleware"
)

// App carries the dependencies shared by all handlers.
type App struct {
	Users   domain.UserRepository
	Billers domain.BillerRepository

	Password *auth.PasswordVerifier
	Google   *auth.GoogleVerifier

	Logger zerolog.Logger

	JWTSecret   string
	JWTIssuer   string
	JWTAudience string
	TokenTTL    time.Duration

	// Now is the clock used for status and due-date calculations.
	// Defaults to time.Now; tests pin it.
	Now func() time.Time
}

func (a *App) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now()
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// ok wraps payload fields in the success envelope.
func (a *App) ok(w http.ResponseWriter, code int, fields map[string]any) {
	body := map[string]any{"success": true}
	for k, v := range fields {
		body[k] = v
	}
	a.json(w, code, body)
}

func (a *App) error(w http.ResponseWriter, code int, message string) {
	a.json(w, code, map[string]any{"success": false, "message": message})
}

func (a *App) currentUserID(r *http.Request) string {
	return middleware.UserIDFromContext(r.Context())
}

func (a *App) issueToken(userID string) (string, error) {
	return middleware.SignJWT(a.JWTSecret, middleware.TokenClaims{
		Sub:      userID,
		Exp:      a.now().Add(a.TokenTTL).Unix(),
		Issuer:   a.JWTIssuer,
		Audience: a.JWTAudience,
	})
}
