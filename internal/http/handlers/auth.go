package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"billtrack/internal/auth"
	"billtrack/internal/domain"
)

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type googleLoginRequest struct {
	IDToken string `json:"idToken"`
}

type userDTO struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Avatar   string `json:"avatar,omitempty"`
	Provider string `json:"provider"`
}

func toUserDTO(u *domain.User) userDTO {
	return userDTO{
		ID:       u.ID,
		Name:     u.Name,
		Email:    u.Email,
		Avatar:   u.Avatar,
		Provider: string(u.Provider),
	}
}

// Register creates a local account and returns a signed session token.
func (a *App) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "invalid payload")
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	email := auth.NormalizeEmail(req.Email)
	switch {
	case req.Name == "":
		a.error(w, http.StatusBadRequest, "name is required")
		return
	case email == "" || !strings.Contains(email, "@"):
		a.error(w, http.StatusBadRequest, "a valid email is required")
		return
	case len(req.Password) < 6:
		a.error(w, http.StatusBadRequest, "password must be at least 6 characters")
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		a.internal(w, err, "hash password")
		return
	}
	user, err := a.Users.Create(r.Context(), &domain.User{
		ID:           uuid.NewString(),
		Name:         req.Name,
		Email:        email,
		PasswordHash: hash,
		Provider:     domain.AuthProviderLocal,
	})
	if err != nil {
		if errors.Is(err, domain.ErrEmailTaken) {
			a.error(w, http.StatusConflict, "an account with this email already exists")
			return
		}
		a.internal(w, err, "create user")
		return
	}
	a.respondWithToken(w, http.StatusCreated, user)
}

// Login authenticates email/password credentials.
func (a *App) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "invalid payload")
		return
	}
	user, err := a.Password.Verify(r.Context(), auth.Credentials{Email: req.Email, Password: req.Password})
	if err != nil {
		if errors.Is(err, domain.ErrUnauthorized) {
			a.error(w, http.StatusUnauthorized, unauthorizedMessage(err))
			return
		}
		a.internal(w, err, "verify password")
		return
	}
	a.respondWithToken(w, http.StatusOK, user)
}

// GoogleLogin exchanges a Google ID token for a session token, provisioning
// or linking the account as needed.
func (a *App) GoogleLogin(w http.ResponseWriter, r *http.Request) {
	var req googleLoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "invalid payload")
		return
	}
	user, err := a.Google.Verify(r.Context(), auth.Credentials{IDToken: req.IDToken})
	if err != nil {
		if errors.Is(err, domain.ErrUnauthorized) {
			a.error(w, http.StatusUnauthorized, unauthorizedMessage(err))
			return
		}
		a.internal(w, err, "verify google token")
		return
	}
	a.respondWithToken(w, http.StatusOK, user)
}

// Me returns the authenticated user's profile.
func (a *App) Me(w http.ResponseWriter, r *http.Request) {
	user, err := a.Users.GetByID(r.Context(), a.currentUserID(r))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			a.error(w, http.StatusUnauthorized, "account no longer exists")
			return
		}
		a.internal(w, err, "load user")
		return
	}
	a.ok(w, http.StatusOK, map[string]any{"user": toUserDTO(user)})
}

type updateMeRequest struct {
	Name   *string `json:"name"`
	Avatar *string `json:"avatar"`
}

// UpdateMe changes the authenticated user's profile fields.
func (a *App) UpdateMe(w http.ResponseWriter, r *http.Request) {
	var req updateMeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "invalid payload")
		return
	}
	user, err := a.Users.GetByID(r.Context(), a.currentUserID(r))
	if err != nil {
		a.internal(w, err, "load user")
		return
	}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			a.error(w, http.StatusBadRequest, "name cannot be empty")
			return
		}
		user.Name = name
	}
	if req.Avatar != nil {
		user.Avatar = *req.Avatar
	}
	user, err = a.Users.Update(r.Context(), user)
	if err != nil {
		a.internal(w, err, "update user")
		return
	}
	a.ok(w, http.StatusOK, map[string]any{"user": toUserDTO(user)})
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// ChangePassword sets a new password. Accounts that already have one must
// present it; Google-only accounts may set their first password, which
// upgrades the provider to "both".
func (a *App) ChangePassword(w http.ResponseWriter, r *http.Request) {
	var req changePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if len(req.NewPassword) < 6 {
		a.error(w, http.StatusBadRequest, "password must be at least 6 characters")
		return
	}
	user, err := a.Users.GetByID(r.Context(), a.currentUserID(r))
	if err != nil {
		a.internal(w, err, "load user")
		return
	}
	if user.HasPassword() {
		if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.CurrentPassword)) != nil {
			a.error(w, http.StatusUnauthorized, "current password is incorrect")
			return
		}
	}
	hash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		a.internal(w, err, "hash password")
		return
	}
	user.PasswordHash = hash
	if user.Provider == domain.AuthProviderGoogle {
		user.Provider = domain.AuthProviderBoth
	}
	if _, err := a.Users.Update(r.Context(), user); err != nil {
		a.internal(w, err, "update user")
		return
	}
	a.ok(w, http.StatusOK, map[string]any{"message": "password updated"})
}

func (a *App) respondWithToken(w http.ResponseWriter, code int, user *domain.User) {
	token, err := a.issueToken(user.ID)
	if err != nil {
		a.internal(w, err, "sign token")
		return
	}
	a.ok(w, code, map[string]any{"token": token, "user": toUserDTO(user)})
}

func (a *App) internal(w http.ResponseWriter, err error, op string) {
	a.Logger.Error().Err(err).Str("op", op).Msg("request failed")
	a.error(w, http.StatusInternalServerError, "something went wrong")
}

// unauthorizedMessage strips the sentinel prefix so clients see only the
// human-readable part.
func unauthorizedMessage(err error) string {
	msg := err.Error()
	if i := strings.Index(msg, ": "); i >= 0 {
		return msg[i+2:]
	}
	return msg
}
