package httpapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"billtrack/internal/auth"
	"billtrack/internal/billing"
	"billtrack/internal/domain"
	"billtrack/internal/http/handlers"
	"billtrack/internal/middleware"
)

type stubBillers struct {
	mu      sync.Mutex
	billers map[string]*domain.Biller
}

func (s *stubBillers) Create(ctx context.Context, b *domain.Biller) (*domain.Biller, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *b
	s.billers[b.ID] = &cp
	return b, nil
}

func (s *stubBillers) GetByID(ctx context.Context, userID, id string) (*domain.Biller, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if b, ok := s.billers[id]; ok && b.UserID == userID {
		cp := *b
		return &cp, nil
	}
	return nil, domain.ErrNotFound
}

func (s *stubBillers) List(ctx context.Context, userID string, f domain.BillerFilter) ([]domain.Biller, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.Biller
	for _, b := range s.billers {
		if b.UserID == userID {
			out = append(out, *b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DueDay < out[j].DueDay })
	return out, nil
}

func (s *stubBillers) Update(ctx context.Context, b *domain.Biller) (*domain.Biller, error) {
	return s.Create(ctx, b)
}

func (s *stubBillers) Delete(ctx context.Context, userID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if b, ok := s.billers[id]; ok && b.UserID == userID {
		delete(s.billers, id)
		return nil
	}
	return domain.ErrNotFound
}

func (s *stubBillers) AddPaidMonth(ctx context.Context, userID, id string, paid domain.PaidMonth) (*domain.Biller, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.billers[id]
	if !ok || b.UserID != userID {
		return nil, domain.ErrNotFound
	}
	if err := billing.MarkPaid(b, paid.Month, paid.Year, paid.PaidAt); err != nil {
		return nil, err
	}
	cp := *b
	return &cp, nil
}

func (s *stubBillers) RemovePaidMonth(ctx context.Context, userID, id string, month, year int) (*domain.Biller, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.billers[id]
	if !ok || b.UserID != userID {
		return nil, domain.ErrNotFound
	}
	if err := billing.MarkUnpaid(b, month, year); err != nil {
		return nil, err
	}
	cp := *b
	return &cp, nil
}

type stubUsers struct {
	mu    sync.Mutex
	users map[string]*domain.User
}

func (s *stubUsers) Create(ctx context.Context, u *domain.User) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *u
	s.users[u.ID] = &cp
	return u, nil
}

func (s *stubUsers) GetByID(ctx context.Context, id string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u, ok := s.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, domain.ErrNotFound
}

func (s *stubUsers) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (s *stubUsers) GetByGoogleSub(ctx context.Context, sub string) (*domain.User, error) {
	return nil, domain.ErrNotFound
}

func (s *stubUsers) Update(ctx context.Context, u *domain.User) (*domain.User, error) {
	return s.Create(ctx, u)
}

func newTestRouter(t *testing.T) (http.Handler, *handlers.App) {
	t.Helper()
	users := &stubUsers{users: make(map[string]*domain.User)}
	app := &handlers.App{
		Users:       users,
		Billers:     &stubBillers{billers: make(map[string]*domain.Biller)},
		Password:    auth.NewPasswordVerifier(users),
		Logger:      zerolog.Nop(),
		JWTSecret:   "router-secret",
		JWTIssuer:   "billtrack",
		JWTAudience: "billtrack-clients",
		TokenTTL:    time.Hour,
	}
	router := NewRouter(app, Options{
		JWTSecret:      "router-secret",
		AllowedOrigins: []string{"http://localhost:5173"},
		Logger:         zerolog.Nop(),
	})
	return router, app
}

func TestRouterHealthIsPublic(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("healthz status = %d, want 200", rec.Code)
	}
}

func TestRouterGuardsProtectedRoutes(t *testing.T) {
	router, _ := newTestRouter(t)

	paths := []string{
		"/api/auth/me",
		"/api/billers",
		"/api/dashboard/summary",
	}
	for _, path := range paths {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("GET %s status = %d, want 401 without token", path, rec.Code)
		}
	}
}

func TestRouterAcceptsBearerToken(t *testing.T) {
	router, app := newTestRouter(t)

	if _, err := app.Users.Create(context.Background(), &domain.User{
		ID: "u1", Name: "Ana", Email: "ana@example.com", Provider: domain.AuthProviderLocal,
	}); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	token, err := middleware.SignJWT("router-secret", middleware.TokenClaims{
		Sub: "u1", Exp: time.Now().Add(time.Hour).Unix(), Issuer: "billtrack", Audience: "billtrack-clients",
	})
	if err != nil {
		t.Fatalf("SignJWT: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/billers", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("authorized list status = %d, body = %s", rec.Code, rec.Body.String())
	}
}

func TestRouterCORSPreflight(t *testing.T) {
	router, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/auth/login", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("preflight status = %d, want 204", rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:5173" {
		t.Fatalf("allow-origin = %q", got)
	}
}
