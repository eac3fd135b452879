package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"billtrack/internal/auth"
	"billtrack/internal/billing"
	"billtrack/internal/domain"
	"billtrack/internal/middleware"
)

// memUsers is an in-memory UserRepository for handler tests.
type memUsers struct {
	mu    sync.Mutex
	users map[string]*domain.User
}

func newMemUsers() *memUsers {
	return &memUsers{users: make(map[string]*domain.User)}
}

func (m *memUsers) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == user.Email {
			return nil, fmt.Errorf("%w: %s", domain.ErrEmailTaken, user.Email)
		}
	}
	cp := *user
	cp.CreatedAt = time.Now()
	cp.UpdatedAt = cp.CreatedAt
	m.users[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (m *memUsers) GetByID(ctx context.Context, id string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.users[id]; ok {
		out := *u
		return &out, nil
	}
	return nil, domain.ErrNotFound
}

func (m *memUsers) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			out := *u
			return &out, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *memUsers) GetByGoogleSub(ctx context.Context, sub string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.GoogleSub != "" && u.GoogleSub == sub {
			out := *u
			return &out, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *memUsers) Update(ctx context.Context, user *domain.User) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[user.ID]; !ok {
		return nil, domain.ErrNotFound
	}
	cp := *user
	cp.UpdatedAt = time.Now()
	m.users[cp.ID] = &cp
	out := cp
	return &out, nil
}

// memBillers is an in-memory BillerRepository. Its conditional ledger
// methods reuse the pure billing package so the semantics match the
// Postgres implementation.
type memBillers struct {
	mu      sync.Mutex
	billers map[string]*domain.Biller
}

func newMemBillers() *memBillers {
	return &memBillers{billers: make(map[string]*domain.Biller)}
}

func (m *memBillers) Create(ctx context.Context, biller *domain.Biller) (*domain.Biller, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := cloneBiller(biller)
	cp.CreatedAt = time.Now()
	cp.UpdatedAt = cp.CreatedAt
	m.billers[cp.ID] = cp
	return cloneBiller(cp), nil
}

func (m *memBillers) GetByID(ctx context.Context, userID, id string) (*domain.Biller, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.locked(userID, id)
}

func (m *memBillers) locked(userID, id string) (*domain.Biller, error) {
	b, ok := m.billers[id]
	if !ok || b.UserID != userID {
		return nil, domain.ErrNotFound
	}
	return b, nil
}

func (m *memBillers) List(ctx context.Context, userID string, filter domain.BillerFilter) ([]domain.Biller, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Biller
	for _, b := range m.billers {
		if b.UserID != userID {
			continue
		}
		if filter.Type != nil && b.Type != *filter.Type {
			continue
		}
		if filter.Category != nil && b.Category != *filter.Category {
			continue
		}
		if filter.IsActive != nil && b.IsActive != *filter.IsActive {
			continue
		}
		out = append(out, *cloneBiller(b))
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].DueDay != out[j].DueDay {
			return out[i].DueDay < out[j].DueDay
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (m *memBillers) Update(ctx context.Context, biller *domain.Biller) (*domain.Biller, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, err := m.locked(biller.UserID, biller.ID)
	if err != nil {
		return nil, err
	}
	cp := cloneBiller(biller)
	cp.PaidMonths = existing.PaidMonths
	cp.CreatedAt = existing.CreatedAt
	cp.UpdatedAt = time.Now()
	m.billers[cp.ID] = cp
	return cloneBiller(cp), nil
}

func (m *memBillers) Delete(ctx context.Context, userID, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, err := m.locked(userID, id); err != nil {
		return err
	}
	delete(m.billers, id)
	return nil
}

func (m *memBillers) AddPaidMonth(ctx context.Context, userID, id string, paid domain.PaidMonth) (*domain.Biller, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, err := m.locked(userID, id)
	if err != nil {
		return nil, err
	}
	if err := billing.MarkPaid(b, paid.Month, paid.Year, paid.PaidAt); err != nil {
		return nil, err
	}
	return cloneBiller(b), nil
}

func (m *memBillers) RemovePaidMonth(ctx context.Context, userID, id string, month, year int) (*domain.Biller, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, err := m.locked(userID, id)
	if err != nil {
		return nil, err
	}
	if err := billing.MarkUnpaid(b, month, year); err != nil {
		return nil, err
	}
	return cloneBiller(b), nil
}

func cloneBiller(b *domain.Biller) *domain.Biller {
	cp := *b
	cp.PaidMonths = append([]domain.PaidMonth(nil), b.PaidMonths...)
	if b.CutOffDay != nil {
		v := *b.CutOffDay
		cp.CutOffDay = &v
	}
	if b.CreditLimit != nil {
		v := *b.CreditLimit
		cp.CreditLimit = &v
	}
	return &cp
}

type testEnv struct {
	app     *App
	users   *memUsers
	billers *memBillers
}

// refNow is the pinned clock for handler tests: June 10, 2026.
var refNow = time.Date(2026, time.June, 10, 12, 0, 0, 0, time.UTC)

func newTestApp(t *testing.T) *testEnv {
	t.Helper()
	users := newMemUsers()
	billers := newMemBillers()
	app := &App{
		Users:       users,
		Billers:     billers,
		Password:    auth.NewPasswordVerifier(users),
		Logger:      zerolog.Nop(),
		JWTSecret:   "test-secret",
		JWTIssuer:   "billtrack",
		JWTAudience: "billtrack-clients",
		TokenTTL:    time.Hour,
		Now:         func() time.Time { return refNow },
	}
	return &testEnv{app: app, users: users, billers: billers}
}

// doJSON performs a request against a single handler, optionally as an
// authenticated user, and decodes the response body.
func doJSON(t *testing.T, handler http.HandlerFunc, method, target, userID string, body any, params map[string]string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, target, &buf)
	ctx := req.Context()
	if userID != "" {
		ctx = middleware.ContextWithUserID(ctx, userID)
	}
	if len(params) > 0 {
		rctx := chi.NewRouteContext()
		for k, v := range params {
			rctx.URLParams.Add(k, v)
		}
		ctx = context.WithValue(ctx, chi.RouteCtxKey, rctx)
	}
	req = req.WithContext(ctx)

	rec := httptest.NewRecorder()
	handler(rec, req)

	var decoded map[string]any
	if rec.Body.Len() > 0 {
		if err := json.Unmarshal(rec.Body.Bytes(), &decoded); err != nil {
			t.Fatalf("decode response %q: %v", rec.Body.String(), err)
		}
	}
	return rec, decoded
}

func seedUser(t *testing.T, env *testEnv, name, email, password string) *domain.User {
	t.Helper()
	hash, err := auth.HashPassword(password)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	user, err := env.users.Create(context.Background(), &domain.User{
		ID:           "user-" + email,
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Provider:     domain.AuthProviderLocal,
	})
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return user
}

func seedBiller(t *testing.T, env *testEnv, b domain.Biller) *domain.Biller {
	t.Helper()
	if b.ID == "" {
		b.ID = "biller-" + b.Name
	}
	if b.Category == "" {
		b.Category = domain.CategoryOther
	}
	created, err := env.billers.Create(context.Background(), &b)
	if err != nil {
		t.Fatalf("seed biller: %v", err)
	}
	return created
}
