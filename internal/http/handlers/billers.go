package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"billtrack/internal/billing"
	"billtrack/internal/domain"
)

// billerDTO is the wire shape of a biller, enriched with the derived
// status and days-until-due for the reference instant.
type billerDTO struct {
	ID           string             `json:"id"`
	Name         string             `json:"name"`
	Type         string             `json:"type"`
	Amount       int64              `json:"amount"`
	DueDay       int                `json:"dueDay"`
	CutOffDay    *int               `json:"cutOffDay,omitempty"`
	CreditLimit  *int64             `json:"creditLimit,omitempty"`
	Category     string             `json:"category"`
	IsActive     bool               `json:"isActive"`
	Notes        string             `json:"notes,omitempty"`
	PaidMonths   []domain.PaidMonth `json:"paidMonths"`
	Status       string             `json:"status"`
	DaysUntilDue int                `json:"daysUntilDue"`
	CreatedAt    time.Time          `json:"createdAt"`
	UpdatedAt    time.Time          `json:"updatedAt"`
}

func toBillerDTO(b *domain.Biller, now time.Time) billerDTO {
	paid := b.PaidMonths
	if paid == nil {
		paid = []domain.PaidMonth{}
	}
	return billerDTO{
		ID:           b.ID,
		Name:         b.Name,
		Type:         string(b.Type),
		Amount:       b.Amount,
		DueDay:       b.DueDay,
		CutOffDay:    b.CutOffDay,
		CreditLimit:  b.CreditLimit,
		Category:     string(b.Category),
		IsActive:     b.IsActive,
		Notes:        b.Notes,
		PaidMonths:   paid,
		Status:       string(billing.StatusNow(b, now)),
		DaysUntilDue: billing.DaysUntilDue(b, now),
		CreatedAt:    b.CreatedAt,
		UpdatedAt:    b.UpdatedAt,
	}
}

type billerCreateRequest struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Amount      int64  `json:"amount"`
	DueDay      int    `json:"dueDay"`
	CutOffDay   *int   `json:"cutOffDay"`
	CreditLimit *int64 `json:"creditLimit"`
	Category    string `json:"category"`
	IsActive    *bool  `json:"isActive"`
	Notes       string `json:"notes"`
}

type billerPatchRequest struct {
	Name        *string `json:"name"`
	Type        *string `json:"type"`
	Amount      *int64  `json:"amount"`
	DueDay      *int    `json:"dueDay"`
	CutOffDay   *int    `json:"cutOffDay"`
	CreditLimit *int64  `json:"creditLimit"`
	Category    *string `json:"category"`
	IsActive    *bool   `json:"isActive"`
	Notes       *string `json:"notes"`
}

type payRequest struct {
	Month int `json:"month"`
	Year  int `json:"year"`
}

// BillersList returns the user's billers, optionally filtered by type,
// category, and active flag.
func (a *App) BillersList(w http.ResponseWriter, r *http.Request) {
	filter, err := parseBillerFilter(r)
	if err != nil {
		a.error(w, http.StatusBadRequest, err.Error())
		return
	}
	billers, err := a.Billers.List(r.Context(), a.currentUserID(r), filter)
	if err != nil {
		a.internal(w, err, "list billers")
		return
	}
	now := a.now()
	items := make([]billerDTO, 0, len(billers))
	for i := range billers {
		items = append(items, toBillerDTO(&billers[i], now))
	}
	a.ok(w, http.StatusOK, map[string]any{"count": len(items), "billers": items})
}

// BillersGet returns one biller by id.
func (a *App) BillersGet(w http.ResponseWriter, r *http.Request) {
	biller, err := a.Billers.GetByID(r.Context(), a.currentUserID(r), chi.URLParam(r, "id"))
	if err != nil {
		a.billerError(w, err, "load biller")
		return
	}
	a.ok(w, http.StatusOK, map[string]any{"biller": toBillerDTO(biller, a.now())})
}

// BillersCreate validates and stores a new biller.
func (a *App) BillersCreate(w http.ResponseWriter, r *http.Request) {
	var req billerCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "invalid payload")
		return
	}
	biller := &domain.Biller{
		ID:          uuid.NewString(),
		UserID:      a.currentUserID(r),
		Name:        req.Name,
		Type:        domain.BillerType(req.Type),
		Amount:      req.Amount,
		DueDay:      req.DueDay,
		CutOffDay:   req.CutOffDay,
		CreditLimit: req.CreditLimit,
		Category:    domain.Category(req.Category),
		IsActive:    true,
		Notes:       req.Notes,
		PaidMonths:  []domain.PaidMonth{},
	}
	if req.IsActive != nil {
		biller.IsActive = *req.IsActive
	}
	if err := biller.Validate(); err != nil {
		a.error(w, http.StatusBadRequest, validationMessage(err))
		return
	}
	biller, err := a.Billers.Create(r.Context(), biller)
	if err != nil {
		a.internal(w, err, "create biller")
		return
	}
	a.ok(w, http.StatusCreated, map[string]any{"biller": toBillerDTO(biller, a.now())})
}

// BillersUpdate applies a partial update. Only fields present in the
// payload change; the merged record is re-validated before saving.
func (a *App) BillersUpdate(w http.ResponseWriter, r *http.Request) {
	var req billerPatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "invalid payload")
		return
	}
	biller, err := a.Billers.GetByID(r.Context(), a.currentUserID(r), chi.URLParam(r, "id"))
	if err != nil {
		a.billerError(w, err, "load biller")
		return
	}
	patch := domain.BillerPatch{
		Name:        req.Name,
		Amount:      req.Amount,
		DueDay:      req.DueDay,
		CutOffDay:   req.CutOffDay,
		CreditLimit: req.CreditLimit,
		IsActive:    req.IsActive,
		Notes:       req.Notes,
	}
	if req.Type != nil {
		t := domain.BillerType(*req.Type)
		patch.Type = &t
	}
	if req.Category != nil {
		c := domain.Category(*req.Category)
		patch.Category = &c
	}
	patch.Apply(biller)
	if err := biller.Validate(); err != nil {
		a.error(w, http.StatusBadRequest, validationMessage(err))
		return
	}
	biller, err = a.Billers.Update(r.Context(), biller)
	if err != nil {
		a.billerError(w, err, "update biller")
		return
	}
	a.ok(w, http.StatusOK, map[string]any{"biller": toBillerDTO(biller, a.now())})
}

// BillersDelete removes a biller and its payment history.
func (a *App) BillersDelete(w http.ResponseWriter, r *http.Request) {
	if err := a.Billers.Delete(r.Context(), a.currentUserID(r), chi.URLParam(r, "id")); err != nil {
		a.billerError(w, err, "delete biller")
		return
	}
	a.ok(w, http.StatusOK, map[string]any{"message": "biller deleted"})
}

// BillersPay records a payment for the given month, defaulting to the
// current one. Paying a month twice is rejected.
func (a *App) BillersPay(w http.ResponseWriter, r *http.Request) {
	var req payRequest
	if err := decodeOptionalBody(r, &req); err != nil {
		a.error(w, http.StatusBadRequest, "invalid payload")
		return
	}
	now := a.now()
	month, year := billing.DefaultPeriod(req.Month, req.Year, now)
	if month < 1 || month > 12 {
		a.error(w, http.StatusBadRequest, "month must be between 1 and 12")
		return
	}
	biller, err := a.Billers.AddPaidMonth(r.Context(), a.currentUserID(r), chi.URLParam(r, "id"),
		domain.PaidMonth{Month: month, Year: year, PaidAt: now})
	if err != nil {
		if errors.Is(err, domain.ErrAlreadyPaid) {
			a.error(w, http.StatusBadRequest, "biller already marked as paid for this month")
			return
		}
		a.billerError(w, err, "mark paid")
		return
	}
	a.ok(w, http.StatusOK, map[string]any{"biller": toBillerDTO(biller, now)})
}

// BillersUnpay reverses a recorded payment.
func (a *App) BillersUnpay(w http.ResponseWriter, r *http.Request) {
	var req payRequest
	if err := decodeOptionalBody(r, &req); err != nil {
		a.error(w, http.StatusBadRequest, "invalid payload")
		return
	}
	now := a.now()
	month, year := billing.DefaultPeriod(req.Month, req.Year, now)
	biller, err := a.Billers.RemovePaidMonth(r.Context(), a.currentUserID(r), chi.URLParam(r, "id"), month, year)
	if err != nil {
		if errors.Is(err, domain.ErrNoSuchPayment) {
			a.error(w, http.StatusBadRequest, "no payment recorded for this month")
			return
		}
		a.billerError(w, err, "unmark paid")
		return
	}
	a.ok(w, http.StatusOK, map[string]any{"biller": toBillerDTO(biller, now)})
}

func (a *App) billerError(w http.ResponseWriter, err error, op string) {
	if errors.Is(err, domain.ErrNotFound) {
		a.error(w, http.StatusNotFound, "biller not found")
		return
	}
	a.internal(w, err, op)
}

func parseBillerFilter(r *http.Request) (domain.BillerFilter, error) {
	var filter domain.BillerFilter
	q := r.URL.Query()
	if v := q.Get("type"); v != "" {
		t := domain.BillerType(v)
		if !t.Valid() {
			return filter, errors.New("type must be bill or credit")
		}
		filter.Type = &t
	}
	if v := q.Get("category"); v != "" {
		c := domain.Category(v)
		if !c.Valid() {
			return filter, errors.New("unknown category")
		}
		filter.Category = &c
	}
	if v := q.Get("isActive"); v != "" {
		active, err := strconv.ParseBool(v)
		if err != nil {
			return filter, errors.New("isActive must be true or false")
		}
		filter.IsActive = &active
	}
	return filter, nil
}

// decodeOptionalBody tolerates an empty request body, leaving dst zeroed.
func decodeOptionalBody(r *http.Request, dst any) error {
	if r.Body == nil || r.ContentLength == 0 {
		return nil
	}
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return err
	}
	return nil
}

func validationMessage(err error) string {
	return unauthorizedMessage(err)
}
