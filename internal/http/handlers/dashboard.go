package handlers

import (
	"net/http"
	"strconv"

	"billtrack/internal/dashboard"
	"billtrack/internal/domain"
)

// Dashboard endpoints are thin: they load the relevant biller set and hand
// it to the pure builders in the dashboard package. The summary, upcoming,
// status, credit-cycle, and overview views only consider active billers;
// the year-based charts fold over all billers so that payment history
// survives deactivation.

func (a *App) activeBillers(r *http.Request) ([]domain.Biller, error) {
	active := true
	return a.Billers.List(r.Context(), a.currentUserID(r), domain.BillerFilter{IsActive: &active})
}

func (a *App) allBillers(r *http.Request) ([]domain.Biller, error) {
	return a.Billers.List(r.Context(), a.currentUserID(r), domain.BillerFilter{})
}

func (a *App) DashboardSummary(w http.ResponseWriter, r *http.Request) {
	billers, err := a.activeBillers(r)
	if err != nil {
		a.internal(w, err, "load billers")
		return
	}
	a.ok(w, http.StatusOK, map[string]any{"summary": dashboard.BuildSummary(billers, a.now())})
}

func (a *App) DashboardUpcoming(w http.ResponseWriter, r *http.Request) {
	billers, err := a.activeBillers(r)
	if err != nil {
		a.internal(w, err, "load billers")
		return
	}
	a.ok(w, http.StatusOK, map[string]any{"upcoming": dashboard.BuildUpcoming(billers, a.now())})
}

func (a *App) DashboardMonthlyOverview(w http.ResponseWriter, r *http.Request) {
	billers, err := a.allBillers(r)
	if err != nil {
		a.internal(w, err, "load billers")
		return
	}
	year := a.yearParam(r)
	a.ok(w, http.StatusOK, map[string]any{"overview": dashboard.BuildMonthlyOverview(billers, year)})
}

func (a *App) DashboardStatus(w http.ResponseWriter, r *http.Request) {
	billers, err := a.activeBillers(r)
	if err != nil {
		a.internal(w, err, "load billers")
		return
	}
	a.ok(w, http.StatusOK, map[string]any{"breakdown": dashboard.BuildStatusBreakdown(billers, a.now())})
}

func (a *App) DashboardCreditCycle(w http.ResponseWriter, r *http.Request) {
	billers, err := a.activeBillers(r)
	if err != nil {
		a.internal(w, err, "load billers")
		return
	}
	a.ok(w, http.StatusOK, map[string]any{"cycle": dashboard.BuildCreditCycle(billers, a.now())})
}

func (a *App) DashboardPaymentHistory(w http.ResponseWriter, r *http.Request) {
	billers, err := a.allBillers(r)
	if err != nil {
		a.internal(w, err, "load billers")
		return
	}
	year := a.yearParam(r)
	a.ok(w, http.StatusOK, map[string]any{"history": dashboard.BuildPaymentHistory(billers, year)})
}

func (a *App) DashboardOverview(w http.ResponseWriter, r *http.Request) {
	billers, err := a.activeBillers(r)
	if err != nil {
		a.internal(w, err, "load billers")
		return
	}
	a.ok(w, http.StatusOK, map[string]any{"overview": dashboard.BuildOverview(billers, a.now())})
}

// yearParam reads an optional ?year= override, defaulting to the current year.
func (a *App) yearParam(r *http.Request) int {
	if v := r.URL.Query().Get("year"); v != "" {
		if year, err := strconv.Atoi(v); err == nil && year > 0 {
			return year
		}
	}
	return a.now().Year()
}
