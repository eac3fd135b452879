// Package dashboard folds a user's biller collection into the derived views
// served by the dashboard endpoints. Every build function is pure: it takes a
// biller set and a reference time and returns a response-shaped value.
package dashboard

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"billtrack/internal/billing"
	"billtrack/internal/domain"
)

var titleCaser = cases.Title(language.English)

var shortMonths = [12]string{
	"Jan", "Feb", "Mar", "Apr", "May", "Jun",
	"Jul", "Aug", "Sep", "Oct", "Nov", "Dec",
}

// UpcomingPayment is one entry of the summary's top-5 list.
type UpcomingPayment struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	DaysUntilDue int    `json:"daysUntilDue"`
	Amount       int64  `json:"amount"`
}

// CreditCardRef identifies a credit biller in the summary.
type CreditCardRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Summary backs the dashboard's top cards.
type Summary struct {
	TotalDue          int64             `json:"totalDue"`
	Month             string            `json:"month"`
	Year              int               `json:"year"`
	UpcomingPayments  []UpcomingPayment `json:"upcomingPayments"`
	OverdueCount      int               `json:"overdueCount"`
	ActiveCreditCards []CreditCardRef   `json:"activeCreditCards"`
}

// BuildSummary aggregates the active billers into totals due, overdue counts,
// the five nearest upcoming payments, and the set of credit cards.
func BuildSummary(billers []domain.Biller, now time.Time) Summary {
	day, month, year := now.Day(), int(now.Month()), now.Year()

	s := Summary{
		Month:             time.Month(month).String(),
		Year:              year,
		UpcomingPayments:  []UpcomingPayment{},
		ActiveCreditCards: []CreditCardRef{},
	}

	for i := range billers {
		b := &billers[i]
		status := billing.StatusAt(b, day, month, year)

		if status != billing.StatusPaid {
			s.TotalDue += b.Amount
		}
		if status == billing.StatusOverdue {
			s.OverdueCount++
		}
		if status == billing.StatusDueSoon || status == billing.StatusPending {
			daysUntilDue := b.DueDay - day
			if daysUntilDue > 0 && daysUntilDue <= 7 {
				s.UpcomingPayments = append(s.UpcomingPayments, UpcomingPayment{
					ID:           b.ID,
					Name:         b.Name,
					DaysUntilDue: daysUntilDue,
					Amount:       b.Amount,
				})
			}
		}
		if b.Type == domain.BillerTypeCredit {
			s.ActiveCreditCards = append(s.ActiveCreditCards, CreditCardRef{ID: b.ID, Name: b.Name})
		}
	}

	sort.SliceStable(s.UpcomingPayments, func(i, j int) bool {
		return s.UpcomingPayments[i].DaysUntilDue < s.UpcomingPayments[j].DaysUntilDue
	})
	if len(s.UpcomingPayments) > 5 {
		s.UpcomingPayments = s.UpcomingPayments[:5]
	}

	return s
}

// UpcomingPoint is one due-day bucket of the upcoming chart.
type UpcomingPoint struct {
	Date   string `json:"date"`
	Bills  int64  `json:"bills"`
	Credit int64  `json:"credit"`
}

// UpcomingChart backs the upcoming due dates bar chart.
type UpcomingChart struct {
	TotalAmount      int64           `json:"totalAmount"`
	BillsCount       int             `json:"billsCount"`
	CreditCardsCount int             `json:"creditCardsCount"`
	ChartData        []UpcomingPoint `json:"chartData"`
}

// BuildUpcoming groups the unpaid billers by due day, splitting each bucket
// into bill and credit amounts.
func BuildUpcoming(billers []domain.Biller, now time.Time) UpcomingChart {
	day, month, year := now.Day(), int(now.Month()), now.Year()

	chart := UpcomingChart{ChartData: []UpcomingPoint{}}
	buckets := make(map[int]*UpcomingPoint)

	for i := range billers {
		b := &billers[i]
		if billing.StatusAt(b, day, month, year) == billing.StatusPaid {
			continue
		}

		chart.TotalAmount += b.Amount
		if b.Type == domain.BillerTypeBill {
			chart.BillsCount++
		} else {
			chart.CreditCardsCount++
		}

		point, ok := buckets[b.DueDay]
		if !ok {
			point = &UpcomingPoint{Date: fmt.Sprintf("%02d/%02d", month, b.DueDay)}
			buckets[b.DueDay] = point
		}
		if b.Type == domain.BillerTypeBill {
			point.Bills += b.Amount
		} else {
			point.Credit += b.Amount
		}
	}

	days := make([]int, 0, len(buckets))
	for d := range buckets {
		days = append(days, d)
	}
	sort.Ints(days)
	for _, d := range days {
		chart.ChartData = append(chart.ChartData, *buckets[d])
	}

	return chart
}

// MonthlySplit is one month of the monthly overview, split by biller type.
type MonthlySplit struct {
	Month  string `json:"month"`
	Bills  int64  `json:"bills"`
	Credit int64  `json:"credit"`
}

// MonthlyOverview backs the monthly spending chart for one year.
type MonthlyOverview struct {
	Year        int            `json:"year"`
	MonthlyData []MonthlySplit `json:"monthlyData"`
}

// BuildMonthlyOverview sums each biller's amount into the month buckets of
// every payment record matching the target year, split by type. A record for
// the same month of a different year contributes nothing.
func BuildMonthlyOverview(billers []domain.Biller, year int) MonthlyOverview {
	overview := MonthlyOverview{Year: year, MonthlyData: make([]MonthlySplit, 12)}
	for i, name := range shortMonths {
		overview.MonthlyData[i].Month = name
	}

	for i := range billers {
		b := &billers[i]
		for _, paid := range b.PaidMonths {
			if paid.Year != year {
				continue
			}
			idx := paid.Month - 1
			if b.Type == domain.BillerTypeBill {
				overview.MonthlyData[idx].Bills += b.Amount
			} else {
				overview.MonthlyData[idx].Credit += b.Amount
			}
		}
	}

	return overview
}

// StatusBucket counts billers and sums their amounts for one status.
type StatusBucket struct {
	Count  int   `json:"count"`
	Amount int64 `json:"amount"`
}

// StatusBreakdown backs the status pie chart.
type StatusBreakdown struct {
	TotalAmount int64        `json:"totalAmount"`
	Paid        StatusBucket `json:"paid"`
	DueSoon     StatusBucket `json:"dueSoon"`
	Overdue     StatusBucket `json:"overdue"`
	Pending     StatusBucket `json:"pending"`
}

// BuildStatusBreakdown partitions the active billers by derived status.
func BuildStatusBreakdown(billers []domain.Biller, now time.Time) StatusBreakdown {
	day, month, year := now.Day(), int(now.Month()), now.Year()

	var breakdown StatusBreakdown
	for i := range billers {
		b := &billers[i]
		bucket := &breakdown.Pending
		switch billing.StatusAt(b, day, month, year) {
		case billing.StatusPaid:
			bucket = &breakdown.Paid
		case billing.StatusDueSoon:
			bucket = &breakdown.DueSoon
		case billing.StatusOverdue:
			bucket = &breakdown.Overdue
		}
		bucket.Count++
		bucket.Amount += b.Amount
		breakdown.TotalAmount += b.Amount
	}
	return breakdown
}

// CreditCardCycle is one credit biller's position within its statement cycle.
type CreditCardCycle struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	DaysRemaining int    `json:"daysRemaining"`
	DueDay        int    `json:"dueDate"`
	CutOffDay     *int   `json:"cutOffDate"`
	CreditLimit   *int64 `json:"creditLimit"`
	Amount        int64  `json:"amount"`
}

// CreditCycle backs the credit card cycle tracker.
type CreditCycle struct {
	Cards []CreditCardCycle `json:"cards"`
}

// BuildCreditCycle computes days remaining until each credit biller's due day,
// rolling into next month with the reference month's actual length, sorted
// nearest first. Non-credit billers are ignored.
func BuildCreditCycle(billers []domain.Biller, now time.Time) CreditCycle {
	day, month, year := now.Day(), int(now.Month()), now.Year()

	cycle := CreditCycle{Cards: []CreditCardCycle{}}
	for i := range billers {
		b := &billers[i]
		if b.Type != domain.BillerTypeCredit {
			continue
		}
		cycle.Cards = append(cycle.Cards, CreditCardCycle{
			ID:            b.ID,
			Name:          b.Name,
			DaysRemaining: billing.CycleDaysRemaining(b, day, month, year),
			DueDay:        b.DueDay,
			CutOffDay:     b.CutOffDay,
			CreditLimit:   b.CreditLimit,
			Amount:        b.Amount,
		})
	}

	sort.SliceStable(cycle.Cards, func(i, j int) bool {
		return cycle.Cards[i].DaysRemaining < cycle.Cards[j].DaysRemaining
	})

	return cycle
}

// MonthlyTotal is one month of the payment history series.
type MonthlyTotal struct {
	Month  string `json:"month"`
	Amount int64  `json:"amount"`
}

// PaymentHistory backs the payment history line chart for one year.
type PaymentHistory struct {
	Year          int            `json:"year"`
	TotalThisYear int64          `json:"totalThisYear"`
	MonthlyData   []MonthlyTotal `json:"monthlyData"`
}

// BuildPaymentHistory sums the amounts paid per month of the target year.
func BuildPaymentHistory(billers []domain.Biller, year int) PaymentHistory {
	history := PaymentHistory{Year: year, MonthlyData: make([]MonthlyTotal, 12)}
	for i, name := range shortMonths {
		history.MonthlyData[i].Month = name
	}

	for i := range billers {
		b := &billers[i]
		for _, paid := range b.PaidMonths {
			if paid.Year != year {
				continue
			}
			history.MonthlyData[paid.Month-1].Amount += b.Amount
			history.TotalThisYear += b.Amount
		}
	}

	return history
}

// OverviewRow is one biller of the overview table.
type OverviewRow struct {
	ID            string         `json:"id"`
	Name          string         `json:"name"`
	Type          string         `json:"type"`
	DueDate       string         `json:"dueDate"`
	RawDueDay     int            `json:"rawDueDate"`
	Amount        int64          `json:"amount"`
	Status        billing.Status `json:"status"`
	Category      string         `json:"category"`
	CategoryLabel string         `json:"categoryLabel"`
}

// Overview backs the bills and credit cards table.
type Overview struct {
	Billers []OverviewRow `json:"billers"`
}

// BuildOverview lists the active billers with human-readable labels and a
// formatted due date for the reference month, sorted by due day.
func BuildOverview(billers []domain.Biller, now time.Time) Overview {
	day, month, year := now.Day(), int(now.Month()), now.Year()

	overview := Overview{Billers: make([]OverviewRow, 0, len(billers))}
	for i := range billers {
		b := &billers[i]

		typeLabel := "Bill"
		if b.Type == domain.BillerTypeCredit {
			typeLabel = "Credit Card"
		}

		overview.Billers = append(overview.Billers, OverviewRow{
			ID:            b.ID,
			Name:          b.Name,
			Type:          typeLabel,
			DueDate:       fmt.Sprintf("%s %d, %d", shortMonths[month-1], b.DueDay, year),
			RawDueDay:     b.DueDay,
			Amount:        b.Amount,
			Status:        billing.StatusAt(b, day, month, year),
			Category:      string(b.Category),
			CategoryLabel: categoryLabel(b.Category),
		})
	}

	sort.SliceStable(overview.Billers, func(i, j int) bool {
		return overview.Billers[i].RawDueDay < overview.Billers[j].RawDueDay
	})

	return overview
}

func categoryLabel(c domain.Category) string {
	return titleCaser.String(strings.ReplaceAll(string(c), "_", " "))
}
