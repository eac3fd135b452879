// Package billing derives point-in-time payment facts from a biller's raw
// schedule. All functions are pure: they take a biller and an explicit
// reference time and perform no I/O.
package billing

import (
	"math"
	"time"

	"billtrack/internal/domain"
)

// Status classifies a biller's payment state relative to a reference date.
type Status string

const (
	StatusPaid    Status = "paid"
	StatusDueSoon Status = "due_soon"
	StatusOverdue Status = "overdue"
	StatusPending Status = "pending"
)

// dueSoonWindow is the number of days ahead within which an unpaid biller
// counts as due_soon.
const dueSoonWindow = 7

// StatusAt computes the biller's status for the given reference day/month/year.
// Precedence: paid, then overdue, then due_soon, then pending. The rule only
// looks at the reference month and never rolls into the next one, so an unpaid
// biller whose due day has passed stays overdue until it is marked paid.
func StatusAt(b *domain.Biller, day, month, year int) Status {
	if b.IsPaidFor(month, year) {
		return StatusPaid
	}
	if day > b.DueDay {
		return StatusOverdue
	}
	if b.DueDay-day <= dueSoonWindow {
		return StatusDueSoon
	}
	return StatusPending
}

// StatusNow is StatusAt evaluated at the given instant.
func StatusNow(b *domain.Biller, now time.Time) Status {
	return StatusAt(b, now.Day(), int(now.Month()), now.Year())
}

// DaysUntilDue returns the number of days until the biller's next due date.
// Unlike StatusAt, this rolls forward: once the due day has passed it counts
// toward next month's occurrence. Day-of-month values past the end of a month
// normalize forward (Feb 31 counts as early March), preserving the literal
// day-difference arithmetic of the schedule.
func DaysUntilDue(b *domain.Biller, now time.Time) int {
	due := time.Date(now.Year(), now.Month(), b.DueDay, 0, 0, 0, 0, now.Location())
	if now.Day() > b.DueDay {
		due = time.Date(now.Year(), now.Month()+1, b.DueDay, 0, 0, 0, 0, now.Location())
	}
	return int(math.Ceil(due.Sub(now).Hours() / 24))
}

// DaysInMonth returns the number of calendar days in the given month,
// accounting for leap years.
func DaysInMonth(month, year int) int {
	// Day 0 of the following month normalizes to the last day of this one.
	return time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// CycleDaysRemaining returns how many days remain until a credit biller's due
// day. When the due day has already passed it rolls to next month's occurrence
// using the actual length of the reference month.
func CycleDaysRemaining(b *domain.Biller, day, month, year int) int {
	remaining := b.DueDay - day
	if remaining < 0 {
		remaining = DaysInMonth(month, year) - day + b.DueDay
	}
	return remaining
}
