package billing

import (
	"fmt"
	"time"

	"billtrack/internal/domain"
)

// MarkPaid appends a payment record for the given calendar month. It fails
// with domain.ErrAlreadyPaid when a record for that (month, year) already
// exists; the biller is left untouched in that case.
func MarkPaid(b *domain.Biller, month, year int, now time.Time) error {
	if b.IsPaidFor(month, year) {
		return fmt.Errorf("%w: biller already marked as paid for %d/%d", domain.ErrAlreadyPaid, month, year)
	}
	b.PaidMonths = append(b.PaidMonths, domain.PaidMonth{Month: month, Year: year, PaidAt: now})
	return nil
}

// MarkUnpaid removes the payment record for the given calendar month. It
// fails with domain.ErrNoSuchPayment when no matching record exists.
func MarkUnpaid(b *domain.Biller, month, year int) error {
	for i, p := range b.PaidMonths {
		if p.Month == month && p.Year == year {
			b.PaidMonths = append(b.PaidMonths[:i], b.PaidMonths[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: no payment record found for %d/%d", domain.ErrNoSuchPayment, month, year)
}

// DefaultPeriod resolves an optional (month, year) pair against the reference
// time: zero values fall back to the current month and year.
func DefaultPeriod(month, year int, now time.Time) (int, int) {
	if month == 0 {
		month = int(now.Month())
	}
	if year == 0 {
		year = now.Year()
	}
	return month, year
}
