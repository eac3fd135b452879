package billing

import (
	"errors"
	"testing"
	"time"

	"billtrack/internal/domain"
)

func TestMarkPaid(t *testing.T) {
	b := testBiller(15)
	now := time.Date(2026, time.January, 10, 9, 0, 0, 0, time.UTC)

	if err := MarkPaid(b, 1, 2026, now); err != nil {
		t.Fatalf("MarkPaid() unexpected error: %v", err)
	}
	if len(b.PaidMonths) != 1 {
		t.Fatalf("PaidMonths length = %d, want 1", len(b.PaidMonths))
	}
	if !b.IsPaidFor(1, 2026) {
		t.Fatalf("IsPaidFor(1, 2026) = false after MarkPaid")
	}
	if b.PaidMonths[0].PaidAt != now {
		t.Errorf("PaidAt = %v, want %v", b.PaidMonths[0].PaidAt, now)
	}
}

func TestMarkPaidTwiceFails(t *testing.T) {
	b := testBiller(15)
	now := time.Now()

	if err := MarkPaid(b, 1, 2026, now); err != nil {
		t.Fatalf("first MarkPaid() error: %v", err)
	}
	err := MarkPaid(b, 1, 2026, now)
	if !errors.Is(err, domain.ErrAlreadyPaid) {
		t.Fatalf("second MarkPaid() error = %v, want ErrAlreadyPaid", err)
	}
	if len(b.PaidMonths) != 1 {
		t.Fatalf("PaidMonths length = %d after failed MarkPaid, want 1", len(b.PaidMonths))
	}
}

func TestMarkPaidSameMonthDifferentYears(t *testing.T) {
	b := testBiller(15)
	now := time.Now()

	if err := MarkPaid(b, 1, 2025, now); err != nil {
		t.Fatalf("MarkPaid(1, 2025) error: %v", err)
	}
	if err := MarkPaid(b, 1, 2026, now); err != nil {
		t.Fatalf("MarkPaid(1, 2026) error: %v", err)
	}
	if len(b.PaidMonths) != 2 {
		t.Fatalf("PaidMonths length = %d, want 2", len(b.PaidMonths))
	}
}

func TestMarkUnpaidRoundTrip(t *testing.T) {
	b := testBiller(15, domain.PaidMonth{Month: 12, Year: 2025, PaidAt: time.Now()})
	now := time.Now()

	if err := MarkPaid(b, 1, 2026, now); err != nil {
		t.Fatalf("MarkPaid() error: %v", err)
	}
	if err := MarkUnpaid(b, 1, 2026); err != nil {
		t.Fatalf("MarkUnpaid() error: %v", err)
	}
	if len(b.PaidMonths) != 1 {
		t.Fatalf("PaidMonths length = %d after round trip, want 1", len(b.PaidMonths))
	}
	if b.IsPaidFor(1, 2026) {
		t.Fatalf("IsPaidFor(1, 2026) = true after MarkUnpaid")
	}
	if !b.IsPaidFor(12, 2025) {
		t.Fatalf("unrelated payment record was removed")
	}
}

func TestMarkUnpaidAbsentFails(t *testing.T) {
	b := testBiller(15)
	err := MarkUnpaid(b, 1, 2026)
	if !errors.Is(err, domain.ErrNoSuchPayment) {
		t.Fatalf("MarkUnpaid() error = %v, want ErrNoSuchPayment", err)
	}
}

func TestDefaultPeriod(t *testing.T) {
	now := time.Date(2026, time.August, 29, 10, 0, 0, 0, time.UTC)

	month, year := DefaultPeriod(0, 0, now)
	if month != 8 || year != 2026 {
		t.Fatalf("DefaultPeriod(0, 0) = (%d, %d), want (8, 2026)", month, year)
	}
	month, year = DefaultPeriod(2, 2025, now)
	if month != 2 || year != 2025 {
		t.Fatalf("DefaultPeriod(2, 2025) = (%d, %d), want (2, 2025)", month, year)
	}
	month, year = DefaultPeriod(3, 0, now)
	if month != 3 || year != 2026 {
		t.Fatalf("DefaultPeriod(3, 0) = (%d, %d), want (3, 2026)", month, year)
	}
}
