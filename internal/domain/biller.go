package domain

import (
	"fmt"
	"strings"
	"time"
)

// BillerType enumerates the kinds of recurring obligations.
type BillerType string

const (
	BillerTypeBill   BillerType = "bill"
	BillerTypeCredit BillerType = "credit"
)

// Valid reports whether the type is a known variant.
func (t BillerType) Valid() bool {
	return t == BillerTypeBill || t == BillerTypeCredit
}

// Category enumerates supported biller categories.
type Category string

const (
	CategoryUtilities    Category = "utilities"
	CategorySubscription Category = "subscription"
	CategoryLoan         Category = "loan"
	CategoryCreditCard   Category = "credit_card"
	CategoryInsurance    Category = "insurance"
	CategoryRent         Category = "rent"
	CategoryOther        Category = "other"
)

// Valid reports whether the category is part of the fixed enumeration.
func (c Category) Valid() bool {
	switch c {
	case CategoryUtilities, CategorySubscription, CategoryLoan,
		CategoryCreditCard, CategoryInsurance, CategoryRent, CategoryOther:
		return true
	}
	return false
}

// PaidMonth records that a biller was settled for one calendar month.
// A biller holds at most one entry per (month, year) pair.
type PaidMonth struct {
	Month  int       `json:"month"`
	Year   int       `json:"year"`
	PaidAt time.Time `json:"paidAt"`
}

// Biller is a recurring financial obligation owned by exactly one user.
// Amounts are minor units (cents). DueDay and CutOffDay are days of month
// in [1,31]; day 31 is legal even for months that lack it.
type Biller struct {
	ID          string
	UserID      string
	Name        string
	Type        BillerType
	Amount      int64
	DueDay      int
	CutOffDay   *int
	CreditLimit *int64
	Category    Category
	IsActive    bool
	Notes       string
	PaidMonths  []PaidMonth
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IsPaidFor reports whether the biller has a payment record for the
// given calendar month.
func (b *Biller) IsPaidFor(month, year int) bool {
	for _, p := range b.PaidMonths {
		if p.Month == month && p.Year == year {
			return true
		}
	}
	return false
}

// Validate checks field-level invariants. Violations are reported as
// ErrValidation so handlers can reject the request without retrying.
func (b *Biller) Validate() error {
	if strings.TrimSpace(b.Name) == "" {
		return fmt.Errorf("%w: biller name is required", ErrValidation)
	}
	if !b.Type.Valid() {
		return fmt.Errorf("%w: biller type must be bill or credit", ErrValidation)
	}
	if b.Amount < 0 {
		return fmt.Errorf("%w: amount cannot be negative", ErrValidation)
	}
	if b.DueDay < 1 || b.DueDay > 31 {
		return fmt.Errorf("%w: due date must be between 1 and 31", ErrValidation)
	}
	if b.Type == BillerTypeCredit {
		if b.CutOffDay == nil {
			return fmt.Errorf("%w: cut-off date is required for credit cards", ErrValidation)
		}
	}
	if b.CutOffDay != nil && (*b.CutOffDay < 1 || *b.CutOffDay > 31) {
		return fmt.Errorf("%w: cut-off date must be between 1 and 31", ErrValidation)
	}
	if b.CreditLimit != nil && *b.CreditLimit < 0 {
		return fmt.Errorf("%w: credit limit cannot be negative", ErrValidation)
	}
	if b.Category == "" {
		b.Category = CategoryOther
	}
	if !b.Category.Valid() {
		return fmt.Errorf("%w: unknown category %q", ErrValidation, b.Category)
	}
	return nil
}

// BillerPatch carries partial-field updates. Only non-nil fields are
// applied; the merged record is re-validated afterwards.
type BillerPatch struct {
	Name        *string
	Type        *BillerType
	Amount      *int64
	DueDay      *int
	CutOffDay   *int
	CreditLimit *int64
	Category    *Category
	IsActive    *bool
	Notes       *string
}

// Apply merges the supplied fields into the biller.
func (p BillerPatch) Apply(b *Biller) {
	if p.Name != nil {
		b.Name = *p.Name
	}
	if p.Type != nil {
		b.Type = *p.Type
	}
	if p.Amount != nil {
		b.Amount = *p.Amount
	}
	if p.DueDay != nil {
		b.DueDay = *p.DueDay
	}
	if p.CutOffDay != nil {
		b.CutOffDay = p.CutOffDay
	}
	if p.CreditLimit != nil {
		b.CreditLimit = p.CreditLimit
	}
	if p.Category != nil {
		b.Category = *p.Category
	}
	if p.IsActive != nil {
		b.IsActive = *p.IsActive
	}
	if p.Notes != nil {
		b.Notes = *p.Notes
	}
}
