package domain

import (
	"errors"
	"testing"
)

func validCredit() *Biller {
	cutOff := 5
	limit := int64(50000)
	return &Biller{
		UserID:      "u-1",
		Name:        "BPI Credit Card",
		Type:        BillerTypeCredit,
		Amount:      12500,
		DueDay:      25,
		CutOffDay:   &cutOff,
		CreditLimit: &limit,
		Category:    CategoryCreditCard,
		IsActive:    true,
	}
}

func TestBillerValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Biller)
		wantErr bool
	}{
		{"valid credit biller", func(b *Biller) {}, false},
		{"valid bill without cut-off", func(b *Biller) {
			b.Type = BillerTypeBill
			b.CutOffDay = nil
			b.CreditLimit = nil
			b.Category = CategoryUtilities
		}, false},
		{"missing name", func(b *Biller) { b.Name = "   " }, true},
		{"unknown type", func(b *Biller) { b.Type = "mortgage" }, true},
		{"negative amount", func(b *Biller) { b.Amount = -1 }, true},
		{"due day zero", func(b *Biller) { b.DueDay = 0 }, true},
		{"due day 32", func(b *Biller) { b.DueDay = 32 }, true},
		{"due day 31 is legal", func(b *Biller) { b.DueDay = 31 }, false},
		{"credit without cut-off", func(b *Biller) { b.CutOffDay = nil }, true},
		{"cut-off out of range", func(b *Biller) { v := 0; b.CutOffDay = &v }, true},
		{"negative credit limit", func(b *Biller) { v := int64(-5); b.CreditLimit = &v }, true},
		{"unknown category", func(b *Biller) { b.Category = "groceries" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := validCredit()
			tt.mutate(b)
			err := b.Validate()
			if tt.wantErr && !errors.Is(err, ErrValidation) {
				t.Fatalf("Validate() = %v, want ErrValidation", err)
			}
			if !tt.wantErr && err != nil {
				t.Fatalf("Validate() unexpected error: %v", err)
			}
		})
	}
}

func TestBillerValidateDefaultsCategory(t *testing.T) {
	b := validCredit()
	b.Category = ""
	if err := b.Validate(); err != nil {
		t.Fatalf("Validate() error: %v", err)
	}
	if b.Category != CategoryOther {
		t.Fatalf("Category = %q, want %q", b.Category, CategoryOther)
	}
}

func TestBillerPatchApply(t *testing.T) {
	b := validCredit()
	name := "Updated Card"
	amount := int64(9900)
	active := false

	patch := BillerPatch{Name: &name, Amount: &amount, IsActive: &active}
	patch.Apply(b)

	if b.Name != "Updated Card" || b.Amount != 9900 || b.IsActive {
		t.Fatalf("patched biller = %+v, want name/amount/isActive updated", b)
	}
	if b.DueDay != 25 || b.CutOffDay == nil || *b.CutOffDay != 5 {
		t.Fatalf("untouched fields changed: %+v", b)
	}
}

// Switching a biller to credit without supplying a cut-off day must fail
// re-validation after the merge.
func TestBillerPatchCreditInvariant(t *testing.T) {
	b := validCredit()
	b.Type = BillerTypeBill
	b.CutOffDay = nil

	credit := BillerTypeCredit
	patch := BillerPatch{Type: &credit}
	patch.Apply(b)

	if err := b.Validate(); !errors.Is(err, ErrValidation) {
		t.Fatalf("Validate() after patch = %v, want ErrValidation", err)
	}
}

func TestBillerIsPaidFor(t *testing.T) {
	b := validCredit()
	b.PaidMonths = []PaidMonth{{Month: 1, Year: 2026}}

	if !b.IsPaidFor(1, 2026) {
		t.Errorf("IsPaidFor(1, 2026) = false, want true")
	}
	if b.IsPaidFor(1, 2025) {
		t.Errorf("IsPaidFor(1, 2025) = true, want false")
	}
	if b.IsPaidFor(2, 2026) {
		t.Errorf("IsPaidFor(2, 2026) = true, want false")
	}
}
