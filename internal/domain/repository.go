package domain

import "context"

// UserRepository defines access methods for users.
type UserRepository interface {
	Create(ctx context.Context, user *User) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByGoogleSub(ctx context.Context, sub string) (*User, error)
	Update(ctx context.Context, user *User) (*User, error)
}

// BillerFilter narrows biller listings. Nil fields match everything.
type BillerFilter struct {
	Type     *BillerType
	Category *Category
	IsActive *bool
}

// BillerRepository defines persistence for billers. Every method is
// scoped by the owning user id; a biller that exists but belongs to a
// different user is reported as ErrNotFound.
type BillerRepository interface {
	Create(ctx context.Context, biller *Biller) (*Biller, error)
	GetByID(ctx context.Context, userID, id string) (*Biller, error)
	List(ctx context.Context, userID string, filter BillerFilter) ([]Biller, error)
	Update(ctx context.Context, biller *Biller) (*Biller, error)
	Delete(ctx context.Context, userID, id string) error

	// AddPaidMonth appends a payment record if and only if no record for
	// the same (month, year) exists; otherwise it returns ErrAlreadyPaid.
	// The check and the append happen in a single conditional update so
	// that concurrent calls cannot both succeed.
	AddPaidMonth(ctx context.Context, userID, id string, paid PaidMonth) (*Biller, error)

	// RemovePaidMonth deletes the matching payment record, returning
	// ErrNoSuchPayment when none exists.
	RemovePaidMonth(ctx context.Context, userID, id string, month, year int) (*Biller, error)
}
