package repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"billtrack/internal/domain"
)

// BillerRepositoryPG implements domain.BillerRepository backed by PostgreSQL.
// The payment ledger lives in a paid_months JSONB column; pay/unpay mutate it
// with single conditional statements so concurrent requests cannot lose
// updates.
type BillerRepositoryPG struct {
	pool *pgxpool.Pool
}

// NewBillerRepository creates a new BillerRepositoryPG.
func NewBillerRepository(pool *pgxpool.Pool) *BillerRepositoryPG {
	return &BillerRepositoryPG{pool: pool}
}

const billerColumns = `id, user_id, name, type, amount, due_day, cut_off_day, credit_limit,
category, is_active, notes, paid_months, created_at, updated_at`

// Create inserts a new biller owned by biller.UserID.
func (r *BillerRepositoryPG) Create(ctx context.Context, biller *domain.Biller) (*domain.Biller, error) {
	paid, err := marshalPaidMonths(biller.PaidMonths)
	if err != nil {
		return nil, err
	}
	row := r.pool.QueryRow(ctx, `
INSERT INTO billers (id, user_id, name, type, amount, due_day, cut_off_day, credit_limit, category, is_active, notes, paid_months)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
RETURNING `+billerColumns,
		biller.ID, biller.UserID, biller.Name, biller.Type, biller.Amount, biller.DueDay,
		biller.CutOffDay, biller.CreditLimit, biller.Category, biller.IsActive, biller.Notes, paid)
	return scanBiller(row)
}

// GetByID fetches one biller scoped to its owner. A biller owned by a
// different user is indistinguishable from a missing one.
func (r *BillerRepositoryPG) GetByID(ctx context.Context, userID, id string) (*domain.Biller, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+billerColumns+` FROM billers WHERE id = $1 AND user_id = $2`, id, userID)
	return scanBiller(row)
}

// List returns the user's billers matching the filter, sorted by due day.
func (r *BillerRepositoryPG) List(ctx context.Context, userID string, filter domain.BillerFilter) ([]domain.Biller, error) {
	query := `SELECT ` + billerColumns + ` FROM billers WHERE user_id = $1`
	args := []any{userID}

	if filter.Type != nil {
		args = append(args, *filter.Type)
		query += fmt.Sprintf(" AND type = $%d", len(args))
	}
	if filter.Category != nil {
		args = append(args, *filter.Category)
		query += fmt.Sprintf(" AND category = $%d", len(args))
	}
	if filter.IsActive != nil {
		args = append(args, *filter.IsActive)
		query += fmt.Sprintf(" AND is_active = $%d", len(args))
	}
	query += " ORDER BY due_day ASC, created_at ASC"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	billers := []domain.Biller{}
	for rows.Next() {
		b, err := scanBiller(rows)
		if err != nil {
			return nil, err
		}
		billers = append(billers, *b)
	}
	return billers, rows.Err()
}

// Update overwrites the schedule fields of a biller, scoped to its owner. The
// payment ledger is not touched here; use AddPaidMonth/RemovePaidMonth.
func (r *BillerRepositoryPG) Update(ctx context.Context, biller *domain.Biller) (*domain.Biller, error) {
	row := r.pool.QueryRow(ctx, `
UPDATE billers
SET name = $3,
    type = $4,
    amount = $5,
    due_day = $6,
    cut_off_day = $7,
    credit_limit = $8,
    category = $9,
    is_active = $10,
    notes = $11,
    updated_at = NOW()
WHERE id = $1 AND user_id = $2
RETURNING `+billerColumns,
		biller.ID, biller.UserID, biller.Name, biller.Type, biller.Amount, biller.DueDay,
		biller.CutOffDay, biller.CreditLimit, biller.Category, biller.IsActive, biller.Notes)
	return scanBiller(row)
}

// Delete removes a biller permanently, scoped to its owner.
func (r *BillerRepositoryPG) Delete(ctx context.Context, userID, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM billers WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// AddPaidMonth appends a payment record in a single append-if-absent update.
// When the guarded update matches no row the biller is re-read to tell
// "already paid" apart from "not found".
func (r *BillerRepositoryPG) AddPaidMonth(ctx context.Context, userID, id string, paid domain.PaidMonth) (*domain.Biller, error) {
	entry, err := json.Marshal(paid)
	if err != nil {
		return nil, fmt.Errorf("marshal paid month: %w", err)
	}

	row := r.pool.QueryRow(ctx, `
UPDATE billers
SET paid_months = paid_months || $3::jsonb,
    updated_at = NOW()
WHERE id = $1 AND user_id = $2
  AND NOT EXISTS (
      SELECT 1 FROM jsonb_array_elements(paid_months) AS elem
      WHERE (elem->>'month')::int = $4 AND (elem->>'year')::int = $5
  )
RETURNING `+billerColumns,
		id, userID, entry, paid.Month, paid.Year)

	biller, err := scanBiller(row)
	if err == nil {
		return biller, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	if _, getErr := r.GetByID(ctx, userID, id); getErr == nil {
		return nil, fmt.Errorf("%w: biller already marked as paid for %d/%d",
			domain.ErrAlreadyPaid, paid.Month, paid.Year)
	}
	return nil, domain.ErrNotFound
}

// RemovePaidMonth deletes a payment record in a single remove-if-present
// update, mirroring AddPaidMonth's disambiguation.
func (r *BillerRepositoryPG) RemovePaidMonth(ctx context.Context, userID, id string, month, year int) (*domain.Biller, error) {
	row := r.pool.QueryRow(ctx, `
UPDATE billers
SET paid_months = (
        SELECT COALESCE(jsonb_agg(elem), '[]'::jsonb)
        FROM jsonb_array_elements(paid_months) AS elem
        WHERE NOT ((elem->>'month')::int = $3 AND (elem->>'year')::int = $4)
    ),
    updated_at = NOW()
WHERE id = $1 AND user_id = $2
  AND EXISTS (
      SELECT 1 FROM jsonb_array_elements(paid_months) AS elem
      WHERE (elem->>'month')::int = $3 AND (elem->>'year')::int = $4
  )
RETURNING `+billerColumns,
		id, userID, month, year)

	biller, err := scanBiller(row)
	if err == nil {
		return biller, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	if _, getErr := r.GetByID(ctx, userID, id); getErr == nil {
		return nil, fmt.Errorf("%w: no payment record found for %d/%d",
			domain.ErrNoSuchPayment, month, year)
	}
	return nil, domain.ErrNotFound
}

func marshalPaidMonths(paid []domain.PaidMonth) ([]byte, error) {
	if paid == nil {
		paid = []domain.PaidMonth{}
	}
	b, err := json.Marshal(paid)
	if err != nil {
		return nil, fmt.Errorf("marshal paid months: %w", err)
	}
	return b, nil
}

func scanBiller(row pgx.Row) (*domain.Biller, error) {
	var b domain.Biller
	var paid []byte
	err := row.Scan(&b.ID, &b.UserID, &b.Name, &b.Type, &b.Amount, &b.DueDay, &b.CutOffDay,
		&b.CreditLimit, &b.Category, &b.IsActive, &b.Notes, &paid, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if len(paid) > 0 {
		if err := json.Unmarshal(paid, &b.PaidMonths); err != nil {
			return nil, fmt.Errorf("decode paid months: %w", err)
		}
	}
	return &b, nil
}
