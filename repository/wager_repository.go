package repository

import (
	"context"
	"fmt"

	"lottosettle/database"
	"lottosettle/domain/entities"

	"github.com/jackc/pgx/v5"
)

// WagerRepository implements the WagerRepository interface
type WagerRepository struct {
	q Queryable
}

// NewWagerRepository creates a new wager repository
func NewWagerRepository(db *database.DB) *WagerRepository {
	return &WagerRepository{q: db.Pool}
}

// NewWagerRepositoryScoped creates a new wager repository bound to a transaction
func NewWagerRepositoryScoped(tx Queryable) *WagerRepository {
	return &WagerRepository{q: tx}
}

const wagerColumns = `
	id, account_id, draw_id, sub_type, numeral, stake, price, discount_percent,
	payout_percent, discount_tier, status, placed_at, resolved_at`

func scanWager(row pgx.Row) (*entities.Wager, error) {
	var wager entities.Wager
	err := row.Scan(
		&wager.ID,
		&wager.AccountID,
		&wager.DrawID,
		&wager.SubType,
		&wager.Numeral,
		&wager.Stake,
		&wager.Price,
		&wager.DiscountPercent,
		&wager.PayoutPercent,
		&wager.DiscountTier,
		&wager.Status,
		&wager.PlacedAt,
		&wager.ResolvedAt,
	)
	if err != nil {
		return nil, err
	}
	return &wager, nil
}

// Create inserts a new wager
func (r *WagerRepository) Create(ctx context.Context, wager *entities.Wager) error {
	query := `
		INSERT INTO wagers (account_id, draw_id, sub_type, numeral, stake, price,
			discount_percent, payout_percent, discount_tier, status, placed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id
	`

	status := wager.Status
	if status == "" {
		status = entities.WagerStatusPending
	}

	err := r.q.QueryRow(ctx, query,
		wager.AccountID,
		wager.DrawID,
		wager.SubType,
		wager.Numeral,
		wager.Stake,
		wager.Price,
		wager.DiscountPercent,
		wager.PayoutPercent,
		wager.DiscountTier,
		status,
		wager.PlacedAt,
	).Scan(&wager.ID)
	if err != nil {
		return fmt.Errorf("failed to create wager: %w", err)
	}
	wager.Status = status
	return nil
}

// GetByID retrieves a wager by ID
func (r *WagerRepository) GetByID(ctx context.Context, id int64) (*entities.Wager, error) {
	query := `SELECT ` + wagerColumns + ` FROM wagers WHERE id = $1`

	wager, err := scanWager(r.q.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get wager: %w", err)
	}
	return wager, nil
}

// ListPendingByDraw returns the unresolved wagers of a draw in placement order
func (r *WagerRepository) ListPendingByDraw(ctx context.Context, drawID int64) ([]*entities.Wager, error) {
	query := `
		SELECT ` + wagerColumns + `
		FROM wagers
		WHERE draw_id = $1 AND status = 'pending'
		ORDER BY placed_at, id
	`

	rows, err := r.q.Query(ctx, query, drawID)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending wagers: %w", err)
	}
	defer rows.Close()

	var wagers []*entities.Wager
	for rows.Next() {
		wager, err := scanWager(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan wager: %w", err)
		}
		wagers = append(wagers, wager)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating wagers: %w", err)
	}
	return wagers, nil
}

// MarkResolved moves a pending wager to won or lost. It returns false if the wager
// was not pending.
func (r *WagerRepository) MarkResolved(ctx context.Context, id int64, status entities.WagerStatus) (bool, error) {
	query := `
		UPDATE wagers
		SET status = $2, resolved_at = NOW()
		WHERE id = $1 AND status = 'pending'
	`

	tag, err := r.q.Exec(ctx, query, id, status)
	if err != nil {
		return false, fmt.Errorf("failed to resolve wager: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}
