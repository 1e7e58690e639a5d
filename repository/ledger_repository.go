package repository

import (
	"context"
	"fmt"

	"lottosettle/database"
	"lottosettle/domain/entities"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// LedgerRepository implements the LedgerRepository interface.
// Entries are insert-only; the table rejects updates and deletes.
type LedgerRepository struct {
	q Queryable
}

// NewLedgerRepository creates a new ledger repository
func NewLedgerRepository(db *database.DB) *LedgerRepository {
	return &LedgerRepository{q: db.Pool}
}

// NewLedgerRepositoryScoped creates a new ledger repository bound to a transaction
func NewLedgerRepositoryScoped(tx Queryable) *LedgerRepository {
	return &LedgerRepository{q: tx}
}

const ledgerColumns = `
	id, field_name, delta, amount, balance_after, collection, category,
	for_account_id, by_account_id, request_id, description, created_at`

func scanLedgerEntry(row pgx.Row) (*entities.LedgerEntry, error) {
	var entry entities.LedgerEntry
	var amount, balanceAfter decimal.NullDecimal
	err := row.Scan(
		&entry.ID,
		&entry.FieldName,
		&entry.Delta,
		&amount,
		&balanceAfter,
		&entry.Collection,
		&entry.Category,
		&entry.ForAccountID,
		&entry.ByAccountID,
		&entry.RequestID,
		&entry.Description,
		&entry.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if amount.Valid {
		entry.Amount = &amount.Decimal
	}
	if balanceAfter.Valid {
		entry.BalanceAfter = &balanceAfter.Decimal
	}
	return &entry, nil
}

func nullDecimal(d *decimal.Decimal) decimal.NullDecimal {
	if d == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(*d)
}

// Append inserts one entry and fills its ID and timestamp
func (r *LedgerRepository) Append(ctx context.Context, entry *entities.LedgerEntry) error {
	query := `
		INSERT INTO ledger_entries (field_name, delta, amount, balance_after, collection, category,
			for_account_id, by_account_id, request_id, description)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at
	`

	err := r.q.QueryRow(ctx, query,
		entry.FieldName,
		entry.Delta,
		nullDecimal(entry.Amount),
		nullDecimal(entry.BalanceAfter),
		entry.Collection,
		entry.Category,
		entry.ForAccountID,
		entry.ByAccountID,
		entry.RequestID,
		entry.Description,
	).Scan(&entry.ID, &entry.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to append ledger entry: %w", err)
	}
	return nil
}

// ListByAccount returns an account's entries, newest first
func (r *LedgerRepository) ListByAccount(ctx context.Context, accountID int64, limit, offset int) ([]*entities.LedgerEntry, error) {
	query := `
		SELECT ` + ledgerColumns + `
		FROM ledger_entries
		WHERE for_account_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3
	`
	return r.list(ctx, query, accountID, limit, offset)
}

// ListByRequest returns the entries written by one settlement in insertion order
func (r *LedgerRepository) ListByRequest(ctx context.Context, requestID int64) ([]*entities.LedgerEntry, error) {
	query := `
		SELECT ` + ledgerColumns + `
		FROM ledger_entries
		WHERE request_id = $1
		ORDER BY id
	`
	return r.list(ctx, query, requestID)
}

func (r *LedgerRepository) list(ctx context.Context, query string, args ...any) ([]*entities.LedgerEntry, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query ledger entries: %w", err)
	}
	defer rows.Close()

	var entries []*entities.LedgerEntry
	for rows.Next() {
		entry, err := scanLedgerEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan ledger entry: %w", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating ledger entries: %w", err)
	}
	return entries, nil
}
