package repository

import (
	"context"
	"fmt"

	"lottosettle/database"
	"lottosettle/domain/entities"

	"github.com/jackc/pgx/v5"
)

// FinancialRequestRepository implements the FinancialRequestRepository interface
type FinancialRequestRepository struct {
	q Queryable
}

// NewFinancialRequestRepository creates a new financial request repository
func NewFinancialRequestRepository(db *database.DB) *FinancialRequestRepository {
	return &FinancialRequestRepository{q: db.Pool}
}

// NewFinancialRequestRepositoryScoped creates a new financial request repository bound to a transaction
func NewFinancialRequestRepositoryScoped(tx Queryable) *FinancialRequestRepository {
	return &FinancialRequestRepository{q: tx}
}

const financialRequestColumns = `
	id, kind, account_id, amount, fee, processed_amount, method, wager_id, bonus_kind,
	status, is_completed, decided_by, decided_at, created_at`

func scanFinancialRequest(row pgx.Row) (*entities.FinancialRequest, error) {
	var req entities.FinancialRequest
	err := row.Scan(
		&req.ID,
		&req.Kind,
		&req.AccountID,
		&req.Amount,
		&req.Fee,
		&req.ProcessedAmount,
		&req.Method,
		&req.WagerID,
		&req.BonusKind,
		&req.Status,
		&req.IsCompleted,
		&req.DecidedBy,
		&req.DecidedAt,
		&req.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &req, nil
}

// Create inserts a new pending request
func (r *FinancialRequestRepository) Create(ctx context.Context, request *entities.FinancialRequest) error {
	query := `
		INSERT INTO financial_requests (kind, account_id, amount, fee, processed_amount, method, wager_id, bonus_kind)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, status, is_completed, created_at
	`

	err := r.q.QueryRow(ctx, query,
		request.Kind,
		request.AccountID,
		request.Amount,
		request.Fee,
		request.ProcessedAmount,
		request.Method,
		request.WagerID,
		request.BonusKind,
	).Scan(&request.ID, &request.Status, &request.IsCompleted, &request.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create financial request: %w", err)
	}
	return nil
}

// GetByID retrieves a request by ID
func (r *FinancialRequestRepository) GetByID(ctx context.Context, id int64) (*entities.FinancialRequest, error) {
	query := `SELECT ` + financialRequestColumns + ` FROM financial_requests WHERE id = $1`

	req, err := scanFinancialRequest(r.q.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get financial request: %w", err)
	}
	return req, nil
}

// GetByWagerID retrieves the settlement request created for a wager, if any
func (r *FinancialRequestRepository) GetByWagerID(ctx context.Context, wagerID int64) (*entities.FinancialRequest, error) {
	query := `SELECT ` + financialRequestColumns + ` FROM financial_requests WHERE wager_id = $1`

	req, err := scanFinancialRequest(r.q.QueryRow(ctx, query, wagerID))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get financial request by wager: %w", err)
	}
	return req, nil
}

// CompleteIfPending marks the request completed only if no decision has been applied yet.
// It returns false when another settle already won the row.
func (r *FinancialRequestRepository) CompleteIfPending(ctx context.Context, id int64, status entities.RequestStatus, decidedBy int64) (bool, error) {
	query := `
		UPDATE financial_requests
		SET is_completed = TRUE, status = $2, decided_by = $3, decided_at = NOW()
		WHERE id = $1 AND is_completed = FALSE
	`

	tag, err := r.q.Exec(ctx, query, id, status, decidedBy)
	if err != nil {
		return false, fmt.Errorf("failed to complete financial request: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// ListPending returns the oldest pending requests of a kind
func (r *FinancialRequestRepository) ListPending(ctx context.Context, kind entities.RequestKind, limit int) ([]*entities.FinancialRequest, error) {
	query := `
		SELECT ` + financialRequestColumns + `
		FROM financial_requests
		WHERE kind = $1 AND is_completed = FALSE
		ORDER BY created_at, id
		LIMIT $2
	`

	rows, err := r.q.Query(ctx, query, kind, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending requests: %w", err)
	}
	defer rows.Close()

	var requests []*entities.FinancialRequest
	for rows.Next() {
		req, err := scanFinancialRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan financial request: %w", err)
		}
		requests = append(requests, req)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating financial requests: %w", err)
	}
	return requests, nil
}
