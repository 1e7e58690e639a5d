package repository

import (
	"context"
	"fmt"

	"lottosettle/database"
	"lottosettle/domain/entities"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// AccountRepository implements the AccountRepository interface
type AccountRepository struct {
	q Queryable
}

// NewAccountRepository creates a new account repository
func NewAccountRepository(db *database.DB) *AccountRepository {
	return &AccountRepository{q: db.Pool}
}

// NewAccountRepositoryScoped creates a new account repository bound to a transaction
func NewAccountRepositoryScoped(tx Queryable) *AccountRepository {
	return &AccountRepository{q: tx}
}

const accountColumns = `
	id, username, role, available_amount, special_rate, referred_by,
	bank_name, bank_account_no, bank_account_name, created_at, updated_at`

func scanAccount(row pgx.Row) (*entities.Account, error) {
	var account entities.Account
	err := row.Scan(
		&account.ID,
		&account.Username,
		&account.Role,
		&account.AvailableAmount,
		&account.SpecialRate,
		&account.ReferredBy,
		&account.Bank.BankName,
		&account.Bank.AccountNo,
		&account.Bank.AccountName,
		&account.CreatedAt,
		&account.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &account, nil
}

// GetByID retrieves an account by ID
func (r *AccountRepository) GetByID(ctx context.Context, id int64) (*entities.Account, error) {
	return r.getOne(ctx, `SELECT `+accountColumns+` FROM accounts WHERE id = $1`, id)
}

// GetByIDForUpdate retrieves an account and locks its row until the transaction ends
func (r *AccountRepository) GetByIDForUpdate(ctx context.Context, id int64) (*entities.Account, error) {
	return r.getOne(ctx, `SELECT `+accountColumns+` FROM accounts WHERE id = $1 FOR UPDATE`, id)
}

func (r *AccountRepository) getOne(ctx context.Context, query string, args ...any) (*entities.Account, error) {
	account, err := scanAccount(r.q.QueryRow(ctx, query, args...))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	return account, nil
}

// Create inserts a new account
func (r *AccountRepository) Create(ctx context.Context, account *entities.Account) error {
	query := `
		INSERT INTO accounts (username, role, available_amount, special_rate, referred_by,
			bank_name, bank_account_no, bank_account_name)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at
	`

	role := account.Role
	if role == "" {
		role = entities.RoleCustomer
	}

	err := r.q.QueryRow(ctx, query,
		account.Username,
		role,
		account.AvailableAmount,
		account.SpecialRate,
		account.ReferredBy,
		account.Bank.BankName,
		account.Bank.AccountNo,
		account.Bank.AccountName,
	).Scan(&account.ID, &account.CreatedAt, &account.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create account: %w", err)
	}
	account.Role = role
	return nil
}

// Credit atomically increments the available amount and returns the new balance
func (r *AccountRepository) Credit(ctx context.Context, id int64, amount decimal.Decimal) (decimal.Decimal, error) {
	query := `
		UPDATE accounts
		SET available_amount = available_amount + $2, updated_at = NOW()
		WHERE id = $1
		RETURNING available_amount
	`

	var balance decimal.Decimal
	err := r.q.QueryRow(ctx, query, id, amount).Scan(&balance)
	if err == pgx.ErrNoRows {
		return decimal.Zero, &entities.NotFoundError{Resource: "account", ID: id}
	}
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to credit account: %w", err)
	}
	return balance, nil
}

// Debit atomically decrements the available amount when it covers the debit.
// The check and the update are one statement, so concurrent debits cannot overdraw.
func (r *AccountRepository) Debit(ctx context.Context, id int64, amount decimal.Decimal) (decimal.Decimal, error) {
	query := `
		UPDATE accounts
		SET available_amount = available_amount - $2, updated_at = NOW()
		WHERE id = $1 AND available_amount >= $2
		RETURNING available_amount
	`

	var balance decimal.Decimal
	err := r.q.QueryRow(ctx, query, id, amount).Scan(&balance)
	if err == nil {
		return balance, nil
	}
	if err != pgx.ErrNoRows {
		return decimal.Zero, fmt.Errorf("failed to debit account: %w", err)
	}

	// Zero rows: the account is missing or the balance is short
	var available decimal.Decimal
	err = r.q.QueryRow(ctx, `SELECT available_amount FROM accounts WHERE id = $1`, id).Scan(&available)
	if err == pgx.ErrNoRows {
		return decimal.Zero, &entities.NotFoundError{Resource: "account", ID: id}
	}
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to read balance after rejected debit: %w", err)
	}
	return decimal.Zero, &entities.InsufficientBalanceError{
		AccountID: id,
		Available: available,
		Required:  amount,
	}
}

// SetSpecialRate toggles the special-rate permission
func (r *AccountRepository) SetSpecialRate(ctx context.Context, id int64, enabled bool) error {
	tag, err := r.q.Exec(ctx, `UPDATE accounts SET special_rate = $2, updated_at = NOW() WHERE id = $1`, id, enabled)
	if err != nil {
		return fmt.Errorf("failed to set special rate: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return &entities.NotFoundError{Resource: "account", ID: id}
	}
	return nil
}

// UpdateBankDetails replaces the withdrawal counterparty
func (r *AccountRepository) UpdateBankDetails(ctx context.Context, id int64, details entities.BankDetails) error {
	query := `
		UPDATE accounts
		SET bank_name = $2, bank_account_no = $3, bank_account_name = $4, updated_at = NOW()
		WHERE id = $1
	`

	tag, err := r.q.Exec(ctx, query, id, details.BankName, details.AccountNo, details.AccountName)
	if err != nil {
		return fmt.Errorf("failed to update bank details: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return &entities.NotFoundError{Resource: "account", ID: id}
	}
	return nil
}

// CountReferrals returns how many accounts name the referrer
func (r *AccountRepository) CountReferrals(ctx context.Context, referrerID int64) (int64, error) {
	var count int64
	err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM accounts WHERE referred_by = $1`, referrerID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count referrals: %w", err)
	}
	return count, nil
}
