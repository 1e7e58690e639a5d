package repository

import (
	"context"
	"fmt"

	"lottosettle/database"
	"lottosettle/domain/entities"

	"github.com/jackc/pgx/v5"
)

// DrawRepository implements the DrawRepository interface
type DrawRepository struct {
	q Queryable
}

// NewDrawRepository creates a new draw repository
func NewDrawRepository(db *database.DB) *DrawRepository {
	return &DrawRepository{q: db.Pool}
}

// NewDrawRepositoryScoped creates a new draw repository bound to a transaction
func NewDrawRepositoryScoped(tx Queryable) *DrawRepository {
	return &DrawRepository{q: tx}
}

const drawColumns = `
	id, game_type, draw_number, last_betting_day, straight_result, secondary_result,
	three_up_straight, three_up_rumble, two_up_straight, secondary_straight,
	three_up_digits, two_up_digits, secondary_digits,
	three_up_total, two_up_total, secondary_total,
	locked, published_at, created_at, updated_at`

func scanDraw(row pgx.Row) (*entities.Draw, error) {
	var draw entities.Draw
	var straight, secondary *string
	var threeUp, twoUp, secondaryStraight *string
	var threeUpTotal, twoUpTotal, secondaryTotal *string
	var derived entities.DerivedResult

	err := row.Scan(
		&draw.ID,
		&draw.GameType,
		&draw.DrawNumber,
		&draw.LastBettingDay,
		&straight,
		&secondary,
		&threeUp,
		&derived.ThreeUpRumble,
		&twoUp,
		&secondaryStraight,
		&derived.ThreeUpDigits,
		&derived.TwoUpDigits,
		&derived.SecondaryDigits,
		&threeUpTotal,
		&twoUpTotal,
		&secondaryTotal,
		&draw.Locked,
		&draw.PublishedAt,
		&draw.CreatedAt,
		&draw.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	draw.StraightResult = deref(straight)
	draw.SecondaryResult = deref(secondary)
	if draw.PublishedAt != nil {
		derived.ThreeUpStraight = deref(threeUp)
		derived.TwoUpStraight = deref(twoUp)
		derived.SecondaryStraight = deref(secondaryStraight)
		derived.ThreeUpTotal = deref(threeUpTotal)
		derived.TwoUpTotal = deref(twoUpTotal)
		derived.SecondaryTotal = deref(secondaryTotal)
		draw.Derived = &derived
	}
	return &draw, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// Create inserts a new draw with no result
func (r *DrawRepository) Create(ctx context.Context, draw *entities.Draw) error {
	query := `
		INSERT INTO draws (game_type, draw_number, last_betting_day, locked)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`

	err := r.q.QueryRow(ctx, query,
		draw.GameType,
		draw.DrawNumber,
		draw.LastBettingDay,
		draw.Locked,
	).Scan(&draw.ID, &draw.CreatedAt, &draw.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create draw: %w", err)
	}
	return nil
}

// GetByID retrieves a draw by ID
func (r *DrawRepository) GetByID(ctx context.Context, id int64) (*entities.Draw, error) {
	return r.getOne(ctx, `SELECT `+drawColumns+` FROM draws WHERE id = $1`, id)
}

// GetByIDForUpdate retrieves a draw and locks its row until the transaction ends
func (r *DrawRepository) GetByIDForUpdate(ctx context.Context, id int64) (*entities.Draw, error) {
	return r.getOne(ctx, `SELECT `+drawColumns+` FROM draws WHERE id = $1 FOR UPDATE`, id)
}

// GetByGameAndNumber retrieves a draw by its natural key
func (r *DrawRepository) GetByGameAndNumber(ctx context.Context, gameType, drawNumber string) (*entities.Draw, error) {
	return r.getOne(ctx, `SELECT `+drawColumns+` FROM draws WHERE game_type = $1 AND draw_number = $2`, gameType, drawNumber)
}

func (r *DrawRepository) getOne(ctx context.Context, query string, args ...any) (*entities.Draw, error) {
	draw, err := scanDraw(r.q.QueryRow(ctx, query, args...))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get draw: %w", err)
	}
	return draw, nil
}

// SaveResult stores the raw and derived result. A locked draw is never written.
func (r *DrawRepository) SaveResult(ctx context.Context, draw *entities.Draw) error {
	if draw.Derived == nil {
		return fmt.Errorf("draw %d has no derived result", draw.ID)
	}
	d := draw.Derived

	query := `
		UPDATE draws SET
			straight_result = $2,
			secondary_result = $3,
			three_up_straight = $4,
			three_up_rumble = $5,
			two_up_straight = $6,
			secondary_straight = $7,
			three_up_digits = $8,
			two_up_digits = $9,
			secondary_digits = $10,
			three_up_total = $11,
			two_up_total = $12,
			secondary_total = $13,
			published_at = $14,
			updated_at = NOW()
		WHERE id = $1 AND locked = FALSE
		RETURNING updated_at
	`

	err := r.q.QueryRow(ctx, query,
		draw.ID,
		draw.StraightResult,
		draw.SecondaryResult,
		d.ThreeUpStraight,
		nonNil(d.ThreeUpRumble),
		d.TwoUpStraight,
		d.SecondaryStraight,
		nonNil(d.ThreeUpDigits),
		nonNil(d.TwoUpDigits),
		nonNil(d.SecondaryDigits),
		d.ThreeUpTotal,
		d.TwoUpTotal,
		d.SecondaryTotal,
		draw.PublishedAt,
	).Scan(&draw.UpdatedAt)
	if err == pgx.ErrNoRows {
		return &entities.DrawLockedError{DrawID: draw.ID}
	}
	if err != nil {
		return fmt.Errorf("failed to save draw result: %w", err)
	}
	return nil
}

// SetLocked sets the edit lock
func (r *DrawRepository) SetLocked(ctx context.Context, id int64, locked bool) error {
	tag, err := r.q.Exec(ctx, `UPDATE draws SET locked = $2, updated_at = NOW() WHERE id = $1`, id, locked)
	if err != nil {
		return fmt.Errorf("failed to set draw lock: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return &entities.NotFoundError{Resource: "draw", ID: id}
	}
	return nil
}

// nonNil keeps NOT NULL array columns from receiving NULL
func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
