package repository

import (
	"context"
	"fmt"
	"time"

	"lottosettle/database"
	"lottosettle/domain/entities"

	"github.com/jackc/pgx/v5"
)

// SettingsRepository implements the SettingsRepository interface over
// game_settings, rate_entries and bonus_rules
type SettingsRepository struct {
	q Queryable
}

// NewSettingsRepository creates a new settings repository
func NewSettingsRepository(db *database.DB) *SettingsRepository {
	return &SettingsRepository{q: db.Pool}
}

// NewSettingsRepositoryScoped creates a new settings repository bound to a transaction
func NewSettingsRepositoryScoped(tx Queryable) *SettingsRepository {
	return &SettingsRepository{q: tx}
}

// LoadSnapshot reads game settings, the rate table and the bonus rules of a game type.
// It returns nil when the game type has no settings row.
func (r *SettingsRepository) LoadSnapshot(ctx context.Context, gameType string) (*entities.GameSettings, error) {
	query := `
		SELECT game_type, last_day_discount_enabled, last_day_cutoff_hour, last_day_cutoff_minute,
			time_zone, withdrawal_fee_percent
		FROM game_settings
		WHERE game_type = $1
	`

	settings := &entities.GameSettings{
		Rates:    make(entities.RateTable),
		LoadedAt: time.Now().UTC(),
	}
	var hour, minute int16
	err := r.q.QueryRow(ctx, query, gameType).Scan(
		&settings.GameType,
		&settings.LastDayDiscountEnabled,
		&hour,
		&minute,
		&settings.TimeZone,
		&settings.WithdrawalFeePercent,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get game settings: %w", err)
	}
	settings.LastDayCutoffHour = int(hour)
	settings.LastDayCutoffMinute = int(minute)

	if err := r.loadRates(ctx, settings); err != nil {
		return nil, err
	}
	if err := r.loadBonusRules(ctx, settings); err != nil {
		return nil, err
	}
	return settings, nil
}

func (r *SettingsRepository) loadRates(ctx context.Context, settings *entities.GameSettings) error {
	query := `
		SELECT sub_type, standard_discount, special_discount, last_day_discount, payout_percent
		FROM rate_entries
		WHERE game_type = $1
	`

	rows, err := r.q.Query(ctx, query, settings.GameType)
	if err != nil {
		return fmt.Errorf("failed to query rate entries: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var rate entities.Rate
		if err := rows.Scan(
			&rate.SubType,
			&rate.StandardDiscount,
			&rate.SpecialDiscount,
			&rate.LastDayDiscount,
			&rate.PayoutPercent,
		); err != nil {
			return fmt.Errorf("failed to scan rate entry: %w", err)
		}
		settings.Rates[rate.SubType] = rate
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating rate entries: %w", err)
	}
	return nil
}

func (r *SettingsRepository) loadBonusRules(ctx context.Context, settings *entities.GameSettings) error {
	query := `
		SELECT id, kind, target_value, bonus_value
		FROM bonus_rules
		WHERE game_type = $1
		ORDER BY position, id
	`

	rows, err := r.q.Query(ctx, query, settings.GameType)
	if err != nil {
		return fmt.Errorf("failed to query bonus rules: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var rule entities.BonusRule
		if err := rows.Scan(&rule.ID, &rule.Kind, &rule.TargetValue, &rule.BonusValue); err != nil {
			return fmt.Errorf("failed to scan bonus rule: %w", err)
		}
		settings.BonusRules = append(settings.BonusRules, rule)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating bonus rules: %w", err)
	}
	return nil
}

// UpsertGameSettings writes the game-level fields
func (r *SettingsRepository) UpsertGameSettings(ctx context.Context, settings *entities.GameSettings) error {
	query := `
		INSERT INTO game_settings (game_type, last_day_discount_enabled, last_day_cutoff_hour,
			last_day_cutoff_minute, time_zone, withdrawal_fee_percent)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (game_type) DO UPDATE SET
			last_day_discount_enabled = EXCLUDED.last_day_discount_enabled,
			last_day_cutoff_hour = EXCLUDED.last_day_cutoff_hour,
			last_day_cutoff_minute = EXCLUDED.last_day_cutoff_minute,
			time_zone = EXCLUDED.time_zone,
			withdrawal_fee_percent = EXCLUDED.withdrawal_fee_percent,
			updated_at = NOW()
	`

	timeZone := settings.TimeZone
	if timeZone == "" {
		timeZone = "UTC"
	}

	_, err := r.q.Exec(ctx, query,
		settings.GameType,
		settings.LastDayDiscountEnabled,
		int16(settings.LastDayCutoffHour),
		int16(settings.LastDayCutoffMinute),
		timeZone,
		settings.WithdrawalFeePercent,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert game settings: %w", err)
	}
	return nil
}

// UpsertRate writes one rate table row. The game type must already have settings.
func (r *SettingsRepository) UpsertRate(ctx context.Context, gameType string, rate entities.Rate) error {
	query := `
		INSERT INTO rate_entries (game_type, sub_type, standard_discount, special_discount,
			last_day_discount, payout_percent)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (game_type, sub_type) DO UPDATE SET
			standard_discount = EXCLUDED.standard_discount,
			special_discount = EXCLUDED.special_discount,
			last_day_discount = EXCLUDED.last_day_discount,
			payout_percent = EXCLUDED.payout_percent
	`

	_, err := r.q.Exec(ctx, query,
		gameType,
		rate.SubType,
		rate.StandardDiscount,
		rate.SpecialDiscount,
		rate.LastDayDiscount,
		rate.PayoutPercent,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert rate entry: %w", err)
	}
	return nil
}

// ReplaceBonusRules deletes the game type's rules and inserts the new list in order.
// Run it inside a unit of work so readers never see a partial table.
func (r *SettingsRepository) ReplaceBonusRules(ctx context.Context, gameType string, rules []entities.BonusRule) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM bonus_rules WHERE game_type = $1`, gameType); err != nil {
		return fmt.Errorf("failed to clear bonus rules: %w", err)
	}

	query := `
		INSERT INTO bonus_rules (game_type, kind, target_value, bonus_value, position)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	for i := range rules {
		err := r.q.QueryRow(ctx, query,
			gameType,
			rules[i].Kind,
			rules[i].TargetValue,
			rules[i].BonusValue,
			i,
		).Scan(&rules[i].ID)
		if err != nil {
			return fmt.Errorf("failed to insert bonus rule %d: %w", i, err)
		}
	}
	return nil
}
