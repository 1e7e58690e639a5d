package testutil

import (
	"context"
	"sync"
	"testing"
	"time"

	"lottosettle/domain/entities"
	"lottosettle/domain/events"
	"lottosettle/domain/interfaces"

	"github.com/shopspring/decimal"
)

// CreateTestAccount creates a customer account with the given balance
func CreateTestAccount(username string, balance string) *entities.Account {
	return &entities.Account{
		Username:        username,
		Role:            entities.RoleCustomer,
		AvailableAmount: decimal.RequireFromString(balance),
		Bank: entities.BankDetails{
			BankName:    "SCB",
			AccountNo:   "123-4-56789-0",
			AccountName: username,
		},
	}
}

// CreateTestDraw creates an unpublished draw whose last betting day is the given date
func CreateTestDraw(gameType, drawNumber string, lastBettingDay time.Time) *entities.Draw {
	return &entities.Draw{
		GameType:       gameType,
		DrawNumber:     drawNumber,
		LastBettingDay: time.Date(lastBettingDay.Year(), lastBettingDay.Month(), lastBettingDay.Day(), 0, 0, 0, 0, time.UTC),
	}
}

// CreateTestRequest creates a pending request of any kind
func CreateTestRequest(kind entities.RequestKind, accountID int64, amount string) *entities.FinancialRequest {
	value := decimal.RequireFromString(amount)
	return &entities.FinancialRequest{
		Kind:            kind,
		AccountID:       accountID,
		Amount:          value,
		ProcessedAmount: value,
		Status:          entities.RequestStatusPending,
	}
}

// CreateTestWithdrawal creates a pending withdrawal with its fee already split off
func CreateTestWithdrawal(accountID int64, amount, fee string) *entities.FinancialRequest {
	req := CreateTestRequest(entities.RequestKindWithdrawal, accountID, amount)
	req.Fee = decimal.RequireFromString(fee)
	req.ProcessedAmount = req.Amount.Sub(req.Fee)
	req.Method = "SCB 123-4-56789-0 (test)"
	return req
}

// CreateTestWager creates a pending wager on a draw
func CreateTestWager(accountID, drawID int64, subType entities.SubType, numeral, stake string) *entities.Wager {
	value := decimal.RequireFromString(stake)
	return &entities.Wager{
		AccountID:       accountID,
		DrawID:          drawID,
		SubType:         subType,
		Numeral:         numeral,
		Stake:           value,
		Price:           value,
		DiscountPercent: decimal.Zero,
		PayoutPercent:   decimal.NewFromInt(9000),
		DiscountTier:    entities.DiscountTierStandard,
		Status:          entities.WagerStatusPending,
		PlacedAt:        time.Now().UTC(),
	}
}

// CreateTestSettings creates game settings with a flat 10% discount on every sub-type
func CreateTestSettings(gameType string) *entities.GameSettings {
	rates := make(entities.RateTable)
	for _, st := range entities.AllSubTypes() {
		rates[st] = entities.Rate{
			SubType:          st,
			StandardDiscount: decimal.NewFromInt(10),
			SpecialDiscount:  decimal.NewFromInt(25),
			LastDayDiscount:  decimal.NewFromInt(15),
			PayoutPercent:    decimal.NewFromInt(9000),
		}
	}
	return &entities.GameSettings{
		GameType:               gameType,
		Rates:                  rates,
		LastDayDiscountEnabled: true,
		LastDayCutoffHour:      18,
		LastDayCutoffMinute:    30,
		TimeZone:               "Asia/Bangkok",
		WithdrawalFeePercent:   decimal.NewFromInt(2),
		BonusRules: []entities.BonusRule{
			{Kind: entities.BonusKindRecharge, TargetValue: decimal.NewFromInt(500), BonusValue: decimal.NewFromInt(50)},
			{Kind: entities.BonusKindReferral, TargetValue: decimal.NewFromInt(3), BonusValue: decimal.NewFromInt(30)},
		},
	}
}

// RecordingPublisher is a transactional publisher that keeps flushed events in memory
type RecordingPublisher struct {
	mu        sync.Mutex
	pending   []events.Event
	Published []events.Event
	Discarded int
}

// NewRecordingPublisher creates an empty recording publisher
func NewRecordingPublisher() *RecordingPublisher {
	return &RecordingPublisher{}
}

func (p *RecordingPublisher) Publish(event events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.pending = append(p.pending, event)
	return nil
}

func (p *RecordingPublisher) Flush(_ context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Published = append(p.Published, p.pending...)
	p.pending = nil
	return nil
}

func (p *RecordingPublisher) Discard() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Discarded += len(p.pending)
	p.pending = nil
}

// PublishedTypes returns the types of every flushed event in order
func (p *RecordingPublisher) PublishedTypes() []events.EventType {
	p.mu.Lock()
	defer p.mu.Unlock()
	types := make([]events.EventType, 0, len(p.Published))
	for _, e := range p.Published {
		types = append(types, e.Type())
	}
	return types
}

// MustCreateAccount inserts an account through the given creator or fails the test
func MustCreateAccount(t *testing.T, ctx context.Context, create func(context.Context, *entities.Account) error, account *entities.Account) *entities.Account {
	t.Helper()
	if err := create(ctx, account); err != nil {
		t.Fatalf("failed to create account %s: %v", account.Username, err)
	}
	return account
}

// SeedSettings writes a full settings snapshot through the repository or fails the test
func SeedSettings(t *testing.T, ctx context.Context, repo interfaces.SettingsRepository, settings *entities.GameSettings) {
	t.Helper()
	if err := repo.UpsertGameSettings(ctx, settings); err != nil {
		t.Fatalf("failed to seed game settings: %v", err)
	}
	for _, rate := range settings.Rates {
		if err := repo.UpsertRate(ctx, settings.GameType, rate); err != nil {
			t.Fatalf("failed to seed rate %s: %v", rate.SubType, err)
		}
	}
	if err := repo.ReplaceBonusRules(ctx, settings.GameType, settings.BonusRules); err != nil {
		t.Fatalf("failed to seed bonus rules: %v", err)
	}
}
