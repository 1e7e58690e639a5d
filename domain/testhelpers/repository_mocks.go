package testhelpers

import (
	"context"

	"lottosettle/domain/entities"
	"lottosettle/domain/events"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// MockAccountRepository is a mock implementation of AccountRepository
type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) GetByID(ctx context.Context, id int64) (*entities.Account, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Account), args.Error(1)
}

func (m *MockAccountRepository) GetByIDForUpdate(ctx context.Context, id int64) (*entities.Account, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Account), args.Error(1)
}

func (m *MockAccountRepository) Create(ctx context.Context, account *entities.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) Credit(ctx context.Context, id int64, amount decimal.Decimal) (decimal.Decimal, error) {
	args := m.Called(ctx, id, amount)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockAccountRepository) Debit(ctx context.Context, id int64, amount decimal.Decimal) (decimal.Decimal, error) {
	args := m.Called(ctx, id, amount)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockAccountRepository) SetSpecialRate(ctx context.Context, id int64, enabled bool) error {
	args := m.Called(ctx, id, enabled)
	return args.Error(0)
}

func (m *MockAccountRepository) UpdateBankDetails(ctx context.Context, id int64, details entities.BankDetails) error {
	args := m.Called(ctx, id, details)
	return args.Error(0)
}

func (m *MockAccountRepository) CountReferrals(ctx context.Context, referrerID int64) (int64, error) {
	args := m.Called(ctx, referrerID)
	return args.Get(0).(int64), args.Error(1)
}

// MockDrawRepository is a mock implementation of DrawRepository
type MockDrawRepository struct {
	mock.Mock
}

func (m *MockDrawRepository) Create(ctx context.Context, draw *entities.Draw) error {
	args := m.Called(ctx, draw)
	return args.Error(0)
}

func (m *MockDrawRepository) GetByID(ctx context.Context, id int64) (*entities.Draw, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Draw), args.Error(1)
}

func (m *MockDrawRepository) GetByIDForUpdate(ctx context.Context, id int64) (*entities.Draw, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Draw), args.Error(1)
}

func (m *MockDrawRepository) GetByGameAndNumber(ctx context.Context, gameType, drawNumber string) (*entities.Draw, error) {
	args := m.Called(ctx, gameType, drawNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Draw), args.Error(1)
}

func (m *MockDrawRepository) SaveResult(ctx context.Context, draw *entities.Draw) error {
	args := m.Called(ctx, draw)
	return args.Error(0)
}

func (m *MockDrawRepository) SetLocked(ctx context.Context, id int64, locked bool) error {
	args := m.Called(ctx, id, locked)
	return args.Error(0)
}

// MockFinancialRequestRepository is a mock implementation of FinancialRequestRepository
type MockFinancialRequestRepository struct {
	mock.Mock
}

func (m *MockFinancialRequestRepository) Create(ctx context.Context, request *entities.FinancialRequest) error {
	args := m.Called(ctx, request)
	return args.Error(0)
}

func (m *MockFinancialRequestRepository) GetByID(ctx context.Context, id int64) (*entities.FinancialRequest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.FinancialRequest), args.Error(1)
}

func (m *MockFinancialRequestRepository) GetByWagerID(ctx context.Context, wagerID int64) (*entities.FinancialRequest, error) {
	args := m.Called(ctx, wagerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.FinancialRequest), args.Error(1)
}

func (m *MockFinancialRequestRepository) CompleteIfPending(ctx context.Context, id int64, status entities.RequestStatus, decidedBy int64) (bool, error) {
	args := m.Called(ctx, id, status, decidedBy)
	return args.Bool(0), args.Error(1)
}

func (m *MockFinancialRequestRepository) ListPending(ctx context.Context, kind entities.RequestKind, limit int) ([]*entities.FinancialRequest, error) {
	args := m.Called(ctx, kind, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.FinancialRequest), args.Error(1)
}

// MockWagerRepository is a mock implementation of WagerRepository
type MockWagerRepository struct {
	mock.Mock
}

func (m *MockWagerRepository) Create(ctx context.Context, wager *entities.Wager) error {
	args := m.Called(ctx, wager)
	return args.Error(0)
}

func (m *MockWagerRepository) GetByID(ctx context.Context, id int64) (*entities.Wager, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Wager), args.Error(1)
}

func (m *MockWagerRepository) ListPendingByDraw(ctx context.Context, drawID int64) ([]*entities.Wager, error) {
	args := m.Called(ctx, drawID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Wager), args.Error(1)
}

func (m *MockWagerRepository) MarkResolved(ctx context.Context, id int64, status entities.WagerStatus) (bool, error) {
	args := m.Called(ctx, id, status)
	return args.Bool(0), args.Error(1)
}

// MockLedgerRepository is a mock implementation of LedgerRepository
type MockLedgerRepository struct {
	mock.Mock
}

func (m *MockLedgerRepository) Append(ctx context.Context, entry *entities.LedgerEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockLedgerRepository) ListByAccount(ctx context.Context, accountID int64, limit, offset int) ([]*entities.LedgerEntry, error) {
	args := m.Called(ctx, accountID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.LedgerEntry), args.Error(1)
}

func (m *MockLedgerRepository) ListByRequest(ctx context.Context, requestID int64) ([]*entities.LedgerEntry, error) {
	args := m.Called(ctx, requestID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.LedgerEntry), args.Error(1)
}

// MockSettingsRepository is a mock implementation of SettingsRepository
type MockSettingsRepository struct {
	mock.Mock
}

func (m *MockSettingsRepository) LoadSnapshot(ctx context.Context, gameType string) (*entities.GameSettings, error) {
	args := m.Called(ctx, gameType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.GameSettings), args.Error(1)
}

func (m *MockSettingsRepository) UpsertGameSettings(ctx context.Context, settings *entities.GameSettings) error {
	args := m.Called(ctx, settings)
	return args.Error(0)
}

func (m *MockSettingsRepository) UpsertRate(ctx context.Context, gameType string, rate entities.Rate) error {
	args := m.Called(ctx, gameType, rate)
	return args.Error(0)
}

func (m *MockSettingsRepository) ReplaceBonusRules(ctx context.Context, gameType string, rules []entities.BonusRule) error {
	args := m.Called(ctx, gameType, rules)
	return args.Error(0)
}

// MockSettingsProvider is a mock implementation of SettingsProvider
type MockSettingsProvider struct {
	mock.Mock
}

func (m *MockSettingsProvider) Snapshot(ctx context.Context, gameType string) (*entities.GameSettings, error) {
	args := m.Called(ctx, gameType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.GameSettings), args.Error(1)
}

func (m *MockSettingsProvider) Invalidate(ctx context.Context, gameType string) error {
	args := m.Called(ctx, gameType)
	return args.Error(0)
}

// MockEventPublisher is a mock implementation of EventPublisher for testing
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(event events.Event) error {
	args := m.Called(event)
	return args.Error(0)
}
