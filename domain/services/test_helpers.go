package services

import (
	"context"
	"testing"
	"time"

	"lottosettle/domain/entities"
	"lottosettle/domain/events"
	"lottosettle/domain/testhelpers"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// Test constants for consistent test data
const (
	TestGameType   = "thai"
	TestDrawNumber = "2024-16"
	TestDrawID     = int64(10)
	TestRequestID  = int64(500)
	TestWagerID    = int64(700)
	TestCustomerID = int64(100)
	TestReferrerID = int64(200)
	TestStaffID    = int64(900)
)

// TestMocks aggregates all repository mocks for testing
type TestMocks struct {
	AccountRepo      *testhelpers.MockAccountRepository
	DrawRepo         *testhelpers.MockDrawRepository
	RequestRepo      *testhelpers.MockFinancialRequestRepository
	WagerRepo        *testhelpers.MockWagerRepository
	LedgerRepo       *testhelpers.MockLedgerRepository
	SettingsRepo     *testhelpers.MockSettingsRepository
	SettingsProvider *testhelpers.MockSettingsProvider
	EventPublisher   *testhelpers.MockEventPublisher
}

// NewTestMocks creates a new set of mocks
func NewTestMocks() *TestMocks {
	return &TestMocks{
		AccountRepo:      &testhelpers.MockAccountRepository{},
		DrawRepo:         &testhelpers.MockDrawRepository{},
		RequestRepo:      &testhelpers.MockFinancialRequestRepository{},
		WagerRepo:        &testhelpers.MockWagerRepository{},
		LedgerRepo:       &testhelpers.MockLedgerRepository{},
		SettingsRepo:     &testhelpers.MockSettingsRepository{},
		SettingsProvider: &testhelpers.MockSettingsProvider{},
		EventPublisher:   &testhelpers.MockEventPublisher{},
	}
}

// AssertAllExpectations verifies all mock expectations were met
func (m *TestMocks) AssertAllExpectations(t *testing.T) {
	m.AccountRepo.AssertExpectations(t)
	m.DrawRepo.AssertExpectations(t)
	m.RequestRepo.AssertExpectations(t)
	m.WagerRepo.AssertExpectations(t)
	m.LedgerRepo.AssertExpectations(t)
	m.SettingsRepo.AssertExpectations(t)
	m.SettingsProvider.AssertExpectations(t)
	m.EventPublisher.AssertExpectations(t)
}

// MockHelper provides common mock setup patterns
type MockHelper struct {
	mocks *TestMocks
	ctx   context.Context
}

// NewMockHelper creates a new mock helper
func NewMockHelper(mocks *TestMocks) *MockHelper {
	return &MockHelper{
		mocks: mocks,
		ctx:   context.Background(),
	}
}

// ExpectAccountLookup sets up account repository mock expectations
func (h *MockHelper) ExpectAccountLookup(account *entities.Account) {
	h.mocks.AccountRepo.On("GetByID", mock.Anything, account.ID).Return(account, nil)
}

// ExpectAccountNotFound sets up account repository mock to return not found
func (h *MockHelper) ExpectAccountNotFound(accountID int64) {
	h.mocks.AccountRepo.On("GetByID", mock.Anything, accountID).Return(nil, nil)
}

// ExpectRequestLookup sets up financial request repository mock expectations
func (h *MockHelper) ExpectRequestLookup(req *entities.FinancialRequest) {
	h.mocks.RequestRepo.On("GetByID", mock.Anything, req.ID).Return(req, nil)
}

// ExpectComplete sets up the completion compare-and-set
func (h *MockHelper) ExpectComplete(requestID int64, status entities.RequestStatus, actingID int64, won bool) {
	h.mocks.RequestRepo.On("CompleteIfPending", mock.Anything, requestID, status, actingID).Return(won, nil)
}

// ExpectCredit sets up an atomic credit returning the new balance
func (h *MockHelper) ExpectCredit(accountID int64, amount, balanceAfter string) {
	h.mocks.AccountRepo.On("Credit", mock.Anything, accountID, decimalArg(amount)).
		Return(decimal.RequireFromString(balanceAfter), nil).Once()
}

// ExpectDebit sets up an atomic debit returning the new balance
func (h *MockHelper) ExpectDebit(accountID int64, amount, balanceAfter string) {
	h.mocks.AccountRepo.On("Debit", mock.Anything, accountID, decimalArg(amount)).
		Return(decimal.RequireFromString(balanceAfter), nil).Once()
}

// ExpectLedgerAppend accepts any number of ledger appends and assigns sequential IDs
func (h *MockHelper) ExpectLedgerAppend() {
	var next int64
	h.mocks.LedgerRepo.On("Append", mock.Anything, mock.AnythingOfType("*entities.LedgerEntry")).
		Run(func(args mock.Arguments) {
			next++
			entry := args.Get(1).(*entities.LedgerEntry)
			entry.ID = next
			entry.CreatedAt = time.Now()
		}).Return(nil)
}

// ExpectEventPublish sets up event publisher mock expectations
func (h *MockHelper) ExpectEventPublish(eventType events.EventType) {
	h.mocks.EventPublisher.On("Publish", mock.MatchedBy(func(e events.Event) bool {
		return e.Type() == eventType
	})).Return(nil)
}

// ExpectRequestCreate assigns an ID to created requests
func (h *MockHelper) ExpectRequestCreate(id int64) {
	h.mocks.RequestRepo.On("Create", mock.Anything, mock.AnythingOfType("*entities.FinancialRequest")).
		Run(func(args mock.Arguments) {
			args.Get(1).(*entities.FinancialRequest).ID = id
		}).Return(nil).Once()
}

// decimalArg matches a decimal argument by value rather than representation
func decimalArg(value string) interface{} {
	want := decimal.RequireFromString(value)
	return mock.MatchedBy(func(d decimal.Decimal) bool {
		return d.Equal(want)
	})
}

// ledgerEntriesFor collects the entries appended to the ledger mock
func ledgerEntriesFor(m *testhelpers.MockLedgerRepository) []*entities.LedgerEntry {
	var out []*entities.LedgerEntry
	for _, call := range m.Calls {
		if call.Method == "Append" {
			out = append(out, call.Arguments.Get(1).(*entities.LedgerEntry))
		}
	}
	return out
}
