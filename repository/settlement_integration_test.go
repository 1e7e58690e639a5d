package repository

import (
	"context"
	"sync"
	"testing"

	"lottosettle/domain/entities"
	"lottosettle/domain/events"
	"lottosettle/domain/interfaces"
	"lottosettle/domain/services"
	"lottosettle/repository/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// settleInUnitOfWork runs one settlement the way the application layer does
func settleInUnitOfWork(ctx context.Context, t *testing.T, testDB *testutil.TestDatabase, publisher *testutil.RecordingPublisher, requestID int64, decision entities.Decision, actingID int64, settings *entities.GameSettings) (*interfaces.SettlementResult, error) {
	t.Helper()
	uow := CreateTestUnitOfWork(testDB.DB, publisher)
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	svc := services.NewSettlementService(
		uow.AccountRepository(),
		uow.FinancialRequestRepository(),
		uow.WagerRepository(),
		uow.LedgerRepository(),
		uow.EventBus(),
	)
	result, err := svc.Settle(ctx, requestID, decision, actingID, settings)
	if err != nil {
		return nil, err
	}
	if err := uow.Commit(); err != nil {
		return nil, err
	}
	return result, nil
}

func TestSettlement_RechargeWithBonus(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()

	accounts := NewAccountRepository(testDB.DB)
	requests := NewFinancialRequestRepository(testDB.DB)
	ledger := NewLedgerRepository(testDB.DB)

	customer := testutil.CreateTestAccount("customer", "0")
	staff := testutil.CreateTestAccount("staff", "0")
	staff.Role = entities.RoleStaff
	require.NoError(t, accounts.Create(ctx, customer))
	require.NoError(t, accounts.Create(ctx, staff))

	req := testutil.CreateTestRequest(entities.RequestKindRecharge, customer.ID, "500.00")
	require.NoError(t, requests.Create(ctx, req))

	publisher := testutil.NewRecordingPublisher()
	result, err := settleInUnitOfWork(ctx, t, testDB, publisher, req.ID, entities.DecisionApproved, staff.ID, testutil.CreateTestSettings("thai"))
	require.NoError(t, err)
	assert.Equal(t, "550.00", result.Credited.StringFixed(2))

	reloaded, err := accounts.GetByID(ctx, customer.ID)
	require.NoError(t, err)
	assert.Equal(t, "550.00", reloaded.AvailableAmount.StringFixed(2))

	entries, err := ledger.ListByRequest(ctx, req.ID)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "+500.00", entries[0].Delta)
	assert.Equal(t, "+50.00", entries[1].Delta)
	assert.Equal(t, "550.00", entries[1].BalanceAfter.StringFixed(2))

	// Events are only released after commit
	assert.Equal(t, []events.EventType{
		events.EventTypeBalanceChanged,
		events.EventTypeBalanceChanged,
		events.EventTypeRequestSettled,
	}, publisher.PublishedTypes())
}

func TestSettlement_ConcurrentApprovalsApplyOnce(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()

	accounts := NewAccountRepository(testDB.DB)
	requests := NewFinancialRequestRepository(testDB.DB)
	ledger := NewLedgerRepository(testDB.DB)

	customer := testutil.CreateTestAccount("customer", "0")
	staff := testutil.CreateTestAccount("staff", "0")
	staff.Role = entities.RoleStaff
	require.NoError(t, accounts.Create(ctx, customer))
	require.NoError(t, accounts.Create(ctx, staff))

	req := testutil.CreateTestRequest(entities.RequestKindRecharge, customer.ID, "200.00")
	require.NoError(t, requests.Create(ctx, req))

	const attempts = 5
	var wg sync.WaitGroup
	errs := make(chan error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := settleInUnitOfWork(ctx, t, testDB, testutil.NewRecordingPublisher(), req.ID, entities.DecisionApproved, staff.ID, testutil.CreateTestSettings("thai"))
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	succeeded := 0
	for err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.ErrorIs(t, err, entities.ErrAlreadySettled)
	}
	assert.Equal(t, 1, succeeded)

	reloaded, err := accounts.GetByID(ctx, customer.ID)
	require.NoError(t, err)
	assert.Equal(t, "200.00", reloaded.AvailableAmount.StringFixed(2))

	entries, err := ledger.ListByRequest(ctx, req.ID)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestSettlement_InsufficientWithdrawalStaysPending(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()

	accounts := NewAccountRepository(testDB.DB)
	requests := NewFinancialRequestRepository(testDB.DB)
	ledger := NewLedgerRepository(testDB.DB)

	customer := testutil.CreateTestAccount("customer", "300.00")
	staff := testutil.CreateTestAccount("staff", "0")
	staff.Role = entities.RoleStaff
	require.NoError(t, accounts.Create(ctx, customer))
	require.NoError(t, accounts.Create(ctx, staff))

	req := testutil.CreateTestWithdrawal(customer.ID, "1000.00", "20.00")
	require.NoError(t, requests.Create(ctx, req))

	publisher := testutil.NewRecordingPublisher()
	_, err := settleInUnitOfWork(ctx, t, testDB, publisher, req.ID, entities.DecisionApproved, staff.ID, testutil.CreateTestSettings("thai"))
	require.Error(t, err)
	assert.ErrorIs(t, err, entities.ErrInsufficientBalance)

	got, err := requests.GetByID(ctx, req.ID)
	require.NoError(t, err)
	assert.False(t, got.IsCompleted)
	assert.Equal(t, entities.RequestStatusPending, got.Status)

	reloaded, err := accounts.GetByID(ctx, customer.ID)
	require.NoError(t, err)
	assert.Equal(t, "300.00", reloaded.AvailableAmount.StringFixed(2))

	entries, err := ledger.ListByRequest(ctx, req.ID)
	require.NoError(t, err)
	assert.Empty(t, entries)
	assert.Empty(t, publisher.Published)

	// After topping up, the same request settles
	_, err = accounts.Credit(ctx, customer.ID, req.Amount)
	require.NoError(t, err)
	result, err := settleInUnitOfWork(ctx, t, testDB, publisher, req.ID, entities.DecisionApproved, staff.ID, testutil.CreateTestSettings("thai"))
	require.NoError(t, err)
	assert.Equal(t, "1000.00", result.Debited.StringFixed(2))
	assert.Equal(t, "300.00", result.BalanceAfter.StringFixed(2))
}
