package application_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"lottosettle/application"
	"lottosettle/application/dto"
	"lottosettle/domain/entities"
	"lottosettle/domain/interfaces"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockSettlementHandler struct {
	mock.Mock
}

func (m *MockSettlementHandler) Settle(ctx context.Context, req dto.SettleRequestDTO) (*interfaces.SettlementResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*interfaces.SettlementResult), args.Error(1)
}

type MockDrawHandler struct {
	mock.Mock
}

func (m *MockDrawHandler) CreateDraw(ctx context.Context, req dto.CreateDrawDTO) (*entities.Draw, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Draw), args.Error(1)
}

func (m *MockDrawHandler) PublishDraw(ctx context.Context, req dto.PublishDrawDTO) (*dto.DrawPublicationResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.DrawPublicationResult), args.Error(1)
}

func (m *MockDrawHandler) ToggleLock(ctx context.Context, drawID, actingAccountID int64) (*entities.Draw, error) {
	args := m.Called(ctx, drawID, actingAccountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Draw), args.Error(1)
}

type MockWagerHandler struct {
	mock.Mock
}

func (m *MockWagerHandler) PlaceWager(ctx context.Context, req dto.PlaceWagerDTO) (*interfaces.PlaceWagerResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*interfaces.PlaceWagerResult), args.Error(1)
}

func envelope(t *testing.T, command dto.CommandType, payload any) dto.CommandEnvelope {
	t.Helper()
	data, err := dto.NewCommandEnvelope("cmd-test", command, payload)
	require.NoError(t, err)
	decoded, err := dto.DecodeCommandEnvelope(data)
	require.NoError(t, err)
	return decoded
}

func TestCommandHandler_Routing(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("settle", func(t *testing.T) {
		t.Parallel()
		settlement := new(MockSettlementHandler)
		settlement.On("Settle", ctx, dto.SettleRequestDTO{
			RequestID:       42,
			Decision:        entities.DecisionDeclined,
			ActingAccountID: 7,
			GameType:        "lao",
		}).Return(&interfaces.SettlementResult{}, nil).Once()

		handler := application.NewCommandHandler(settlement, new(MockDrawHandler), new(MockWagerHandler))
		err := handler.HandleCommand(ctx, envelope(t, dto.CommandSettle, dto.SettleCommand{
			RequestID: 42, Decision: "decline", ActingAccountID: 7, GameType: "lao",
		}))

		require.NoError(t, err)
		settlement.AssertExpectations(t)
	})

	t.Run("publish draw", func(t *testing.T) {
		t.Parallel()
		draws := new(MockDrawHandler)
		draws.On("PublishDraw", ctx, dto.PublishDrawDTO{
			DrawID:          3,
			StraightResult:  "584213",
			SecondaryResult: "47",
			ActingAccountID: 1,
			SettleWinners:   true,
		}).Return(&dto.DrawPublicationResult{}, nil).Once()

		handler := application.NewCommandHandler(new(MockSettlementHandler), draws, new(MockWagerHandler))
		err := handler.HandleCommand(ctx, envelope(t, dto.CommandPublishDraw, dto.PublishDrawCommand{
			DrawID: 3, StraightResult: "584213", SecondaryResult: "47", ActingAccountID: 1, SettleWinners: true,
		}))

		require.NoError(t, err)
		draws.AssertExpectations(t)
	})

	t.Run("toggle lock", func(t *testing.T) {
		t.Parallel()
		draws := new(MockDrawHandler)
		draws.On("ToggleLock", ctx, int64(3), int64(1)).Return(&entities.Draw{ID: 3, Locked: true}, nil).Once()

		handler := application.NewCommandHandler(new(MockSettlementHandler), draws, new(MockWagerHandler))
		require.NoError(t, handler.HandleCommand(ctx, envelope(t, dto.CommandToggleLock, dto.ToggleLockCommand{DrawID: 3, ActingAccountID: 1})))
		draws.AssertExpectations(t)
	})

	t.Run("place wager", func(t *testing.T) {
		t.Parallel()
		wagers := new(MockWagerHandler)
		wagers.On("PlaceWager", ctx, mock.MatchedBy(func(req dto.PlaceWagerDTO) bool {
			return req.AccountID == 5 &&
				req.SubType == entities.SubTypeThreeUpStraight &&
				req.Numeral == "213" &&
				req.Stake.Equal(decimal.RequireFromString("20.50"))
		})).Return(&interfaces.PlaceWagerResult{}, nil).Once()

		handler := application.NewCommandHandler(new(MockSettlementHandler), new(MockDrawHandler), wagers)
		err := handler.HandleCommand(ctx, envelope(t, dto.CommandPlaceWager, dto.PlaceWagerCommand{
			AccountID: 5, DrawID: 3, SubType: string(entities.SubTypeThreeUpStraight), Numeral: "213", Stake: "20.50",
		}))

		require.NoError(t, err)
		wagers.AssertExpectations(t)
	})
}

func TestCommandHandler_ErrorClassification(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	tests := []struct {
		name      string
		settleErr error
		wantErr   bool
	}{
		{"already settled is acknowledged", &entities.AlreadySettledError{RequestID: 42}, false},
		{"insufficient balance is acknowledged", &entities.InsufficientBalanceError{AccountID: 1}, false},
		{"missing request is acknowledged", &entities.NotFoundError{Resource: "financial request", ID: 42}, false},
		{"database failure is redelivered", errors.New("failed to begin transaction: connection refused"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			settlement := new(MockSettlementHandler)
			settlement.On("Settle", ctx, mock.Anything).Return(nil, tt.settleErr)

			handler := application.NewCommandHandler(settlement, new(MockDrawHandler), new(MockWagerHandler))
			err := handler.HandleCommand(ctx, envelope(t, dto.CommandSettle, dto.SettleCommand{RequestID: 42, Decision: "approve", ActingAccountID: 7}))

			if tt.wantErr {
				assert.ErrorContains(t, err, "failed to handle settle command cmd-test")
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestCommandHandler_RejectsWithoutCallingHandlers(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	settlement := new(MockSettlementHandler)
	wagers := new(MockWagerHandler)
	handler := application.NewCommandHandler(settlement, new(MockDrawHandler), wagers)

	tests := []struct {
		name     string
		envelope dto.CommandEnvelope
	}{
		{"unknown command", dto.CommandEnvelope{CommandID: "x", Command: "refund", Payload: json.RawMessage(`{}`)}},
		{"malformed payload", dto.CommandEnvelope{CommandID: "x", Command: dto.CommandSettle, Payload: json.RawMessage(`[1,2]`)}},
		{"unknown decision", envelope(t, dto.CommandSettle, dto.SettleCommand{RequestID: 1, Decision: "maybe"})},
		{"unknown sub-type", envelope(t, dto.CommandPlaceWager, dto.PlaceWagerCommand{SubType: "four_up", Stake: "10"})},
		{"bad stake", envelope(t, dto.CommandPlaceWager, dto.PlaceWagerCommand{SubType: string(entities.SubTypeTwoUpStraight), Stake: "ten"})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NoError(t, handler.HandleCommand(ctx, tt.envelope))
		})
	}

	settlement.AssertNotCalled(t, "Settle", mock.Anything, mock.Anything)
	wagers.AssertNotCalled(t, "PlaceWager", mock.Anything, mock.Anything)
}
