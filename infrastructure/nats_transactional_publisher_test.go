package infrastructure

import (
	"context"
	"errors"
	"testing"

	"lottosettle/domain/events"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// MockEventPublisher is a mock implementation of EventPublisher
type MockEventPublisher struct {
	PublishedEvents []events.Event
	PublishError    error
	failOn          events.EventType
}

func (m *MockEventPublisher) Publish(event events.Event) error {
	if m.PublishError != nil && (m.failOn == "" || m.failOn == event.Type()) {
		return m.PublishError
	}
	m.PublishedEvents = append(m.PublishedEvents, event)
	return nil
}

func TestNATSTransactionalPublisher_HoldsUntilFlush(t *testing.T) {
	t.Parallel()

	mockPublisher := &MockEventPublisher{}
	transPublisher := NewNATSTransactionalPublisher(mockPublisher)

	first := events.BalanceChangedEvent{AccountID: 1, Amount: decimal.NewFromInt(500)}
	second := events.RequestSettledEvent{RequestID: 9, Status: "approved"}
	require.NoError(t, transPublisher.Publish(first))
	require.NoError(t, transPublisher.Publish(second))

	assert.Equal(t, 2, transPublisher.PendingCount())
	assert.Empty(t, mockPublisher.PublishedEvents)

	require.NoError(t, transPublisher.Flush(context.Background()))

	assert.Equal(t, []events.Event{first, second}, mockPublisher.PublishedEvents)
	assert.Equal(t, 0, transPublisher.PendingCount())

	// A second flush publishes nothing new
	require.NoError(t, transPublisher.Flush(context.Background()))
	assert.Len(t, mockPublisher.PublishedEvents, 2)
}

func TestNATSTransactionalPublisher_Discard(t *testing.T) {
	t.Parallel()

	mockPublisher := &MockEventPublisher{}
	transPublisher := NewNATSTransactionalPublisher(mockPublisher)

	require.NoError(t, transPublisher.Publish(events.DrawPublishedEvent{DrawID: 3}))
	transPublisher.Discard()
	require.NoError(t, transPublisher.Flush(context.Background()))

	assert.Empty(t, mockPublisher.PublishedEvents)
}

func TestNATSTransactionalPublisher_FlushContinuesPastFailures(t *testing.T) {
	t.Parallel()

	mockPublisher := &MockEventPublisher{
		PublishError: errors.New("nats unavailable"),
		failOn:       events.EventTypeBalanceChanged,
	}
	transPublisher := NewNATSTransactionalPublisher(mockPublisher)

	require.NoError(t, transPublisher.Publish(events.BalanceChangedEvent{AccountID: 1}))
	require.NoError(t, transPublisher.Publish(events.RequestSettledEvent{RequestID: 2}))

	require.NoError(t, transPublisher.Flush(context.Background()))
	require.Len(t, mockPublisher.PublishedEvents, 1)
	assert.Equal(t, events.EventTypeRequestSettled, mockPublisher.PublishedEvents[0].Type())
}
