package infrastructure

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"lottosettle/domain/events"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type publishedMessage struct {
	subject string
	data    []byte
}

type recordingMessagePublisher struct {
	messages []publishedMessage
	err      error
}

func (r *recordingMessagePublisher) Publish(_ context.Context, subject string, data []byte) error {
	if r.err != nil {
		return r.err
	}
	r.messages = append(r.messages, publishedMessage{subject: subject, data: data})
	return nil
}

func TestNATSEventPublisher_Publish(t *testing.T) {
	t.Parallel()

	client := &recordingMessagePublisher{}
	publisher := NewNATSEventPublisher(client, NewEventSubjectMapper(), nil)

	requestID := int64(77)
	event := events.BalanceChangedEvent{
		AccountID:     5,
		LedgerEntryID: 12,
		RequestID:     &requestID,
		Amount:        decimal.RequireFromString("550.00"),
		BalanceAfter:  decimal.RequireFromString("1550.00"),
		Collection:    "recharge_requests",
	}
	require.NoError(t, publisher.Publish(event))

	require.Len(t, client.messages, 1)
	assert.Equal(t, "lottery.accounts.balance_changed", client.messages[0].subject)

	var envelope events.EventEnvelope
	require.NoError(t, json.Unmarshal(client.messages[0].data, &envelope))
	assert.Equal(t, "balance_changed", envelope.EventType)
	assert.Equal(t, "lottosettle", envelope.SourceService)
	_, err := uuid.Parse(envelope.EventID)
	assert.NoError(t, err)
	require.NotNil(t, envelope.Timestamp)

	var payload events.BalanceChangedEvent
	require.NoError(t, json.Unmarshal(envelope.Payload, &payload))
	assert.Equal(t, int64(5), payload.AccountID)
	assert.True(t, event.Amount.Equal(payload.Amount))
	require.NotNil(t, payload.RequestID)
	assert.Equal(t, requestID, *payload.RequestID)
}

func TestNATSEventPublisher_LocalHandlers(t *testing.T) {
	t.Parallel()

	client := &recordingMessagePublisher{}
	publisher := NewNATSEventPublisher(client, NewEventSubjectMapper(), nil)

	var received []events.Event
	publisher.RegisterLocalHandler(events.EventTypeDrawPublished, func(_ context.Context, e events.Event) error {
		received = append(received, e)
		return errors.New("handler failure is logged only")
	})

	require.NoError(t, publisher.Publish(events.DrawPublishedEvent{DrawID: 4}))
	require.NoError(t, publisher.Publish(events.WagerPlacedEvent{WagerID: 8}))

	require.Len(t, received, 1)
	assert.Equal(t, events.EventTypeDrawPublished, received[0].Type())
	assert.Len(t, client.messages, 2)
}

func TestNATSEventPublisher_Errors(t *testing.T) {
	t.Parallel()

	t.Run("transport failure is returned", func(t *testing.T) {
		client := &recordingMessagePublisher{err: errors.New("connection refused")}
		publisher := NewNATSEventPublisher(client, NewEventSubjectMapper(), nil)
		assert.ErrorContains(t, publisher.Publish(events.DrawPublishedEvent{}), "connection refused")
	})

	t.Run("subject without a stream is dropped", func(t *testing.T) {
		client := &recordingMessagePublisher{err: errors.New("nats: no response from stream")}
		publisher := NewNATSEventPublisher(client, NewEventSubjectMapper(), nil)
		assert.NoError(t, publisher.Publish(events.DrawPublishedEvent{}))
	})
}

func TestEventSubjectMapper_RoundTrip(t *testing.T) {
	t.Parallel()

	mapper := NewEventSubjectMapper()
	all := []events.Event{
		events.BalanceChangedEvent{},
		events.RequestSettledEvent{},
		events.DrawPublishedEvent{},
		events.DrawLockChangedEvent{},
		events.WagerPlacedEvent{},
	}

	subjects := mapper.GetAllSubjects()
	require.Len(t, subjects, len(all))
	for _, event := range all {
		subject := mapper.MapEventToSubject(event)
		assert.Contains(t, subjects, subject)
		assert.Equal(t, event.Type(), mapper.MapSubjectToEventType(subject))
	}
}
