package infrastructure

import (
	"context"
	"errors"
	"testing"

	"lottosettle/application/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capturingSubscriber struct {
	subject string
	handler func([]byte) error
	err     error
}

func (c *capturingSubscriber) Subscribe(subject string, handler func([]byte) error) error {
	if c.err != nil {
		return c.err
	}
	c.subject = subject
	c.handler = handler
	return nil
}

type recordingCommandHandler struct {
	envelopes []dto.CommandEnvelope
	err       error
}

func (r *recordingCommandHandler) HandleCommand(ctx context.Context, envelope dto.CommandEnvelope) error {
	if _, ok := ctx.Deadline(); !ok {
		return errors.New("command context has no deadline")
	}
	r.envelopes = append(r.envelopes, envelope)
	return r.err
}

func TestNATSCommandSubscriber_Dispatch(t *testing.T) {
	t.Parallel()

	bus := &capturingSubscriber{}
	handler := &recordingCommandHandler{}
	subscriber := NewNATSCommandSubscriber(bus, handler, nil)
	defer subscriber.Stop()

	require.NoError(t, subscriber.Start("lottery.commands.>"))
	assert.Equal(t, "lottery.commands.>", bus.subject)

	data, err := dto.NewCommandEnvelope("cmd-1", dto.CommandSettle, dto.SettleCommand{
		RequestID:       42,
		Decision:        "approve",
		ActingAccountID: 7,
	})
	require.NoError(t, err)

	require.NoError(t, bus.handler(data))
	require.Len(t, handler.envelopes, 1)
	assert.Equal(t, "cmd-1", handler.envelopes[0].CommandID)
	assert.Equal(t, dto.CommandSettle, handler.envelopes[0].Command)
	assert.JSONEq(t, `{"request_id":42,"decision":"approve","acting_account_id":7}`, string(handler.envelopes[0].Payload))
}

func TestNATSCommandSubscriber_MalformedMessagesAreAcked(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		data []byte
	}{
		{"not json", []byte("settle 42 approve")},
		{"missing command type", []byte(`{"command_id":"x","payload":{}}`)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			bus := &capturingSubscriber{}
			handler := &recordingCommandHandler{}
			subscriber := NewNATSCommandSubscriber(bus, handler, nil)
			require.NoError(t, subscriber.Start("lottery.commands.>"))

			assert.NoError(t, bus.handler(tt.data))
			assert.Empty(t, handler.envelopes)
		})
	}
}

func TestNATSCommandSubscriber_HandlerErrorRequestsRedelivery(t *testing.T) {
	t.Parallel()

	bus := &capturingSubscriber{}
	handler := &recordingCommandHandler{err: errors.New("failed to begin transaction")}
	subscriber := NewNATSCommandSubscriber(bus, handler, nil)
	require.NoError(t, subscriber.Start("lottery.commands.>"))

	data, err := dto.NewCommandEnvelope("cmd-2", dto.CommandToggleLock, dto.ToggleLockCommand{DrawID: 3})
	require.NoError(t, err)
	assert.Error(t, bus.handler(data))
}

func TestNATSCommandSubscriber_SubscribeFailure(t *testing.T) {
	t.Parallel()

	subscriber := NewNATSCommandSubscriber(&capturingSubscriber{err: errors.New("not connected to NATS JetStream")}, &recordingCommandHandler{}, nil)
	assert.ErrorContains(t, subscriber.Start("lottery.commands.>"), "failed to subscribe to commands")
}
