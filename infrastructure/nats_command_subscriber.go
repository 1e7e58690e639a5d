package infrastructure

import (
	"context"
	"fmt"
	"time"

	"lottosettle/application"
	"lottosettle/application/dto"
	"lottosettle/infrastructure/observability"

	log "github.com/sirupsen/logrus"
)

const commandTimeout = 25 * time.Second // below the consumer AckWait

// NATSCommandSubscriber consumes command envelopes and hands them to the application
type NATSCommandSubscriber struct {
	subscriber MessageSubscriber
	handler    application.CommandHandler
	metrics    *observability.MetricsProvider

	// Context for graceful shutdown
	ctx    context.Context
	cancel context.CancelFunc
}

// NewNATSCommandSubscriber creates a new command subscriber
func NewNATSCommandSubscriber(subscriber MessageSubscriber, handler application.CommandHandler, metrics *observability.MetricsProvider) *NATSCommandSubscriber {
	ctx, cancel := context.WithCancel(context.Background())
	return &NATSCommandSubscriber{
		subscriber: subscriber,
		handler:    handler,
		metrics:    metrics,
		ctx:        ctx,
		cancel:     cancel,
	}
}

// Start subscribes to the command subject
func (s *NATSCommandSubscriber) Start(subject string) error {
	if err := s.subscriber.Subscribe(subject, s.handleMessage); err != nil {
		return fmt.Errorf("failed to subscribe to commands: %w", err)
	}
	log.WithField("subject", subject).Info("Command subscriber started")
	return nil
}

// Stop cancels in-flight command handling
func (s *NATSCommandSubscriber) Stop() {
	s.cancel()
	log.Info("Command subscriber stopped")
}

// handleMessage decodes one message. Undecodable messages are acknowledged and dropped
// since redelivery cannot fix them.
func (s *NATSCommandSubscriber) handleMessage(data []byte) error {
	envelope, err := dto.DecodeCommandEnvelope(data)
	if err != nil {
		log.WithFields(log.Fields{
			"error":       err,
			"payloadSize": len(data),
		}).Error("Dropping malformed command message")
		s.metrics.RecordNATSMessageReceived("malformed")
		return nil
	}
	s.metrics.RecordNATSMessageReceived(string(envelope.Command))

	ctx, cancel := context.WithTimeout(s.ctx, commandTimeout)
	defer cancel()

	log.WithFields(log.Fields{
		"commandID": envelope.CommandID,
		"command":   envelope.Command,
	}).Debug("Dispatching command")

	return s.handler.HandleCommand(ctx, envelope)
}
