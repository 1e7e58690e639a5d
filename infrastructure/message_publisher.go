package infrastructure

import (
	"context"
)

// MessagePublisher defines the interface for publishing messages to a message bus.
// NATSClient satisfies it; tests substitute an in-memory recorder.
type MessagePublisher interface {
	// Publish publishes a message to the specified subject
	Publish(ctx context.Context, subject string, data []byte) error
}

// MessageSubscriber registers durable handlers on a message bus.
// A handler error requests redelivery.
type MessageSubscriber interface {
	Subscribe(subject string, handler func([]byte) error) error
}
