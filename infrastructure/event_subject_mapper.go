package infrastructure

import (
	"fmt"

	"lottosettle/domain/events"
)

// EventSubjectMapper handles mapping between domain events and NATS subjects
type EventSubjectMapper struct{}

// NewEventSubjectMapper creates a new event subject mapper
func NewEventSubjectMapper() *EventSubjectMapper {
	return &EventSubjectMapper{}
}

// MapEventToSubject converts a domain event to its corresponding NATS subject
func (m *EventSubjectMapper) MapEventToSubject(event events.Event) string {
	switch event.Type() {
	case events.EventTypeBalanceChanged:
		return "lottery.accounts.balance_changed"
	case events.EventTypeRequestSettled:
		return "lottery.requests.settled"
	case events.EventTypeDrawPublished:
		return "lottery.draws.published"
	case events.EventTypeDrawLockChanged:
		return "lottery.draws.lock_changed"
	case events.EventTypeWagerPlaced:
		return "lottery.wagers.placed"
	default:
		// Fallback for unknown event types
		return fmt.Sprintf("lottery.unknown.%s", event.Type())
	}
}

// MapSubjectToEventType converts a NATS subject back to an event type
func (m *EventSubjectMapper) MapSubjectToEventType(subject string) events.EventType {
	switch subject {
	case "lottery.accounts.balance_changed":
		return events.EventTypeBalanceChanged
	case "lottery.requests.settled":
		return events.EventTypeRequestSettled
	case "lottery.draws.published":
		return events.EventTypeDrawPublished
	case "lottery.draws.lock_changed":
		return events.EventTypeDrawLockChanged
	case "lottery.wagers.placed":
		return events.EventTypeWagerPlaced
	default:
		return events.EventType(subject)
	}
}

// GetAllSubjects returns all subjects that this service publishes to
func (m *EventSubjectMapper) GetAllSubjects() []string {
	return []string{
		"lottery.accounts.balance_changed",
		"lottery.requests.settled",
		"lottery.draws.published",
		"lottery.draws.lock_changed",
		"lottery.wagers.placed",
	}
}
