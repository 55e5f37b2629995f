package shared

import "context"

// EventHandler processes domain events delivered by the bus
type EventHandler interface {
	Handle(ctx context.Context, event DomainEvent) error
	// EventTypes lists the event types the handler wants.
	// Empty means every event.
	EventTypes() []string
}

// EventPublisher publishes domain events after an aggregate is saved
type EventPublisher interface {
	Publish(ctx context.Context, events ...DomainEvent) error
}

// EventSubscriber manages handler registration
type EventSubscriber interface {
	Subscribe(handler EventHandler, eventTypes ...string)
	Unsubscribe(handler EventHandler)
}

// EventBus combines publishing and subscription
type EventBus interface {
	EventPublisher
	EventSubscriber
}
