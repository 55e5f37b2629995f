package shared

import (
	"time"

	"github.com/google/uuid"
)

// AggregateRoot is implemented by every persisted aggregate. The billing
// workflow has no nested entities, so identity, versioning and event
// collection all live on the root.
type AggregateRoot interface {
	GetID() uuid.UUID
	GetVersion() int
	IncrementVersion()
	AddDomainEvent(event DomainEvent)
	GetDomainEvents() []DomainEvent
	ClearDomainEvents()
}

// BaseAggregateRoot carries identity, timestamps, the optimistic-lock
// version and pending domain events. Aggregates embed it anonymously so
// GORM flattens the columns into their tables.
type BaseAggregateRoot struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
	Version      int           `gorm:"not null;default:1"`
	domainEvents []DomainEvent `gorm:"-"`
}

// NewBaseAggregateRoot creates a base with a fresh ID at version 1
func NewBaseAggregateRoot() BaseAggregateRoot {
	now := time.Now()
	return BaseAggregateRoot{
		ID:        uuid.New(),
		CreatedAt: now,
		UpdatedAt: now,
		Version:   1,
	}
}

// GetID returns the aggregate ID
func (a *BaseAggregateRoot) GetID() uuid.UUID {
	return a.ID
}

// GetVersion returns the aggregate version for optimistic locking
func (a *BaseAggregateRoot) GetVersion() int {
	return a.Version
}

// IncrementVersion increments the version number
func (a *BaseAggregateRoot) IncrementVersion() {
	a.Version++
}

// AddDomainEvent records a domain event for publication after save
func (a *BaseAggregateRoot) AddDomainEvent(event DomainEvent) {
	a.domainEvents = append(a.domainEvents, event)
}

// GetDomainEvents returns all pending domain events
func (a *BaseAggregateRoot) GetDomainEvents() []DomainEvent {
	return a.domainEvents
}

// ClearDomainEvents clears the pending domain events
func (a *BaseAggregateRoot) ClearDomainEvents() {
	a.domainEvents = nil
}
