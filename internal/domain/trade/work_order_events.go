package trade

import (
	"github.com/genba/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Aggregate type constant
const AggregateTypeWorkOrder = "WorkOrder"

// Event type constants
const (
	EventTypeWorkOrderCreated      = "WorkOrderCreated"
	EventTypeWorkOrderReceived     = "WorkOrderReceived"
	EventTypeWorkOrderAccepted     = "WorkOrderAccepted"
	EventTypeConstructionStarted   = "ConstructionStarted"
	EventTypeConstructionCompleted = "ConstructionCompleted"
	EventTypeConstructionApproved  = "ConstructionApproved"
)

// WorkOrderCreatedEvent is raised when a new work order is created
type WorkOrderCreatedEvent struct {
	shared.BaseDomainEvent
	OrderID   uuid.UUID `json:"order_id"`
	OrdererID uuid.UUID `json:"orderer_id"`
	CompanyID uuid.UUID `json:"company_id"`
}

// NewWorkOrderCreatedEvent creates a new WorkOrderCreatedEvent
func NewWorkOrderCreatedEvent(order *WorkOrder) *WorkOrderCreatedEvent {
	return &WorkOrderCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeWorkOrderCreated, AggregateTypeWorkOrder, order.ID),
		OrderID:         order.ID,
		OrdererID:       order.OrdererID,
		CompanyID:       order.CompanyID,
	}
}

// EventType returns the event type name
func (e *WorkOrderCreatedEvent) EventType() string {
	return EventTypeWorkOrderCreated
}

// WorkOrderReceivedEvent is raised when the order request reaches the subcontractor
type WorkOrderReceivedEvent struct {
	shared.BaseDomainEvent
	OrderID uuid.UUID `json:"order_id"`
}

// NewWorkOrderReceivedEvent creates a new WorkOrderReceivedEvent
func NewWorkOrderReceivedEvent(order *WorkOrder) *WorkOrderReceivedEvent {
	return &WorkOrderReceivedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeWorkOrderReceived, AggregateTypeWorkOrder, order.ID),
		OrderID:         order.ID,
	}
}

// EventType returns the event type name
func (e *WorkOrderReceivedEvent) EventType() string {
	return EventTypeWorkOrderReceived
}

// WorkOrderAcceptedEvent is raised when the subcontractor accepts the order.
// Acceptance spawns the child bill.
type WorkOrderAcceptedEvent struct {
	shared.BaseDomainEvent
	OrderID   uuid.UUID `json:"order_id"`
	OrdererID uuid.UUID `json:"orderer_id"`
	CompanyID uuid.UUID `json:"company_id"`
}

// NewWorkOrderAcceptedEvent creates a new WorkOrderAcceptedEvent
func NewWorkOrderAcceptedEvent(order *WorkOrder) *WorkOrderAcceptedEvent {
	return &WorkOrderAcceptedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeWorkOrderAccepted, AggregateTypeWorkOrder, order.ID),
		OrderID:         order.ID,
		OrdererID:       order.OrdererID,
		CompanyID:       order.CompanyID,
	}
}

// EventType returns the event type name
func (e *WorkOrderAcceptedEvent) EventType() string {
	return EventTypeWorkOrderAccepted
}

// ConstructionStartedEvent is raised when construction begins
type ConstructionStartedEvent struct {
	shared.BaseDomainEvent
	OrderID uuid.UUID `json:"order_id"`
}

// NewConstructionStartedEvent creates a new ConstructionStartedEvent
func NewConstructionStartedEvent(order *WorkOrder) *ConstructionStartedEvent {
	return &ConstructionStartedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeConstructionStarted, AggregateTypeWorkOrder, order.ID),
		OrderID:         order.ID,
	}
}

// EventType returns the event type name
func (e *ConstructionStartedEvent) EventType() string {
	return EventTypeConstructionStarted
}

// ConstructionCompletedEvent is raised when construction finishes
type ConstructionCompletedEvent struct {
	shared.BaseDomainEvent
	OrderID uuid.UUID `json:"order_id"`
}

// NewConstructionCompletedEvent creates a new ConstructionCompletedEvent
func NewConstructionCompletedEvent(order *WorkOrder) *ConstructionCompletedEvent {
	return &ConstructionCompletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeConstructionCompleted, AggregateTypeWorkOrder, order.ID),
		OrderID:         order.ID,
	}
}

// EventType returns the event type name
func (e *ConstructionCompletedEvent) EventType() string {
	return EventTypeConstructionCompleted
}

// ConstructionApprovedEvent is raised when the orderer approves the completed construction
type ConstructionApprovedEvent struct {
	shared.BaseDomainEvent
	OrderID uuid.UUID `json:"order_id"`
}

// NewConstructionApprovedEvent creates a new ConstructionApprovedEvent
func NewConstructionApprovedEvent(order *WorkOrder) *ConstructionApprovedEvent {
	return &ConstructionApprovedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeConstructionApproved, AggregateTypeWorkOrder, order.ID),
		OrderID:         order.ID,
	}
}

// EventType returns the event type name
func (e *ConstructionApprovedEvent) EventType() string {
	return EventTypeConstructionApproved
}
