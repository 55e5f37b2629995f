package billing

import (
	"time"

	"github.com/genba/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Aggregate type constant
const AggregateTypeBill = "Bill"

// Event type constants
const (
	EventTypeBillCreated       = "BillCreated"
	EventTypeBillDetermined    = "BillDetermined"
	EventTypeBillConfirmed     = "BillConfirmed"
	EventTypeBillSentToOrderer = "BillSentToOrderer"
)

// BillCreatedEvent is raised when a bill is spawned for an accepted work order
type BillCreatedEvent struct {
	shared.BaseDomainEvent
	BillID    uuid.UUID `json:"bill_id"`
	OrderID   uuid.UUID `json:"order_id"`
	OrdererID uuid.UUID `json:"orderer_id"`
	CompanyID uuid.UUID `json:"company_id"`
}

// NewBillCreatedEvent creates a new BillCreatedEvent
func NewBillCreatedEvent(bill *Bill) *BillCreatedEvent {
	return &BillCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeBillCreated, AggregateTypeBill, bill.ID),
		BillID:          bill.ID,
		OrderID:         bill.OrderID,
		OrdererID:       bill.OrdererID,
		CompanyID:       bill.CompanyID,
	}
}

// EventType returns the event type name
func (e *BillCreatedEvent) EventType() string {
	return EventTypeBillCreated
}

// BillDeterminedEvent is raised when the billed amount is fixed
type BillDeterminedEvent struct {
	shared.BaseDomainEvent
	BillID uuid.UUID       `json:"bill_id"`
	Price  decimal.Decimal `json:"price"`
	BillOn time.Time       `json:"bill_on"`
}

// NewBillDeterminedEvent creates a new BillDeterminedEvent
func NewBillDeterminedEvent(bill *Bill) *BillDeterminedEvent {
	return &BillDeterminedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeBillDetermined, AggregateTypeBill, bill.ID),
		BillID:          bill.ID,
		Price:           *bill.Price,
		BillOn:          *bill.BillOn,
	}
}

// EventType returns the event type name
func (e *BillDeterminedEvent) EventType() string {
	return EventTypeBillDetermined
}

// BillConfirmedEvent is raised when billing is confirmed and receivables are generated
type BillConfirmedEvent struct {
	shared.BaseDomainEvent
	BillID        uuid.UUID       `json:"bill_id"`
	OrderID       uuid.UUID       `json:"order_id"`
	Price         decimal.Decimal `json:"price"`
	PaymentMethod PaymentMethod   `json:"payment_method"`
	ViaAgency     bool            `json:"via_agency"`
}

// NewBillConfirmedEvent creates a new BillConfirmedEvent
func NewBillConfirmedEvent(bill *Bill) *BillConfirmedEvent {
	return &BillConfirmedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeBillConfirmed, AggregateTypeBill, bill.ID),
		BillID:          bill.ID,
		OrderID:         bill.OrderID,
		Price:           *bill.Price,
		PaymentMethod:   bill.PaymentMethod,
		ViaAgency:       bill.AgencyStatus == AgencyBillingStatusWaiting,
	}
}

// EventType returns the event type name
func (e *BillConfirmedEvent) EventType() string {
	return EventTypeBillConfirmed
}

// BillSentToOrdererEvent is raised when the agency forwards the bill to the orderer
type BillSentToOrdererEvent struct {
	shared.BaseDomainEvent
	BillID    uuid.UUID `json:"bill_id"`
	OrdererID uuid.UUID `json:"orderer_id"`
}

// NewBillSentToOrdererEvent creates a new BillSentToOrdererEvent
func NewBillSentToOrdererEvent(bill *Bill) *BillSentToOrdererEvent {
	return &BillSentToOrdererEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeBillSentToOrderer, AggregateTypeBill, bill.ID),
		BillID:          bill.ID,
		OrdererID:       bill.OrdererID,
	}
}

// EventType returns the event type name
func (e *BillSentToOrdererEvent) EventType() string {
	return EventTypeBillSentToOrderer
}
