package trade

import (
	"time"

	"github.com/genba/backend/internal/domain/shared"
	"github.com/genba/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// WorkOrderStatus represents the request lifecycle of a work order
type WorkOrderStatus string

const (
	WorkOrderStatusCreated  WorkOrderStatus = "created"
	WorkOrderStatusReceived WorkOrderStatus = "received" // request delivered to the subcontractor
	WorkOrderStatusAccepted WorkOrderStatus = "accepted" // subcontractor approved the request
)

// IsValid checks if the status is a valid WorkOrderStatus
func (s WorkOrderStatus) IsValid() bool {
	switch s {
	case WorkOrderStatusCreated, WorkOrderStatusReceived, WorkOrderStatusAccepted:
		return true
	}
	return false
}

// String returns the string representation of WorkOrderStatus
func (s WorkOrderStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status.
// The request lifecycle is strictly monotonic and advances one step at a time.
func (s WorkOrderStatus) CanTransitionTo(target WorkOrderStatus) bool {
	switch s {
	case WorkOrderStatusCreated:
		return target == WorkOrderStatusReceived
	case WorkOrderStatusReceived:
		return target == WorkOrderStatusAccepted
	case WorkOrderStatusAccepted:
		return false // terminal
	}
	return false
}

// ConstructionStatus represents the physical progress lifecycle of a work order
type ConstructionStatus string

const (
	ConstructionStatusNotStarted         ConstructionStatus = "not_started"
	ConstructionStatusStarted            ConstructionStatus = "started"
	ConstructionStatusCompleted          ConstructionStatus = "completed"
	ConstructionStatusCompletionApproved ConstructionStatus = "completion_approved"
)

// IsValid checks if the status is a valid ConstructionStatus
func (s ConstructionStatus) IsValid() bool {
	switch s {
	case ConstructionStatusNotStarted, ConstructionStatusStarted,
		ConstructionStatusCompleted, ConstructionStatusCompletionApproved:
		return true
	}
	return false
}

// String returns the string representation of ConstructionStatus
func (s ConstructionStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status
func (s ConstructionStatus) CanTransitionTo(target ConstructionStatus) bool {
	switch s {
	case ConstructionStatusNotStarted:
		return target == ConstructionStatusStarted
	case ConstructionStatusStarted:
		return target == ConstructionStatusCompleted
	case ConstructionStatusCompleted:
		return target == ConstructionStatusCompletionApproved
	case ConstructionStatusCompletionApproved:
		return false // terminal
	}
	return false
}

// ShippingStatus represents whether the orderer has sent the work order document
type ShippingStatus string

const (
	ShippingStatusUnsent ShippingStatus = "unsent"
	ShippingStatusSent   ShippingStatus = "sent"
)

// IsValid checks if the status is a valid ShippingStatus
func (s ShippingStatus) IsValid() bool {
	return s == ShippingStatusUnsent || s == ShippingStatusSent
}

// String returns the string representation of ShippingStatus
func (s ShippingStatus) String() string {
	return string(s)
}

// WorkOrder represents a work order issued by a general contractor (orderer)
// to a subcontractor (company). It is the aggregate root for the order context.
//
// The request lifecycle (Status), the construction lifecycle (ConstructionStatus)
// and the shipping lifecycle (ShippingStatus) advance independently; no transition
// in any of them is reversible.
type WorkOrder struct {
	shared.BaseAggregateRoot
	OrdererID          uuid.UUID          `gorm:"type:uuid;not null;index"`
	OrdererName        string             `gorm:"type:varchar(200);not null"`
	CompanyID          uuid.UUID          `gorm:"type:uuid;not null;index"`
	CompanyName        string             `gorm:"type:varchar(200);not null"`
	Price              *decimal.Decimal   `gorm:"type:decimal(18,0)"` // optional, may be agreed later
	Status             WorkOrderStatus    `gorm:"type:varchar(20);not null;default:'created';index"`
	ConstructionStatus ConstructionStatus `gorm:"type:varchar(30);not null;default:'not_started';index"`
	ShippingStatus     ShippingStatus     `gorm:"type:varchar(20);not null;default:'unsent'"`

	SentAt                  *time.Time
	ReceivedAt              *time.Time
	AcceptedAt              *time.Time
	ConstructionStartedAt   *time.Time
	ConstructionCompletedAt *time.Time
	CompletionApprovedAt    *time.Time
}

// TableName returns the table name for GORM
func (WorkOrder) TableName() string {
	return "work_orders"
}

// NewWorkOrder creates a new work order issued by ordererID to companyID.
// Price may be nil when the amount is negotiated later.
func NewWorkOrder(ordererID uuid.UUID, ordererName string, companyID uuid.UUID, companyName string, price *decimal.Decimal) (*WorkOrder, error) {
	if ordererID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ORDERER", "Orderer ID cannot be empty")
	}
	if companyID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_COMPANY", "Company ID cannot be empty")
	}
	if ordererID == companyID {
		return nil, shared.NewDomainError("INVALID_COMPANY", "Orderer and company must be different parties")
	}
	if price != nil && price.IsNegative() {
		return nil, shared.ErrInvalidAmount
	}

	order := &WorkOrder{
		BaseAggregateRoot:  shared.NewBaseAggregateRoot(),
		OrdererID:          ordererID,
		OrdererName:        ordererName,
		CompanyID:          companyID,
		CompanyName:        companyName,
		Price:              price,
		Status:             WorkOrderStatusCreated,
		ConstructionStatus: ConstructionStatusNotStarted,
		ShippingStatus:     ShippingStatusUnsent,
	}

	order.AddDomainEvent(NewWorkOrderCreatedEvent(order))

	return order, nil
}

// SetPrice sets or updates the agreed price. Allowed until the order is accepted.
func (o *WorkOrder) SetPrice(price decimal.Decimal) error {
	if price.IsNegative() {
		return shared.ErrInvalidAmount
	}
	if o.Status == WorkOrderStatusAccepted {
		return shared.NewDomainError("INVALID_STATE", "Cannot change price after the order was accepted")
	}

	o.Price = &price
	o.UpdatedAt = time.Now()
	o.IncrementVersion()

	return nil
}

// Send marks the work order document as sent by the orderer.
// Legal only from unsent; the transition is irreversible.
func (o *WorkOrder) Send() error {
	if o.ShippingStatus != ShippingStatusUnsent {
		return shared.NewIllegalTransition("send", o.ShippingStatus.String())
	}

	now := time.Now()
	o.ShippingStatus = ShippingStatusSent
	o.SentAt = &now
	o.UpdatedAt = now
	o.IncrementVersion()

	return nil
}

// Receive marks the order as delivered to the subcontractor.
// Legal only from created.
func (o *WorkOrder) Receive() error {
	if !o.Status.CanTransitionTo(WorkOrderStatusReceived) {
		return shared.NewIllegalTransition("receive", o.Status.String())
	}

	now := time.Now()
	o.Status = WorkOrderStatusReceived
	o.ReceivedAt = &now
	o.UpdatedAt = now
	o.IncrementVersion()

	o.AddDomainEvent(NewWorkOrderReceivedEvent(o))

	return nil
}

// Accept marks the order as approved by the subcontractor.
// Legal only from received. The orchestrator spawns the child bill
// as part of the same storage transaction.
func (o *WorkOrder) Accept() error {
	if !o.Status.CanTransitionTo(WorkOrderStatusAccepted) {
		return shared.NewIllegalTransition("accept", o.Status.String())
	}

	now := time.Now()
	o.Status = WorkOrderStatusAccepted
	o.AcceptedAt = &now
	o.UpdatedAt = now
	o.IncrementVersion()

	o.AddDomainEvent(NewWorkOrderAcceptedEvent(o))

	return nil
}

// StartConstruction marks construction as started.
// Legal only from not_started.
func (o *WorkOrder) StartConstruction() error {
	if !o.ConstructionStatus.CanTransitionTo(ConstructionStatusStarted) {
		return shared.NewIllegalTransition("start construction", o.ConstructionStatus.String())
	}

	now := time.Now()
	o.ConstructionStatus = ConstructionStatusStarted
	o.ConstructionStartedAt = &now
	o.UpdatedAt = now
	o.IncrementVersion()

	o.AddDomainEvent(NewConstructionStartedEvent(o))

	return nil
}

// CompleteConstruction marks construction as completed.
// Legal only from started.
func (o *WorkOrder) CompleteConstruction() error {
	if !o.ConstructionStatus.CanTransitionTo(ConstructionStatusCompleted) {
		return shared.NewIllegalTransition("complete construction", o.ConstructionStatus.String())
	}

	now := time.Now()
	o.ConstructionStatus = ConstructionStatusCompleted
	o.ConstructionCompletedAt = &now
	o.UpdatedAt = now
	o.IncrementVersion()

	o.AddDomainEvent(NewConstructionCompletedEvent(o))

	return nil
}

// ApproveConstruction marks the completed construction as approved by the orderer.
// Legal only from completed.
func (o *WorkOrder) ApproveConstruction() error {
	if !o.ConstructionStatus.CanTransitionTo(ConstructionStatusCompletionApproved) {
		return shared.NewIllegalTransition("approve construction", o.ConstructionStatus.String())
	}

	now := time.Now()
	o.ConstructionStatus = ConstructionStatusCompletionApproved
	o.CompletionApprovedAt = &now
	o.UpdatedAt = now
	o.IncrementVersion()

	o.AddDomainEvent(NewConstructionApprovedEvent(o))

	return nil
}

// IsAccepted returns true if the subcontractor has accepted the order
func (o *WorkOrder) IsAccepted() bool {
	return o.Status == WorkOrderStatusAccepted
}

// HasPrice returns true if a price has been agreed
func (o *WorkOrder) HasPrice() bool {
	return o.Price != nil
}

// GetPriceMoney returns the agreed price as Money, or zero JPY when unset
func (o *WorkOrder) GetPriceMoney() valueobject.Money {
	if o.Price == nil {
		return valueobject.ZeroJPY()
	}
	return valueobject.NewMoneyJPY(*o.Price)
}
