package finance

import (
	"time"

	"github.com/genba/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	EventTypeReceivableCreated = "finance.receivable.created"
	EventTypeReceivablePaid    = "finance.receivable.paid"
)

// ReceivableCreatedEvent is raised when a settlement produces a receivable
type ReceivableCreatedEvent struct {
	shared.BaseDomainEvent
	BillID    uuid.UUID       `json:"bill_id"`
	OrdererID uuid.UUID       `json:"orderer_id"`
	CompanyID uuid.UUID       `json:"company_id"`
	Price     decimal.Decimal `json:"price"`
	PayOn     time.Time       `json:"pay_on"`
	Phase     ReceivablePhase `json:"phase"`
}

func NewReceivableCreatedEvent(r *Receivable) *ReceivableCreatedEvent {
	return &ReceivableCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeReceivableCreated, "Receivable", r.ID),
		BillID:          r.BillID,
		OrdererID:       r.OrdererID,
		CompanyID:       r.CompanyID,
		Price:           r.Price,
		PayOn:           r.PayOn,
		Phase:           r.Phase,
	}
}

// ReceivablePaidEvent is raised when a receivable is marked paid
type ReceivablePaidEvent struct {
	shared.BaseDomainEvent
	BillID    uuid.UUID       `json:"bill_id"`
	OrdererID uuid.UUID       `json:"orderer_id"`
	Price     decimal.Decimal `json:"price"`
	PaidAt    time.Time       `json:"paid_at"`
}

func NewReceivablePaidEvent(r *Receivable) *ReceivablePaidEvent {
	paidAt := time.Now()
	if r.PaidAt != nil {
		paidAt = *r.PaidAt
	}
	return &ReceivablePaidEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeReceivablePaid, "Receivable", r.ID),
		BillID:          r.BillID,
		OrdererID:       r.OrdererID,
		Price:           r.Price,
		PaidAt:          paidAt,
	}
}
