package finance

import (
	"time"

	"github.com/genba/backend/internal/domain/shared"
	"github.com/genba/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ReceivableStatus represents the payment lifecycle of a receivable
type ReceivableStatus string

const (
	ReceivableStatusWillPay ReceivableStatus = "will_pay"
	ReceivableStatusPaid    ReceivableStatus = "paid"
)

// IsValid checks if the status is a valid ReceivableStatus
func (s ReceivableStatus) IsValid() bool {
	return s == ReceivableStatusWillPay || s == ReceivableStatusPaid
}

// String returns the string representation of ReceivableStatus
func (s ReceivableStatus) String() string {
	return string(s)
}

// ReceivablePhase records which settlement phase created the receivable
type ReceivablePhase string

const (
	// PhaseConfirmation marks receivables created at billing confirmation
	PhaseConfirmation ReceivablePhase = "confirmation"
	// PhaseConstructionStart marks the start_and_complete advance leg
	PhaseConstructionStart ReceivablePhase = "construction_start"
)

// IsValid checks if the phase is valid
func (p ReceivablePhase) IsValid() bool {
	return p == PhaseConfirmation || p == PhaseConstructionStart
}

// Receivable represents a single scheduled payment obligation: OrdererID owes
// CompanyID the Price, due on PayOn. Amount and due date are fixed at
// creation; only the payment status ever changes, and only once.
type Receivable struct {
	shared.BaseAggregateRoot
	BillID    uuid.UUID        `gorm:"type:uuid;not null;index"` // the bill whose settlement created this record
	OrdererID uuid.UUID        `gorm:"type:uuid;not null;index"` // the party who owes payment
	CompanyID uuid.UUID        `gorm:"type:uuid;not null;index"` // the party owed
	Price     decimal.Decimal  `gorm:"type:decimal(18,0);not null"`
	PayOn     time.Time        `gorm:"not null"`
	Phase     ReceivablePhase  `gorm:"type:varchar(30);not null;default:'confirmation'"`
	Status    ReceivableStatus `gorm:"type:varchar(20);not null;default:'will_pay';index"`
	PaidAt    *time.Time
}

// TableName returns the table name for GORM
func (Receivable) TableName() string {
	return "receivables"
}

// NewReceivable creates a receivable. Negative amounts are rejected at this
// boundary; nothing downstream ever computes one.
func NewReceivable(billID, ordererID, companyID uuid.UUID, price decimal.Decimal, payOn time.Time, phase ReceivablePhase) (*Receivable, error) {
	if billID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_BILL", "Bill ID cannot be empty")
	}
	if ordererID == uuid.Nil || companyID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PARTY", "Receivable parties cannot be empty")
	}
	if price.IsNegative() {
		return nil, shared.ErrInvalidAmount
	}
	if !phase.IsValid() {
		return nil, shared.NewDomainError("INVALID_PHASE", "Unknown receivable phase: "+string(phase))
	}

	receivable := &Receivable{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		BillID:            billID,
		OrdererID:         ordererID,
		CompanyID:         companyID,
		Price:             price,
		PayOn:             payOn,
		Phase:             phase,
		Status:            ReceivableStatusWillPay,
	}

	receivable.AddDomainEvent(NewReceivableCreatedEvent(receivable))

	return receivable, nil
}

// Pay marks the receivable as paid. Legal only from will_pay; a second call
// fails with an illegal-transition error and leaves the record paid.
func (r *Receivable) Pay() error {
	if r.Status != ReceivableStatusWillPay {
		return shared.NewIllegalTransition("pay", r.Status.String())
	}

	now := time.Now()
	r.Status = ReceivableStatusPaid
	r.PaidAt = &now
	r.UpdatedAt = now
	r.IncrementVersion()

	r.AddDomainEvent(NewReceivablePaidEvent(r))

	return nil
}

// IsPaid returns true if the receivable has been settled
func (r *Receivable) IsPaid() bool {
	return r.Status == ReceivableStatusPaid
}

// GetPriceMoney returns the amount as Money
func (r *Receivable) GetPriceMoney() valueobject.Money {
	return valueobject.NewMoneyJPY(r.Price)
}
