package billing

import (
	"time"

	"github.com/genba/backend/internal/domain/shared"
	"github.com/genba/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BillStatus represents the amount-confirmation lifecycle of a bill
type BillStatus string

const (
	BillStatusUndetermined BillStatus = "undetermined"
	BillStatusDetermined   BillStatus = "determined"
	BillStatusBilled       BillStatus = "billed"
)

// IsValid checks if the status is a valid BillStatus
func (s BillStatus) IsValid() bool {
	switch s {
	case BillStatusUndetermined, BillStatusDetermined, BillStatusBilled:
		return true
	}
	return false
}

// String returns the string representation of BillStatus
func (s BillStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status
func (s BillStatus) CanTransitionTo(target BillStatus) bool {
	switch s {
	case BillStatusUndetermined:
		return target == BillStatusDetermined
	case BillStatusDetermined:
		return target == BillStatusBilled
	case BillStatusBilled:
		return false // terminal
	}
	return false
}

// AgencyBillingStatus represents the agency routing lifecycle of a bill.
// It only ever advances past none when the orderer routes through the agency.
type AgencyBillingStatus string

const (
	AgencyBillingStatusNone    AgencyBillingStatus = "none"
	AgencyBillingStatusWaiting AgencyBillingStatus = "waiting"
	AgencyBillingStatusSent    AgencyBillingStatus = "sent"
)

// IsValid checks if the status is a valid AgencyBillingStatus
func (s AgencyBillingStatus) IsValid() bool {
	switch s {
	case AgencyBillingStatusNone, AgencyBillingStatusWaiting, AgencyBillingStatusSent:
		return true
	}
	return false
}

// String returns the string representation of AgencyBillingStatus
func (s AgencyBillingStatus) String() string {
	return string(s)
}

// Bill represents a subcontractor's payment request against a work order.
// It is the aggregate root for the billing context; its determination lifecycle
// and agency routing lifecycle advance independently.
type Bill struct {
	shared.BaseAggregateRoot
	OrderID       uuid.UUID           `gorm:"type:uuid;not null;index"`
	OrdererID     uuid.UUID           `gorm:"type:uuid;not null;index"` // copied from the order at spawn, not re-derived
	OrdererName   string              `gorm:"type:varchar(200);not null"`
	CompanyID     uuid.UUID           `gorm:"type:uuid;not null;index"`
	CompanyName   string              `gorm:"type:varchar(200);not null"`
	PaymentMethod PaymentMethod       `gorm:"type:varchar(30);not null;default:'invoice'"`
	Price         *decimal.Decimal    `gorm:"type:decimal(18,0)"`
	BillOn        *time.Time          // settlement reference date, recorded at determination
	Status        BillStatus          `gorm:"type:varchar(20);not null;default:'undetermined';index"`
	AgencyStatus  AgencyBillingStatus `gorm:"type:varchar(20);not null;default:'none';index"`
	DeterminedAt  *time.Time
	BilledAt      *time.Time
	AgencySentAt  *time.Time
}

// TableName returns the table name for GORM
func (Bill) TableName() string {
	return "bills"
}

// NewBill spawns a bill for an accepted work order. Party references and the
// price (when already agreed) are copied from the order; the payment method
// defaults to invoice until the subcontractor chooses one.
func NewBill(orderID, ordererID uuid.UUID, ordererName string, companyID uuid.UUID, companyName string, price *decimal.Decimal) (*Bill, error) {
	if orderID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ORDER", "Order ID cannot be empty")
	}
	if ordererID == uuid.Nil || companyID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PARTY", "Bill parties cannot be empty")
	}
	if price != nil && price.IsNegative() {
		return nil, shared.ErrInvalidAmount
	}

	bill := &Bill{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		OrderID:           orderID,
		OrdererID:         ordererID,
		OrdererName:       ordererName,
		CompanyID:         companyID,
		CompanyName:       companyName,
		PaymentMethod:     PaymentMethodInvoice,
		Price:             price,
		Status:            BillStatusUndetermined,
		AgencyStatus:      AgencyBillingStatusNone,
	}

	bill.AddDomainEvent(NewBillCreatedEvent(bill))

	return bill, nil
}

// SetPaymentMethod selects the settlement method. Allowed only while the
// amount is still undetermined.
func (b *Bill) SetPaymentMethod(method PaymentMethod) error {
	if !method.IsValid() {
		return shared.NewDomainError("INVALID_PAYMENT_METHOD", "Unknown payment method: "+method.String())
	}
	if b.Status != BillStatusUndetermined {
		return shared.NewDomainError("INVALID_STATE", "Cannot change payment method after the amount was determined")
	}

	b.PaymentMethod = method
	b.UpdatedAt = time.Now()
	b.IncrementVersion()

	return nil
}

// SetPrice sets the billed amount. Allowed only while undetermined.
func (b *Bill) SetPrice(price decimal.Decimal) error {
	if price.IsNegative() {
		return shared.ErrInvalidAmount
	}
	if b.Status != BillStatusUndetermined {
		return shared.NewDomainError("INVALID_STATE", "Cannot change price after the amount was determined")
	}

	b.Price = &price
	b.UpdatedAt = time.Now()
	b.IncrementVersion()

	return nil
}

// Determine fixes the billed amount and records the settlement reference date.
// Legal only from undetermined. A price may be passed here or have been set
// earlier; determining without any price is a validation failure.
func (b *Bill) Determine(price *decimal.Decimal, billOn time.Time) error {
	if !b.Status.CanTransitionTo(BillStatusDetermined) {
		return shared.NewIllegalTransition("determine", b.Status.String())
	}
	if price != nil {
		if price.IsNegative() {
			return shared.ErrInvalidAmount
		}
		b.Price = price
	}
	if b.Price == nil {
		return shared.NewDomainError("VALIDATION_FAILED", "Cannot determine a bill without a price")
	}

	now := time.Now()
	b.Status = BillStatusDetermined
	b.BillOn = &billOn
	b.DeterminedAt = &now
	b.UpdatedAt = now
	b.IncrementVersion()

	b.AddDomainEvent(NewBillDeterminedEvent(b))

	return nil
}

// ConfirmBilling finalizes the bill. Legal only from determined. When the
// orderer routes through the agency the routing lifecycle advances to waiting
// in the same step; the orchestrator creates the settlement receivables in the
// same storage transaction.
func (b *Bill) ConfirmBilling(useAgency bool) error {
	if !b.Status.CanTransitionTo(BillStatusBilled) {
		return shared.NewIllegalTransition("confirm billing", b.Status.String())
	}
	if b.Price == nil || b.BillOn == nil {
		return shared.NewDomainError("VALIDATION_FAILED", "Cannot confirm a bill without a determined price and billing date")
	}

	now := time.Now()
	b.Status = BillStatusBilled
	b.BilledAt = &now
	if useAgency {
		b.AgencyStatus = AgencyBillingStatusWaiting
	}
	b.UpdatedAt = now
	b.IncrementVersion()

	b.AddDomainEvent(NewBillConfirmedEvent(b))

	return nil
}

// SendToOrderer marks the agency's bill as forwarded to the orderer.
// Legal only while the routing lifecycle is waiting; no amounts change.
func (b *Bill) SendToOrderer() error {
	if b.AgencyStatus != AgencyBillingStatusWaiting {
		return shared.NewIllegalTransition("send to orderer", b.AgencyStatus.String())
	}

	now := time.Now()
	b.AgencyStatus = AgencyBillingStatusSent
	b.AgencySentAt = &now
	b.UpdatedAt = now
	b.IncrementVersion()

	b.AddDomainEvent(NewBillSentToOrdererEvent(b))

	return nil
}

// HasPrice returns true if the billed amount has been set
func (b *Bill) HasPrice() bool {
	return b.Price != nil
}

// GetPriceMoney returns the billed amount as Money, or zero JPY when unset
func (b *Bill) GetPriceMoney() valueobject.Money {
	if b.Price == nil {
		return valueobject.ZeroJPY()
	}
	return valueobject.NewMoneyJPY(*b.Price)
}
