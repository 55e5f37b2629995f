package billing

import (
	"time"

	"github.com/genba/backend/internal/domain/shared"
	"github.com/genba/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Settlement rate constants. Fee-adjusted amounts always round up to the
// smallest currency unit so that the agency never under-collects.
var (
	agencyFeeMultiplier = decimal.RequireFromString("0.95") // 5% agency fee
	startAdvancePortion = decimal.RequireFromString("0.3")  // paid at construction start
	completionPortion   = decimal.RequireFromString("0.7")  // paid at billing confirmation
)

// SettlementParties identifies the parties involved in settling a bill
type SettlementParties struct {
	OrdererID uuid.UUID // general contractor on the bill
	CompanyID uuid.UUID // subcontractor on the bill
	AgencyID  uuid.UUID // billing agency / platform party
	UseAgency bool      // whether the orderer routes through the agency
}

// ReceivableSpec describes one receivable to create: OrdererID owes
// CompanyID the Price, due on PayOn.
type ReceivableSpec struct {
	OrdererID uuid.UUID
	CompanyID uuid.UUID
	Price     valueobject.Money
	PayOn     time.Time
}

// InvoiceDueDate returns the due date under the invoice method: the end of
// the calendar month that begins one month after the billing reference date.
// For billOn 2024-01-15 that is 2024-02-29.
func InvoiceDueDate(billOn time.Time) time.Time {
	y, m, _ := billOn.Date()
	// day 0 of month m+3 normalizes to the last day of month m+2 (1-indexed m+1)
	return time.Date(y, m+2, 0, 0, 0, 0, 0, billOn.Location())
}

// CalculateSettlement produces the ordered list of receivables to create when
// a bill is confirmed, per payment method and agency usage.
//
// invoice: no fee, both legs due at the invoice due date.
// complete: same-day settlement, 5% fee on the subcontractor leg.
// start_and_complete: the confirmation phase settles the remaining 70% to the
// subcontractor (after fee) and the full price from the orderer; the 30%
// advance was settled at construction start via CalculateStartAdvance.
func CalculateSettlement(method PaymentMethod, price valueobject.Money, billOn time.Time, parties SettlementParties) ([]ReceivableSpec, error) {
	if price.IsNegative() {
		return nil, shared.ErrInvalidAmount
	}

	switch method {
	case PaymentMethodInvoice:
		payOn := InvoiceDueDate(billOn)
		if !parties.UseAgency {
			return []ReceivableSpec{
				{OrdererID: parties.OrdererID, CompanyID: parties.CompanyID, Price: price, PayOn: payOn},
			}, nil
		}
		return []ReceivableSpec{
			{OrdererID: parties.AgencyID, CompanyID: parties.CompanyID, Price: price, PayOn: payOn},
			{OrdererID: parties.OrdererID, CompanyID: parties.AgencyID, Price: price, PayOn: payOn},
		}, nil

	case PaymentMethodComplete:
		if !parties.UseAgency {
			return []ReceivableSpec{
				{OrdererID: parties.OrdererID, CompanyID: parties.CompanyID, Price: price, PayOn: billOn},
			}, nil
		}
		return []ReceivableSpec{
			{OrdererID: parties.AgencyID, CompanyID: parties.CompanyID, Price: applyAgencyFee(price), PayOn: billOn},
			{OrdererID: parties.OrdererID, CompanyID: parties.AgencyID, Price: price, PayOn: billOn},
		}, nil

	case PaymentMethodStartAndComplete:
		if !parties.UseAgency {
			// The source material never defines a fee rule for split settlement
			// without the agency; reject rather than guess one.
			return nil, shared.NewDomainError("VALIDATION_FAILED",
				"Split settlement without the billing agency is not defined")
		}
		remainder := applyAgencyFee(price.Multiply(completionPortion))
		return []ReceivableSpec{
			{OrdererID: parties.AgencyID, CompanyID: parties.CompanyID, Price: remainder, PayOn: billOn},
			{OrdererID: parties.OrdererID, CompanyID: parties.AgencyID, Price: price, PayOn: billOn},
		}, nil
	}

	return nil, shared.NewDomainError("INVALID_PAYMENT_METHOD", "Unknown payment method: "+method.String())
}

// CalculateStartAdvance produces the receivable for the 30% construction-start
// advance under the start_and_complete method: the agency pays the
// subcontractor ceil(price x 0.3 x 0.95) on the start date. Methods without a
// start advance produce nothing.
func CalculateStartAdvance(method PaymentMethod, price valueobject.Money, startedOn time.Time, parties SettlementParties) ([]ReceivableSpec, error) {
	if price.IsNegative() {
		return nil, shared.ErrInvalidAmount
	}
	if !method.HasStartAdvance() {
		return nil, nil
	}
	if !parties.UseAgency {
		// Undefined for direct pay, same as the confirmation phase.
		return nil, shared.NewDomainError("VALIDATION_FAILED",
			"Split settlement without the billing agency is not defined")
	}

	advance := applyAgencyFee(price.Multiply(startAdvancePortion))
	return []ReceivableSpec{
		{OrdererID: parties.AgencyID, CompanyID: parties.CompanyID, Price: advance, PayOn: startedOn},
	}, nil
}

// applyAgencyFee deducts the 5% agency fee and rounds up to a whole unit
func applyAgencyFee(amount valueobject.Money) valueobject.Money {
	return amount.Multiply(agencyFeeMultiplier).CeilUnit()
}
