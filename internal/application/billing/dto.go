package billing

import (
	"time"

	"github.com/genba/backend/internal/domain/billing"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SetPaymentMethodRequest selects the bill's settlement method
type SetPaymentMethodRequest struct {
	PaymentMethod string `json:"payment_method" binding:"required,oneof=invoice complete start_and_complete"`
}

// SetBillPriceRequest sets the billed amount before determination
type SetBillPriceRequest struct {
	Price decimal.Decimal `json:"price" binding:"required"`
}

// DetermineBillRequest fixes the billed amount and billing date
type DetermineBillRequest struct {
	Price  *decimal.Decimal `json:"price"`
	BillOn time.Time        `json:"bill_on" binding:"required" time_format:"2006-01-02"`
}

// ConfirmBillingRequest carries the agency party for settlement. Required
// when the bill's orderer routes through the agency.
type ConfirmBillingRequest struct {
	AgencyCompanyID *uuid.UUID `json:"agency_company_id"`
}

// BillResponse represents a bill in API responses
type BillResponse struct {
	ID            uuid.UUID        `json:"id"`
	OrderID       uuid.UUID        `json:"order_id"`
	OrdererID     uuid.UUID        `json:"orderer_id"`
	OrdererName   string           `json:"orderer_name"`
	CompanyID     uuid.UUID        `json:"company_id"`
	CompanyName   string           `json:"company_name"`
	PaymentMethod string           `json:"payment_method"`
	Price         *decimal.Decimal `json:"price"`
	BillOn        *time.Time       `json:"bill_on"`
	Status        string           `json:"status"`
	AgencyStatus  string           `json:"agency_status"`
	DeterminedAt  *time.Time       `json:"determined_at"`
	BilledAt      *time.Time       `json:"billed_at"`
	AgencySentAt  *time.Time       `json:"agency_sent_at"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`
	Version       int              `json:"version"`
}

// BillListFilter represents filter options for the bill list
type BillListFilter struct {
	OrderID  *uuid.UUID `form:"-"`
	Status   string     `form:"status" binding:"omitempty,oneof=undetermined determined billed"`
	Page     int        `form:"page" binding:"omitempty,min=1"`
	PageSize int        `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string     `form:"order_by"`
	OrderDir string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// ToBillResponse converts a domain bill to a response DTO
func ToBillResponse(b *billing.Bill) BillResponse {
	return BillResponse{
		ID:            b.ID,
		OrderID:       b.OrderID,
		OrdererID:     b.OrdererID,
		OrdererName:   b.OrdererName,
		CompanyID:     b.CompanyID,
		CompanyName:   b.CompanyName,
		PaymentMethod: b.PaymentMethod.String(),
		Price:         b.Price,
		BillOn:        b.BillOn,
		Status:        b.Status.String(),
		AgencyStatus:  b.AgencyStatus.String(),
		DeterminedAt:  b.DeterminedAt,
		BilledAt:      b.BilledAt,
		AgencySentAt:  b.AgencySentAt,
		CreatedAt:     b.CreatedAt,
		UpdatedAt:     b.UpdatedAt,
		Version:       b.GetVersion(),
	}
}
