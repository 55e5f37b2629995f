package finance

import (
	"time"

	"github.com/genba/backend/internal/domain/finance"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// IngestPaymentScheduleRequest triggers the agency's payout run. The agency
// is passed explicitly as the paying party.
type IngestPaymentScheduleRequest struct {
	AgencyCompanyID uuid.UUID `json:"agency_company_id" binding:"required"`
}

// IngestFailure records one receivable the payout run could not apply
type IngestFailure struct {
	ReceivableID uuid.UUID `json:"receivable_id"`
	Error        string    `json:"error"`
}

// IngestResult summarizes a payout run. Applied records stand even when
// later records fail.
type IngestResult struct {
	Scanned  int             `json:"scanned"`
	Applied  int             `json:"applied"`
	Failures []IngestFailure `json:"failures"`
}

// ReceivableResponse represents a receivable in API responses
type ReceivableResponse struct {
	ID        uuid.UUID       `json:"id"`
	BillID    uuid.UUID       `json:"bill_id"`
	OrdererID uuid.UUID       `json:"orderer_id"`
	CompanyID uuid.UUID       `json:"company_id"`
	Price     decimal.Decimal `json:"price"`
	PayOn     time.Time       `json:"pay_on"`
	Phase     string          `json:"phase"`
	Status    string          `json:"status"`
	PaidAt    *time.Time      `json:"paid_at"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
	Version   int             `json:"version"`
}

// ReceivableListFilter represents filter options for the receivable list
type ReceivableListFilter struct {
	BillID   *uuid.UUID `form:"-"`
	Status   string     `form:"status" binding:"omitempty,oneof=will_pay paid"`
	Page     int        `form:"page" binding:"omitempty,min=1"`
	PageSize int        `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string     `form:"order_by"`
	OrderDir string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// ToReceivableResponse converts a domain receivable to a response DTO
func ToReceivableResponse(r *finance.Receivable) ReceivableResponse {
	return ReceivableResponse{
		ID:        r.ID,
		BillID:    r.BillID,
		OrdererID: r.OrdererID,
		CompanyID: r.CompanyID,
		Price:     r.Price,
		PayOn:     r.PayOn,
		Phase:     string(r.Phase),
		Status:    r.Status.String(),
		PaidAt:    r.PaidAt,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
		Version:   r.GetVersion(),
	}
}
