package trade

import (
	"time"

	"github.com/genba/backend/internal/domain/trade"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateWorkOrderRequest represents a request to issue a work order
type CreateWorkOrderRequest struct {
	OrdererID uuid.UUID        `json:"orderer_id" binding:"required"`
	CompanyID uuid.UUID        `json:"company_id" binding:"required"`
	Price     *decimal.Decimal `json:"price"`
}

// SetWorkOrderPriceRequest represents a request to agree on the order amount
type SetWorkOrderPriceRequest struct {
	Price decimal.Decimal `json:"price" binding:"required"`
}

// StartConstructionRequest carries the agency party for the start advance.
// Required only when the order's bill uses start_and_complete and the orderer
// routes through the agency.
type StartConstructionRequest struct {
	AgencyCompanyID *uuid.UUID `json:"agency_company_id"`
}

// WorkOrderResponse represents a work order in API responses
type WorkOrderResponse struct {
	ID                      uuid.UUID        `json:"id"`
	OrdererID               uuid.UUID        `json:"orderer_id"`
	OrdererName             string           `json:"orderer_name"`
	CompanyID               uuid.UUID        `json:"company_id"`
	CompanyName             string           `json:"company_name"`
	Price                   *decimal.Decimal `json:"price"`
	Status                  string           `json:"status"`
	ConstructionStatus      string           `json:"construction_status"`
	ShippingStatus          string           `json:"shipping_status"`
	SentAt                  *time.Time       `json:"sent_at"`
	ReceivedAt              *time.Time       `json:"received_at"`
	AcceptedAt              *time.Time       `json:"accepted_at"`
	ConstructionStartedAt   *time.Time       `json:"construction_started_at"`
	ConstructionCompletedAt *time.Time       `json:"construction_completed_at"`
	CompletionApprovedAt    *time.Time       `json:"completion_approved_at"`
	CreatedAt               time.Time        `json:"created_at"`
	UpdatedAt               time.Time        `json:"updated_at"`
	Version                 int              `json:"version"`
}

// WorkOrderListFilter represents filter options for the work order list
type WorkOrderListFilter struct {
	OrdererID *uuid.UUID `form:"-"`
	CompanyID *uuid.UUID `form:"-"`
	Status    string     `form:"status" binding:"omitempty,oneof=created received accepted"`
	Page      int        `form:"page" binding:"omitempty,min=1"`
	PageSize  int        `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy   string     `form:"order_by"`
	OrderDir  string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// ToWorkOrderResponse converts a domain work order to a response DTO
func ToWorkOrderResponse(o *trade.WorkOrder) WorkOrderResponse {
	return WorkOrderResponse{
		ID:                      o.ID,
		OrdererID:               o.OrdererID,
		OrdererName:             o.OrdererName,
		CompanyID:               o.CompanyID,
		CompanyName:             o.CompanyName,
		Price:                   o.Price,
		Status:                  o.Status.String(),
		ConstructionStatus:      o.ConstructionStatus.String(),
		ShippingStatus:          o.ShippingStatus.String(),
		SentAt:                  o.SentAt,
		ReceivedAt:              o.ReceivedAt,
		AcceptedAt:              o.AcceptedAt,
		ConstructionStartedAt:   o.ConstructionStartedAt,
		ConstructionCompletedAt: o.ConstructionCompletedAt,
		CompletionApprovedAt:    o.CompletionApprovedAt,
		CreatedAt:               o.CreatedAt,
		UpdatedAt:               o.UpdatedAt,
		Version:                 o.GetVersion(),
	}
}
