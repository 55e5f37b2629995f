package handler

import (
	"context"

	tradeapp "github.com/genba/backend/internal/application/trade"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// WorkOrderHandler handles the work order request and construction endpoints
type WorkOrderHandler struct {
	BaseHandler
	workOrderService *tradeapp.WorkOrderService
}

// NewWorkOrderHandler creates a new WorkOrderHandler
func NewWorkOrderHandler(workOrderService *tradeapp.WorkOrderService) *WorkOrderHandler {
	return &WorkOrderHandler{
		workOrderService: workOrderService,
	}
}

// RegisterRoutes registers the work order routes
func (h *WorkOrderHandler) RegisterRoutes(rg *gin.RouterGroup) {
	orders := rg.Group("/work-orders")
	{
		orders.POST("", h.Create)
		orders.GET("", h.List)
		orders.GET("/:id", h.GetByID)
		orders.PUT("/:id/price", h.SetPrice)
		orders.POST("/:id/send", h.Send)
		orders.POST("/:id/receive", h.Receive)
		orders.POST("/:id/accept", h.Accept)
		orders.POST("/:id/construction/start", h.StartConstruction)
		orders.POST("/:id/construction/complete", h.CompleteConstruction)
		orders.POST("/:id/construction/approve", h.ApproveConstruction)
	}
}

// Create issues a new work order
func (h *WorkOrderHandler) Create(c *gin.Context) {
	var req tradeapp.CreateWorkOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	order, err := h.workOrderService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, order)
}

// GetByID retrieves a work order by ID
func (h *WorkOrderHandler) GetByID(c *gin.Context) {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid work order ID format")
		return
	}

	order, err := h.workOrderService.GetByID(c.Request.Context(), orderID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, order)
}

// List retrieves work orders with filtering and pagination
func (h *WorkOrderHandler) List(c *gin.Context) {
	var filter tradeapp.WorkOrderListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	var err error
	if filter.OrdererID, err = queryUUID(c, "orderer_id"); err != nil {
		h.BadRequest(c, "Invalid orderer ID format")
		return
	}
	if filter.CompanyID, err = queryUUID(c, "company_id"); err != nil {
		h.BadRequest(c, "Invalid company ID format")
		return
	}

	orders, total, err := h.workOrderService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	page := filter.Page
	if page <= 0 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize <= 0 {
		pageSize = 20
	}
	h.SuccessWithMeta(c, orders, total, page, pageSize)
}

// SetPrice agrees on the order amount
func (h *WorkOrderHandler) SetPrice(c *gin.Context) {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid work order ID format")
		return
	}

	var req tradeapp.SetWorkOrderPriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	order, err := h.workOrderService.SetPrice(c.Request.Context(), orderID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, order)
}

// Send marks the paperwork as dispatched to the subcontractor
func (h *WorkOrderHandler) Send(c *gin.Context) {
	h.transition(c, h.workOrderService.Send)
}

// Receive marks the order as received by the subcontractor
func (h *WorkOrderHandler) Receive(c *gin.Context) {
	h.transition(c, h.workOrderService.Receive)
}

// Accept marks the order as accepted, spawning its bill
func (h *WorkOrderHandler) Accept(c *gin.Context) {
	h.transition(c, h.workOrderService.Accept)
}

// StartConstruction begins construction on the order
func (h *WorkOrderHandler) StartConstruction(c *gin.Context) {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid work order ID format")
		return
	}

	// The body is optional: only the start advance needs the agency party.
	var req tradeapp.StartConstructionRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			h.BadRequest(c, err.Error())
			return
		}
	}

	order, err := h.workOrderService.StartConstruction(c.Request.Context(), orderID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, order)
}

// CompleteConstruction marks the construction work as finished
func (h *WorkOrderHandler) CompleteConstruction(c *gin.Context) {
	h.transition(c, h.workOrderService.CompleteConstruction)
}

// ApproveConstruction marks the completed work as approved by the orderer
func (h *WorkOrderHandler) ApproveConstruction(c *gin.Context) {
	h.transition(c, h.workOrderService.ApproveConstruction)
}

// transition parses the order ID and applies a body-less lifecycle operation
func (h *WorkOrderHandler) transition(c *gin.Context, op func(ctx context.Context, id uuid.UUID) (*tradeapp.WorkOrderResponse, error)) {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid work order ID format")
		return
	}

	order, err := op(c.Request.Context(), orderID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, order)
}
