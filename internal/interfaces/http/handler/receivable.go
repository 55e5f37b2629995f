package handler

import (
	financeapp "github.com/genba/backend/internal/application/finance"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ReceivableHandler handles the receivable and payout endpoints
type ReceivableHandler struct {
	BaseHandler
	receivableService *financeapp.ReceivableService
}

// NewReceivableHandler creates a new ReceivableHandler
func NewReceivableHandler(receivableService *financeapp.ReceivableService) *ReceivableHandler {
	return &ReceivableHandler{
		receivableService: receivableService,
	}
}

// RegisterRoutes registers the receivable routes
func (h *ReceivableHandler) RegisterRoutes(rg *gin.RouterGroup) {
	receivables := rg.Group("/receivables")
	{
		receivables.GET("", h.List)
		receivables.GET("/:id", h.GetByID)
		receivables.POST("/:id/pay", h.Pay)
	}

	rg.POST("/payment-schedules/ingest", h.IngestPaymentSchedule)
}

// GetByID retrieves a receivable by ID
func (h *ReceivableHandler) GetByID(c *gin.Context) {
	receivableID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid receivable ID format")
		return
	}

	receivable, err := h.receivableService.GetByID(c.Request.Context(), receivableID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, receivable)
}

// List retrieves receivables with filtering and pagination
func (h *ReceivableHandler) List(c *gin.Context) {
	var filter financeapp.ReceivableListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	var err error
	if filter.BillID, err = queryUUID(c, "bill_id"); err != nil {
		h.BadRequest(c, "Invalid bill ID format")
		return
	}

	receivables, total, err := h.receivableService.List(c.Request.Context(), filter)
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
	h.SuccessWithMeta(c, receivables, total, page, pageSize)
}

// Pay marks a receivable as paid
func (h *ReceivableHandler) Pay(c *gin.Context) {
	receivableID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid receivable ID format")
		return
	}

	receivable, err := h.receivableService.Pay(c.Request.Context(), receivableID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, receivable)
}

// IngestPaymentSchedule runs the agency's payout across its payable receivables
func (h *ReceivableHandler) IngestPaymentSchedule(c *gin.Context) {
	var req financeapp.IngestPaymentScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.receivableService.IngestPaymentSchedule(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}
