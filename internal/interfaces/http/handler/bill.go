package handler

import (
	billingapp "github.com/genba/backend/internal/application/billing"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// BillHandler handles the bill determination and confirmation endpoints
type BillHandler struct {
	BaseHandler
	billingService *billingapp.BillingService
}

// NewBillHandler creates a new BillHandler
func NewBillHandler(billingService *billingapp.BillingService) *BillHandler {
	return &BillHandler{
		billingService: billingService,
	}
}

// RegisterRoutes registers the bill routes
func (h *BillHandler) RegisterRoutes(rg *gin.RouterGroup) {
	bills := rg.Group("/bills")
	{
		bills.GET("", h.List)
		bills.GET("/:id", h.GetByID)
		bills.PUT("/:id/payment-method", h.SetPaymentMethod)
		bills.PUT("/:id/price", h.SetPrice)
		bills.POST("/:id/determine", h.Determine)
		bills.POST("/:id/confirm", h.Confirm)
		bills.POST("/:id/send-to-orderer", h.SendToOrderer)
	}
}

// GetByID retrieves a bill by ID
func (h *BillHandler) GetByID(c *gin.Context) {
	billID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid bill ID format")
		return
	}

	bill, err := h.billingService.GetByID(c.Request.Context(), billID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, bill)
}

// List retrieves bills with filtering and pagination
func (h *BillHandler) List(c *gin.Context) {
	var filter billingapp.BillListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	var err error
	if filter.OrderID, err = queryUUID(c, "order_id"); err != nil {
		h.BadRequest(c, "Invalid order ID format")
		return
	}

	bills, total, err := h.billingService.List(c.Request.Context(), filter)
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
	h.SuccessWithMeta(c, bills, total, page, pageSize)
}

// SetPaymentMethod chooses how the bill settles
func (h *BillHandler) SetPaymentMethod(c *gin.Context) {
	billID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid bill ID format")
		return
	}

	var req billingapp.SetPaymentMethodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	bill, err := h.billingService.SetPaymentMethod(c.Request.Context(), billID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, bill)
}

// SetPrice sets the billed amount on an undetermined bill
func (h *BillHandler) SetPrice(c *gin.Context) {
	billID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid bill ID format")
		return
	}

	var req billingapp.SetBillPriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	bill, err := h.billingService.SetPrice(c.Request.Context(), billID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, bill)
}

// Determine fixes the billed amount and the billing reference date
func (h *BillHandler) Determine(c *gin.Context) {
	billID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid bill ID format")
		return
	}

	var req billingapp.DetermineBillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	bill, err := h.billingService.Determine(c.Request.Context(), billID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, bill)
}

// Confirm finalizes the bill and creates the settlement receivables
func (h *BillHandler) Confirm(c *gin.Context) {
	billID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid bill ID format")
		return
	}

	// The body is optional: only agency-routed settlement needs the agency party.
	var req billingapp.ConfirmBillingRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			h.BadRequest(c, err.Error())
			return
		}
	}

	bill, err := h.billingService.ConfirmBilling(c.Request.Context(), billID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, bill)
}

// SendToOrderer marks the agency's bill as forwarded to the orderer
func (h *BillHandler) SendToOrderer(c *gin.Context) {
	billID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid bill ID format")
		return
	}

	bill, err := h.billingService.SendToOrderer(c.Request.Context(), billID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, bill)
}
