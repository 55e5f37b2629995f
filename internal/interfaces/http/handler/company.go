package handler

import (
	partnerapp "github.com/genba/backend/internal/application/partner"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CompanyHandler handles company registration and lookup endpoints
type CompanyHandler struct {
	BaseHandler
	companyService *partnerapp.CompanyService
}

// NewCompanyHandler creates a new CompanyHandler
func NewCompanyHandler(companyService *partnerapp.CompanyService) *CompanyHandler {
	return &CompanyHandler{
		companyService: companyService,
	}
}

// RegisterRoutes registers the company routes
func (h *CompanyHandler) RegisterRoutes(rg *gin.RouterGroup) {
	companies := rg.Group("/companies")
	{
		companies.POST("", h.Create)
		companies.GET("", h.List)
		companies.GET("/:id", h.GetByID)
	}
}

// Create registers a new company
func (h *CompanyHandler) Create(c *gin.Context) {
	var req partnerapp.CreateCompanyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	company, err := h.companyService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, company)
}

// GetByID retrieves a company by ID
func (h *CompanyHandler) GetByID(c *gin.Context) {
	companyID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid company ID format")
		return
	}

	company, err := h.companyService.GetByID(c.Request.Context(), companyID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, company)
}

// List retrieves companies with filtering and pagination
func (h *CompanyHandler) List(c *gin.Context) {
	var filter partnerapp.CompanyListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	companies, total, err := h.companyService.List(c.Request.Context(), filter)
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
	h.SuccessWithMeta(c, companies, total, page, pageSize)
}
