package partner

import (
	"time"

	"github.com/genba/backend/internal/domain/partner"
	"github.com/google/uuid"
)

// CreateCompanyRequest represents a request to register a company
type CreateCompanyRequest struct {
	Name      string `json:"name" binding:"required,min=1,max=200"`
	UseAgency bool   `json:"use_agency"`
}

// CompanyResponse represents a company in API responses
type CompanyResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	UseAgency bool      `json:"use_agency"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Version   int       `json:"version"`
}

// CompanyListFilter represents filter options for the company list
type CompanyListFilter struct {
	Search   string `form:"search"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// ToCompanyResponse converts a domain company to a response DTO
func ToCompanyResponse(c *partner.Company) CompanyResponse {
	return CompanyResponse{
		ID:        c.ID,
		Name:      c.Name,
		UseAgency: c.UseAgency,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
		Version:   c.GetVersion(),
	}
}
