package partner

import (
	"context"

	"github.com/genba/backend/internal/domain/partner"
	"github.com/genba/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// CompanyService handles company registration and lookup
type CompanyService struct {
	companyRepo partner.CompanyRepository
}

// NewCompanyService creates a new CompanyService
func NewCompanyService(companyRepo partner.CompanyRepository) *CompanyService {
	return &CompanyService{
		companyRepo: companyRepo,
	}
}

// Create registers a new company
func (s *CompanyService) Create(ctx context.Context, req CreateCompanyRequest) (*CompanyResponse, error) {
	exists, err := s.companyRepo.ExistsByName(ctx, req.Name)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Company with this name already exists")
	}

	company, err := partner.NewCompany(req.Name, req.UseAgency)
	if err != nil {
		return nil, err
	}

	if err := s.companyRepo.Save(ctx, company); err != nil {
		return nil, err
	}

	response := ToCompanyResponse(company)
	return &response, nil
}

// GetByID retrieves a company by ID
func (s *CompanyService) GetByID(ctx context.Context, companyID uuid.UUID) (*CompanyResponse, error) {
	company, err := s.companyRepo.FindByID(ctx, companyID)
	if err != nil {
		return nil, err
	}

	response := ToCompanyResponse(company)
	return &response, nil
}

// List retrieves companies with filtering and pagination
func (s *CompanyService) List(ctx context.Context, filter CompanyListFilter) ([]CompanyResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	if filter.OrderBy == "" {
		filter.OrderBy = "created_at"
	}
	if filter.OrderDir == "" {
		filter.OrderDir = "desc"
	}

	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Filters:  make(map[string]interface{}),
	}
	if filter.Search != "" {
		domainFilter.Filters["search"] = filter.Search
	}

	companies, err := s.companyRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.companyRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]CompanyResponse, len(companies))
	for i := range companies {
		responses[i] = ToCompanyResponse(&companies[i])
	}

	return responses, total, nil
}
