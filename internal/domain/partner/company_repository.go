package partner

import (
	"context"

	"github.com/genba/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// CompanyRepository defines the interface for company persistence
type CompanyRepository interface {
	// FindByID finds a company by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Company, error)

	// FindByName finds a company by its exact name
	FindByName(ctx context.Context, name string) (*Company, error)

	// FindAll finds all companies matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]Company, error)

	// Save creates or updates a company
	Save(ctx context.Context, company *Company) error

	// ExistsByName checks whether a company with the given name exists
	ExistsByName(ctx context.Context, name string) (bool, error)

	// Count counts companies matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}
