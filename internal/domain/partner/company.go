package partner

import (
	"strings"

	"github.com/genba/backend/internal/domain/shared"
)

// Company represents a party in the subcontracting workflow.
// It is the aggregate root for the party registry: a company appears as a
// general contractor (orderer), a subcontractor, or the billing agency itself.
type Company struct {
	shared.BaseAggregateRoot
	Name      string `gorm:"type:varchar(200);not null;uniqueIndex"`
	UseAgency bool   `gorm:"not null;default:true"` // whether this party's bills route through the billing agency
}

// TableName returns the table name for GORM
func (Company) TableName() string {
	return "companies"
}

// NewCompany creates a new company. The record is immutable once created;
// the workflow only ever reads it.
func NewCompany(name string, useAgency bool) (*Company, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Company name cannot be empty")
	}
	if len(name) > 200 {
		return nil, shared.NewDomainError("INVALID_NAME", "Company name cannot exceed 200 characters")
	}

	company := &Company{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		UseAgency:         useAgency,
	}

	company.AddDomainEvent(NewCompanyCreatedEvent(company))

	return company, nil
}
