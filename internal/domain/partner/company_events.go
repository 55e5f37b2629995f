package partner

import (
	"github.com/genba/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Aggregate type constant
const AggregateTypeCompany = "Company"

// Event type constants
const (
	EventTypeCompanyCreated = "CompanyCreated"
)

// CompanyCreatedEvent is raised when a new company is registered
type CompanyCreatedEvent struct {
	shared.BaseDomainEvent
	CompanyID uuid.UUID `json:"company_id"`
	Name      string    `json:"name"`
	UseAgency bool      `json:"use_agency"`
}

// NewCompanyCreatedEvent creates a new CompanyCreatedEvent
func NewCompanyCreatedEvent(company *Company) *CompanyCreatedEvent {
	return &CompanyCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCompanyCreated, AggregateTypeCompany, company.ID),
		CompanyID:       company.ID,
		Name:            company.Name,
		UseAgency:       company.UseAgency,
	}
}

// EventType returns the event type name
func (e *CompanyCreatedEvent) EventType() string {
	return EventTypeCompanyCreated
}
