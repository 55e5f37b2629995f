package billing

import (
	"context"

	"github.com/genba/backend/internal/domain/finance"
	"github.com/genba/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// BillRepository defines the interface for bill persistence
type BillRepository interface {
	// FindByID finds a bill by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Bill, error)

	// FindByOrder finds the bills spawned for a work order
	FindByOrder(ctx context.Context, orderID uuid.UUID) ([]Bill, error)

	// FindAll finds all bills matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]Bill, error)

	// Save creates or updates a bill
	Save(ctx context.Context, bill *Bill) error

	// SaveWithReceivables saves the bill and the receivables generated by its
	// confirmation in one transaction. An observer must never see a billed
	// bill without its receivables.
	SaveWithReceivables(ctx context.Context, bill *Bill, receivables []*finance.Receivable) error

	// Count counts bills matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}
