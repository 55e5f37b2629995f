package trade

import (
	"context"

	"github.com/genba/backend/internal/domain/billing"
	"github.com/genba/backend/internal/domain/finance"
	"github.com/genba/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// WorkOrderRepository defines the interface for work order persistence
type WorkOrderRepository interface {
	// FindByID finds a work order by ID
	FindByID(ctx context.Context, id uuid.UUID) (*WorkOrder, error)

	// FindAll finds all work orders matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]WorkOrder, error)

	// FindByOrderer finds work orders issued by an orderer
	FindByOrderer(ctx context.Context, ordererID uuid.UUID, filter shared.Filter) ([]WorkOrder, error)

	// FindByCompany finds work orders assigned to a subcontractor
	FindByCompany(ctx context.Context, companyID uuid.UUID, filter shared.Filter) ([]WorkOrder, error)

	// Save creates or updates a work order
	Save(ctx context.Context, order *WorkOrder) error

	// SaveWithBill saves the order and its newly spawned bill in one transaction.
	// An observer must never see an accepted order without its child bill.
	SaveWithBill(ctx context.Context, order *WorkOrder, bill *billing.Bill) error

	// SaveWithReceivables saves the order together with receivables created by the
	// settlement calculator (the start_and_complete phase-1 leg) in one transaction.
	SaveWithReceivables(ctx context.Context, order *WorkOrder, receivables []*finance.Receivable) error

	// Count counts work orders matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}
