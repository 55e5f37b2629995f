package finance

import (
	"context"

	"github.com/genba/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ReceivableRepository defines the interface for receivable persistence
type ReceivableRepository interface {
	// FindByID finds a receivable by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Receivable, error)

	// FindByBill finds the receivables created by a bill's settlement
	FindByBill(ctx context.Context, billID uuid.UUID) ([]Receivable, error)

	// FindAll finds all receivables matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]Receivable, error)

	// FindPayableByOrderer finds all will_pay receivables owed by the given
	// party, ordered by due date. Used by the payment schedule ingest.
	FindPayableByOrderer(ctx context.Context, ordererID uuid.UUID) ([]Receivable, error)

	// Save creates or updates a receivable
	Save(ctx context.Context, receivable *Receivable) error

	// SaveWithLock updates the receivable only if the stored version still
	// matches expectedVersion, returning ErrConcurrencyConflict otherwise.
	SaveWithLock(ctx context.Context, receivable *Receivable, expectedVersion int) error

	// Count counts receivables matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}
