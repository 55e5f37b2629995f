package finance

import (
	"context"

	"github.com/genba/backend/internal/domain/finance"
	"github.com/genba/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ReceivableService handles receivable payment, both interactive and via the
// agency's batch payout run.
type ReceivableService struct {
	receivableRepo finance.ReceivableRepository
	eventBus       shared.EventBus
	logger         *zap.Logger
}

// NewReceivableService creates a new ReceivableService
func NewReceivableService(receivableRepo finance.ReceivableRepository, eventBus shared.EventBus, logger *zap.Logger) *ReceivableService {
	return &ReceivableService{
		receivableRepo: receivableRepo,
		eventBus:       eventBus,
		logger:         logger,
	}
}

// publishEvents publishes and clears the pending domain events of the aggregate
func (s *ReceivableService) publishEvents(ctx context.Context, receivable *finance.Receivable) {
	if s.eventBus == nil {
		return
	}

	for _, event := range receivable.GetDomainEvents() {
		_ = s.eventBus.Publish(ctx, event)
	}
	receivable.ClearDomainEvents()
}

// GetByID retrieves a receivable by ID
func (s *ReceivableService) GetByID(ctx context.Context, receivableID uuid.UUID) (*ReceivableResponse, error) {
	receivable, err := s.receivableRepo.FindByID(ctx, receivableID)
	if err != nil {
		return nil, err
	}

	response := ToReceivableResponse(receivable)
	return &response, nil
}

// List retrieves receivables with filtering and pagination
func (s *ReceivableService) List(ctx context.Context, filter ReceivableListFilter) ([]ReceivableResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	if filter.OrderBy == "" {
		filter.OrderBy = "pay_on"
	}
	if filter.OrderDir == "" {
		filter.OrderDir = "asc"
	}

	if filter.BillID != nil {
		receivables, err := s.receivableRepo.FindByBill(ctx, *filter.BillID)
		if err != nil {
			return nil, 0, err
		}
		responses := make([]ReceivableResponse, len(receivables))
		for i := range receivables {
			responses[i] = ToReceivableResponse(&receivables[i])
		}
		return responses, int64(len(receivables)), nil
	}

	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Filters:  make(map[string]interface{}),
	}
	if filter.Status != "" {
		domainFilter.Filters["status"] = filter.Status
	}

	receivables, err := s.receivableRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.receivableRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]ReceivableResponse, len(receivables))
	for i := range receivables {
		responses[i] = ToReceivableResponse(&receivables[i])
	}

	return responses, total, nil
}

// Pay marks a receivable as paid. The save is guarded by the version read
// with the record, so a concurrent payout run makes exactly one of the two
// writers lose with a conflict.
func (s *ReceivableService) Pay(ctx context.Context, receivableID uuid.UUID) (*ReceivableResponse, error) {
	receivable, err := s.receivableRepo.FindByID(ctx, receivableID)
	if err != nil {
		return nil, err
	}

	expectedVersion := receivable.GetVersion()
	if err := receivable.Pay(); err != nil {
		return nil, err
	}

	if err := s.receivableRepo.SaveWithLock(ctx, receivable, expectedVersion); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, receivable)

	s.logger.Info("Receivable paid",
		zap.String("receivable_id", receivable.ID.String()),
		zap.String("amount", receivable.GetPriceMoney().String()))

	response := ToReceivableResponse(receivable)
	return &response, nil
}

// IngestPaymentSchedule runs the agency's payout: every will_pay receivable
// owed by the agency is marked paid. Records are independent; a failure on
// one is collected and does not roll back records already applied.
func (s *ReceivableService) IngestPaymentSchedule(ctx context.Context, req IngestPaymentScheduleRequest) (*IngestResult, error) {
	receivables, err := s.receivableRepo.FindPayableByOrderer(ctx, req.AgencyCompanyID)
	if err != nil {
		return nil, err
	}

	result := &IngestResult{
		Scanned:  len(receivables),
		Failures: []IngestFailure{},
	}

	for i := range receivables {
		receivable := &receivables[i]

		expectedVersion := receivable.GetVersion()
		if err := receivable.Pay(); err != nil {
			result.Failures = append(result.Failures, IngestFailure{
				ReceivableID: receivable.ID,
				Error:        err.Error(),
			})
			continue
		}

		if err := s.receivableRepo.SaveWithLock(ctx, receivable, expectedVersion); err != nil {
			result.Failures = append(result.Failures, IngestFailure{
				ReceivableID: receivable.ID,
				Error:        err.Error(),
			})
			s.logger.Warn("Payout run lost a record",
				zap.String("receivable_id", receivable.ID.String()),
				zap.Error(err))
			continue
		}

		s.publishEvents(ctx, receivable)
		result.Applied++
	}

	s.logger.Info("Payment schedule ingested",
		zap.String("agency_company_id", req.AgencyCompanyID.String()),
		zap.Int("scanned", result.Scanned),
		zap.Int("applied", result.Applied),
		zap.Int("failed", len(result.Failures)))

	return result, nil
}
