package billing

import (
	"context"

	"github.com/genba/backend/internal/domain/billing"
	"github.com/genba/backend/internal/domain/finance"
	"github.com/genba/backend/internal/domain/partner"
	"github.com/genba/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// BillingService handles the bill determination flow and the confirmation
// settlement that turns a billed amount into receivables.
type BillingService struct {
	billRepo    billing.BillRepository
	companyRepo partner.CompanyRepository
	eventBus    shared.EventBus
	logger      *zap.Logger
}

// NewBillingService creates a new BillingService
func NewBillingService(billRepo billing.BillRepository, companyRepo partner.CompanyRepository, eventBus shared.EventBus, logger *zap.Logger) *BillingService {
	return &BillingService{
		billRepo:    billRepo,
		companyRepo: companyRepo,
		eventBus:    eventBus,
		logger:      logger,
	}
}

// publishEvents publishes and clears the pending domain events of the aggregates
func (s *BillingService) publishEvents(ctx context.Context, aggregates ...shared.AggregateRoot) {
	if s.eventBus == nil {
		return
	}

	for _, aggregate := range aggregates {
		for _, event := range aggregate.GetDomainEvents() {
			_ = s.eventBus.Publish(ctx, event)
		}
		aggregate.ClearDomainEvents()
	}
}

// GetByID retrieves a bill by ID
func (s *BillingService) GetByID(ctx context.Context, billID uuid.UUID) (*BillResponse, error) {
	bill, err := s.billRepo.FindByID(ctx, billID)
	if err != nil {
		return nil, err
	}

	response := ToBillResponse(bill)
	return &response, nil
}

// List retrieves bills with filtering and pagination
func (s *BillingService) List(ctx context.Context, filter BillListFilter) ([]BillResponse, int64, error) {
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

	if filter.OrderID != nil {
		bills, err := s.billRepo.FindByOrder(ctx, *filter.OrderID)
		if err != nil {
			return nil, 0, err
		}
		responses := make([]BillResponse, len(bills))
		for i := range bills {
			responses[i] = ToBillResponse(&bills[i])
		}
		return responses, int64(len(bills)), nil
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

	bills, err := s.billRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.billRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]BillResponse, len(bills))
	for i := range bills {
		responses[i] = ToBillResponse(&bills[i])
	}

	return responses, total, nil
}

// SetPaymentMethod selects the settlement method for an undetermined bill
func (s *BillingService) SetPaymentMethod(ctx context.Context, billID uuid.UUID, req SetPaymentMethodRequest) (*BillResponse, error) {
	bill, err := s.billRepo.FindByID(ctx, billID)
	if err != nil {
		return nil, err
	}

	if err := bill.SetPaymentMethod(billing.PaymentMethod(req.PaymentMethod)); err != nil {
		return nil, err
	}

	if err := s.billRepo.Save(ctx, bill); err != nil {
		return nil, err
	}

	response := ToBillResponse(bill)
	return &response, nil
}

// SetPrice sets the billed amount on an undetermined bill
func (s *BillingService) SetPrice(ctx context.Context, billID uuid.UUID, req SetBillPriceRequest) (*BillResponse, error) {
	bill, err := s.billRepo.FindByID(ctx, billID)
	if err != nil {
		return nil, err
	}

	if err := bill.SetPrice(req.Price); err != nil {
		return nil, err
	}

	if err := s.billRepo.Save(ctx, bill); err != nil {
		return nil, err
	}

	response := ToBillResponse(bill)
	return &response, nil
}

// Determine fixes the billed amount and records the billing reference date
func (s *BillingService) Determine(ctx context.Context, billID uuid.UUID, req DetermineBillRequest) (*BillResponse, error) {
	bill, err := s.billRepo.FindByID(ctx, billID)
	if err != nil {
		return nil, err
	}

	if err := bill.Determine(req.Price, req.BillOn); err != nil {
		return nil, err
	}

	if err := s.billRepo.Save(ctx, bill); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, bill)

	response := ToBillResponse(bill)
	return &response, nil
}

// ConfirmBilling finalizes the bill and creates the settlement receivables
// in the same transaction. Whether the agency intermediates depends on the
// orderer's registration, not on the request.
func (s *BillingService) ConfirmBilling(ctx context.Context, billID uuid.UUID, req ConfirmBillingRequest) (*BillResponse, error) {
	bill, err := s.billRepo.FindByID(ctx, billID)
	if err != nil {
		return nil, err
	}

	orderer, err := s.companyRepo.FindByID(ctx, bill.OrdererID)
	if err != nil {
		return nil, err
	}

	if orderer.UseAgency && req.AgencyCompanyID == nil {
		return nil, shared.NewDomainError("VALIDATION_FAILED",
			"Agency company id is required when the orderer bills via the agency")
	}

	if err := bill.ConfirmBilling(orderer.UseAgency); err != nil {
		return nil, err
	}

	parties := billing.SettlementParties{
		OrdererID: bill.OrdererID,
		CompanyID: bill.CompanyID,
		UseAgency: orderer.UseAgency,
	}
	if req.AgencyCompanyID != nil {
		parties.AgencyID = *req.AgencyCompanyID
	}

	specs, err := billing.CalculateSettlement(bill.PaymentMethod, bill.GetPriceMoney(), *bill.BillOn, parties)
	if err != nil {
		return nil, err
	}

	receivables := make([]*finance.Receivable, 0, len(specs))
	for _, spec := range specs {
		receivable, err := finance.NewReceivable(bill.ID, spec.OrdererID, spec.CompanyID, spec.Price.Amount(), spec.PayOn, finance.PhaseConfirmation)
		if err != nil {
			return nil, err
		}
		receivables = append(receivables, receivable)
	}

	if err := s.billRepo.SaveWithReceivables(ctx, bill, receivables); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, bill)
	for _, receivable := range receivables {
		s.publishEvents(ctx, receivable)
	}

	s.logger.Info("Bill confirmed",
		zap.String("bill_id", bill.ID.String()),
		zap.String("payment_method", bill.PaymentMethod.String()),
		zap.Bool("via_agency", orderer.UseAgency),
		zap.Int("receivables", len(receivables)))

	response := ToBillResponse(bill)
	return &response, nil
}

// SendToOrderer marks the agency's bill as forwarded to the orderer
func (s *BillingService) SendToOrderer(ctx context.Context, billID uuid.UUID) (*BillResponse, error) {
	bill, err := s.billRepo.FindByID(ctx, billID)
	if err != nil {
		return nil, err
	}

	if err := bill.SendToOrderer(); err != nil {
		return nil, err
	}

	if err := s.billRepo.Save(ctx, bill); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, bill)

	response := ToBillResponse(bill)
	return &response, nil
}
