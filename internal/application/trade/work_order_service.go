package trade

import (
	"context"
	"time"

	"github.com/genba/backend/internal/domain/billing"
	"github.com/genba/backend/internal/domain/finance"
	"github.com/genba/backend/internal/domain/partner"
	"github.com/genba/backend/internal/domain/shared"
	"github.com/genba/backend/internal/domain/shared/valueobject"
	"github.com/genba/backend/internal/domain/trade"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// WorkOrderService orchestrates the work order lifecycles: the request flow
// between the parties, the construction flow, and their side effects on
// billing and settlement.
type WorkOrderService struct {
	orderRepo   trade.WorkOrderRepository
	billRepo    billing.BillRepository
	companyRepo partner.CompanyRepository
	eventBus    shared.EventBus
	logger      *zap.Logger
}

// NewWorkOrderService creates a new WorkOrderService
func NewWorkOrderService(
	orderRepo trade.WorkOrderRepository,
	billRepo billing.BillRepository,
	companyRepo partner.CompanyRepository,
	eventBus shared.EventBus,
	logger *zap.Logger,
) *WorkOrderService {
	return &WorkOrderService{
		orderRepo:   orderRepo,
		billRepo:    billRepo,
		companyRepo: companyRepo,
		eventBus:    eventBus,
		logger:      logger,
	}
}

// Create issues a new work order from the orderer to the subcontractor.
// Party names are copied onto the order at creation.
func (s *WorkOrderService) Create(ctx context.Context, req CreateWorkOrderRequest) (*WorkOrderResponse, error) {
	orderer, err := s.companyRepo.FindByID(ctx, req.OrdererID)
	if err != nil {
		return nil, err
	}
	company, err := s.companyRepo.FindByID(ctx, req.CompanyID)
	if err != nil {
		return nil, err
	}

	order, err := trade.NewWorkOrder(orderer.ID, orderer.Name, company.ID, company.Name, req.Price)
	if err != nil {
		return nil, err
	}

	if err := s.orderRepo.Save(ctx, order); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, order)

	response := ToWorkOrderResponse(order)
	return &response, nil
}

// GetByID retrieves a work order by ID
func (s *WorkOrderService) GetByID(ctx context.Context, orderID uuid.UUID) (*WorkOrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	response := ToWorkOrderResponse(order)
	return &response, nil
}

// List retrieves work orders with filtering and pagination
func (s *WorkOrderService) List(ctx context.Context, filter WorkOrderListFilter) ([]WorkOrderResponse, int64, error) {
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
	if filter.Status != "" {
		domainFilter.Filters["status"] = filter.Status
	}

	var orders []trade.WorkOrder
	var err error
	switch {
	case filter.OrdererID != nil:
		orders, err = s.orderRepo.FindByOrderer(ctx, *filter.OrdererID, domainFilter)
	case filter.CompanyID != nil:
		orders, err = s.orderRepo.FindByCompany(ctx, *filter.CompanyID, domainFilter)
	default:
		orders, err = s.orderRepo.FindAll(ctx, domainFilter)
	}
	if err != nil {
		return nil, 0, err
	}

	total, err := s.orderRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]WorkOrderResponse, len(orders))
	for i := range orders {
		responses[i] = ToWorkOrderResponse(&orders[i])
	}

	return responses, total, nil
}

// SetPrice agrees on the order amount
func (s *WorkOrderService) SetPrice(ctx context.Context, orderID uuid.UUID, req SetWorkOrderPriceRequest) (*WorkOrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if err := order.SetPrice(req.Price); err != nil {
		return nil, err
	}

	if err := s.orderRepo.Save(ctx, order); err != nil {
		return nil, err
	}

	response := ToWorkOrderResponse(order)
	return &response, nil
}

// Send marks the paperwork as dispatched to the subcontractor
func (s *WorkOrderService) Send(ctx context.Context, orderID uuid.UUID) (*WorkOrderResponse, error) {
	return s.transition(ctx, orderID, func(order *trade.WorkOrder) error {
		return order.Send()
	})
}

// Receive marks the order as received by the subcontractor
func (s *WorkOrderService) Receive(ctx context.Context, orderID uuid.UUID) (*WorkOrderResponse, error) {
	return s.transition(ctx, orderID, func(order *trade.WorkOrder) error {
		return order.Receive()
	})
}

// Accept marks the order as accepted and spawns its bill in the same
// transaction. The bill copies the order's parties and price and starts
// undetermined with the invoice payment method.
func (s *WorkOrderService) Accept(ctx context.Context, orderID uuid.UUID) (*WorkOrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if err := order.Accept(); err != nil {
		return nil, err
	}

	bill, err := billing.NewBill(order.ID, order.OrdererID, order.OrdererName, order.CompanyID, order.CompanyName, order.Price)
	if err != nil {
		return nil, err
	}

	if err := s.orderRepo.SaveWithBill(ctx, order, bill); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, order, bill)

	s.logger.Info("Work order accepted, bill spawned",
		zap.String("order_id", order.ID.String()),
		zap.String("bill_id", bill.ID.String()))

	response := ToWorkOrderResponse(order)
	return &response, nil
}

// StartConstruction begins construction on an accepted order. For a
// start_and_complete bill the 30% advance receivable is created in the same
// transaction; when no price has been agreed yet the advance is skipped with
// a warning rather than blocking the site.
func (s *WorkOrderService) StartConstruction(ctx context.Context, orderID uuid.UUID, req StartConstructionRequest) (*WorkOrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if !order.IsAccepted() {
		return nil, shared.NewDomainError("VALIDATION_FAILED",
			"Construction cannot start before the order is accepted")
	}

	if err := order.StartConstruction(); err != nil {
		return nil, err
	}

	startedOn := time.Now()
	if order.ConstructionStartedAt != nil {
		startedOn = *order.ConstructionStartedAt
	}

	receivables, err := s.startAdvanceReceivables(ctx, order, req.AgencyCompanyID, startedOn)
	if err != nil {
		return nil, err
	}

	if len(receivables) > 0 {
		err = s.orderRepo.SaveWithReceivables(ctx, order, receivables)
	} else {
		err = s.orderRepo.Save(ctx, order)
	}
	if err != nil {
		return nil, err
	}

	s.publishEvents(ctx, order)
	for _, receivable := range receivables {
		s.publishEvents(ctx, receivable)
	}

	response := ToWorkOrderResponse(order)
	return &response, nil
}

// CompleteConstruction marks the construction work as finished
func (s *WorkOrderService) CompleteConstruction(ctx context.Context, orderID uuid.UUID) (*WorkOrderResponse, error) {
	return s.transition(ctx, orderID, func(order *trade.WorkOrder) error {
		return order.CompleteConstruction()
	})
}

// ApproveConstruction marks the completed work as approved by the orderer
func (s *WorkOrderService) ApproveConstruction(ctx context.Context, orderID uuid.UUID) (*WorkOrderResponse, error) {
	return s.transition(ctx, orderID, func(order *trade.WorkOrder) error {
		return order.ApproveConstruction()
	})
}

// transition loads the order, applies fn, and saves
func (s *WorkOrderService) transition(ctx context.Context, orderID uuid.UUID, fn func(*trade.WorkOrder) error) (*WorkOrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if err := fn(order); err != nil {
		return nil, err
	}

	if err := s.orderRepo.Save(ctx, order); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, order)

	response := ToWorkOrderResponse(order)
	return &response, nil
}

// publishEvents publishes and clears the pending domain events of the aggregates
func (s *WorkOrderService) publishEvents(ctx context.Context, aggregates ...shared.AggregateRoot) {
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

// startAdvanceReceivables computes the construction-start advance for the
// order's bill, if any. Returns nil when the bill's payment method has no
// start advance, or when the advance cannot be computed without hard-failing
// the construction start (no price agreed, or the orderer pays directly).
func (s *WorkOrderService) startAdvanceReceivables(ctx context.Context, order *trade.WorkOrder, agencyCompanyID *uuid.UUID, startedOn time.Time) ([]*finance.Receivable, error) {
	bills, err := s.billRepo.FindByOrder(ctx, order.ID)
	if err != nil {
		return nil, err
	}

	var bill *billing.Bill
	for i := range bills {
		if bills[i].PaymentMethod.HasStartAdvance() {
			bill = &bills[i]
			break
		}
	}
	if bill == nil {
		return nil, nil
	}

	var price valueobject.Money
	switch {
	case bill.HasPrice():
		price = bill.GetPriceMoney()
	case order.HasPrice():
		price = order.GetPriceMoney()
	default:
		s.logger.Warn("Skipping start advance: no price agreed yet",
			zap.String("order_id", order.ID.String()),
			zap.String("bill_id", bill.ID.String()))
		return nil, nil
	}

	orderer, err := s.companyRepo.FindByID(ctx, order.OrdererID)
	if err != nil {
		return nil, err
	}
	if !orderer.UseAgency {
		s.logger.Warn("Skipping start advance: orderer pays directly",
			zap.String("order_id", order.ID.String()),
			zap.String("orderer_id", orderer.ID.String()))
		return nil, nil
	}
	if agencyCompanyID == nil {
		return nil, shared.NewDomainError("VALIDATION_FAILED",
			"Agency company id is required for the construction start advance")
	}

	parties := billing.SettlementParties{
		OrdererID: order.OrdererID,
		CompanyID: order.CompanyID,
		AgencyID:  *agencyCompanyID,
		UseAgency: true,
	}
	specs, err := billing.CalculateStartAdvance(bill.PaymentMethod, price, startedOn, parties)
	if err != nil {
		return nil, err
	}

	receivables := make([]*finance.Receivable, 0, len(specs))
	for _, spec := range specs {
		receivable, err := finance.NewReceivable(bill.ID, spec.OrdererID, spec.CompanyID, spec.Price.Amount(), spec.PayOn, finance.PhaseConstructionStart)
		if err != nil {
			return nil, err
		}
		receivables = append(receivables, receivable)
	}

	return receivables, nil
}
