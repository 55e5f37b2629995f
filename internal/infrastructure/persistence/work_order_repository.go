package persistence

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/genba/backend/internal/domain/billing"
	"github.com/genba/backend/internal/domain/finance"
	"github.com/genba/backend/internal/domain/shared"
	"github.com/genba/backend/internal/domain/trade"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormWorkOrderRepository implements WorkOrderRepository using GORM
type GormWorkOrderRepository struct {
	db *gorm.DB
}

// NewGormWorkOrderRepository creates a new GormWorkOrderRepository
func NewGormWorkOrderRepository(db *gorm.DB) *GormWorkOrderRepository {
	return &GormWorkOrderRepository{db: db}
}

// FindByID finds a work order by ID
func (r *GormWorkOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*trade.WorkOrder, error) {
	var order trade.WorkOrder
	if err := r.db.WithContext(ctx).First(&order, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &order, nil
}

// FindAll finds all work orders matching the filter
func (r *GormWorkOrderRepository) FindAll(ctx context.Context, filter shared.Filter) ([]trade.WorkOrder, error) {
	var orders []trade.WorkOrder
	query := r.applyFilter(r.db.WithContext(ctx).Model(&trade.WorkOrder{}), filter)

	if err := query.Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// FindByOrderer finds work orders issued by an orderer
func (r *GormWorkOrderRepository) FindByOrderer(ctx context.Context, ordererID uuid.UUID, filter shared.Filter) ([]trade.WorkOrder, error) {
	var orders []trade.WorkOrder
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&trade.WorkOrder{}).Where("orderer_id = ?", ordererID),
		filter,
	)

	if err := query.Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// FindByCompany finds work orders assigned to a subcontractor
func (r *GormWorkOrderRepository) FindByCompany(ctx context.Context, companyID uuid.UUID, filter shared.Filter) ([]trade.WorkOrder, error) {
	var orders []trade.WorkOrder
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&trade.WorkOrder{}).Where("company_id = ?", companyID),
		filter,
	)

	if err := query.Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// Save creates or updates a work order
func (r *GormWorkOrderRepository) Save(ctx context.Context, order *trade.WorkOrder) error {
	return r.db.WithContext(ctx).Save(order).Error
}

// SaveWithBill saves the order and its newly spawned bill in one transaction
func (r *GormWorkOrderRepository) SaveWithBill(ctx context.Context, order *trade.WorkOrder, bill *billing.Bill) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(order).Error; err != nil {
			return err
		}
		return tx.Save(bill).Error
	})
}

// SaveWithReceivables saves the order together with settlement receivables in one transaction
func (r *GormWorkOrderRepository) SaveWithReceivables(ctx context.Context, order *trade.WorkOrder, receivables []*finance.Receivable) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(order).Error; err != nil {
			return err
		}
		for _, receivable := range receivables {
			if err := tx.Save(receivable).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// Count counts work orders matching the filter
func (r *GormWorkOrderRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&trade.WorkOrder{}), filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// applyFilter applies filter options to the query
func (r *GormWorkOrderRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	if filter.OrderBy != "" {
		orderDir := "ASC"
		if strings.ToLower(filter.OrderDir) == "desc" {
			orderDir = "DESC"
		}
		query = query.Order(filter.OrderBy + " " + orderDir)
	} else {
		query = query.Order("created_at DESC")
	}

	return query
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormWorkOrderRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	for key, value := range filter.Filters {
		switch key {
		case "orderer_id":
			query = query.Where("orderer_id = ?", value)
		case "company_id":
			query = query.Where("company_id = ?", value)
		case "status":
			query = query.Where("status = ?", value)
		case "construction_status":
			query = query.Where("construction_status = ?", value)
		case "start_date":
			if t, ok := value.(time.Time); ok {
				query = query.Where("created_at >= ?", t)
			}
		case "end_date":
			if t, ok := value.(time.Time); ok {
				query = query.Where("created_at <= ?", t)
			}
		}
	}
	return query
}

// Ensure GormWorkOrderRepository implements WorkOrderRepository
var _ trade.WorkOrderRepository = (*GormWorkOrderRepository)(nil)
