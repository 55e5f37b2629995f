package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/genba/backend/internal/domain/billing"
	"github.com/genba/backend/internal/domain/finance"
	"github.com/genba/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormBillRepository implements BillRepository using GORM
type GormBillRepository struct {
	db *gorm.DB
}

// NewGormBillRepository creates a new GormBillRepository
func NewGormBillRepository(db *gorm.DB) *GormBillRepository {
	return &GormBillRepository{db: db}
}

// FindByID finds a bill by ID
func (r *GormBillRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.Bill, error) {
	var bill billing.Bill
	if err := r.db.WithContext(ctx).First(&bill, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &bill, nil
}

// FindByOrder finds the bills spawned for a work order
func (r *GormBillRepository) FindByOrder(ctx context.Context, orderID uuid.UUID) ([]billing.Bill, error) {
	var bills []billing.Bill
	if err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("created_at ASC").
		Find(&bills).Error; err != nil {
		return nil, err
	}
	return bills, nil
}

// FindAll finds all bills matching the filter
func (r *GormBillRepository) FindAll(ctx context.Context, filter shared.Filter) ([]billing.Bill, error) {
	var bills []billing.Bill
	query := r.applyFilter(r.db.WithContext(ctx).Model(&billing.Bill{}), filter)

	if err := query.Find(&bills).Error; err != nil {
		return nil, err
	}
	return bills, nil
}

// Save creates or updates a bill
func (r *GormBillRepository) Save(ctx context.Context, bill *billing.Bill) error {
	return r.db.WithContext(ctx).Save(bill).Error
}

// SaveWithReceivables saves the bill and its settlement receivables in one transaction
func (r *GormBillRepository) SaveWithReceivables(ctx context.Context, bill *billing.Bill, receivables []*finance.Receivable) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(bill).Error; err != nil {
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

// Count counts bills matching the filter
func (r *GormBillRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&billing.Bill{}), filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// applyFilter applies filter options to the query
func (r *GormBillRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
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
func (r *GormBillRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	for key, value := range filter.Filters {
		switch key {
		case "order_id":
			query = query.Where("order_id = ?", value)
		case "orderer_id":
			query = query.Where("orderer_id = ?", value)
		case "company_id":
			query = query.Where("company_id = ?", value)
		case "status":
			query = query.Where("status = ?", value)
		case "agency_status":
			query = query.Where("agency_status = ?", value)
		case "payment_method":
			query = query.Where("payment_method = ?", value)
		}
	}
	return query
}

// Ensure GormBillRepository implements BillRepository
var _ billing.BillRepository = (*GormBillRepository)(nil)
