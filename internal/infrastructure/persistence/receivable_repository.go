package persistence

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/genba/backend/internal/domain/finance"
	"github.com/genba/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormReceivableRepository implements ReceivableRepository using GORM
type GormReceivableRepository struct {
	db *gorm.DB
}

// NewGormReceivableRepository creates a new GormReceivableRepository
func NewGormReceivableRepository(db *gorm.DB) *GormReceivableRepository {
	return &GormReceivableRepository{db: db}
}

// FindByID finds a receivable by ID
func (r *GormReceivableRepository) FindByID(ctx context.Context, id uuid.UUID) (*finance.Receivable, error) {
	var receivable finance.Receivable
	if err := r.db.WithContext(ctx).First(&receivable, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &receivable, nil
}

// FindByBill finds the receivables created by a bill's settlement
func (r *GormReceivableRepository) FindByBill(ctx context.Context, billID uuid.UUID) ([]finance.Receivable, error) {
	var receivables []finance.Receivable
	if err := r.db.WithContext(ctx).
		Where("bill_id = ?", billID).
		Order("pay_on ASC, created_at ASC").
		Find(&receivables).Error; err != nil {
		return nil, err
	}
	return receivables, nil
}

// FindAll finds all receivables matching the filter
func (r *GormReceivableRepository) FindAll(ctx context.Context, filter shared.Filter) ([]finance.Receivable, error) {
	var receivables []finance.Receivable
	query := r.applyFilter(r.db.WithContext(ctx).Model(&finance.Receivable{}), filter)

	if err := query.Find(&receivables).Error; err != nil {
		return nil, err
	}
	return receivables, nil
}

// FindPayableByOrderer finds all will_pay receivables owed by the given party
func (r *GormReceivableRepository) FindPayableByOrderer(ctx context.Context, ordererID uuid.UUID) ([]finance.Receivable, error) {
	var receivables []finance.Receivable
	if err := r.db.WithContext(ctx).
		Where("orderer_id = ? AND status = ?", ordererID, finance.ReceivableStatusWillPay).
		Order("pay_on ASC, created_at ASC").
		Find(&receivables).Error; err != nil {
		return nil, err
	}
	return receivables, nil
}

// Save creates or updates a receivable
func (r *GormReceivableRepository) Save(ctx context.Context, receivable *finance.Receivable) error {
	return r.db.WithContext(ctx).Save(receivable).Error
}

// SaveWithLock updates the receivable only if the stored version still matches
// expectedVersion. The update names the mutable columns explicitly so a stale
// in-memory copy cannot clobber fields it never touched.
func (r *GormReceivableRepository) SaveWithLock(ctx context.Context, receivable *finance.Receivable, expectedVersion int) error {
	result := r.db.WithContext(ctx).
		Model(&finance.Receivable{}).
		Where("id = ? AND version = ?", receivable.ID, expectedVersion).
		Updates(map[string]interface{}{
			"status":     receivable.Status,
			"paid_at":    receivable.PaidAt,
			"version":    receivable.Version,
			"updated_at": time.Now(),
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// Count counts receivables matching the filter
func (r *GormReceivableRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&finance.Receivable{}), filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// applyFilter applies filter options to the query
func (r *GormReceivableRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
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
		query = query.Order("pay_on ASC")
	}

	return query
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormReceivableRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	for key, value := range filter.Filters {
		switch key {
		case "bill_id":
			query = query.Where("bill_id = ?", value)
		case "orderer_id":
			query = query.Where("orderer_id = ?", value)
		case "company_id":
			query = query.Where("company_id = ?", value)
		case "status":
			query = query.Where("status = ?", value)
		case "phase":
			query = query.Where("phase = ?", value)
		case "pay_on_from":
			if t, ok := value.(time.Time); ok {
				query = query.Where("pay_on >= ?", t)
			}
		case "pay_on_to":
			if t, ok := value.(time.Time); ok {
				query = query.Where("pay_on <= ?", t)
			}
		}
	}
	return query
}

// Ensure GormReceivableRepository implements ReceivableRepository
var _ finance.ReceivableRepository = (*GormReceivableRepository)(nil)
