package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/genba/backend/internal/domain/partner"
	"github.com/genba/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormCompanyRepository implements CompanyRepository using GORM
type GormCompanyRepository struct {
	db *gorm.DB
}

// NewGormCompanyRepository creates a new GormCompanyRepository
func NewGormCompanyRepository(db *gorm.DB) *GormCompanyRepository {
	return &GormCompanyRepository{db: db}
}

// FindByID finds a company by its ID
func (r *GormCompanyRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.Company, error) {
	var company partner.Company
	if err := r.db.WithContext(ctx).First(&company, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &company, nil
}

// FindByName finds a company by its exact name
func (r *GormCompanyRepository) FindByName(ctx context.Context, name string) (*partner.Company, error) {
	var company partner.Company
	if err := r.db.WithContext(ctx).First(&company, "name = ?", name).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &company, nil
}

// FindAll finds all companies matching the filter
func (r *GormCompanyRepository) FindAll(ctx context.Context, filter shared.Filter) ([]partner.Company, error) {
	var companies []partner.Company
	query := r.applyFilter(r.db.WithContext(ctx).Model(&partner.Company{}), filter)

	if err := query.Find(&companies).Error; err != nil {
		return nil, err
	}
	return companies, nil
}

// Save creates or updates a company
func (r *GormCompanyRepository) Save(ctx context.Context, company *partner.Company) error {
	return r.db.WithContext(ctx).Save(company).Error
}

// ExistsByName checks whether a company with the given name exists
func (r *GormCompanyRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&partner.Company{}).
		Where("name = ?", name).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Count counts companies matching the filter
func (r *GormCompanyRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&partner.Company{}), filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// applyFilter applies filter options to the query
func (r *GormCompanyRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
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
func (r *GormCompanyRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	for key, value := range filter.Filters {
		switch key {
		case "name", "search":
			query = query.Where("name LIKE ?", "%"+value.(string)+"%")
		case "use_agency":
			query = query.Where("use_agency = ?", value)
		}
	}
	return query
}

// Ensure GormCompanyRepository implements CompanyRepository
var _ partner.CompanyRepository = (*GormCompanyRepository)(nil)
