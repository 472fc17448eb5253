package persistence

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/propertyhub/backend/internal/domain/renter"
	"github.com/propertyhub/backend/internal/domain/shared"
	"github.com/propertyhub/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormTenantRepository implements renter.TenantRepository using GORM
type GormTenantRepository struct {
	db *gorm.DB
}

// NewGormTenantRepository creates a new GormTenantRepository
func NewGormTenantRepository(db *gorm.DB) *GormTenantRepository {
	return &GormTenantRepository{db: db}
}

// FindByID finds a tenant by its ID, archived or not
func (r *GormTenantRepository) FindByID(ctx context.Context, id uuid.UUID) (*renter.Tenant, error) {
	var model models.TenantModel
	if err := r.db.WithContext(ctx).
		Where("role = ?", renter.RoleTenant).
		First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindByEmail finds a tenant by email
func (r *GormTenantRepository) FindByEmail(ctx context.Context, email string) (*renter.Tenant, error) {
	var model models.TenantModel
	if err := r.db.WithContext(ctx).
		Where("role = ? AND email = ?", renter.RoleTenant, strings.ToLower(strings.TrimSpace(email))).
		First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindAll lists tenants matching the filter together with the total count.
// Archived tenants are left out unless the filter asks for them.
func (r *GormTenantRepository) FindAll(ctx context.Context, filter renter.ListFilter) ([]renter.Tenant, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.TenantModel{}).Where("role = ?", renter.RoleTenant)

	if !filter.IncludeArchived {
		query = query.Where("is_active = ?", true)
	}
	if filter.Search != "" {
		keyword := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where("LOWER(email) LIKE ? OR LOWER(first_name) LIKE ? OR LOWER(last_name) LIKE ?",
			keyword, keyword, keyword)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var tenantModels []models.TenantModel
	if err := tenantSort.page(query, filter.Filter).Find(&tenantModels).Error; err != nil {
		return nil, 0, err
	}

	tenants := make([]renter.Tenant, len(tenantModels))
	for i, model := range tenantModels {
		tenants[i] = *model.ToDomain()
	}
	return tenants, total, nil
}

// Save creates or updates a tenant
func (r *GormTenantRepository) Save(ctx context.Context, tenant *renter.Tenant) error {
	model := models.TenantModelFromDomain(tenant)
	return translateError(r.db.WithContext(ctx).Save(model).Error)
}

// SetActive writes only the is_active column. updated_at is left untouched.
func (r *GormTenantRepository) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	result := r.db.WithContext(ctx).Model(&models.TenantModel{}).
		Where("id = ? AND role = ?", id, renter.RoleTenant).
		UpdateColumn("is_active", active)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}
