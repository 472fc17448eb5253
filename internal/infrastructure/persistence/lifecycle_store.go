package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/propertyhub/backend/internal/domain/leasing"
	"github.com/propertyhub/backend/internal/domain/lifecycle"
	"github.com/propertyhub/backend/internal/domain/renter"
	"github.com/propertyhub/backend/internal/domain/shared"
	"github.com/propertyhub/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// relatedModels maps every summary category to the table holding it
var relatedModels = map[lifecycle.Category]any{
	lifecycle.CategoryProfile:            &models.TenantProfileModel{},
	lifecycle.CategoryEmergencyContacts:  &models.EmergencyContactModel{},
	lifecycle.CategoryVehicles:           &models.VehicleModel{},
	lifecycle.CategoryEmploymentRecords:  &models.EmploymentModel{},
	lifecycle.CategoryInsurancePolicies:  &models.InsurancePolicyModel{},
	lifecycle.CategoryIDVerifications:    &models.IDVerificationModel{},
	lifecycle.CategoryOnboardingSessions: &models.OnboardingSessionModel{},
	lifecycle.CategoryOTPTokens:          &models.OTPTokenModel{},
	lifecycle.CategoryNotifications:      &models.NotificationModel{},
}

// GormLifecycleStore implements lifecycle.RelationStore using GORM
type GormLifecycleStore struct {
	db         *gorm.DB
	categories map[lifecycle.Category]any
	lockRows   bool
}

// LifecycleStoreOption configures a GormLifecycleStore
type LifecycleStoreOption func(*GormLifecycleStore)

// WithCategories limits the categories the store reports as supported.
// Deployments without, say, ID verification tables use this so summaries
// leave those categories out instead of failing.
func WithCategories(categories ...lifecycle.Category) LifecycleStoreOption {
	return func(s *GormLifecycleStore) {
		s.categories = make(map[lifecycle.Category]any, len(categories))
		for _, c := range categories {
			if model, ok := relatedModels[c]; ok {
				s.categories[c] = model
			}
		}
	}
}

// NewGormLifecycleStore creates a store supporting every summary category.
// Row locks are taken only on PostgreSQL.
func NewGormLifecycleStore(db *gorm.DB, opts ...LifecycleStoreOption) *GormLifecycleStore {
	s := &GormLifecycleStore{
		db:         db,
		categories: relatedModels,
		lockRows:   db.Dialector.Name() == "postgres",
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *GormLifecycleStore) withDB(db *gorm.DB) *GormLifecycleStore {
	return &GormLifecycleStore{db: db, categories: s.categories, lockRows: s.lockRows}
}

// LockTenant loads the tenant with SELECT ... FOR UPDATE when supported
func (s *GormLifecycleStore) LockTenant(ctx context.Context, tenantID uuid.UUID) (*renter.Tenant, error) {
	query := s.db.WithContext(ctx)
	if s.lockRows {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var model models.TenantModel
	if err := query.Where("role = ?", renter.RoleTenant).First(&model, "id = ?", tenantID).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// CountLeases counts the tenant's leases regardless of status
func (s *GormLifecycleStore) CountLeases(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	return s.count(ctx, &models.LeaseModel{}, tenantID)
}

// CountPayments counts the tenant's payment records regardless of status
func (s *GormLifecycleStore) CountPayments(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	return s.count(ctx, &models.PaymentModel{}, tenantID)
}

// CountInvoices counts the tenant's invoices in any of statuses
func (s *GormLifecycleStore) CountInvoices(ctx context.Context, tenantID uuid.UUID, statuses []leasing.InvoiceStatus) (int64, error) {
	if len(statuses) == 0 {
		return 0, nil
	}
	values := make([]string, len(statuses))
	for i, status := range statuses {
		values[i] = string(status)
	}
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.InvoiceModel{}).
		Where("tenant_id = ? AND status IN ?", tenantID, values).
		Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count invoices: %w", err)
	}
	return count, nil
}

// Supports reports whether the category is backed by a table in this store
func (s *GormLifecycleStore) Supports(category lifecycle.Category) bool {
	_, ok := s.categories[category]
	return ok
}

// CountRelated counts a tenant's records of a supported category
func (s *GormLifecycleStore) CountRelated(ctx context.Context, tenantID uuid.UUID, category lifecycle.Category) (int64, error) {
	model, ok := s.categories[category]
	if !ok {
		return 0, shared.NewDomainError("UNSUPPORTED_CATEGORY", "Store does not keep "+string(category))
	}
	return s.count(ctx, model, tenantID)
}

// DetachReceivedDocuments nulls tenant_id on the tenant's documents
func (s *GormLifecycleStore) DetachReceivedDocuments(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	result := s.db.WithContext(ctx).Model(&models.EDocumentModel{}).
		Where("tenant_id = ?", tenantID).
		UpdateColumn("tenant_id", nil)
	if result.Error != nil {
		return 0, fmt.Errorf("detach documents: %w", result.Error)
	}
	return result.RowsAffected, nil
}

// DeleteTenant destroys the tenant row. A foreign key rejection surfaces as
// shared.ErrIntegrityViolation.
func (s *GormLifecycleStore) DeleteTenant(ctx context.Context, tenantID uuid.UUID) error {
	result := s.db.WithContext(ctx).
		Where("role = ?", renter.RoleTenant).
		Delete(&models.TenantModel{}, "id = ?", tenantID)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrForeignKeyViolated) {
			return shared.ErrIntegrityViolation.WithDetails(result.Error.Error())
		}
		return fmt.Errorf("delete tenant: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Atomically runs fn in a database transaction. A store already bound to a
// transaction nests through a savepoint.
func (s *GormLifecycleStore) Atomically(ctx context.Context, fn func(store lifecycle.RelationStore) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(s.withDB(tx))
	})
}

func (s *GormLifecycleStore) count(ctx context.Context, model any, tenantID uuid.UUID) (int64, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(model).
		Where("tenant_id = ?", tenantID).
		Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count %T: %w", model, err)
	}
	return count, nil
}
