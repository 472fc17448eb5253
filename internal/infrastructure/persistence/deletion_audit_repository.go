package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/propertyhub/backend/internal/domain/lifecycle"
	"github.com/propertyhub/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormDeletionAuditRepository stores deletion reports in tenant_deletion_audits
type GormDeletionAuditRepository struct {
	db *gorm.DB
}

// NewGormDeletionAuditRepository creates a new GormDeletionAuditRepository
func NewGormDeletionAuditRepository(db *gorm.DB) *GormDeletionAuditRepository {
	return &GormDeletionAuditRepository{db: db}
}

// Record persists a deletion report
func (r *GormDeletionAuditRepository) Record(ctx context.Context, report *lifecycle.DeletionReport) error {
	return r.db.WithContext(ctx).Create(models.TenantDeletionAuditModelFromReport(report)).Error
}

// FindByTenant returns the audit entries written for a tenant ID
func (r *GormDeletionAuditRepository) FindByTenant(ctx context.Context, tenantID uuid.UUID) ([]lifecycle.DeletionReport, error) {
	var rows []models.TenantDeletionAuditModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Order("deleted_at DESC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	reports := make([]lifecycle.DeletionReport, len(rows))
	for i := range rows {
		reports[i] = *rows[i].ToReport()
	}
	return reports, nil
}
