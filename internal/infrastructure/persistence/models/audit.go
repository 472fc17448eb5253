package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/propertyhub/backend/internal/domain/lifecycle"
	"gorm.io/datatypes"
)

// TenantDeletionAuditModel records a completed tenant deletion. It has no
// foreign key to users since the tenant row is gone by the time it is written.
type TenantDeletionAuditModel struct {
	ID                uuid.UUID                             `gorm:"type:uuid;primary_key"`
	TenantID          uuid.UUID                             `gorm:"type:uuid;not null;index"`
	TenantName        string                                `gorm:"type:varchar(300);not null"`
	DeletedItems      datatypes.JSONType[lifecycle.Summary] `gorm:"not null"`
	DetachedDocuments int64                                 `gorm:"not null;default:0"`
	DetachedSessions  int64                                 `gorm:"not null;default:0"`
	PerformedBy       *uuid.UUID                            `gorm:"type:uuid;index"`
	DeletedAt         time.Time                             `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (TenantDeletionAuditModel) TableName() string {
	return "tenant_deletion_audits"
}

// TenantDeletionAuditModelFromReport creates an audit row for a deletion report
func TenantDeletionAuditModelFromReport(r *lifecycle.DeletionReport) *TenantDeletionAuditModel {
	return &TenantDeletionAuditModel{
		ID:                uuid.New(),
		TenantID:          r.TenantID,
		TenantName:        r.Name,
		DeletedItems:      datatypes.NewJSONType(r.DeletedItems),
		DetachedDocuments: r.DetachedDocuments,
		DetachedSessions:  r.DetachedSessions,
		PerformedBy:       r.PerformedBy,
		DeletedAt:         r.DeletedAt,
	}
}

// ToReport converts the audit row back to a deletion report
func (m *TenantDeletionAuditModel) ToReport() *lifecycle.DeletionReport {
	return &lifecycle.DeletionReport{
		TenantID:          m.TenantID,
		Name:              m.TenantName,
		DeletedItems:      m.DeletedItems.Data(),
		DetachedDocuments: m.DetachedDocuments,
		DetachedSessions:  m.DetachedSessions,
		PerformedBy:       m.PerformedBy,
		DeletedAt:         m.DeletedAt,
	}
}
