package lifecycle

import (
	"time"

	"github.com/google/uuid"
)

// DeletionReport describes a completed tenant deletion. DeletedItems is the
// summary taken before the delete; onboarding sessions listed there survive
// with their tenant cleared and are also counted in DetachedSessions.
type DeletionReport struct {
	TenantID          uuid.UUID  `json:"tenant_id"`
	Name              string     `json:"name"`
	DeletedItems      Summary    `json:"deleted_items"`
	DetachedDocuments int64      `json:"detached_documents"`
	DetachedSessions  int64      `json:"detached_sessions"`
	PerformedBy       *uuid.UUID `json:"performed_by,omitempty"`
	DeletedAt         time.Time  `json:"deleted_at"`
}

// Removed counts the related rows the delete destroyed
func (r *DeletionReport) Removed() int64 {
	return r.DeletedItems.Total() - r.DetachedSessions
}
