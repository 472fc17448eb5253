package lifecycle

import (
	"context"

	"github.com/google/uuid"
	"github.com/propertyhub/backend/internal/domain/leasing"
	"github.com/propertyhub/backend/internal/domain/renter"
)

// RelationStore is the record store view the lifecycle service works against.
type RelationStore interface {
	// LockTenant loads the tenant and, where supported, locks its row for the
	// rest of the current transaction
	LockTenant(ctx context.Context, tenantID uuid.UUID) (*renter.Tenant, error)

	CountLeases(ctx context.Context, tenantID uuid.UUID) (int64, error)
	CountPayments(ctx context.Context, tenantID uuid.UUID) (int64, error)
	CountInvoices(ctx context.Context, tenantID uuid.UUID, statuses []leasing.InvoiceStatus) (int64, error)

	// Supports reports whether the store keeps records of the category at all.
	// Unsupported categories are left out of summaries.
	Supports(category Category) bool

	// CountRelated counts a tenant's records of a supported category
	CountRelated(ctx context.Context, tenantID uuid.UUID, category Category) (int64, error)

	// DetachReceivedDocuments clears the tenant reference on documents the
	// tenant received and returns how many were touched
	DetachReceivedDocuments(ctx context.Context, tenantID uuid.UUID) (int64, error)

	// DeleteTenant destroys the tenant row; dependent rows follow the store's
	// referential rules
	DeleteTenant(ctx context.Context, tenantID uuid.UUID) error

	// Atomically runs fn against a store bound to a single transaction
	Atomically(ctx context.Context, fn func(store RelationStore) error) error
}
