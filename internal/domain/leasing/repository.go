package leasing

import (
	"context"

	"github.com/google/uuid"
)

// LeaseRepository defines the interface for lease persistence
type LeaseRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Lease, error)
	FindByTenant(ctx context.Context, tenantID uuid.UUID) ([]Lease, error)
	Save(ctx context.Context, lease *Lease) error
}

// InvoiceRepository defines the interface for invoice persistence
type InvoiceRepository interface {
	// Create stores a new invoice; a taken number is shared.ErrAlreadyExists
	Create(ctx context.Context, invoice *Invoice) error
	FindByLease(ctx context.Context, leaseID uuid.UUID) ([]Invoice, error)
}
