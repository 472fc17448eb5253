package renter

import (
	"context"

	"github.com/google/uuid"
	"github.com/propertyhub/backend/internal/domain/shared"
)

// ListFilter narrows tenant listings. Archived tenants are hidden unless
// IncludeArchived is set.
type ListFilter struct {
	shared.Filter
	IncludeArchived bool
}

// TenantRepository defines the interface for tenant persistence
type TenantRepository interface {
	// FindByID finds a tenant by ID, archived or not
	FindByID(ctx context.Context, id uuid.UUID) (*Tenant, error)

	// FindByEmail finds a tenant by email
	FindByEmail(ctx context.Context, email string) (*Tenant, error)

	// FindAll lists tenants matching the filter
	FindAll(ctx context.Context, filter ListFilter) ([]Tenant, int64, error)

	// Save creates or updates a tenant
	Save(ctx context.Context, tenant *Tenant) error

	// SetActive writes only the active flag
	SetActive(ctx context.Context, id uuid.UUID, active bool) error
}
