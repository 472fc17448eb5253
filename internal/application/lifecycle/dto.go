package lifecycle

import (
	"time"

	"github.com/google/uuid"
	"github.com/propertyhub/backend/internal/domain/lifecycle"
	"github.com/propertyhub/backend/internal/domain/renter"
)

// TenantListQuery represents the query parameters of a tenant listing
type TenantListQuery struct {
	Search          string `form:"search" binding:"max=100"`
	IncludeArchived bool   `form:"include_archived"`
	Page            int    `form:"page" binding:"omitempty,min=1"`
	PageSize        int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy         string `form:"order_by"`
	OrderDir        string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// TenantResponse represents a tenant in API responses
type TenantResponse struct {
	ID               uuid.UUID `json:"id"`
	Email            string    `json:"email"`
	FirstName        string    `json:"first_name"`
	LastName         string    `json:"last_name"`
	FullName         string    `json:"full_name"`
	Phone            string    `json:"phone,omitempty"`
	PreferredContact string    `json:"preferred_contact"`
	IsActive         bool      `json:"is_active"`
	State            string    `json:"state"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// ToTenantResponse converts a domain Tenant to TenantResponse
func ToTenantResponse(t *renter.Tenant) TenantResponse {
	return TenantResponse{
		ID:               t.ID,
		Email:            t.Email,
		FirstName:        t.FirstName,
		LastName:         t.LastName,
		FullName:         t.FullName(),
		Phone:            t.Phone,
		PreferredContact: string(t.PreferredContact),
		IsActive:         t.IsActive,
		State:            string(t.State()),
		CreatedAt:        t.CreatedAt,
		UpdatedAt:        t.UpdatedAt,
	}
}

// DeletionCheckResponse answers whether a tenant can be deleted and what
// the deletion would remove.
type DeletionCheckResponse struct {
	TenantID  uuid.UUID         `json:"tenant_id"`
	CanDelete bool              `json:"can_delete"`
	Blockers  []string          `json:"blockers"`
	Summary   lifecycle.Summary `json:"summary"`
}

// DeleteTenantResponse is returned after a successful deletion
type DeleteTenantResponse struct {
	Name         string            `json:"name"`
	DeletedItems lifecycle.Summary `json:"deleted_items"`
}

// ToDeleteTenantResponse converts a deletion report to its API shape
func ToDeleteTenantResponse(r *lifecycle.DeletionReport) DeleteTenantResponse {
	return DeleteTenantResponse{Name: r.Name, DeletedItems: r.DeletedItems}
}
