package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	applifecycle "github.com/propertyhub/backend/internal/application/lifecycle"
	"github.com/propertyhub/backend/internal/domain/lifecycle"
	"github.com/propertyhub/backend/internal/domain/shared"
	"github.com/propertyhub/backend/internal/interfaces/http/middleware"
)

// TenantLifecycleService is the application surface the tenant handler drives
type TenantLifecycleService interface {
	ListTenants(ctx context.Context, q applifecycle.TenantListQuery) (shared.Paginated[applifecycle.TenantResponse], error)
	GetTenant(ctx context.Context, id uuid.UUID) (*applifecycle.TenantResponse, error)
	CheckDeletion(ctx context.Context, id uuid.UUID) (*applifecycle.DeletionCheckResponse, error)
	DeleteTenant(ctx context.Context, id uuid.UUID, performedBy *uuid.UUID) (*lifecycle.DeletionReport, error)
	ArchiveTenant(ctx context.Context, id uuid.UUID) (*applifecycle.TenantResponse, error)
	RestoreTenant(ctx context.Context, id uuid.UUID) (*applifecycle.TenantResponse, error)
}

// TenantHandler handles tenant lifecycle HTTP requests
type TenantHandler struct {
	BaseHandler
	service TenantLifecycleService
}

// NewTenantHandler creates a new tenant handler
func NewTenantHandler(service TenantLifecycleService) *TenantHandler {
	return &TenantHandler{service: service}
}

// List godoc
// @Summary      List tenants
// @Description  Get a paginated list of tenants. Archived tenants are hidden unless include_archived is set.
// @Tags         tenants
// @Produce      json
// @Param        search query string false "Name or email search"
// @Param        include_archived query bool false "Include archived tenants"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Items per page" default(20) maximum(100)
// @Success      200 {object} dto.Response{data=[]applifecycle.TenantResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /tenants [get]
func (h *TenantHandler) List(c *gin.Context) {
	var query applifecycle.TenantListQuery
	if !h.bindQuery(c, &query) {
		return
	}

	page, err := h.service.ListTenants(c.Request.Context(), query)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	writePage(c, page)
}

// Get godoc
// @Summary      Get a tenant by ID
// @Tags         tenants
// @Produce      json
// @Param        id path string true "Tenant ID" format(uuid)
// @Success      200 {object} dto.Response{data=applifecycle.TenantResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /tenants/{id} [get]
func (h *TenantHandler) Get(c *gin.Context) {
	id, ok := h.parseID(c, "id", "tenant")
	if !ok {
		return
	}

	tenant, err := h.service.GetTenant(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, tenant)
}

// DeletionCheck godoc
// @Summary      Check whether a tenant can be deleted
// @Description  Returns the blocking reasons and a per-category count of records a deletion would remove
// @Tags         tenants
// @Produce      json
// @Param        id path string true "Tenant ID" format(uuid)
// @Success      200 {object} dto.Response{data=applifecycle.DeletionCheckResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /tenants/{id}/deletion-check [get]
func (h *TenantHandler) DeletionCheck(c *gin.Context) {
	id, ok := h.parseID(c, "id", "tenant")
	if !ok {
		return
	}

	check, err := h.service.CheckDeletion(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, check)
}

// Delete godoc
// @Summary      Delete a tenant
// @Description  Permanently deletes a tenant and its dependent records. Refused with DELETE_BLOCKED while blockers exist.
// @Tags         tenants
// @Produce      json
// @Param        id path string true "Tenant ID" format(uuid)
// @Param        Idempotency-Key header string false "Replay protection key"
// @Success      200 {object} dto.Response{data=applifecycle.DeleteTenantResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /tenants/{id} [delete]
func (h *TenantHandler) Delete(c *gin.Context) {
	id, ok := h.parseID(c, "id", "tenant")
	if !ok {
		return
	}

	report, err := h.service.DeleteTenant(c.Request.Context(), id, middleware.ActorID(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, applifecycle.ToDeleteTenantResponse(report))
}

// Archive godoc
// @Summary      Archive a tenant
// @Description  Soft-deactivates a tenant so it drops out of default listings
// @Tags         tenants
// @Produce      json
// @Param        id path string true "Tenant ID" format(uuid)
// @Success      200 {object} dto.Response{data=applifecycle.TenantResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /tenants/{id}/archive [post]
func (h *TenantHandler) Archive(c *gin.Context) {
	id, ok := h.parseID(c, "id", "tenant")
	if !ok {
		return
	}

	tenant, err := h.service.ArchiveTenant(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, tenant)
}

// Restore godoc
// @Summary      Restore an archived tenant
// @Tags         tenants
// @Produce      json
// @Param        id path string true "Tenant ID" format(uuid)
// @Success      200 {object} dto.Response{data=applifecycle.TenantResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /tenants/{id}/restore [post]
func (h *TenantHandler) Restore(c *gin.Context) {
	id, ok := h.parseID(c, "id", "tenant")
	if !ok {
		return
	}

	tenant, err := h.service.RestoreTenant(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, tenant)
}
