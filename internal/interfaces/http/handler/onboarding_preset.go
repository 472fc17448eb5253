package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	apponboarding "github.com/propertyhub/backend/internal/application/onboarding"
	"github.com/propertyhub/backend/internal/domain/shared"
)

// PresetService is the application surface the preset handler drives
type PresetService interface {
	Create(ctx context.Context, req apponboarding.PresetRequest) (*apponboarding.PresetResponse, error)
	Update(ctx context.Context, id uuid.UUID, req apponboarding.PresetRequest) (*apponboarding.PresetResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (*apponboarding.PresetResponse, error)
	List(ctx context.Context, q apponboarding.PresetListQuery) (shared.Paginated[apponboarding.PresetListResponse], error)
	Delete(ctx context.Context, id uuid.UUID) error
	Duplicate(ctx context.Context, id uuid.UUID, req apponboarding.DuplicatePresetRequest) (*apponboarding.PresetResponse, error)
	SeedSystemPresets(ctx context.Context) (*apponboarding.SeedResult, error)
}

// PresetHandler handles onboarding preset HTTP requests
type PresetHandler struct {
	BaseHandler
	service PresetService
}

// NewPresetHandler creates a new preset handler
func NewPresetHandler(service PresetService) *PresetHandler {
	return &PresetHandler{service: service}
}

// List godoc
// @Summary      List onboarding presets
// @Tags         onboarding-presets
// @Produce      json
// @Param        search query string false "Name search"
// @Param        category query string false "Category" Enums(residential, student, senior, commercial, subsidized, custom)
// @Param        active_only query bool false "Only active presets"
// @Param        is_system query bool false "Filter built-in presets"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Items per page" default(20) maximum(100)
// @Success      200 {object} dto.Response{data=[]apponboarding.PresetListResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /onboarding/presets [get]
func (h *PresetHandler) List(c *gin.Context) {
	var query apponboarding.PresetListQuery
	if !h.bindQuery(c, &query) {
		return
	}

	page, err := h.service.List(c.Request.Context(), query)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	writePage(c, page)
}

// Create godoc
// @Summary      Create an onboarding preset
// @Tags         onboarding-presets
// @Accept       json
// @Produce      json
// @Param        request body apponboarding.PresetRequest true "Preset"
// @Success      201 {object} dto.Response{data=apponboarding.PresetResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /onboarding/presets [post]
func (h *PresetHandler) Create(c *gin.Context) {
	var req apponboarding.PresetRequest
	if !h.bindJSON(c, &req) {
		return
	}

	preset, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, preset)
}

// Get godoc
// @Summary      Get an onboarding preset
// @Tags         onboarding-presets
// @Produce      json
// @Param        id path string true "Preset ID" format(uuid)
// @Success      200 {object} dto.Response{data=apponboarding.PresetResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /onboarding/presets/{id} [get]
func (h *PresetHandler) Get(c *gin.Context) {
	id, ok := h.parseID(c, "id", "preset")
	if !ok {
		return
	}

	preset, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, preset)
}

// Update godoc
// @Summary      Replace an onboarding preset
// @Tags         onboarding-presets
// @Accept       json
// @Produce      json
// @Param        id path string true "Preset ID" format(uuid)
// @Param        request body apponboarding.PresetRequest true "Preset"
// @Success      200 {object} dto.Response{data=apponboarding.PresetResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /onboarding/presets/{id} [put]
func (h *PresetHandler) Update(c *gin.Context) {
	id, ok := h.parseID(c, "id", "preset")
	if !ok {
		return
	}
	var req apponboarding.PresetRequest
	if !h.bindJSON(c, &req) {
		return
	}

	preset, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, preset)
}

// Delete godoc
// @Summary      Delete an onboarding preset
// @Description  System presets cannot be deleted
// @Tags         onboarding-presets
// @Param        id path string true "Preset ID" format(uuid)
// @Success      204
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /onboarding/presets/{id} [delete]
func (h *PresetHandler) Delete(c *gin.Context) {
	id, ok := h.parseID(c, "id", "preset")
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// Duplicate godoc
// @Summary      Duplicate an onboarding preset
// @Description  Copies a preset as a new custom preset. The name defaults to "<source> (Copy)".
// @Tags         onboarding-presets
// @Accept       json
// @Produce      json
// @Param        id path string true "Source preset ID" format(uuid)
// @Param        request body apponboarding.DuplicatePresetRequest false "New name"
// @Success      201 {object} dto.Response{data=apponboarding.PresetResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /onboarding/presets/{id}/duplicate [post]
func (h *PresetHandler) Duplicate(c *gin.Context) {
	id, ok := h.parseID(c, "id", "preset")
	if !ok {
		return
	}
	var req apponboarding.DuplicatePresetRequest
	if c.Request.ContentLength != 0 && !h.bindJSON(c, &req) {
		return
	}

	preset, err := h.service.Duplicate(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, preset)
}

// Seed godoc
// @Summary      Seed the built-in presets
// @Description  Creates any missing system presets. Existing ones are left untouched.
// @Tags         onboarding-presets
// @Produce      json
// @Success      200 {object} dto.Response{data=apponboarding.SeedResult}
// @Security     BearerAuth
// @Router       /onboarding/presets/seed [post]
func (h *PresetHandler) Seed(c *gin.Context) {
	result, err := h.service.SeedSystemPresets(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}
