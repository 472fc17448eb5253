package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	apponboarding "github.com/propertyhub/backend/internal/application/onboarding"
	"github.com/propertyhub/backend/internal/domain/onboarding"
)

// SessionService is the application surface the session handlers drive
type SessionService interface {
	Start(ctx context.Context, req apponboarding.StartSessionRequest) (*apponboarding.SessionResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*apponboarding.SessionResponse, error)
	GetByToken(ctx context.Context, token string) (*apponboarding.SessionResponse, error)
	CompleteStep(ctx context.Context, id uuid.UUID, step onboarding.Step) (*apponboarding.SessionResponse, error)
	Complete(ctx context.Context, id uuid.UUID) (*apponboarding.SessionResponse, error)
	Cancel(ctx context.Context, id uuid.UUID) (*apponboarding.SessionResponse, error)
	RegenerateLink(ctx context.Context, id uuid.UUID) (*apponboarding.SessionResponse, error)
	LinkTenant(ctx context.Context, id, tenantID uuid.UUID) (*apponboarding.SessionResponse, error)
	SendInvitation(ctx context.Context, id uuid.UUID, channel onboarding.Channel) (*onboarding.Invitation, error)
	Fees(ctx context.Context, id uuid.UUID) (*apponboarding.FeesResponse, error)
	RequestOTP(ctx context.Context, token string) error
	VerifyOTP(ctx context.Context, token, code string) (*apponboarding.SessionResponse, error)
}

// LinkTenantRequest attaches a tenant record to a session
type LinkTenantRequest struct {
	TenantID uuid.UUID `json:"tenant_id" binding:"required"`
}

// VerifyOTPRequest carries a code sent by the OTP endpoint
type VerifyOTPRequest struct {
	Code string `json:"code" binding:"required,len=6,numeric"`
}

// SessionHandler handles staff-facing onboarding session requests
type SessionHandler struct {
	BaseHandler
	service SessionService
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(service SessionService) *SessionHandler {
	return &SessionHandler{service: service}
}

// Start godoc
// @Summary      Start an onboarding session
// @Description  Snapshots the chosen preset into a new session and optionally sends the invitation
// @Tags         onboarding-sessions
// @Accept       json
// @Produce      json
// @Param        request body apponboarding.StartSessionRequest true "Session"
// @Success      201 {object} dto.Response{data=apponboarding.SessionResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /onboarding/sessions [post]
func (h *SessionHandler) Start(c *gin.Context) {
	var req apponboarding.StartSessionRequest
	if !h.bindJSON(c, &req) {
		return
	}

	session, err := h.service.Start(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, session)
}

// Get godoc
// @Summary      Get an onboarding session
// @Tags         onboarding-sessions
// @Produce      json
// @Param        id path string true "Session ID" format(uuid)
// @Success      200 {object} dto.Response{data=apponboarding.SessionResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /onboarding/sessions/{id} [get]
func (h *SessionHandler) Get(c *gin.Context) {
	h.withSession(c, h.service.Get)
}

// CompleteStep godoc
// @Summary      Mark a session step as completed
// @Tags         onboarding-sessions
// @Produce      json
// @Param        id path string true "Session ID" format(uuid)
// @Param        step path string true "Step key"
// @Success      200 {object} dto.Response{data=apponboarding.SessionResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /onboarding/sessions/{id}/steps/{step}/complete [post]
func (h *SessionHandler) CompleteStep(c *gin.Context) {
	step := onboarding.Step(c.Param("step"))
	h.withSession(c, func(ctx context.Context, id uuid.UUID) (*apponboarding.SessionResponse, error) {
		return h.service.CompleteStep(ctx, id, step)
	})
}

// Complete godoc
// @Summary      Complete an onboarding session
// @Description  Refused with STEPS_INCOMPLETE while a required step is outstanding
// @Tags         onboarding-sessions
// @Produce      json
// @Param        id path string true "Session ID" format(uuid)
// @Success      200 {object} dto.Response{data=apponboarding.SessionResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /onboarding/sessions/{id}/complete [post]
func (h *SessionHandler) Complete(c *gin.Context) {
	h.withSession(c, h.service.Complete)
}

// Cancel godoc
// @Summary      Cancel an onboarding session
// @Tags         onboarding-sessions
// @Produce      json
// @Param        id path string true "Session ID" format(uuid)
// @Success      200 {object} dto.Response{data=apponboarding.SessionResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /onboarding/sessions/{id}/cancel [post]
func (h *SessionHandler) Cancel(c *gin.Context) {
	h.withSession(c, h.service.Cancel)
}

// RegenerateLink godoc
// @Summary      Issue a fresh access link
// @Description  Replaces the access token and restarts the expiry window from the preset's link expiry
// @Tags         onboarding-sessions
// @Produce      json
// @Param        id path string true "Session ID" format(uuid)
// @Success      200 {object} dto.Response{data=apponboarding.SessionResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /onboarding/sessions/{id}/regenerate-link [post]
func (h *SessionHandler) RegenerateLink(c *gin.Context) {
	h.withSession(c, h.service.RegenerateLink)
}

// LinkTenant godoc
// @Summary      Attach a tenant record to a session
// @Tags         onboarding-sessions
// @Accept       json
// @Produce      json
// @Param        id path string true "Session ID" format(uuid)
// @Param        request body LinkTenantRequest true "Tenant"
// @Success      200 {object} dto.Response{data=apponboarding.SessionResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /onboarding/sessions/{id}/link-tenant [post]
func (h *SessionHandler) LinkTenant(c *gin.Context) {
	id, ok := h.parseID(c, "id", "session")
	if !ok {
		return
	}
	var req LinkTenantRequest
	if !h.bindJSON(c, &req) {
		return
	}

	session, err := h.service.LinkTenant(c.Request.Context(), id, req.TenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, session)
}

// Invite godoc
// @Summary      Send the session invitation
// @Tags         onboarding-sessions
// @Accept       json
// @Produce      json
// @Param        id path string true "Session ID" format(uuid)
// @Param        request body apponboarding.InviteRequest true "Channel"
// @Success      202 {object} dto.Response{data=onboarding.Invitation}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /onboarding/sessions/{id}/invite [post]
func (h *SessionHandler) Invite(c *gin.Context) {
	id, ok := h.parseID(c, "id", "session")
	if !ok {
		return
	}
	var req apponboarding.InviteRequest
	if !h.bindJSON(c, &req) {
		return
	}

	inv, err := h.service.SendInvitation(c.Request.Context(), id, onboarding.Channel(req.Channel))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Accepted(c, inv)
}

// Fees godoc
// @Summary      Resolve the move-in fees of a session
// @Tags         onboarding-sessions
// @Produce      json
// @Param        id path string true "Session ID" format(uuid)
// @Success      200 {object} dto.Response{data=apponboarding.FeesResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /onboarding/sessions/{id}/fees [get]
func (h *SessionHandler) Fees(c *gin.Context) {
	id, ok := h.parseID(c, "id", "session")
	if !ok {
		return
	}

	fees, err := h.service.Fees(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, fees)
}

func (h *SessionHandler) withSession(c *gin.Context, fn func(context.Context, uuid.UUID) (*apponboarding.SessionResponse, error)) {
	id, ok := h.parseID(c, "id", "session")
	if !ok {
		return
	}

	session, err := fn(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, session)
}

// AccessHandler serves the prospect-facing endpoints reached through an access link
type AccessHandler struct {
	BaseHandler
	service SessionService
}

// NewAccessHandler creates a new access handler
func NewAccessHandler(service SessionService) *AccessHandler {
	return &AccessHandler{service: service}
}

// Get godoc
// @Summary      Open an onboarding session by access token
// @Tags         onboarding-access
// @Produce      json
// @Param        token path string true "Access token"
// @Success      200 {object} dto.Response{data=apponboarding.SessionResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      429 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /onboarding/access/{token} [get]
func (h *AccessHandler) Get(c *gin.Context) {
	session, err := h.service.GetByToken(c.Request.Context(), c.Param("token"))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, session)
}

// RequestOTP godoc
// @Summary      Email a verification code to the prospect
// @Tags         onboarding-access
// @Produce      json
// @Param        token path string true "Access token"
// @Success      202 {object} dto.Response
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      429 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /onboarding/access/{token}/otp [post]
func (h *AccessHandler) RequestOTP(c *gin.Context) {
	if err := h.service.RequestOTP(c.Request.Context(), c.Param("token")); err != nil {
		h.HandleError(c, err)
		return
	}

	h.Accepted(c, gin.H{"message": "Verification code sent"})
}

// VerifyOTP godoc
// @Summary      Verify an emailed code
// @Tags         onboarding-access
// @Accept       json
// @Produce      json
// @Param        token path string true "Access token"
// @Param        request body VerifyOTPRequest true "Code"
// @Success      200 {object} dto.Response{data=apponboarding.SessionResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /onboarding/access/{token}/otp/verify [post]
func (h *AccessHandler) VerifyOTP(c *gin.Context) {
	var req VerifyOTPRequest
	if !h.bindJSON(c, &req) {
		return
	}

	session, err := h.service.VerifyOTP(c.Request.Context(), c.Param("token"), req.Code)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, session)
}
