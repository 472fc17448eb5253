package onboarding

import (
	"time"

	"github.com/google/uuid"
	"github.com/propertyhub/backend/internal/domain/onboarding"
	"github.com/shopspring/decimal"
)

// StepSettingsRequest configures one step. A missing order sorts last.
type StepSettingsRequest struct {
	Enabled  bool `json:"enabled"`
	Order    *int `json:"order" binding:"omitempty,min=0"`
	Required bool `json:"required"`
}

// FeeSpecRequest describes one default fee of a preset
type FeeSpecRequest struct {
	FeeType       string           `json:"fee_type" binding:"required,fee_type"`
	Name          string           `json:"name" binding:"required,min=1,max=100"`
	Description   string           `json:"description" binding:"max=500"`
	Amount        *decimal.Decimal `json:"amount"`
	UseLeaseValue bool             `json:"use_lease_value"`
	LeaseField    string           `json:"lease_field" binding:"omitempty,oneof=monthly_rent security_deposit"`
	IsRequired    bool             `json:"is_required"`
	IsRefundable  bool             `json:"is_refundable"`
	Order         int              `json:"order" binding:"min=0"`
}

// PresetRequest creates a preset or replaces the content of one
type PresetRequest struct {
	Name                    string                         `json:"name" binding:"required,min=1,max=100"`
	Description             string                         `json:"description" binding:"max=2000"`
	Category                string                         `json:"category" binding:"omitempty,preset_category"`
	Icon                    string                         `json:"icon" binding:"max=50"`
	IsActive                *bool                          `json:"is_active"`
	StepsConfig             map[string]StepSettingsRequest `json:"steps_config" binding:"omitempty,dive,keys,onboarding_step,endkeys"`
	CollectVehicles         bool                           `json:"collect_vehicles"`
	CollectEmployment       bool                           `json:"collect_employment"`
	RequireRentersInsurance bool                           `json:"require_renters_insurance"`
	RequireIDVerification   bool                           `json:"require_id_verification"`
	LinkExpiryDays          int                            `json:"link_expiry_days" binding:"omitempty,min=1,max=365"`
	WelcomeMessage          string                         `json:"welcome_message" binding:"max=5000"`
	PropertyRules           string                         `json:"property_rules" binding:"max=5000"`
	MoveInChecklist         []string                       `json:"move_in_checklist" binding:"omitempty,dive,max=200"`
	InvitationEmailSubject  string                         `json:"invitation_email_subject" binding:"max=200"`
	InvitationEmailBody     string                         `json:"invitation_email_body" binding:"max=5000"`
	InvitationSMSBody       string                         `json:"invitation_sms_body" binding:"max=320"`
	DefaultFees             []FeeSpecRequest               `json:"default_fees" binding:"omitempty,dive"`
}

// toConfig converts the request; defaultExpiry applies when no expiry was sent
func (r PresetRequest) toConfig(defaultExpiry int) onboarding.PresetConfig {
	cfg := onboarding.PresetConfig{
		Name:        r.Name,
		Description: r.Description,
		Category:    onboarding.Category(r.Category),
		Icon:        r.Icon,
		IsActive:    r.IsActive == nil || *r.IsActive,
		Collection: onboarding.CollectionFlags{
			CollectVehicles:         r.CollectVehicles,
			CollectEmployment:       r.CollectEmployment,
			RequireRentersInsurance: r.RequireRentersInsurance,
			RequireIDVerification:   r.RequireIDVerification,
		},
		LinkExpiryDays: r.LinkExpiryDays,
		Messaging: onboarding.Messaging{
			WelcomeMessage:         r.WelcomeMessage,
			PropertyRules:          r.PropertyRules,
			MoveInChecklist:        r.MoveInChecklist,
			InvitationEmailSubject: r.InvitationEmailSubject,
			InvitationEmailBody:    r.InvitationEmailBody,
			InvitationSMSBody:      r.InvitationSMSBody,
		},
	}
	if cfg.LinkExpiryDays == 0 {
		cfg.LinkExpiryDays = defaultExpiry
	}
	if len(r.StepsConfig) > 0 {
		cfg.StepsConfig = make(onboarding.StepsConfig, len(r.StepsConfig))
		for step, s := range r.StepsConfig {
			order := onboarding.DefaultStepOrder
			if s.Order != nil {
				order = *s.Order
			}
			cfg.StepsConfig[onboarding.Step(step)] = onboarding.StepSettings{
				Enabled:  s.Enabled,
				Order:    order,
				Required: s.Required,
			}
		}
	}
	for _, f := range r.DefaultFees {
		cfg.DefaultFees = append(cfg.DefaultFees, onboarding.FeeSpec{
			FeeType:       onboarding.FeeType(f.FeeType),
			Name:          f.Name,
			Description:   f.Description,
			Amount:        f.Amount,
			UseLeaseValue: f.UseLeaseValue,
			LeaseField:    f.LeaseField,
			IsRequired:    f.IsRequired,
			IsRefundable:  f.IsRefundable,
			Order:         f.Order,
		})
	}
	return cfg
}

// DuplicatePresetRequest optionally names the copy
type DuplicatePresetRequest struct {
	Name string `json:"name" binding:"omitempty,max=100"`
}

// PresetListQuery represents the query parameters of a preset listing
type PresetListQuery struct {
	Search     string `form:"search" binding:"max=100"`
	Category   string `form:"category" binding:"omitempty,preset_category"`
	ActiveOnly bool   `form:"active_only"`
	IsSystem   *bool  `form:"is_system"`
	Page       int    `form:"page" binding:"omitempty,min=1"`
	PageSize   int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy    string `form:"order_by"`
	OrderDir   string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// StepResponse is an enabled step in presentation order
type StepResponse struct {
	Step     onboarding.Step `json:"step"`
	Label    string          `json:"label"`
	Order    int             `json:"order"`
	Required bool            `json:"required"`
}

func toStepResponses(cfg onboarding.StepsConfig) []StepResponse {
	enabled := cfg.EnabledSteps()
	out := make([]StepResponse, len(enabled))
	for i, step := range enabled {
		settings := cfg[step]
		out[i] = StepResponse{Step: step, Label: step.Label(), Order: settings.Order, Required: settings.Required}
	}
	return out
}

// PresetResponse represents a preset in API responses
type PresetResponse struct {
	ID             uuid.UUID                  `json:"id"`
	Name           string                     `json:"name"`
	Description    string                     `json:"description"`
	Category       onboarding.Category        `json:"category"`
	Icon           string                     `json:"icon"`
	IsSystem       bool                       `json:"is_system"`
	IsActive       bool                       `json:"is_active"`
	StepsConfig    onboarding.StepsConfig     `json:"steps_config"`
	Steps          []StepResponse             `json:"steps"`
	Collection     onboarding.CollectionFlags `json:"collection"`
	LinkExpiryDays int                        `json:"link_expiry_days"`
	Messaging      onboarding.Messaging       `json:"messaging"`
	DefaultFees    []onboarding.FeeSpec       `json:"default_fees"`
	CreatedAt      time.Time                  `json:"created_at"`
	UpdatedAt      time.Time                  `json:"updated_at"`
	Version        int                        `json:"version"`
}

// ToPresetResponse converts a domain Preset to PresetResponse
func ToPresetResponse(p *onboarding.Preset) PresetResponse {
	return PresetResponse{
		ID:             p.ID,
		Name:           p.Name,
		Description:    p.Description,
		Category:       p.Category,
		Icon:           p.Icon,
		IsSystem:       p.IsSystem,
		IsActive:       p.IsActive,
		StepsConfig:    p.StepsConfig,
		Steps:          toStepResponses(p.StepsConfig),
		Collection:     p.Collection,
		LinkExpiryDays: p.LinkExpiryDays,
		Messaging:      p.Messaging,
		DefaultFees:    p.DefaultFees,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
		Version:        p.Version,
	}
}

// PresetListResponse represents a list item for presets
type PresetListResponse struct {
	ID             uuid.UUID           `json:"id"`
	Name           string              `json:"name"`
	Category       onboarding.Category `json:"category"`
	Icon           string              `json:"icon"`
	IsSystem       bool                `json:"is_system"`
	IsActive       bool                `json:"is_active"`
	StepCount      int                 `json:"step_count"`
	LinkExpiryDays int                 `json:"link_expiry_days"`
}

// SeedResult reports what SeedSystemPresets did
type SeedResult struct {
	Created []string `json:"created"`
	Skipped []string `json:"skipped"`
}

// StartSessionRequest opens an onboarding session for a prospect
type StartSessionRequest struct {
	PresetID     uuid.UUID  `json:"preset_id" binding:"required"`
	Email        string     `json:"email" binding:"required,email,max=254"`
	FirstName    string     `json:"first_name" binding:"max=150"`
	LastName     string     `json:"last_name" binding:"max=150"`
	Phone        string     `json:"phone" binding:"max=20"`
	PropertyName string     `json:"property_name" binding:"max=200"`
	TenantID     *uuid.UUID `json:"tenant_id"`
	LeaseID      *uuid.UUID `json:"lease_id"`
	// SendVia sends the invitation right away when set
	SendVia string `json:"send_via" binding:"omitempty,oneof=email sms both"`
}

// InviteRequest selects the invitation channel
type InviteRequest struct {
	Channel string `json:"channel" binding:"required,oneof=email sms both"`
}

// SessionResponse represents an onboarding session in API responses
type SessionResponse struct {
	ID              uuid.UUID                `json:"id"`
	Status          onboarding.SessionStatus `json:"status"`
	Email           string                   `json:"email"`
	FirstName       string                   `json:"first_name"`
	LastName        string                   `json:"last_name"`
	Phone           string                   `json:"phone,omitempty"`
	PropertyName    string                   `json:"property_name,omitempty"`
	TenantID        *uuid.UUID               `json:"tenant_id,omitempty"`
	LeaseID         *uuid.UUID               `json:"lease_id,omitempty"`
	PresetID        uuid.UUID                `json:"preset_id"`
	PresetName      string                   `json:"preset_name"`
	Steps           []StepResponse           `json:"steps"`
	CurrentStep     onboarding.Step          `json:"current_step,omitempty"`
	StepsCompleted  []onboarding.Step        `json:"steps_completed"`
	ProgressPercent int                      `json:"progress_percent"`
	Link            string                   `json:"link"`
	TokenExpiresAt  time.Time                `json:"token_expires_at"`
	InvitedAt       time.Time                `json:"invited_at"`
	StartedAt       *time.Time               `json:"started_at,omitempty"`
	CompletedAt     *time.Time               `json:"completed_at,omitempty"`
	Messaging       onboarding.Messaging     `json:"messaging"`
}

func toSessionResponse(s *onboarding.Session, link string) SessionResponse {
	completed := make([]onboarding.Step, 0, len(s.StepsCompleted))
	for _, step := range s.Steps() {
		if s.IsStepComplete(step) {
			completed = append(completed, step)
		}
	}
	return SessionResponse{
		ID:              s.ID,
		Status:          s.Status,
		Email:           s.Email,
		FirstName:       s.FirstName,
		LastName:        s.LastName,
		Phone:           s.Phone,
		PropertyName:    s.PropertyName,
		TenantID:        s.TenantID,
		LeaseID:         s.LeaseID,
		PresetID:        s.Config.PresetID,
		PresetName:      s.Config.PresetName,
		Steps:           toStepResponses(s.Config.StepsConfig),
		CurrentStep:     s.CurrentStep,
		StepsCompleted:  completed,
		ProgressPercent: s.ProgressPercent(),
		Link:            link,
		TokenExpiresAt:  s.TokenExpiresAt,
		InvitedAt:       s.InvitedAt,
		StartedAt:       s.StartedAt,
		CompletedAt:     s.CompletedAt,
		Messaging:       s.Config.Messaging,
	}
}

// FeesResponse lists the resolved move-in charges of a session
type FeesResponse struct {
	SessionID uuid.UUID            `json:"session_id"`
	LeaseID   *uuid.UUID           `json:"lease_id,omitempty"`
	Lines     []onboarding.FeeLine `json:"lines"`
	Total     decimal.Decimal      `json:"total"`
}
