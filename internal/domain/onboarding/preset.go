package onboarding

import (
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/propertyhub/backend/internal/domain/shared"
)

// Category groups presets by the kind of property they target
type Category string

const (
	CategoryResidential Category = "residential"
	CategoryStudent     Category = "student"
	CategorySenior      Category = "senior"
	CategoryCommercial  Category = "commercial"
	CategorySubsidized  Category = "subsidized"
	CategoryCustom      Category = "custom"
)

// IsValid checks if the category is known
func (c Category) IsValid() bool {
	switch c {
	case CategoryResidential, CategoryStudent, CategorySenior, CategoryCommercial, CategorySubsidized, CategoryCustom:
		return true
	}
	return false
}

// Preset defaults and limits
const (
	DefaultIcon                   = "bi-house"
	DefaultLinkExpiryDays         = 14
	MaxLinkExpiryDays             = 365
	MaxSMSLength                  = 320
	DefaultInvitationEmailSubject = "Welcome! Complete Your Move-In Process"
)

// CollectionFlags toggle optional data collection
type CollectionFlags struct {
	CollectVehicles         bool `json:"collect_vehicles"`
	CollectEmployment       bool `json:"collect_employment"`
	RequireRentersInsurance bool `json:"require_renters_insurance"`
	RequireIDVerification   bool `json:"require_id_verification"`
}

// Messaging is the tenant-facing copy of a preset. Invitation texts may
// contain {{first_name}}, {{property_name}}, {{link}} and {{expiry_days}}.
type Messaging struct {
	WelcomeMessage         string   `json:"welcome_message"`
	PropertyRules          string   `json:"property_rules"`
	MoveInChecklist        []string `json:"move_in_checklist"`
	InvitationEmailSubject string   `json:"invitation_email_subject"`
	InvitationEmailBody    string   `json:"invitation_email_body"`
	InvitationSMSBody      string   `json:"invitation_sms_body"`
}

// PresetConfig is the editable content of a preset
type PresetConfig struct {
	Name           string
	Description    string
	Category       Category
	Icon           string
	IsActive       bool
	StepsConfig    StepsConfig
	Collection     CollectionFlags
	LinkExpiryDays int
	Messaging      Messaging
	DefaultFees    []FeeSpec
}

// Preset is a reusable onboarding configuration
type Preset struct {
	shared.BaseAggregateRoot
	Name           string
	Description    string
	Category       Category
	Icon           string
	IsSystem       bool
	IsActive       bool
	StepsConfig    StepsConfig
	Collection     CollectionFlags
	LinkExpiryDays int
	Messaging      Messaging
	DefaultFees    []FeeSpec
}

// NewPreset creates a user-defined preset after validating cfg against known
func NewPreset(cfg PresetConfig, known StepSet) (*Preset, error) {
	p := &Preset{BaseAggregateRoot: shared.NewBaseAggregateRoot()}
	if err := p.apply(cfg, known); err != nil {
		return nil, err
	}
	return p, nil
}

// NewSystemPreset creates a built-in preset
func NewSystemPreset(cfg PresetConfig, known StepSet) (*Preset, error) {
	p, err := NewPreset(cfg, known)
	if err != nil {
		return nil, err
	}
	p.IsSystem = true
	return p, nil
}

// Update replaces the editable content
func (p *Preset) Update(cfg PresetConfig, known StepSet) error {
	if err := p.apply(cfg, known); err != nil {
		return err
	}
	p.IncrementVersion()
	return nil
}

func (p *Preset) apply(cfg PresetConfig, known StepSet) error {
	cfg = withDefaults(cfg)
	if err := validateConfig(cfg, known); err != nil {
		return err
	}
	p.Name = cfg.Name
	p.Description = cfg.Description
	p.Category = cfg.Category
	p.Icon = cfg.Icon
	p.IsActive = cfg.IsActive
	p.StepsConfig = cfg.StepsConfig.Clone()
	p.Collection = cfg.Collection
	p.LinkExpiryDays = cfg.LinkExpiryDays
	p.Messaging = cfg.Messaging
	p.Messaging.MoveInChecklist = append([]string(nil), cfg.Messaging.MoveInChecklist...)
	p.DefaultFees = append([]FeeSpec(nil), cfg.DefaultFees...)
	return nil
}

func withDefaults(cfg PresetConfig) PresetConfig {
	cfg.Name = strings.TrimSpace(cfg.Name)
	if cfg.Icon == "" {
		cfg.Icon = DefaultIcon
	}
	if cfg.Category == "" {
		cfg.Category = CategoryCustom
	}
	if cfg.LinkExpiryDays == 0 {
		cfg.LinkExpiryDays = DefaultLinkExpiryDays
	}
	if cfg.StepsConfig == nil {
		cfg.StepsConfig = DefaultStepsConfig()
	}
	if cfg.Messaging.InvitationEmailSubject == "" {
		cfg.Messaging.InvitationEmailSubject = DefaultInvitationEmailSubject
	}
	return cfg
}

func validateConfig(cfg PresetConfig, known StepSet) error {
	if cfg.Name == "" {
		return shared.NewDomainError("INVALID_PRESET_NAME", "Preset name cannot be empty")
	}
	if len(cfg.Name) > 100 {
		return shared.NewDomainError("INVALID_PRESET_NAME", "Preset name cannot exceed 100 characters")
	}
	if !cfg.Category.IsValid() {
		return shared.NewDomainError("INVALID_CATEGORY", "Unknown preset category: "+string(cfg.Category))
	}
	if cfg.LinkExpiryDays < 1 || cfg.LinkExpiryDays > MaxLinkExpiryDays {
		return shared.NewDomainError("INVALID_LINK_EXPIRY",
			fmt.Sprintf("Link expiry must be between 1 and %d days", MaxLinkExpiryDays))
	}
	if utf8.RuneCountInString(cfg.Messaging.InvitationSMSBody) > MaxSMSLength {
		return shared.NewDomainError("INVALID_SMS_BODY",
			fmt.Sprintf("Invitation SMS cannot exceed %d characters", MaxSMSLength))
	}
	if err := cfg.StepsConfig.Validate(known); err != nil {
		return err
	}
	for _, fee := range cfg.DefaultFees {
		if err := fee.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Config returns the editable content of the preset
func (p *Preset) Config() PresetConfig {
	return PresetConfig{
		Name:           p.Name,
		Description:    p.Description,
		Category:       p.Category,
		Icon:           p.Icon,
		IsActive:       p.IsActive,
		StepsConfig:    p.StepsConfig.Clone(),
		Collection:     p.Collection,
		LinkExpiryDays: p.LinkExpiryDays,
		Messaging:      p.Messaging,
		DefaultFees:    append([]FeeSpec(nil), p.DefaultFees...),
	}
}

// CanDelete returns ErrSystemPresetProtected for built-in presets
func (p *Preset) CanDelete() error {
	if p.IsSystem {
		return shared.ErrSystemPresetProtected
	}
	return nil
}

// Duplicate returns an editable, non-system copy under a new name
func (p *Preset) Duplicate(name string, known StepSet) (*Preset, error) {
	snapshot, err := p.Snapshot()
	if err != nil {
		return nil, err
	}
	cfg := p.Config()
	cfg.Name = name
	cfg.StepsConfig = snapshot.StepsConfig
	cfg.DefaultFees = snapshot.DefaultFees
	cfg.Messaging = snapshot.Messaging
	return NewPreset(cfg, known)
}

// Snapshot is a point-in-time, fully independent copy of the parts of a
// preset an onboarding session runs from.
type Snapshot struct {
	PresetID       uuid.UUID       `json:"preset_id"`
	PresetName     string          `json:"preset_name"`
	StepsConfig    StepsConfig     `json:"steps_config"`
	Collection     CollectionFlags `json:"collection"`
	LinkExpiryDays int             `json:"link_expiry_days"`
	Messaging      Messaging       `json:"messaging"`
	DefaultFees    []FeeSpec       `json:"default_fees"`
}

// Snapshot copies the preset through a JSON round trip so no map, slice or
// decimal pointer is shared with the preset.
func (p *Preset) Snapshot() (Snapshot, error) {
	src := Snapshot{
		PresetID:       p.ID,
		PresetName:     p.Name,
		StepsConfig:    p.StepsConfig,
		Collection:     p.Collection,
		LinkExpiryDays: p.LinkExpiryDays,
		Messaging:      p.Messaging,
		DefaultFees:    p.DefaultFees,
	}
	return src.Clone()
}

// Clone deep-copies the snapshot
func (s Snapshot) Clone() (Snapshot, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return Snapshot{}, fmt.Errorf("failed to encode preset snapshot: %w", err)
	}
	var out Snapshot
	if err := json.Unmarshal(data, &out); err != nil {
		return Snapshot{}, fmt.Errorf("failed to decode preset snapshot: %w", err)
	}
	return out, nil
}
