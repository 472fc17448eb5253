package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/propertyhub/backend/internal/domain/onboarding"
	"gorm.io/datatypes"
)

// OnboardingPresetModel is the persistence model for onboarding presets.
// Nested configuration is kept in JSON columns.
type OnboardingPresetModel struct {
	AggregateModel
	Name                    string                                     `gorm:"type:varchar(100);not null;uniqueIndex"`
	Description             string                                     `gorm:"type:text"`
	Category                string                                     `gorm:"type:varchar(20);not null;default:'custom';index"`
	Icon                    string                                     `gorm:"type:varchar(50);not null;default:'bi-house'"`
	IsSystem                bool                                       `gorm:"not null;default:false"`
	IsActive                bool                                       `gorm:"not null;default:true;index"`
	StepsConfig             datatypes.JSONType[onboarding.StepsConfig] `gorm:"not null"`
	CollectVehicles         bool                                       `gorm:"not null;default:true"`
	CollectEmployment       bool                                       `gorm:"not null;default:true"`
	RequireRentersInsurance bool                                       `gorm:"not null;default:false"`
	RequireIDVerification   bool                                       `gorm:"not null;default:false"`
	LinkExpiryDays          int                                        `gorm:"not null;default:14"`
	WelcomeMessage          string                                     `gorm:"type:text"`
	PropertyRules           string                                     `gorm:"type:text"`
	MoveInChecklist         datatypes.JSONSlice[string]                `gorm:"not null"`
	InvitationEmailSubject  string                                     `gorm:"type:varchar(200)"`
	InvitationEmailBody     string                                     `gorm:"type:text"`
	InvitationSMSBody       string                                     `gorm:"type:varchar(320)"`
	DefaultFees             datatypes.JSONSlice[onboarding.FeeSpec]    `gorm:"not null"`
}

// TableName returns the table name for GORM
func (OnboardingPresetModel) TableName() string {
	return "onboarding_presets"
}

// ToDomain converts the persistence model to a domain Preset
func (m *OnboardingPresetModel) ToDomain() *onboarding.Preset {
	return &onboarding.Preset{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		Name:              m.Name,
		Description:       m.Description,
		Category:          onboarding.Category(m.Category),
		Icon:              m.Icon,
		IsSystem:          m.IsSystem,
		IsActive:          m.IsActive,
		StepsConfig:       m.StepsConfig.Data(),
		Collection: onboarding.CollectionFlags{
			CollectVehicles:         m.CollectVehicles,
			CollectEmployment:       m.CollectEmployment,
			RequireRentersInsurance: m.RequireRentersInsurance,
			RequireIDVerification:   m.RequireIDVerification,
		},
		LinkExpiryDays: m.LinkExpiryDays,
		Messaging: onboarding.Messaging{
			WelcomeMessage:         m.WelcomeMessage,
			PropertyRules:          m.PropertyRules,
			MoveInChecklist:        []string(m.MoveInChecklist),
			InvitationEmailSubject: m.InvitationEmailSubject,
			InvitationEmailBody:    m.InvitationEmailBody,
			InvitationSMSBody:      m.InvitationSMSBody,
		},
		DefaultFees: []onboarding.FeeSpec(m.DefaultFees),
	}
}

// FromDomain populates the persistence model from a domain Preset
func (m *OnboardingPresetModel) FromDomain(p *onboarding.Preset) {
	m.FromDomainAggregateRoot(p.BaseAggregateRoot)
	m.Name = p.Name
	m.Description = p.Description
	m.Category = string(p.Category)
	m.Icon = p.Icon
	m.IsSystem = p.IsSystem
	m.IsActive = p.IsActive
	m.StepsConfig = datatypes.NewJSONType(p.StepsConfig)
	m.CollectVehicles = p.Collection.CollectVehicles
	m.CollectEmployment = p.Collection.CollectEmployment
	m.RequireRentersInsurance = p.Collection.RequireRentersInsurance
	m.RequireIDVerification = p.Collection.RequireIDVerification
	m.LinkExpiryDays = p.LinkExpiryDays
	m.WelcomeMessage = p.Messaging.WelcomeMessage
	m.PropertyRules = p.Messaging.PropertyRules
	m.MoveInChecklist = datatypes.NewJSONSlice(nonNil(p.Messaging.MoveInChecklist))
	m.InvitationEmailSubject = p.Messaging.InvitationEmailSubject
	m.InvitationEmailBody = p.Messaging.InvitationEmailBody
	m.InvitationSMSBody = p.Messaging.InvitationSMSBody
	m.DefaultFees = datatypes.NewJSONSlice(nonNil(p.DefaultFees))
}

// OnboardingPresetModelFromDomain creates a new persistence model from a domain Preset
func OnboardingPresetModelFromDomain(p *onboarding.Preset) *OnboardingPresetModel {
	m := &OnboardingPresetModel{}
	m.FromDomain(p)
	return m
}

// OnboardingSessionModel is the persistence model for onboarding sessions
type OnboardingSessionModel struct {
	AggregateModel
	PresetID       *uuid.UUID                                          `gorm:"type:uuid;index"`
	TenantID       *uuid.UUID                                          `gorm:"type:uuid;index"`
	LeaseID        *uuid.UUID                                          `gorm:"type:uuid"`
	Email          string                                              `gorm:"type:varchar(254);not null;index"`
	FirstName      string                                              `gorm:"type:varchar(150)"`
	LastName       string                                              `gorm:"type:varchar(150)"`
	Phone          string                                              `gorm:"type:varchar(20)"`
	PropertyName   string                                              `gorm:"type:varchar(200)"`
	Status         string                                              `gorm:"type:varchar(20);not null;index"`
	ConfigSnapshot datatypes.JSONType[onboarding.Snapshot]             `gorm:"not null"`
	CurrentStep    string                                              `gorm:"type:varchar(30)"`
	StepsCompleted datatypes.JSONType[map[onboarding.Step]time.Time]   `gorm:"not null"`
	AccessToken    string                                              `gorm:"type:varchar(64);not null;uniqueIndex"`
	TokenExpiresAt time.Time                                           `gorm:"not null;index"`
	OTPHash        string                                              `gorm:"column:otp_hash;type:varchar(100)"`
	OTPExpiresAt   *time.Time                                          `gorm:"column:otp_expires_at"`
	InvitedAt      time.Time                                           `gorm:"not null"`
	StartedAt      *time.Time
	CompletedAt    *time.Time
}

// TableName returns the table name for GORM
func (OnboardingSessionModel) TableName() string {
	return "onboarding_sessions"
}

// ToDomain converts the persistence model to a domain Session
func (m *OnboardingSessionModel) ToDomain() *onboarding.Session {
	completed := m.StepsCompleted.Data()
	if completed == nil {
		completed = make(map[onboarding.Step]time.Time)
	}
	return &onboarding.Session{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		Prospect: onboarding.Prospect{
			Email:        m.Email,
			FirstName:    m.FirstName,
			LastName:     m.LastName,
			Phone:        m.Phone,
			PropertyName: m.PropertyName,
			TenantID:     m.TenantID,
			LeaseID:      m.LeaseID,
		},
		Status:         onboarding.SessionStatus(m.Status),
		Config:         m.ConfigSnapshot.Data(),
		CurrentStep:    onboarding.Step(m.CurrentStep),
		StepsCompleted: completed,
		AccessToken:    m.AccessToken,
		TokenExpiresAt: m.TokenExpiresAt,
		OTPHash:        m.OTPHash,
		OTPExpiresAt:   m.OTPExpiresAt,
		InvitedAt:      m.InvitedAt,
		StartedAt:      m.StartedAt,
		CompletedAt:    m.CompletedAt,
	}
}

// FromDomain populates the persistence model from a domain Session
func (m *OnboardingSessionModel) FromDomain(s *onboarding.Session) {
	m.FromDomainAggregateRoot(s.BaseAggregateRoot)
	if s.Config.PresetID != uuid.Nil {
		presetID := s.Config.PresetID
		m.PresetID = &presetID
	}
	m.TenantID = s.TenantID
	m.LeaseID = s.LeaseID
	m.Email = s.Email
	m.FirstName = s.FirstName
	m.LastName = s.LastName
	m.Phone = s.Phone
	m.PropertyName = s.PropertyName
	m.Status = string(s.Status)
	m.ConfigSnapshot = datatypes.NewJSONType(s.Config)
	m.CurrentStep = string(s.CurrentStep)
	m.StepsCompleted = datatypes.NewJSONType(s.StepsCompleted)
	m.AccessToken = s.AccessToken
	m.TokenExpiresAt = s.TokenExpiresAt
	m.OTPHash = s.OTPHash
	m.OTPExpiresAt = s.OTPExpiresAt
	m.InvitedAt = s.InvitedAt
	m.StartedAt = s.StartedAt
	m.CompletedAt = s.CompletedAt
}

// OnboardingSessionModelFromDomain creates a new persistence model from a domain Session
func OnboardingSessionModelFromDomain(s *onboarding.Session) *OnboardingSessionModel {
	m := &OnboardingSessionModel{}
	m.FromDomain(s)
	return m
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
