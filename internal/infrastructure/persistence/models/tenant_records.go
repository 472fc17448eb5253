package models

import (
	"time"

	"github.com/google/uuid"
)

// TenantProfileModel holds the optional one-per-tenant profile
type TenantProfileModel struct {
	RecordModel
	DateOfBirth       *time.Time `gorm:"type:date"`
	CurrentAddress    string     `gorm:"type:text"`
	MoveInDate        *time.Time `gorm:"type:date"`
	NumberOfOccupants int        `gorm:"not null;default:1"`
}

func (TenantProfileModel) TableName() string { return "tenant_profiles" }

type EmergencyContactModel struct {
	RecordModel
	Name         string `gorm:"type:varchar(200);not null"`
	Relationship string `gorm:"type:varchar(50)"`
	Phone        string `gorm:"type:varchar(20)"`
}

func (EmergencyContactModel) TableName() string { return "tenant_emergency_contacts" }

type VehicleModel struct {
	RecordModel
	Make         string `gorm:"type:varchar(50)"`
	Model        string `gorm:"type:varchar(50)"`
	LicensePlate string `gorm:"type:varchar(20)"`
}

func (VehicleModel) TableName() string { return "tenant_vehicles" }

type EmploymentModel struct {
	RecordModel
	Employer  string `gorm:"type:varchar(200)"`
	JobTitle  string `gorm:"type:varchar(100)"`
	IsCurrent bool   `gorm:"not null;default:true"`
}

func (EmploymentModel) TableName() string { return "tenant_employment" }

type InsurancePolicyModel struct {
	RecordModel
	Provider     string     `gorm:"type:varchar(200)"`
	PolicyNumber string     `gorm:"type:varchar(100)"`
	ExpiresOn    *time.Time `gorm:"type:date"`
}

func (InsurancePolicyModel) TableName() string { return "tenant_insurance" }

type IDVerificationModel struct {
	RecordModel
	DocumentType string `gorm:"type:varchar(30)"`
	Status       string `gorm:"type:varchar(20);not null;default:'pending'"`
}

func (IDVerificationModel) TableName() string { return "tenant_id_verifications" }

type OTPTokenModel struct {
	RecordModel
	CodeHash  string    `gorm:"type:varchar(100);not null"`
	ExpiresAt time.Time `gorm:"not null"`
	Used      bool      `gorm:"not null;default:false"`
}

func (OTPTokenModel) TableName() string { return "otp_tokens" }

type NotificationModel struct {
	RecordModel
	Title  string `gorm:"type:varchar(200);not null"`
	Body   string `gorm:"type:text"`
	IsRead bool   `gorm:"not null;default:false"`
}

func (NotificationModel) TableName() string { return "notifications" }

// EDocumentModel is a document sent to a tenant. The tenant reference is
// nulled, not cascaded, when the tenant is deleted.
type EDocumentModel struct {
	ID        uuid.UUID  `gorm:"type:uuid;primary_key"`
	TenantID  *uuid.UUID `gorm:"type:uuid;index"`
	Title     string     `gorm:"type:varchar(200);not null"`
	Status    string     `gorm:"type:varchar(20);not null;default:'sent'"`
	CreatedAt time.Time  `gorm:"not null"`
}

func (EDocumentModel) TableName() string { return "edocuments" }

type WorkOrderModel struct {
	ID           uuid.UUID  `gorm:"type:uuid;primary_key"`
	ReportedByID *uuid.UUID `gorm:"type:uuid;index"`
	Title        string     `gorm:"type:varchar(200);not null"`
	CreatedAt    time.Time  `gorm:"not null"`
}

func (WorkOrderModel) TableName() string { return "work_orders" }

type MessageModel struct {
	ID        uuid.UUID  `gorm:"type:uuid;primary_key"`
	SenderID  *uuid.UUID `gorm:"type:uuid;index"`
	Body      string     `gorm:"type:text;not null"`
	CreatedAt time.Time  `gorm:"not null"`
}

func (MessageModel) TableName() string { return "messages" }
