package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/propertyhub/backend/internal/domain/leasing"
	"github.com/shopspring/decimal"
)

// LeaseModel is the persistence model for leases
type LeaseModel struct {
	AggregateModel
	TenantID        uuid.UUID       `gorm:"type:uuid;not null;index"`
	UnitLabel       string          `gorm:"type:varchar(50);not null"`
	Status          string          `gorm:"type:varchar(20);not null;default:'draft'"`
	StartDate       time.Time       `gorm:"type:date;not null"`
	EndDate         time.Time       `gorm:"type:date;not null"`
	MonthlyRent     decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	SecurityDeposit decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
}

// TableName returns the table name for GORM
func (LeaseModel) TableName() string {
	return "leases"
}

// ToDomain converts the persistence model to a domain Lease
func (m *LeaseModel) ToDomain() *leasing.Lease {
	return &leasing.Lease{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		TenantID:          m.TenantID,
		UnitLabel:         m.UnitLabel,
		Status:            leasing.LeaseStatus(m.Status),
		StartDate:         m.StartDate,
		EndDate:           m.EndDate,
		MonthlyRent:       m.MonthlyRent,
		SecurityDeposit:   m.SecurityDeposit,
	}
}

// FromDomain populates the persistence model from a domain Lease
func (m *LeaseModel) FromDomain(l *leasing.Lease) {
	m.FromDomainAggregateRoot(l.BaseAggregateRoot)
	m.TenantID = l.TenantID
	m.UnitLabel = l.UnitLabel
	m.Status = string(l.Status)
	m.StartDate = l.StartDate
	m.EndDate = l.EndDate
	m.MonthlyRent = l.MonthlyRent
	m.SecurityDeposit = l.SecurityDeposit
}

// PaymentModel is a payment received from a tenant
type PaymentModel struct {
	ID        uuid.UUID       `gorm:"type:uuid;primary_key"`
	TenantID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	LeaseID   *uuid.UUID      `gorm:"type:uuid;index"`
	Amount    decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Status    string          `gorm:"type:varchar(20);not null;default:'pending'"`
	PaidAt    *time.Time
	CreatedAt time.Time `gorm:"not null"`
}

func (PaymentModel) TableName() string { return "payments" }

// InvoiceModel is a bill issued to a tenant. TenantID is nullable so settled
// invoices outlive the tenant.
type InvoiceModel struct {
	ID        uuid.UUID       `gorm:"type:uuid;primary_key"`
	TenantID  *uuid.UUID      `gorm:"type:uuid;index"`
	LeaseID   *uuid.UUID      `gorm:"type:uuid;index"`
	Number    string          `gorm:"type:varchar(30);not null;uniqueIndex"`
	Status    string          `gorm:"type:varchar(20);not null;default:'draft';index"`
	AmountDue decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	DueDate   time.Time       `gorm:"type:date;not null"`
	CreatedAt time.Time       `gorm:"not null"`
}

func (InvoiceModel) TableName() string { return "invoices" }

// ToDomain converts the persistence model to a domain Invoice
func (m *InvoiceModel) ToDomain() *leasing.Invoice {
	return &leasing.Invoice{
		ID:        m.ID,
		TenantID:  m.TenantID,
		LeaseID:   m.LeaseID,
		Number:    m.Number,
		Status:    leasing.InvoiceStatus(m.Status),
		AmountDue: m.AmountDue,
		DueDate:   m.DueDate,
		CreatedAt: m.CreatedAt,
	}
}

// FromDomain populates the persistence model from a domain Invoice
func (m *InvoiceModel) FromDomain(inv *leasing.Invoice) {
	m.ID = inv.ID
	m.TenantID = inv.TenantID
	m.LeaseID = inv.LeaseID
	m.Number = inv.Number
	m.Status = string(inv.Status)
	m.AmountDue = inv.AmountDue
	m.DueDate = inv.DueDate
	m.CreatedAt = inv.CreatedAt
}
