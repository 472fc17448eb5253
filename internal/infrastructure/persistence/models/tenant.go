package models

import (
	"github.com/propertyhub/backend/internal/domain/renter"
)

// TenantModel is the persistence model for resident accounts
type TenantModel struct {
	AggregateModel
	Email            string `gorm:"type:varchar(254);not null;uniqueIndex"`
	FirstName        string `gorm:"type:varchar(150)"`
	LastName         string `gorm:"type:varchar(150)"`
	Phone            string `gorm:"type:varchar(20)"`
	Role             string `gorm:"type:varchar(20);not null;default:'tenant';index"`
	PreferredContact string `gorm:"type:varchar(10);not null;default:'email'"`
	IsActive         bool   `gorm:"not null;default:true;index"`
}

// TableName returns the table name for GORM
func (TenantModel) TableName() string {
	return "users"
}

// ToDomain converts the persistence model to a domain Tenant
func (m *TenantModel) ToDomain() *renter.Tenant {
	return &renter.Tenant{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		Email:             m.Email,
		FirstName:         m.FirstName,
		LastName:          m.LastName,
		Phone:             m.Phone,
		Role:              renter.Role(m.Role),
		PreferredContact:  renter.ContactMethod(m.PreferredContact),
		IsActive:          m.IsActive,
	}
}

// FromDomain populates the persistence model from a domain Tenant
func (m *TenantModel) FromDomain(t *renter.Tenant) {
	m.FromDomainAggregateRoot(t.BaseAggregateRoot)
	m.Email = t.Email
	m.FirstName = t.FirstName
	m.LastName = t.LastName
	m.Phone = t.Phone
	m.Role = string(t.Role)
	m.PreferredContact = string(t.PreferredContact)
	m.IsActive = t.IsActive
}

// TenantModelFromDomain creates a new persistence model from a domain Tenant
func TenantModelFromDomain(t *renter.Tenant) *TenantModel {
	m := &TenantModel{}
	m.FromDomain(t)
	return m
}
