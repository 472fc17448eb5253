// Package leasing models the financial records tied to a tenant: leases,
// invoices and payments.
package leasing

import (
	"time"

	"github.com/google/uuid"
	"github.com/propertyhub/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// LeaseStatus represents the status of a lease
type LeaseStatus string

const (
	LeaseStatusDraft      LeaseStatus = "draft"
	LeaseStatusActive     LeaseStatus = "active"
	LeaseStatusExpired    LeaseStatus = "expired"
	LeaseStatusTerminated LeaseStatus = "terminated"
	LeaseStatusRenewed    LeaseStatus = "renewed"
)

// Lease field names that fees can derive their amount from
const (
	FieldMonthlyRent     = "monthly_rent"
	FieldSecurityDeposit = "security_deposit"
)

// Lease is a rental agreement between a tenant and a unit
type Lease struct {
	shared.BaseAggregateRoot
	TenantID        uuid.UUID
	UnitLabel       string
	Status          LeaseStatus
	StartDate       time.Time
	EndDate         time.Time
	MonthlyRent     decimal.Decimal
	SecurityDeposit decimal.Decimal
}

// NewLease creates a draft lease
func NewLease(tenantID uuid.UUID, unit string, start, end time.Time, rent, deposit decimal.Decimal) (*Lease, error) {
	if tenantID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_TENANT", "Lease requires a tenant")
	}
	if !end.After(start) {
		return nil, shared.NewDomainError("INVALID_LEASE_TERM", "Lease end date must be after start date")
	}
	if rent.IsNegative() || deposit.IsNegative() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Lease amounts cannot be negative")
	}
	return &Lease{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		TenantID:          tenantID,
		UnitLabel:         unit,
		Status:            LeaseStatusDraft,
		StartDate:         start,
		EndDate:           end,
		MonthlyRent:       rent,
		SecurityDeposit:   deposit,
	}, nil
}

// FieldValue returns the amount stored under a named lease field
func (l *Lease) FieldValue(field string) (decimal.Decimal, bool) {
	switch field {
	case FieldMonthlyRent:
		return l.MonthlyRent, true
	case FieldSecurityDeposit:
		return l.SecurityDeposit, true
	default:
		return decimal.Zero, false
	}
}

// IsLeaseField reports whether the name refers to an amount field of Lease
func IsLeaseField(field string) bool {
	return field == FieldMonthlyRent || field == FieldSecurityDeposit
}
