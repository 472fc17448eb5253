package onboarding

import (
	"github.com/propertyhub/backend/internal/domain/leasing"
	"github.com/propertyhub/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// FeeType classifies a move-in charge
type FeeType string

const (
	FeeSecurityDeposit FeeType = "security_deposit"
	FeeFirstMonth      FeeType = "first_month"
	FeeLastMonth       FeeType = "last_month"
	FeePetDeposit      FeeType = "pet_deposit"
	FeePetFee          FeeType = "pet_fee"
	FeeAdminFee        FeeType = "admin_fee"
	FeeApplicationFee  FeeType = "application_fee"
	FeeKeyDeposit      FeeType = "key_deposit"
	FeeParkingFee      FeeType = "parking_fee"
	FeeOther           FeeType = "other"
)

// IsValid checks if the fee type is known
func (t FeeType) IsValid() bool {
	switch t {
	case FeeSecurityDeposit, FeeFirstMonth, FeeLastMonth, FeePetDeposit, FeePetFee,
		FeeAdminFee, FeeApplicationFee, FeeKeyDeposit, FeeParkingFee, FeeOther:
		return true
	}
	return false
}

// LeaseValues exposes named amounts of a lease
type LeaseValues interface {
	FieldValue(field string) (decimal.Decimal, bool)
}

// FeeSpec describes a fee charged during onboarding
type FeeSpec struct {
	FeeType       FeeType          `json:"fee_type"`
	Name          string           `json:"name"`
	Description   string           `json:"description,omitempty"`
	Amount        *decimal.Decimal `json:"amount,omitempty"`
	UseLeaseValue bool             `json:"use_lease_value,omitempty"`
	LeaseField    string           `json:"lease_field,omitempty"`
	IsRequired    bool             `json:"is_required"`
	IsRefundable  bool             `json:"is_refundable"`
	Order         int              `json:"order,omitempty"`
}

// FixedFee builds a fee with a fixed amount
func FixedFee(feeType FeeType, name string, amount decimal.Decimal, required, refundable bool) FeeSpec {
	return FeeSpec{
		FeeType:      feeType,
		Name:         name,
		Amount:       &amount,
		IsRequired:   required,
		IsRefundable: refundable,
	}
}

// LeaseFee builds a fee whose amount comes from a lease field
func LeaseFee(feeType FeeType, name, field string, refundable bool) FeeSpec {
	return FeeSpec{
		FeeType:       feeType,
		Name:          name,
		UseLeaseValue: true,
		LeaseField:    field,
		IsRequired:    true,
		IsRefundable:  refundable,
	}
}

// Validate checks the fee definition
func (f FeeSpec) Validate() error {
	if !f.FeeType.IsValid() {
		return shared.NewDomainError("INVALID_FEE_TYPE", "Unknown fee type: "+string(f.FeeType))
	}
	if f.Name == "" {
		return shared.NewDomainError("INVALID_FEE", "Fee name cannot be empty")
	}
	if len(f.Name) > 100 {
		return shared.NewDomainError("INVALID_FEE", "Fee name cannot exceed 100 characters")
	}
	if f.UseLeaseValue {
		if !leasing.IsLeaseField(f.LeaseField) {
			return shared.NewDomainError("INVALID_FEE", "Fee "+f.Name+" references an unknown lease field")
		}
		return nil
	}
	if f.Amount == nil {
		return shared.NewDomainError("INVALID_FEE", "Fee "+f.Name+" needs an amount or a lease field")
	}
	if f.Amount.IsNegative() {
		return shared.NewDomainError("INVALID_FEE", "Fee "+f.Name+" cannot be negative")
	}
	return nil
}

// AmountFor resolves the fee amount. A lease-derived fee falls back to its
// fixed amount when no lease is given, and to zero when neither is set.
func (f FeeSpec) AmountFor(lease LeaseValues) decimal.Decimal {
	if f.UseLeaseValue && lease != nil {
		if v, ok := lease.FieldValue(f.LeaseField); ok {
			return v
		}
	}
	if f.Amount != nil {
		return *f.Amount
	}
	return decimal.Zero
}

// FeeLine is a fee resolved to an amount for one session
type FeeLine struct {
	FeeType      FeeType         `json:"fee_type"`
	Name         string          `json:"name"`
	Description  string          `json:"description,omitempty"`
	Amount       decimal.Decimal `json:"amount"`
	IsRequired   bool            `json:"is_required"`
	IsRefundable bool            `json:"is_refundable"`
}

// ResolveFees turns fee specs into fee lines, dropping fees that resolve to zero
func ResolveFees(fees []FeeSpec, lease LeaseValues) []FeeLine {
	lines := make([]FeeLine, 0, len(fees))
	for _, fee := range fees {
		amount := fee.AmountFor(lease)
		if !amount.IsPositive() {
			continue
		}
		lines = append(lines, FeeLine{
			FeeType:      fee.FeeType,
			Name:         fee.Name,
			Description:  fee.Description,
			Amount:       amount,
			IsRequired:   fee.IsRequired,
			IsRefundable: fee.IsRefundable,
		})
	}
	return lines
}

// TotalFees sums the amounts of the given lines
func TotalFees(lines []FeeLine) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.Amount)
	}
	return total
}
