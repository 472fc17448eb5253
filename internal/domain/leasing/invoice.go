package leasing

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/propertyhub/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// InvoiceStatus represents the status of an invoice
type InvoiceStatus string

const (
	InvoiceStatusDraft     InvoiceStatus = "draft"
	InvoiceStatusPending   InvoiceStatus = "pending"
	InvoiceStatusIssued    InvoiceStatus = "issued"
	InvoiceStatusPartial   InvoiceStatus = "partial"
	InvoiceStatusOverdue   InvoiceStatus = "overdue"
	InvoiceStatusPaid      InvoiceStatus = "paid"
	InvoiceStatusVoid      InvoiceStatus = "void"
	InvoiceStatusCancelled InvoiceStatus = "cancelled"
)

// UnpaidInvoiceStatuses are the statuses that still carry an open balance
func UnpaidInvoiceStatuses() []InvoiceStatus {
	return []InvoiceStatus{
		InvoiceStatusPending,
		InvoiceStatusIssued,
		InvoiceStatusOverdue,
		InvoiceStatusPartial,
	}
}

// IsValid checks if the status is known
func (s InvoiceStatus) IsValid() bool {
	switch s {
	case InvoiceStatusDraft, InvoiceStatusPending, InvoiceStatusIssued, InvoiceStatusPartial,
		InvoiceStatusOverdue, InvoiceStatusPaid, InvoiceStatusVoid, InvoiceStatusCancelled:
		return true
	}
	return false
}

// PaymentStatus represents the status of a payment
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusFailed    PaymentStatus = "failed"
	PaymentStatusRefunded  PaymentStatus = "refunded"
)

// Invoice is a bill issued to a tenant
type Invoice struct {
	ID        uuid.UUID
	TenantID  *uuid.UUID
	LeaseID   *uuid.UUID
	Number    string
	Status    InvoiceStatus
	AmountDue decimal.Decimal
	DueDate   time.Time
	CreatedAt time.Time
}

// NewInvoice issues an invoice against a lease
func NewInvoice(lease *Lease, number string, amount decimal.Decimal, due, now time.Time) (*Invoice, error) {
	if strings.TrimSpace(number) == "" {
		return nil, shared.NewDomainError("INVALID_INVOICE_NUMBER", "Invoice number cannot be empty")
	}
	if !amount.IsPositive() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Invoice amount must be positive")
	}
	tenantID, leaseID := lease.TenantID, lease.ID
	return &Invoice{
		ID:        uuid.New(),
		TenantID:  &tenantID,
		LeaseID:   &leaseID,
		Number:    number,
		Status:    InvoiceStatusIssued,
		AmountDue: amount.Round(2),
		DueDate:   due,
		CreatedAt: now,
	}, nil
}

// MoveInInvoiceNumber is the number of the invoice billing a session's
// move-in fees. It depends only on the session, so a session is billed once.
func MoveInInvoiceNumber(sessionID uuid.UUID) string {
	return "INV-MI-" + strings.ToUpper(strings.ReplaceAll(sessionID.String(), "-", "")[:12])
}
