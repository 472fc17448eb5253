package leasing

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLease(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	t.Run("creates draft lease", func(t *testing.T) {
		lease, err := NewLease(uuid.New(), "4B", start, start.AddDate(1, 0, 0),
			decimal.NewFromInt(1500), decimal.NewFromInt(1500))
		require.NoError(t, err)
		assert.Equal(t, LeaseStatusDraft, lease.Status)
	})

	t.Run("rejects inverted term", func(t *testing.T) {
		_, err := NewLease(uuid.New(), "4B", start, start, decimal.NewFromInt(1), decimal.Zero)
		assert.Error(t, err)
	})

	t.Run("rejects missing tenant", func(t *testing.T) {
		_, err := NewLease(uuid.Nil, "4B", start, start.AddDate(1, 0, 0), decimal.Zero, decimal.Zero)
		assert.Error(t, err)
	})
}

func TestLease_FieldValue(t *testing.T) {
	lease := &Lease{MonthlyRent: decimal.RequireFromString("1250.00"), SecurityDeposit: decimal.RequireFromString("900")}

	v, ok := lease.FieldValue(FieldMonthlyRent)
	assert.True(t, ok)
	assert.True(t, v.Equal(decimal.RequireFromString("1250")))

	v, ok = lease.FieldValue(FieldSecurityDeposit)
	assert.True(t, ok)
	assert.True(t, v.Equal(decimal.NewFromInt(900)))

	_, ok = lease.FieldValue("pet_rent")
	assert.False(t, ok)
}

func TestUnpaidInvoiceStatuses(t *testing.T) {
	assert.ElementsMatch(t,
		[]InvoiceStatus{InvoiceStatusPending, InvoiceStatusIssued, InvoiceStatusOverdue, InvoiceStatusPartial},
		UnpaidInvoiceStatuses())
	assert.NotContains(t, UnpaidInvoiceStatuses(), InvoiceStatusPaid)
	assert.NotContains(t, UnpaidInvoiceStatuses(), InvoiceStatusVoid)
	assert.True(t, InvoiceStatusVoid.IsValid())
	assert.False(t, InvoiceStatus("refunded").IsValid())
}

func TestNewInvoice(t *testing.T) {
	start := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	lease, err := NewLease(uuid.New(), "4B", start, start.AddDate(1, 0, 0), decimal.NewFromInt(1200), decimal.Zero)
	require.NoError(t, err)

	inv, err := NewInvoice(lease, "INV-1", decimal.RequireFromString("10.005"), start, start)
	require.NoError(t, err)
	assert.Equal(t, InvoiceStatusIssued, inv.Status)
	assert.Equal(t, lease.TenantID, *inv.TenantID)
	assert.Equal(t, lease.ID, *inv.LeaseID)
	assert.Equal(t, "10.01", inv.AmountDue.StringFixed(2))

	_, err = NewInvoice(lease, "INV-2", decimal.Zero, start, start)
	assert.Error(t, err)
	_, err = NewInvoice(lease, " ", decimal.NewFromInt(1), start, start)
	assert.Error(t, err)
}

func TestMoveInInvoiceNumber(t *testing.T) {
	id := uuid.MustParse("0b3f6c2a-91de-4c55-8a7e-1f2d3c4b5a69")
	assert.Equal(t, "INV-MI-0B3F6C2A91DE", MoveInInvoiceNumber(id))
	assert.LessOrEqual(t, len(MoveInInvoiceNumber(id)), 30)
}
