package lifecycle

import (
	"testing"

	"github.com/propertyhub/backend/internal/domain/leasing"
	"github.com/stretchr/testify/assert"
)

func TestBlocker_String(t *testing.T) {
	tests := []struct {
		blocker  Blocker
		expected string
	}{
		{Blocker{BlockerLeases, 1}, "1 lease linked"},
		{Blocker{BlockerLeases, 2}, "2 leases linked"},
		{Blocker{BlockerPayments, 1}, "1 payment record"},
		{Blocker{BlockerPayments, 3}, "3 payment records"},
		{Blocker{BlockerUnpaidInvoices, 1}, "1 unpaid invoice"},
		{Blocker{BlockerUnpaidInvoices, 12}, "12 unpaid invoices"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.blocker.String())
		})
	}
}

func TestCounts_Blockers(t *testing.T) {
	t.Run("no blockers", func(t *testing.T) {
		assert.Empty(t, Counts{}.Blockers())
	})

	t.Run("skips zero counts and keeps order", func(t *testing.T) {
		blockers := Counts{Leases: 2, Payments: 0, UnpaidInvoices: 1}.Blockers()
		assert.Equal(t, []string{"2 leases linked", "1 unpaid invoice"}, BlockerStrings(blockers))
	})

	t.Run("all three", func(t *testing.T) {
		blockers := Counts{Leases: 1, Payments: 4, UnpaidInvoices: 2}.Blockers()
		assert.Equal(t, []string{"1 lease linked", "4 payment records", "2 unpaid invoices"}, BlockerStrings(blockers))
	})
}

func TestDefaultDeletionPolicy(t *testing.T) {
	policy := DefaultDeletionPolicy()
	assert.ElementsMatch(t, leasing.UnpaidInvoiceStatuses(), policy.BlockingInvoiceStatuses)
}
