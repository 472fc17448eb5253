package lifecycle

import (
	"fmt"

	"github.com/propertyhub/backend/internal/domain/leasing"
)

// BlockerKind identifies a protective relation that prevents deletion
type BlockerKind string

const (
	BlockerLeases         BlockerKind = "leases"
	BlockerPayments       BlockerKind = "payments"
	BlockerUnpaidInvoices BlockerKind = "unpaid_invoices"
)

// Blocker is one reason a tenant cannot be deleted
type Blocker struct {
	Kind  BlockerKind
	Count int64
}

// String renders the blocker for an operator, e.g. "2 leases linked"
func (b Blocker) String() string {
	switch b.Kind {
	case BlockerLeases:
		return fmt.Sprintf("%d %s linked", b.Count, plural(b.Count, "lease", "leases"))
	case BlockerPayments:
		return fmt.Sprintf("%d %s", b.Count, plural(b.Count, "payment record", "payment records"))
	case BlockerUnpaidInvoices:
		return fmt.Sprintf("%d %s", b.Count, plural(b.Count, "unpaid invoice", "unpaid invoices"))
	default:
		return fmt.Sprintf("%d %s", b.Count, b.Kind)
	}
}

func plural(n int64, singular, pluralForm string) string {
	if n == 1 {
		return singular
	}
	return pluralForm
}

// BlockerStrings renders blockers in order
func BlockerStrings(blockers []Blocker) []string {
	out := make([]string, 0, len(blockers))
	for _, b := range blockers {
		out = append(out, b.String())
	}
	return out
}

// DeletionPolicy holds the rules used to decide whether a tenant is deletable.
type DeletionPolicy struct {
	// BlockingInvoiceStatuses are invoice statuses that still carry a balance.
	BlockingInvoiceStatuses []leasing.InvoiceStatus
}

// DefaultDeletionPolicy blocks on pending, issued, overdue and partial invoices
func DefaultDeletionPolicy() DeletionPolicy {
	return DeletionPolicy{
		BlockingInvoiceStatuses: leasing.UnpaidInvoiceStatuses(),
	}
}

// Counts are the protective relation counts for one tenant
type Counts struct {
	Leases         int64
	Payments       int64
	UnpaidInvoices int64
}

// Blockers lists every non-zero protective relation in the fixed order
// leases, payments, unpaid invoices.
func (c Counts) Blockers() []Blocker {
	blockers := make([]Blocker, 0, 3)
	if c.Leases > 0 {
		blockers = append(blockers, Blocker{Kind: BlockerLeases, Count: c.Leases})
	}
	if c.Payments > 0 {
		blockers = append(blockers, Blocker{Kind: BlockerPayments, Count: c.Payments})
	}
	if c.UnpaidInvoices > 0 {
		blockers = append(blockers, Blocker{Kind: BlockerUnpaidInvoices, Count: c.UnpaidInvoices})
	}
	return blockers
}
