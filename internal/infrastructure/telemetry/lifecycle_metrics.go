package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/metric"
)

// LifecycleMetrics counts tenant lifecycle and onboarding outcomes.
// A nil *LifecycleMetrics records nothing.
type LifecycleMetrics struct {
	tenantsDeleted   *Counter
	deletesBlocked   *Counter
	tenantsArchived  *Counter
	tenantsRestored  *Counter
	recordsRemoved   *Counter
	sessionsExpired  *Counter
	presetsSeeded    *Counter
	sessionsComplete *Counter
	opDuration       *Histogram
}

// NewLifecycleMetrics registers the lifecycle instruments on meter
func NewLifecycleMetrics(meter metric.Meter) (*LifecycleMetrics, error) {
	m := &LifecycleMetrics{}
	counters := []struct {
		dst  **Counter
		name string
		desc string
	}{
		{&m.tenantsDeleted, "tenant_deleted_total", "Tenants permanently deleted"},
		{&m.deletesBlocked, "tenant_delete_blocked_total", "Delete requests refused because of blockers"},
		{&m.tenantsArchived, "tenant_archived_total", "Tenants archived"},
		{&m.tenantsRestored, "tenant_restored_total", "Tenants restored from archive"},
		{&m.recordsRemoved, "tenant_related_records_deleted_total", "Dependent records removed by tenant deletion"},
		{&m.sessionsExpired, "onboarding_sessions_expired_total", "Onboarding sessions expired by the sweeper"},
		{&m.presetsSeeded, "onboarding_presets_seeded_total", "System presets inserted by seeding"},
		{&m.sessionsComplete, "onboarding_sessions_completed_total", "Onboarding sessions completed"},
	}
	for _, c := range counters {
		counter, err := NewCounter(meter, c.name, c.desc, "1")
		if err != nil {
			return nil, err
		}
		*c.dst = counter
	}

	h, err := NewHistogram(meter, HistogramOpts{
		Name:        "lifecycle_operation_duration_seconds",
		Description: "Duration of tenant lifecycle and onboarding operations",
		Unit:        "s",
		Boundaries:  DurationBuckets,
	})
	if err != nil {
		return nil, err
	}
	m.opDuration = h
	return m, nil
}

// TenantDeleted records a committed deletion and the number of dependent
// rows it removed.
func (m *LifecycleMetrics) TenantDeleted(ctx context.Context, removed int64) {
	if m == nil {
		return
	}
	m.tenantsDeleted.Inc(ctx)
	m.recordsRemoved.Add(ctx, removed)
}

func (m *LifecycleMetrics) DeleteBlocked(ctx context.Context) {
	if m == nil {
		return
	}
	m.deletesBlocked.Inc(ctx)
}

func (m *LifecycleMetrics) TenantArchived(ctx context.Context) {
	if m == nil {
		return
	}
	m.tenantsArchived.Inc(ctx)
}

func (m *LifecycleMetrics) TenantRestored(ctx context.Context) {
	if m == nil {
		return
	}
	m.tenantsRestored.Inc(ctx)
}

func (m *LifecycleMetrics) SessionsExpired(ctx context.Context, n int) {
	if m == nil {
		return
	}
	m.sessionsExpired.Add(ctx, int64(n))
}

func (m *LifecycleMetrics) SessionCompleted(ctx context.Context) {
	if m == nil {
		return
	}
	m.sessionsComplete.Inc(ctx)
}

func (m *LifecycleMetrics) PresetsSeeded(ctx context.Context, n int) {
	if m == nil {
		return
	}
	m.presetsSeeded.Add(ctx, int64(n))
}

// ObserveOperation records how long op took and whether it failed
func (m *LifecycleMetrics) ObserveOperation(ctx context.Context, op string, started time.Time, err error) {
	if m == nil {
		return
	}
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	m.opDuration.RecordSince(ctx, started, AttrOperation.String(op), AttrOutcome.String(outcome))
}
