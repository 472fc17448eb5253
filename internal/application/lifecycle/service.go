// Package lifecycle implements the tenant lifecycle use cases: the delete
// check, deletion, archiving and restoring.
package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/propertyhub/backend/internal/domain/lifecycle"
	"github.com/propertyhub/backend/internal/domain/renter"
	"github.com/propertyhub/backend/internal/domain/shared"
	"github.com/propertyhub/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

const spanService = "tenant_lifecycle"

// AuditRecorder receives the report of every committed deletion.
type AuditRecorder interface {
	Record(ctx context.Context, report *lifecycle.DeletionReport) error
}

// Service runs tenant lifecycle operations against a relation store.
type Service struct {
	store    lifecycle.RelationStore
	tenants  renter.TenantRepository
	policy   lifecycle.DeletionPolicy
	auditors []AuditRecorder
	metrics  *telemetry.LifecycleMetrics
	logger   *zap.Logger
	now      func() time.Time
}

// Option configures a Service
type Option func(*Service)

// WithPolicy replaces the default deletion policy
func WithPolicy(policy lifecycle.DeletionPolicy) Option {
	return func(s *Service) { s.policy = policy }
}

// WithAuditRecorders adds collaborators notified after each deletion
func WithAuditRecorders(recorders ...AuditRecorder) Option {
	return func(s *Service) { s.auditors = append(s.auditors, recorders...) }
}

// WithMetrics enables lifecycle counters
func WithMetrics(m *telemetry.LifecycleMetrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithClock overrides the time source
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService creates a new lifecycle Service
func NewService(store lifecycle.RelationStore, tenants renter.TenantRepository, logger *zap.Logger, opts ...Option) *Service {
	s := &Service{
		store:   store,
		tenants: tenants,
		policy:  lifecycle.DefaultDeletionPolicy(),
		logger:  logger,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CanDeleteTenant reports whether no protective relation is left. It stops
// at the first blocker found.
func (s *Service) CanDeleteTenant(ctx context.Context, id uuid.UUID) (bool, error) {
	if _, err := s.tenants.FindByID(ctx, id); err != nil {
		return false, err
	}

	leases, err := s.store.CountLeases(ctx, id)
	if err != nil {
		return false, fmt.Errorf("count leases: %w", err)
	}
	if leases > 0 {
		return false, nil
	}
	payments, err := s.store.CountPayments(ctx, id)
	if err != nil {
		return false, fmt.Errorf("count payments: %w", err)
	}
	if payments > 0 {
		return false, nil
	}
	invoices, err := s.store.CountInvoices(ctx, id, s.policy.BlockingInvoiceStatuses)
	if err != nil {
		return false, fmt.Errorf("count invoices: %w", err)
	}
	return invoices == 0, nil
}

// GetDeleteBlockers lists every reason the tenant cannot be deleted yet
func (s *Service) GetDeleteBlockers(ctx context.Context, id uuid.UUID) ([]string, error) {
	if _, err := s.tenants.FindByID(ctx, id); err != nil {
		return nil, err
	}
	blockers, err := s.blockers(ctx, s.store, id)
	if err != nil {
		return nil, err
	}
	return lifecycle.BlockerStrings(blockers), nil
}

// GetDeleteSummary counts what a deletion would take with it
func (s *Service) GetDeleteSummary(ctx context.Context, id uuid.UUID) (lifecycle.Summary, error) {
	if _, err := s.tenants.FindByID(ctx, id); err != nil {
		return nil, err
	}
	return s.summary(ctx, s.store, id)
}

// CheckDeletion combines the blockers and the summary for one tenant
func (s *Service) CheckDeletion(ctx context.Context, id uuid.UUID) (*DeletionCheckResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, spanService, "check_deletion",
		telemetry.AttrTenantID.String(id.String()))
	defer span.End()

	if _, err := s.tenants.FindByID(ctx, id); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	blockers, err := s.blockers(ctx, s.store, id)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	summary, err := s.summary(ctx, s.store, id)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	span.SetAttributes(telemetry.AttrBlockers.Int(len(blockers)))

	return &DeletionCheckResponse{
		TenantID:  id,
		CanDelete: len(blockers) == 0,
		Blockers:  lifecycle.BlockerStrings(blockers),
		Summary:   summary,
	}, nil
}

// DeleteTenant permanently removes a tenant inside one transaction. The
// blockers are checked again under the tenant row lock, and a foreign key
// rejection from the store surfaces as ErrIntegrityViolation.
func (s *Service) DeleteTenant(ctx context.Context, id uuid.UUID, performedBy *uuid.UUID) (report *lifecycle.DeletionReport, err error) {
	started := s.now()
	ctx, span := telemetry.StartServiceSpan(ctx, spanService, "delete",
		telemetry.AttrTenantID.String(id.String()))
	defer func() {
		telemetry.RecordError(span, err)
		s.metrics.ObserveOperation(ctx, "delete", started, err)
		span.End()
	}()

	err = s.store.Atomically(ctx, func(store lifecycle.RelationStore) error {
		tenant, err := store.LockTenant(ctx, id)
		if err != nil {
			return err
		}

		blockers, err := s.blockers(ctx, store, id)
		if err != nil {
			return err
		}
		if len(blockers) > 0 {
			return shared.ErrDeleteBlocked.WithDetails(lifecycle.BlockerStrings(blockers)...)
		}

		summary, err := s.summary(ctx, store, id)
		if err != nil {
			return err
		}
		detached, err := store.DetachReceivedDocuments(ctx, id)
		if err != nil {
			return fmt.Errorf("detach received documents: %w", err)
		}
		name := tenant.DisplayName()

		if err := store.DeleteTenant(ctx, id); err != nil {
			return err
		}

		report = &lifecycle.DeletionReport{
			TenantID:          id,
			Name:              name,
			DeletedItems:      summary,
			DetachedDocuments: detached,
			DetachedSessions:  summary[lifecycle.CategoryOnboardingSessions],
			PerformedBy:       performedBy,
			DeletedAt:         s.now().UTC(),
		}
		return nil
	})
	if err != nil {
		switch {
		case errors.Is(err, shared.ErrDeleteBlocked):
			s.metrics.DeleteBlocked(ctx)
			s.logger.Info("Tenant deletion blocked",
				zap.String("tenant_id", id.String()),
				zap.Error(err),
			)
		case errors.Is(err, shared.ErrIntegrityViolation):
			s.logger.Warn("Tenant deletion rejected by store constraint",
				zap.String("tenant_id", id.String()),
				zap.Error(err),
			)
		}
		return nil, err
	}

	span.SetAttributes(telemetry.AttrDeleted.Int64(report.Removed()))
	s.metrics.TenantDeleted(ctx, report.Removed())
	s.recordAudit(ctx, report)

	s.logger.Info("Tenant deleted",
		zap.String("tenant_id", id.String()),
		zap.String("name", report.Name),
		zap.Int64("deleted_records", report.Removed()),
		zap.Int64("detached_documents", report.DetachedDocuments),
		zap.Int64("detached_sessions", report.DetachedSessions),
	)
	return report, nil
}

// recordAudit runs after commit; a failing recorder never undoes a deletion.
func (s *Service) recordAudit(ctx context.Context, report *lifecycle.DeletionReport) {
	for _, recorder := range s.auditors {
		if err := recorder.Record(ctx, report); err != nil {
			s.logger.Error("Failed to record tenant deletion audit",
				zap.String("tenant_id", report.TenantID.String()),
				zap.String("recorder", fmt.Sprintf("%T", recorder)),
				zap.Error(err),
			)
		}
	}
}

// ArchiveTenant deactivates the tenant. Archiving an archived tenant succeeds.
func (s *Service) ArchiveTenant(ctx context.Context, id uuid.UUID) (*TenantResponse, error) {
	return s.setActive(ctx, id, false)
}

// RestoreTenant reactivates the tenant. Restoring an active tenant succeeds.
func (s *Service) RestoreTenant(ctx context.Context, id uuid.UUID) (*TenantResponse, error) {
	return s.setActive(ctx, id, true)
}

func (s *Service) setActive(ctx context.Context, id uuid.UUID, active bool) (resp *TenantResponse, err error) {
	op := "archive"
	if active {
		op = "restore"
	}
	started := s.now()
	ctx, span := telemetry.StartServiceSpan(ctx, spanService, op,
		telemetry.AttrTenantID.String(id.String()))
	defer func() {
		telemetry.RecordError(span, err)
		s.metrics.ObserveOperation(ctx, op, started, err)
		span.End()
	}()

	tenant, err := s.tenants.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	var changed bool
	if active {
		changed = tenant.Restore()
	} else {
		changed = tenant.Archive()
	}
	if changed {
		if err := s.tenants.SetActive(ctx, id, active); err != nil {
			return nil, err
		}
		if active {
			s.metrics.TenantRestored(ctx)
		} else {
			s.metrics.TenantArchived(ctx)
		}
		s.logger.Info("Tenant lifecycle state changed",
			zap.String("tenant_id", id.String()),
			zap.String("state", string(tenant.State())),
		)
	}

	out := ToTenantResponse(tenant)
	return &out, nil
}

// GetTenant returns one tenant, archived or not
func (s *Service) GetTenant(ctx context.Context, id uuid.UUID) (*TenantResponse, error) {
	tenant, err := s.tenants.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	out := ToTenantResponse(tenant)
	return &out, nil
}

// ListTenants pages through tenants. Archived tenants only show up when
// the query asks for them.
func (s *Service) ListTenants(ctx context.Context, q TenantListQuery) (shared.Paginated[TenantResponse], error) {
	filter := renter.ListFilter{Filter: shared.DefaultFilter(), IncludeArchived: q.IncludeArchived}
	filter.Search = q.Search
	if q.Page > 0 {
		filter.Page = q.Page
	}
	if q.PageSize > 0 {
		filter.PageSize = q.PageSize
	}
	if q.OrderBy != "" {
		filter.OrderBy = q.OrderBy
	}
	if q.OrderDir != "" {
		filter.OrderDir = q.OrderDir
	}

	filter.Filter = filter.Filter.Normalized()

	tenants, total, err := s.tenants.FindAll(ctx, filter)
	if err != nil {
		return shared.Paginated[TenantResponse]{}, err
	}
	items := make([]TenantResponse, len(tenants))
	for i := range tenants {
		items[i] = ToTenantResponse(&tenants[i])
	}
	return shared.NewPaginated(items, total, filter.Page, filter.PageSize), nil
}

func (s *Service) blockers(ctx context.Context, store lifecycle.RelationStore, id uuid.UUID) ([]lifecycle.Blocker, error) {
	var counts lifecycle.Counts
	var err error
	if counts.Leases, err = store.CountLeases(ctx, id); err != nil {
		return nil, fmt.Errorf("count leases: %w", err)
	}
	if counts.Payments, err = store.CountPayments(ctx, id); err != nil {
		return nil, fmt.Errorf("count payments: %w", err)
	}
	if counts.UnpaidInvoices, err = store.CountInvoices(ctx, id, s.policy.BlockingInvoiceStatuses); err != nil {
		return nil, fmt.Errorf("count invoices: %w", err)
	}
	return counts.Blockers(), nil
}

func (s *Service) summary(ctx context.Context, store lifecycle.RelationStore, id uuid.UUID) (lifecycle.Summary, error) {
	summary := lifecycle.Summary{}
	for _, category := range lifecycle.SummaryCategories() {
		if !store.Supports(category) {
			continue
		}
		n, err := store.CountRelated(ctx, id, category)
		if err != nil {
			return nil, fmt.Errorf("count %s: %w", category, err)
		}
		summary.Set(category, n)
	}
	return summary, nil
}

