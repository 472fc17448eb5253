package lifecycle

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/propertyhub/backend/internal/domain/leasing"
	"github.com/propertyhub/backend/internal/domain/lifecycle"
	"github.com/propertyhub/backend/internal/domain/renter"
	"github.com/propertyhub/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// MockTenantRepository is a mock implementation of renter.TenantRepository
type MockTenantRepository struct {
	mock.Mock
}

func (m *MockTenantRepository) FindByID(ctx context.Context, id uuid.UUID) (*renter.Tenant, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*renter.Tenant), args.Error(1)
}

func (m *MockTenantRepository) FindByEmail(ctx context.Context, email string) (*renter.Tenant, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*renter.Tenant), args.Error(1)
}

func (m *MockTenantRepository) FindAll(ctx context.Context, filter renter.ListFilter) ([]renter.Tenant, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]renter.Tenant), args.Get(1).(int64), args.Error(2)
}

func (m *MockTenantRepository) Save(ctx context.Context, tenant *renter.Tenant) error {
	return m.Called(ctx, tenant).Error(0)
}

func (m *MockTenantRepository) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	return m.Called(ctx, id, active).Error(0)
}

// fakeStore is an in-memory RelationStore
type fakeStore struct {
	tenant      *renter.Tenant
	leases      int64
	payments    int64
	invoices    int64
	related     map[lifecycle.Category]int64
	unsupported map[lifecycle.Category]bool
	detached    int64
	deleteErr   error
	countErr    error

	calls          []string
	invoiceFilter  []leasing.InvoiceStatus
	inTransaction  bool
	deleted        bool
	detachedCalled bool
}

func (f *fakeStore) LockTenant(_ context.Context, id uuid.UUID) (*renter.Tenant, error) {
	f.calls = append(f.calls, "lock")
	if f.tenant == nil || f.tenant.ID != id {
		return nil, shared.ErrNotFound
	}
	return f.tenant, nil
}

func (f *fakeStore) CountLeases(context.Context, uuid.UUID) (int64, error) {
	f.calls = append(f.calls, "leases")
	return f.leases, f.countErr
}

func (f *fakeStore) CountPayments(context.Context, uuid.UUID) (int64, error) {
	f.calls = append(f.calls, "payments")
	return f.payments, nil
}

func (f *fakeStore) CountInvoices(_ context.Context, _ uuid.UUID, statuses []leasing.InvoiceStatus) (int64, error) {
	f.calls = append(f.calls, "invoices")
	f.invoiceFilter = statuses
	return f.invoices, nil
}

func (f *fakeStore) Supports(category lifecycle.Category) bool {
	return !f.unsupported[category]
}

func (f *fakeStore) CountRelated(_ context.Context, _ uuid.UUID, category lifecycle.Category) (int64, error) {
	if f.unsupported[category] {
		return 0, errors.New("unsupported category queried")
	}
	return f.related[category], nil
}

func (f *fakeStore) DetachReceivedDocuments(context.Context, uuid.UUID) (int64, error) {
	f.calls = append(f.calls, "detach")
	f.detachedCalled = true
	return f.detached, nil
}

func (f *fakeStore) DeleteTenant(context.Context, uuid.UUID) error {
	f.calls = append(f.calls, "delete")
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = true
	return nil
}

func (f *fakeStore) Atomically(_ context.Context, fn func(store lifecycle.RelationStore) error) error {
	f.inTransaction = true
	defer func() { f.inTransaction = false }()
	return fn(f)
}

type recorderFunc func(ctx context.Context, report *lifecycle.DeletionReport) error

func (f recorderFunc) Record(ctx context.Context, report *lifecycle.DeletionReport) error {
	return f(ctx, report)
}

func newTenant(t *testing.T, email, first, last string) *renter.Tenant {
	t.Helper()
	tenant, err := renter.NewTenant(email, first, last)
	require.NoError(t, err)
	return tenant
}

func newService(store *fakeStore, repo *MockTenantRepository, opts ...Option) *Service {
	return NewService(store, repo, zap.NewNop(), opts...)
}

func TestService_CanDeleteTenant(t *testing.T) {
	ctx := context.Background()
	tenant := newTenant(t, "ann@example.com", "Ann", "Lee")

	tests := []struct {
		name      string
		store     *fakeStore
		want      bool
		wantCalls []string
	}{
		{"no relations", &fakeStore{}, true, []string{"leases", "payments", "invoices"}},
		{"stops at leases", &fakeStore{leases: 1, payments: 3}, false, []string{"leases"}},
		{"stops at payments", &fakeStore{payments: 2}, false, []string{"leases", "payments"}},
		{"unpaid invoices", &fakeStore{invoices: 1}, false, []string{"leases", "payments", "invoices"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockTenantRepository)
			repo.On("FindByID", mock.Anything, tenant.ID).Return(tenant, nil)

			ok, err := newService(tt.store, repo).CanDeleteTenant(ctx, tenant.ID)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ok)
			assert.Equal(t, tt.wantCalls, tt.store.calls)
		})
	}
}

func TestService_CanDeleteTenant_NotFound(t *testing.T) {
	ctx := context.Background()
	id := uuid.New()
	repo := new(MockTenantRepository)
	repo.On("FindByID", mock.Anything, id).Return(nil, shared.ErrNotFound)

	_, err := newService(&fakeStore{}, repo).CanDeleteTenant(ctx, id)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestService_GetDeleteBlockers(t *testing.T) {
	ctx := context.Background()
	tenant := newTenant(t, "ann@example.com", "Ann", "Lee")

	tests := []struct {
		name  string
		store *fakeStore
		want  []string
	}{
		{"none", &fakeStore{}, []string{}},
		{"leases and overdue invoice", &fakeStore{leases: 2, invoices: 1}, []string{"2 leases linked", "1 unpaid invoice"}},
		{"all singular", &fakeStore{leases: 1, payments: 1, invoices: 1}, []string{"1 lease linked", "1 payment record", "1 unpaid invoice"}},
		{"all plural", &fakeStore{leases: 3, payments: 4, invoices: 5}, []string{"3 leases linked", "4 payment records", "5 unpaid invoices"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockTenantRepository)
			repo.On("FindByID", mock.Anything, tenant.ID).Return(tenant, nil)

			got, err := newService(tt.store, repo).GetDeleteBlockers(ctx, tenant.ID)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, []string{"leases", "payments", "invoices"}, tt.store.calls)
		})
	}
}

func TestService_UsesInjectedPolicy(t *testing.T) {
	ctx := context.Background()
	tenant := newTenant(t, "ann@example.com", "Ann", "Lee")
	repo := new(MockTenantRepository)
	repo.On("FindByID", mock.Anything, tenant.ID).Return(tenant, nil)
	store := &fakeStore{}

	policy := lifecycle.DeletionPolicy{BlockingInvoiceStatuses: []leasing.InvoiceStatus{leasing.InvoiceStatus("overdue")}}
	_, err := newService(store, repo, WithPolicy(policy)).GetDeleteBlockers(ctx, tenant.ID)
	require.NoError(t, err)
	assert.Equal(t, policy.BlockingInvoiceStatuses, store.invoiceFilter)

	store = &fakeStore{}
	_, err = newService(store, repo).GetDeleteBlockers(ctx, tenant.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, leasing.UnpaidInvoiceStatuses(), store.invoiceFilter)
}

func TestService_GetDeleteSummary(t *testing.T) {
	ctx := context.Background()
	tenant := newTenant(t, "ann@example.com", "Ann", "Lee")
	repo := new(MockTenantRepository)
	repo.On("FindByID", mock.Anything, tenant.ID).Return(tenant, nil)

	store := &fakeStore{
		related: map[lifecycle.Category]int64{
			lifecycle.CategoryProfile:           1,
			lifecycle.CategoryEmergencyContacts: 2,
			lifecycle.CategoryVehicles:          0,
			lifecycle.CategoryNotifications:     4,
			lifecycle.CategoryOTPTokens:         3,
		},
		unsupported: map[lifecycle.Category]bool{lifecycle.CategoryOTPTokens: true},
	}

	summary, err := newService(store, repo).GetDeleteSummary(ctx, tenant.ID)
	require.NoError(t, err)
	assert.Equal(t, lifecycle.Summary{
		lifecycle.CategoryProfile:           1,
		lifecycle.CategoryEmergencyContacts: 2,
		lifecycle.CategoryNotifications:     4,
	}, summary)
	assert.True(t, summary.HasProfile())
}

func TestService_CheckDeletion(t *testing.T) {
	ctx := context.Background()
	tenant := newTenant(t, "ann@example.com", "Ann", "Lee")
	repo := new(MockTenantRepository)
	repo.On("FindByID", mock.Anything, tenant.ID).Return(tenant, nil)
	store := &fakeStore{payments: 2, related: map[lifecycle.Category]int64{lifecycle.CategoryVehicles: 1}}

	got, err := newService(store, repo).CheckDeletion(ctx, tenant.ID)
	require.NoError(t, err)
	assert.False(t, got.CanDelete)
	assert.Equal(t, []string{"2 payment records"}, got.Blockers)
	assert.Equal(t, int64(1), got.Summary[lifecycle.CategoryVehicles])
}

func TestService_DeleteTenant(t *testing.T) {
	ctx := context.Background()
	fixed := time.Date(2026, 3, 9, 14, 30, 0, 0, time.UTC)

	t.Run("deletes and reports", func(t *testing.T) {
		tenant := newTenant(t, "ann@example.com", "Ann", "Lee")
		store := &fakeStore{
			tenant:   tenant,
			detached: 2,
			related: map[lifecycle.Category]int64{
				lifecycle.CategoryProfile:            1,
				lifecycle.CategoryNotifications:      4,
				lifecycle.CategoryOnboardingSessions: 3,
			},
		}
		actor := uuid.New()
		var audited []*lifecycle.DeletionReport
		recorder := recorderFunc(func(_ context.Context, r *lifecycle.DeletionReport) error {
			assert.False(t, store.inTransaction, "audit must run after commit")
			audited = append(audited, r)
			return nil
		})

		svc := newService(store, new(MockTenantRepository),
			WithAuditRecorders(recorder),
			WithClock(func() time.Time { return fixed }),
		)
		report, err := svc.DeleteTenant(ctx, tenant.ID, &actor)
		require.NoError(t, err)

		assert.Equal(t, "Ann Lee", report.Name)
		assert.Equal(t, lifecycle.Summary{
			lifecycle.CategoryProfile:            1,
			lifecycle.CategoryNotifications:      4,
			lifecycle.CategoryOnboardingSessions: 3,
		}, report.DeletedItems)
		assert.Equal(t, int64(2), report.DetachedDocuments)
		assert.Equal(t, int64(3), report.DetachedSessions)
		assert.Equal(t, int64(5), report.Removed())
		assert.Equal(t, &actor, report.PerformedBy)
		assert.Equal(t, fixed, report.DeletedAt)
		assert.True(t, store.deleted)
		assert.Equal(t, []string{"lock", "leases", "payments", "invoices", "detach", "delete"}, store.calls)
		require.Len(t, audited, 1)
		assert.Same(t, report, audited[0])
	})

	t.Run("name falls back to email", func(t *testing.T) {
		tenant := newTenant(t, "noname@example.com", "", "")
		report, err := newService(&fakeStore{tenant: tenant}, new(MockTenantRepository)).DeleteTenant(ctx, tenant.ID, nil)
		require.NoError(t, err)
		assert.Equal(t, "noname@example.com", report.Name)
		assert.Empty(t, report.DeletedItems)
		assert.Nil(t, report.PerformedBy)
	})

	t.Run("blocked inside the transaction", func(t *testing.T) {
		tenant := newTenant(t, "ann@example.com", "Ann", "Lee")
		store := &fakeStore{tenant: tenant, leases: 2, invoices: 1}

		_, err := newService(store, new(MockTenantRepository)).DeleteTenant(ctx, tenant.ID, nil)
		require.ErrorIs(t, err, shared.ErrDeleteBlocked)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, []string{"2 leases linked", "1 unpaid invoice"}, domainErr.Details)
		assert.False(t, store.deleted)
		assert.False(t, store.detachedCalled)
	})

	t.Run("integrity violation from the store", func(t *testing.T) {
		tenant := newTenant(t, "ann@example.com", "Ann", "Lee")
		store := &fakeStore{tenant: tenant, deleteErr: shared.ErrIntegrityViolation}
		audited := false
		recorder := recorderFunc(func(context.Context, *lifecycle.DeletionReport) error {
			audited = true
			return nil
		})

		report, err := newService(store, new(MockTenantRepository), WithAuditRecorders(recorder)).DeleteTenant(ctx, tenant.ID, nil)
		assert.Nil(t, report)
		assert.ErrorIs(t, err, shared.ErrIntegrityViolation)
		assert.False(t, errors.Is(err, shared.ErrDeleteBlocked))
		assert.False(t, audited)
	})

	t.Run("not found", func(t *testing.T) {
		_, err := newService(&fakeStore{}, new(MockTenantRepository)).DeleteTenant(ctx, uuid.New(), nil)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("other store errors propagate wrapped", func(t *testing.T) {
		tenant := newTenant(t, "ann@example.com", "Ann", "Lee")
		boom := errors.New("connection reset")
		_, err := newService(&fakeStore{tenant: tenant, countErr: boom}, new(MockTenantRepository)).DeleteTenant(ctx, tenant.ID, nil)
		assert.ErrorIs(t, err, boom)
		assert.Contains(t, err.Error(), "count leases")
	})

	t.Run("audit failure is logged, not returned", func(t *testing.T) {
		tenant := newTenant(t, "ann@example.com", "Ann", "Lee")
		core, logs := observer.New(zapcore.ErrorLevel)
		failing := recorderFunc(func(context.Context, *lifecycle.DeletionReport) error {
			return errors.New("bucket unavailable")
		})
		svc := NewService(&fakeStore{tenant: tenant}, new(MockTenantRepository), zap.New(core), WithAuditRecorders(failing))

		report, err := svc.DeleteTenant(ctx, tenant.ID, nil)
		require.NoError(t, err)
		assert.NotNil(t, report)
		assert.Equal(t, 1, logs.FilterMessage("Failed to record tenant deletion audit").Len())
	})
}

func TestService_ArchiveAndRestore(t *testing.T) {
	ctx := context.Background()

	t.Run("archive writes only the flag", func(t *testing.T) {
		tenant := newTenant(t, "ann@example.com", "Ann", "Lee")
		repo := new(MockTenantRepository)
		repo.On("FindByID", mock.Anything, tenant.ID).Return(tenant, nil)
		repo.On("SetActive", mock.Anything, tenant.ID, false).Return(nil).Once()

		got, err := newService(&fakeStore{}, repo).ArchiveTenant(ctx, tenant.ID)
		require.NoError(t, err)
		assert.False(t, got.IsActive)
		assert.Equal(t, "archived", got.State)
		repo.AssertExpectations(t)
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("archive is idempotent", func(t *testing.T) {
		tenant := newTenant(t, "ann@example.com", "Ann", "Lee")
		tenant.IsActive = false
		repo := new(MockTenantRepository)
		repo.On("FindByID", mock.Anything, tenant.ID).Return(tenant, nil)

		got, err := newService(&fakeStore{}, repo).ArchiveTenant(ctx, tenant.ID)
		require.NoError(t, err)
		assert.False(t, got.IsActive)
		repo.AssertNotCalled(t, "SetActive", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("restore reactivates", func(t *testing.T) {
		tenant := newTenant(t, "ann@example.com", "Ann", "Lee")
		tenant.IsActive = false
		repo := new(MockTenantRepository)
		repo.On("FindByID", mock.Anything, tenant.ID).Return(tenant, nil)
		repo.On("SetActive", mock.Anything, tenant.ID, true).Return(nil).Once()

		got, err := newService(&fakeStore{}, repo).RestoreTenant(ctx, tenant.ID)
		require.NoError(t, err)
		assert.True(t, got.IsActive)
		assert.Equal(t, "active", got.State)
		repo.AssertExpectations(t)
	})

	t.Run("restore of an active tenant is a no-op", func(t *testing.T) {
		tenant := newTenant(t, "ann@example.com", "Ann", "Lee")
		repo := new(MockTenantRepository)
		repo.On("FindByID", mock.Anything, tenant.ID).Return(tenant, nil)

		_, err := newService(&fakeStore{}, repo).RestoreTenant(ctx, tenant.ID)
		require.NoError(t, err)
		repo.AssertNotCalled(t, "SetActive", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("unknown tenant", func(t *testing.T) {
		id := uuid.New()
		repo := new(MockTenantRepository)
		repo.On("FindByID", mock.Anything, id).Return(nil, shared.ErrNotFound)

		_, err := newService(&fakeStore{}, repo).ArchiveTenant(ctx, id)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestService_ListTenants(t *testing.T) {
	ctx := context.Background()
	tenant := newTenant(t, "ann@example.com", "Ann", "Lee")
	repo := new(MockTenantRepository)
	repo.On("FindAll", mock.Anything, mock.MatchedBy(func(f renter.ListFilter) bool {
		return f.IncludeArchived && f.Search == "ann" && f.Page == 2 && f.PageSize == 5 && f.OrderBy == "created_at"
	})).Return([]renter.Tenant{*tenant}, int64(6), nil)

	page, err := newService(&fakeStore{}, repo).ListTenants(ctx, TenantListQuery{
		Search:          "ann",
		IncludeArchived: true,
		Page:            2,
		PageSize:        5,
	})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "Ann Lee", page.Items[0].FullName)
	assert.Equal(t, int64(6), page.Total)
	assert.Equal(t, 2, page.TotalPages)
}
