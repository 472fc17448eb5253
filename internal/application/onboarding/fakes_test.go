package onboarding

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/propertyhub/backend/internal/domain/leasing"
	"github.com/propertyhub/backend/internal/domain/onboarding"
	"github.com/propertyhub/backend/internal/domain/renter"
	"github.com/propertyhub/backend/internal/domain/shared"
)

// memoryPresetRepository keeps presets by ID. Stored values are copies so a
// test cannot reach into the "database" through a returned pointer.
type memoryPresetRepository struct {
	items   map[uuid.UUID]onboarding.Preset
	saveErr error
}

func newMemoryPresetRepository() *memoryPresetRepository {
	return &memoryPresetRepository{items: map[uuid.UUID]onboarding.Preset{}}
}

func (r *memoryPresetRepository) FindByID(_ context.Context, id uuid.UUID) (*onboarding.Preset, error) {
	p, ok := r.items[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return &p, nil
}

func (r *memoryPresetRepository) FindByName(_ context.Context, name string) (*onboarding.Preset, error) {
	for _, p := range r.items {
		if p.Name == name {
			return &p, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memoryPresetRepository) FindAll(_ context.Context, filter onboarding.PresetFilter) ([]onboarding.Preset, int64, error) {
	var out []onboarding.Preset
	for _, p := range r.items {
		if filter.Category != "" && p.Category != filter.Category {
			continue
		}
		if filter.ActiveOnly && !p.IsActive {
			continue
		}
		if filter.SystemOnly != nil && p.IsSystem != *filter.SystemOnly {
			continue
		}
		if filter.Search != "" && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(filter.Search)) {
			continue
		}
		out = append(out, p)
	}
	return out, int64(len(out)), nil
}

func (r *memoryPresetRepository) ExistsByName(_ context.Context, name string, excludeID *uuid.UUID) (bool, error) {
	for id, p := range r.items {
		if excludeID != nil && id == *excludeID {
			continue
		}
		if p.Name == name {
			return true, nil
		}
	}
	return false, nil
}

func (r *memoryPresetRepository) Save(_ context.Context, preset *onboarding.Preset) error {
	if r.saveErr != nil {
		return r.saveErr
	}
	r.items[preset.ID] = *preset
	return nil
}

func (r *memoryPresetRepository) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.items[id]; !ok {
		return shared.ErrNotFound
	}
	delete(r.items, id)
	return nil
}

type memorySessionRepository struct {
	items map[uuid.UUID]*onboarding.Session
	saves int
}

func newMemorySessionRepository() *memorySessionRepository {
	return &memorySessionRepository{items: map[uuid.UUID]*onboarding.Session{}}
}

func (r *memorySessionRepository) FindByID(_ context.Context, id uuid.UUID) (*onboarding.Session, error) {
	s, ok := r.items[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return s, nil
}

func (r *memorySessionRepository) FindByToken(_ context.Context, token string) (*onboarding.Session, error) {
	for _, s := range r.items {
		if s.AccessToken == token {
			return s, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memorySessionRepository) FindExpirable(_ context.Context, now time.Time, limit int) ([]onboarding.Session, error) {
	var out []onboarding.Session
	for _, s := range r.items {
		if len(out) == limit {
			break
		}
		if !s.Status.IsTerminal() && s.IsTokenExpired(now) {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (r *memorySessionRepository) Save(_ context.Context, session *onboarding.Session) error {
	r.saves++
	r.items[session.ID] = session
	return nil
}

type memoryLeaseRepository struct {
	items map[uuid.UUID]*leasing.Lease
}

func (r *memoryLeaseRepository) FindByID(_ context.Context, id uuid.UUID) (*leasing.Lease, error) {
	l, ok := r.items[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return l, nil
}

func (r *memoryLeaseRepository) FindByTenant(_ context.Context, tenantID uuid.UUID) ([]leasing.Lease, error) {
	var out []leasing.Lease
	for _, l := range r.items {
		if l.TenantID == tenantID {
			out = append(out, *l)
		}
	}
	return out, nil
}

func (r *memoryLeaseRepository) Save(_ context.Context, lease *leasing.Lease) error {
	r.items[lease.ID] = lease
	return nil
}

type recordingNotifier struct {
	sent []onboarding.Invitation
	err  error
}

func (n *recordingNotifier) Send(_ context.Context, inv onboarding.Invitation) error {
	if n.err != nil {
		return n.err
	}
	n.sent = append(n.sent, inv)
	return nil
}

type memoryTenantRepository struct {
	items map[uuid.UUID]*renter.Tenant
}

func (r *memoryTenantRepository) FindByID(_ context.Context, id uuid.UUID) (*renter.Tenant, error) {
	t, ok := r.items[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return t, nil
}

func (r *memoryTenantRepository) FindByEmail(_ context.Context, email string) (*renter.Tenant, error) {
	for _, t := range r.items {
		if t.Email == email {
			return t, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memoryTenantRepository) FindAll(context.Context, renter.ListFilter) ([]renter.Tenant, int64, error) {
	out := make([]renter.Tenant, 0, len(r.items))
	for _, t := range r.items {
		out = append(out, *t)
	}
	return out, int64(len(out)), nil
}

func (r *memoryTenantRepository) Save(_ context.Context, t *renter.Tenant) error {
	r.items[t.ID] = t
	return nil
}

func (r *memoryTenantRepository) SetActive(_ context.Context, id uuid.UUID, active bool) error {
	t, ok := r.items[id]
	if !ok {
		return shared.ErrNotFound
	}
	t.IsActive = active
	return nil
}

type memoryInvoiceRepository struct {
	items     []leasing.Invoice
	createErr error
}

func (r *memoryInvoiceRepository) Create(_ context.Context, inv *leasing.Invoice) error {
	if r.createErr != nil {
		return r.createErr
	}
	for _, existing := range r.items {
		if existing.Number == inv.Number {
			return shared.ErrAlreadyExists
		}
	}
	r.items = append(r.items, *inv)
	return nil
}

func (r *memoryInvoiceRepository) FindByLease(_ context.Context, leaseID uuid.UUID) ([]leasing.Invoice, error) {
	var out []leasing.Invoice
	for _, inv := range r.items {
		if inv.LeaseID != nil && *inv.LeaseID == leaseID {
			out = append(out, inv)
		}
	}
	return out, nil
}
