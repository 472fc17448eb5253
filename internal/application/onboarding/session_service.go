package onboarding

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/propertyhub/backend/internal/domain/leasing"
	"github.com/propertyhub/backend/internal/domain/onboarding"
	"github.com/propertyhub/backend/internal/domain/renter"
	"github.com/propertyhub/backend/internal/domain/shared"
	"github.com/propertyhub/backend/internal/infrastructure/telemetry"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var (
	errPresetUnavailable = shared.NewDomainError("INVALID_PRESET", "Onboarding preset does not exist or is inactive")
	errLeaseNotFound     = shared.NewDomainError("INVALID_LEASE", "Lease does not exist")
	errLeaseMismatch     = shared.NewDomainError("INVALID_LEASE", "Lease belongs to a different tenant")
	errNoPhone           = shared.NewDomainError("INVALID_CHANNEL", "Session has no phone number for SMS delivery")
)

// SessionService runs onboarding sessions from preset snapshots
type SessionService struct {
	sessions   onboarding.SessionRepository
	presets    onboarding.PresetRepository
	leases     leasing.LeaseRepository
	tenants    renter.TenantRepository
	invoices   leasing.InvoiceRepository
	notifier   Notifier
	portalBase string
	metrics    *telemetry.LifecycleMetrics
	logger     *zap.Logger
	now        func() time.Time
}

// SessionOption configures a SessionService
type SessionOption func(*SessionService)

// WithPortalBaseURL sets the base of the links sent to prospects
func WithPortalBaseURL(base string) SessionOption {
	return func(s *SessionService) { s.portalBase = base }
}

// WithSessionMetrics enables session counters
func WithSessionMetrics(m *telemetry.LifecycleMetrics) SessionOption {
	return func(s *SessionService) { s.metrics = m }
}

// WithTenantAccounts checks linked tenant accounts. With it, access links
// of a session linked to an archived tenant stop working and archived
// tenants cannot be linked.
func WithTenantAccounts(tenants renter.TenantRepository) SessionOption {
	return func(s *SessionService) { s.tenants = tenants }
}

// WithMoveInInvoices bills the required fees of a completed session with a
// lease as one issued invoice
func WithMoveInInvoices(invoices leasing.InvoiceRepository) SessionOption {
	return func(s *SessionService) { s.invoices = invoices }
}

// WithSessionClock overrides the time source
func WithSessionClock(now func() time.Time) SessionOption {
	return func(s *SessionService) { s.now = now }
}

// NewSessionService creates a new SessionService
func NewSessionService(
	sessions onboarding.SessionRepository,
	presets onboarding.PresetRepository,
	leases leasing.LeaseRepository,
	notifier Notifier,
	logger *zap.Logger,
	opts ...SessionOption,
) *SessionService {
	s := &SessionService{
		sessions: sessions,
		presets:  presets,
		leases:   leases,
		notifier: notifier,
		logger:   logger,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start opens a session from the current state of a preset. Later edits
// of the preset do not reach the session.
func (s *SessionService) Start(ctx context.Context, req StartSessionRequest) (*SessionResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "onboarding_session", "start",
		telemetry.AttrPresetID.String(req.PresetID.String()))
	defer span.End()

	preset, err := s.presets.FindByID(ctx, req.PresetID)
	if err != nil {
		if isNotFound(err) {
			err = errPresetUnavailable
		}
		telemetry.RecordError(span, err)
		return nil, err
	}
	if !preset.IsActive {
		telemetry.RecordError(span, errPresetUnavailable)
		return nil, errPresetUnavailable
	}
	if req.LeaseID != nil {
		if err := s.checkLease(ctx, *req.LeaseID, req.TenantID); err != nil {
			telemetry.RecordError(span, err)
			return nil, err
		}
	}

	if req.SendVia != "" {
		if err := checkChannel(onboarding.Channel(req.SendVia), req.Phone); err != nil {
			telemetry.RecordError(span, err)
			return nil, err
		}
	}

	snapshot, err := preset.Snapshot()
	if err != nil {
		return nil, err
	}
	session, err := onboarding.NewSession(snapshot, onboarding.Prospect{
		Email:        req.Email,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Phone:        req.Phone,
		PropertyName: req.PropertyName,
		TenantID:     req.TenantID,
		LeaseID:      req.LeaseID,
	}, s.now())
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	if err := s.sessions.Save(ctx, session); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	span.SetAttributes(telemetry.AttrSessionID.String(session.ID.String()))

	s.logger.Info("Onboarding session started",
		zap.String("session_id", session.ID.String()),
		zap.String("preset", preset.Name),
	)

	// The session is already stored; a failed send is retried through
	// SendInvitation rather than failing the request.
	if req.SendVia != "" {
		if _, err := s.deliver(ctx, session, onboarding.Channel(req.SendVia)); err != nil {
			s.logger.Warn("Onboarding invitation not sent",
				zap.String("session_id", session.ID.String()),
				zap.Error(err),
			)
		}
	}
	return s.respond(session), nil
}

func (s *SessionService) checkLease(ctx context.Context, leaseID uuid.UUID, tenantID *uuid.UUID) error {
	lease, err := s.leases.FindByID(ctx, leaseID)
	if err != nil {
		if isNotFound(err) {
			return errLeaseNotFound
		}
		return err
	}
	if tenantID != nil && lease.TenantID != *tenantID {
		return errLeaseMismatch
	}
	return nil
}

// Get returns one session
func (s *SessionService) Get(ctx context.Context, id uuid.UUID) (*SessionResponse, error) {
	session, err := s.sessions.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.respond(session), nil
}

// GetByToken resolves the session behind an access link and records the
// prospect's first visit.
func (s *SessionService) GetByToken(ctx context.Context, token string) (*SessionResponse, error) {
	session, err := s.findByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	return s.mutate(ctx, session, func(session *onboarding.Session) error {
		return session.Start(s.now())
	})
}

// CompleteStep marks one enabled step as done
func (s *SessionService) CompleteStep(ctx context.Context, id uuid.UUID, step onboarding.Step) (*SessionResponse, error) {
	return s.update(ctx, id, func(session *onboarding.Session) error {
		return session.MarkStepComplete(step, s.now())
	})
}

// Complete closes the session once every required step is done
func (s *SessionService) Complete(ctx context.Context, id uuid.UUID) (*SessionResponse, error) {
	session, err := s.sessions.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp, err := s.mutate(ctx, session, func(session *onboarding.Session) error {
		return session.Complete(s.now())
	})
	if err != nil {
		return nil, err
	}
	s.metrics.SessionCompleted(ctx)
	if s.invoices != nil {
		s.billMoveInFees(ctx, session)
	}
	return resp, nil
}

// billMoveInFees invoices the required fee lines of a completed session.
// The completion stands when billing fails.
func (s *SessionService) billMoveInFees(ctx context.Context, session *onboarding.Session) {
	log := s.logger.With(zap.String("session_id", session.ID.String()))
	if session.LeaseID == nil {
		log.Debug("No lease on session, move-in fees not billed")
		return
	}
	lease, err := s.leases.FindByID(ctx, *session.LeaseID)
	if err != nil {
		log.Warn("Move-in fees not billed", zap.Error(err))
		return
	}

	total := decimal.Zero
	for _, line := range session.FeeLines(lease) {
		if line.IsRequired {
			total = total.Add(line.Amount)
		}
	}
	if !total.IsPositive() {
		log.Debug("No required move-in fees to bill")
		return
	}

	now := s.now()
	due := lease.StartDate
	if due.IsZero() {
		due = now
	}
	invoice, err := leasing.NewInvoice(lease, leasing.MoveInInvoiceNumber(session.ID), total, due, now)
	if err != nil {
		log.Warn("Move-in fees not billed", zap.Error(err))
		return
	}
	if err := s.invoices.Create(ctx, invoice); err != nil {
		if errors.Is(err, shared.ErrAlreadyExists) {
			log.Debug("Move-in fees already billed", zap.String("invoice", invoice.Number))
			return
		}
		log.Warn("Move-in fees not billed", zap.Error(err))
		return
	}
	log.Info("Move-in fees billed",
		zap.String("invoice", invoice.Number),
		zap.String("lease_id", lease.ID.String()),
		zap.String("amount", invoice.AmountDue.StringFixed(2)),
	)
}

// Cancel abandons the session
func (s *SessionService) Cancel(ctx context.Context, id uuid.UUID) (*SessionResponse, error) {
	return s.update(ctx, id, func(session *onboarding.Session) error {
		return session.Cancel()
	})
}

// RegenerateLink replaces the access token and restarts the expiry window
func (s *SessionService) RegenerateLink(ctx context.Context, id uuid.UUID) (*SessionResponse, error) {
	return s.update(ctx, id, func(session *onboarding.Session) error {
		return session.RegenerateToken(s.now())
	})
}

// LinkTenant attaches the tenant account created for the prospect
func (s *SessionService) LinkTenant(ctx context.Context, id, tenantID uuid.UUID) (*SessionResponse, error) {
	if s.tenants != nil {
		tenant, err := s.tenants.FindByID(ctx, tenantID)
		if err != nil {
			return nil, err
		}
		if err := tenant.Authenticate(); err != nil {
			return nil, err
		}
	}
	return s.update(ctx, id, func(session *onboarding.Session) error {
		session.LinkTenant(tenantID)
		return nil
	})
}

// findByToken resolves an access link. A link whose session belongs to an
// archived tenant is refused.
func (s *SessionService) findByToken(ctx context.Context, token string) (*onboarding.Session, error) {
	session, err := s.sessions.FindByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if s.tenants == nil || session.TenantID == nil {
		return session, nil
	}
	tenant, err := s.tenants.FindByID(ctx, *session.TenantID)
	if err != nil {
		return nil, err
	}
	if err := tenant.Authenticate(); err != nil {
		s.logger.Info("Access link refused for archived tenant",
			zap.String("session_id", session.ID.String()),
			zap.String("tenant_id", tenant.ID.String()),
		)
		return nil, err
	}
	return session, nil
}

// RequestOTP issues a one-time code for the prospect behind an access
// link and sends it to the session's email.
func (s *SessionService) RequestOTP(ctx context.Context, token string) error {
	session, err := s.findByToken(ctx, token)
	if err != nil {
		return err
	}
	code, err := session.IssueOTP(s.now())
	if err != nil {
		return err
	}
	if err := s.sessions.Save(ctx, session); err != nil {
		return err
	}
	msg := onboarding.Invitation{
		Channel: onboarding.ChannelEmail,
		Email:   session.Email,
		Subject: "Your verification code",
		Body:    "Your verification code is " + code + ". It expires in " + onboarding.OTPValidity.String() + ".",
	}
	if err := s.notifier.Send(ctx, msg); err != nil {
		return fmt.Errorf("send verification code: %w", err)
	}
	return nil
}

// VerifyOTP checks a code issued by RequestOTP. A valid code is consumed.
func (s *SessionService) VerifyOTP(ctx context.Context, token, code string) (*SessionResponse, error) {
	session, err := s.findByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if err := session.VerifyOTP(code, s.now()); err != nil {
		return nil, err
	}
	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, err
	}
	return s.respond(session), nil
}

// SendInvitation renders the session's invitation and hands it to the notifier
func (s *SessionService) SendInvitation(ctx context.Context, id uuid.UUID, channel onboarding.Channel) (*onboarding.Invitation, error) {
	session, err := s.sessions.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if session.Status.IsTerminal() {
		return nil, onboarding.ErrSessionClosed
	}
	if err := checkChannel(channel, session.Phone); err != nil {
		return nil, err
	}
	return s.deliver(ctx, session, channel)
}

// checkChannel rejects unknown channels and SMS delivery without a phone
func checkChannel(channel onboarding.Channel, phone string) error {
	if !channel.IsValid() {
		return shared.NewDomainError("INVALID_CHANNEL", "Unknown invitation channel: "+string(channel))
	}
	if (channel == onboarding.ChannelSMS || channel == onboarding.ChannelBoth) && strings.TrimSpace(phone) == "" {
		return errNoPhone
	}
	return nil
}

func (s *SessionService) deliver(ctx context.Context, session *onboarding.Session, channel onboarding.Channel) (*onboarding.Invitation, error) {
	inv := session.RenderInvitation(channel, s.link(session))
	if err := s.notifier.Send(ctx, inv); err != nil {
		return nil, fmt.Errorf("send invitation: %w", err)
	}
	return &inv, nil
}

// Fees resolves the snapshot's default fees against the session's lease.
// Lease-derived fees fall back to their fixed amount without a lease.
func (s *SessionService) Fees(ctx context.Context, id uuid.UUID) (*FeesResponse, error) {
	session, err := s.sessions.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	var values onboarding.LeaseValues
	if session.LeaseID != nil {
		lease, err := s.leases.FindByID(ctx, *session.LeaseID)
		switch {
		case err == nil:
			values = lease
		case isNotFound(err):
			s.logger.Warn("Session lease no longer exists",
				zap.String("session_id", id.String()),
				zap.String("lease_id", session.LeaseID.String()),
			)
		default:
			return nil, err
		}
	}
	lines := session.FeeLines(values)
	return &FeesResponse{
		SessionID: session.ID,
		LeaseID:   session.LeaseID,
		Lines:     lines,
		Total:     onboarding.TotalFees(lines),
	}, nil
}

// ExpireStaleSessions marks open sessions whose link lapsed as expired,
// batch rows at a time, and returns how many were expired.
func (s *SessionService) ExpireStaleSessions(ctx context.Context, batch int) (int, error) {
	if batch <= 0 {
		batch = 100
	}
	now := s.now()
	expired := 0
	for {
		if err := ctx.Err(); err != nil {
			return expired, err
		}
		sessions, err := s.sessions.FindExpirable(ctx, now, batch)
		if err != nil {
			return expired, fmt.Errorf("find expirable sessions: %w", err)
		}
		changed := 0
		for i := range sessions {
			session := &sessions[i]
			if !session.Expire(now) {
				continue
			}
			if err := s.sessions.Save(ctx, session); err != nil {
				return expired, fmt.Errorf("expire session %s: %w", session.ID, err)
			}
			changed++
		}
		expired += changed
		if len(sessions) < batch || changed == 0 {
			break
		}
	}
	s.metrics.SessionsExpired(ctx, expired)
	return expired, nil
}

func (s *SessionService) update(ctx context.Context, id uuid.UUID, fn func(*onboarding.Session) error) (*SessionResponse, error) {
	session, err := s.sessions.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.mutate(ctx, session, fn)
}

func (s *SessionService) mutate(ctx context.Context, session *onboarding.Session, fn func(*onboarding.Session) error) (*SessionResponse, error) {
	before := session.GetVersion()
	if err := fn(session); err != nil {
		return nil, err
	}
	if session.GetVersion() != before {
		if err := s.sessions.Save(ctx, session); err != nil {
			return nil, err
		}
	}
	return s.respond(session), nil
}

func (s *SessionService) respond(session *onboarding.Session) *SessionResponse {
	out := toSessionResponse(session, s.link(session))
	return &out
}

// link builds the prospect-facing URL for the session's access token
func (s *SessionService) link(session *onboarding.Session) string {
	if s.portalBase == "" {
		return "/onboarding/" + session.AccessToken
	}
	link, err := url.JoinPath(s.portalBase, session.AccessToken)
	if err != nil {
		return s.portalBase + "/" + session.AccessToken
	}
	return link
}
