package onboarding

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"math/big"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/propertyhub/backend/internal/domain/shared"
	"golang.org/x/crypto/bcrypt"
)

// SessionStatus tracks an onboarding session through its lifecycle
type SessionStatus string

const (
	SessionInvited    SessionStatus = "invited"
	SessionStarted    SessionStatus = "started"
	SessionInProgress SessionStatus = "in_progress"
	SessionCompleted  SessionStatus = "completed"
	SessionExpired    SessionStatus = "expired"
	SessionCancelled  SessionStatus = "cancelled"
)

// IsTerminal reports whether no further progress is possible
func (s SessionStatus) IsTerminal() bool {
	return s == SessionCompleted || s == SessionExpired || s == SessionCancelled
}

const (
	accessTokenBytes = 36
	otpDigits        = 6
	// OTPValidity is how long an issued one-time code stays valid
	OTPValidity = 10 * time.Minute
)

// Session errors
var (
	ErrSessionClosed   = shared.NewDomainError("SESSION_CLOSED", "Onboarding session is no longer active")
	ErrStepNotEnabled  = shared.NewDomainError("STEP_NOT_ENABLED", "Step is not part of this onboarding session")
	ErrStepsIncomplete = shared.NewDomainError("STEPS_INCOMPLETE", "Required onboarding steps are not complete")
	ErrInvalidOTP      = shared.NewDomainError("INVALID_OTP", "Verification code is invalid or expired")
)

// Prospect identifies the person being onboarded
type Prospect struct {
	Email        string
	FirstName    string
	LastName     string
	Phone        string
	PropertyName string
	TenantID     *uuid.UUID
	LeaseID      *uuid.UUID
}

// Session is one run of the onboarding workflow for one prospect. Its
// configuration is a snapshot taken when the session was created.
type Session struct {
	shared.BaseAggregateRoot
	Prospect
	Status         SessionStatus
	Config         Snapshot
	CurrentStep    Step
	StepsCompleted map[Step]time.Time
	AccessToken    string
	TokenExpiresAt time.Time
	OTPHash        string
	OTPExpiresAt   *time.Time
	InvitedAt      time.Time
	StartedAt      *time.Time
	CompletedAt    *time.Time
}

// NewSession starts a session from a preset snapshot. The snapshot is cloned
// again so callers can keep using theirs.
func NewSession(snapshot Snapshot, prospect Prospect, now time.Time) (*Session, error) {
	prospect.Email = strings.ToLower(strings.TrimSpace(prospect.Email))
	if _, err := mail.ParseAddress(prospect.Email); err != nil {
		return nil, shared.NewDomainError("INVALID_EMAIL", "Prospect email is malformed")
	}
	if snapshot.LinkExpiryDays < 1 {
		return nil, shared.NewDomainError("INVALID_LINK_EXPIRY", "Link expiry must be positive")
	}
	cfg, err := snapshot.Clone()
	if err != nil {
		return nil, err
	}
	enabled := cfg.StepsConfig.EnabledSteps()
	if len(enabled) == 0 {
		return nil, shared.NewDomainError("INVALID_STEPS_CONFIG", "At least one step must be enabled")
	}
	token, err := newAccessToken()
	if err != nil {
		return nil, err
	}

	s := &Session{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Prospect:          prospect,
		Status:            SessionInvited,
		Config:            cfg,
		CurrentStep:       enabled[0],
		StepsCompleted:    make(map[Step]time.Time),
		AccessToken:       token,
		TokenExpiresAt:    now.AddDate(0, 0, cfg.LinkExpiryDays),
		InvitedAt:         now,
	}
	return s, nil
}

// Steps returns the enabled steps in presentation order
func (s *Session) Steps() []Step {
	return s.Config.StepsConfig.EnabledSteps()
}

// IsStepComplete reports whether a step has been finished
func (s *Session) IsStepComplete(step Step) bool {
	_, ok := s.StepsCompleted[step]
	return ok
}

// NextStep returns the first enabled step not yet finished
func (s *Session) NextStep() (Step, bool) {
	for _, step := range s.Steps() {
		if !s.IsStepComplete(step) {
			return step, true
		}
	}
	return "", false
}

// ProgressPercent is the share of enabled steps finished, rounded down
func (s *Session) ProgressPercent() int {
	steps := s.Steps()
	if len(steps) == 0 {
		return 0
	}
	done := 0
	for _, step := range steps {
		if s.IsStepComplete(step) {
			done++
		}
	}
	return done * 100 / len(steps)
}

// MissingRequiredSteps lists required steps that are not finished
func (s *Session) MissingRequiredSteps() []Step {
	var missing []Step
	for _, step := range s.Config.StepsConfig.RequiredSteps() {
		if !s.IsStepComplete(step) {
			missing = append(missing, step)
		}
	}
	return missing
}

// IsTokenExpired reports whether the access link has lapsed
func (s *Session) IsTokenExpired(now time.Time) bool {
	return !now.Before(s.TokenExpiresAt)
}

func (s *Session) ensureOpen(now time.Time) error {
	if s.Status.IsTerminal() {
		return ErrSessionClosed
	}
	if s.IsTokenExpired(now) {
		return ErrSessionClosed.WithDetails("access link expired")
	}
	return nil
}

// Start records the first visit of the prospect
func (s *Session) Start(now time.Time) error {
	if err := s.ensureOpen(now); err != nil {
		return err
	}
	if s.Status == SessionInvited {
		s.Status = SessionStarted
		s.StartedAt = &now
		s.IncrementVersion()
	}
	return nil
}

// MarkStepComplete records a finished step and advances CurrentStep
func (s *Session) MarkStepComplete(step Step, now time.Time) error {
	if err := s.ensureOpen(now); err != nil {
		return err
	}
	if !s.Config.StepsConfig.IsEnabled(step) {
		return ErrStepNotEnabled.WithDetails(string(step))
	}
	if s.StepsCompleted == nil {
		s.StepsCompleted = make(map[Step]time.Time)
	}
	if _, done := s.StepsCompleted[step]; !done {
		s.StepsCompleted[step] = now
	}
	if s.Status == SessionInvited || s.Status == SessionStarted {
		if s.StartedAt == nil {
			s.StartedAt = &now
		}
		s.Status = SessionInProgress
	}
	if next, ok := s.NextStep(); ok {
		s.CurrentStep = next
	} else {
		s.CurrentStep = ""
	}
	s.IncrementVersion()
	return nil
}

// Complete closes the session once every required step is done
func (s *Session) Complete(now time.Time) error {
	if err := s.ensureOpen(now); err != nil {
		return err
	}
	if missing := s.MissingRequiredSteps(); len(missing) > 0 {
		details := make([]string, len(missing))
		for i, step := range missing {
			details[i] = string(step)
		}
		return ErrStepsIncomplete.WithDetails(details...)
	}
	s.Status = SessionCompleted
	s.CompletedAt = &now
	s.CurrentStep = ""
	s.IncrementVersion()
	return nil
}

// Cancel abandons the session
func (s *Session) Cancel() error {
	if s.Status.IsTerminal() {
		return ErrSessionClosed
	}
	s.Status = SessionCancelled
	s.IncrementVersion()
	return nil
}

// Expire marks an open session whose link lapsed. Returns false when nothing changed.
func (s *Session) Expire(now time.Time) bool {
	if s.Status.IsTerminal() || !s.IsTokenExpired(now) {
		return false
	}
	s.Status = SessionExpired
	s.IncrementVersion()
	return true
}

// RegenerateToken issues a fresh access link valid for the preset's expiry
// window. An expired session is reopened at the status its progress implies.
func (s *Session) RegenerateToken(now time.Time) error {
	if s.Status == SessionCompleted || s.Status == SessionCancelled {
		return ErrSessionClosed
	}
	token, err := newAccessToken()
	if err != nil {
		return err
	}
	s.AccessToken = token
	s.TokenExpiresAt = now.AddDate(0, 0, s.Config.LinkExpiryDays)
	if s.Status == SessionExpired {
		switch {
		case len(s.StepsCompleted) > 0:
			s.Status = SessionInProgress
		case s.StartedAt != nil:
			s.Status = SessionStarted
		default:
			s.Status = SessionInvited
		}
	}
	s.IncrementVersion()
	return nil
}

// LinkTenant attaches the tenant account created during onboarding
func (s *Session) LinkTenant(tenantID uuid.UUID) {
	s.TenantID = &tenantID
	s.IncrementVersion()
}

// IssueOTP generates a one-time code, keeps only its hash and returns the code
func (s *Session) IssueOTP(now time.Time) (string, error) {
	if err := s.ensureOpen(now); err != nil {
		return "", err
	}
	code, err := newOTPCode()
	if err != nil {
		return "", err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash verification code: %w", err)
	}
	expires := now.Add(OTPValidity)
	s.OTPHash = string(hash)
	s.OTPExpiresAt = &expires
	return code, nil
}

// VerifyOTP checks a code and consumes it on success
func (s *Session) VerifyOTP(code string, now time.Time) error {
	if s.OTPHash == "" || s.OTPExpiresAt == nil || !now.Before(*s.OTPExpiresAt) {
		return ErrInvalidOTP
	}
	if err := bcrypt.CompareHashAndPassword([]byte(s.OTPHash), []byte(code)); err != nil {
		return ErrInvalidOTP
	}
	s.OTPHash = ""
	s.OTPExpiresAt = nil
	return nil
}

// FeeLines resolves the snapshot's default fees against a lease
func (s *Session) FeeLines(lease LeaseValues) []FeeLine {
	return ResolveFees(s.Config.DefaultFees, lease)
}

func newAccessToken() (string, error) {
	buf := make([]byte, accessTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate access token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

func newOTPCode() (string, error) {
	limit := big.NewInt(1_000_000)
	n, err := rand.Int(rand.Reader, limit)
	if err != nil {
		return "", fmt.Errorf("failed to generate verification code: %w", err)
	}
	return fmt.Sprintf("%0*d", otpDigits, n.Int64()), nil
}
