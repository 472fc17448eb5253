package scheduler

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/propertyhub/backend/internal/infrastructure/config"
)

// SessionExpiryJobName identifies the onboarding session sweeper.
const SessionExpiryJobName = "onboarding_session_expiry"

// SessionExpirer marks sessions whose links have lapsed as expired.
type SessionExpirer interface {
	ExpireStaleSessions(ctx context.Context, batch int) (int, error)
}

// SessionExpiryJob sweeps onboarding sessions past their link expiry.
type SessionExpiryJob struct {
	expirer SessionExpirer
	batch   int
	logger  *zap.Logger
}

// NewSessionExpiryJob creates the sweeper job.
func NewSessionExpiryJob(expirer SessionExpirer, batch int, logger *zap.Logger) *SessionExpiryJob {
	if logger == nil {
		logger = zap.NewNop()
	}
	if batch <= 0 {
		batch = 200
	}
	return &SessionExpiryJob{expirer: expirer, batch: batch, logger: logger}
}

func (j *SessionExpiryJob) Name() string { return SessionExpiryJobName }

func (j *SessionExpiryJob) Run(ctx context.Context) error {
	expired, err := j.expirer.ExpireStaleSessions(ctx, j.batch)
	if err != nil {
		return err
	}
	if expired > 0 {
		j.logger.Info("Expired onboarding sessions",
			zap.Int("count", expired),
			zap.Time("swept_at", time.Now()),
		)
	}
	return nil
}

// RegisterSessionExpiry wires the sweeper using the scheduler configuration.
// It is a no-op when the sweeper is disabled.
func RegisterSessionExpiry(s *Scheduler, cfg config.SchedulerConfig, expirer SessionExpirer, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}
	if !cfg.SessionExpiryEnabled {
		logger.Info("Onboarding session expiry is disabled")
		return nil
	}
	return s.Register(Schedule{
		Job:        NewSessionExpiryJob(expirer, cfg.SessionExpiryBatch, logger),
		Interval:   cfg.SessionExpiryInterval,
		Timeout:    cfg.SessionExpiryInterval,
		RunOnStart: true,
	})
}
