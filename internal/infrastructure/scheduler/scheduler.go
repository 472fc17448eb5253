package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

var (
	ErrSchedulerNotRunning = errors.New("scheduler is not running")
	ErrJobNotFound         = errors.New("job not found")
	ErrInvalidConfig       = errors.New("invalid scheduler configuration")
)

// Job is a unit of background work run on a fixed interval.
type Job interface {
	Name() string
	Run(ctx context.Context) error
}

// Schedule binds a job to its interval and per-run timeout.
type Schedule struct {
	Job      Job
	Interval time.Duration
	Timeout  time.Duration
	// RunOnStart executes the job immediately instead of waiting one interval.
	RunOnStart bool
}

func (s Schedule) validate() error {
	if s.Job == nil {
		return fmt.Errorf("%w: job is nil", ErrInvalidConfig)
	}
	if s.Interval <= 0 {
		return fmt.Errorf("%w: interval for %s must be positive", ErrInvalidConfig, s.Job.Name())
	}
	return nil
}

// Scheduler runs registered jobs periodically until stopped.
type Scheduler struct {
	logger    *zap.Logger
	schedules map[string]Schedule
	trigger   map[string]chan struct{}

	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool
}

// New creates a scheduler with no jobs.
func New(logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scheduler{
		logger:    logger,
		schedules: make(map[string]Schedule),
		trigger:   make(map[string]chan struct{}),
	}
}

// Register adds a job. Jobs registered after Start run from the next Start.
func (s *Scheduler) Register(schedule Schedule) error {
	if err := schedule.validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	name := schedule.Job.Name()
	if _, exists := s.schedules[name]; exists {
		return fmt.Errorf("%w: job %s already registered", ErrInvalidConfig, name)
	}
	if schedule.Timeout <= 0 {
		schedule.Timeout = schedule.Interval
	}
	s.schedules[name] = schedule
	return nil
}

// Start launches one loop per registered job.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}
	s.isRunning = true

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	for name, schedule := range s.schedules {
		ch := make(chan struct{}, 1)
		s.trigger[name] = ch
		s.wg.Add(1)
		go s.loop(ctx, schedule, ch)
	}

	s.logger.Info("Scheduler started", zap.Int("jobs", len(s.schedules)))
	return nil
}

// Stop cancels every loop and waits for in-flight runs or ctx expiry.
func (s *Scheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = false
	s.trigger = make(map[string]chan struct{})
	s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("Scheduler stopped gracefully")
		return nil
	case <-ctx.Done():
		s.logger.Warn("Scheduler stop timed out")
		return ctx.Err()
	}
}

// IsRunning reports whether Start has been called without a matching Stop.
func (s *Scheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.isRunning
}

// Trigger asks a running job loop to execute now. A pending trigger is not queued twice.
func (s *Scheduler) Trigger(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return ErrSchedulerNotRunning
	}
	ch, ok := s.trigger[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrJobNotFound, name)
	}
	select {
	case ch <- struct{}{}:
	default:
	}
	return nil
}

func (s *Scheduler) loop(ctx context.Context, schedule Schedule, trigger <-chan struct{}) {
	defer s.wg.Done()

	name := schedule.Job.Name()
	ticker := time.NewTicker(schedule.Interval)
	defer ticker.Stop()

	s.logger.Info("Job scheduled",
		zap.String("job", name),
		zap.Duration("interval", schedule.Interval),
	)

	if schedule.RunOnStart {
		s.execute(ctx, schedule)
	}

	for {
		select {
		case <-ctx.Done():
			s.logger.Debug("Job loop stopping", zap.String("job", name))
			return
		case <-ticker.C:
			s.execute(ctx, schedule)
		case <-trigger:
			s.execute(ctx, schedule)
		}
	}
}

func (s *Scheduler) execute(ctx context.Context, schedule Schedule) {
	name := schedule.Job.Name()

	runCtx, cancel := context.WithTimeout(ctx, schedule.Timeout)
	defer cancel()

	startTime := time.Now()
	err := s.safeRun(runCtx, schedule.Job)
	duration := time.Since(startTime)

	if err != nil {
		s.logger.Error("Scheduled job failed",
			zap.String("job", name),
			zap.Duration("duration", duration),
			zap.Error(err),
		)
		return
	}

	s.logger.Debug("Scheduled job completed",
		zap.String("job", name),
		zap.Duration("duration", duration),
	)
}

func (s *Scheduler) safeRun(ctx context.Context, job Job) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("job %s panicked: %v", job.Name(), r)
		}
	}()
	return job.Run(ctx)
}
