package scheduler

import (
	"context"
	"fmt"
	"time"

	xlogger "CryptoBasket/pkg/logger"

	"github.com/robfig/cron/v3"
)

// Refresher is the periodic job.
type Refresher interface {
	Refresh(ctx context.Context) error
}

// RefreshFunc adapts a plain function to Refresher.
type RefreshFunc func(ctx context.Context) error

func (f RefreshFunc) Refresh(ctx context.Context) error { return f(ctx) }

// Scheduler triggers dashboard refreshes on a cron schedule. A run that is still
// going when the next tick fires makes that tick a no-op.
type Scheduler struct {
	cron    *cron.Cron
	job     Refresher
	logger  *xlogger.Logger
	timeout time.Duration

	ctx    context.Context
	cancel context.CancelFunc
}

func New(job Refresher, timeout time.Duration, logger *xlogger.Logger) *Scheduler {
	if logger == nil {
		logger = xlogger.Nop()
	}
	ctx, cancel := context.WithCancel(context.Background())
	cl := cronLogger{l: logger}
	return &Scheduler{
		cron:    cron.New(cron.WithSeconds(), cron.WithLogger(cl), cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl))),
		job:     job,
		logger:  logger,
		timeout: timeout,
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Register adds the refresh job under schedule, e.g. "@every 60s" or "0 */5 * * * *".
func (s *Scheduler) Register(schedule string) error {
	if _, err := s.cron.AddFunc(schedule, s.RunNow); err != nil {
		return fmt.Errorf("register refresh %q: %w", schedule, err)
	}
	return nil
}

// RunNow performs one refresh synchronously.
func (s *Scheduler) RunNow() {
	ctx := s.ctx
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	start := time.Now()
	if err := s.job.Refresh(ctx); err != nil {
		s.logger.Error("scheduled refresh failed", xlogger.Error(err))
		return
	}
	s.logger.Debug("scheduled refresh done", xlogger.Duration("took", time.Since(start)))
}

// Entries reports the number of registered jobs.
func (s *Scheduler) Entries() int { return len(s.cron.Entries()) }

func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info("scheduler started", xlogger.Int("jobs", s.Entries()))
}

// Stop stops new runs and waits for a running one to finish, up to ctx.
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
	}
	s.cancel()
	s.logger.Info("scheduler stopped")
}

// cronLogger routes cron's own logging into the application logger.
type cronLogger struct {
	l *xlogger.Logger
}

func (c cronLogger) Info(msg string, keysAndValues ...any) {
	c.l.Debug("cron: "+msg, kv(keysAndValues)...)
}

func (c cronLogger) Error(err error, msg string, keysAndValues ...any) {
	c.l.Error("cron: "+msg, append(kv(keysAndValues), xlogger.Error(err))...)
}

func kv(keysAndValues []any) []xlogger.Field {
	out := make([]xlogger.Field, 0, len(keysAndValues)/2)
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		key, ok := keysAndValues[i].(string)
		if !ok {
			continue
		}
		out = append(out, xlogger.Any(key, keysAndValues[i+1]))
	}
	return out
}
