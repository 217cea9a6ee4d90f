package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Cycler runs one notification cycle.
type Cycler interface {
	RunCycle(ctx context.Context, name string, force bool) Outcome
}

// Runner drives the periodic cycles for the configured domain.
type Runner struct {
	Logger   *zap.Logger
	Cycler   Cycler
	Domain   string
	Interval time.Duration
}

func NewRunner(logger *zap.Logger, c Cycler, name string, interval time.Duration) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	if interval < time.Second {
		interval = time.Second
	}
	return &Runner{Logger: logger, Cycler: c, Domain: name, Interval: interval}
}

// Run does an immediate forced cycle, then one unforced cycle per interval.
// A tick that fires while the previous cycle is still running is skipped.
// Blocks until ctx is cancelled and the running cycle has finished.
func (r *Runner) Run(ctx context.Context) error {
	l := cronLogger{r.Logger.Sugar()}
	c := cron.New(cron.WithChain(cron.Recover(l), cron.SkipIfStillRunning(l)), cron.WithLogger(l))
	if _, err := c.AddFunc(fmt.Sprintf("@every %s", r.Interval), func() {
		r.Cycler.RunCycle(ctx, r.Domain, false)
	}); err != nil {
		return fmt.Errorf("schedule cycle: %w", err)
	}

	r.Logger.Info("runner_started", zap.String("domain", r.Domain), zap.Duration("interval", r.Interval))
	r.Cycler.RunCycle(ctx, r.Domain, true)

	c.Start()
	<-ctx.Done()
	<-c.Stop().Done()
	r.Logger.Info("runner_stopped")
	return nil
}

// cronLogger routes cron's own messages into zap.
type cronLogger struct{ s *zap.SugaredLogger }

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.s.Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.s.Errorw(msg, append(keysAndValues, "error", err)...)
}
