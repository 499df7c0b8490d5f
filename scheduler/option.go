package scheduler

import (
	"context"
	"log/slog"
	"time"
)

// Option configures a Scheduler at construction, mirroring the teacher's
// functional-options style.
type Option func(*Scheduler)

// WithBaseContext sets the base context used for all dispatch-engine
// goroutines. A cancelable child context is created on Start and
// cancelled on Stop.
func WithBaseContext(ctx context.Context) Option {
	return func(s *Scheduler) {
		if ctx != nil {
			s.baseCtx = ctx
		}
	}
}

// WithLogger sets a custom logger for the scheduler and dispatch engine.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Scheduler) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithLocation sets the timezone cron instants are computed in (spec
// §6). Defaults to the host local zone.
func WithLocation(loc *time.Location) Option {
	return func(s *Scheduler) {
		if loc != nil {
			s.loc = loc
		}
	}
}

// WithWorkerPoolSize bounds how many blocking handler invocations run
// concurrently. <= 0 (the default) means unbounded.
func WithWorkerPoolSize(n int) Option {
	return func(s *Scheduler) {
		s.workerPoolSize = n
	}
}

// SubmitOption configures one Submit call.
type SubmitOption func(*submitConfig)

type submitConfig struct {
	group string
}

// WithGroup attaches a diagnostic group label to every job produced by a
// Submit call (SPEC_FULL.md §4). Jobs with no explicit group fall into
// group.Default.
func WithGroup(name string) SubmitOption {
	return func(c *submitConfig) { c.group = name }
}
