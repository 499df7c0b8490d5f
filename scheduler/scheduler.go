// Package scheduler is the user-visible façade (spec §4.9): register
// extensions, submit jobs built from a cronspec.Builder, start the
// dispatch loop, and optionally block until the host cancels it.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/eztimer/timer/clock"
	"github.com/eztimer/timer/cronspec"
	"github.com/eztimer/timer/dispatch"
	"github.com/eztimer/timer/ext"
	"github.com/eztimer/timer/group"
	"github.com/eztimer/timer/handler"
	"github.com/eztimer/timer/job"
	"github.com/eztimer/timer/logging"
)

// Scheduler is the public entry point. Construct one with New, register
// whatever extensions handlers will need, Submit jobs, then Start (or
// RunUntilCancelled to block).
type Scheduler struct {
	logger *slog.Logger
	loc    *time.Location

	baseCtx        context.Context
	workerPoolSize int

	ext        *ext.Map
	clock      *clock.Cached
	dispatcher *dispatch.Dispatcher

	mu     sync.RWMutex
	jobs   map[job.ID]*job.Job
	nextID atomic.Uint64

	started   bool
	runCancel context.CancelFunc
}

// New creates a new Scheduler with the given options.
func New(opts ...Option) *Scheduler {
	logger, _ := logging.New(logging.Options{Component: "scheduler"})
	s := &Scheduler{
		logger:  logger,
		loc:     time.Local,
		baseCtx: context.Background(),
		ext:     ext.New(),
		jobs:    make(map[job.ID]*job.Job),
	}

	for _, opt := range opts {
		opt(s)
	}

	s.clock = clock.New()
	s.dispatcher = dispatch.New(dispatch.Config{
		Jobs:           s,
		Ext:            s.ext,
		Clock:          s.clock,
		Location:       s.loc,
		Logger:         s.logger,
		WorkerPoolSize: s.workerPoolSize,
	})
	return s
}

// RegisterExtension registers v under the run-time identity of T, making
// it available to every handler that declares a parameter of type T
// (spec §4.3). It is a free function rather than a method because Go
// methods cannot carry their own type parameters.
func RegisterExtension[T any](s *Scheduler, v T) {
	ext.Insert(s.ext, v)
}

// Lookup resolves a JobId to its Job, implementing dispatch.Lookup for
// the dispatch engine.
func (s *Scheduler) Lookup(id job.ID) (*job.Job, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	j, ok := s.jobs[id]
	return j, ok
}

// Submit compiles every JobSchedule accumulated on b and registers one
// independent Job per schedule, sharing the same handler and group
// label. Schedules produced by a builder punctuated with And (spec
// §4.2) therefore become sibling jobs rather than one job juggling
// several schedules. It returns the assigned JobIds in schedule order.
func (s *Scheduler) Submit(b *cronspec.Builder, h *handler.Handler, opts ...SubmitOption) ([]job.ID, error) {
	cfg := submitConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}
	g := group.Normalize(cfg.group)

	schedules, err := b.Build()
	if err != nil {
		return nil, fmt.Errorf("scheduler: submit: %w", err)
	}

	ids := make([]job.ID, 0, len(schedules))
	now := time.Now().In(s.loc)

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, js := range schedules {
		compiled, err := cronspec.Compile(js)
		if err != nil {
			return ids, fmt.Errorf("scheduler: submit: %w", err)
		}
		id := job.ID(s.nextID.Add(1))
		jb := job.New(id, g, compiled, h)
		s.jobs[id] = jb
		ids = append(ids, id)

		if fireUnix, ok := jb.NextFire(now); ok {
			s.dispatcher.Submit(dispatch.Entry{FireUnix: fireUnix, JobID: id})
		} else {
			s.logger.Warn("job has no future firing at registration", "job_id", id, "group", g)
		}
	}
	return ids, nil
}

// Cancel marks a job cancelled. It self-evicts from the dispatch queue
// at its next pop (spec §3); a firing already in progress runs to
// completion.
func (s *Scheduler) Cancel(id job.ID) bool {
	s.mu.RLock()
	j, ok := s.jobs[id]
	s.mu.RUnlock()
	if !ok {
		return false
	}
	j.Cancel()
	return true
}

// Start begins executing scheduled jobs. Calling Start on an
// already-started Scheduler is a no-op.
func (s *Scheduler) Start() {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return
	}
	ctx, cancel := context.WithCancel(s.baseContext())
	s.runCancel = cancel
	s.started = true
	jobCount := len(s.jobs)
	s.mu.Unlock()

	go s.clock.Run(ctx)
	go func() {
		if err := s.dispatcher.Run(ctx); err != nil {
			s.logger.Error("dispatcher stopped", "err", err)
		}
	}()
	s.logger.Info("scheduler started", "jobs", jobCount)
}

// RunUntilCancelled starts the scheduler, if it is not already running,
// and blocks until ctx is cancelled, then stops it.
func (s *Scheduler) RunUntilCancelled(ctx context.Context) {
	s.Start()
	<-ctx.Done()
	s.Stop()
}

// Stop stops the scheduler. It does not wait for in-flight firings to
// finish; the scheduler exposes no drain hook beyond this (spec §9).
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.started {
		return
	}
	s.started = false
	if s.runCancel != nil {
		s.runCancel()
		s.runCancel = nil
	}
	s.logger.Info("scheduler stopped")
}

// Running returns true if the scheduler is running.
func (s *Scheduler) Running() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.started
}

func (s *Scheduler) baseContext() context.Context {
	if s.baseCtx != nil {
		return s.baseCtx
	}
	return context.Background()
}
