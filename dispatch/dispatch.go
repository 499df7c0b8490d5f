// Package dispatch implements the priority-ordered dispatch engine (spec
// §4.6) and the firing task it spawns (spec §4.7): it pops due entries
// off a min-heap, spawns a child goroutine per firing that honors
// delay/since-gate and drives the repeat burst, and never awaits that
// child — re-insertion of the job's subsequent firing is posted to a
// decoupled channel before the handler runs, so a slow handler cannot
// starve the schedule (spec §4.6, §5).
package dispatch

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/eztimer/timer/clock"
	"github.com/eztimer/timer/cronspec"
	"github.com/eztimer/timer/ext"
	"github.com/eztimer/timer/handler"
	"github.com/eztimer/timer/internal/workerpool"
	"github.com/eztimer/timer/job"
	"github.com/eztimer/timer/runid"
)

// Lookup resolves a JobId to its Job. The façade owns the id-keyed job
// table (spec §4.9); the dispatch engine only needs read access to it.
type Lookup interface {
	Lookup(id job.ID) (*job.Job, bool)
}

// Dispatcher is the C6/C7 engine: a guarded heap plus the driver and
// re-insertion loops described in spec §4.6's pseudocode.
type Dispatcher struct {
	queue    *Queue
	reinsert chan Entry
	jobs     Lookup
	ext      *ext.Map
	clock    *clock.Cached
	loc      *time.Location
	logger   *slog.Logger
	pool     *workerpool.Pool
}

// Config bundles the Dispatcher's dependencies.
type Config struct {
	Jobs     Lookup
	Ext      *ext.Map
	Clock    *clock.Cached
	Location *time.Location
	Logger   *slog.Logger
	// WorkerPoolSize bounds concurrent blocking-handler invocations.
	// <= 0 means unbounded.
	WorkerPoolSize int
}

// New constructs a Dispatcher. It does not start the loops; call Run.
func New(cfg Config) *Dispatcher {
	loc := cfg.Location
	if loc == nil {
		loc = time.Local
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{
		queue:    NewQueue(),
		reinsert: make(chan Entry, 1024),
		jobs:     cfg.Jobs,
		ext:      cfg.Ext,
		clock:    cfg.Clock,
		loc:      loc,
		logger:   logger,
		pool:     workerpool.New(cfg.WorkerPoolSize),
	}
}

// Submit inserts a job's first firing into the queue. Called once at
// registration, outside the driver loop.
func (d *Dispatcher) Submit(e Entry) { d.queue.Push(e) }

// Len reports the number of entries currently queued.
func (d *Dispatcher) Len() int { return d.queue.Len() }

// Run drives the dispatch engine until ctx is cancelled. It supervises
// the driver loop and the re-insertion loop (spec §4.6); an error from
// either (there are none in steady state — both only return on ctx
// cancellation) stops the group.
func (d *Dispatcher) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { d.reinsertLoop(ctx); return nil })
	g.Go(func() error { d.driverLoop(ctx); return nil })
	return g.Wait()
}

func (d *Dispatcher) reinsertLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case e := <-d.reinsert:
			d.queue.Push(e)
		}
	}
}

func (d *Dispatcher) driverLoop(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			return
		}
		entry, ok := d.queue.Pop()
		if !ok {
			select {
			case <-ctx.Done():
				return
			case <-time.After(time.Second):
			}
			continue
		}
		go d.handleEntry(ctx, entry)
	}
}

// handleEntry is the per-firing child task: sleep until due, post the
// job's subsequent firing for re-insertion, then run the firing task.
func (d *Dispatcher) handleEntry(ctx context.Context, entry Entry) {
	j, ok := d.jobs.Lookup(entry.JobID)
	if !ok {
		return
	}

	delay := entry.FireUnix - d.clock.Now()
	if delay < 0 {
		delay = 0
	}
	select {
	case <-ctx.Done():
		return
	case <-time.After(time.Duration(delay) * time.Second):
	}

	if nextUnix, ok := j.NextFire(time.Unix(entry.FireUnix, 0).In(d.loc)); ok {
		select {
		case d.reinsert <- Entry{FireUnix: nextUnix, JobID: j.ID()}:
		case <-ctx.Done():
			return
		}
	} else {
		d.logger.Debug("job evicted: cancelled or schedule exhausted", "job_id", j.ID())
	}

	d.runFiringTask(ctx, j, entry.FireUnix)
}

// runFiringTask implements spec §4.7: delay, since-gate, then the repeat
// burst.
func (d *Dispatcher) runFiringTask(ctx context.Context, j *job.Job, fireUnix int64) {
	id := runid.New()
	logger := d.logger.With("job_id", j.ID(), "run_id", id, "group", j.Group())
	sched := j.Schedule().Schedule

	if sched.DelaySec > 0 {
		if !sleepCtx(ctx, time.Duration(sched.DelaySec)*time.Second) {
			return
		}
	}

	now := time.Unix(d.clock.Now(), 0).In(d.loc)
	if target, pending := j.ConsumeSinceGate(now); pending {
		if !sleepCtx(ctx, time.Until(target)) {
			return
		}
	}

	logger.Debug("firing", "fire_time", time.Unix(fireUnix, 0).In(d.loc))
	d.runBurst(ctx, j.Handler(), sched.RepeatN, sched.RepeatSec, sched.RepeatMode, logger)
}

func sleepCtx(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	select {
	case <-ctx.Done():
		return false
	case <-time.After(d):
		return true
	}
}

// runBurst drives the repeat_count invocations (spec §4.7 step 3).
func (d *Dispatcher) runBurst(ctx context.Context, h *handler.Handler, n uint32, intervalSec uint64, mode cronspec.RepeatMode, logger *slog.Logger) {
	interval := time.Duration(intervalSec) * time.Second
	sequential := mode == cronspec.Sequential

	invoke := func() {
		switch h.Kind() {
		case handler.Blocking:
			if err := h.Invoke(d.ext); err != nil {
				logger.Error("handler invocation failed", "err", err)
			}
		case handler.Suspending:
			if err := <-h.InvokeSuspend(d.ext); err != nil {
				logger.Error("handler invocation failed", "err", err)
			}
		}
	}

	if sequential {
		d.pool.Go(func() {
			for i := uint32(0); i < n; i++ {
				invoke()
				if i < n-1 && interval > 0 {
					time.Sleep(interval)
				}
			}
		})
		return
	}

	for i := uint32(0); i < n; i++ {
		d.pool.Go(invoke)
		if i < n-1 && interval > 0 {
			if !sleepCtx(ctx, interval) {
				return
			}
		}
	}
}
