// Package job implements the job object (spec §4.5): a handler paired
// with a compiled schedule, a stable JobId, a cancellation flag, and an
// iterator over the schedule's upcoming firing instants.
//
// Per SPEC_FULL.md §4's adopted design alternative (spec §9, "an
// equivalent and often simpler design"), a builder punctuated with And()
// expands at registration into one independent Job per schedule, sharing
// handler and extensions. This package therefore models a single
// schedule per Job rather than spec's multi-schedule Job with a chosen-
// schedule index.
package job

import (
	"sync/atomic"
	"time"

	"github.com/eztimer/timer/cronspec"
	"github.com/eztimer/timer/handler"
)

// ID is a dense, monotonically assigned job identity (spec's JobId).
type ID uint64

// Job pairs a compiled schedule with a handler reference and the mutable
// runtime state the dispatch engine needs.
type Job struct {
	id       ID
	group    string
	schedule *cronspec.Compiled
	handler  *handler.Handler

	cancelled atomic.Bool
	// sinceApplied latches once the SinceGate has been honored at the
	// first fire, per spec §4.7/§9: the gate only gates the very first
	// firing, never subsequent ones.
	sinceApplied atomic.Bool
}

// New constructs a Job. id is assigned by the caller (the scheduler
// façade), per spec's "submit assigns a fresh dense JobId".
func New(id ID, group string, schedule *cronspec.Compiled, h *handler.Handler) *Job {
	return &Job{id: id, group: group, schedule: schedule, handler: h}
}

// ID returns the job's stable identity.
func (j *Job) ID() ID { return j.id }

// Group returns the job's (purely diagnostic) group label.
func (j *Job) Group() string { return j.group }

// Schedule returns the job's compiled schedule.
func (j *Job) Schedule() *cronspec.Compiled { return j.schedule }

// Handler returns the job's handler reference.
func (j *Job) Handler() *handler.Handler { return j.handler }

// Cancel marks the job cancelled. A cancelled job's NextFire always
// reports none, which evicts it from the dispatch queue at its next pop
// (spec §3 invariant).
func (j *Job) Cancel() { j.cancelled.Store(true) }

// Cancelled reports whether Cancel was called.
func (j *Job) Cancelled() bool { return j.cancelled.Load() }

// NextFire computes the job's next firing instant after `after`. It
// returns ok=false when the job is cancelled or the cron iterator is
// exhausted (spec §4.5/§7) — in both cases the caller must not re-insert
// the job into the dispatch queue.
func (j *Job) NextFire(after time.Time) (fireUnix int64, ok bool) {
	if j.Cancelled() {
		return 0, false
	}
	t, ok := j.schedule.Next(after)
	if !ok {
		return 0, false
	}
	return t.Unix(), true
}

// ConsumeSinceGate reports the SinceGate's effect only the first time it
// is called for this Job: if the gate is set and its resolved instant is
// still in the future, it returns that instant and true; every call
// thereafter returns false, so later firings (naturally already beyond
// the gate, per spec §4.7) are never re-gated.
func (j *Job) ConsumeSinceGate(now time.Time) (target time.Time, pending bool) {
	if !j.sinceApplied.CompareAndSwap(false, true) {
		return time.Time{}, false
	}
	return j.schedule.Schedule.Since.ResolveAfter(now)
}
