// Package clock implements the cached wall clock from spec §4.8: a
// process-wide UTC-seconds value refreshed once per second by a
// background goroutine, so hot-path comparisons in the dispatch engine
// avoid a time.Now() syscall per job.
package clock

import (
	"context"
	"sync/atomic"
	"time"
)

// Cached is a single reader/writer pair around an atomically-updated
// unix-seconds value. The zero value is not ready for use; call New.
type Cached struct {
	now atomic.Int64
}

// New returns a Cached clock seeded with the current time. Call Run to
// start the background updater.
func New() *Cached {
	c := &Cached{}
	c.now.Store(time.Now().Unix())
	return c
}

// Now returns the last-cached unix-seconds reading. Consumers tolerate
// up to one second of staleness, per spec §4.8.
func (c *Cached) Now() int64 { return c.now.Load() }

// Run ticks once per second until ctx is cancelled, refreshing the
// cached value from the real clock.
func (c *Cached) Run(ctx context.Context) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.now.Store(time.Now().Unix())
		}
	}
}
