// Package runid generates the per-firing correlation id that the
// dispatch engine attaches to every log line produced while a handler is
// running, so a burst of log lines from one firing (spec §4.7's repeat
// burst can emit many) can be traced back to a single invocation.
package runid

import "github.com/google/uuid"

// New returns a fresh run id.
func New() string {
	return uuid.NewString()
}
