package scheduler

import "github.com/eztimer/timer/jsoncodec"

// JobView is the read-only introspection shape a Snapshot reports for
// one job (spec §9's diagnostics note).
type JobView struct {
	ID         uint64 `json:"id"`
	Group      string `json:"group"`
	Expr       string `json:"expr"`
	DelaySec   uint64 `json:"delay_sec"`
	RepeatN    uint32 `json:"repeat_count"`
	RepeatSec  uint64 `json:"repeat_interval_sec"`
	RepeatMode string `json:"repeat_mode"`
	Cancelled  bool   `json:"cancelled"`
}

// Snapshot renders the scheduler's current job table as JSON, encoded
// with sonic (the teacher's wire codec, see jsoncodec). Intended for
// diagnostics endpoints, not for driving scheduling decisions.
func (s *Scheduler) Snapshot() ([]byte, error) {
	s.mu.RLock()
	views := make([]JobView, 0, len(s.jobs))
	for id, j := range s.jobs {
		sched := j.Schedule().Schedule
		views = append(views, JobView{
			ID:         uint64(id),
			Group:      j.Group(),
			Expr:       sched.Expr,
			DelaySec:   sched.DelaySec,
			RepeatN:    sched.RepeatN,
			RepeatSec:  sched.RepeatSec,
			RepeatMode: sched.RepeatMode.String(),
			Cancelled:  j.Cancelled(),
		})
	}
	s.mu.RUnlock()
	return jsoncodec.Marshal(views)
}
