package cronspec

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
)

// RepeatMode selects how a firing's repeat burst (spec §4.7) is driven.
type RepeatMode int

const (
	// Sequential awaits each invocation before starting the next.
	Sequential RepeatMode = iota
	// Concurrent spawns each invocation independently and does not await it.
	Concurrent
)

func (m RepeatMode) String() string {
	if m == Concurrent {
		return "concurrent"
	}
	return "sequential"
}

// SinceGate is an optional wall-clock lower bound: any present component
// establishes a lower bound instant before which a job must not fire.
type SinceGate struct {
	hasDate bool
	year    int
	month   int
	day     int

	hasTime bool
	hour    int
	min     int
	sec     int
}

// Set reports whether either the date or time component was specified.
func (g SinceGate) Set() bool { return g.hasDate || g.hasTime }

// ResolveAfter computes the concrete instant the gate denotes, taking a
// missing date from `now` (observed in tz) and using midnight (00:00:00)
// for a missing time, and reports whether that instant still lies in the
// future relative to now.
func (g SinceGate) ResolveAfter(now time.Time) (target time.Time, pending bool) {
	if !g.Set() {
		return time.Time{}, false
	}
	year, month, day := now.Date()
	if g.hasDate {
		year, month, day = g.year, time.Month(g.month), g.day
	}
	hour, min, sec := 0, 0, 0
	if g.hasTime {
		hour, min, sec = g.hour, g.min, g.sec
	}
	target = time.Date(year, month, day, hour, min, sec, 0, now.Location())
	return target, target.After(now)
}

// JobSchedule is the compiled artifact of one builder run: the canonical
// seven-field cron expression plus the side constraints from spec §3.
type JobSchedule struct {
	Expr       string
	Since      SinceGate
	DelaySec   uint64
	RepeatN    uint32
	RepeatSec  uint64
	RepeatMode RepeatMode
}

// Compiled wraps a parsed JobSchedule with the live iterator state needed
// to amortize repeated "next instant" queries (spec §9's caching note).
type Compiled struct {
	Schedule JobSchedule
	cron     cron.Schedule
	yearOK   func(int) bool
}

// Compile parses a JobSchedule's cron expression into a ready-to-iterate
// Compiled schedule. The six non-year fields are handed to robfig/cron
// (spec §6's external parser collaborator); the year field, which robfig
// does not support, is enforced by a thin wrapping predicate.
func Compile(js JobSchedule) (*Compiled, error) {
	fieldsStr, yearField, err := splitYear(js.Expr)
	if err != nil {
		return nil, err
	}
	parser := cron.NewParser(cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	sched, err := parser.Parse(fieldsStr)
	if err != nil {
		return nil, fmt.Errorf("cronspec: malformed cron expression %q: %w", js.Expr, err)
	}
	yearOK, err := parseYearMatcher(yearField)
	if err != nil {
		return nil, fmt.Errorf("cronspec: malformed year field %q: %w", yearField, err)
	}
	return &Compiled{Schedule: js, cron: sched, yearOK: yearOK}, nil
}

// maxYearScan bounds how many candidate instants Next will examine before
// concluding the year constraint can never again be satisfied (spec §7,
// "cron iterator exhausted").
const maxYearScan = 4000

// Next returns the first instant strictly after `after` that satisfies
// both the underlying cron schedule and the year constraint. ok is false
// when no such instant exists within the scan bound, which the caller
// must treat exactly like an exhausted iterator (self-eviction).
func (c *Compiled) Next(after time.Time) (t time.Time, ok bool) {
	candidate := after
	for i := 0; i < maxYearScan; i++ {
		candidate = c.cron.Next(candidate)
		if candidate.IsZero() {
			return time.Time{}, false
		}
		if c.yearOK(candidate.Year()) {
			return candidate, true
		}
	}
	return time.Time{}, false
}

// dowFieldToRobfig remaps the day-of-week field from this package's
// 1=Sunday..7=Saturday numbering (spec §6) to robfig/cron's native
// 0=Sunday..6=Saturday numbering. Only plain digits are remapped; "*"
// and step/range separators pass through untouched. This assumes the
// field was produced by our own compiler, whose grammar is closed over
// digits, ',', '-', '/' and '*'.
func dowFieldToRobfig(field string) string {
	out := make([]byte, 0, len(field))
	i := 0
	for i < len(field) {
		c := field[i]
		if c >= '0' && c <= '9' {
			j := i
			for j < len(field) && field[j] >= '0' && field[j] <= '9' {
				j++
			}
			n := 0
			fmt.Sscanf(field[i:j], "%d", &n)
			out = append(out, []byte(fmt.Sprintf("%d", (n+6)%7))...)
			i = j
			continue
		}
		out = append(out, c)
		i++
	}
	return string(out)
}

// splitYear separates the seven compiled fields into the six robfig
// accepts and the trailing year field.
func splitYear(expr string) (sixFields string, yearField string, err error) {
	var parts [numSlots]string
	n, err := fmt.Sscan(expr, &parts[0], &parts[1], &parts[2], &parts[3], &parts[4], &parts[5], &parts[6])
	if err != nil || n != numSlots {
		return "", "", fmt.Errorf("cronspec: expected %d fields, got %q", numSlots, expr)
	}
	parts[slotDOW] = dowFieldToRobfig(parts[slotDOW])
	six := parts[slotSecond] + " " + parts[slotMinute] + " " + parts[slotHour] + " " +
		parts[slotDOM] + " " + parts[slotMonth] + " " + parts[slotDOW]
	return six, parts[slotYear], nil
}
