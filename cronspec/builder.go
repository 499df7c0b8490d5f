// Package cronspec implements the schedule builder (spec §4.2): it
// accumulates fluent calls into a seven-field cron expression plus the
// delay/since-gate/repeat side constraints, then compiles the result into
// a JobSchedule ready for the dispatch engine.
package cronspec

import (
	"errors"
	"fmt"

	"github.com/eztimer/timer/interval"
)

// Builder accumulates one or more JobSchedules. Punctuating with And
// finalizes the current schedule and starts a fresh one; the implicit
// call And performs before Build covers the common single-schedule case.
type Builder struct {
	fields fields
	since  SinceGate
	delay  uint64
	repeatN    uint32
	repeatSec  uint64
	repeatMode RepeatMode

	done []JobSchedule
	err  error
}

// New returns an empty builder. The zero repeat count is 1 (a single
// fire), matching spec's "repeat_count (>=1; 1 means single fire)".
func New() *Builder {
	return &Builder{repeatN: 1}
}

func (b *Builder) fail(err error) *Builder {
	if b.err == nil {
		b.err = err
	}
	return b
}

// At writes a literal into the slot matching v's unit (spec §4.2's `at`).
func (b *Builder) At(v interval.Interval) *Builder {
	if b.err != nil {
		return b
	}
	if v.IsWeekdayLiteral() {
		if v.Unit() == interval.UnitWeekday {
			b.fields.overwrite(slotDOW, "2-6")
		} else {
			b.fields.append(slotDOW, numberedFragment(uint32(v.WeekdayIndex())))
		}
		return b
	}
	slot, ok := slotForUnit(v.Unit())
	if !ok {
		return b.fail(fmt.Errorf("cronspec: At called on unreducible interval"))
	}
	b.fields.append(slot, numberedFragment(v.Value()))
	return b
}

// SinceEvery emits "start/step" into the slot matching both operands'
// shared unit. start and step must carry the same unit.
func (b *Builder) SinceEvery(start, step interval.Interval) *Builder {
	if b.err != nil {
		return b
	}
	if start.Unit() != step.Unit() {
		return b.fail(errors.New("cronspec: SinceEvery requires operands of the same unit"))
	}
	slot, ok := slotForUnit(start.Unit())
	if !ok {
		return b.fail(errors.New("cronspec: SinceEvery called on a non-numeric unit"))
	}
	b.fields.append(slot, pairFragment(start.Value(), step.Value(), "/"))
	return b
}

// Every emits "*/step" for a numeric unit, the plain weekday numeral for a
// weekday literal, or "2-6" for Weekday.
func (b *Builder) Every(v interval.Interval) *Builder {
	if b.err != nil {
		return b
	}
	if v.IsWeekdayLiteral() {
		if v.Unit() == interval.UnitWeekday {
			b.fields.overwrite(slotDOW, "2-6")
		} else {
			b.fields.append(slotDOW, numberedFragment(uint32(v.WeekdayIndex())))
		}
		return b
	}
	slot, ok := slotForUnit(v.Unit())
	if !ok {
		return b.fail(errors.New("cronspec: Every called on an unreducible interval"))
	}
	b.fields.append(slot, "*/"+numberedFragment(v.Value()))
	return b
}

// FromTo emits "start-end" into the slot matching both operands' shared
// numeric unit.
func (b *Builder) FromTo(start, end interval.Interval) *Builder {
	if b.err != nil {
		return b
	}
	if start.Unit() != end.Unit() {
		return b.fail(errors.New("cronspec: FromTo requires operands of the same unit"))
	}
	slot, ok := slotForUnit(start.Unit())
	if !ok {
		return b.fail(errors.New("cronspec: FromTo called on a non-numeric unit"))
	}
	b.fields.append(slot, pairFragment(start.Value(), end.Value(), "-"))
	return b
}

// AtTime is shorthand for At(Hours(h)).At(Minutes(m)).At(Seconds(s)).
func (b *Builder) AtTime(hour, min, sec uint32) *Builder {
	return b.atHMS(&hour, &min, &sec)
}

// AtDate is shorthand for At(Months(mo)).At(Days(d)).At(Years(y)).
func (b *Builder) AtDate(year int, month, day uint32) *Builder {
	return b.atYMD(&year, &month, &day)
}

// AtDatetime sets any subset of the six date/time components.
func (b *Builder) AtDatetime(year *int, month, day, hour, min, sec *uint32) *Builder {
	b.atYMD(year, month, day)
	b.atHMS(hour, min, sec)
	return b
}

func (b *Builder) atYMD(year *int, month, day *uint32) *Builder {
	if year != nil {
		y, err := interval.Years(uint32(*year))
		if err != nil {
			return b.fail(err)
		}
		b.At(y)
	}
	if month != nil {
		m, err := interval.Months(*month)
		if err != nil {
			return b.fail(err)
		}
		b.At(m)
	}
	if day != nil {
		d, err := interval.Days(*day)
		if err != nil {
			return b.fail(err)
		}
		b.At(d)
	}
	return b
}

func (b *Builder) atHMS(hour, min, sec *uint32) *Builder {
	if hour != nil {
		h, err := interval.Hours(*hour)
		if err != nil {
			return b.fail(err)
		}
		b.At(h)
	}
	if min != nil {
		m, err := interval.Minutes(*min)
		if err != nil {
			return b.fail(err)
		}
		b.At(m)
	}
	if sec != nil {
		s, err := interval.Seconds(*sec)
		if err != nil {
			return b.fail(err)
		}
		b.At(s)
	}
	return b
}

// SinceTime sets the SinceGate's time-of-day component.
func (b *Builder) SinceTime(hour, min, sec int) *Builder {
	b.since.hasTime = true
	b.since.hour, b.since.min, b.since.sec = hour, min, sec
	return b
}

// SinceDate sets the SinceGate's date component.
func (b *Builder) SinceDate(year int, month, day int) *Builder {
	b.since.hasDate = true
	b.since.year, b.since.month, b.since.day = year, month, day
	return b
}

// SinceDatetime sets both SinceGate components at once.
func (b *Builder) SinceDatetime(year, month, day, hour, min, sec int) *Builder {
	b.SinceDate(year, month, day)
	b.SinceTime(hour, min, sec)
	return b
}

// After increments the additive launch delay.
func (b *Builder) After(seconds uint64) *Builder {
	b.delay += seconds
	return b
}

// RepeatSeq sets a SEQUENTIAL repeat burst of n invocations spaced by
// step.
func (b *Builder) RepeatSeq(n uint32, step interval.Interval) *Builder {
	b.repeatN = n
	b.repeatSec = step.AsSeconds()
	b.repeatMode = Sequential
	return b
}

// RepeatAsync sets a CONCURRENT repeat burst of n invocations spaced by
// step.
func (b *Builder) RepeatAsync(n uint32, step interval.Interval) *Builder {
	b.repeatN = n
	b.repeatSec = step.AsSeconds()
	b.repeatMode = Concurrent
	return b
}

// And finalizes the schedule accumulated so far, pushes it onto the
// builder's schedule list, and resets the builder to a fresh empty state.
func (b *Builder) And() *Builder {
	if b.err != nil {
		return b
	}
	js := JobSchedule{
		Expr:       b.fields.compile(),
		Since:      b.since,
		DelaySec:   b.delay,
		RepeatN:    b.repeatN,
		RepeatSec:  b.repeatSec,
		RepeatMode: b.repeatMode,
	}
	if js.RepeatN == 0 {
		js.RepeatN = 1
	}
	b.done = append(b.done, js)
	*b = Builder{repeatN: 1, done: b.done, err: b.err}
	return b
}

// Build finalizes (calling And once automatically) and returns every
// accumulated JobSchedule, or the first construction/compile error
// encountered along the way.
func (b *Builder) Build() ([]JobSchedule, error) {
	b.And()
	if b.err != nil {
		return nil, b.err
	}
	return b.done, nil
}
