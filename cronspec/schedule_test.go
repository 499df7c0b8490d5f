package cronspec

import (
	"testing"
	"time"
)

func TestCompileAndNextEverySecond(t *testing.T) {
	c, err := Compile(JobSchedule{Expr: "* * * * * * *"})
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	base := time.Date(2026, 7, 29, 12, 0, 0, 0, time.UTC)
	next, ok := c.Next(base)
	if !ok {
		t.Fatal("expected a next firing")
	}
	if !next.After(base) {
		t.Errorf("Next(%v) = %v, want strictly after", base, next)
	}
	if got := next.Sub(base); got != time.Second {
		t.Errorf("expected the next second, got offset %v", got)
	}
}

func TestCompileRejectsMalformedExpression(t *testing.T) {
	if _, err := Compile(JobSchedule{Expr: "not a cron expression"}); err == nil {
		t.Error("expected an error for a malformed expression")
	}
}

func TestYearConstraintFiltersCandidates(t *testing.T) {
	c, err := Compile(JobSchedule{Expr: "0 0 0 1 1 * 2030"})
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	base := time.Date(2026, 7, 29, 0, 0, 0, 0, time.UTC)
	next, ok := c.Next(base)
	if !ok {
		t.Fatal("expected a next firing")
	}
	if next.Year() != 2030 {
		t.Errorf("Next year = %d, want 2030", next.Year())
	}
}

func TestYearConstraintExhaustionReportsNotOK(t *testing.T) {
	c, err := Compile(JobSchedule{Expr: "0 0 0 1 1 * 2020"})
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	base := time.Date(2026, 7, 29, 0, 0, 0, 0, time.UTC)
	if _, ok := c.Next(base); ok {
		t.Error("expected a year constraint wholly in the past to exhaust the iterator")
	}
}

func TestDayOfWeekRenumberingMatchesSpecWeekday(t *testing.T) {
	// Spec's day-of-week numbering is 1=Sunday..7=Saturday; this schedule
	// should fire only on Sundays regardless of robfig's native numbering.
	c, err := Compile(JobSchedule{Expr: "0 0 0 * * 1 *"})
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	base := time.Date(2026, 7, 29, 0, 0, 0, 0, time.UTC) // a Wednesday
	next, ok := c.Next(base)
	if !ok {
		t.Fatal("expected a next firing")
	}
	if next.Weekday() != time.Sunday {
		t.Errorf("Next() landed on %v, want Sunday", next.Weekday())
	}
}

func TestSinceGateResolveAfter(t *testing.T) {
	g := SinceGate{}
	if g.Set() {
		t.Error("zero-value SinceGate should report unset")
	}

	withTime := SinceGate{hasTime: true, hour: 9, min: 0, sec: 0}
	now := time.Date(2026, 7, 29, 8, 0, 0, 0, time.UTC)
	target, pending := withTime.ResolveAfter(now)
	if !pending {
		t.Fatal("expected the gate to still be pending")
	}
	if target.Hour() != 9 {
		t.Errorf("target hour = %d, want 9", target.Hour())
	}

	later := time.Date(2026, 7, 29, 10, 0, 0, 0, time.UTC)
	_, pending = withTime.ResolveAfter(later)
	if pending {
		t.Error("expected the gate to have already elapsed")
	}
}
