package cronspec

import (
	"fmt"
	"strconv"
	"strings"
)

// parseYearMatcher compiles a year field (the comma-list / step / range
// grammar from spec §3, minus any day-of-week meaning) into a predicate.
// robfig/cron has no year field, so this is the thin wrapping enforcement
// spec §6 calls for.
func parseYearMatcher(field string) (func(int) bool, error) {
	if field == "*" || field == "" {
		return func(int) bool { return true }, nil
	}
	var preds []func(int) bool
	for _, frag := range strings.Split(field, ",") {
		p, err := parseYearFragment(frag)
		if err != nil {
			return nil, err
		}
		preds = append(preds, p)
	}
	return func(y int) bool {
		for _, p := range preds {
			if p(y) {
				return true
			}
		}
		return false
	}, nil
}

func parseYearFragment(frag string) (func(int) bool, error) {
	switch {
	case strings.HasPrefix(frag, "*/"):
		step, err := strconv.Atoi(frag[2:])
		if err != nil || step <= 0 {
			return nil, fmt.Errorf("bad step fragment %q", frag)
		}
		return func(y int) bool { return y%step == 0 }, nil
	case strings.Contains(frag, "/"):
		parts := strings.SplitN(frag, "/", 2)
		start, err1 := strconv.Atoi(parts[0])
		step, err2 := strconv.Atoi(parts[1])
		if err1 != nil || err2 != nil || step <= 0 {
			return nil, fmt.Errorf("bad since-every fragment %q", frag)
		}
		return func(y int) bool { return y >= start && (y-start)%step == 0 }, nil
	case strings.Contains(frag, "-"):
		parts := strings.SplitN(frag, "-", 2)
		lo, err1 := strconv.Atoi(parts[0])
		hi, err2 := strconv.Atoi(parts[1])
		if err1 != nil || err2 != nil || hi < lo {
			return nil, fmt.Errorf("bad range fragment %q", frag)
		}
		return func(y int) bool { return y >= lo && y <= hi }, nil
	default:
		v, err := strconv.Atoi(frag)
		if err != nil {
			return nil, fmt.Errorf("bad numeric fragment %q", frag)
		}
		return func(y int) bool { return y == v }, nil
	}
}
