package cronspec

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Fingerprint returns a stable sha256-based signature of a compiled
// JobSchedule: its canonical seven-field cron expression plus every side
// constraint. Two builder runs that produce the same schedule always
// produce the same fingerprint, which makes it useful for log correlation
// and for asserting the builder algebra is deterministic.
func Fingerprint(js JobSchedule) string {
	h := sha256.New()
	fmt.Fprintf(h, "expr=%s|delay=%d|repeat=%d/%d/%s|since=%v",
		js.Expr, js.DelaySec, js.RepeatN, js.RepeatSec, js.RepeatMode, js.Since)
	return hex.EncodeToString(h.Sum(nil))
}
