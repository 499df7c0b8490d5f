// Package group normalizes the optional, purely diagnostic label a job
// can be submitted under (SPEC_FULL.md §4): jobs with no explicit group
// fall into Default so log lines and snapshots always carry one.
package group

import "strings"

const Default = "default"

func Normalize(value string) string {
	if strings.TrimSpace(value) == "" {
		return Default
	}
	return strings.TrimSpace(value)
}
