package scoring

import (
	"regexp"
	"strconv"
	"strings"
)

// nominalLockDaysUnspecified is reported when a pool is flagged as
// locked but the description carries no parseable duration. One day is
// the smallest value that still reads as "locked" downstream.
const nominalLockDaysUnspecified = 1

var (
	lockDaysRx   = regexp.MustCompile(`(?i)(\d+)\s*day(?:s)?`)
	lockMonthsRx = regexp.MustCompile(`(?i)(\d+)\s*month(?:s)?`)
	lockYearsRx  = regexp.MustCompile(`(?i)(\d+)\s*year(?:s)?`)
)

// LockedDays extracts a lock duration in days from a free-text lock
// description. Rules are tried in order, first match wins: explicit
// days, then months (x30), then years (x365). An unlocked flag, empty
// text, or the literal "Not Locked" short-circuit to 0.
func LockedDays(locked bool, lockInfo string) int {
	lockInfo = strings.TrimSpace(lockInfo)
	if !locked || lockInfo == "" || lockInfo == "Not Locked" {
		return 0
	}

	if m := lockDaysRx.FindStringSubmatch(lockInfo); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			return n
		}
	}
	if m := lockMonthsRx.FindStringSubmatch(lockInfo); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			return n * 30
		}
	}
	if m := lockYearsRx.FindStringSubmatch(lockInfo); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			return n * 365
		}
	}

	return nominalLockDaysUnspecified
}
