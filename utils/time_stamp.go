package utils

import (
	"time"
)

// MinPlausibleYear is the earliest year a wall clock reading is trusted.
// Real-time clocks that were never set report dates around 1970.
const MinPlausibleYear = 2020

// Clock separates wall-clock time, which may be unset until the GPS
// delivers a fix, from the monotonic uptime used for elapsed intervals.
type Clock interface {
	Now() time.Time
	Uptime() time.Duration
}

type systemClock struct {
	boot time.Time
}

// SystemClock returns a Clock backed by time.Now; uptime counts from the
// moment SystemClock was called.
func SystemClock() Clock {
	return &systemClock{boot: time.Now()}
}

func (c *systemClock) Now() time.Time { return time.Now() }

func (c *systemClock) Uptime() time.Duration { return time.Since(c.boot) }

// UptimeMillis truncates a Clock's uptime to the 32-bit millisecond counter
// stored in every track record.
func UptimeMillis(c Clock) uint32 {
	return uint32(c.Uptime() / time.Millisecond)
}

// PlausibleTime reports whether t lies on or after MinPlausibleYear.
func PlausibleTime(t time.Time, minYear int) bool {
	if minYear <= 0 {
		minYear = MinPlausibleYear
	}
	return t.Year() >= minYear
}

// TrackTimestamp formats t for use in a finalized track filename. Colons are
// avoided because FAT file systems on SD cards reject them.
func TrackTimestamp(t time.Time) string {
	return t.Format("2006-01-02T15.04.05")
}
