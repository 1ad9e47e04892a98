// Package analyzer pairs boot start and completion markers into boot records.
package analyzer

import (
	"math"
	"time"
)

// BootRecord is one boot attempt found in a log.
//
// End is nil for an incomplete boot: one that was force-closed by a later
// start marker or by the end of the log.
type BootRecord struct {
	// StartLine is the line number of the start marker.
	StartLine int `json:"start_line"`

	// StartTime is the timestamp of the start marker.
	StartTime time.Time `json:"start_time"`

	// End is the completion, if one was observed.
	End *BootEnd `json:"end,omitempty"`
}

// BootEnd is the completion half of a BootRecord.
type BootEnd struct {
	// Line is the line number of the completion marker.
	Line int `json:"line"`

	// Time is the timestamp of the completion marker.
	Time time.Time `json:"time"`

	// Endpoint is the listener address reported by the completion marker.
	Endpoint string `json:"endpoint,omitempty"`
}

// Completed reports whether a completion marker closed this boot.
func (r BootRecord) Completed() bool {
	return r.End != nil
}

// Duration returns the boot time truncated to whole seconds.
// The second result is false for an incomplete boot. Boot times beyond the
// range of time.Duration (about 292 years) saturate; BootTimeMillis is exact.
func (r BootRecord) Duration() (time.Duration, bool) {
	secs, ok := r.wholeSeconds()
	if !ok {
		return 0, false
	}
	const limit = math.MaxInt64 / int64(time.Second)
	switch {
	case secs > limit:
		return math.MaxInt64, true
	case secs < -limit:
		return math.MinInt64, true
	}
	return time.Duration(secs) * time.Second, true
}

// BootTimeMillis returns the boot time in milliseconds, counted in whole
// seconds: sub-second parts of the difference are dropped, not rounded.
// The second result is false for an incomplete boot.
func (r BootRecord) BootTimeMillis() (int64, bool) {
	secs, ok := r.wholeSeconds()
	if !ok {
		return 0, false
	}
	return secs * 1000, true
}

// wholeSeconds returns End.Time - StartTime truncated toward zero, computed
// from Unix seconds so that it never saturates.
func (r BootRecord) wholeSeconds() (int64, bool) {
	if r.End == nil {
		return 0, false
	}
	secs := r.End.Time.Unix() - r.StartTime.Unix()
	nanos := r.End.Time.Nanosecond() - r.StartTime.Nanosecond()
	switch {
	case secs > 0 && nanos < 0:
		secs--
	case secs < 0 && nanos > 0:
		secs++
	}
	return secs, true
}

// ScanStats contains counters for a single scan.
type ScanStats struct {
	// LinesRead is the total number of lines read from the source.
	LinesRead int `json:"lines_read"`

	// LinesTimestamped is the number of lines carrying a valid timestamp.
	LinesTimestamped int `json:"lines_timestamped"`

	// MalformedTimestamps counts timestamp-shaped lines that failed to parse.
	MalformedTimestamps int `json:"malformed_timestamps"`

	// Starts counts boot start markers.
	Starts int `json:"starts"`

	// Completions counts completion markers that closed a boot.
	Completions int `json:"completions"`

	// OrphanedCompletions counts completion markers seen with no boot open.
	OrphanedCompletions int `json:"orphaned_completions"`

	// Incomplete counts boots closed without a completion marker.
	Incomplete int `json:"incomplete"`
}
