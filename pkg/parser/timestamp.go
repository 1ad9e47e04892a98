package parser

import (
	"errors"
	"fmt"
	"regexp"
	"time"
)

// TimestampLayout is the layout of a joined date and time of day.
// time.Parse accepts a fractional seconds suffix after it without the layout naming one.
const TimestampLayout = "2006-01-02 15:04:05"

var (
	// ErrNoTimestamp is returned when a line does not start with a timestamp.
	ErrNoTimestamp = errors.New("timestamp pattern did not match")

	// ErrTimestampParse is returned when a line has a timestamp-shaped prefix
	// that is not a valid date or time (month 13, hour 25, ...).
	ErrTimestampParse = errors.New("invalid timestamp")
)

// TimestampExtractor extracts and parses timestamps from log lines.
// The pattern must capture the date in group 1 and the time of day in group 2.
type TimestampExtractor struct {
	pattern *regexp.Regexp
}

// NewTimestampExtractor creates a new timestamp extractor.
func NewTimestampExtractor(pattern *regexp.Regexp) *TimestampExtractor {
	return &TimestampExtractor{pattern: pattern}
}

// Extract attempts to extract and parse a timestamp from a log line.
// The error wraps ErrNoTimestamp or ErrTimestampParse.
func (e *TimestampExtractor) Extract(line string) (time.Time, error) {
	matches := e.pattern.FindStringSubmatch(line)
	if len(matches) < 3 {
		return time.Time{}, ErrNoTimestamp
	}

	tsStr := matches[1] + " " + matches[2]

	ts, err := time.Parse(TimestampLayout, tsStr)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w %q: %v", ErrTimestampParse, tsStr, err)
	}

	return ts, nil
}
