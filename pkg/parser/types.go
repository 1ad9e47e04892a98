// Package parser reads device log lines and classifies boot markers.
package parser

import "time"

// LogLine is a raw log line as read from a source.
type LogLine struct {
	// Content is the raw line text.
	Content string

	// Source is the file path (or stream name) this line came from.
	Source string

	// LineNum is the 1-based line number in the source.
	LineNum int
}

// EventKind tells which boot marker, if any, a timestamped line carries.
type EventKind int

const (
	// KindNone is a timestamped line without a boot marker.
	KindNone EventKind = iota
	// KindStart marks the beginning of a boot.
	KindStart
	// KindComplete marks a finished boot.
	KindComplete
)

// String returns the lower-case name of the kind.
func (k EventKind) String() string {
	switch k {
	case KindStart:
		return "start"
	case KindComplete:
		return "complete"
	default:
		return "none"
	}
}

// ClassifiedLine is a timestamped line together with its marker kind.
type ClassifiedLine struct {
	// LineNum is the 1-based line number in the source.
	LineNum int

	// Timestamp is the parsed line timestamp (UTC, no zone information in the log).
	Timestamp time.Time

	// Kind is the boot marker found on the line.
	Kind EventKind

	// Endpoint is the listener address:port from a completion marker, if captured.
	Endpoint string
}
