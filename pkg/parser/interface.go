package parser

import (
	"context"
)

// LineSource provides an iterator over raw log lines.
// Implementations must be safe for sequential access (not concurrent).
type LineSource interface {
	// Next returns the next line with its 1-based line number.
	// Returns io.EOF when no more lines are available.
	Next(ctx context.Context) (*LogLine, error)

	// Name identifies the source in reports (usually the file path).
	Name() string

	// Close releases any resources held by the source.
	Close() error
}
