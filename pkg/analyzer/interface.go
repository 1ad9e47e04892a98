package analyzer

import (
	"context"
)

// RecordSink receives boot records as they are closed.
// Records arrive in the order their start markers appeared.
type RecordSink interface {
	// Emit takes ownership of a closed record. An error stops the scan.
	Emit(ctx context.Context, rec BootRecord) error
}

// RecordCollector is a RecordSink that keeps records in memory.
type RecordCollector struct {
	Records []BootRecord
}

// Emit appends the record.
func (c *RecordCollector) Emit(_ context.Context, rec BootRecord) error {
	c.Records = append(c.Records, rec)
	return nil
}

// SinkFunc adapts a function to the RecordSink interface.
type SinkFunc func(ctx context.Context, rec BootRecord) error

// Emit calls f.
func (f SinkFunc) Emit(ctx context.Context, rec BootRecord) error {
	return f(ctx, rec)
}
