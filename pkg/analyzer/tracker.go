package analyzer

import (
	"context"

	"github.com/ccollicutt/bootlog/pkg/parser"
)

// BootTracker pairs start and completion markers.
//
// At most one boot is open at a time. A start marker force-closes the open
// boot as incomplete before opening a new one; a completion marker closes the
// open boot as completed, or is dropped when nothing is open. Finalize closes
// whatever is still open as incomplete.
type BootTracker struct {
	sink RecordSink

	// pending is the open boot; nil when no boot is open.
	pending *BootRecord
	stats   ScanStats
}

// NewBootTracker creates a tracker that hands closed records to sink.
func NewBootTracker(sink RecordSink) *BootTracker {
	return &BootTracker{sink: sink}
}

// Process applies one classified line.
func (t *BootTracker) Process(ctx context.Context, line *parser.ClassifiedLine) error {
	switch line.Kind {
	case parser.KindStart:
		t.stats.Starts++
		if err := t.closeIncomplete(ctx); err != nil {
			return err
		}
		t.pending = &BootRecord{
			StartLine: line.LineNum,
			StartTime: line.Timestamp,
		}

	case parser.KindComplete:
		if t.pending == nil {
			t.stats.OrphanedCompletions++
			return nil
		}
		rec := *t.pending
		rec.End = &BootEnd{
			Line:     line.LineNum,
			Time:     line.Timestamp,
			Endpoint: line.Endpoint,
		}
		t.pending = nil
		t.stats.Completions++
		return t.sink.Emit(ctx, rec)
	}

	return nil
}

// Pending reports whether a boot is currently open.
func (t *BootTracker) Pending() bool {
	return t.pending != nil
}

// Finalize closes the open boot, if any, as incomplete.
// Called once after the last line has been processed.
func (t *BootTracker) Finalize(ctx context.Context) error {
	return t.closeIncomplete(ctx)
}

// Stats returns the marker counters collected so far.
func (t *BootTracker) Stats() ScanStats {
	return t.stats
}

// Reset clears internal state for reuse.
func (t *BootTracker) Reset() {
	t.pending = nil
	t.stats = ScanStats{}
}

func (t *BootTracker) closeIncomplete(ctx context.Context) error {
	if t.pending == nil {
		return nil
	}
	rec := *t.pending
	t.pending = nil
	t.stats.Incomplete++
	return t.sink.Emit(ctx, rec)
}
