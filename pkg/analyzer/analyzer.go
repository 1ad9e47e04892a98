package analyzer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/ccollicutt/bootlog/pkg/config"
	"github.com/ccollicutt/bootlog/pkg/parser"
)

// Scanner drives the classifier and a BootTracker over a line source.
type Scanner struct {
	classifier *parser.Classifier
	logger     *slog.Logger
}

// ScannerOption configures scanner behavior.
type ScannerOption func(*Scanner)

// WithLogger sets the logger used for skipped lines and scan summaries.
func WithLogger(l *slog.Logger) ScannerOption {
	return func(s *Scanner) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewScanner creates a scanner using the markers of a validated config.
func NewScanner(cfg *config.Config, opts ...ScannerOption) (*Scanner, error) {
	ts := cfg.TimestampFormat.CompiledPattern()
	start := cfg.Markers.CompiledStartPattern()
	complete := cfg.Markers.CompiledCompletePattern()

	if ts == nil || start == nil || complete == nil {
		return nil, errors.New("config has uncompiled patterns (call config.Validate first)")
	}

	return NewScannerWithClassifier(parser.NewClassifier(ts, start, complete), opts...), nil
}

// NewScannerWithClassifier creates a scanner around an existing classifier.
func NewScannerWithClassifier(c *parser.Classifier, opts ...ScannerOption) *Scanner {
	s := &Scanner{
		classifier: c,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ScanResult describes a finished scan of one source.
type ScanResult struct {
	// Source is the name of the scanned source.
	Source string

	// Stats holds line and marker counters.
	Stats ScanStats

	// StartTime is when the scan began.
	StartTime time.Time

	// EndTime is when the scan completed.
	EndTime time.Time
}

// Scan reads src to the end, handing each closed boot record to sink in
// start order. Lines with malformed timestamps are skipped; the only errors
// are read failures, sink failures and context cancellation.
func (s *Scanner) Scan(ctx context.Context, src parser.LineSource, sink RecordSink) (*ScanResult, error) {
	result := &ScanResult{
		Source:    src.Name(),
		StartTime: time.Now(),
	}

	tracker := NewBootTracker(sink)
	var linesRead, timestamped, malformed int

	for {
		line, err := src.Next(ctx)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading log source: %w", err)
		}
		linesRead++

		cl, err := s.classifier.Classify(line.LineNum, line.Content)
		if err != nil {
			malformed++
			s.logger.Debug("skipping line with malformed timestamp",
				"source", line.Source, "line", line.LineNum, "error", err)
			continue
		}
		if cl == nil {
			continue
		}
		timestamped++

		if cl.Kind == parser.KindComplete && !tracker.Pending() {
			s.logger.Debug("ignoring completion with no boot in progress",
				"source", line.Source, "line", line.LineNum)
		}

		if err := tracker.Process(ctx, cl); err != nil {
			return nil, fmt.Errorf("processing line %d: %w", line.LineNum, err)
		}
	}

	if err := tracker.Finalize(ctx); err != nil {
		return nil, fmt.Errorf("finalizing boots: %w", err)
	}

	result.Stats = tracker.Stats()
	result.Stats.LinesRead = linesRead
	result.Stats.LinesTimestamped = timestamped
	result.Stats.MalformedTimestamps = malformed
	result.EndTime = time.Now()

	s.logger.Info("scan complete",
		"source", result.Source,
		"lines", linesRead,
		"boots", result.Stats.Starts,
		"incomplete", result.Stats.Incomplete,
		"orphaned_completions", result.Stats.OrphanedCompletions)

	return result, nil
}

// Collect scans src and returns the boot records alongside the result.
func (s *Scanner) Collect(ctx context.Context, src parser.LineSource) (*ScanResult, []BootRecord, error) {
	collector := &RecordCollector{}
	result, err := s.Scan(ctx, src, collector)
	if err != nil {
		return nil, nil, err
	}
	return result, collector.Records, nil
}
