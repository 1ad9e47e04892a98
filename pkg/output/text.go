package output

import (
	"context"
	"fmt"
	"io"

	"github.com/ccollicutt/bootlog/pkg/analyzer"
)

// TextFormatter formats reports in the classic .rpt layout.
type TextFormatter struct {
	opts FormatOptions
}

// NewTextFormatter creates a new text formatter with the given options.
func NewTextFormatter(opts FormatOptions) *TextFormatter {
	return &TextFormatter{opts: opts}
}

// Name returns the format name.
func (f *TextFormatter) Name() string {
	return "text"
}

// Format renders the report as text.
func (f *TextFormatter) Format(ctx context.Context, report *Report, w io.Writer) error {
	if f.opts.Quiet {
		return formatQuiet(report, w)
	}

	ew := &errWriter{w: w}
	for i := range report.Boots {
		formatBoot(&report.Boots[i], report.Metadata.Source, ew)
	}

	if f.opts.Verbose {
		s := report.Metadata.Stats
		ew.printf("---\n")
		ew.printf("Boots: %d (%d completed, %d incomplete)\n",
			report.Summary.Boots, report.Summary.Completed, report.Summary.Incomplete)
		if report.Summary.Completed > 0 {
			ew.printf("Boot time: average %dms, longest %dms\n",
				report.Summary.AverageBootMillis, report.Summary.LongestBootMillis)
		}
		ew.printf("Lines read: %d (%d timestamped, %d malformed timestamps)\n",
			s.LinesRead, s.LinesTimestamped, s.MalformedTimestamps)
		ew.printf("Orphaned completions: %d\n", s.OrphanedCompletions)
		ew.printf("Scan ID: %s\n", report.Metadata.ScanID)
	}

	return ew.err
}

func formatQuiet(report *Report, w io.Writer) error {
	_, err := fmt.Fprintf(w, "%s: %d boots, %d completed, %d incomplete\n",
		report.Metadata.Source,
		report.Summary.Boots,
		report.Summary.Completed,
		report.Summary.Incomplete)
	return err
}

func formatBoot(b *analyzer.BootRecord, source string, ew *errWriter) {
	ew.printf("=== Device boot ===\n")
	ew.printf("%d(%s): %s Boot Start\n", b.StartLine, source, b.StartTime.Format(TimeLayout))

	if ms, ok := b.BootTimeMillis(); ok {
		ew.printf("%d(%s): %s Boot Completed\n", b.End.Line, source, b.End.Time.Format(TimeLayout))
		ew.printf("\tBoot Time: %dms\n", ms)
	} else {
		ew.printf("**** Incomplete boot ****\n")
	}
	ew.printf("\n")
}

// errWriter keeps the first write error so formatting code can stay linear.
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) printf(format string, args ...any) {
	if e.err != nil {
		return
	}
	_, e.err = fmt.Fprintf(e.w, format, args...)
}
