package output

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"
)

// TableFormatter renders one table row per boot.
type TableFormatter struct {
	opts FormatOptions
}

// NewTableFormatter creates a new table formatter with the given options.
func NewTableFormatter(opts FormatOptions) *TableFormatter {
	return &TableFormatter{opts: opts}
}

// Name returns the format name.
func (f *TableFormatter) Name() string {
	return "table"
}

// Format renders the report as a table.
func (f *TableFormatter) Format(ctx context.Context, report *Report, w io.Writer) error {
	if f.opts.Quiet {
		return formatQuiet(report, w)
	}

	table := tablewriter.NewWriter(w)
	table.Header("#", "Start Line", "Boot Start", "End Line", "Boot Completed", "Boot Time")

	for i, b := range report.Boots {
		row := []string{
			strconv.Itoa(i + 1),
			strconv.Itoa(b.StartLine),
			b.StartTime.Format(TimeLayout),
			"-",
			"incomplete",
			"-",
		}
		if ms, ok := b.BootTimeMillis(); ok {
			row[3] = strconv.Itoa(b.End.Line)
			row[4] = b.End.Time.Format(TimeLayout)
			row[5] = fmt.Sprintf("%dms", ms)
		}
		if err := table.Append(row); err != nil {
			return fmt.Errorf("adding table row: %w", err)
		}
	}

	if err := table.Render(); err != nil {
		return fmt.Errorf("rendering table: %w", err)
	}

	return formatQuiet(report, w)
}
