package output

import (
	"context"
	"encoding/json"
	"io"
)

// JSONFormatter formats reports as JSON, one indented document per report.
type JSONFormatter struct {
	opts FormatOptions
}

// NewJSONFormatter creates a new JSON formatter with the given options.
func NewJSONFormatter(opts FormatOptions) *JSONFormatter {
	return &JSONFormatter{opts: opts}
}

// Name returns the format name.
func (f *JSONFormatter) Name() string {
	return "json"
}

// Format renders the report as JSON.
func (f *JSONFormatter) Format(ctx context.Context, report *Report, w io.Writer) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")

	if f.opts.Quiet {
		return encoder.Encode(quietReport{
			Source:  report.Metadata.Source,
			ScanID:  report.Metadata.ScanID,
			Summary: report.Summary,
		})
	}

	return encoder.Encode(report)
}

// quietReport is the summary-only document. The summary fields are inlined
// next to the source so that several quiet reports can be told apart.
type quietReport struct {
	Source string `json:"source"`
	ScanID string `json:"scan_id"`
	Summary
}
