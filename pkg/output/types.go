// Package output provides formatting and output generation for boot reports.
package output

import (
	"time"

	"github.com/google/uuid"

	"github.com/ccollicutt/bootlog/pkg/analyzer"
)

// TimeLayout renders report timestamps: no fractional seconds, no zone.
const TimeLayout = "2006-01-02 15:04:05"

// Report is the boot report for one log source.
type Report struct {
	// Summary provides aggregate statistics.
	Summary Summary `json:"summary"`

	// Boots lists boot records in the order their start markers appeared.
	Boots []analyzer.BootRecord `json:"boots"`

	// Metadata provides context about the scan.
	Metadata Metadata `json:"metadata"`
}

// Summary provides aggregate statistics.
type Summary struct {
	// Boots is the number of boot start markers found.
	Boots int `json:"boots"`

	// Completed is the number of boots closed by a completion marker.
	Completed int `json:"completed"`

	// Incomplete is the number of boots that never completed.
	Incomplete int `json:"incomplete"`

	// LongestBootMillis is the longest completed boot time, in ms.
	LongestBootMillis int64 `json:"longest_boot_ms"`

	// AverageBootMillis is the mean completed boot time, in ms.
	AverageBootMillis int64 `json:"average_boot_ms"`
}

// Metadata provides context about the scan.
type Metadata struct {
	// ScanID uniquely identifies this report, e.g. across webhook deliveries.
	ScanID string `json:"scan_id"`

	// Source is the log file that was scanned.
	Source string `json:"source"`

	// Stats holds line and marker counters from the scan.
	Stats analyzer.ScanStats `json:"stats"`

	// ScannedAt is when the scan finished.
	ScannedAt time.Time `json:"scanned_at"`

	// Duration is how long the scan took.
	Duration time.Duration `json:"duration"`
}

// NewReport creates a Report from a scan result and its boot records.
func NewReport(result *analyzer.ScanResult, boots []analyzer.BootRecord) *Report {
	if boots == nil {
		boots = []analyzer.BootRecord{}
	}

	report := &Report{
		Boots: boots,
		Metadata: Metadata{
			ScanID:    uuid.NewString(),
			Source:    result.Source,
			Stats:     result.Stats,
			ScannedAt: result.EndTime,
			Duration:  result.EndTime.Sub(result.StartTime),
		},
		Summary: Summary{Boots: len(boots)},
	}

	var total int64
	for _, b := range boots {
		ms, ok := b.BootTimeMillis()
		if !ok {
			report.Summary.Incomplete++
			continue
		}
		report.Summary.Completed++
		total += ms
		if report.Summary.Completed == 1 || ms > report.Summary.LongestBootMillis {
			report.Summary.LongestBootMillis = ms
		}
	}
	if report.Summary.Completed > 0 {
		report.Summary.AverageBootMillis = total / int64(report.Summary.Completed)
	}

	return report
}

// HasIncomplete returns true if any boot never completed.
func (r *Report) HasIncomplete() bool {
	return r.Summary.Incomplete > 0
}
