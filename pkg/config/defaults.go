package config

import (
	"os"
	"time"
)

// Default values for configuration.
const (
	DefaultStartPattern     = `\(log\.c\.166\)\s*server\s+started`
	DefaultCompletePattern  = `oejs\.AbstractConnector:Started\s+SelectChannelConnector@(\d{1,3}(?:\.\d{1,3}){3}):(\d+)`
	DefaultTimestampPattern = `^(\d{4}-\d{2}-\d{2})\s+(\d{2}:\d{2}:\d{2}(?:\.\d+)?)`
	DefaultReportExtension  = ".rpt"
	DefaultWebhookTimeout   = 10 * time.Second
)

// Environment variable names.
const (
	EnvStartPattern    = "BOOTLOG_START_PATTERN"
	EnvCompletePattern = "BOOTLOG_COMPLETE_PATTERN"
	EnvReportExtension = "BOOTLOG_REPORT_EXTENSION"
)

// DefaultConfig returns a configuration matching the stock device log markers.
func DefaultConfig() *Config {
	return &Config{
		Markers: MarkerConfig{
			StartPattern:    DefaultStartPattern,
			CompletePattern: DefaultCompletePattern,
		},
		TimestampFormat: TimestampConfig{
			Pattern: DefaultTimestampPattern,
		},
		Report: ReportConfig{
			Extension: DefaultReportExtension,
		},
	}
}

// applyEnvironmentOverrides applies environment variable overrides to the config.
func (c *Config) applyEnvironmentOverrides() {
	if p := os.Getenv(EnvStartPattern); p != "" {
		c.Markers.StartPattern = p
	}
	if p := os.Getenv(EnvCompletePattern); p != "" {
		c.Markers.CompletePattern = p
	}
	if ext := os.Getenv(EnvReportExtension); ext != "" {
		c.Report.Extension = ext
	}
}
