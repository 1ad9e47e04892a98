// Package config provides configuration loading and validation for bootlog.
package config

import (
	"regexp"
	"time"
)

// Config is the root configuration structure loaded from YAML.
type Config struct {
	Markers         MarkerConfig    `yaml:"markers"`
	TimestampFormat TimestampConfig `yaml:"timestamp_format"`
	Report          ReportConfig    `yaml:"report"`
	Webhooks        []WebhookConfig `yaml:"webhooks,omitempty"`
}

// MarkerConfig holds the two event markers a boot is delimited by.
type MarkerConfig struct {
	// StartPattern matches the line that opens a boot.
	StartPattern string `yaml:"start_pattern"`

	// CompletePattern matches the line that completes a boot.
	// When it has two capture groups they are reported as address and port.
	CompletePattern string `yaml:"complete_pattern"`

	compiledStart    *regexp.Regexp
	compiledComplete *regexp.Regexp
}

// CompiledStartPattern returns the compiled start marker.
func (m *MarkerConfig) CompiledStartPattern() *regexp.Regexp {
	return m.compiledStart
}

// CompiledCompletePattern returns the compiled completion marker.
func (m *MarkerConfig) CompiledCompletePattern() *regexp.Regexp {
	return m.compiledComplete
}

// TimestampConfig defines how to find the timestamp at the start of a line.
type TimestampConfig struct {
	// Pattern captures the date in group 1 and the time of day in group 2.
	Pattern string `yaml:"pattern"`

	compiledPattern *regexp.Regexp
}

// CompiledPattern returns the pre-compiled regex pattern.
func (t *TimestampConfig) CompiledPattern() *regexp.Regexp {
	return t.compiledPattern
}

// ReportConfig controls where report files are written.
type ReportConfig struct {
	// Extension is appended to the log file name to form the report name.
	Extension string `yaml:"extension"`

	// Dir, when set, places reports in this directory instead of next to the log.
	Dir string `yaml:"dir,omitempty"`
}

// WebhookTrigger determines when a webhook fires.
type WebhookTrigger string

const (
	// WebhookTriggerOnIncomplete fires only when a report has an incomplete boot (default).
	WebhookTriggerOnIncomplete WebhookTrigger = "on_incomplete"
	// WebhookTriggerAlways fires after every scanned file.
	WebhookTriggerAlways WebhookTrigger = "always"
	// WebhookTriggerNever disables the webhook.
	WebhookTriggerNever WebhookTrigger = "never"
)

// WebhookConfig defines a webhook endpoint for sending boot reports.
type WebhookConfig struct {
	// Name is an optional identifier for the webhook.
	Name string `yaml:"name,omitempty"`

	// URL is the webhook endpoint (required).
	URL string `yaml:"url"`

	// Token is an optional bearer token for authentication.
	Token string `yaml:"token,omitempty"`

	// Trigger determines when the webhook fires.
	// Defaults to "on_incomplete" if not specified.
	Trigger WebhookTrigger `yaml:"trigger,omitempty"`

	// Timeout is the HTTP request timeout.
	// Defaults to 10s if not specified.
	Timeout time.Duration `yaml:"timeout,omitempty"`
}
