package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/bootlog/pkg/analyzer"
	"github.com/ccollicutt/bootlog/pkg/config"
	"github.com/ccollicutt/bootlog/pkg/output"
	"github.com/ccollicutt/bootlog/pkg/parser"
	"github.com/ccollicutt/bootlog/pkg/webhook"
)

// ExitCode is set by commands to indicate the result
var ExitCode = 0

// stdinArg names standard input as a log source.
const stdinArg = "-"

// ScanOptions holds command-line options for the scan command.
type ScanOptions struct {
	ConfigFile string
	Output     string
	Stdout     bool
	ReportDir  string
	Verbose    bool
	Quiet      bool

	// Webhook options
	WebhookURL     string
	WebhookToken   string
	WebhookTrigger string
}

// NewScanCommand creates the scan command.
func NewScanCommand() *cobra.Command {
	opts := &ScanOptions{}

	cmd := &cobra.Command{
		Use:   "scan <log-file>...",
		Short: "Report device boots found in log files",
		Long: `Scan device logs for boot start and boot completed markers and write a boot report.

Each start marker opens a boot. The next completion marker closes it and the
boot time is reported in milliseconds (whole seconds). A boot that is still
open when another start marker or the end of the log is reached is reported
as incomplete. Completion markers with no open boot are ignored.

By default the report for <log-file> is written to <log-file>.rpt.
Use "-" to read a log from standard input.

Exit codes:
  0 - Every boot completed
  1 - At least one incomplete boot
  2 - Configuration or runtime error`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScan(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.ConfigFile, "config", "c", "", "Config file (defaults to built-in markers)")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "text", "Report format (text|json|table)")
	cmd.Flags().BoolVar(&opts.Stdout, "stdout", false, "Write reports to stdout instead of report files")
	cmd.Flags().StringVar(&opts.ReportDir, "report-dir", "", "Directory for report files (default: next to each log)")
	cmd.Flags().BoolVarP(&opts.Verbose, "verbose", "v", false, "Append scan statistics to each report")
	cmd.Flags().BoolVarP(&opts.Quiet, "quiet", "q", false, "Summary only, no per-boot details")

	cmd.Flags().StringVar(&opts.WebhookURL, "webhook-url", "", "Webhook endpoint URL")
	cmd.Flags().StringVar(&opts.WebhookToken, "webhook-token", "", "Bearer token for webhook auth")
	cmd.Flags().StringVar(&opts.WebhookTrigger, "webhook-trigger", string(config.WebhookTriggerOnIncomplete),
		"When to fire webhook (on_incomplete|always|never)")

	return cmd
}

func runScan(cmd *cobra.Command, args []string, opts *ScanOptions) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := config.Load(ctx, opts.ConfigFile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if opts.ReportDir != "" {
		cfg.Report.Dir = opts.ReportDir
	}

	formatter, err := output.NewFormatter(opts.Output, output.FormatOptions{
		Verbose: opts.Verbose,
		Quiet:   opts.Quiet,
	})
	if err != nil {
		return err
	}

	scanner, err := analyzer.NewScanner(cfg)
	if err != nil {
		return fmt.Errorf("creating scanner: %w", err)
	}

	files, err := expandInputs(args, cfg.Report.Extension)
	if err != nil {
		return err
	}
	if !opts.Stdout {
		if err := checkReportPaths(files, cfg.Report); err != nil {
			return err
		}
	}

	switch config.WebhookTrigger(opts.WebhookTrigger) {
	case config.WebhookTriggerOnIncomplete, config.WebhookTriggerAlways, config.WebhookTriggerNever:
	default:
		return fmt.Errorf("invalid --webhook-trigger %q (must be on_incomplete, always, or never)", opts.WebhookTrigger)
	}

	webhooks := collectWebhooks(cfg, opts)
	client := webhook.NewClient()
	incomplete := false

	for _, file := range files {
		report, err := scanFile(ctx, cmd, scanner, file)
		if err != nil {
			return err
		}

		if opts.Stdout || file == stdinArg {
			if err := formatter.Format(ctx, report, cmd.OutOrStdout()); err != nil {
				return fmt.Errorf("formatting report: %w", err)
			}
		} else {
			path := reportPath(file, cfg.Report)
			if err := writeReport(ctx, formatter, report, path); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Report written: %s\n", path)
		}

		sendWebhooks(ctx, client, webhooks, report)

		if report.HasIncomplete() {
			incomplete = true
		}
	}

	if incomplete {
		ExitCode = 1
	}

	return nil
}

// expandInputs expands glob arguments, passing "-" through untouched.
// Paths ending in the report extension are skipped so that a glob over a
// log directory does not rescan reports from an earlier run.
func expandInputs(args []string, reportExt string) ([]string, error) {
	var patterns []string
	useStdin := false
	for _, a := range args {
		if a == stdinArg {
			useStdin = true
			continue
		}
		patterns = append(patterns, a)
	}

	matches, err := parser.ExpandGlobs(patterns)
	if err != nil {
		return nil, fmt.Errorf("expanding log files: %w", err)
	}

	var files []string
	if useStdin {
		files = append(files, stdinArg)
	}
	for _, m := range matches {
		if reportExt != "" && strings.HasSuffix(m, reportExt) {
			slog.Info("skipping report file", "path", m)
			continue
		}
		files = append(files, m)
	}

	if len(files) == 0 {
		return nil, errors.New("no log files to scan")
	}
	return files, nil
}

// checkReportPaths fails when two log files would write the same report,
// as happens with --report-dir and logs sharing a base name.
func checkReportPaths(files []string, rc config.ReportConfig) error {
	seen := make(map[string]string, len(files))
	for _, file := range files {
		if file == stdinArg {
			continue
		}
		path := filepath.Clean(reportPath(file, rc))
		if prev, ok := seen[path]; ok {
			return fmt.Errorf("%s and %s would both write report %s", prev, file, path)
		}
		seen[path] = file
	}
	return nil
}

func scanFile(ctx context.Context, cmd *cobra.Command, scanner *analyzer.Scanner, file string) (*output.Report, error) {
	var src parser.LineSource
	if file == stdinArg {
		src = parser.NewReaderSource("stdin", cmd.InOrStdin())
	} else {
		fs, err := parser.OpenFileSource(file)
		if err != nil {
			return nil, err
		}
		src = fs
	}
	defer src.Close()

	result, boots, err := scanner.Collect(ctx, src)
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", src.Name(), err)
	}

	return output.NewReport(result, boots), nil
}

// reportPath returns where the report for logFile is written.
func reportPath(logFile string, rc config.ReportConfig) string {
	name := logFile + rc.Extension
	if rc.Dir == "" {
		return name
	}
	return filepath.Join(rc.Dir, filepath.Base(name))
}

func writeReport(ctx context.Context, f output.Formatter, report *output.Report, path string) (err error) {
	out, err := os.Create(path) // #nosec G304 -- report path derives from user-provided log path
	if err != nil {
		return fmt.Errorf("creating report file: %w", err)
	}
	defer func() {
		if cerr := out.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("closing report file: %w", cerr)
		}
	}()

	if err := f.Format(ctx, report, out); err != nil {
		return fmt.Errorf("writing report %s: %w", path, err)
	}
	return nil
}

// sendWebhooks sends the report to all configured webhooks.
// Failures are logged but don't fail the scan.
func sendWebhooks(ctx context.Context, client *webhook.Client, webhooks []config.WebhookConfig, report *output.Report) {
	for _, wh := range webhooks {
		if !webhook.ShouldFire(wh.Trigger, report.HasIncomplete()) {
			continue
		}

		resp := client.Send(ctx, report, webhook.SendOptions{
			URL:     wh.URL,
			Token:   wh.Token,
			Timeout: wh.Timeout,
		})

		name := wh.Name
		if name == "" {
			name = wh.URL
		}

		if resp.Success() {
			slog.Info("webhook sent", "webhook", name, "status", resp.StatusCode, "duration", resp.Duration)
		} else {
			slog.Warn("webhook failed", "webhook", name, "error", resp.Error)
		}
	}
}

// collectWebhooks merges config file webhooks with the CLI webhook.
func collectWebhooks(cfg *config.Config, opts *ScanOptions) []config.WebhookConfig {
	webhooks := make([]config.WebhookConfig, 0, len(cfg.Webhooks)+1)
	webhooks = append(webhooks, cfg.Webhooks...)

	if opts.WebhookURL != "" {
		trigger := config.WebhookTrigger(opts.WebhookTrigger)
		if trigger == "" {
			trigger = config.WebhookTriggerOnIncomplete
		}

		webhooks = append(webhooks, config.WebhookConfig{
			Name:    "cli",
			URL:     opts.WebhookURL,
			Token:   opts.WebhookToken,
			Trigger: trigger,
			Timeout: config.DefaultWebhookTimeout,
		})
	}

	return webhooks
}
