package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/bootlog/pkg/config"
)

// NewValidateCommand creates the validate command.
func NewValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [config-file]",
		Short: "Validate a configuration file",
		Long: `Validate a bootlog configuration file without scanning any logs.

Without an argument the built-in configuration (plus environment overrides)
is validated and shown.

Checks:
  - YAML syntax
  - Marker and timestamp regex validity
  - Timestamp pattern capture groups (date and time of day)
  - Webhook URLs and triggers`,
		Args: cobra.MaximumNArgs(1),
		RunE: runValidate,
	}
}

func runValidate(cmd *cobra.Command, args []string) error {
	configPath := ""
	if len(args) == 1 {
		configPath = args[0]
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	out := cmd.OutOrStdout()
	if configPath == "" {
		fmt.Fprintln(out, "Validating built-in configuration...")
	} else {
		fmt.Fprintf(out, "Validating %s...\n", configPath)
	}

	cfg, err := config.Load(ctx, configPath)
	if err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	fmt.Fprintf(out, "\nConfiguration valid!\n")
	fmt.Fprintf(out, "  Start marker:    %s\n", cfg.Markers.StartPattern)
	fmt.Fprintf(out, "  Complete marker: %s\n", cfg.Markers.CompletePattern)
	fmt.Fprintf(out, "  Timestamp:       %s\n", cfg.TimestampFormat.Pattern)
	fmt.Fprintf(out, "  Report suffix:   %s\n", cfg.Report.Extension)
	if cfg.Report.Dir != "" {
		fmt.Fprintf(out, "  Report dir:      %s\n", cfg.Report.Dir)
	}

	if len(cfg.Webhooks) > 0 {
		fmt.Fprintf(out, "\nWebhooks:\n")
		for i, wh := range cfg.Webhooks {
			name := wh.Name
			if name == "" {
				name = wh.URL
			}
			fmt.Fprintf(out, "  %d. %s [%s, timeout %s]\n", i+1, name, wh.Trigger, wh.Timeout)
		}
	}

	return nil
}
