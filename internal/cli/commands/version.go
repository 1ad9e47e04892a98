package commands

import (
	"fmt"
	"io"
	"runtime/debug"

	"github.com/spf13/cobra"
)

// Version is set via ldflags at build time.
var Version = "dev"

// NewVersionCommand creates the version command.
func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Long: `Print the version of bootlog.

The version comes from -ldflags "-X .../commands.Version=..." when set,
otherwise from the module version recorded by "go install". The Go
toolchain and VCS revision are shown when the binary carries them.`,
		Run: func(cmd *cobra.Command, args []string) {
			info, _ := debug.ReadBuildInfo()
			printVersion(cmd.OutOrStdout(), info)
		},
	}
}

func printVersion(w io.Writer, info *debug.BuildInfo) {
	version := Version
	if info == nil {
		fmt.Fprintf(w, "bootlog %s\n", version)
		return
	}

	if version == "dev" && info.Main.Version != "" && info.Main.Version != "(devel)" {
		version = info.Main.Version
	}
	fmt.Fprintf(w, "bootlog %s\n", version)

	if info.GoVersion != "" {
		fmt.Fprintf(w, "  go:       %s\n", info.GoVersion)
	}

	var revision, modified string
	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			revision = s.Value
		case "vcs.modified":
			modified = s.Value
		}
	}
	if revision != "" {
		if modified == "true" {
			revision += " (modified)"
		}
		fmt.Fprintf(w, "  revision: %s\n", revision)
	}
}
