// Package cmd is the CLI front-end (spec.md §6, "external collaborator"):
// cobra subcommands wiring the engine's pure components together, matching
// the teacher's cmd/xplat/cmd package-level var + init() Flags()
// registration style.
package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// Version is set at build time via ldflags.
var Version = "dev"

// SetVersion overrides Version, called from main before Execute.
func SetVersion(v string) { Version = v }

// Global flags shared by plan/build/manifest (spec.md §6).
var (
	flagTag          string
	flagArtifacts    string
	flagTargets      []string
	flagOutputFormat string
	flagWorkspace    string
	flagOutDir       string
	flagNoCache      bool
)

// RootCmd is the top-level `dist` command.
var RootCmd = &cobra.Command{
	Use:   "dist",
	Short: "Plan, build, and package cross-platform release artifacts",
	Long: `dist turns a tagged release of a Rust/Cargo, NPM, or generic source
workspace into a coherent set of shippable artifacts: per-platform archives,
checksums, and a family of installers (shell, PowerShell, Homebrew, MSI,
NPM package), described by a machine-readable dist-manifest.json.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	RootCmd.PersistentFlags().StringVar(&flagTag, "tag", "", "announcement tag to plan/build (default: infer from workspace)")
	RootCmd.PersistentFlags().StringVar(&flagArtifacts, "artifacts", "all", "which artifacts to produce: all, local, global, host")
	RootCmd.PersistentFlags().StringArrayVar(&flagTargets, "target", nil, "restrict to this target triple (repeatable)")
	RootCmd.PersistentFlags().StringVar(&flagOutputFormat, "output-format", "human", "human or json")
	RootCmd.PersistentFlags().StringVar(&flagWorkspace, "workspace", ".", "workspace root to search from")
	RootCmd.PersistentFlags().StringVar(&flagOutDir, "output", "dist-out", "directory to write assembled artifacts into")
	RootCmd.PersistentFlags().BoolVar(&flagNoCache, "no-cache", false, "skip the workspace-discovery cache (spec.md §9)")

	RootCmd.AddCommand(planCmd)
	RootCmd.AddCommand(buildCmd)
	RootCmd.AddCommand(manifestCmd)
	RootCmd.AddCommand(initCmd)
	RootCmd.AddCommand(generateCICmd)
	RootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the dist version",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println(Version)
		return nil
	},
}

// usageError marks a CLI-layer mistake (bad flag value, nonexistent path)
// distinct from an engine failure, per spec.md §6's "exit codes: 0 success,
// 1 generic failure, 2 usage error".
type usageError struct{ err error }

func (e *usageError) Error() string { return e.err.Error() }
func (e *usageError) Unwrap() error { return e.err }

func newUsageError(format string, args ...any) error {
	return &usageError{err: fmt.Errorf(format, args...)}
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	if err := RootCmd.Execute(); err != nil {
		printErr(err)
		var ue *usageError
		if errors.As(err, &ue) {
			return 2
		}
		return 1
	}
	return 0
}

func printErr(err error) {
	if flagOutputFormat == "json" {
		fmt.Fprintf(os.Stderr, "{\"error\": %q}\n", err.Error())
		return
	}
	color.New(color.FgRed, color.Bold).Fprint(os.Stderr, "error: ")
	fmt.Fprintln(os.Stderr, err.Error())
}

// colorEnabled reports whether human-readable output should use ANSI color,
// false for --output-format json (spec.md §6).
func colorEnabled() bool {
	return flagOutputFormat != "json"
}
