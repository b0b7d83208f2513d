package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var generateCICmd = &cobra.Command{
	Use:   "generate-ci",
	Short: "Print the CI workflow that plans, builds, and publishes releases (not yet implemented)",
	Long: `generate-ci documents the hand-off to an external CI-workflow
renderer: given this workspace's enabled installers and publish-jobs
config, emit a GitHub Actions (or equivalent) workflow that runs
"dist plan", fans "dist build --artifacts local" out across the
configured targets, runs "dist build --artifacts global" once the local
jobs finish, and publishes with "dist build --publish". Generating the
concrete YAML is out of scope for the engine (spec.md §1); this boundary
stub exists so the subcommand name is reserved.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return fmt.Errorf("generate-ci: workflow rendering is not implemented; see `dist generate-ci --help` for the intended job shape")
	},
}
