package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Interactively configure a workspace for dist (not yet implemented)",
	Long: `init is the interactive wizard that writes a workspace's initial
[workspace.metadata.dist]/dist.toml config: which installers to enable,
which targets to build, whether to create releases automatically. It is a
boundary stub here (spec.md §1 scopes the CLI front-end out of the engine);
edit dist.toml by hand in the meantime, following the options table in
spec.md §4.D.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return fmt.Errorf("init: interactive configuration wizard is not implemented; edit dist.toml directly")
	},
}
