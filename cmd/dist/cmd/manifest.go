package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/distkit/dist/internal/manifest"
)

var manifestCmd = &cobra.Command{
	Use:   "manifest [path]",
	Short: "Validate and print a dist-manifest.json",
	Long: `manifest decodes a dist-manifest.json (any schema epoch >= 2) and
prints its releases and artifacts. Defaults to <output>/dist-manifest.json.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runManifestCmd,
}

func runManifestCmd(cmd *cobra.Command, args []string) error {
	path := filepath.Join(flagOutDir, "dist-manifest.json")
	if len(args) == 1 {
		path = args[0]
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return newUsageError("read manifest %s: %w", path, err)
	}
	m, err := manifest.Decode(data)
	if err != nil {
		return fmt.Errorf("manifest: %w", err)
	}

	if flagOutputFormat == "json" {
		out, err := json.MarshalIndent(m, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		return nil
	}

	printManifestHuman(m)
	return nil
}

func printManifestHuman(m *manifest.Manifest) {
	bold := color.New(color.Bold)
	bold.Printf("%s", m.AnnouncementTag)
	fmt.Printf("  (dist_version %s)\n", m.DistVersion)

	for _, rel := range m.Releases {
		fmt.Printf("\n%s %s\n", rel.AppName, rel.AppVersion)
		if rel.IsLibraryOnly() {
			fmt.Println("  library-only, no artifacts")
			continue
		}
		for _, id := range rel.Artifacts {
			art := m.Artifacts[id]
			fmt.Printf("  - %-12s %s\n", art.Kind, id)
		}
	}
}
