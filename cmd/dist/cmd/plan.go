package cmd

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/distkit/dist/internal/plan"
	"github.com/distkit/dist/internal/registry"
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Compute and print the artifact plan without building anything",
	Long: `plan resolves the workspace, the announcement tag, and the effective
config, then runs the Planner to produce the full DistGraph: every release,
target, and artifact id dist would produce for this tag.`,
	RunE: runPlanCmd,
}

func runPlanCmd(cmd *cobra.Command, args []string) error {
	ws, graph, err := runPlan()
	if err != nil {
		return err
	}

	if !flagNoCache {
		updateRegistryCache(ws.Root, graph)
	}

	if flagOutputFormat == "json" {
		m := graph.ToManifest(distVersion())
		data, err := json.MarshalIndent(m, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	}

	printPlanHuman(graph)
	return nil
}

func printPlanHuman(graph *plan.DistGraph) {
	bold := color.New(color.Bold)
	if graph.LibraryOnly != nil {
		bold.Printf("tag %s\n", graph.AnnouncementTag)
		fmt.Printf("  library-only announcement for %s %s (no artifacts)\n", graph.LibraryOnly.Name, graph.LibraryOnly.Version)
		return
	}

	bold.Printf("tag %s", graph.AnnouncementTag)
	if graph.IsPrerelease {
		color.New(color.FgYellow).Print(" (prerelease)")
	}
	fmt.Println()

	for _, release := range graph.Releases {
		fmt.Printf("\n%s %s\n", release.App.Name, release.Version)
		fmt.Printf("  targets: %v\n", release.Targets)
		for _, id := range release.ArtifactIDs {
			art := graph.Artifacts[id]
			fmt.Printf("  - %-12s %s\n", art.Kind, id)
		}
	}
}

// updateRegistryCache stamps the workspace-discovery registry with this
// plan's digest (spec.md §9); failure to read/write the cache is never
// fatal to planning and is silently skipped.
func updateRegistryCache(root string, graph *plan.DistGraph) {
	reg, err := registry.Load()
	if err != nil {
		return
	}
	digest := registry.Digest([]byte(graph.AnnouncementTag), []byte(fmt.Sprint(graph.Order)))
	reg.Put(registry.Entry{Root: root, Digest: digest, LastPlanAt: time.Now().UTC().Format(time.RFC3339)})
	_ = reg.Save()
}
