package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/fatih/color"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/distkit/dist/internal/assemble"
	"github.com/distkit/dist/internal/build"
	"github.com/distkit/dist/internal/distmodel"
	"github.com/distkit/dist/internal/manifest"
	"github.com/distkit/dist/internal/plan"
	"github.com/distkit/dist/internal/publish"
)

var flagPublish bool

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Plan, build, and assemble every artifact for the announcement",
	Long: `build runs the full pipeline: resolve the workspace and tag, plan the
DistGraph, invoke the Builder for every (release, target), assemble
archives/checksums/installers into --output, and write dist-manifest.json.`,
	RunE: runBuildCmd,
}

func init() {
	buildCmd.Flags().BoolVar(&flagPublish, "publish", false, "upload assembled archives to the release host after assembly")
}

func runBuildCmd(cmd *cobra.Command, args []string) error {
	ws, graph, err := runPlan()
	if err != nil {
		return err
	}

	outDir, err := outputDir()
	if err != nil {
		return err
	}

	lock, err := acquireOutputLock(outDir)
	if err != nil {
		return err
	}
	defer lock.release()

	builder := build.NewExecBuilder(ws, plan.DefaultServices(distVersion()).Catalog)
	result, err := assemble.New().Assemble(cmd.Context(), graph, builder, outDir)
	if err != nil {
		return err
	}

	kept, removed := filterByArtifactsMode(graph, result, outDir, flagArtifacts)
	for app, releaseErr := range result.ReleaseErrs {
		logReleaseFailure(app, releaseErr)
	}

	m := manifestFor(graph, kept)
	manifestPath := filepath.Join(outDir, "dist-manifest.json")
	data, err := manifest.Encode(m)
	if err != nil {
		return fmt.Errorf("encode manifest: %w", err)
	}
	if err := os.WriteFile(manifestPath, data, 0o644); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}

	if flagPublish {
		if err := publishArtifacts(cmd.Context(), ws, graph, outDir, kept); err != nil {
			return err
		}
	}

	printBuildSummary(kept, removed, manifestPath, len(result.ReleaseErrs))
	if len(result.ReleaseErrs) > 0 && len(kept) == 0 {
		return fmt.Errorf("build: every release failed to assemble")
	}
	return nil
}

// filterByArtifactsMode narrows Result.Written to the artifact kinds
// `--artifacts` selects (spec.md §6's local/global split), removing the
// files of artifacts not selected for this invocation from outDir so the
// output directory and manifest always agree on what's actually present.
func filterByArtifactsMode(graph *plan.DistGraph, res *assemble.Result, outDir, mode string) (kept, removed []string) {
	for _, id := range res.Written {
		art := graph.Artifacts[id]
		if art != nil && !artifactMatchesMode(art.Kind, mode) {
			removed = append(removed, id)
			os.Remove(filepath.Join(outDir, id))
			continue
		}
		kept = append(kept, id)
	}
	sort.Strings(kept)
	sort.Strings(removed)
	return kept, removed
}

func artifactMatchesMode(kind plan.ArtifactKind, mode string) bool {
	switch mode {
	case "local":
		return !kind.IsInstaller()
	case "global":
		return kind.IsInstaller()
	default: // "all", "host"
		return true
	}
}

// manifestFor projects graph into the external manifest shape, then trims
// each release's artifact list to what actually survived filtering.
func manifestFor(graph *plan.DistGraph, kept []string) *manifest.Manifest {
	m := graph.ToManifest(distVersion())
	keptSet := make(map[string]bool, len(kept))
	for _, id := range kept {
		keptSet[id] = true
	}
	for id := range m.Artifacts {
		if !keptSet[id] {
			delete(m.Artifacts, id)
		}
	}
	for i, rel := range m.Releases {
		var filtered []string
		for _, id := range rel.Artifacts {
			if keptSet[id] {
				filtered = append(filtered, id)
			}
		}
		m.Releases[i].Artifacts = filtered
	}
	return m
}

// publishArtifacts uploads every kept executable-archive (installers are
// download pointers to these, not separate release assets) to the
// repository's release for this announcement tag.
func publishArtifacts(ctx context.Context, ws *distmodel.Workspace, graph *plan.DistGraph, outDir string, kept []string) error {
	repoRaw := ws.RepoURL
	if repoRaw == "" && len(graph.Releases) > 0 {
		repoRaw = graph.Releases[0].App.Repository
	}
	repo := distmodel.CanonicalRepository(repoRaw)
	if repo == (distmodel.Repository{}) {
		return newUsageError("--publish requires a repository URL in the workspace or package manifest")
	}

	var paths []string
	for _, id := range kept {
		art := graph.Artifacts[id]
		if art == nil || art.Kind.IsInstaller() {
			continue
		}
		paths = append(paths, filepath.Join(outDir, id))
	}
	if len(paths) == 0 {
		return nil
	}

	createRelease := true
	if len(graph.Releases) > 0 && graph.Releases[0].Config.CreateRelease != nil {
		createRelease = *graph.Releases[0].Config.CreateRelease
	}
	pub := publish.NewGitHubPublisher(repo, os.Getenv("GITHUB_TOKEN"), createRelease)
	return pub.Publish(ctx, graph.AnnouncementTag, graph.IsPrerelease, paths)
}

func logReleaseFailure(app string, err error) {
	log.Warn().Str("component", "assemble").Str("release", app).Err(err).Msg("release failed to assemble")
	color.New(color.FgRed).Fprintf(os.Stderr, "release %s failed: %v\n", app, err)
}

func printBuildSummary(kept, removed []string, manifestPath string, failedReleases int) {
	if flagOutputFormat == "json" {
		out := map[string]any{
			"written":         kept,
			"skipped":         removed,
			"manifest":        manifestPath,
			"failed_releases": failedReleases,
		}
		data, _ := json.MarshalIndent(out, "", "  ")
		fmt.Println(string(data))
		return
	}

	green := color.New(color.FgGreen, color.Bold)
	green.Printf("wrote %d artifact(s)", len(kept))
	fmt.Printf(" to %s\n", filepath.Dir(manifestPath))
	for _, id := range kept {
		fmt.Printf("  %s\n", id)
	}
	if len(removed) > 0 {
		fmt.Printf("(%d artifact(s) skipped by --artifacts)\n", len(removed))
	}
}
