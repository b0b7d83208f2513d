package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"

	"github.com/distkit/dist/internal/distconfig"
	"github.com/distkit/dist/internal/distmodel"
	"github.com/distkit/dist/internal/gitops"
	"github.com/distkit/dist/internal/loader"
	"github.com/distkit/dist/internal/plan"
	"github.com/distkit/dist/internal/platform"
	"github.com/distkit/dist/internal/tagresolve"
)

// distVersion is the schema version this CLI writes to dist-manifest.json
// (internal/manifest.Encode requires it non-empty); tracks the CLI's own
// Version so a manifest records which dist build produced it.
func distVersion() string {
	if Version == "dev" {
		return "0.0.0-dev"
	}
	return Version
}

// loadWorkspace discovers and parses the workspace at flagWorkspace, the
// shared first step of plan/build (spec.md §4.B).
func loadWorkspace() (*distmodel.Workspace, error) {
	start, err := filepath.Abs(flagWorkspace)
	if err != nil {
		return nil, newUsageError("resolve workspace path %q: %w", flagWorkspace, err)
	}
	result := loader.New().Load(start, "")
	switch result.Kind {
	case loader.Found:
		fillRepoFromGit(result.Workspace)
		return result.Workspace, nil
	case loader.Broken:
		return nil, result.Err
	default:
		return nil, newUsageError("no Cargo.toml, package.json, or dist.toml found walking up from %s", start)
	}
}

// fillRepoFromGit backfills a repository URL from the workspace's git
// remote when neither the workspace nor a package manifest declares one
// (spec.md §4.A repo-URL canonicalization; DESIGN.md's gitops ledger
// entry). It only reads the "origin" remote config — never clones,
// fetches, or checks anything out; gitHintTag below is the only other
// place dist reads git.
func fillRepoFromGit(ws *distmodel.Workspace) {
	if !gitops.IsRepo(ws.Root) {
		return
	}
	url, err := gitops.RemoteURL(ws.Root, "origin")
	if err != nil || url == "" {
		return
	}
	if ws.RepoURL == "" {
		ws.RepoURL = url
	}
	for _, pkg := range ws.Packages {
		if pkg.Repository == "" {
			pkg.Repository = url
		}
	}
}

// resolveAnnouncement parses --tag (or infers one) against ws.
func resolveAnnouncement(ws *distmodel.Workspace) (tagresolve.Announcement, error) {
	if flagTag == "" {
		ann, err := tagresolve.Infer(ws)
		if err == nil {
			return ann, nil
		}
		if hint, hintErr := gitHintTag(ws); hintErr == nil {
			if ann, err := tagresolve.Resolve(hint, ws); err == nil {
				return ann, nil
			}
		}
		return tagresolve.Announcement{}, err
	}
	return tagresolve.Resolve(flagTag, ws)
}

// gitHintTag consults the tag pointing at HEAD as a last-resort inference
// hint when the workspace's own version data is ambiguous (spec.md §4.C:
// "the resolver may also infer a tag when the caller passes none";
// spec.md §9's tag-grammar discussion). Never called when the caller
// supplied an explicit --tag, and never used to override an unambiguous
// inference.
func gitHintTag(ws *distmodel.Workspace) (string, error) {
	if !gitops.IsRepo(ws.Root) {
		return "", fmt.Errorf("not a git repository")
	}
	return gitops.TagAtHEAD(ws.Root)
}

// resolveConfig merges the workspace-level dist config with the CLI-flag
// layer (spec.md §4.D); per-package overrides are applied later by the
// Planner itself.
func resolveConfig(ws *distmodel.Workspace) (distconfig.DistConfig, error) {
	wsCfg, err := distconfig.ParseOverrides(ws.Root, ws.Config)
	if err != nil {
		return distconfig.DistConfig{}, err
	}

	cliCfg := distconfig.DistConfig{}
	if flagArtifacts == "host" {
		host, err := platform.HostTriple()
		if err != nil {
			return distconfig.DistConfig{}, err
		}
		cliCfg.Targets = []string{host}
	} else if len(flagTargets) > 0 {
		cliCfg.Targets = flagTargets
	}

	return distconfig.Merge(wsCfg, cliCfg), nil
}

// runPlan executes the full plan pipeline (load, resolve, configure, Plan)
// shared by `dist plan`, `dist build`, and `dist generate-ci`.
func runPlan() (*distmodel.Workspace, *plan.DistGraph, error) {
	switch flagArtifacts {
	case "all", "host", "local", "global":
		// valid
	default:
		return nil, nil, newUsageError("invalid --artifacts value %q (want all, local, global, or host)", flagArtifacts)
	}

	ws, err := loadWorkspace()
	if err != nil {
		return nil, nil, err
	}

	ann, err := resolveAnnouncement(ws)
	if err != nil {
		return nil, nil, err
	}

	cfg, err := resolveConfig(ws)
	if err != nil {
		return nil, nil, err
	}

	services := plan.DefaultServices(distVersion())
	graph, err := plan.New(services).Plan(ws, ann, cfg)
	if err != nil {
		return nil, nil, err
	}
	logPlanWarnings(graph)

	return ws, graph, nil
}

// logPlanWarnings surfaces every non-fatal condition the Planner recorded
// (spec.md §7: "non-fatal warnings... are logged and recorded on the
// Plan"). The Planner itself never logs; this is the one place those
// warnings reach the log.
func logPlanWarnings(graph *plan.DistGraph) {
	for _, w := range graph.Warnings() {
		log.Warn().Str("component", "plan").Str("tag", graph.AnnouncementTag).Msg(w)
	}
}

// outputDir resolves and creates the --output directory.
func outputDir() (string, error) {
	abs, err := filepath.Abs(flagOutDir)
	if err != nil {
		return "", newUsageError("resolve output path %q: %w", flagOutDir, err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}
	return abs, nil
}
