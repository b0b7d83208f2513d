package plan

import (
	"fmt"
	"sort"

	"github.com/distkit/dist/internal/distconfig"
	"github.com/distkit/dist/internal/distmodel"
	"github.com/distkit/dist/internal/platform"
	"github.com/distkit/dist/internal/tagresolve"
)

// Planner turns a selection into a DistGraph. It holds no mutable state
// and never logs. Plan is not fully I/O-free: it lists each App's root
// directory to find autoinclude files, and when no targets are configured
// it uses the host triple.
type Planner struct {
	services Services
}

// New creates a Planner bound to a fixed Services value.
func New(services Services) *Planner {
	return &Planner{services: services}
}

// Plan computes the full DistGraph for one announcement. baseConfig is the
// workspace/CLI-merged DistConfig (component D's output before the
// per-package override layer, which Plan applies itself per release).
func (p *Planner) Plan(ws *distmodel.Workspace, ann tagresolve.Announcement, baseConfig distconfig.DistConfig) (*DistGraph, error) {
	graph := &DistGraph{
		AnnouncementTag: ann.Tag.Raw,
		Artifacts:       make(map[string]*Artifact),
	}

	if ann.IsLibraryOnly() {
		graph.LibraryOnly = ann.LibraryOnly
		return graph, nil
	}

	apps := make([]*distmodel.Package, len(ann.Apps))
	copy(apps, ann.Apps)
	sort.Slice(apps, func(i, j int) bool { return apps[i].Name < apps[j].Name })

	for _, app := range apps {
		if app.Version.Prerelease() != "" {
			graph.IsPrerelease = true
		}
	}

	for _, app := range apps {
		release, err := p.buildRelease(app, baseConfig)
		if err != nil {
			return nil, fmt.Errorf("plan: release %q: %w", app.Name, err)
		}
		graph.Releases = append(graph.Releases, release)
	}

	for _, release := range graph.Releases {
		if err := p.addArtifactsForRelease(graph, release); err != nil {
			return nil, err
		}
	}

	order, err := topoSort(graph.Artifacts)
	if err != nil {
		return nil, err
	}
	graph.Order = order

	return graph, nil
}

func (p *Planner) buildRelease(app *distmodel.Package, baseConfig distconfig.DistConfig) (*Release, error) {
	overrideCfg, err := distconfig.ParseOverrides(app.Name, app.Overrides)
	if err != nil {
		return nil, err
	}
	effective := distconfig.Merge(baseConfig, overrideCfg)

	targets := effective.Targets
	if len(targets) == 0 {
		host, err := platform.HostTriple()
		if err != nil {
			return nil, err
		}
		targets = []string{host}
	}
	targets = sortedCopy(targets)

	for _, t := range targets {
		if _, err := p.services.Catalog.Lookup(t); err != nil {
			return nil, err
		}
	}

	return &Release{
		App:     app,
		Version: app.Version,
		Targets: targets,
		Config:  effective,
	}, nil
}

func sortedCopy(in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	sort.Strings(out)
	return out
}

func addArtifact(graph *DistGraph, release *Release, a *Artifact) error {
	if _, exists := graph.Artifacts[a.ID]; exists {
		return &DuplicateArtifactId{ID: a.ID}
	}
	graph.Artifacts[a.ID] = a
	release.ArtifactIDs = append(release.ArtifactIDs, a.ID)
	return nil
}
