package loader

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/Masterminds/semver/v3"
	"github.com/pelletier/go-toml/v2"

	"github.com/distkit/dist/internal/distmodel"
)

// genericManifestFile is dist.toml's schema, for workspaces that are
// neither Cargo nor NPM (spec.md §4.B): a single package described
// directly, with no concept of members or a virtual root.
type genericManifestFile struct {
	Name         string   `toml:"name"`
	Version      string   `toml:"version"`
	Description  string   `toml:"description"`
	License      string   `toml:"license"`
	Repository   string   `toml:"repository"`
	Homepage     string   `toml:"homepage"`
	Keywords     []string `toml:"keywords"`
	Binaries     []string `toml:"binaries"`
	BuildCommand string   `toml:"build-command"`
}

// parseGenericWorkspace parses a dist.toml manifest into a single-package,
// non-virtual Workspace.
func parseGenericWorkspace(root string) (*distmodel.Workspace, error) {
	path := filepath.Join(root, genericManifest)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	var f genericManifestFile
	if err := toml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if f.Name == "" {
		return nil, fmt.Errorf("%s: missing required field \"name\"", path)
	}

	version, err := semver.NewVersion(f.Version)
	if err != nil {
		return nil, fmt.Errorf("%s: invalid version %q: %w", path, f.Version, err)
	}

	pkg := &distmodel.Package{
		Name:        f.Name,
		Version:     version,
		Description: f.Description,
		License:     f.License,
		Repository:  f.Repository,
		Homepage:    f.Homepage,
		Keywords:    distmodel.MergeKeywords(distmodel.KindGeneric, f.Keywords, nil),
		Publish:     true,
		Dist:        true,
		Root:        root,
	}
	if f.BuildCommand != "" {
		pkg.Overrides = map[string]any{"build-command": f.BuildCommand}
	}

	for _, name := range f.Binaries {
		pkg.Binaries = append(pkg.Binaries, distmodel.BinaryTarget{Name: name, Kind: distmodel.BinaryExecutable})
	}

	ws := &distmodel.Workspace{
		Root:     root,
		Kind:     distmodel.KindGeneric,
		Packages: []*distmodel.Package{pkg},
	}
	if err := ws.Validate(); err != nil {
		return nil, err
	}
	return ws, nil
}
