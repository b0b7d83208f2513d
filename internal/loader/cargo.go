package loader

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/bmatcuk/doublestar/v4"
	"github.com/pelletier/go-toml/v2"

	"github.com/distkit/dist/internal/distmodel"
)

// cargoManifestFile mirrors the subset of Cargo.toml's schema dist cares
// about. Fields we don't use (dependencies, features, ...) are left to
// go-toml's default "ignore unknown keys" behavior.
type cargoManifestFile struct {
	Package   *cargoPackage          `toml:"package"`
	Workspace *cargoWorkspaceSection `toml:"workspace"`
	Lib       *cargoLib              `toml:"lib"`
	Bin       []cargoBin             `toml:"bin"`
}

type cargoPackage struct {
	Name        string   `toml:"name"`
	Version     string   `toml:"version"`
	Description string   `toml:"description"`
	License     string   `toml:"license"`
	Repository  string   `toml:"repository"`
	Homepage    string   `toml:"homepage"`
	Keywords    []string `toml:"keywords"`
	Categories  []string `toml:"categories"`
	Publish     any      `toml:"publish"` // bool or []string (registry allow-list)
	Metadata    struct {
		Dist map[string]any `toml:"dist"`
	} `toml:"metadata"`
}

type cargoWorkspaceSection struct {
	Members         []string       `toml:"members"`
	ExcludeMembers  []string       `toml:"exclude"`
	Package         *cargoPackage  `toml:"package"` // workspace.package inheritance
	Metadata        struct {
		Dist map[string]any `toml:"dist"`
	} `toml:"metadata"`
}

type cargoLib struct {
	Name      string   `toml:"name"`
	CrateType []string `toml:"crate-type"`
}

type cargoBin struct {
	Name string `toml:"name"`
	Path string `toml:"path"`
}

// parseCargoWorkspace parses the Cargo.toml at root and, if it declares a
// [workspace], every member manifest too. A Cargo.toml with only
// [workspace] and no [package] is a virtual workspace (spec.md §3).
func parseCargoWorkspace(root string) (*distmodel.Workspace, error) {
	rootPath := filepath.Join(root, cargoManifest)
	rootFile, err := readCargoManifest(rootPath)
	if err != nil {
		return nil, err
	}

	ws := &distmodel.Workspace{
		Root: root,
		Kind: distmodel.KindCargo,
	}

	var memberDirs []string
	if rootFile.Workspace != nil {
		ws.Virtual = rootFile.Package == nil
		memberDirs, err = expandCargoMembers(root, rootFile.Workspace.Members, rootFile.Workspace.ExcludeMembers)
		if err != nil {
			return nil, err
		}
		if rootFile.Workspace.Metadata.Dist != nil {
			ws.Config = rootFile.Workspace.Metadata.Dist
		}
	}

	if rootFile.Package != nil {
		pkg, err := cargoPackageToDistPackage(root, rootFile.Package, rootFile.Lib, rootFile.Bin)
		if err != nil {
			return nil, err
		}
		ws.Packages = append(ws.Packages, pkg)
	}

	for _, dir := range memberDirs {
		memberPath := filepath.Join(dir, cargoManifest)
		memberFile, err := readCargoManifest(memberPath)
		if err != nil {
			return nil, err
		}
		if memberFile.Package == nil {
			continue // nested virtual manifest, unusual but not fatal
		}
		pkg, err := cargoPackageToDistPackage(dir, memberFile.Package, memberFile.Lib, memberFile.Bin)
		if err != nil {
			return nil, err
		}
		ws.Packages = append(ws.Packages, pkg)
	}

	if err := ws.Validate(); err != nil {
		return nil, err
	}
	return ws, nil
}

func readCargoManifest(path string) (*cargoManifestFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	var f cargoManifestFile
	if err := toml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if f.Package == nil && f.Workspace == nil {
		return nil, fmt.Errorf("%s has neither [package] nor [workspace]", path)
	}
	return &f, nil
}

// expandCargoMembers resolves workspace.members glob patterns (e.g. "crates/*")
// against the workspace root, honoring workspace.exclude.
func expandCargoMembers(root string, members, excludes []string) ([]string, error) {
	excluded := make(map[string]bool, len(excludes))
	for _, ex := range excludes {
		excluded[filepath.Clean(filepath.Join(root, ex))] = true
	}

	var dirs []string
	seen := make(map[string]bool)
	for _, pattern := range members {
		matches, err := doublestar.Glob(os.DirFS(root), pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid workspace member glob %q: %w", pattern, err)
		}
		for _, m := range matches {
			abs := filepath.Clean(filepath.Join(root, m))
			if excluded[abs] || seen[abs] {
				continue
			}
			if !hasFile(abs, cargoManifest) {
				continue
			}
			seen[abs] = true
			dirs = append(dirs, abs)
		}
	}
	return dirs, nil
}

func cargoPackageToDistPackage(dir string, p *cargoPackage, lib *cargoLib, bins []cargoBin) (*distmodel.Package, error) {
	version, err := semver.NewVersion(p.Version)
	if err != nil {
		return nil, fmt.Errorf("package %s: invalid version %q: %w", p.Name, p.Version, err)
	}

	pkg := &distmodel.Package{
		Name:        p.Name,
		Version:     version,
		Description: p.Description,
		License:     p.License,
		Repository:  p.Repository,
		Homepage:    p.Homepage,
		Keywords:    distmodel.MergeKeywords(distmodel.KindCargo, p.Keywords, p.Categories),
		Publish:     cargoPublishEnabled(p.Publish),
		Dist:        cargoDistEnabled(p.Metadata.Dist),
		Root:        dir,
		Overrides:   p.Metadata.Dist,
	}

	// A binary crate's implicit executable is named after the package
	// unless src/main.rs is absent and [[bin]] entries say otherwise.
	if len(bins) > 0 {
		for _, b := range bins {
			name := b.Name
			if name == "" {
				name = p.Name
			}
			pkg.Binaries = append(pkg.Binaries, distmodel.BinaryTarget{Name: name, Kind: distmodel.BinaryExecutable})
		}
	} else if hasFile(dir, filepath.Join("src", "main.rs")) {
		pkg.Binaries = append(pkg.Binaries, distmodel.BinaryTarget{Name: p.Name, Kind: distmodel.BinaryExecutable})
	}

	if lib != nil {
		libName := lib.Name
		if libName == "" {
			libName = strings.ReplaceAll(p.Name, "-", "_")
		}
		for _, ct := range lib.CrateType {
			switch ct {
			case "cdylib":
				pkg.Binaries = append(pkg.Binaries, distmodel.BinaryTarget{Name: libName, Kind: distmodel.BinaryCDylib})
			case "staticlib":
				pkg.Binaries = append(pkg.Binaries, distmodel.BinaryTarget{Name: libName, Kind: distmodel.BinaryCStaticLib})
			}
		}
	}

	return pkg, nil
}

// cargoPublishEnabled interprets Cargo's publish field: absent means true,
// a bool is used directly, a non-empty registry allow-list also means true
// (the package can still be published, just restricted).
func cargoPublishEnabled(publish any) bool {
	switch v := publish.(type) {
	case nil:
		return true
	case bool:
		return v
	case []any:
		return len(v) > 0
	default:
		return true
	}
}

// cargoDistEnabled reads package.metadata.dist.dist (bool), defaulting to
// true when the package declares a [package.metadata.dist] section at all
// or when it declares none (dist is opt-out, not opt-in).
func cargoDistEnabled(dist map[string]any) bool {
	if dist == nil {
		return true
	}
	if v, ok := dist["dist"]; ok {
		if b, ok := v.(bool); ok {
			return b
		}
	}
	return true
}
