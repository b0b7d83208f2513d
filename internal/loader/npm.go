package loader

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Masterminds/semver/v3"
	"github.com/bmatcuk/doublestar/v4"

	"github.com/distkit/dist/internal/distmodel"
)

// npmPackageFile mirrors the subset of package.json dist cares about.
type npmPackageFile struct {
	Name        string          `json:"name"`
	Version     string          `json:"version"`
	Description string          `json:"description"`
	License     string          `json:"license"`
	Repository  json.RawMessage `json:"repository"`
	Homepage    string          `json:"homepage"`
	Keywords    []string        `json:"keywords"`
	Private     bool            `json:"private"`
	Bin         json.RawMessage `json:"bin"`
	Workspaces  json.RawMessage `json:"workspaces"`
}

// npmRepositoryObject is the non-shorthand form of the "repository" field.
type npmRepositoryObject struct {
	Type string `json:"type"`
	URL  string `json:"url"`
}

// npmWorkspacesObject is Yarn/NPM's newer {packages: [...]} form, as opposed
// to the plain array of globs.
type npmWorkspacesObject struct {
	Packages []string `json:"packages"`
}

// parseNPMWorkspace parses the package.json at root. A root package.json
// with a "workspaces" field is a workspace root; its members are resolved
// by expanding each glob and looking for a package.json inside.
func parseNPMWorkspace(root string) (*distmodel.Workspace, error) {
	rootPath := filepath.Join(root, npmManifest)
	rootFile, err := readNPMManifest(rootPath)
	if err != nil {
		return nil, err
	}

	ws := &distmodel.Workspace{
		Root: root,
		Kind: distmodel.KindNPM,
	}

	globs, err := npmWorkspaceGlobs(rootFile.Workspaces)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", rootPath, err)
	}

	ws.Virtual = rootFile.Private && rootFile.Name == "" && len(globs) > 0

	if !ws.Virtual || rootFile.Name != "" {
		pkg, err := npmPackageToDistPackage(root, rootFile)
		if err != nil {
			return nil, err
		}
		ws.Packages = append(ws.Packages, pkg)
	}

	memberDirs, err := expandNPMMembers(root, globs)
	if err != nil {
		return nil, err
	}
	for _, dir := range memberDirs {
		memberFile, err := readNPMManifest(filepath.Join(dir, npmManifest))
		if err != nil {
			return nil, err
		}
		pkg, err := npmPackageToDistPackage(dir, memberFile)
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

func readNPMManifest(path string) (*npmPackageFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	var f npmPackageFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &f, nil
}

func npmWorkspaceGlobs(raw json.RawMessage) ([]string, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var globs []string
	if err := json.Unmarshal(raw, &globs); err == nil {
		return globs, nil
	}
	var obj npmWorkspacesObject
	if err := json.Unmarshal(raw, &obj); err != nil {
		return nil, fmt.Errorf("invalid workspaces field: %w", err)
	}
	return obj.Packages, nil
}

func expandNPMMembers(root string, globs []string) ([]string, error) {
	var dirs []string
	seen := make(map[string]bool)
	for _, pattern := range globs {
		matches, err := doublestar.Glob(os.DirFS(root), pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid workspace glob %q: %w", pattern, err)
		}
		for _, m := range matches {
			abs := filepath.Clean(filepath.Join(root, m))
			if seen[abs] || !hasFile(abs, npmManifest) {
				continue
			}
			seen[abs] = true
			dirs = append(dirs, abs)
		}
	}
	return dirs, nil
}

func npmPackageToDistPackage(dir string, f *npmPackageFile) (*distmodel.Package, error) {
	version, err := semver.NewVersion(npmVersionOrZero(f.Version))
	if err != nil {
		return nil, fmt.Errorf("package %s: invalid version %q: %w", f.Name, f.Version, err)
	}

	pkg := &distmodel.Package{
		Name:        f.Name,
		Version:     version,
		Description: f.Description,
		License:     f.License,
		Repository:  npmRepositoryString(f.Repository),
		Homepage:    f.Homepage,
		Keywords:    distmodel.MergeKeywords(distmodel.KindNPM, f.Keywords, nil),
		Publish:     !f.Private,
		Dist:        !f.Private,
		Root:        dir,
	}

	bins, err := npmBinTargets(f.Bin, f.Name)
	if err != nil {
		return nil, fmt.Errorf("package %s: %w", f.Name, err)
	}
	pkg.Binaries = bins

	return pkg, nil
}

// npmVersionOrZero lets workspace-root package.json files (which often have
// no meaningful version of their own) parse without error.
func npmVersionOrZero(v string) string {
	if v == "" {
		return "0.0.0"
	}
	return v
}

func npmRepositoryString(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var asString string
	if err := json.Unmarshal(raw, &asString); err == nil {
		return asString
	}
	var asObject npmRepositoryObject
	if err := json.Unmarshal(raw, &asObject); err == nil {
		return asObject.URL
	}
	return ""
}

// npmBinTargets normalizes package.json's "bin" field, which is either a
// single string (named after the package) or a map of command name to path.
func npmBinTargets(raw json.RawMessage, pkgName string) ([]distmodel.BinaryTarget, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var asString string
	if err := json.Unmarshal(raw, &asString); err == nil {
		return []distmodel.BinaryTarget{{Name: pkgName, Kind: distmodel.BinaryExecutable}}, nil
	}
	var asMap map[string]string
	if err := json.Unmarshal(raw, &asMap); err != nil {
		return nil, fmt.Errorf("invalid bin field: %w", err)
	}
	names := make([]string, 0, len(asMap))
	for name := range asMap {
		names = append(names, name)
	}
	// Deterministic order regardless of map iteration.
	for i := 1; i < len(names); i++ {
		for j := i; j > 0 && names[j-1] > names[j]; j-- {
			names[j-1], names[j] = names[j], names[j-1]
		}
	}
	bins := make([]distmodel.BinaryTarget, 0, len(names))
	for _, name := range names {
		bins = append(bins, distmodel.BinaryTarget{Name: name, Kind: distmodel.BinaryExecutable})
	}
	return bins, nil
}
