package distmodel

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// BinaryKind distinguishes the shapes a BinaryTarget can take.
type BinaryKind string

const (
	BinaryExecutable  BinaryKind = "executable"
	BinaryCDylib      BinaryKind = "cdylib"
	BinaryCStaticLib  BinaryKind = "cstaticlib"
)

// BinaryTarget is one buildable output of a Package.
type BinaryTarget struct {
	Name string
	Kind BinaryKind
}

// Package is a named, versioned unit contributed by a single manifest file.
type Package struct {
	Name        string
	Version     *semver.Version
	Description string
	License     string
	Repository  string
	Homepage    string
	Keywords    []string

	Publish bool // false => excluded from releases
	Dist    bool // false => opted out of dist, excluded from releases

	Binaries []BinaryTarget

	// Root is the directory containing this package's manifest file.
	Root string

	// Overrides holds per-package dist config, merged on top of the
	// workspace-level config by the Config Resolver (component D).
	Overrides map[string]any
}

// IsApp reports whether this package is a release unit: it has at least one
// executable and has not opted out via publish=false or dist=false.
func (p *Package) IsApp() bool {
	if !p.Publish || !p.Dist {
		return false
	}
	for _, b := range p.Binaries {
		if b.Kind == BinaryExecutable {
			return true
		}
	}
	return false
}

// Executables returns just this package's executable binary targets.
func (p *Package) Executables() []BinaryTarget {
	var out []BinaryTarget
	for _, b := range p.Binaries {
		if b.Kind == BinaryExecutable {
			out = append(out, b)
		}
	}
	return out
}

// autoincludePrefixes are matched case-insensitively against file names at a
// package root, per spec.md §6.
var autoincludePrefixes = []string{"readme", "license", "changelog", "unlicense"}

// AutoincludeFiles returns the paths (relative to Root) of README/LICENSE/
// CHANGELOG/UNLICENSE files present at the package root, matched case
// insensitively and by prefix so README.md, Readme.txt, LICENSE-MIT, etc.
// all qualify. This is plain directory listing, so it stays on the
// standard library rather than reaching for a matching library.
func (p *Package) AutoincludeFiles() ([]string, error) {
	entries, err := os.ReadDir(p.Root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("distmodel: list autoincludes for %s: %w", p.Name, err)
	}

	var found []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		lower := strings.ToLower(e.Name())
		for _, prefix := range autoincludePrefixes {
			if strings.HasPrefix(lower, prefix) {
				found = append(found, e.Name())
				break
			}
		}
	}
	return found, nil
}

var changelogHeading = regexp.MustCompile(`(?m)^#{1,3}\s*\[?v?([0-9][0-9A-Za-z.\-+]*)\]?.*$`)

// ChangelogForVersion locates a CHANGELOG.* at the package root and extracts
// the section whose link-stripped heading matches the given semver version,
// failing soft (returning "", false) when none matches, per spec.md §4.A.
func (p *Package) ChangelogForVersion(version string) (string, bool, error) {
	entries, err := os.ReadDir(p.Root)
	if err != nil {
		if os.IsNotExist(err) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("distmodel: read %s: %w", p.Root, err)
	}

	var changelogPath string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if strings.HasPrefix(strings.ToLower(e.Name()), "changelog") {
			changelogPath = filepath.Join(p.Root, e.Name())
			break
		}
	}
	if changelogPath == "" {
		return "", false, nil
	}

	data, err := os.ReadFile(changelogPath)
	if err != nil {
		return "", false, fmt.Errorf("distmodel: read %s: %w", changelogPath, err)
	}

	return extractChangelogSection(string(data), version)
}

// extractChangelogSection finds a heading matching version and returns the
// text up to (but not including) the next version heading (a level 1-3
// heading whose title starts with a version number), whatever its level.
// Other headings do not end the section.
func extractChangelogSection(content, version string) (string, bool, error) {
	locs := changelogHeading.FindAllStringSubmatchIndex(content, -1)
	if locs == nil {
		return "", false, nil
	}

	target := strings.TrimPrefix(version, "v")

	for i, loc := range locs {
		headingVersion := content[loc[2]:loc[3]]
		if headingVersion != target {
			continue
		}
		start := loc[1]
		end := len(content)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}
		section := strings.TrimSpace(content[start:end])
		return section, true, nil
	}

	return "", false, nil
}

// MergeKeywords normalizes keyword/category fields per workspace kind:
// Cargo merges keywords and categories into one list, NPM and generic use
// keywords verbatim.
func MergeKeywords(kind WorkspaceKind, keywords, categories []string) []string {
	if kind != KindCargo {
		return keywords
	}
	out := make([]string, 0, len(keywords)+len(categories))
	out = append(out, keywords...)
	out = append(out, categories...)
	return out
}
