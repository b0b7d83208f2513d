package tagresolve

import (
	"strings"

	"github.com/Masterminds/semver/v3"

	"github.com/distkit/dist/internal/distmodel"
)

// Parse matches raw against the Unified grammar (v{VERSION}) or the
// Singular grammar ({PACKAGE}-v{VERSION}), using ws's package names to
// resolve the "tag grammar ambiguity" case spec.md §4.F calls out:
// a package name that itself ends in "-v{digits}" can make more than one
// split of the "-v{semver}" suffix look valid. We resolve by preferring
// the longest matching suffix (the split whose package-name prefix is
// shortest), and only fail AmbiguousTag when two splits are equally long
// and both name real packages.
func Parse(raw string, ws *distmodel.Workspace) (Tag, error) {
	if v, ok := tryUnified(raw); ok {
		return Tag{Kind: Unified, Raw: raw, Version: v}, nil
	}

	candidates := singularCandidates(raw)
	if len(candidates) == 0 {
		return Tag{}, &InvalidTagFormat{Raw: raw}
	}

	// Prefer candidates whose package prefix names a real package; among
	// those, the longest "-v{semver}" suffix (smallest prefix index) wins.
	var matched []singularCandidate
	for _, c := range candidates {
		if ws != nil && ws.FindPackage(c.pkg) != nil {
			matched = append(matched, c)
		}
	}
	if len(matched) == 0 {
		// No prefix names a known package; fall back to the single
		// longest-suffix candidate so Parse still works without workspace
		// context (e.g. unit tests, or tags for not-yet-loaded workspaces).
		best := candidates[0]
		return Tag{Kind: Singular, Raw: raw, Version: best.version, Package: best.pkg}, nil
	}

	bestLen := -1
	for _, c := range matched {
		if len(c.pkg) < bestLen || bestLen == -1 {
			bestLen = len(c.pkg)
		}
	}
	var winners []singularCandidate
	for _, c := range matched {
		if len(c.pkg) == bestLen {
			winners = append(winners, c)
		}
	}
	if len(winners) > 1 {
		var names []string
		for _, w := range winners {
			names = append(names, w.pkg)
		}
		return Tag{}, &AmbiguousTag{Raw: raw, Splits: names}
	}

	w := winners[0]
	return Tag{Kind: Singular, Raw: raw, Version: w.version, Package: w.pkg}, nil
}

func tryUnified(raw string) (*semver.Version, bool) {
	if !strings.HasPrefix(raw, "v") {
		return nil, false
	}
	v, err := semver.NewVersion(strings.TrimPrefix(raw, "v"))
	if err != nil {
		return nil, false
	}
	return v, true
}

type singularCandidate struct {
	pkg     string
	version *semver.Version
}

// singularCandidates returns every way raw can be split at a "-v" marker
// into (package-prefix, version-suffix) where the suffix parses as
// semver, ordered from longest suffix (shortest prefix) to shortest.
func singularCandidates(raw string) []singularCandidate {
	var out []singularCandidate
	idx := 0
	for {
		pos := strings.Index(raw[idx:], "-v")
		if pos < 0 {
			break
		}
		splitAt := idx + pos
		pkg := raw[:splitAt]
		versionStr := raw[splitAt+2:]
		if pkg != "" && versionStr != "" {
			if v, err := semver.NewVersion(versionStr); err == nil {
				out = append(out, singularCandidate{pkg: pkg, version: v})
			}
		}
		idx = splitAt + 2
	}
	return out
}
