// Package tagresolve parses an announcement tag string against a
// Workspace's packages and resolves it to the set of Apps (or the
// library-only package) a release should cover (spec.md §4.C).
package tagresolve

import (
	"github.com/Masterminds/semver/v3"

	"github.com/distkit/dist/internal/distmodel"
)

// Kind identifies which announcement-tag grammar matched.
type Kind string

const (
	// Unified is "v{VERSION}": every App at that version.
	Unified Kind = "unified"
	// Singular is "{PACKAGE}-v{VERSION}": one named App, version-checked.
	Singular Kind = "singular"
	// LibraryOnlySingular is the Singular grammar matching a package with
	// no executables: a build-less announcement that plans no artifacts.
	LibraryOnlySingular Kind = "library-only-singular"
)

// Tag is the parsed form of an announcement tag string.
type Tag struct {
	Kind    Kind
	Raw     string
	Version *semver.Version
	Package string // only meaningful for Singular / LibraryOnlySingular
}

// Announcement is the result of resolving a Tag against a Workspace: the
// set of Apps selected, or the single library-only package when the tag
// matched a non-executable package.
type Announcement struct {
	Tag         Tag
	Apps        []*distmodel.Package
	LibraryOnly *distmodel.Package
}

// IsLibraryOnly reports whether this announcement carries no build work.
func (a Announcement) IsLibraryOnly() bool {
	return a.LibraryOnly != nil
}
