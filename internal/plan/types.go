// Package plan is the Planner (spec.md §4.F): given a Workspace, an
// Announcement, an effective DistConfig, and the Platform Catalog, it
// produces an immutable, deterministic DistGraph describing every artifact
// a release needs, cross-referenced by id with no back-pointers.
package plan

import (
	"fmt"

	"github.com/Masterminds/semver/v3"

	"github.com/distkit/dist/internal/distconfig"
	"github.com/distkit/dist/internal/distmodel"
)

// ArtifactKind enumerates every shape of artifact the Planner can emit.
// Kept as a tagged struct rather than an interface-per-kind so graph code
// can range over Artifacts uniformly and switch exhaustively on Kind.
type ArtifactKind string

const (
	KindExecutableArchive   ArtifactKind = "executable-archive"
	KindSymbols             ArtifactKind = "symbols"
	KindChecksum            ArtifactKind = "checksum"
	KindUnifiedChecksum     ArtifactKind = "unified-checksum"
	KindShellInstaller      ArtifactKind = "shell-installer"
	KindPowerShellInstaller ArtifactKind = "powershell-installer"
	KindHomebrewInstaller   ArtifactKind = "homebrew-installer"
	KindMSIInstaller        ArtifactKind = "msi-installer"
	KindNPMInstaller        ArtifactKind = "npm-installer"
)

// IsInstaller reports whether k is one of the installer kinds.
func (k ArtifactKind) IsInstaller() bool {
	switch k {
	case KindShellInstaller, KindPowerShellInstaller, KindHomebrewInstaller, KindMSIInstaller, KindNPMInstaller:
		return true
	default:
		return false
	}
}

// ArchiveContents names what an ExecutableArchive (or Symbols archive)
// stages into its single top-level directory.
type ArchiveContents struct {
	Executables  []string
	CDylibs      []string
	CStaticLibs  []string
	Autoincludes []string
}

// Artifact is one node of the dependency DAG. Fields not relevant to Kind
// are left zero; callers switch on Kind before reading kind-specific data.
type Artifact struct {
	ID       string
	Kind     ArtifactKind
	Release  string // app name this artifact belongs to
	Target   string // target triple; empty for release-wide artifacts
	Ext      string // archive/installer file extension
	InputIDs []string

	Contents          ArchiveContents // KindExecutableArchive, KindSymbols
	ChecksumAlgorithm string          // KindChecksum, KindUnifiedChecksum
	MSIUpgradeCode    string          // KindMSIInstaller: stable uuid v5 hex
	DownloadURLBase   string          // installers: "{repo}/releases/download/{tag}"
}

// Release is one App at a specific version across a set of target triples,
// with its effective (workspace ⊔ package ⊔ CLI) config already merged.
type Release struct {
	App         *distmodel.Package
	Version     *semver.Version
	Targets     []string
	Config      distconfig.DistConfig
	ArtifactIDs []string // stable order: each target's archive then its symbols, checksums, installers (Homebrew's extra sha256 checksums just before it)
}

// DistGraph is the Planner's output: the complete, immutable description of
// every artifact for one invocation. Order is a topologically sorted list
// of every artifact id, inputs before dependents, used by the Assembler to
// honor the ordering guarantees in spec.md §5.
type DistGraph struct {
	AnnouncementTag string
	IsPrerelease    bool
	LibraryOnly     *distmodel.Package // set instead of Releases for a library-only announcement
	Releases        []*Release
	Artifacts       map[string]*Artifact
	Order           []string

	warnings []string // non-fatal, e.g. "no symbols artifact for target": spec.md §7
}

// FindRelease returns the Release for an app name, or nil.
func (g *DistGraph) FindRelease(appName string) *Release {
	for _, r := range g.Releases {
		if r.App.Name == appName {
			return r
		}
	}
	return nil
}

// Warnings returns every non-fatal condition the Planner recorded while
// building this Plan (spec.md §7: "non-fatal warnings... are logged and
// recorded on the Plan"), in the order they were produced. The Planner
// itself never logs, so callers (the CLI) are expected to log these at
// Warn level after Plan returns.
func (g *DistGraph) Warnings() []string {
	return g.warnings
}

func (g *DistGraph) addWarning(format string, args ...any) {
	g.warnings = append(g.warnings, fmt.Sprintf(format, args...))
}
