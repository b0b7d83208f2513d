// Package distmodel is the uniform in-memory representation of a source
// workspace: its packages, binaries, and libraries, independent of whether
// they came from a Cargo, NPM, or generic manifest.
package distmodel

import (
	"path/filepath"
	"strings"
)

// WorkspaceKind identifies which manifest family produced a Workspace.
type WorkspaceKind string

const (
	KindCargo   WorkspaceKind = "cargo"
	KindNPM     WorkspaceKind = "npm"
	KindGeneric WorkspaceKind = "generic"
)

// Workspace is a rooted directory containing one or more Packages.
type Workspace struct {
	Root        string
	Kind        WorkspaceKind
	Virtual     bool // true when there is no root package, only members
	RepoURL     string
	LicenseFile string // workspace-wide LICENSE, inherited by members that don't have their own

	Packages []*Package

	// Config holds the workspace-wide dist config table (Cargo's
	// `[workspace.metadata.dist]`, a top-level `[dist]` in dist.toml, or
	// NPM's `dist` key), the base layer the Config Resolver (component D)
	// merges under every package's own overrides.
	Config map[string]any
}

// FindPackage returns the package with the given name, or nil.
func (w *Workspace) FindPackage(name string) *Package {
	for _, p := range w.Packages {
		if p.Name == name {
			return p
		}
	}
	return nil
}

// Apps returns every Package that qualifies as an App: at least one
// executable BinaryTarget, publish and dist both enabled.
func (w *Workspace) Apps() []*Package {
	var apps []*Package
	for _, p := range w.Packages {
		if p.IsApp() {
			apps = append(apps, p)
		}
	}
	return apps
}

// Validate checks the invariants spec.md §3 assigns to a Workspace: exactly
// one kind (enforced by the type system), package names unique, and member
// paths lying under the root.
func (w *Workspace) Validate() error {
	seen := make(map[string]bool, len(w.Packages))
	for _, p := range w.Packages {
		if seen[p.Name] {
			return newWorkspaceError("duplicate package name %q", p.Name)
		}
		seen[p.Name] = true

		rel, err := filepath.Rel(w.Root, p.Root)
		if err != nil || strings.HasPrefix(rel, "..") {
			return newWorkspaceError("package %q root %q escapes workspace root %q", p.Name, p.Root, w.Root)
		}
	}
	return nil
}

// BinaryTargetsFor returns the executable binary targets for a package.
func (w *Workspace) BinaryTargetsFor(pkg *Package) []BinaryTarget {
	var out []BinaryTarget
	for _, b := range pkg.Binaries {
		if b.Kind == BinaryExecutable {
			out = append(out, b)
		}
	}
	return out
}

// Repository describes a canonicalized source-control repository reference.
type Repository struct {
	Host  string
	Owner string
	Name  string
}

// String renders the repository back to an https URL.
func (r Repository) String() string {
	if r.Host == "" {
		return ""
	}
	return "https://" + r.Host + "/" + r.Owner + "/" + r.Name
}

// IsGitHub reports whether the repository is hosted on github.com.
func (r Repository) IsGitHub() bool {
	return r.Host == "github.com"
}

// CanonicalRepository parses a repository URL in any of the common forms
// (https://github.com/owner/repo[.git], git@github.com:owner/repo.git,
// owner/repo) into a Repository. It returns the zero value when the input
// cannot be recognized; callers should treat that as "no repository known"
// rather than an error, matching the loader's fail-soft philosophy for
// optional metadata.
func CanonicalRepository(raw string) Repository {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimSuffix(raw, ".git")
	raw = strings.TrimSuffix(raw, "/")

	switch {
	case strings.HasPrefix(raw, "git@"):
		// git@host:owner/repo
		rest := strings.TrimPrefix(raw, "git@")
		parts := strings.SplitN(rest, ":", 2)
		if len(parts) != 2 {
			return Repository{}
		}
		return ownerRepo(parts[0], parts[1])
	case strings.HasPrefix(raw, "https://"), strings.HasPrefix(raw, "http://"):
		rest := strings.TrimPrefix(strings.TrimPrefix(raw, "https://"), "http://")
		parts := strings.SplitN(rest, "/", 2)
		if len(parts) != 2 {
			return Repository{}
		}
		return ownerRepo(parts[0], parts[1])
	default:
		// bare "owner/repo", assume github.com as the teacher's
		// manifest.RepoName/GitHubSource convention does.
		parts := strings.SplitN(raw, "/", 2)
		if len(parts) != 2 || strings.Contains(parts[0], ".") {
			return Repository{}
		}
		return ownerRepo("github.com", raw)
	}
}

func ownerRepo(host, ownerName string) Repository {
	parts := strings.SplitN(ownerName, "/", 2)
	if len(parts) != 2 {
		return Repository{}
	}
	return Repository{Host: host, Owner: parts[0], Name: parts[1]}
}
