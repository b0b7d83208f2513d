package tagresolve

import "fmt"

// InvalidTagFormat means the tag string matched neither the Unified nor
// the Singular grammar.
type InvalidTagFormat struct {
	Raw string
}

func (e *InvalidTagFormat) Error() string {
	return fmt.Sprintf("tagresolve: %q matches neither the v{VERSION} nor {PACKAGE}-v{VERSION} grammar", e.Raw)
}

// AmbiguousTag means the tag string's "-v{semver}" suffix could be split
// at more than one position with equal claim, per spec.md's noted grammar
// ambiguity (§4.F).
type AmbiguousTag struct {
	Raw    string
	Splits []string
}

func (e *AmbiguousTag) Error() string {
	return fmt.Sprintf("tagresolve: %q is ambiguous between package candidates %v", e.Raw, e.Splits)
}

// TagVersionMismatch means a Singular tag named a real package, but at a
// version that package does not currently have.
type TagVersionMismatch struct {
	Package        string
	TagVersion     string
	ActualVersion  string
}

func (e *TagVersionMismatch) Error() string {
	return fmt.Sprintf("tagresolve: package %q is at version %s, tag requested %s", e.Package, e.ActualVersion, e.TagVersion)
}

// EmptyAnnouncement means a Unified tag matched zero Apps and there is no
// library-only fallback.
type EmptyAnnouncement struct {
	Raw string
}

func (e *EmptyAnnouncement) Error() string {
	return fmt.Sprintf("tagresolve: tag %q selects no App", e.Raw)
}

// AmbiguousAnnouncement means the caller asked for tag inference but the
// workspace's Apps don't share a single version and there is more than one
// App, so no tag can be synthesized unambiguously.
type AmbiguousAnnouncement struct{}

func (e *AmbiguousAnnouncement) Error() string {
	return "tagresolve: workspace apps do not share a version; pass an explicit --tag"
}

// UnknownPackage means a Singular tag named a package absent from the
// workspace entirely (distinct from TagVersionMismatch, where the package
// exists but at a different version).
type UnknownPackage struct {
	Package string
}

func (e *UnknownPackage) Error() string {
	return fmt.Sprintf("tagresolve: no package named %q in workspace", e.Package)
}
