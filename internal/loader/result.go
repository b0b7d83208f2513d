// Package loader discovers and parses Cargo, NPM, and generic manifests
// into the uniform distmodel.Workspace representation (spec.md §4.B).
package loader

import (
	"fmt"

	"github.com/distkit/dist/internal/distmodel"
)

// SearchKind identifies which variant of WorkspaceSearch was produced.
type SearchKind string

const (
	// Found means a manifest was located and parsed successfully.
	Found SearchKind = "found"
	// Missing means no candidate manifest was found walking up from start.
	Missing SearchKind = "missing"
	// Broken means a manifest file exists but failed to parse or lacked
	// required fields.
	Broken SearchKind = "broken"
)

// WorkspaceSearch is the sum-type result of a Load call. Exactly one of
// Workspace (Found) or ManifestPath+Err (Broken) is meaningful; Missing
// carries neither.
type WorkspaceSearch struct {
	Kind         SearchKind
	Workspace    *distmodel.Workspace
	ManifestPath string
	Err          error
}

// BrokenManifest is the error kind spec.md §4.B names explicitly: a
// manifest file exists but could not be parsed or lacked required fields.
type BrokenManifest struct {
	Path  string
	Cause error
}

func (e *BrokenManifest) Error() string {
	return fmt.Sprintf("loader: broken manifest %s: %v", e.Path, e.Cause)
}

func (e *BrokenManifest) Unwrap() error { return e.Cause }

func found(w *distmodel.Workspace) WorkspaceSearch {
	return WorkspaceSearch{Kind: Found, Workspace: w}
}

func missing() WorkspaceSearch {
	return WorkspaceSearch{Kind: Missing}
}

func broken(path string, cause error) WorkspaceSearch {
	return WorkspaceSearch{Kind: Broken, ManifestPath: path, Err: &BrokenManifest{Path: path, Cause: cause}}
}
