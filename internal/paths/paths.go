// Package paths provides the one well-known directory dist keeps outside
// any particular workspace: the global home for cross-invocation state (the
// workspace-discovery registry, spec.md §9).
//
// Environment variables:
//   - DIST_HOME: override the global dist home (default: ~/.dist)
package paths

import (
	"os"
	"path/filepath"
)

// Home returns the global dist home directory. Uses DIST_HOME if set,
// otherwise ~/.dist. Callers are responsible for creating it on first use.
func Home() string {
	if h := os.Getenv("DIST_HOME"); h != "" {
		return h
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".dist"
	}
	return filepath.Join(home, ".dist")
}

// RegistryFile returns the path to the local workspace-discovery cache
// (internal/registry), spec.md §9's "local cache of previously discovered
// workspace roots and their last-computed Plan digest".
func RegistryFile() string {
	return filepath.Join(Home(), "registry.yaml")
}
