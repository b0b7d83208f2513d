// Package registry is a local cache of previously discovered workspace
// roots and their last-computed Plan digest, keyed by root path and stored
// at ~/.dist/registry.yaml (spec.md §9). `dist plan` writes an entry after
// each run; no command reads the cache back to skip loading or planning,
// so it never changes planning behavior, and `--no-cache` skips the write.
// Adapted from the teacher's
// internal/projects local-registry-at-a-well-known-path pattern, trimmed
// from project-enable/disable bookkeeping down to what the Config/Plan
// caching boundary (spec.md §4.D, §9) actually needs.
package registry

// Entry records the last successful plan for one workspace root.
type Entry struct {
	Root       string `yaml:"root"`
	Digest     string `yaml:"digest"`      // sha256 digest of the Plan, as computed by the caller
	LastPlanAt string `yaml:"last_plan_at"` // RFC3339, set by the caller
}

// Registry holds every known workspace root's cache entry.
type Registry struct {
	Entries map[string]Entry `yaml:"entries"`
}
