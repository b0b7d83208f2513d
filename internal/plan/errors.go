package plan

import "fmt"

// InstallerIncompatibleWithTargets is returned when an enabled installer
// kind has no eligible target in a release's target set (e.g. Homebrew
// selected with only Windows targets).
type InstallerIncompatibleWithTargets struct {
	Installer string
	Release   string
}

func (e *InstallerIncompatibleWithTargets) Error() string {
	return fmt.Sprintf("plan: installer %q is incompatible with release %q's target set", e.Installer, e.Release)
}

// MissingRepoForInstaller is returned when an installer that needs a
// download URL is enabled but the package has no resolvable repository.
type MissingRepoForInstaller struct {
	Installer string
	Release   string
}

func (e *MissingRepoForInstaller) Error() string {
	return fmt.Sprintf("plan: installer %q for release %q requires a repository but none is configured", e.Installer, e.Release)
}

// DuplicateArtifactId indicates a Planner bug: two artifacts were assigned
// the same id. Always fatal.
type DuplicateArtifactId struct {
	ID string
}

func (e *DuplicateArtifactId) Error() string {
	return fmt.Sprintf("plan: duplicate artifact id %q", e.ID)
}

// DependencyCycle indicates the artifact input graph is not a DAG. Always
// fatal; the Planner never constructs cyclic input references by
// construction, so this signals a bug, not bad user input.
type DependencyCycle struct {
	Path []string
}

func (e *DependencyCycle) Error() string {
	return fmt.Sprintf("plan: dependency cycle detected: %v", e.Path)
}
