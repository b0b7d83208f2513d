package distmodel

import "fmt"

// WorkspaceError is the error kind for workspace-model invariant violations
// (ambiguity, missing required fields) per spec.md §7 taxonomy kind 2.
type WorkspaceError struct {
	Reason string
}

func (e *WorkspaceError) Error() string {
	return fmt.Sprintf("workspace: %s", e.Reason)
}

func newWorkspaceError(format string, args ...any) error {
	return &WorkspaceError{Reason: fmt.Sprintf(format, args...)}
}
