package assemble

import "fmt"

// AssemblyError wraps a release-scoped assembly failure (spec.md §7,
// kind "Assembly": archive/template/checksum I/O failures).
type AssemblyError struct {
	Release string
	Stage   string // "archives", "checksums", "installers"
	Err     error
}

func (e *AssemblyError) Error() string {
	return fmt.Sprintf("assemble: release %s: %s: %v", e.Release, e.Stage, e.Err)
}

func (e *AssemblyError) Unwrap() error { return e.Err }
