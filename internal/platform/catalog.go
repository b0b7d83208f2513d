// Package platform is the static target-triple taxonomy: display names,
// OS family, CPU, and default archive-format mapping (spec.md §4.E).
package platform

import "fmt"

// OSFamily groups triples by the archive/installer conventions they share.
type OSFamily string

const (
	Linux   OSFamily = "linux"
	Darwin  OSFamily = "darwin"
	Windows OSFamily = "windows"
)

// Triple describes one entry of the platform catalog.
type Triple struct {
	Name              string
	DisplayName       string
	Family            OSFamily
	CPU               string
	DefaultArchiveExt string
}

// UnknownTarget is returned when a configured triple has no catalog entry.
type UnknownTarget struct {
	Triple string
}

func (e *UnknownTarget) Error() string {
	return fmt.Sprintf("platform: unknown target triple %q", e.Triple)
}

// catalog is a compile-time-initialized table, part of the immutable
// services value threaded through the Planner (spec.md §4.F).
var catalog = map[string]Triple{
	"x86_64-unknown-linux-gnu": {
		Name: "x86_64-unknown-linux-gnu", DisplayName: "Linux x64 (glibc)",
		Family: Linux, CPU: "x86_64", DefaultArchiveExt: ".tar.xz",
	},
	"x86_64-unknown-linux-musl": {
		Name: "x86_64-unknown-linux-musl", DisplayName: "Linux x64 (musl, static)",
		Family: Linux, CPU: "x86_64", DefaultArchiveExt: ".tar.xz",
	},
	"aarch64-unknown-linux-gnu": {
		Name: "aarch64-unknown-linux-gnu", DisplayName: "Linux ARM64 (glibc)",
		Family: Linux, CPU: "aarch64", DefaultArchiveExt: ".tar.xz",
	},
	"aarch64-unknown-linux-musl": {
		Name: "aarch64-unknown-linux-musl", DisplayName: "Linux ARM64 (musl, static)",
		Family: Linux, CPU: "aarch64", DefaultArchiveExt: ".tar.xz",
	},
	"x86_64-apple-darwin": {
		Name: "x86_64-apple-darwin", DisplayName: "macOS x64",
		Family: Darwin, CPU: "x86_64", DefaultArchiveExt: ".tar.xz",
	},
	"aarch64-apple-darwin": {
		Name: "aarch64-apple-darwin", DisplayName: "macOS Apple Silicon",
		Family: Darwin, CPU: "aarch64", DefaultArchiveExt: ".tar.xz",
	},
	"x86_64-pc-windows-msvc": {
		Name: "x86_64-pc-windows-msvc", DisplayName: "Windows x64",
		Family: Windows, CPU: "x86_64", DefaultArchiveExt: ".zip",
	},
	"aarch64-pc-windows-msvc": {
		Name: "aarch64-pc-windows-msvc", DisplayName: "Windows ARM64",
		Family: Windows, CPU: "aarch64", DefaultArchiveExt: ".zip",
	},
}

// Catalog is the read-only view of the platform table the Planner consumes.
type Catalog struct {
	entries map[string]Triple
}

// Default returns the built-in catalog.
func Default() *Catalog {
	return &Catalog{entries: catalog}
}

// Lookup returns the catalog entry for a triple, or UnknownTarget.
func (c *Catalog) Lookup(triple string) (Triple, error) {
	t, ok := c.entries[triple]
	if !ok {
		return Triple{}, &UnknownTarget{Triple: triple}
	}
	return t, nil
}

// All returns every known triple, in stable (map-key-sorted) order.
func (c *Catalog) All() []Triple {
	names := make([]string, 0, len(c.entries))
	for name := range c.entries {
		names = append(names, name)
	}
	sortStrings(names)
	out := make([]Triple, 0, len(names))
	for _, name := range names {
		out = append(out, c.entries[name])
	}
	return out
}

func sortStrings(s []string) {
	for i := 1; i < len(s); i++ {
		for j := i; j > 0 && s[j-1] > s[j]; j-- {
			s[j-1], s[j] = s[j], s[j-1]
		}
	}
}
