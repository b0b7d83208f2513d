package loader

import (
	"os"
	"path/filepath"
)

const (
	cargoManifest   = "Cargo.toml"
	npmManifest     = "package.json"
	genericManifest = "dist.toml"
)

// Loader discovers and parses workspace manifests from the filesystem.
type Loader struct{}

// New creates a Loader.
func New() *Loader {
	return &Loader{}
}

// Load walks upward from start until it finds a directory containing one of
// the recognized manifest files, never ascending past clampToDir (when
// non-empty). It returns a single WorkspaceSearch using manifest-kind
// priority Cargo > NPM > generic when a directory carries more than one.
// Use LoadAll to see every coexisting kind instead of just the first.
func (l *Loader) Load(start, clampToDir string) WorkspaceSearch {
	results := l.LoadAll(start, clampToDir)
	if len(results) == 0 {
		return missing()
	}
	return results[0]
}

// LoadAll is like Load but returns a WorkspaceSearch for every manifest kind
// present in the first directory (walking upward from start) that carries
// at least one recognized manifest, per spec.md §4.B's "multiple workspace
// kinds may coexist" note.
func (l *Loader) LoadAll(start, clampToDir string) []WorkspaceSearch {
	dir := start
	clamp := clampToDir
	if clamp != "" {
		abs, err := filepath.Abs(clamp)
		if err == nil {
			clamp = abs
		}
	}

	for {
		absDir, err := filepath.Abs(dir)
		if err != nil {
			return nil
		}

		var results []WorkspaceSearch

		if hasFile(absDir, cargoManifest) {
			ws, err := parseCargoWorkspace(absDir)
			path := filepath.Join(absDir, cargoManifest)
			if err != nil {
				results = append(results, broken(path, err))
			} else {
				results = append(results, found(ws))
			}
		}
		if hasFile(absDir, npmManifest) {
			ws, err := parseNPMWorkspace(absDir)
			path := filepath.Join(absDir, npmManifest)
			if err != nil {
				results = append(results, broken(path, err))
			} else {
				results = append(results, found(ws))
			}
		}
		if hasFile(absDir, genericManifest) {
			ws, err := parseGenericWorkspace(absDir)
			path := filepath.Join(absDir, genericManifest)
			if err != nil {
				results = append(results, broken(path, err))
			} else {
				results = append(results, found(ws))
			}
		}

		if len(results) > 0 {
			return results
		}

		if clamp != "" && absDir == clamp {
			// Reached the clamp boundary without finding a manifest.
			// spec.md §9 leaves "workspace root escapes clamp_to_dir"
			// undefined; we return Missing rather than guess (also
			// spec.md §9).
			return nil
		}

		parent := filepath.Dir(absDir)
		if parent == absDir {
			return nil
		}
		dir = parent
	}
}

func hasFile(dir, name string) bool {
	info, err := os.Stat(filepath.Join(dir, name))
	return err == nil && !info.IsDir()
}
