package registry

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/distkit/dist/internal/paths"
)

// Digest hashes the given byte slices in the order given by the caller
// (`dist plan` passes the announcement tag and the Plan's artifact order).
// Callers should pass a stable order so the digest is reproducible across
// runs.
func Digest(contents ...[]byte) string {
	h := sha256.New()
	for _, c := range contents {
		h.Write(c)
		h.Write([]byte{0}) // separator, avoids concatenation collisions
	}
	return hex.EncodeToString(h.Sum(nil))
}

const (
	dirPerms  = 0o755
	filePerms = 0o644
)

// Load reads the registry from paths.RegistryFile(), returning an empty
// registry if the file doesn't exist yet.
func Load() (*Registry, error) {
	return LoadFrom(paths.RegistryFile())
}

// LoadFrom reads the registry from an explicit path (tests, --no-cache
// callers that want an isolated scratch file).
func LoadFrom(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Registry{Entries: make(map[string]Entry)}, nil
		}
		return nil, fmt.Errorf("registry: read %s: %w", path, err)
	}

	var reg Registry
	if err := yaml.Unmarshal(data, &reg); err != nil {
		return nil, fmt.Errorf("registry: parse %s: %w", path, err)
	}
	if reg.Entries == nil {
		reg.Entries = make(map[string]Entry)
	}
	return &reg, nil
}

// Save writes the registry to paths.RegistryFile().
func (r *Registry) Save() error {
	return r.SaveTo(paths.RegistryFile())
}

// SaveTo writes the registry to an explicit path.
func (r *Registry) SaveTo(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), dirPerms); err != nil {
		return fmt.Errorf("registry: create dir: %w", err)
	}
	data, err := yaml.Marshal(r)
	if err != nil {
		return fmt.Errorf("registry: marshal: %w", err)
	}
	if err := os.WriteFile(path, data, filePerms); err != nil {
		return fmt.Errorf("registry: write %s: %w", path, err)
	}
	return nil
}

// Lookup returns the cache entry for root, if any.
func (r *Registry) Lookup(root string) (Entry, bool) {
	e, ok := r.Entries[root]
	return e, ok
}

// Put records or replaces the cache entry for root.
func (r *Registry) Put(entry Entry) {
	if r.Entries == nil {
		r.Entries = make(map[string]Entry)
	}
	r.Entries[entry.Root] = entry
}

// Fresh reports whether root's cached digest matches digest, meaning the
// caller may skip re-planning.
func (r *Registry) Fresh(root, digest string) bool {
	e, ok := r.Entries[root]
	return ok && e.Digest == digest
}

// Forget removes root's cache entry, if present.
func (r *Registry) Forget(root string) {
	delete(r.Entries, root)
}
