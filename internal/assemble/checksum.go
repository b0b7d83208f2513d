package assemble

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/distkit/dist/internal/plan"
)

// writeChecksumArtifacts writes the individual `.{algo}` sidecar for every
// Checksum artifact the plan gives the release (one per executable
// archive; symbols archives get none) plus the release's UnifiedChecksums file
// (spec.md §4.F step 4, §6). sha256hexes holds the sha256 digests already
// computed while writing each archive (archive.go); checksums for other
// configured algorithms are computed here by re-hashing the written file.
func (a *Assembler) writeChecksumArtifacts(graph *plan.DistGraph, release *plan.Release, outDir string, sha256hexes map[string]string) ([]string, error) {
	var written []string

	for _, id := range release.ArtifactIDs {
		art := graph.Artifacts[id]
		if art.Kind != plan.KindChecksum {
			continue
		}
		target := art.InputIDs[0]
		digest, err := digestFor(outDir, target, art.ChecksumAlgorithm, sha256hexes)
		if err != nil {
			return nil, err
		}
		line := fmt.Sprintf("%s  %s\n", digest, target)
		if err := os.WriteFile(outPath(outDir, art.ID), []byte(line), 0o644); err != nil {
			return nil, err
		}
		written = append(written, art.ID)
	}

	for _, id := range release.ArtifactIDs {
		art := graph.Artifacts[id]
		if art.Kind != plan.KindUnifiedChecksum {
			continue
		}
		names := append([]string{}, art.InputIDs...)
		sort.Strings(names)

		var buf []byte
		for _, name := range names {
			digest, err := digestFor(outDir, name, art.ChecksumAlgorithm, sha256hexes)
			if err != nil {
				return nil, err
			}
			buf = append(buf, []byte(fmt.Sprintf("%s  %s\n", digest, name))...)
		}
		if err := os.WriteFile(outPath(outDir, art.ID), buf, 0o644); err != nil {
			return nil, err
		}
		written = append(written, art.ID)
	}

	return written, nil
}

// digestFor returns the hex digest of the archive named targetID in the
// given algorithm, reusing the sha256 computed while writing the archive
// (archive.go) when algo is sha256 to avoid re-reading the file twice.
func digestFor(outDir, targetID, algo string, sha256hexes map[string]string) (string, error) {
	if algo == "sha256" || algo == "" {
		if hex, ok := sha256hexes[targetID]; ok {
			return hex, nil
		}
	}
	h := newHasher(algo)
	if h == nil {
		return "", fmt.Errorf("assemble: unknown checksum algorithm %q", algo)
	}
	f, err := os.Open(filepath.Join(outDir, targetID))
	if err != nil {
		return "", fmt.Errorf("assemble: checksum input %s: %w", targetID, err)
	}
	defer f.Close()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return fmt.Sprintf("%x", h.Sum(nil)), nil
}
