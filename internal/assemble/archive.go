package assemble

import (
	"context"
	"crypto/sha256"
	"crypto/sha512"
	"fmt"
	"hash"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/mholt/archives"
	"github.com/otiai10/copy"
	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/sha3"

	"github.com/distkit/dist/internal/plan"
)

// buildArchives fans out staging + compression across a release's
// (target) archive and symbols artifacts with a bounded worker pool
// (spec.md §5), returning the ids successfully written. A failure on any
// one archive aborts the whole release (spec.md §7: "Archive or template
// failures are fatal and abort the Assembler" — scoped here to the
// release, per the looser multi-release guarantee also in §7).
func (a *Assembler) buildArchives(ctx context.Context, graph *plan.DistGraph, release *plan.Release, builder Builder, outDir string, archiveIDs, symbolIDs []string, checksums map[string]string, mu *sync.Mutex) ([]string, error) {
	allIDs := append(append([]string{}, archiveIDs...), symbolIDs...)
	if len(allIDs) == 0 {
		return nil, nil
	}

	width := a.Concurrency
	if width <= 0 {
		width = 4
	}
	sem := make(chan struct{}, width)

	var wg sync.WaitGroup
	var firstErr error
	var errOnce sync.Once
	written := make([]string, 0, len(allIDs))
	var writtenMu sync.Mutex

	// One Build call per target; executable and symbols archives for the
	// same target share its output.
	targets := uniqueTargets(graph, allIDs)
	outputs := make(map[string]BuildOutput, len(targets))
	for _, target := range targets {
		out, err := builder.Build(ctx, release.App.Name, target, filepath.Join(os.TempDir(), "dist-stage-"+release.App.Name+"-"+target))
		if err != nil {
			return nil, fmt.Errorf("build %s/%s: %w", release.App.Name, target, err)
		}
		outputs[target] = out
	}

	for _, id := range allIDs {
		id := id
		art := graph.Artifacts[id]
		wg.Add(1)
		sem <- struct{}{}
		go func() {
			defer wg.Done()
			defer func() { <-sem }()

			digest, err := a.writeArchive(release, outDir, art, outputs[art.Target])
			if err != nil {
				errOnce.Do(func() { firstErr = fmt.Errorf("artifact %s: %w", id, err) })
				return
			}
			if digest != "" {
				mu.Lock()
				checksums[id] = digest
				mu.Unlock()
			}
			writtenMu.Lock()
			written = append(written, id)
			writtenMu.Unlock()
		}()
	}
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	return written, nil
}

func uniqueTargets(graph *plan.DistGraph, ids []string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, id := range ids {
		t := graph.Artifacts[id].Target
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

// writeArchive stages an ExecutableArchive or Symbols artifact's contents
// into a single top-level directory and compresses it, hashing the bytes
// as they are written (mirroring the teacher's updater.DownloadAndReplace
// hash-while-copy pattern). Returns the hex sha256 digest used by
// checksum-coherence and by Homebrew rendering, regardless of the
// release's configured checksum algorithm (the individual/unified
// checksum files use the configured algorithm separately, computed in
// checksum.go from the written archive bytes).
func (a *Assembler) writeArchive(release *plan.Release, outDir string, art *plan.Artifact, built BuildOutput) (sha256hex string, err error) {
	stageDir, err := os.MkdirTemp("", "dist-archive-")
	if err != nil {
		return "", err
	}
	defer os.RemoveAll(stageDir)

	topDir := fmt.Sprintf("%s-%s-%s", release.App.Name, release.Version.String(), art.Target)
	dest := filepath.Join(stageDir, topDir)
	if err := os.MkdirAll(dest, 0o755); err != nil {
		return "", err
	}

	for _, name := range art.Contents.Executables {
		if err := stageFile(built.Executables[name], filepath.Join(dest, name)); err != nil {
			return "", fmt.Errorf("stage executable %s: %w", name, err)
		}
	}
	for _, name := range art.Contents.CDylibs {
		if err := stageFile(built.CDylibs[name], filepath.Join(dest, name)); err != nil {
			return "", fmt.Errorf("stage cdylib %s: %w", name, err)
		}
	}
	for _, name := range art.Contents.CStaticLibs {
		if err := stageFile(built.CStaticLibs[name], filepath.Join(dest, name)); err != nil {
			return "", fmt.Errorf("stage cstaticlib %s: %w", name, err)
		}
	}
	for _, name := range art.Contents.Autoincludes {
		if err := stageFile(filepath.Join(release.App.Root, name), filepath.Join(dest, name)); err != nil {
			return "", fmt.Errorf("stage autoinclude %s: %w", name, err)
		}
	}
	if art.Kind == plan.KindSymbols {
		for _, sym := range built.Symbols {
			if err := stageFile(sym, filepath.Join(dest, filepath.Base(sym))); err != nil {
				return "", fmt.Errorf("stage symbols %s: %w", sym, err)
			}
		}
	}

	outFile, err := os.Create(outPath(outDir, art.ID))
	if err != nil {
		return "", err
	}
	defer outFile.Close()

	h := sha256.New()
	if err := compress(art.Ext, stageDir, topDir, io.MultiWriter(outFile, h)); err != nil {
		os.Remove(outFile.Name())
		return "", err
	}
	return fmt.Sprintf("%x", h.Sum(nil)), nil
}

// stageFile copies src into dest using otiai10/copy, the same staging
// library the teacher already depends on (spec.md's "staging binaries...
// uses otiai10/copy the way the teacher would stage files before an
// install step").
func stageFile(src, dest string) error {
	if src == "" {
		return fmt.Errorf("no built path provided")
	}
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return err
	}
	return copy.Copy(src, dest)
}

// compress archives stageDir/topDir into w using the format implied by
// ext. Tar variants use gzip or xz; zip is the Windows default. xz always
// uses the library's default compression level: AXOASSET_XZ_LEVEL is not
// read.
func compress(ext, stageDir, topDir string, w io.Writer) error {
	ctx := context.Background()

	files, err := archives.FilesFromDisk(ctx, nil, map[string]string{
		filepath.Join(stageDir, topDir): topDir,
	})
	if err != nil {
		return fmt.Errorf("collect files: %w", err)
	}

	var format archives.CompressedArchive
	switch ext {
	case ".tar.gz":
		format = archives.CompressedArchive{Compression: archives.Gz{}, Archival: archives.Tar{}}
	case ".tar.xz":
		format = archives.CompressedArchive{Compression: archives.Xz{}, Archival: archives.Tar{}}
	case ".zip":
		format = archives.CompressedArchive{Archival: archives.Zip{}}
	default:
		return fmt.Errorf("unsupported archive extension %q", ext)
	}

	return format.Archive(ctx, w, files)
}

// newHasher returns the hash.Hash for one of the spec.md §4.D checksum
// algorithms, or nil for "false" (checksums disabled).
func newHasher(algo string) hash.Hash {
	switch algo {
	case "sha256":
		return sha256.New()
	case "sha512":
		return sha512.New()
	case "sha3-256":
		return sha3.New256()
	case "blake2b-256":
		h, _ := blake2b.New256(nil)
		return h
	default:
		return nil
	}
}
