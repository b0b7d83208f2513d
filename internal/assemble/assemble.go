// Package assemble is the Artifact Assembler (spec.md §4.H): given a Plan
// and a Builder that produces per-(Release,Target) binary outputs, it
// stages archives, computes checksums, and renders installers into a flat
// output directory.
//
// The Assembler fans out archive construction across (Release,Target)
// pairs with a bounded worker pool (spec.md §5), matching the teacher's
// channel-based concurrency elsewhere (e.g. internal/syncgh's poller) since
// no worker-pool library appears anywhere in the example pack. Ordering
// guarantees from spec.md §5 — archives before installers, unified checksum
// after all archives, Homebrew after checksums — are enforced by joining
// every archive goroutine for a Release before its checksum files and then
// its installers are written, one after another.
package assemble

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/distkit/dist/internal/plan"
	"github.com/distkit/dist/internal/render"
)

// BuildOutput is what a Builder produces for one (Release,Target) pair:
// absolute paths on disk to the built executables, libraries, and (if the
// toolchain emits them) debug symbols (spec.md §6, "Builder interface").
type BuildOutput struct {
	Executables map[string]string // binary name -> path on disk
	CDylibs     map[string]string
	CStaticLibs map[string]string
	Symbols     []string // paths to symbol files/dirs, if any
}

// Builder is the external collaborator that turns (release, target) into
// built binaries (spec.md §1, §6). Implementations must be deterministic
// with respect to their declared inputs; the default adapter is
// internal/build.ExecBuilder.
type Builder interface {
	Build(ctx context.Context, appName, target, stagingDir string) (BuildOutput, error)
}

// Result is what Assemble returns: every artifact successfully written,
// and the checksums computed for checksum-coherence (spec.md §8).
type Result struct {
	OutDir      string
	Written     []string          // artifact ids written, sorted by id
	Checksums   map[string]string // archive/symbols artifact id -> hex digest
	ReleaseErrs map[string]error  // release (app name) -> fatal error, if any
}

// Assembler holds the services (template engine, worker-pool width) needed
// to materialize a Plan. It is reusable across Plans.
type Assembler struct {
	Engine      *render.Engine
	Concurrency int // 0 => 4 workers
}

// New returns an Assembler using the production template engine.
func New() *Assembler {
	return &Assembler{Engine: render.New()}
}

// Assemble materializes every artifact of graph into outDir. Archive or
// template failures abort the current Release only (spec.md §7,
// "Assembly errors abort the current Release but allow other Releases to
// complete"); a release's failure is recorded in Result.ReleaseErrs and
// does not stop sibling releases from assembling.
func (a *Assembler) Assemble(ctx context.Context, graph *plan.DistGraph, builder Builder, outDir string) (*Result, error) {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, fmt.Errorf("assemble: create output dir: %w", err)
	}

	res := &Result{
		OutDir:      outDir,
		Checksums:   make(map[string]string),
		ReleaseErrs: make(map[string]error),
	}

	if graph.LibraryOnly != nil {
		return res, nil
	}

	var mu sync.Mutex
	for _, release := range graph.Releases {
		written, err := a.assembleRelease(ctx, graph, release, builder, outDir, res.Checksums, &mu)
		if err != nil {
			res.ReleaseErrs[release.App.Name] = err
			continue
		}
		res.Written = append(res.Written, written...)
	}

	sort.Strings(res.Written)
	return res, nil
}

func (a *Assembler) assembleRelease(ctx context.Context, graph *plan.DistGraph, release *plan.Release, builder Builder, outDir string, checksums map[string]string, mu *sync.Mutex) ([]string, error) {
	archiveIDs, symbolIDs := releaseArchiveIDs(graph, release)

	written, err := a.buildArchives(ctx, graph, release, builder, outDir, archiveIDs, symbolIDs, checksums, mu)
	if err != nil {
		return nil, &AssemblyError{Release: release.App.Name, Stage: "archives", Err: err}
	}

	checksumIDs, err := a.writeChecksumArtifacts(graph, release, outDir, checksums)
	if err != nil {
		return nil, &AssemblyError{Release: release.App.Name, Stage: "checksums", Err: err}
	}
	written = append(written, checksumIDs...)

	installerIDs, err := a.writeInstallers(graph, release, outDir, checksums)
	if err != nil {
		return nil, &AssemblyError{Release: release.App.Name, Stage: "installers", Err: err}
	}
	written = append(written, installerIDs...)

	return written, nil
}

// releaseArchiveIDs partitions a release's artifact ids into executable
// archives and symbols archives, the two kinds the Builder phase produces.
func releaseArchiveIDs(graph *plan.DistGraph, release *plan.Release) (archives, symbols []string) {
	for _, id := range release.ArtifactIDs {
		art := graph.Artifacts[id]
		switch art.Kind {
		case plan.KindExecutableArchive:
			archives = append(archives, id)
		case plan.KindSymbols:
			symbols = append(symbols, id)
		}
	}
	return archives, symbols
}

func outPath(outDir, artifactID string) string {
	return filepath.Join(outDir, artifactID)
}
