package plan

import (
	"fmt"
	"strings"

	"github.com/distkit/dist/internal/distconfig"
	"github.com/distkit/dist/internal/distmodel"
	"github.com/distkit/dist/internal/platform"
)

// addArtifactsForRelease implements the Planner algorithm's steps 2-5
// (spec.md §4.F) for one Release: archives, symbols, checksums, installers.
func (p *Planner) addArtifactsForRelease(graph *DistGraph, release *Release) error {
	autoincludes, err := release.App.AutoincludeFiles()
	if err != nil {
		return fmt.Errorf("plan: %s: %w", release.App.Name, err)
	}

	var archiveIDs []string
	for _, target := range release.Targets {
		triple, err := p.services.Catalog.Lookup(target)
		if err != nil {
			return err
		}
		ext := archiveExtension(triple, release.Config)

		archiveID := fmt.Sprintf("%s-%s-%s%s", release.App.Name, release.Version.String(), target, ext)
		archive := &Artifact{
			ID:     archiveID,
			Kind:   KindExecutableArchive,
			Release: release.App.Name,
			Target: target,
			Ext:    ext,
			Contents: ArchiveContents{
				Executables:  executableNames(release.App),
				CDylibs:      binaryNames(release.App, distmodel.BinaryCDylib),
				CStaticLibs:  binaryNames(release.App, distmodel.BinaryCStaticLib),
				Autoincludes: autoincludes,
			},
		}
		if err := addArtifact(graph, release, archive); err != nil {
			return err
		}
		archiveIDs = append(archiveIDs, archiveID)

		if emitsSymbols(triple) {
			symbolsID := fmt.Sprintf("%s-%s-%s.symbols%s", release.App.Name, release.Version.String(), target, ext)
			symbols := &Artifact{
				ID:      symbolsID,
				Kind:    KindSymbols,
				Release: release.App.Name,
				Target:  target,
				Ext:     ext,
				InputIDs: []string{archiveID},
			}
			if err := addArtifact(graph, release, symbols); err != nil {
				return err
			}
		} else {
			graph.addWarning("%s: no symbols artifact for target %s (toolchain does not emit separate debug info)", release.App.Name, target)
		}
	}

	if err := p.addChecksums(graph, release, archiveIDs); err != nil {
		return err
	}

	if err := p.addInstallers(graph, release, archiveIDs); err != nil {
		return err
	}

	return nil
}

func archiveExtension(triple platform.Triple, cfg distconfig.DistConfig) string {
	switch triple.Family {
	case platform.Windows:
		if cfg.WindowsArchive != "" {
			return cfg.WindowsArchive
		}
	default:
		if cfg.UnixArchive != "" {
			return cfg.UnixArchive
		}
	}
	return triple.DefaultArchiveExt
}

// emitsSymbols reports whether a target's toolchain produces a separate
// debug-info artifact: pdb on Windows-MSVC, dSYM on Apple, split debuginfo
// on Linux-GNU (spec.md §4.F step 3). musl targets are typically statically
// linked with debug info embedded, so no separate symbols artifact.
func emitsSymbols(triple platform.Triple) bool {
	switch triple.Family {
	case platform.Windows, platform.Darwin:
		return true
	case platform.Linux:
		return strings.HasSuffix(triple.Name, "-gnu")
	default:
		return false
	}
}

func executableNames(pkg *distmodel.Package) []string {
	var out []string
	for _, b := range pkg.Binaries {
		if b.Kind == distmodel.BinaryExecutable {
			out = append(out, b.Name)
		}
	}
	return out
}

func binaryNames(pkg *distmodel.Package, kind distmodel.BinaryKind) []string {
	var out []string
	for _, b := range pkg.Binaries {
		if b.Kind == kind {
			out = append(out, b.Name)
		}
	}
	return out
}
