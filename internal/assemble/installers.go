package assemble

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mholt/archives"

	"github.com/distkit/dist/internal/plan"
	"github.com/distkit/dist/internal/render"
)

// writeInstallers renders and writes every installer artifact of a
// release. Homebrew rendering happens strictly after archive checksums
// exist (spec.md §5); since writeChecksumArtifacts already ran by the
// time this is called (assemble.go's assembleRelease ordering), sha256hexes
// is always populated here.
func (a *Assembler) writeInstallers(graph *plan.DistGraph, release *plan.Release, outDir string, sha256hexes map[string]string) ([]string, error) {
	var written []string

	for _, id := range release.ArtifactIDs {
		art := graph.Artifacts[id]
		if !art.Kind.IsInstaller() {
			continue
		}

		var content []byte
		var err error

		switch art.Kind {
		case plan.KindShellInstaller:
			content, err = a.Engine.ShellInstaller(render.ShellDataFor(graph, release, art.InputIDs, art.DownloadURLBase))
		case plan.KindPowerShellInstaller:
			content, err = a.Engine.PowerShellInstaller(render.ShellDataFor(graph, release, art.InputIDs, art.DownloadURLBase))
		case plan.KindHomebrewInstaller:
			archiveIDs, _ := splitHomebrewInputs(graph, art.InputIDs)
			content, err = a.Engine.HomebrewFormula(render.HomebrewDataFor(graph, release, archiveIDs, art.DownloadURLBase, sha256hexes))
		case plan.KindMSIInstaller:
			content, err = a.Engine.MSIFragment(render.MSIDataFor(graph, release, art.InputIDs[0], art.MSIUpgradeCode))
		case plan.KindNPMInstaller:
			err = a.writeNPMPackage(graph, release, art, outDir, sha256hexes)
		default:
			err = fmt.Errorf("unrecognized installer kind %q", art.Kind)
		}
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", id, err)
		}

		if content != nil {
			if err := os.WriteFile(outPath(outDir, art.ID), content, 0o644); err != nil {
				return nil, err
			}
		}
		written = append(written, id)
	}

	return written, nil
}

// splitHomebrewInputs separates a Homebrew artifact's InputIDs (archives
// followed by their sha256 Checksum artifacts, per plan/installers.go)
// into the archive ids and the checksum ids, each preserving order.
func splitHomebrewInputs(graph *plan.DistGraph, inputIDs []string) (archives, checksums []string) {
	for _, id := range inputIDs {
		if graph.Artifacts[id].Kind == plan.KindChecksum {
			checksums = append(checksums, id)
		} else {
			archives = append(archives, id)
		}
	}
	return archives, checksums
}

// writeNPMPackage stages package.json and the install.js postinstall
// script (no binaries) into a directory, then tars it as the
// `{app}-npm-package.tar.gz` artifact (spec.md §4.F step 5, §6).
func (a *Assembler) writeNPMPackage(graph *plan.DistGraph, release *plan.Release, art *plan.Artifact, outDir string, sha256hexes map[string]string) error {
	scope := string(release.Config.NPMScope)
	data := render.NPMDataFor(graph, release, art.InputIDs, art.DownloadURLBase, scope)

	pkgJSON, err := a.Engine.NPMPackageJSON(data)
	if err != nil {
		return err
	}
	installJS, err := a.Engine.NPMInstallJS(data)
	if err != nil {
		return err
	}

	stageDir, err := os.MkdirTemp("", "dist-npm-")
	if err != nil {
		return err
	}
	defer os.RemoveAll(stageDir)

	if err := os.WriteFile(filepath.Join(stageDir, "package.json"), pkgJSON, 0o644); err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(stageDir, "install.js"), installJS, 0o644); err != nil {
		return err
	}

	// install.js fetches the right platform archive over https at
	// `npm install` time (spec.md §4.F step 5's npm package), so no
	// binaries are staged into the tarball itself.

	ctx := context.Background()
	files, err := archives.FilesFromDisk(ctx, nil, map[string]string{stageDir: ""})
	if err != nil {
		return err
	}

	out, err := os.Create(outPath(outDir, art.ID))
	if err != nil {
		return err
	}
	defer out.Close()

	format := archives.CompressedArchive{Compression: archives.Gz{}, Archival: archives.Tar{}}
	return format.Archive(ctx, out, files)
}
