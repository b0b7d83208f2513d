package plan

import (
	"fmt"
	"strings"

	"github.com/distkit/dist/internal/distconfig"
	"github.com/distkit/dist/internal/distmodel"
	"github.com/distkit/dist/internal/platform"
)

func (p *Planner) addInstallers(graph *DistGraph, release *Release, archiveIDs []string) error {
	downloadBase := ""
	repo := distmodel.CanonicalRepository(release.App.Repository)
	if repo.Host != "" {
		downloadBase = fmt.Sprintf("%s/releases/download/%s", repo.String(), graph.AnnouncementTag)
	}

	unixArchives, windowsArchives, err := splitArchivesByFamily(p.services.Catalog, archiveIDs, graph)
	if err != nil {
		return err
	}

	for _, kind := range release.Config.Installers {
		switch kind {
		case distconfig.InstallerShell:
			if len(unixArchives) == 0 {
				return &InstallerIncompatibleWithTargets{Installer: string(kind), Release: release.App.Name}
			}
			if downloadBase == "" {
				return &MissingRepoForInstaller{Installer: string(kind), Release: release.App.Name}
			}
			art := &Artifact{
				ID: release.App.Name + "-installer.sh", Kind: KindShellInstaller,
				Release: release.App.Name, InputIDs: unixArchives, DownloadURLBase: downloadBase,
			}
			if err := addArtifact(graph, release, art); err != nil {
				return err
			}

		case distconfig.InstallerPowerShell:
			if len(windowsArchives) == 0 {
				return &InstallerIncompatibleWithTargets{Installer: string(kind), Release: release.App.Name}
			}
			if downloadBase == "" {
				return &MissingRepoForInstaller{Installer: string(kind), Release: release.App.Name}
			}
			art := &Artifact{
				ID: release.App.Name + "-installer.ps1", Kind: KindPowerShellInstaller,
				Release: release.App.Name, InputIDs: windowsArchives, DownloadURLBase: downloadBase,
			}
			if err := addArtifact(graph, release, art); err != nil {
				return err
			}

		case distconfig.InstallerHomebrew:
			homebrewArchives := append([]string{}, unixArchives...)
			if len(homebrewArchives) == 0 {
				return &InstallerIncompatibleWithTargets{Installer: string(kind), Release: release.App.Name}
			}
			if downloadBase == "" {
				return &MissingRepoForInstaller{Installer: string(kind), Release: release.App.Name}
			}
			var sha256Inputs []string
			for _, archiveID := range homebrewArchives {
				checksumID := ensureChecksum(graph, release, archiveID, "sha256")
				sha256Inputs = append(sha256Inputs, checksumID)
			}
			art := &Artifact{
				ID: release.App.Name + ".rb", Kind: KindHomebrewInstaller,
				Release: release.App.Name, InputIDs: append(homebrewArchives, sha256Inputs...),
				DownloadURLBase: downloadBase,
			}
			if err := addArtifact(graph, release, art); err != nil {
				return err
			}

		case distconfig.InstallerMSI:
			if len(windowsArchives) == 0 {
				return &InstallerIncompatibleWithTargets{Installer: string(kind), Release: release.App.Name}
			}
			for _, archiveID := range windowsArchives {
				archive := graph.Artifacts[archiveID]
				art := &Artifact{
					ID: strings.TrimSuffix(archiveID, archive.Ext) + ".msi", Kind: KindMSIInstaller,
					Release: release.App.Name, Target: archive.Target, InputIDs: []string{archiveID},
					MSIUpgradeCode: msiUpgradeCode(release.App.Name),
				}
				if err := addArtifact(graph, release, art); err != nil {
					return err
				}
			}

		case distconfig.InstallerNPM:
			if downloadBase == "" {
				return &MissingRepoForInstaller{Installer: string(kind), Release: release.App.Name}
			}
			art := &Artifact{
				ID: release.App.Name + "-npm-package.tar.gz", Kind: KindNPMInstaller,
				Release: release.App.Name, InputIDs: archiveIDs, DownloadURLBase: downloadBase,
			}
			if err := addArtifact(graph, release, art); err != nil {
				return err
			}

		default:
			return fmt.Errorf("plan: unrecognized installer kind %q", kind)
		}
	}

	return nil
}

// ensureChecksum returns the id of a Checksum artifact for archiveID at the
// given algorithm, creating it if the release's configured checksum
// algorithm differs (Homebrew always needs sha256, spec.md §4.F step 4).
func ensureChecksum(graph *DistGraph, release *Release, archiveID, algo string) string {
	id := archiveID + "." + algo
	if _, exists := graph.Artifacts[id]; exists {
		return id
	}
	art := &Artifact{
		ID: id, Kind: KindChecksum, Release: release.App.Name,
		InputIDs: []string{archiveID}, ChecksumAlgorithm: algo,
	}
	graph.Artifacts[id] = art
	release.ArtifactIDs = append(release.ArtifactIDs, id)
	return id
}

func splitArchivesByFamily(catalog *platform.Catalog, archiveIDs []string, graph *DistGraph) (unix, windows []string, err error) {
	for _, id := range archiveIDs {
		archive := graph.Artifacts[id]
		triple, lookupErr := catalog.Lookup(archive.Target)
		if lookupErr != nil {
			return nil, nil, lookupErr
		}
		if triple.Family == platform.Windows {
			windows = append(windows, id)
		} else {
			unix = append(unix, id)
		}
	}
	return unix, windows, nil
}
