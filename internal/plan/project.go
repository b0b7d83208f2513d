package plan

import (
	"sort"

	"github.com/distkit/dist/internal/manifest"
)

// ToManifest projects a DistGraph into the stable external dist-manifest.json
// shape (spec.md §4.I). The Planner's richer internal Artifact shape (nine
// kinds, checksum algorithms, MSI upgrade codes) collapses into the
// manifest's five public kinds; installer-specific detail other than the
// artifact's name and target triples is not part of the external contract.
func (g *DistGraph) ToManifest(distVersion string) *manifest.Manifest {
	m := &manifest.Manifest{
		DistVersion:              distVersion,
		AnnouncementTag:          g.AnnouncementTag,
		AnnouncementIsPrerelease: g.IsPrerelease,
		Artifacts:                make(map[string]manifest.Artifact, len(g.Artifacts)),
	}

	if g.LibraryOnly != nil {
		return m
	}

	triples := make(map[string]struct{})

	for _, release := range g.Releases {
		mr := manifest.Release{
			AppName:    release.App.Name,
			AppVersion: release.Version.String(),
			Artifacts:  append([]string{}, release.ArtifactIDs...),
		}
		sort.Strings(mr.Artifacts)
		m.Releases = append(m.Releases, mr)

		for _, target := range release.Targets {
			triples[target] = struct{}{}
		}
	}

	for id, a := range g.Artifacts {
		m.Artifacts[id] = projectArtifact(a)
	}

	if len(triples) > 0 {
		m.Systems = make(map[string]manifest.System, len(triples))
		for triple := range triples {
			m.Systems[triple] = manifest.System{Triple: triple}
		}
	}

	return m
}

func projectArtifact(a *Artifact) manifest.Artifact {
	out := manifest.Artifact{
		Name: a.ID,
		Kind: projectKind(a.Kind),
	}
	if a.Target != "" {
		out.TargetTriples = []string{a.Target}
	}

	switch a.Kind {
	case KindExecutableArchive, KindSymbols:
		out.Assets = assembleAssetNames(a.Contents)
	case KindChecksum:
		if len(a.InputIDs) == 1 {
			out.ChecksumOf = a.InputIDs[0]
		}
	}

	return out
}

func projectKind(k ArtifactKind) manifest.ArtifactKind {
	if k.IsInstaller() {
		return manifest.KindInstaller
	}
	switch k {
	case KindExecutableArchive:
		return manifest.KindExecutableArchive
	case KindSymbols:
		return manifest.KindSymbols
	case KindChecksum:
		return manifest.KindChecksum
	case KindUnifiedChecksum:
		return manifest.KindUnifiedChecksum
	default:
		return manifest.KindExecutableArchive
	}
}

func assembleAssetNames(c ArchiveContents) []string {
	var out []string
	out = append(out, c.Executables...)
	out = append(out, c.CDylibs...)
	out = append(out, c.CStaticLibs...)
	out = append(out, c.Autoincludes...)
	sort.Strings(out)
	return out
}
