package plan

import "fmt"

func (p *Planner) addChecksums(graph *DistGraph, release *Release, archiveIDs []string) error {
	algo := string(release.Config.Checksum)
	if algo == "" || algo == "false" {
		return nil
	}

	for _, archiveID := range archiveIDs {
		checksum := &Artifact{
			ID:                archiveID + "." + algo,
			Kind:              KindChecksum,
			Release:           release.App.Name,
			InputIDs:          []string{archiveID},
			ChecksumAlgorithm: algo,
		}
		if err := addArtifact(graph, release, checksum); err != nil {
			return err
		}
	}

	// Unified checksum file id follows the bare "{algo}.sum" pattern only
	// when it cannot collide (a single release in the whole announcement);
	// otherwise it is namespaced by app name to preserve artifact-id
	// uniqueness, since the Planner's flat output directory has no other
	// way to disambiguate two releases' sum files.
	unifiedID := algo + ".sum"
	if len(graph.Releases) > 1 {
		unifiedID = fmt.Sprintf("%s-%s", release.App.Name, unifiedID)
	}
	unified := &Artifact{
		ID:                unifiedID,
		Kind:              KindUnifiedChecksum,
		Release:           release.App.Name,
		InputIDs:          archiveIDs,
		ChecksumAlgorithm: algo,
	}
	return addArtifact(graph, release, unified)
}
