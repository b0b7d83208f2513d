package manifest

import "encoding/json"

// epoch2Manifest mirrors dist-manifest.json as it existed before the
// URL-restructuring that introduced per-artifact install hints and
// multi-triple archives: each artifact carried exactly one target triple
// (singular) and a "checksum-for" back-reference instead of "checksum_of".
// Grounded on the upgrade-by-field-mapping approach used by distgo's own
// legacy-config upgrader.
type epoch2Manifest struct {
	DistVersion              string                        `json:"dist_version"`
	AnnouncementTag          string                        `json:"announcement_tag"`
	AnnouncementIsPrerelease bool                          `json:"announcement_is_prerelease"`
	Releases                 []Release                     `json:"releases"`
	Artifacts                map[string]epoch2ArtifactInfo `json:"artifacts"`
	PublishPrereleases       bool                          `json:"publish_prereleases"`
}

type epoch2ArtifactInfo struct {
	Name         string       `json:"name"`
	Kind         ArtifactKind `json:"kind"`
	TargetTriple string       `json:"target_triple,omitempty"`
	Assets       []string     `json:"assets,omitempty"`
	ChecksumFor  string       `json:"checksum-for,omitempty"`
}

func decodeEpoch2(data []byte) (*Manifest, error) {
	var legacy epoch2Manifest
	if err := json.Unmarshal(data, &legacy); err != nil {
		return nil, err
	}
	// See Decode's comment: nil Releases/Artifacts is the library-only
	// shape, valid at every epoch, not a missing-field error.

	m := &Manifest{
		DistVersion:              legacy.DistVersion,
		AnnouncementTag:          legacy.AnnouncementTag,
		AnnouncementIsPrerelease: legacy.AnnouncementIsPrerelease,
		Releases:                 legacy.Releases,
		PublishPrereleases:       legacy.PublishPrereleases,
		Artifacts:                make(map[string]Artifact, len(legacy.Artifacts)),
	}

	for id, a := range legacy.Artifacts {
		upgraded := Artifact{
			Name:       a.Name,
			Kind:       a.Kind,
			Assets:     a.Assets,
			ChecksumOf: a.ChecksumFor,
		}
		if a.TargetTriple != "" {
			upgraded.TargetTriples = []string{a.TargetTriple}
		}
		m.Artifacts[id] = upgraded
	}

	return m, nil
}
