package manifest

import "encoding/json"

// manifestAlias mirrors Manifest's known JSON fields so we can use the
// default struct marshaler/unmarshaler for them while handling Extra by
// hand (Go forbids a recursive MarshalJSON call on the same type).
type manifestAlias struct {
	DistVersion              string              `json:"dist_version"`
	AnnouncementTag          string              `json:"announcement_tag"`
	AnnouncementIsPrerelease bool                `json:"announcement_is_prerelease"`
	// omitempty: a library-only announcement (spec.md §4.C, §8 scenario 3)
	// has no Releases/Artifacts at all; see Decode for the matching read side.
	Releases           []Release           `json:"releases,omitempty"`
	Artifacts          map[string]Artifact `json:"artifacts,omitempty"`
	Systems            map[string]System   `json:"systems,omitempty"`
	Assets             map[string]Asset    `json:"assets,omitempty"`
	PublishPrereleases bool                `json:"publish_prereleases"`
}

var manifestKnownFields = map[string]bool{
	"dist_version": true, "announcement_tag": true, "announcement_is_prerelease": true,
	"releases": true, "artifacts": true, "systems": true, "assets": true,
	"publish_prereleases": true,
}

// MarshalJSON emits the current epoch's known fields plus any preserved
// unknown fields from a prior round-trip.
func (m Manifest) MarshalJSON() ([]byte, error) {
	known, err := json.Marshal(manifestAlias{
		DistVersion:              m.DistVersion,
		AnnouncementTag:          m.AnnouncementTag,
		AnnouncementIsPrerelease: m.AnnouncementIsPrerelease,
		Releases:                 m.Releases,
		Artifacts:                m.Artifacts,
		Systems:                  m.Systems,
		Assets:                   m.Assets,
		PublishPrereleases:       m.PublishPrereleases,
	})
	if err != nil {
		return nil, err
	}
	return mergeExtra(known, m.Extra)
}

// UnmarshalJSON populates known fields and stashes anything else in Extra.
func (m *Manifest) UnmarshalJSON(data []byte) error {
	var alias manifestAlias
	if err := json.Unmarshal(data, &alias); err != nil {
		return err
	}
	m.DistVersion = alias.DistVersion
	m.AnnouncementTag = alias.AnnouncementTag
	m.AnnouncementIsPrerelease = alias.AnnouncementIsPrerelease
	m.Releases = alias.Releases
	m.Artifacts = alias.Artifacts
	m.Systems = alias.Systems
	m.Assets = alias.Assets
	m.PublishPrereleases = alias.PublishPrereleases

	extra, err := extractExtra(data, manifestKnownFields)
	if err != nil {
		return err
	}
	m.Extra = extra
	return nil
}

type artifactAlias struct {
	Name          string       `json:"name"`
	Kind          ArtifactKind `json:"kind"`
	TargetTriples []string     `json:"target_triples,omitempty"`
	Assets        []string     `json:"assets,omitempty"`
	ChecksumOf    string       `json:"checksum_of,omitempty"`
	InstallHint   string       `json:"install_hint,omitempty"`
}

var artifactKnownFields = map[string]bool{
	"name": true, "kind": true, "target_triples": true, "assets": true,
	"checksum_of": true, "install_hint": true,
}

func (a Artifact) MarshalJSON() ([]byte, error) {
	known, err := json.Marshal(artifactAlias{
		Name: a.Name, Kind: a.Kind, TargetTriples: a.TargetTriples,
		Assets: a.Assets, ChecksumOf: a.ChecksumOf, InstallHint: a.InstallHint,
	})
	if err != nil {
		return nil, err
	}
	return mergeExtra(known, a.Extra)
}

func (a *Artifact) UnmarshalJSON(data []byte) error {
	var alias artifactAlias
	if err := json.Unmarshal(data, &alias); err != nil {
		return err
	}
	a.Name = alias.Name
	a.Kind = alias.Kind
	a.TargetTriples = alias.TargetTriples
	a.Assets = alias.Assets
	a.ChecksumOf = alias.ChecksumOf
	a.InstallHint = alias.InstallHint

	extra, err := extractExtra(data, artifactKnownFields)
	if err != nil {
		return err
	}
	a.Extra = extra
	return nil
}

// mergeExtra combines a JSON object's encoded known fields with a set of
// preserved unknown fields, known fields taking precedence on conflict.
func mergeExtra(known []byte, extra map[string]json.RawMessage) ([]byte, error) {
	if len(extra) == 0 {
		return known, nil
	}
	merged := make(map[string]json.RawMessage, len(extra))
	for k, v := range extra {
		merged[k] = v
	}
	var knownMap map[string]json.RawMessage
	if err := json.Unmarshal(known, &knownMap); err != nil {
		return nil, err
	}
	for k, v := range knownMap {
		merged[k] = v
	}
	return json.Marshal(merged)
}

// extractExtra returns every top-level key of a JSON object not in known.
func extractExtra(data []byte, known map[string]bool) (map[string]json.RawMessage, error) {
	var all map[string]json.RawMessage
	if err := json.Unmarshal(data, &all); err != nil {
		return nil, err
	}
	var extra map[string]json.RawMessage
	for k, v := range all {
		if known[k] {
			continue
		}
		if extra == nil {
			extra = make(map[string]json.RawMessage)
		}
		extra[k] = v
	}
	return extra, nil
}

// Encode serializes m as the current-epoch dist-manifest.json, pretty
// printed the way the CLI writes it to disk.
func Encode(m *Manifest) ([]byte, error) {
	if m.DistVersion == "" {
		return nil, &SchemaError{Epoch: CurrentEpoch, Field: "dist_version"}
	}
	return json.MarshalIndent(m, "", "  ")
}

// Decode parses dist-manifest.json of any supported epoch (>= Epoch2),
// upgrading epoch-2 manifests to the current shape.
func Decode(data []byte) (*Manifest, error) {
	var probe struct {
		DistVersion string `json:"dist_version"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, err
	}
	if probe.DistVersion == "" {
		return nil, &SchemaError{Field: "dist_version"}
	}

	epoch, err := DetectEpoch(probe.DistVersion)
	if err != nil {
		return nil, err
	}
	if epoch == Epoch1 {
		return nil, &SchemaError{Epoch: Epoch1, Field: "dist_version"}
	}
	if epoch == Epoch2 {
		return decodeEpoch2(data)
	}

	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	// A nil Releases/Artifacts is the library-only announcement shape
	// (spec.md §8 scenario 3), not a schema violation: ToManifest leaves
	// both unset for that case, and Encode's omitempty tags mean the keys
	// are absent from the wire form entirely. A caller distinguishes
	// "nothing to build" from "malformed" via len(m.Releases) == 0
	// alongside a non-empty AnnouncementTag, per DESIGN.md.
	return &m, nil
}
