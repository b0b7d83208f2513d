package manifest

import (
	"encoding/json"
	"reflect"
	"strings"
	"testing"
)

func sampleManifest() *Manifest {
	return &Manifest{
		DistVersion:     "1.0.0",
		AnnouncementTag: "v1.2.3",
		Releases: []Release{
			{AppName: "foo", AppVersion: "1.2.3", Artifacts: []string{"foo-1.2.3-x86_64-unknown-linux-gnu.tar.xz"}},
		},
		Artifacts: map[string]Artifact{
			"foo-1.2.3-x86_64-unknown-linux-gnu.tar.xz": {
				Name:          "foo-1.2.3-x86_64-unknown-linux-gnu.tar.xz",
				Kind:          KindExecutableArchive,
				TargetTriples: []string{"x86_64-unknown-linux-gnu"},
				Assets:        []string{"foo", "README.md"},
			},
		},
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	m := sampleManifest()
	data, err := Encode(m)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	got, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !reflect.DeepEqual(got, m) {
		t.Fatalf("round trip mismatch:\n got  %+v\n want %+v", got, m)
	}
}

func TestEncodeDecodeRoundTripLibraryOnly(t *testing.T) {
	// spec.md §8 scenario 3: a library-only announcement's manifest has no
	// Releases/Artifacts at all.
	m := &Manifest{
		DistVersion:     "1.0.0",
		AnnouncementTag: "liboo-v1.0.0",
	}
	data, err := Encode(m)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if strings.Contains(string(data), `"releases"`) || strings.Contains(string(data), `"artifacts"`) {
		t.Fatalf("expected releases/artifacts omitted from library-only manifest, got %s", data)
	}
	got, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(got.Releases) != 0 || len(got.Artifacts) != 0 {
		t.Fatalf("expected empty Releases/Artifacts, got %+v", got)
	}
	if got.AnnouncementTag != m.AnnouncementTag {
		t.Fatalf("announcement tag mismatch: got %q want %q", got.AnnouncementTag, m.AnnouncementTag)
	}
}

func TestEncodeRequiresDistVersion(t *testing.T) {
	m := sampleManifest()
	m.DistVersion = ""
	if _, err := Encode(m); err == nil {
		t.Fatal("expected error for missing dist_version")
	}
}

func TestDecodePreservesUnknownTopLevelFields(t *testing.T) {
	raw := `{
		"dist_version": "1.0.0",
		"announcement_tag": "v1.0.0",
		"announcement_is_prerelease": false,
		"releases": [],
		"artifacts": {},
		"publish_prereleases": false,
		"from_the_future": {"nested": true}
	}`
	m, err := Decode([]byte(raw))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if m.Extra == nil || string(m.Extra["from_the_future"]) != `{"nested": true}` {
		t.Fatalf("expected from_the_future preserved, got %v", m.Extra)
	}

	reencoded, err := Encode(m)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	var roundTripped map[string]json.RawMessage
	if err := json.Unmarshal(reencoded, &roundTripped); err != nil {
		t.Fatal(err)
	}
	if _, ok := roundTripped["from_the_future"]; !ok {
		t.Fatal("from_the_future field dropped on re-encode")
	}
}

func TestDecodeEpoch2UpgradesSingularTriple(t *testing.T) {
	raw := `{
		"dist_version": "0.0.5",
		"announcement_tag": "v1.0.0",
		"announcement_is_prerelease": false,
		"releases": [{"app_name": "foo", "app_version": "1.0.0", "artifacts": ["foo.tar.gz"]}],
		"artifacts": {
			"foo.tar.gz": {
				"name": "foo.tar.gz",
				"kind": "executable-archive",
				"target_triple": "x86_64-unknown-linux-gnu",
				"assets": ["foo"]
			}
		},
		"publish_prereleases": false
	}`
	m, err := Decode([]byte(raw))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	art := m.Artifacts["foo.tar.gz"]
	if len(art.TargetTriples) != 1 || art.TargetTriples[0] != "x86_64-unknown-linux-gnu" {
		t.Fatalf("unexpected triples: %v", art.TargetTriples)
	}
}

func TestDecodeEpoch1Unsupported(t *testing.T) {
	raw := `{"dist_version": "0.0.1", "releases": [], "artifacts": {}}`
	_, err := Decode([]byte(raw))
	if _, ok := err.(*SchemaError); !ok {
		t.Fatalf("expected SchemaError, got %v", err)
	}
}

func TestDetectEpochBoundaries(t *testing.T) {
	cases := map[string]Epoch{
		"0.0.2":              Epoch1,
		"0.0.3":               Epoch2,
		"0.0.6-prerelease.6": Epoch2,
		"0.0.6-prerelease.7": Epoch3,
		"1.0.0":              Epoch3,
	}
	for v, want := range cases {
		got, err := DetectEpoch(v)
		if err != nil {
			t.Fatalf("DetectEpoch(%q): %v", v, err)
		}
		if got != want {
			t.Errorf("DetectEpoch(%q) = %d, want %d", v, got, want)
		}
	}
}
