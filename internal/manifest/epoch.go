package manifest

import (
	"github.com/Masterminds/semver/v3"
)

// Epoch identifies a dist-manifest.json schema generation. The codec reads
// every epoch from 2 onward and always writes CurrentEpoch.
type Epoch int

const (
	// Epoch1 manifests (dist_version <= 0.0.2) are not supported; this
	// tool predates any production use of that shape.
	Epoch1 Epoch = 1
	// Epoch2 covers dist_version up to 0.0.6-prerelease.6, before the
	// URL-restructuring that introduced per-artifact install hints.
	Epoch2 Epoch = 2
	// Epoch3 is the current shape: adds "systems" and "assets".
	Epoch3 Epoch = 3

	CurrentEpoch = Epoch3
)

var epoch2Ceiling = semver.MustParse("0.0.6-prerelease.6")

// DetectEpoch classifies a manifest's dist_version string into an Epoch.
func DetectEpoch(distVersion string) (Epoch, error) {
	v, err := semver.NewVersion(distVersion)
	if err != nil {
		return 0, &SchemaError{Field: "dist_version"}
	}
	switch {
	case v.Compare(epoch2Ceiling) <= 0:
		if isEpoch1(v) {
			return Epoch1, nil
		}
		return Epoch2, nil
	default:
		return Epoch3, nil
	}
}

var epoch1Ceiling = semver.MustParse("0.0.2")

func isEpoch1(v *semver.Version) bool {
	return v.Compare(epoch1Ceiling) <= 0
}
