// Package distconfig resolves the effective DistConfig for a release by
// merging workspace-level, per-package, and CLI-flag layers, later layers
// overriding earlier ones (spec.md §4.D).
package distconfig

// ChecksumAlgorithm enumerates the supported checksum algorithms, plus the
// "off" value spelled "false" in TOML.
type ChecksumAlgorithm string

const (
	ChecksumSHA256   ChecksumAlgorithm = "sha256"
	ChecksumSHA512   ChecksumAlgorithm = "sha512"
	ChecksumSHA3_256 ChecksumAlgorithm = "sha3-256"
	ChecksumBlake2b  ChecksumAlgorithm = "blake2b-256"
	ChecksumOff      ChecksumAlgorithm = "false"
)

// InstallerKind enumerates the installer families a release can opt into.
type InstallerKind string

const (
	InstallerShell      InstallerKind = "shell"
	InstallerPowerShell InstallerKind = "powershell"
	InstallerHomebrew   InstallerKind = "homebrew"
	InstallerMSI        InstallerKind = "msi"
	InstallerNPM        InstallerKind = "npm"
)

// PRRunMode enumerates how pull-request CI runs treat the plan.
type PRRunMode string

const (
	PRRunSkip   PRRunMode = "skip"
	PRRunPlan   PRRunMode = "plan"
	PRRunUpload PRRunMode = "upload"
)

// SSLDotComSignMode enumerates ssl.com Windows code-signing modes.
type SSLDotComSignMode string

const (
	SSLDotComProd SSLDotComSignMode = "prod"
	SSLDotComTest SSLDotComSignMode = "test"
	SSLDotComOff  SSLDotComSignMode = "off"
)

// DistConfig is the merged, effective configuration for a release. Pointer
// fields distinguish "not set at this layer" from a meaningful zero value,
// which Merge relies on.
type DistConfig struct {
	Targets              []string            `toml:"targets" validate:"omitempty,dive,required"`
	Installers           []InstallerKind     `toml:"installers" validate:"omitempty,dive,oneof=shell powershell homebrew msi npm"`
	WindowsArchive       string              `toml:"windows-archive" validate:"omitempty,oneof=.zip .tar.gz .tar.xz"`
	UnixArchive          string              `toml:"unix-archive" validate:"omitempty,oneof=.tar.gz .tar.xz .zip"`
	Checksum             ChecksumAlgorithm   `toml:"checksum" validate:"omitempty,oneof=sha256 sha512 sha3-256 blake2b-256 false"`
	NPMScope             string              `toml:"npm-scope"`
	Tap                  string              `toml:"tap" validate:"omitempty,contains=/"`
	PublishJobs          []string            `toml:"publish-jobs"`
	PublishPrereleases   *bool               `toml:"publish-prereleases"`
	CreateRelease        *bool               `toml:"create-release"`
	PRRunMode            PRRunMode           `toml:"pr-run-mode" validate:"omitempty,oneof=skip plan upload"`
	SSLDotComWindowsSign SSLDotComSignMode   `toml:"ssldotcom-windows-sign" validate:"omitempty,oneof=prod test off"`
	CargoCyclonedx       *bool               `toml:"cargo-cyclonedx"`
	CargoAuditable       *bool               `toml:"cargo-auditable"`
	OmniBOR              *bool               `toml:"omnibor"`
}

// Defaults returns the baseline DistConfig applied before any layer merges
// in (spec.md §4.D's options table, "default" column).
func Defaults() DistConfig {
	return DistConfig{
		Installers: []InstallerKind{InstallerShell},
		Checksum:   ChecksumSHA256,
		PRRunMode:  PRRunSkip,
	}
}
