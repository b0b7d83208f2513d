package distconfig

import "testing"

func TestParseRejectsUnknownOption(t *testing.T) {
	_, err := Parse("workspace", []byte(`checksum = "sha256"
bogus-option = true
`))
	if _, ok := err.(*UnknownOption); !ok {
		t.Fatalf("expected UnknownOption, got %v (%T)", err, err)
	}
}

func TestParseRejectsInvalidEnum(t *testing.T) {
	_, err := Parse("workspace", []byte(`checksum = "md5"
`))
	if _, ok := err.(*InvalidValue); !ok {
		t.Fatalf("expected InvalidValue, got %v (%T)", err, err)
	}
}

func TestParseAccepted(t *testing.T) {
	cfg, err := Parse("workspace", []byte(`
targets = ["x86_64-unknown-linux-gnu"]
installers = ["shell", "homebrew"]
checksum = "sha256"
tap = "acme/homebrew-tap"
`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(cfg.Targets) != 1 || cfg.Targets[0] != "x86_64-unknown-linux-gnu" {
		t.Errorf("unexpected targets: %v", cfg.Targets)
	}
	if len(cfg.Installers) != 2 {
		t.Errorf("unexpected installers: %v", cfg.Installers)
	}
}

func TestMergeLaterLayerWins(t *testing.T) {
	workspace := DistConfig{Checksum: ChecksumSHA512, Installers: []InstallerKind{InstallerShell}}
	pkg := DistConfig{Tap: "acme/tap"}
	cli := DistConfig{Checksum: ChecksumSHA256}

	merged := Merge(workspace, pkg, cli)
	if merged.Checksum != ChecksumSHA256 {
		t.Errorf("Checksum = %v, want overridden by CLI layer", merged.Checksum)
	}
	if merged.Tap != "acme/tap" {
		t.Errorf("Tap = %v, want carried from package layer", merged.Tap)
	}
	if len(merged.Installers) != 1 || merged.Installers[0] != InstallerShell {
		t.Errorf("Installers = %v, want carried from workspace layer", merged.Installers)
	}
}

func TestDefaultsApplyWhenNoLayerSetsField(t *testing.T) {
	merged := Merge()
	if merged.Checksum != ChecksumSHA256 {
		t.Errorf("Checksum default = %v, want sha256", merged.Checksum)
	}
	if merged.PRRunMode != PRRunSkip {
		t.Errorf("PRRunMode default = %v, want skip", merged.PRRunMode)
	}
}
