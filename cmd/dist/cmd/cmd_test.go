package cmd

import (
	"errors"
	"testing"

	"github.com/distkit/dist/internal/assemble"
	"github.com/distkit/dist/internal/plan"
)

func TestArtifactMatchesMode(t *testing.T) {
	cases := []struct {
		kind plan.ArtifactKind
		mode string
		want bool
	}{
		{plan.KindExecutableArchive, "all", true},
		{plan.KindExecutableArchive, "local", true},
		{plan.KindExecutableArchive, "global", false},
		{plan.KindShellInstaller, "local", false},
		{plan.KindShellInstaller, "global", true},
		{plan.KindShellInstaller, "host", true},
		{plan.KindChecksum, "local", true},
	}
	for _, c := range cases {
		if got := artifactMatchesMode(c.kind, c.mode); got != c.want {
			t.Errorf("artifactMatchesMode(%v, %q) = %v, want %v", c.kind, c.mode, got, c.want)
		}
	}
}

func TestUsageErrorUnwrapsAndReportsViaErrorsAs(t *testing.T) {
	err := newUsageError("bad flag %q", "--artifacts")
	var ue *usageError
	if !errors.As(err, &ue) {
		t.Fatalf("errors.As(newUsageError(...)) = false, want true")
	}
	if ue.Error() == "" {
		t.Errorf("usageError.Error() is empty")
	}
}

func TestGenericErrorIsNotAUsageError(t *testing.T) {
	err := errors.New("boom")
	var ue *usageError
	if errors.As(err, &ue) {
		t.Errorf("errors.As(plain error) = true, want false")
	}
}

func TestFilterByArtifactsModeSeparatesKeptAndRemoved(t *testing.T) {
	dir := t.TempDir()
	graph := &plan.DistGraph{
		Artifacts: map[string]*plan.Artifact{
			"widget.tar.xz":     {ID: "widget.tar.xz", Kind: plan.KindExecutableArchive},
			"widget-installer.sh": {ID: "widget-installer.sh", Kind: plan.KindShellInstaller},
		},
	}
	result := &assemble.Result{Written: []string{"widget.tar.xz", "widget-installer.sh"}}

	kept, removed := filterByArtifactsMode(graph, result, dir, "local")

	if len(kept) != 1 || kept[0] != "widget.tar.xz" {
		t.Errorf("kept = %v, want [widget.tar.xz]", kept)
	}
	if len(removed) != 1 || removed[0] != "widget-installer.sh" {
		t.Errorf("removed = %v, want [widget-installer.sh]", removed)
	}
}
