package plan

import (
	"errors"
	"strings"
	"testing"

	"github.com/Masterminds/semver/v3"

	"github.com/distkit/dist/internal/distconfig"
	"github.com/distkit/dist/internal/distmodel"
	"github.com/distkit/dist/internal/tagresolve"
)

func mustVersion(t *testing.T, raw string) *semver.Version {
	t.Helper()
	v, err := semver.NewVersion(raw)
	if err != nil {
		t.Fatalf("semver.NewVersion(%q): %v", raw, err)
	}
	return v
}

func appPackage(t *testing.T, name, version string, targets []string) *distmodel.Package {
	t.Helper()
	return &distmodel.Package{
		Name:       name,
		Version:    mustVersion(t, version),
		Repository: "https://github.com/acme/" + name,
		Publish:    true,
		Dist:       true,
		Binaries:   []distmodel.BinaryTarget{{Name: name, Kind: distmodel.BinaryExecutable}},
		Overrides: map[string]any{
			"targets": targets,
		},
	}
}

func testServices() Services {
	return DefaultServices("0.1.0")
}

func TestPlanSingleBinaryCargoWorkspaceUnifiedTag(t *testing.T) {
	app := appPackage(t, "widget", "1.2.3", []string{"x86_64-unknown-linux-gnu", "x86_64-pc-windows-msvc"})
	ws := &distmodel.Workspace{Kind: distmodel.KindCargo, Packages: []*distmodel.Package{app}}

	ann, err := tagresolve.Resolve("v1.2.3", ws)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}

	p := New(testServices())
	graph, err := p.Plan(ws, ann, distconfig.Defaults())
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}

	if len(graph.Releases) != 1 {
		t.Fatalf("len(Releases) = %d, want 1", len(graph.Releases))
	}
	release := graph.Releases[0]

	wantArchives := map[string]bool{
		"widget-1.2.3-x86_64-unknown-linux-gnu.tar.xz": true,
		"widget-1.2.3-x86_64-pc-windows-msvc.zip":      true,
	}
	for id := range wantArchives {
		if _, ok := graph.Artifacts[id]; !ok {
			t.Errorf("missing archive artifact %q", id)
		}
	}

	if _, ok := graph.Artifacts["widget-1.2.3-x86_64-unknown-linux-gnu.symbols.tar.xz"]; !ok {
		t.Errorf("expected a symbols artifact for the gnu target")
	}
	if _, ok := graph.Artifacts["widget-1.2.3-x86_64-pc-windows-msvc.symbols.zip"]; !ok {
		t.Errorf("expected a symbols artifact for the windows target")
	}

	if _, ok := graph.Artifacts["sha256.sum"]; !ok {
		t.Errorf("expected a unified sha256.sum checksum artifact")
	}
	if _, ok := graph.Artifacts["widget-installer.sh"]; !ok {
		t.Errorf("expected the default shell installer artifact")
	}

	for _, id := range release.ArtifactIDs {
		if _, ok := graph.Artifacts[id]; !ok {
			t.Errorf("release references unknown artifact id %q", id)
		}
	}
}

func TestPlanMultiPackageSingularTagVersionMismatch(t *testing.T) {
	a := appPackage(t, "cli-a", "1.0.0", []string{"x86_64-unknown-linux-gnu"})
	b := appPackage(t, "cli-b", "2.0.0", []string{"x86_64-unknown-linux-gnu"})
	ws := &distmodel.Workspace{Kind: distmodel.KindCargo, Packages: []*distmodel.Package{a, b}}

	_, err := tagresolve.Resolve("cli-a-v9.9.9", ws)
	if err == nil {
		t.Fatal("expected a TagVersionMismatch error")
	}
	var mismatch *tagresolve.TagVersionMismatch
	if !errors.As(err, &mismatch) {
		t.Fatalf("err = %v, want *tagresolve.TagVersionMismatch", err)
	}
}

func TestPlanMultiPackageSingularTagSelectsOneRelease(t *testing.T) {
	a := appPackage(t, "cli-a", "1.0.0", []string{"x86_64-unknown-linux-gnu"})
	b := appPackage(t, "cli-b", "2.0.0", []string{"x86_64-unknown-linux-gnu"})
	ws := &distmodel.Workspace{Kind: distmodel.KindCargo, Packages: []*distmodel.Package{a, b}}

	ann, err := tagresolve.Resolve("cli-a-v1.0.0", ws)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}

	p := New(testServices())
	graph, err := p.Plan(ws, ann, distconfig.Defaults())
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	if len(graph.Releases) != 1 || graph.Releases[0].App.Name != "cli-a" {
		t.Fatalf("Releases = %+v, want exactly cli-a", graph.Releases)
	}
}

func TestPlanLibraryOnlyAnnouncementProducesEmptyGraph(t *testing.T) {
	lib := &distmodel.Package{
		Name:    "corelib",
		Version: mustVersion(t, "0.5.0"),
		Publish: true,
		Dist:    true,
	}
	ws := &distmodel.Workspace{Kind: distmodel.KindCargo, Packages: []*distmodel.Package{lib}}

	ann, err := tagresolve.Resolve("corelib-v0.5.0", ws)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if !ann.IsLibraryOnly() {
		t.Fatalf("expected a library-only announcement")
	}

	p := New(testServices())
	graph, err := p.Plan(ws, ann, distconfig.Defaults())
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	if graph.LibraryOnly == nil || graph.LibraryOnly.Name != "corelib" {
		t.Fatalf("graph.LibraryOnly = %+v, want corelib", graph.LibraryOnly)
	}
	if len(graph.Releases) != 0 || len(graph.Artifacts) != 0 {
		t.Fatalf("library-only graph should carry no releases or artifacts")
	}
}

func TestPlanUnifiedChecksumNamespacedAcrossMultipleReleases(t *testing.T) {
	a := appPackage(t, "cli-a", "1.0.0", []string{"x86_64-unknown-linux-gnu"})
	b := appPackage(t, "cli-b", "1.0.0", []string{"x86_64-unknown-linux-gnu"})
	ws := &distmodel.Workspace{Kind: distmodel.KindCargo, Packages: []*distmodel.Package{a, b}}

	ann, err := tagresolve.Resolve("v1.0.0", ws)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if len(ann.Apps) != 2 {
		t.Fatalf("Apps = %v, want both packages selected", ann.Apps)
	}

	p := New(testServices())
	graph, err := p.Plan(ws, ann, distconfig.Defaults())
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}

	if _, ok := graph.Artifacts["sha256.sum"]; ok {
		t.Errorf("bare sha256.sum should not exist once more than one release is present")
	}
	if _, ok := graph.Artifacts["cli-a-sha256.sum"]; !ok {
		t.Errorf("expected cli-a-sha256.sum")
	}
	if _, ok := graph.Artifacts["cli-b-sha256.sum"]; !ok {
		t.Errorf("expected cli-b-sha256.sum")
	}
}

func TestPlanOrderIsDeterministicAndInputsPrecedeDependents(t *testing.T) {
	app := appPackage(t, "widget", "1.0.0", []string{"x86_64-unknown-linux-gnu"})
	ws := &distmodel.Workspace{Kind: distmodel.KindCargo, Packages: []*distmodel.Package{app}}

	ann, err := tagresolve.Resolve("v1.0.0", ws)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}

	p := New(testServices())
	var firstOrder []string
	for i := 0; i < 3; i++ {
		graph, err := p.Plan(ws, ann, distconfig.Defaults())
		if err != nil {
			t.Fatalf("Plan: %v", err)
		}
		if i == 0 {
			firstOrder = graph.Order
			continue
		}
		if strings.Join(graph.Order, ",") != strings.Join(firstOrder, ",") {
			t.Fatalf("Plan() order is not deterministic across runs:\n%v\n%v", firstOrder, graph.Order)
		}
	}

	position := make(map[string]int, len(firstOrder))
	for i, id := range firstOrder {
		position[id] = i
	}
	graph, _ := p.Plan(ws, ann, distconfig.Defaults())
	for id, a := range graph.Artifacts {
		for _, input := range a.InputIDs {
			if position[input] >= position[id] {
				t.Errorf("artifact %q (pos %d) does not come after its input %q (pos %d)", id, position[id], input, position[input])
			}
		}
	}
}

func TestPlanHomebrewForcesSHA256EvenWithDifferentConfiguredAlgorithm(t *testing.T) {
	app := appPackage(t, "widget", "1.0.0", []string{"x86_64-unknown-linux-gnu", "x86_64-apple-darwin"})
	app.Overrides["installers"] = []string{"homebrew"}
	ws := &distmodel.Workspace{Kind: distmodel.KindCargo, Packages: []*distmodel.Package{app}}

	ann, err := tagresolve.Resolve("v1.0.0", ws)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}

	base := distconfig.Defaults()
	base.Checksum = distconfig.ChecksumSHA512

	p := New(testServices())
	graph, err := p.Plan(ws, ann, base)
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}

	homebrew, ok := graph.Artifacts["widget.rb"]
	if !ok {
		t.Fatalf("expected a widget.rb Homebrew installer artifact")
	}
	foundSHA256 := false
	for _, input := range homebrew.InputIDs {
		if strings.HasSuffix(input, ".sha256") {
			foundSHA256 = true
		}
	}
	if !foundSHA256 {
		t.Errorf("Homebrew installer inputs = %v, want at least one .sha256 checksum even though the release is configured for sha512", homebrew.InputIDs)
	}
}

func TestPlanHomebrewIncompatibleWithWindowsOnlyTargets(t *testing.T) {
	app := appPackage(t, "widget", "1.0.0", []string{"x86_64-pc-windows-msvc"})
	app.Overrides["installers"] = []string{"homebrew"}
	ws := &distmodel.Workspace{Kind: distmodel.KindCargo, Packages: []*distmodel.Package{app}}

	ann, err := tagresolve.Resolve("v1.0.0", ws)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}

	p := New(testServices())
	_, err = p.Plan(ws, ann, distconfig.Defaults())
	if err == nil {
		t.Fatal("expected InstallerIncompatibleWithTargets")
	}
	var incompat *InstallerIncompatibleWithTargets
	if !errors.As(err, &incompat) {
		t.Fatalf("err = %v, want *InstallerIncompatibleWithTargets", err)
	}
}

func TestPlanRecordsWarningForTargetWithoutSymbols(t *testing.T) {
	app := appPackage(t, "widget", "1.0.0", []string{"x86_64-unknown-linux-musl", "x86_64-unknown-linux-gnu"})
	ws := &distmodel.Workspace{Kind: distmodel.KindCargo, Packages: []*distmodel.Package{app}}

	ann, err := tagresolve.Resolve("v1.0.0", ws)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}

	p := New(testServices())
	graph, err := p.Plan(ws, ann, distconfig.Defaults())
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}

	if _, ok := graph.Artifacts["widget-1.0.0-x86_64-unknown-linux-musl.symbols.tar.xz"]; ok {
		t.Fatalf("musl target should not produce a symbols artifact")
	}

	warnings := graph.Warnings()
	if len(warnings) != 1 {
		t.Fatalf("len(Warnings()) = %d, want 1: %v", len(warnings), warnings)
	}
	if !strings.Contains(warnings[0], "x86_64-unknown-linux-musl") {
		t.Errorf("warning %q does not mention the musl target", warnings[0])
	}
}
