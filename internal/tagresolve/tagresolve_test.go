package tagresolve

import (
	"errors"
	"testing"

	"github.com/Masterminds/semver/v3"

	"github.com/distkit/dist/internal/distmodel"
)

func mustVersion(t *testing.T, s string) *semver.Version {
	t.Helper()
	v, err := semver.NewVersion(s)
	if err != nil {
		t.Fatalf("semver.NewVersion(%q): %v", s, err)
	}
	return v
}

func appPackage(t *testing.T, name, version string) *distmodel.Package {
	return &distmodel.Package{
		Name:     name,
		Version:  mustVersion(t, version),
		Publish:  true,
		Dist:     true,
		Binaries: []distmodel.BinaryTarget{{Name: name, Kind: distmodel.BinaryExecutable}},
	}
}

func libPackage(t *testing.T, name, version string) *distmodel.Package {
	return &distmodel.Package{
		Name:    name,
		Version: mustVersion(t, version),
		Publish: true,
		Dist:    true,
	}
}

func TestResolveUnifiedSelectsAllMatchingVersion(t *testing.T) {
	ws := &distmodel.Workspace{Packages: []*distmodel.Package{
		appPackage(t, "a", "1.2.3"),
		appPackage(t, "b", "1.2.3"),
		appPackage(t, "c", "1.0.0"),
	}}

	ann, err := Resolve("v1.2.3", ws)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if len(ann.Apps) != 2 {
		t.Fatalf("expected 2 apps selected, got %d: %+v", len(ann.Apps), ann.Apps)
	}
}

func TestResolveSingularExactMatch(t *testing.T) {
	ws := &distmodel.Workspace{Packages: []*distmodel.Package{
		appPackage(t, "a", "0.1.0"),
		appPackage(t, "b", "0.2.0"),
	}}

	ann, err := Resolve("a-v0.1.0", ws)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if len(ann.Apps) != 1 || ann.Apps[0].Name != "a" {
		t.Fatalf("unexpected selection: %+v", ann.Apps)
	}
}

func TestResolveSingularVersionMismatch(t *testing.T) {
	ws := &distmodel.Workspace{Packages: []*distmodel.Package{
		appPackage(t, "a", "0.1.0"),
	}}

	_, err := Resolve("a-v0.2.0", ws)
	var mismatch *TagVersionMismatch
	if !errors.As(err, &mismatch) {
		t.Fatalf("expected TagVersionMismatch, got %v", err)
	}
}

func TestResolveUnifiedOnlyMatchesSubset(t *testing.T) {
	ws := &distmodel.Workspace{Packages: []*distmodel.Package{
		appPackage(t, "a", "0.1.0"),
		appPackage(t, "b", "0.2.0"),
	}}

	ann, err := Resolve("v0.1.0", ws)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if len(ann.Apps) != 1 || ann.Apps[0].Name != "a" {
		t.Fatalf("unexpected selection: %+v", ann.Apps)
	}
}

func TestResolveLibraryOnlySingular(t *testing.T) {
	ws := &distmodel.Workspace{Packages: []*distmodel.Package{
		libPackage(t, "liboo", "1.0.0"),
	}}

	ann, err := Resolve("liboo-v1.0.0", ws)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if !ann.IsLibraryOnly() || ann.LibraryOnly.Name != "liboo" {
		t.Fatalf("expected library-only announcement, got %+v", ann)
	}
}

func TestResolveEmptyAnnouncement(t *testing.T) {
	ws := &distmodel.Workspace{Packages: []*distmodel.Package{
		appPackage(t, "a", "0.1.0"),
	}}

	_, err := Resolve("v9.9.9", ws)
	var empty *EmptyAnnouncement
	if !errors.As(err, &empty) {
		t.Fatalf("expected EmptyAnnouncement, got %v", err)
	}
}

func TestResolveUnknownPackage(t *testing.T) {
	ws := &distmodel.Workspace{Packages: []*distmodel.Package{
		appPackage(t, "a", "0.1.0"),
	}}

	_, err := Resolve("ghost-v1.0.0", ws)
	var unknown *UnknownPackage
	if !errors.As(err, &unknown) {
		t.Fatalf("expected UnknownPackage, got %v", err)
	}
}

func TestParseLongestSuffixWinsOverShorterSplit(t *testing.T) {
	// "foo-v1-v0.0.0" can split as ("foo", "1-v0.0.0") or ("foo-v1",
	// "0.0.0"). Both prefixes name real packages, so the longest
	// "-v{semver}" suffix (the shortest prefix, "foo") wins.
	ws := &distmodel.Workspace{Packages: []*distmodel.Package{
		appPackage(t, "foo", "1.0.0"),
		appPackage(t, "foo-v1", "0.0.0"),
	}}

	tag, err := Parse("foo-v1-v0.0.0", ws)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if tag.Package != "foo" {
		t.Fatalf("expected package %q (longest suffix), got %q", "foo", tag.Package)
	}
}

func TestParsePrefersRealPackageOverLongerSuffix(t *testing.T) {
	// "foo-v1-v2.0.0" also splits as ("foo", "1-v2.0.0"), which parses as
	// semver 1.0.0-v2.0.0 and has the longer suffix, but "foo" names no
	// package. "foo-v1" is the only split naming a real package, so it wins.
	ws := &distmodel.Workspace{Packages: []*distmodel.Package{
		appPackage(t, "foo-v1", "2.0.0"),
	}}

	tag, err := Parse("foo-v1-v2.0.0", ws)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if tag.Package != "foo-v1" {
		t.Fatalf("expected package %q, got %q", "foo-v1", tag.Package)
	}
}

func TestInferSingleApp(t *testing.T) {
	ws := &distmodel.Workspace{Packages: []*distmodel.Package{
		appPackage(t, "only", "3.1.4"),
	}}

	ann, err := Infer(ws)
	if err != nil {
		t.Fatalf("Infer: %v", err)
	}
	if ann.Tag.Raw != "v3.1.4" {
		t.Errorf("Tag.Raw = %q, want v3.1.4", ann.Tag.Raw)
	}
}

func TestInferUniformVersionSynthesizesUnified(t *testing.T) {
	ws := &distmodel.Workspace{Packages: []*distmodel.Package{
		appPackage(t, "a", "1.0.0"),
		appPackage(t, "b", "1.0.0"),
	}}

	ann, err := Infer(ws)
	if err != nil {
		t.Fatalf("Infer: %v", err)
	}
	if ann.Tag.Kind != Unified || len(ann.Apps) != 2 {
		t.Fatalf("unexpected inference: %+v", ann)
	}
}

func TestInferAmbiguousVersionsFails(t *testing.T) {
	ws := &distmodel.Workspace{Packages: []*distmodel.Package{
		appPackage(t, "a", "1.0.0"),
		appPackage(t, "b", "2.0.0"),
	}}

	_, err := Infer(ws)
	var ambiguous *AmbiguousAnnouncement
	if !errors.As(err, &ambiguous) {
		t.Fatalf("expected AmbiguousAnnouncement, got %v", err)
	}
}
