package build

import (
	"context"
	"errors"
	"testing"

	"github.com/distkit/dist/internal/distmodel"
	"github.com/distkit/dist/internal/platform"
)

func TestCdylibNamePerFamily(t *testing.T) {
	cases := []struct {
		family platform.OSFamily
		want   string
	}{
		{platform.Windows, "widget.dll"},
		{platform.Darwin, "libwidget.dylib"},
		{platform.Linux, "libwidget.so"},
	}
	for _, c := range cases {
		got := cdylibName("widget", platform.Triple{Family: c.family})
		if got != c.want {
			t.Errorf("cdylibName(%v) = %q, want %q", c.family, got, c.want)
		}
	}
}

func TestCstaticlibNamePerFamily(t *testing.T) {
	if got := cstaticlibName("widget", platform.Triple{Family: platform.Windows}); got != "widget.lib" {
		t.Errorf("cstaticlibName(windows) = %q, want widget.lib", got)
	}
	if got := cstaticlibName("widget", platform.Triple{Family: platform.Linux}); got != "libwidget.a" {
		t.Errorf("cstaticlibName(linux) = %q, want libwidget.a", got)
	}
}

func TestBuildUnknownPackageErrors(t *testing.T) {
	ws := &distmodel.Workspace{Kind: distmodel.KindGeneric, Packages: nil}
	b := NewExecBuilder(ws, platform.Default())

	_, err := b.Build(context.Background(), "missing", "x86_64-unknown-linux-gnu", t.TempDir())
	if err == nil {
		t.Fatal("Build with unknown package name: expected an error")
	}
}

func TestBuildUnknownTargetErrors(t *testing.T) {
	pkg := &distmodel.Package{Name: "widget", Root: t.TempDir()}
	ws := &distmodel.Workspace{Kind: distmodel.KindGeneric, Packages: []*distmodel.Package{pkg}}
	b := NewExecBuilder(ws, platform.Default())

	_, err := b.Build(context.Background(), "widget", "bogus-triple", t.TempDir())
	if err == nil {
		t.Fatal("Build with unknown target triple: expected an error")
	}
	var unknown *platform.UnknownTarget
	if !errors.As(err, &unknown) {
		t.Fatalf("err = %v, want *platform.UnknownTarget", err)
	}
}

func TestBuildGenericWithoutBuildCommandAssumesBinariesPresent(t *testing.T) {
	pkg := &distmodel.Package{
		Name:     "widget",
		Root:     t.TempDir(),
		Binaries: []distmodel.BinaryTarget{{Name: "widget", Kind: distmodel.BinaryExecutable}},
	}
	ws := &distmodel.Workspace{Kind: distmodel.KindGeneric, Packages: []*distmodel.Package{pkg}}
	b := NewExecBuilder(ws, platform.Default())

	out, err := b.Build(context.Background(), "widget", "x86_64-unknown-linux-gnu", t.TempDir())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if out.Executables["widget"] == "" {
		t.Errorf("Executables[widget] is empty, want a path under the package root")
	}
}
