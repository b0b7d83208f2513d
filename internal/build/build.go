// Package build provides the default Builder adapter (spec.md §1, §6):
// an exec.Command-based implementation that shells out to `cargo build`
// or a package's configured build command depending on workspace kind,
// adapted from the teacher's exec.Command + cmd.Dir/cmd.Env patterns in
// cmd/xplat/cmd/binary.go (installGo/installCargo strategies) and
// internal/updater.DownloadAndReplace's hash-while-copy discipline.
//
// This is a convenience implementation, not the engine's scope: callers
// may substitute their own Builder satisfying internal/assemble.Builder.
package build

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/distkit/dist/internal/assemble"
	"github.com/distkit/dist/internal/distmodel"
	"github.com/distkit/dist/internal/platform"
)

// ExecBuilder builds one App for one target triple by invoking the
// toolchain implied by its Workspace's kind.
type ExecBuilder struct {
	Workspace *distmodel.Workspace
	Catalog   *platform.Catalog
	Stdout    *os.File
	Stderr    *os.File
}

// NewExecBuilder returns an ExecBuilder bound to ws, logging subprocess
// output to stdout/stderr.
func NewExecBuilder(ws *distmodel.Workspace, catalog *platform.Catalog) *ExecBuilder {
	return &ExecBuilder{Workspace: ws, Catalog: catalog, Stdout: os.Stdout, Stderr: os.Stderr}
}

// Build implements assemble.Builder.
func (b *ExecBuilder) Build(ctx context.Context, appName, target, stagingDir string) (assemble.BuildOutput, error) {
	pkg := b.Workspace.FindPackage(appName)
	if pkg == nil {
		return assemble.BuildOutput{}, fmt.Errorf("build: unknown package %q", appName)
	}
	triple, err := b.Catalog.Lookup(target)
	if err != nil {
		return assemble.BuildOutput{}, err
	}
	if err := os.MkdirAll(stagingDir, 0o755); err != nil {
		return assemble.BuildOutput{}, err
	}

	switch b.Workspace.Kind {
	case distmodel.KindCargo:
		return b.buildCargo(ctx, pkg, triple)
	default:
		return b.buildGeneric(ctx, pkg, triple)
	}
}

func (b *ExecBuilder) run(ctx context.Context, dir, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	cmd.Stdout = b.Stdout
	cmd.Stderr = b.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("build: %s %v: %w", name, args, err)
	}
	return nil
}

// buildCargo runs `cargo build --release --target <triple>` and locates
// the resulting binaries under target/<triple>/release/.
func (b *ExecBuilder) buildCargo(ctx context.Context, pkg *distmodel.Package, triple platform.Triple) (assemble.BuildOutput, error) {
	args := []string{"build", "--release", "--target", triple.Name, "--manifest-path", filepath.Join(pkg.Root, "Cargo.toml")}
	if err := b.run(ctx, pkg.Root, "cargo", args...); err != nil {
		return assemble.BuildOutput{}, err
	}

	releaseDir := filepath.Join(b.Workspace.Root, "target", triple.Name, "release")
	out := assemble.BuildOutput{
		Executables: map[string]string{},
		CDylibs:     map[string]string{},
		CStaticLibs: map[string]string{},
	}
	ext := ""
	if triple.Family == platform.Windows {
		ext = ".exe"
	}
	for _, bt := range pkg.Executables() {
		out.Executables[bt.Name] = filepath.Join(releaseDir, bt.Name+ext)
	}
	for _, bt := range pkg.Binaries {
		switch bt.Kind {
		case distmodel.BinaryCDylib:
			out.CDylibs[bt.Name] = filepath.Join(releaseDir, cdylibName(bt.Name, triple))
		case distmodel.BinaryCStaticLib:
			out.CStaticLibs[bt.Name] = filepath.Join(releaseDir, cstaticlibName(bt.Name, triple))
		}
	}
	return out, nil
}

// buildGeneric runs the package's configured `build-command` override
// (generic/NPM manifests, spec.md §4.B's dist.toml schema) once per
// target, with DIST_TARGET in the environment so the command can
// cross-compile if it knows how to. When no build-command is configured,
// binaries are assumed to already exist at the package root (the common
// case for interpreted CLIs shipped as-is).
func (b *ExecBuilder) buildGeneric(ctx context.Context, pkg *distmodel.Package, triple platform.Triple) (assemble.BuildOutput, error) {
	if cmdStr, ok := pkg.Overrides["build-command"].(string); ok && cmdStr != "" {
		cmd := exec.CommandContext(ctx, "sh", "-c", cmdStr)
		cmd.Dir = pkg.Root
		cmd.Stdout = b.Stdout
		cmd.Stderr = b.Stderr
		cmd.Env = append(os.Environ(), "DIST_TARGET="+triple.Name)
		if err := cmd.Run(); err != nil {
			return assemble.BuildOutput{}, fmt.Errorf("build: build-command for %s: %w", pkg.Name, err)
		}
	}

	out := assemble.BuildOutput{Executables: map[string]string{}}
	for _, bt := range pkg.Executables() {
		out.Executables[bt.Name] = filepath.Join(pkg.Root, bt.Name)
	}
	return out, nil
}

func cdylibName(name string, t platform.Triple) string {
	switch t.Family {
	case platform.Windows:
		return name + ".dll"
	case platform.Darwin:
		return "lib" + name + ".dylib"
	default:
		return "lib" + name + ".so"
	}
}

func cstaticlibName(name string, t platform.Triple) string {
	if t.Family == platform.Windows {
		return name + ".lib"
	}
	return "lib" + name + ".a"
}
