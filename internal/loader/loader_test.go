package loader

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestLoadCargoSinglePackage(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "Cargo.toml"), `
[package]
name = "foo"
version = "1.2.3"
description = "a tool"
license = "MIT"
repository = "https://github.com/acme/foo"

[[bin]]
name = "foo"
`)
	writeFile(t, filepath.Join(dir, "src", "main.rs"), "fn main() {}")

	result := New().Load(dir, "")
	if result.Kind != Found {
		t.Fatalf("Kind = %v, err = %v", result.Kind, result.Err)
	}
	ws := result.Workspace
	if ws.Kind != "cargo" || len(ws.Packages) != 1 {
		t.Fatalf("unexpected workspace: %+v", ws)
	}
	pkg := ws.Packages[0]
	if pkg.Name != "foo" || pkg.Version.String() != "1.2.3" {
		t.Errorf("unexpected package: %+v", pkg)
	}
	if !pkg.IsApp() {
		t.Error("expected foo to be an App")
	}
}

func TestLoadCargoVirtualWorkspace(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "Cargo.toml"), `
[workspace]
members = ["crates/*"]
`)
	writeFile(t, filepath.Join(dir, "crates", "alpha", "Cargo.toml"), `
[package]
name = "alpha"
version = "0.1.0"
`)
	writeFile(t, filepath.Join(dir, "crates", "alpha", "src", "main.rs"), "fn main() {}")
	writeFile(t, filepath.Join(dir, "crates", "beta", "Cargo.toml"), `
[package]
name = "beta"
version = "0.1.0"
`)

	result := New().Load(dir, "")
	if result.Kind != Found {
		t.Fatalf("Kind = %v, err = %v", result.Kind, result.Err)
	}
	ws := result.Workspace
	if !ws.Virtual {
		t.Error("expected virtual workspace")
	}
	if len(ws.Packages) != 2 {
		t.Fatalf("expected 2 members, got %d: %+v", len(ws.Packages), ws.Packages)
	}
	if ws.FindPackage("alpha") == nil || ws.FindPackage("beta") == nil {
		t.Errorf("missing expected members: %+v", ws.Packages)
	}
}

func TestLoadNPMWorkspace(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "package.json"), `{
		"name": "root",
		"private": true,
		"workspaces": ["packages/*"]
	}`)
	writeFile(t, filepath.Join(dir, "packages", "cli", "package.json"), `{
		"name": "@acme/cli",
		"version": "2.0.0",
		"bin": {"acme": "./bin/acme.js"}
	}`)

	result := New().Load(dir, "")
	if result.Kind != Found {
		t.Fatalf("Kind = %v, err = %v", result.Kind, result.Err)
	}
	ws := result.Workspace
	pkg := ws.FindPackage("@acme/cli")
	if pkg == nil {
		t.Fatal("expected to find @acme/cli member")
	}
	if len(pkg.Binaries) != 1 || pkg.Binaries[0].Name != "acme" {
		t.Errorf("unexpected binaries: %+v", pkg.Binaries)
	}
}

func TestLoadGenericWorkspace(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "dist.toml"), `
name = "toolkit"
version = "3.0.0"
binaries = ["toolkit"]
build-command = "make build"
`)

	result := New().Load(dir, "")
	if result.Kind != Found {
		t.Fatalf("Kind = %v, err = %v", result.Kind, result.Err)
	}
	pkg := result.Workspace.Packages[0]
	if pkg.Name != "toolkit" || len(pkg.Binaries) != 1 {
		t.Fatalf("unexpected package: %+v", pkg)
	}
}

func TestLoadWalksUpward(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "dist.toml"), `
name = "root-tool"
version = "1.0.0"
`)
	nested := filepath.Join(root, "a", "b", "c")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}

	result := New().Load(nested, "")
	if result.Kind != Found {
		t.Fatalf("Kind = %v, err = %v", result.Kind, result.Err)
	}
	if result.Workspace.Packages[0].Name != "root-tool" {
		t.Errorf("unexpected package: %+v", result.Workspace.Packages[0])
	}
}

func TestLoadClampStopsBeforeRoot(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "dist.toml"), `
name = "root-tool"
version = "1.0.0"
`)
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}

	result := New().Load(nested, filepath.Join(root, "a"))
	if result.Kind != Missing {
		t.Fatalf("Kind = %v, want Missing (clamp should have stopped the walk)", result.Kind)
	}
}

func TestLoadMissingWhenNothingFound(t *testing.T) {
	dir := t.TempDir()
	result := New().Load(dir, dir)
	if result.Kind != Missing {
		t.Fatalf("Kind = %v, want Missing", result.Kind)
	}
}

func TestLoadBrokenManifest(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "dist.toml"), `not valid toml +++`)

	result := New().Load(dir, "")
	if result.Kind != Broken {
		t.Fatalf("Kind = %v, want Broken", result.Kind)
	}
	if result.Err == nil {
		t.Error("expected non-nil Err")
	}
}

func TestLoadAllReturnsCoexistingKinds(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "Cargo.toml"), `
[package]
name = "foo"
version = "1.0.0"
`)
	writeFile(t, filepath.Join(dir, "package.json"), `{
		"name": "foo",
		"version": "1.0.0"
	}`)

	results := New().LoadAll(dir, "")
	if len(results) != 2 {
		t.Fatalf("expected 2 coexisting results, got %d", len(results))
	}
}
