// Package render is the Template Engine Adapter (spec.md §4.G): it renders
// installer scripts and package descriptors from the Plan, using
// text/template and an embedded bundle exactly as the teacher's
// internal/templates package embeds *.tmpl (see DESIGN.md).
//
// Each installer kind has a fixed template surface so templates stay
// interchangeable, not free-form: ShellScript/PowerShell get a
// PLATFORM_INFO table, Homebrew additionally gets sha256 hashes, MSI gets
// the stable upgrade code, NPM gets a package.json (bins plus os/cpu
// lists, no per-triple entries) and an install.js whose table maps every
// target triple to its artifact name and bins.
package render

import (
	"bytes"
	"embed"
	"fmt"
	"sort"
	"text/template"
)

//go:embed templates/*.tmpl
var bundle embed.FS

var funcs = template.FuncMap{
	"join": func(sep string, items []string) string {
		out := ""
		for i, s := range items {
			if i > 0 {
				out += sep
			}
			out += s
		}
		return out
	},
}

// Engine renders installer templates. It holds no mutable state; the same
// Engine value can render any number of Plans concurrently.
type Engine struct {
	fs embed.FS
}

// New returns an Engine bound to the embedded template bundle.
func New() *Engine {
	return &Engine{fs: bundle}
}

// NewWithFS returns an Engine bound to an alternate template filesystem,
// used by tests that want to substitute a fixture bundle (spec.md §9:
// "a services value threaded through the Planner; avoids hidden
// singletons and eases testing with alternate bundles" — the same
// philosophy applies to the template bundle).
func NewWithFS(fs embed.FS) *Engine {
	return &Engine{fs: fs}
}

func (e *Engine) render(name string, data any) ([]byte, error) {
	content, err := e.fs.ReadFile("templates/" + name)
	if err != nil {
		return nil, fmt.Errorf("render: read template %s: %w", name, err)
	}

	tmpl, err := template.New(name).Funcs(funcs).Option("missingkey=error").Parse(string(content))
	if err != nil {
		return nil, fmt.Errorf("render: parse template %s: %w", name, err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("render: execute template %s: %w", name, err)
	}
	return buf.Bytes(), nil
}

// ShellInstaller renders the {app}-installer.sh artifact.
func (e *Engine) ShellInstaller(d ShellData) ([]byte, error) {
	return e.render("install.sh.tmpl", d)
}

// PowerShellInstaller renders the {app}-installer.ps1 artifact.
func (e *Engine) PowerShellInstaller(d ShellData) ([]byte, error) {
	return e.render("install.ps1.tmpl", d)
}

// HomebrewFormula renders the {app}.rb artifact. Must run after archive
// checksums exist (spec.md §5): d.Platforms[*].SHA256 is a required field.
func (e *Engine) HomebrewFormula(d HomebrewData) ([]byte, error) {
	return e.render("formula.rb.tmpl", d)
}

// MSIFragment renders the WiX source fragment an external MSI toolchain
// compiles; dist itself never invokes the MSI toolchain (spec.md §1,
// Builder/Publisher are external collaborators).
func (e *Engine) MSIFragment(d MSIData) ([]byte, error) {
	return e.render("msi.wxs.tmpl", d)
}

// NPMPackageJSON renders the package.json staged into the npm installer
// tarball before it is packed by the Assembler.
func (e *Engine) NPMPackageJSON(d NPMData) ([]byte, error) {
	return e.render("package.json.tmpl", d)
}

// NPMInstallJS renders the postinstall script that picks the right
// platform binary at `npm install` time.
func (e *Engine) NPMInstallJS(d NPMData) ([]byte, error) {
	return e.render("install.js.tmpl", d)
}

// SortedTriples returns m's keys sorted, the ordering text/template's
// range over a map does not guarantee (spec.md §8 determinism invariant:
// byte-identical output for identical Plan input).
func SortedTriples[V any](m map[string]V) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
