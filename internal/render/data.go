package render

import (
	"sort"
	"strings"

	"github.com/distkit/dist/internal/plan"
)

// PlatformInfo is the per-triple row of the PLATFORM_INFO table every
// installer template surface exposes (spec.md §4.G).
type PlatformInfo struct {
	Triple       string
	ArtifactName string
	Ext          string
	Bins         []string
	CDylibs      []string
	CStaticLibs  []string
	SHA256       string // populated only when building Homebrew data
}

// ShellData is the template surface shared by the shell and PowerShell
// installers (spec.md §4.G: "PLATFORM_INFO ... REPO").
type ShellData struct {
	AppName         string
	AppVersion      string
	ArtifactDownloadURL string // base URL; template appends "/" + artifact name
	Repo            string
	Platforms       []PlatformInfo
	BinAliases      map[string]string
}

// HomebrewData is the template surface for the {app}.rb formula.
type HomebrewData struct {
	AppName             string
	ClassName           string
	AppVersion          string
	ArtifactDownloadURL string
	Repo                string
	Description         string
	Homepage            string
	License             string
	Platforms           []PlatformInfo
}

// MSIData is the template surface for one Windows archive's WiX fragment.
type MSIData struct {
	AppName     string
	AppVersion  string
	UpgradeCode string
	Triple      string
	Bins        []string
}

// NPMData is the template surface for the npm installer package.
type NPMData struct {
	AppName             string
	AppVersion          string
	Scope               string
	ArtifactDownloadURL string
	Repo                string
	Platforms           []PlatformInfo
	OSList              []string
	CPUList             []string
}

var npmOSByFamily = map[string]string{
	"unknown-linux-gnu": "linux", "unknown-linux-musl": "linux",
	"apple-darwin": "darwin", "pc-windows-msvc": "win32",
}

var npmCPUByArch = map[string]string{
	"x86_64": "x64", "aarch64": "arm64",
}

// tripleToNPM extracts the npm "os"/"cpu" package.json values from a
// Rust-style target triple (spec.md §4.E's triple vocabulary), e.g.
// "x86_64-unknown-linux-gnu" -> ("linux", "x64").
func tripleToNPM(triple string) (os, cpu string) {
	for suffix, name := range npmOSByFamily {
		if strings.HasSuffix(triple, suffix) {
			os = name
			break
		}
	}
	for prefix, name := range npmCPUByArch {
		if strings.HasPrefix(triple, prefix) {
			cpu = name
			break
		}
	}
	return os, cpu
}

func dedupeSorted(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

// platformRows projects a release's archive artifacts into sorted
// PlatformInfo rows, the shape every installer template ranges over.
func platformRows(graph *plan.DistGraph, archiveIDs []string, checksums map[string]string) []PlatformInfo {
	rows := make([]PlatformInfo, 0, len(archiveIDs))
	for _, id := range archiveIDs {
		a := graph.Artifacts[id]
		if a == nil {
			continue
		}
		row := PlatformInfo{
			Triple:       a.Target,
			ArtifactName: a.ID,
			Ext:          a.Ext,
			Bins:         append([]string{}, a.Contents.Executables...),
			CDylibs:      append([]string{}, a.Contents.CDylibs...),
			CStaticLibs:  append([]string{}, a.Contents.CStaticLibs...),
		}
		if checksums != nil {
			row.SHA256 = checksums[id]
		}
		rows = append(rows, row)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Triple < rows[j].Triple })
	return rows
}

// ShellDataFor builds the ShellData for a release's shell or PowerShell
// installer artifact; archiveIDs is that installer's InputIDs (already
// filtered to the right OS family by the Planner, spec.md §4.F step 5).
func ShellDataFor(graph *plan.DistGraph, release *plan.Release, archiveIDs []string, downloadBase string) ShellData {
	return ShellData{
		AppName:             release.App.Name,
		AppVersion:          release.Version.String(),
		ArtifactDownloadURL: downloadBase,
		Repo:                release.App.Repository,
		Platforms:           platformRows(graph, archiveIDs, nil),
	}
}

// HomebrewDataFor builds the HomebrewData for a release's formula
// artifact. checksums maps archive id -> hex sha256, required because
// Homebrew rendering happens strictly after archive checksums exist
// (spec.md §5).
func HomebrewDataFor(graph *plan.DistGraph, release *plan.Release, archiveIDs []string, downloadBase string, checksums map[string]string) HomebrewData {
	return HomebrewData{
		AppName:             release.App.Name,
		ClassName:           camelCase(release.App.Name),
		AppVersion:          release.Version.String(),
		ArtifactDownloadURL: downloadBase,
		Repo:                release.App.Repository,
		Description:         release.App.Description,
		Homepage:            release.App.Homepage,
		License:             release.App.License,
		Platforms:           platformRows(graph, archiveIDs, checksums),
	}
}

// MSIDataFor builds the MSIData for one Windows archive.
func MSIDataFor(graph *plan.DistGraph, release *plan.Release, archiveID, upgradeCode string) MSIData {
	a := graph.Artifacts[archiveID]
	return MSIData{
		AppName:     release.App.Name,
		AppVersion:  release.Version.String(),
		UpgradeCode: upgradeCode,
		Triple:      a.Target,
		Bins:        append([]string{}, a.Contents.Executables...),
	}
}

// NPMDataFor builds the NPMData for a release's npm installer package.
func NPMDataFor(graph *plan.DistGraph, release *plan.Release, archiveIDs []string, downloadBase, scope string) NPMData {
	rows := platformRows(graph, archiveIDs, nil)
	var osList, cpuList []string
	for _, row := range rows {
		os, cpu := tripleToNPM(row.Triple)
		osList = append(osList, os)
		cpuList = append(cpuList, cpu)
	}
	return NPMData{
		AppName:             release.App.Name,
		AppVersion:          release.Version.String(),
		Scope:               scope,
		ArtifactDownloadURL: downloadBase,
		Repo:                release.App.Repository,
		Platforms:           rows,
		OSList:              dedupeSorted(osList),
		CPUList:             dedupeSorted(cpuList),
	}
}

// camelCase turns "foo-bar_baz" into "FooBarBaz", the Homebrew formula
// class-name convention (spec.md §4.F step 5: "formula class = CamelCase
// of {app}").
func camelCase(name string) string {
	parts := strings.FieldsFunc(name, func(r rune) bool { return r == '-' || r == '_' })
	var b strings.Builder
	for _, p := range parts {
		if p == "" {
			continue
		}
		b.WriteString(strings.ToUpper(p[:1]))
		b.WriteString(p[1:])
	}
	return b.String()
}
