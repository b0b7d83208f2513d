package tagresolve

import (
	"github.com/distkit/dist/internal/distmodel"
)

// Resolve parses raw against ws and selects the Apps (or library-only
// package) it announces.
func Resolve(raw string, ws *distmodel.Workspace) (Announcement, error) {
	tag, err := Parse(raw, ws)
	if err != nil {
		return Announcement{}, err
	}
	return resolveTag(tag, ws)
}

func resolveTag(tag Tag, ws *distmodel.Workspace) (Announcement, error) {
	switch tag.Kind {
	case Unified:
		return resolveUnified(tag, ws)
	case Singular:
		return resolveSingular(tag, ws)
	default:
		return Announcement{}, &InvalidTagFormat{Raw: tag.Raw}
	}
}

func resolveUnified(tag Tag, ws *distmodel.Workspace) (Announcement, error) {
	var apps []*distmodel.Package
	for _, app := range ws.Apps() {
		if app.Version.Equal(tag.Version) {
			apps = append(apps, app)
		}
	}
	if len(apps) == 0 {
		return Announcement{}, &EmptyAnnouncement{Raw: tag.Raw}
	}
	return Announcement{Tag: tag, Apps: apps}, nil
}

func resolveSingular(tag Tag, ws *distmodel.Workspace) (Announcement, error) {
	pkg := ws.FindPackage(tag.Package)
	if pkg == nil {
		return Announcement{}, &UnknownPackage{Package: tag.Package}
	}
	if !pkg.Version.Equal(tag.Version) {
		return Announcement{}, &TagVersionMismatch{
			Package:       tag.Package,
			TagVersion:    tag.Version.String(),
			ActualVersion: pkg.Version.String(),
		}
	}

	if pkg.IsApp() {
		return Announcement{Tag: tag, Apps: []*distmodel.Package{pkg}}, nil
	}

	// Singular tag matched a package with no executables (or opted out of
	// dist/publish): library-only announcement, spec.md §4.C.
	libTag := tag
	libTag.Kind = LibraryOnlySingular
	return Announcement{Tag: libTag, LibraryOnly: pkg}, nil
}

// Infer synthesizes a tag when the caller passes none (spec.md §4.C): a
// single App gets its own v{version} tag; uniform-version workspaces get
// a Unified tag; otherwise tag inference is ambiguous.
func Infer(ws *distmodel.Workspace) (Announcement, error) {
	apps := ws.Apps()
	if len(apps) == 0 {
		return Announcement{}, &EmptyAnnouncement{Raw: ""}
	}

	if len(apps) == 1 {
		app := apps[0]
		tag := Tag{Kind: Unified, Raw: "v" + app.Version.String(), Version: app.Version}
		return Announcement{Tag: tag, Apps: apps}, nil
	}

	first := apps[0].Version
	for _, app := range apps[1:] {
		if !app.Version.Equal(first) {
			return Announcement{}, &AmbiguousAnnouncement{}
		}
	}
	tag := Tag{Kind: Unified, Raw: "v" + first.String(), Version: first}
	return Announcement{Tag: tag, Apps: apps}, nil
}
