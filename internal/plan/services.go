package plan

import (
	"github.com/google/uuid"

	"github.com/distkit/dist/internal/platform"
)

// msiNamespace is a fixed, arbitrary namespace UUID used to derive stable
// MSI upgrade codes via v5 (SHA-1) hashing. It must never change once
// released, or every app's upgrade code would shift. Generated once and
// frozen here; not derived from anything else.
var msiNamespace = uuid.MustParse("2f8b6f1a-6e3f-4f2e-9d3c-8f6a1c0b4d7e")

// Services bundles the immutable, compile-time-initialized tables the
// Planner consults (spec.md §4.F: "avoids hidden singletons and eases
// testing with alternate bundles"). Pass a Services value explicitly
// rather than reaching for package-level globals so tests can substitute
// an alternate catalog.
type Services struct {
	Catalog     *platform.Catalog
	DistVersion string
}

// DefaultServices returns the production Services value.
func DefaultServices(distVersion string) Services {
	return Services{
		Catalog:     platform.Default(),
		DistVersion: distVersion,
	}
}

// msiUpgradeCode derives a stable MSI upgrade-product-code for an app name.
// Uses v5 (namespace+name hashing), never v4 (random), so repeated
// planning runs yield the same code (spec.md §4.F).
func msiUpgradeCode(appName string) string {
	return uuid.NewSHA1(msiNamespace, []byte(appName)).String()
}
