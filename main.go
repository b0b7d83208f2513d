// dist turns a tagged release of a source workspace into a coherent set of
// shippable artifacts: per-platform archives, checksums, and installers.
package main

import (
	"os"

	// Bootstrap MUST be imported first to set the log level before any
	// other package touches zerolog.
	_ "github.com/distkit/dist/internal/bootstrap"

	"github.com/distkit/dist/cmd/dist/cmd"
)

// Version is set at build time via ldflags.
var Version = "dev"

func main() {
	cmd.SetVersion(Version)
	os.Exit(cmd.Execute())
}
