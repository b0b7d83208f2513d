package platform

import (
	"fmt"
	"runtime"
)

// HostTriple reports the running process's own triple in the catalog's
// naming convention, used to default DistConfig's target set to "just
// build for the machine running dist" (spec.md §4.D).
func HostTriple() (string, error) {
	var cpu string
	switch runtime.GOARCH {
	case "amd64":
		cpu = "x86_64"
	case "arm64":
		cpu = "aarch64"
	default:
		return "", fmt.Errorf("platform: unsupported host arch %q", runtime.GOARCH)
	}

	switch runtime.GOOS {
	case "linux":
		return cpu + "-unknown-linux-gnu", nil
	case "darwin":
		return cpu + "-apple-darwin", nil
	case "windows":
		return cpu + "-pc-windows-msvc", nil
	default:
		return "", fmt.Errorf("platform: unsupported host OS %q", runtime.GOOS)
	}
}
