// Package version holds build metadata. Values are injected with
// -ldflags "-X github.com/Sumatoshi-tech/sortviz/pkg/version.Version=...".
package version

import (
	"fmt"
	"runtime/debug"
)

const develVersion = "(devel)"

var (
	// Version is the release version of the binary.
	Version = "dev"
	// Commit is the Git hash the binary was built from.
	Commit = "<unknown>"
	// Date is the build timestamp.
	Date = "<unknown>"
)

// InitBinaryVersion fills unset metadata from the module build info, so
// binaries installed with "go install" still report a version.
func InitBinaryVersion() {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return
	}

	if Version == "dev" && info.Main.Version != "" && info.Main.Version != develVersion {
		Version = info.Main.Version
	}

	for _, setting := range info.Settings {
		switch setting.Key {
		case "vcs.revision":
			if Commit == "<unknown>" {
				Commit = setting.Value
			}
		case "vcs.time":
			if Date == "<unknown>" {
				Date = setting.Value
			}
		}
	}
}

// String renders the one-line version banner.
func String() string {
	return fmt.Sprintf("sortviz %s (commit: %s, built: %s)", Version, Commit, Date)
}
