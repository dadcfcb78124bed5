package version

import "fmt"

// Version is set at build time:
// go build -ldflags "-X git.home.luguber.info/inful/runwasm/internal/version.Version=v0.3.0".
var Version = "unknown"

// Build metadata, also set via ldflags.
var (
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// String renders the version line logged at startup.
func String() string {
	return fmt.Sprintf("runwasm %s (commit %s, built %s)", Version, GitCommit, BuildTime)
}
