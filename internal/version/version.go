package version

import "fmt"

// Build information injected at build time via ldflags.
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

func Info() string {
	return fmt.Sprintf("tack %s (commit: %s, built: %s)", Version, Commit, Date)
}
