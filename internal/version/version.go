// Package version holds build metadata stamped in at link time.
package version

// Build information set by ldflags
var (
	Version = "dev"     // -X github.com/arthur-debert/hostprep/internal/version.Version={{.Version}}
	Commit  = "unknown" // -X github.com/arthur-debert/hostprep/internal/version.Commit={{.Commit}}
	Date    = "unknown" // -X github.com/arthur-debert/hostprep/internal/version.Date={{.Date}}
)
