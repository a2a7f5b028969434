// Package version holds build metadata injected at link time.
package version

// Set via -ldflags "-X github.com/mj1618/device-cli/internal/version.Version=..."
var (
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"
)
