package version

import (
	"fmt"
	"runtime"
)

// Build metadata, overridable at link time:
//
//	go build -ldflags "-X github.com/redhat-appstudio/statuspage-watcher/internal/version.BuildVersion=v0.3.0 \
//	  -X github.com/redhat-appstudio/statuspage-watcher/internal/version.BuildCommit=$(git rev-parse --short HEAD)"
var (
	BuildVersion = "v0.1.0"
	BuildTime    = "unknown"
	BuildCommit  = "unknown"
)

// GetVersion returns the current version string.
func GetVersion() string {
	return BuildVersion
}

// GetBuildInfo returns version, build time, commit and Go version in one line.
func GetBuildInfo() string {
	return fmt.Sprintf("%s (built: %s, commit: %s, go: %s)",
		BuildVersion, BuildTime, BuildCommit, runtime.Version())
}

// GetShortVersion returns the version without the "v" prefix.
func GetShortVersion() string {
	if len(BuildVersion) > 0 && BuildVersion[0] == 'v' {
		return BuildVersion[1:]
	}
	return BuildVersion
}
