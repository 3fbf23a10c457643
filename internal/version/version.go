// Package version exposes build metadata injected through ldflags.
package version

import "fmt"

// Set at build time:
//
//	go build -ldflags "-X github.com/example/fta/internal/version.Commit=$(git rev-parse HEAD)"
var (
	Commit    = "unknown"
	BuildTime = "unknown"
)

// String returns the human-readable version line printed by `fta --version`.
func String() string {
	return fmt.Sprintf("fta dev (commit: %s, built: %s)", ShortCommit(), BuildTime)
}

// ShortCommit returns the first seven characters of the commit hash.
func ShortCommit() string {
	if len(Commit) > 7 {
		return Commit[:7]
	}
	return Commit
}

// Fields returns build metadata as key/value pairs for logs and health checks.
func Fields() map[string]string {
	return map[string]string{
		"commit":     ShortCommit(),
		"build_time": BuildTime,
	}
}
