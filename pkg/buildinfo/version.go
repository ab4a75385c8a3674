// Package buildinfo provides build-time version information.
//
// Variables are set via ldflags during build:
//
//	go build -ldflags "-X github.com/matzehuels/crateinfo/pkg/buildinfo.Version=v1.0.0 \
//	    -X github.com/matzehuels/crateinfo/pkg/buildinfo.Commit=$(git rev-parse HEAD) \
//	    -X github.com/matzehuels/crateinfo/pkg/buildinfo.Date=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
package buildinfo

import (
	"fmt"
	"strings"
)

// Homepage is the project URL advertised in the User-Agent header.
const Homepage = "https://github.com/matzehuels/crateinfo"

var (
	// Version is the semantic version (e.g., "v1.2.3").
	Version = "dev"

	// Commit is the git commit SHA.
	Commit = "none"

	// Date is the build timestamp.
	Date = "unknown"
)

// String returns the formatted build information.
func String() string {
	return fmt.Sprintf("version: %s\ncommit: %s\nbuilt: %s", Version, Commit, Date)
}

// Template returns the version template string for cobra.
func Template() string {
	return fmt.Sprintf("{{.Name}} version %s\ncommit: %s\nbuilt: %s\n", Version, Commit, Date)
}

// UserAgent returns the User-Agent sent to crates.io, e.g.
// "crateinfo/1.2.3 (https://github.com/matzehuels/crateinfo)".
func UserAgent() string {
	return fmt.Sprintf("crateinfo/%s (%s)", strings.TrimPrefix(Version, "v"), Homepage)
}
