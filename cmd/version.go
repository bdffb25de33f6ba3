// Package cmd holds build metadata injected via ldflags, e.g.
//
//	go build -ldflags "-X github.com/thoreinstein/nexus/cmd.Version=v1.2.0" ./cmd/nexus
package cmd

// Build-time variables set via ldflags.
var (
	// Version is the release tag; "dev" for local builds.
	Version = "dev"
	// Commit is the git commit SHA of the build.
	Commit = "none"
	// Date is the build date.
	Date = "unknown"
)
