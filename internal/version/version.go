// Package version holds build metadata set through -ldflags:
//
//	go build -ldflags "-X git.home.luguber.info/inful/fitsdoc/internal/version.Version=v0.3.0"
package version

import "fmt"

var Version = "unknown"

var (
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// String is the text printed by --version.
func String() string {
	return fmt.Sprintf("fitsdoc %s (commit %s, built %s)", Version, GitCommit, BuildTime)
}
