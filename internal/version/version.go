// Package version holds build metadata set with -ldflags -X.
package version

import "fmt"

//nolint:revive // Overridden at link time.
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

// String formats the build metadata for startup logs.
func String() string {
	return fmt.Sprintf("%s (commit %s, built %s)", Version, Commit, Date)
}
