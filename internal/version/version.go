// Package version holds build information injected with -ldflags
package version

var (
	Version   = "dev"
	Commit    = "none"
	BuildTime = "unknown"
)

// String renders the version line shown by --version
func String() string {
	return Version + " (" + Commit + ") " + BuildTime
}
