// Package buildinfo holds version stamps set with -ldflags "-X" at release time.
package buildinfo

// Empty in local builds; the version command falls back to debug.ReadBuildInfo.
var (
	Version = ""
	Commit  = ""
	Date    = ""
)
