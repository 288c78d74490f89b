// Package version holds the build version, overridable with
// -ldflags "-X abesim/internal/version.Version=...".
package version

var Version = "dev"
