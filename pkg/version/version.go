// Package version holds the symscope version string.
package version

// Version is the current symscope version.
// Overridden at build time via -ldflags "-X github.com/symscope/symscope/pkg/version.Version=...".
var Version = "0.3.0"
