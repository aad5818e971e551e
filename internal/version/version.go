// Package version exposes the build-stamped CLI version.
package version

// version is set at build time via -ldflags.
var version = "v0.0.0"

// Value returns the CLI version string.
func Value() string {
	return version
}
