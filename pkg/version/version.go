// Package version reports the build version.
package version

// version is overridden at build time with
// -ldflags "-X coffeemachine/pkg/version.version=v1.2.3".
var version = "dev"

// Version returns the build version string.
func Version() string {
	return version
}
