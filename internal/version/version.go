// Package version holds build metadata for the storefront binary.
package version

import "runtime"

// Set at build time with -ldflags "-X .../internal/version.Version=...".
var (
	Version = "development"
	Commit  = "unknown"
	Date    = ""
)

// Info is the machine-readable form printed by `storefront version --json`.
type Info struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	Date      string `json:"date,omitempty"`
	GoVersion string `json:"go_version"`
}

// String returns the version, suffixed with the commit when known.
func String() string {
	if Commit != "unknown" {
		return Version + "+" + Commit
	}
	return Version
}

// Current returns the build metadata of the running binary.
func Current() Info {
	return Info{
		Version:   Version,
		Commit:    Commit,
		Date:      Date,
		GoVersion: runtime.Version(),
	}
}
