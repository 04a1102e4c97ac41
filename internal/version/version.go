// Package version provides build version information.
package version

import "runtime/debug"

var (
	// Version is the semantic version (injected at build time via -ldflags)
	version = "dev"
	// Commit is the git commit hash (injected at build time via -ldflags)
	commit = "none"
	// Date is the build date (injected at build time via -ldflags)
	date = "unknown"
)

// readBuildInfo is swapped out in tests
var readBuildInfo = debug.ReadBuildInfo

// GetVersion returns the version string. Builds installed with
// `go install module@version` carry no ldflags, so the module version
// recorded by the toolchain is used instead of "dev".
func GetVersion() string {
	if version != "dev" {
		return version
	}

	if info, ok := readBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}

	return version
}

// GetCommit returns the git commit hash, falling back to vcs.revision.
func GetCommit() string {
	if commit != "none" {
		return commit
	}

	return buildSetting("vcs.revision", commit)
}

// GetDate returns the build date, falling back to vcs.time.
func GetDate() string {
	if date != "unknown" {
		return date
	}

	return buildSetting("vcs.time", date)
}

// GetFullVersion returns version with commit and date info
func GetFullVersion() string {
	return GetVersion() + " (commit: " + GetCommit() + ", built: " + GetDate() + ")"
}

func buildSetting(key, fallback string) string {
	info, ok := readBuildInfo()
	if !ok {
		return fallback
	}

	for _, s := range info.Settings {
		if s.Key == key && s.Value != "" {
			return s.Value
		}
	}

	return fallback
}
