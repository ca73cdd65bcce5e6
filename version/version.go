// Package version reports the engine build version.
package version

import "runtime/debug"

// Version can be set at build time:
// go build -ldflags "-X github.com/dev-yashmathur/audio-editor/version.Version=$(git describe --dirty)"
var Version string

// String returns the injected Version, falling back to the short VCS
// revision of the build, with a -dirty suffix when the tree was modified.
// Builds without VCS info report an empty string.
func String() string {
	if Version != "" {
		return Version
	}
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return ""
	}
	var revision string
	modified := false
	for _, setting := range info.Settings {
		switch setting.Key {
		case "vcs.revision":
			revision = setting.Value
		case "vcs.modified":
			modified = setting.Value == "true"
		}
	}
	if len(revision) > 7 {
		revision = revision[:7]
	}
	if revision != "" && modified {
		revision += "-dirty"
	}
	return revision
}
