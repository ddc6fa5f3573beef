package main

import (
	"fmt"
	"runtime/debug"
)

// versionString reports the gbcater version, preferring the vcs
// revision stamped by the Go tool over the module version.
func versionString() string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return "gbcater (unknown version)"
	}

	var revision, modified string
	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			revision = s.Value
		case "vcs.modified":
			if s.Value == "true" {
				modified = "+dirty"
			}
		}
	}

	if revision != "" {
		return fmt.Sprintf("gbcater %s (%.12s%s)", info.Main.Version, revision, modified)
	}
	return fmt.Sprintf("gbcater %s", info.Main.Version)
}
