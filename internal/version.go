package internal

import "runtime/debug"

// CurrentVersion is overwritten by ldflags during release builds.
var CurrentVersion = "dev"

// Version returns CurrentVersion, falling back to the module version
// recorded by `go install`.
func Version() string {
	if CurrentVersion != "dev" {
		return CurrentVersion
	}
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}
	return CurrentVersion
}
