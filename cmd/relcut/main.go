package main

import (
	"fmt"
	"runtime"
)

// Version information - set by goreleaser
var (
	buildVersion = "dev"
	buildCommit  = "none"
	buildDate    = "unknown"
)

func main() {
	Execute()
}

// versionString returns the version string.
func versionString() string {
	return fmt.Sprintf("relcut %s (%s, %s, %s)", buildVersion, buildCommit[:min(7, len(buildCommit))], buildDate, runtime.Version())
}
