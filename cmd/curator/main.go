package main

import (
	"fmt"
	"runtime"
)

// Version information - set by goreleaser
var (
	buildVersion = "dev"
	commit       = "none"
	date         = "unknown"
)

func main() {
	Execute()
}

// versionString returns the version string.
func versionString() string {
	return fmt.Sprintf("curator %s (%s, %s, %s)", buildVersion, commit[:min(7, len(commit))], date, runtime.Version())
}
