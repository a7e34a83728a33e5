// cmd/mtdash/main.go
package main

import (
	mtdash "github.com/mwiater/mtdash/internal/commands"
)

// Build-time variables, set with -ldflags "-X main.version=...".
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var (
	setVersionInfo = mtdash.SetVersionInfo
	executeCmd     = mtdash.Execute
)

// main starts the mtdash CLI by delegating to the cobra root command.
func main() {
	setVersionInfo(version, commit, date)
	executeCmd()
}
