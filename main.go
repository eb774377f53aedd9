package main

import (
	"os"

	"github.com/pkgsel/pkgsel/cmd"
	"github.com/pkgsel/pkgsel/pkgsel"
)

// Version variable, filled in at link time
var Version string

func main() {
	if Version == "" {
		Version = "unknown"
	}

	pkgsel.Version = Version

	os.Exit(cmd.Run(cmd.RootCommand(), os.Args[1:], true))
}
