package cmd

import (
	"fmt"
	"runtime"

	"github.com/smira/commander"
	"github.com/smira/flag"

	"github.com/pkgsel/pkgsel/pkgsel"
)

func pkgselVersion(_ *commander.Command, _ []string) error {
	fmt.Fprintf(stdout, "pkgsel version: %s\n", pkgsel.Version)
	fmt.Fprintf(stdout, "go version: %s\n", runtime.Version())
	return nil
}

func makeCmdVersion() *commander.Command {
	return &commander.Command{
		Run:       pkgselVersion,
		UsageLine: "version",
		Short:     "display version",
		Long: `
Shows pkgsel version.

ex:
  $ pkgsel version
`,
		Flag: *flag.NewFlagSet("pkgsel-version", flag.ExitOnError),
	}
}
