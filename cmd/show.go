package cmd

import (
	"fmt"

	"github.com/smira/commander"
	"github.com/smira/flag"
)

func pkgselShow(cmd *commander.Command, args []string) error {
	if len(args) != 1 {
		cmd.Usage()
		return commander.ErrCommandError
	}

	name := args[0]

	list, err := context.Catalog()
	if err != nil {
		return err
	}

	record := list.ByName(name)
	if record == nil {
		return fmt.Errorf("unable to show: package %s not found", name)
	}

	PrintRecord(record)

	if context.Flags().Lookup("with-files").Value.Get().(bool) {
		fmt.Fprintln(stdout, "files:")
		for _, path := range context.FileIndex().Files(name) {
			fmt.Fprintf(stdout, "  %s\n", path)
		}
	}

	return nil
}

func makeCmdShow() *commander.Command {
	cmd := &commander.Command{
		Run:       pkgselShow,
		UsageLine: "show <name>",
		Short:     "show details about package",
		Long: `
Command show displays all the attributes of package record, including
category and tags.

Example:

    $ pkgsel show -with-files bash
`,
		Flag: *flag.NewFlagSet("pkgsel-show", flag.ExitOnError),
	}

	cmd.Flag.Bool("with-files", false, "display list of files from file index")

	return cmd
}
