package cmd

import (
	"strings"

	"github.com/smira/commander"
	"github.com/smira/flag"

	"github.com/pkgsel/pkgsel/catalog"
)

// selectRecords evaluates query against whole catalog
func selectRecords(q string) (*catalog.RecordList, error) {
	list, err := context.Catalog()
	if err != nil {
		return nil, err
	}

	return catalog.Select(list, q, context.NewEvaluator(), context.Workers())
}

func pkgselSearch(cmd *commander.Command, args []string) error {
	result, err := selectRecords(strings.Join(args, " "))
	if err != nil {
		return err
	}

	format := context.Flags().Lookup("format").Value.String()
	return PrintRecordList(result, format)
}

func makeCmdSearch() *commander.Command {
	cmd := &commander.Command{
		Run:       pkgselSearch,
		UsageLine: "search [<query>]",
		Short:     "search for packages matching query",
		Long: `
Command search displays names of packages in the catalog matching query,
in catalog order. Query words are joined with single spaces.

If query is not specified, all the packages are displayed.

Example:

    $ pkgsel search license=GPL and not repo=core
    $ pkgsel search -regex 'name=python-' and depend=glibc
    $ pkgsel search -format='{{first .name}} {{join .license ","}}' group=base
`,
		Flag: *flag.NewFlagSet("pkgsel-search", flag.ExitOnError),
	}

	cmd.Flag.String("format", "", "custom format for result printing (Go template over record attributes)")

	return cmd
}
