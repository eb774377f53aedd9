package cmd

import (
	"fmt"
	"strings"

	"github.com/smira/commander"
	"github.com/smira/flag"
)

func pkgselTagList(cmd *commander.Command, args []string) error {
	if len(args) != 1 {
		cmd.Usage()
		return commander.ErrCommandError
	}

	tags, err := context.TagStore().Tags(args[0])
	if err != nil {
		return err
	}

	for _, tag := range tags {
		fmt.Fprintln(stdout, tag)
	}

	return nil
}

func pkgselTagAdd(cmd *commander.Command, args []string) error {
	if len(args) < 2 {
		cmd.Usage()
		return commander.ErrCommandError
	}

	tags, err := context.TagStore().Add(args[0], args[1:]...)
	if err != nil {
		return fmt.Errorf("unable to add tags: %s", err)
	}
	context.InvalidateCatalog()

	fmt.Fprintf(stdout, "Tags of %s: %s\n", args[0], strings.Join(tags, ", "))
	return nil
}

func pkgselTagRemove(cmd *commander.Command, args []string) error {
	if len(args) < 2 {
		cmd.Usage()
		return commander.ErrCommandError
	}

	tags, err := context.TagStore().Remove(args[0], args[1:]...)
	if err != nil {
		return fmt.Errorf("unable to remove tags: %s", err)
	}
	context.InvalidateCatalog()

	fmt.Fprintf(stdout, "Tags of %s: %s\n", args[0], strings.Join(tags, ", "))
	return nil
}

func makeCmdTag() *commander.Command {
	return &commander.Command{
		UsageLine: "tag",
		Short:     "manage local package tags",
		Subcommands: []*commander.Command{
			{
				Run:       pkgselTagList,
				UsageLine: "list <name>",
				Short:     "list tags of package",
				Long: `
Command list shows tags assigned to package, one per line.

Example:

  $ pkgsel tag list bash
`,
				Flag: *flag.NewFlagSet("pkgsel-tag-list", flag.ExitOnError),
			},
			{
				Run:       pkgselTagAdd,
				UsageLine: "add <name> <tag> ...",
				Short:     "add tags to package",
				Long: `
Command add assigns tags to package, tags are available to queries
as attribute tag.

Example:

  $ pkgsel tag add bash essential shell
  $ pkgsel search tag=essential
`,
				Flag: *flag.NewFlagSet("pkgsel-tag-add", flag.ExitOnError),
			},
			{
				Run:       pkgselTagRemove,
				UsageLine: "remove <name> <tag> ...",
				Short:     "remove tags from package",
				Long: `
Command remove drops tags from package.

Example:

  $ pkgsel tag remove bash shell
`,
				Flag: *flag.NewFlagSet("pkgsel-tag-remove", flag.ExitOnError),
			},
		},
	}
}
