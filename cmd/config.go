package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/smira/commander"
	"github.com/smira/flag"
)

func pkgselConfigShow(_ *commander.Command, _ []string) error {
	showYaml := context.Flags().Lookup("yaml").Value.Get().(bool)

	config := context.Config()

	if showYaml {
		yamlData, err := config.MarshalYAMLDocument()
		if err != nil {
			return fmt.Errorf("error marshaling to YAML: %s", err)
		}
		fmt.Fprint(stdout, string(yamlData))
		return nil
	}

	prettyJSON, err := json.MarshalIndent(config, "", "    ")
	if err != nil {
		return fmt.Errorf("unable to dump the config file: %s", err)
	}

	fmt.Fprintln(stdout, string(prettyJSON))
	return nil
}

func makeCmdConfigShow() *commander.Command {
	cmd := &commander.Command{
		Run:       pkgselConfigShow,
		UsageLine: "show",
		Short:     "show current pkgsel's config",
		Long: `
Command show displays the current pkgsel configuration.

Example:

  $ pkgsel config show

`,
		Flag: *flag.NewFlagSet("pkgsel-config-show", flag.ExitOnError),
	}
	cmd.Flag.Bool("yaml", false, "show yaml config")
	return cmd
}

func makeCmdConfig() *commander.Command {
	return &commander.Command{
		UsageLine: "config",
		Short:     "manage pkgsel configuration",
		Subcommands: []*commander.Command{
			makeCmdConfigShow(),
		},
	}
}
