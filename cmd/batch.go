package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-shellwords"
	"github.com/smira/commander"
	"github.com/smira/flag"
)

// stdin is source of commands for run without file
var stdin io.Reader = os.Stdin

// readCommands parses lines into commands, every line ends a command
func readCommands(r io.Reader) ([][]string, error) {
	cmdArgs := []string{}

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}

		parsedArgs, err := shellwords.Parse(text + ",")
		if err != nil {
			return nil, fmt.Errorf("unable to parse %q: %s", text, err)
		}
		cmdArgs = append(cmdArgs, parsedArgs...)
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return formatCommands(cmdArgs), nil
}

// formatCommands splits arguments into commands on trailing commas
func formatCommands(args []string) [][]string {
	var cmd []string
	var cmdArray [][]string

	for _, s := range args {
		if sTrimmed := strings.TrimRight(s, ","); sTrimmed != s {
			if sTrimmed != "" {
				cmd = append(cmd, sTrimmed)
			}
			if len(cmd) > 0 {
				cmdArray = append(cmdArray, cmd)
			}
			cmd = []string{}
		} else {
			cmd = append(cmd, s)
		}
	}

	if len(cmd) > 0 {
		cmdArray = append(cmdArray, cmd)
	}

	return cmdArray
}

func pkgselRun(cmd *commander.Command, args []string) error {
	var (
		err     error
		cmdList [][]string
	)

	switch {
	case len(args) == 0 || (len(args) == 1 && args[0] == "-"):
		cmdList, err = readCommands(stdin)
	case len(args) == 1:
		var file *os.File
		file, err = os.Open(args[0])
		if err != nil {
			return err
		}
		defer file.Close()

		cmdList, err = readCommands(file)
	default:
		cmd.Usage()
		return commander.ErrCommandError
	}

	if err != nil {
		return err
	}

	if len(cmdList) == 0 {
		return fmt.Errorf("no commands to run")
	}

	commandErrored := false

	for i, command := range cmdList {
		if commandErrored {
			context.Progress().ColoredPrintf("@r%d) [Skipping]: %s@!", i+1, strings.Join(command, " "))
			continue
		}

		context.Progress().ColoredPrintf("@g%d) [Running]: %s@!", i+1, strings.Join(command, " "))
		context.Progress().Flush()

		returnCode := Run(RootCommand(), command, false)
		if returnCode != 0 {
			commandErrored = true
		}
		CleanupContext()
	}

	if commandErrored {
		return fmt.Errorf("at least one command has reported an error")
	}

	return nil
}

func makeCmdRun() *commander.Command {
	return &commander.Command{
		Run:       pkgselRun,
		UsageLine: "run [<file>]",
		Short:     "run batch of pkgsel commands",
		Long: `
Command run executes pkgsel commands listed one per line in file, or read
from standard input when file is not given. Lines are split the way shell
does it, empty lines and lines starting with # are skipped. After the first
failing command the rest is skipped.

Example:

  $ cat nightly.txt
  sync
  search -format='{{first .name}}' 'license=GPL and repo=extra'
  $ pkgsel run nightly.txt
`,
		Flag: *flag.NewFlagSet("pkgsel-run", flag.ExitOnError),
	}
}
