package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/smira/commander"
	"github.com/smira/flag"
)

const shellHelp = `Enter query to list matching packages, e.g. license=GPL and not repo=core
Commands:
  .help          this message
  .show <name>   show package details
  .quit          leave the shell (also Ctrl-D)`

// shellLine executes single line entered into the shell, it returns true when shell should quit
func shellLine(line string) (bool, error) {
	line = strings.TrimSpace(line)

	switch {
	case line == "":
		return false, nil
	case line == ".quit" || line == ".exit":
		return true, nil
	case line == ".help":
		fmt.Fprintln(stdout, shellHelp)
		return false, nil
	case strings.HasPrefix(line, ".show "):
		name := strings.TrimSpace(strings.TrimPrefix(line, ".show "))
		list, err := context.Catalog()
		if err != nil {
			return false, err
		}
		record := list.ByName(name)
		if record == nil {
			return false, fmt.Errorf("package %s not found", name)
		}
		PrintRecord(record)
		return false, nil
	case strings.HasPrefix(line, "."):
		return false, fmt.Errorf("unknown command %s, try .help", line)
	}

	result, err := selectRecords(line)
	if err != nil {
		return false, err
	}

	if err = PrintRecordList(result, ""); err != nil {
		return false, err
	}
	fmt.Fprintf(stdout, "(%d packages)\n", result.Len())

	return false, nil
}

func pkgselShell(cmd *commander.Command, args []string) error {
	if len(args) != 0 {
		cmd.Usage()
		return commander.ErrCommandError
	}

	// load catalog upfront, so that first query is not slowed down
	list, err := context.Catalog()
	if err != nil {
		return err
	}

	line := liner.NewLiner()
	defer line.Close()

	line.SetCtrlCAborts(true)

	historyPath := filepath.Join(context.Config().GetRootDir(), "shell_history")
	if f, err := os.Open(historyPath); err == nil {
		_, _ = line.ReadHistory(f)
		_ = f.Close()
	}

	defer func() {
		f, err := os.Create(historyPath)
		if err != nil {
			log.Warn().Err(err).Msgf("unable to save shell history to %s", historyPath)
			return
		}
		_, _ = line.WriteHistory(f)
		_ = f.Close()
	}()

	fmt.Fprintf(stdout, "pkgsel shell, %d packages in catalog, .help for help\n", list.Len())

	for {
		input, err := line.Prompt("pkgsel> ")
		if err == liner.ErrPromptAborted || errors.Is(err, io.EOF) {
			fmt.Fprintln(stdout)
			return nil
		}
		if err != nil {
			return err
		}

		if strings.TrimSpace(input) != "" {
			line.AppendHistory(input)
		}

		quit, err := shellLine(input)
		if err != nil {
			fmt.Fprintln(stdout, "ERROR:", err)
		}
		if quit {
			return nil
		}
	}
}

func makeCmdShell() *commander.Command {
	return &commander.Command{
		Run:       pkgselShell,
		UsageLine: "shell",
		Short:     "interactive query prompt",
		Long: `
Command shell starts interactive prompt which evaluates every entered line
as query against the catalog. History is kept in the root directory.

Example:

  $ pkgsel shell
  pkgsel> depend=glibc and repo=extra
`,
		Flag: *flag.NewFlagSet("pkgsel-shell", flag.ExitOnError),
	}
}
