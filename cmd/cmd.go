// Package cmd implements console commands
package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/template"

	"github.com/pkg/errors"
	"github.com/smira/commander"
	"github.com/smira/flag"

	"github.com/pkgsel/pkgsel/catalog"
	"github.com/pkgsel/pkgsel/pkgsel"
)

// stdout receives command output
var stdout io.Writer = os.Stdout

// RootCommand creates root command in command tree
func RootCommand() *commander.Command {
	cmd := &commander.Command{
		UsageLine: os.Args[0],
		Short:     "package catalog query tool",
		Long: `
pkgsel keeps a local catalog of packages synced from distribution
mirrors and selects packages from it with boolean queries over
package attributes, e.g.:

  license=GPL and not (repo=core or name=glibc)

Selected packages can be printed, graphed or served over HTTP.`,
		Flag: *flag.NewFlagSet("pkgsel", flag.ExitOnError),
		Subcommands: []*commander.Command{
			makeCmdConfig(),
			makeCmdGraph(),
			makeCmdRun(),
			makeCmdSearch(),
			makeCmdServe(),
			makeCmdShell(),
			makeCmdShow(),
			makeCmdSync(),
			makeCmdTag(),
			makeCmdVersion(),
		},
	}

	cmd.Flag.String("config", "", "location of configuration file (default locations in order: ~/.pkgsel.conf, /etc/pkgsel.conf)")
	cmd.Flag.String("root-dir", "", "override root directory from configuration")
	cmd.Flag.Bool("regex", false, "match values as anchored regular expressions instead of exact strings")
	cmd.Flag.Int("workers", 0, "number of goroutines evaluating queries (default from configuration)")

	if pkgsel.EnableDebug {
		cmd.Flag.String("cpuprofile", "", "write cpu profile to file")
		cmd.Flag.String("memprofile", "", "write memory profile to this file")
	}

	return cmd
}

var formatFuncs = template.FuncMap{
	"first": func(values []string) string {
		if len(values) == 0 {
			return ""
		}
		return values[0]
	},
	"join": strings.Join,
}

// PrintRecordList shows list of records, by name or with template format
func PrintRecordList(result *catalog.RecordList, format string) error {
	if format == "" {
		return result.ForEach(func(r catalog.Record) error {
			fmt.Fprintln(stdout, r.Name())
			return nil
		})
	}

	formatTemplate, err := template.New("format").Funcs(formatFuncs).Parse(format)
	if err != nil {
		return errors.Wrap(err, "error parsing -format template")
	}

	return result.ForEach(func(r catalog.Record) error {
		b := &strings.Builder{}
		if err := formatTemplate.Execute(b, r); err != nil {
			return errors.Wrapf(err, "error applying template to %s", r.Name())
		}
		fmt.Fprintln(stdout, b.String())
		return nil
	})
}

// PrintRecord shows all attributes of a record, known attributes first
func PrintRecord(r catalog.Record) {
	for _, attr := range r.Attributes() {
		fmt.Fprintf(stdout, "%s: %s\n", attr, strings.Join(r[attr], ", "))
	}
}
