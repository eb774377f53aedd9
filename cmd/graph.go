package cmd

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/smira/commander"
	"github.com/smira/flag"

	"github.com/pkgsel/pkgsel/catalog"
)

func pkgselGraph(cmd *commander.Command, args []string) error {
	var err error

	result, err := selectRecords(strings.Join(args, " "))
	if err != nil {
		return err
	}

	layout := context.Flags().Lookup("layout").Value.String()

	fmt.Fprintf(os.Stderr, "Generating graph of %d packages...\n", result.Len())
	graph, err := catalog.BuildGraph(result, layout)
	if err != nil {
		return err
	}

	format := context.Flags().Lookup("format").Value.String()
	output := context.Flags().Lookup("output").Value.String()

	if filepath.Ext(output) != "" {
		format = filepath.Ext(output)[1:]
	}

	if format == "dot" || format == "gv" {
		if output == "" {
			_, err = fmt.Fprint(stdout, graph.String())
			return err
		}
		err = os.WriteFile(output, []byte(graph.String()), 0644)
		if err != nil {
			return fmt.Errorf("unable to write %s: %s", output, err)
		}
		fmt.Fprintf(stdout, "Output saved to %s\n", output)
		return nil
	}

	if output == "" {
		output = "pkgsel-graph." + format
	}

	buf := bytes.NewBufferString(graph.String())

	command := exec.Command("dot", "-T"+format, "-o"+output)
	command.Stderr = os.Stderr

	stdin, err := command.StdinPipe()
	if err != nil {
		return err
	}

	err = command.Start()
	if err != nil {
		return fmt.Errorf("unable to execute dot: %s (is graphviz package installed?)", err)
	}

	_, err = io.Copy(stdin, buf)
	if err != nil {
		return err
	}

	err = stdin.Close()
	if err != nil {
		return err
	}

	err = command.Wait()
	if err != nil {
		return err
	}

	fmt.Fprintf(stdout, "Output saved to %s\n", output)
	return nil
}

func makeCmdGraph() *commander.Command {
	cmd := &commander.Command{
		Run:       pkgselGraph,
		UsageLine: "graph [<query>]",
		Short:     "render dependency graph of selected packages",
		Long: `
Command graph displays dependencies between packages matching query,
either as DOT source or rendered with graphviz package to an image.

Example:

  $ pkgsel graph -format=svg -output=python.svg repo=extra and depend=python
`,
		Flag: *flag.NewFlagSet("pkgsel-graph", flag.ExitOnError),
	}

	cmd.Flag.String("format", "dot", "render graph to specified format (dot, png, svg, pdf, etc.)")
	cmd.Flag.String("output", "", "specify output filename, default is to print DOT source or pkgsel-graph.<format>")
	cmd.Flag.String("layout", "horizontal", "create a more 'vertical' or a more 'horizontal' graph layout")

	return cmd
}
