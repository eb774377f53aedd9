package cmd

import (
	"fmt"
	"net"
	"net/http"
	"net/url"
	"os"

	"github.com/smira/commander"
	"github.com/smira/flag"

	"github.com/pkgsel/pkgsel/api"
	"github.com/pkgsel/pkgsel/utils"
)

func pkgselServe(cmd *commander.Command, args []string) error {
	var err error

	if len(args) != 0 {
		cmd.Usage()
		return commander.ErrCommandError
	}

	// rootDir either does not exist yet or has to be usable by current user
	err = utils.DirIsAccessible(context.Config().GetRootDir())
	if err != nil {
		return err
	}

	listen := context.Flags().Lookup("listen").Value.String()
	fmt.Fprintf(stdout, "\nStarting web server at: %s (press Ctrl+C to quit)...\n", listen)

	listenURL, err := url.Parse(listen)
	if err == nil && listenURL.Scheme == "unix" {
		file := listenURL.Path
		_ = os.Remove(file)

		var listener net.Listener
		listener, err = net.Listen("unix", file)
		if err != nil {
			return fmt.Errorf("failed to listen on: %s\n%s", file, err)
		}
		defer listener.Close()

		err = http.Serve(listener, api.Router(context))
		if err != nil {
			return fmt.Errorf("unable to serve: %s", err)
		}
		return nil
	}

	err = http.ListenAndServe(listen, api.Router(context))
	if err != nil {
		return fmt.Errorf("unable to serve: %s", err)
	}

	return nil
}

func makeCmdServe() *commander.Command {
	cmd := &commander.Command{
		Run:       pkgselServe,
		UsageLine: "serve",
		Short:     "start HTTP query API",
		Long: `
Start HTTP server with pkgsel REST API. The server can listen to either a port
or Unix domain socket.

Example:

  $ pkgsel serve -listen=:8090
  $ pkgsel serve -listen=unix:///tmp/pkgsel.sock
`,
		Flag: *flag.NewFlagSet("pkgsel-serve", flag.ExitOnError),
	}

	cmd.Flag.String("listen", ":8090", "host:port for HTTP listening or unix://path to listen on a Unix domain socket")

	return cmd
}
