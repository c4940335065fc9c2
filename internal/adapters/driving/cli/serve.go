package cli

import (
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

// serveCmd starts the MCP server on stdio and blocks until the transport
// closes or the process is signalled.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve Dynamics 365 tools over MCP stdio",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if newServer == nil {
			return errors.New("server not initialised")
		}

		server, err := newServer(configFile)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		return server.Run(ctx)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
