package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/srikanth-paladugula/mcp-dynamics365-server/internal/logger"
)

// Runner is the long-running server the serve command hands control to.
type Runner interface {
	Run(ctx context.Context) error
}

// ServerFactory builds the server from the --config flag value. An empty path
// means environment-only configuration.
type ServerFactory func(configPath string) (Runner, error)

var (
	// Version is set by goreleaser ldflags.
	version = "dev"

	// Verbose enables debug logging.
	verbose bool

	// configFile is the optional TOML configuration file path.
	configFile string

	// newServer is injected by main before Execute.
	newServer ServerFactory
)

// SetServerFactory injects the MCP server constructor for the serve command.
func SetServerFactory(f ServerFactory) {
	newServer = f
}

// rootCmd is the base command. Running the binary with no arguments starts
// the MCP server, which is how MCP hosts launch it.
var rootCmd = &cobra.Command{
	Use:   "mcp-dynamics365-server",
	Short: "MCP server for Microsoft Dynamics 365 CRM",
	Long: `mcp-dynamics365-server exposes Microsoft Dynamics 365 CRM operations as
MCP tools over stdio: user lookup, account retrieval, opportunity retrieval,
and account create/update.

Credentials are read from the environment (DYNAMICS365_TENANT_ID,
DYNAMICS365_CLIENT_ID, DYNAMICS365_CLIENT_SECRET, DYNAMICS365_URL), optionally
via a .env file or a TOML file given with --config. Environment variables
always take precedence over file values.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return serveCmd.RunE(cmd, args)
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion sets the version string for the CLI.
func SetVersion(v string) {
	version = v
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose debug output")
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "path to a TOML configuration file")

	// Use PersistentPreRunE to set verbose mode before any command executes
	rootCmd.PersistentPreRunE = func(_ *cobra.Command, _ []string) error {
		logger.SetVerbose(verbose)
		return nil
	}
}
