package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// versionCmd prints the build version.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, _ []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "mcp-dynamics365-server %s\n", version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
