package main

import (
	"fmt"
	"os"

	"github.com/srikanth-paladugula/mcp-dynamics365-server/internal/adapters/driven/auth"
	"github.com/srikanth-paladugula/mcp-dynamics365-server/internal/adapters/driven/config"
	"github.com/srikanth-paladugula/mcp-dynamics365-server/internal/adapters/driving/cli"
	"github.com/srikanth-paladugula/mcp-dynamics365-server/internal/adapters/driving/mcpserver"
	"github.com/srikanth-paladugula/mcp-dynamics365-server/internal/connectors/dynamics"
)

var version = "dev"

func main() {
	os.Exit(run())
}

func run() int {
	cli.SetVersion(version)

	// The server is built when the serve command runs, after flag parsing, so
	// the --config path reaches the loader. Missing or incomplete credentials
	// are fatal at startup: a server that cannot authenticate has no tool
	// worth serving.
	cli.SetServerFactory(func(configPath string) (cli.Runner, error) {
		cfg, err := config.Load(configPath)
		if err != nil {
			return nil, fmt.Errorf("load configuration: %w", err)
		}

		tokenProvider, err := auth.NewClientCredentialsProvider(cfg)
		if err != nil {
			return nil, fmt.Errorf("configure authentication: %w", err)
		}

		service := dynamics.New(cfg, tokenProvider)
		return mcpserver.New(service, version), nil
	})

	if err := cli.Execute(); err != nil {
		return 1
	}
	return 0
}
