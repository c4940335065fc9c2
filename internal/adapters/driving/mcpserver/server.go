// Package mcpserver registers the Dynamics 365 tools with an MCP server and
// serves them over the stdio transport.
//
// The tool layer is deliberately thin: each handler validates nothing beyond
// argument decoding, invokes one typed operation on the DynamicsService port,
// and renders the success value or classified failure as a protocol response.
package mcpserver

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/srikanth-paladugula/mcp-dynamics365-server/internal/core/ports/driving"
	"github.com/srikanth-paladugula/mcp-dynamics365-server/internal/logger"
)

// Server exposes the Dynamics 365 tool surface over MCP.
type Server struct {
	mcpServer *mcp.Server
	service   driving.DynamicsService
}

// New creates an MCP server with all Dynamics 365 tools registered.
func New(service driving.DynamicsService, version string) *Server {
	s := &Server{
		mcpServer: mcp.NewServer(&mcp.Implementation{
			Name:    "dynamics365",
			Version: version,
		}, nil),
		service: service,
	}
	s.registerTools()
	return s
}

// Run serves MCP over stdio until the context is cancelled or the transport
// closes. Tool failures are rendered as error responses, never as a server
// exit.
func (s *Server) Run(ctx context.Context) error {
	logger.Infof("serving Dynamics 365 MCP tools over stdio")
	if err := s.mcpServer.Run(ctx, &mcp.StdioTransport{}); err != nil {
		logger.Errorf("mcp server terminated: %v", err)
		return err
	}
	return nil
}
