package mcp

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/assiaelattar/microbit-app/pkg/rover"
)

// GesturePilot is the surface the MCP tools need from the gesture loop
type GesturePilot interface {
	Start() error
	Stop()
}

// Server wraps the MCP server with rover control functionality
type Server struct {
	mcpServer  *server.MCPServer
	controller rover.Controller
	pilot      GesturePilot
}

// NewServer creates a new MCP server for rover control. The pilot may
// be nil when no camera or vision model is configured.
func NewServer(controller rover.Controller, pilot GesturePilot) *Server {
	s := &Server{
		controller: controller,
		pilot:      pilot,
	}

	// Create MCP server
	s.mcpServer = server.NewMCPServer(
		"microbit-app",
		"1.0.0",
		server.WithToolCapabilities(true),
	)

	// Register all tools
	s.registerTools()

	return s
}

// ServeStdio starts the MCP server using stdio transport
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}
