package mcp

import "github.com/mark3labs/mcp-go/mcp"

// registerTools registers all MCP tools with the server
func (s *Server) registerTools() {
	// Health check
	s.mcpServer.AddTool(
		mcp.NewTool("get_health",
			mcp.WithDescription("Check the health of the service and the rover link"),
		),
		s.handleGetHealth,
	)

	// Connect rover
	s.mcpServer.AddTool(
		mcp.NewTool("connect_rover",
			mcp.WithDescription("Connect to the configured rover over BLE or serial. Connecting is always an explicit action."),
		),
		s.handleConnectRover,
	)

	// Disconnect rover
	s.mcpServer.AddTool(
		mcp.NewTool("disconnect_rover",
			mcp.WithDescription("Disconnect the rover link and clear cached state"),
		),
		s.handleDisconnectRover,
	)

	// Set power
	s.mcpServer.AddTool(
		mcp.NewTool("set_power",
			mcp.WithDescription("Turn the rover's motor power gate on or off. Movement commands are refused while power is off."),
			mcp.WithBoolean("on",
				mcp.Required(),
				mcp.Description("Desired power state"),
			),
		),
		s.handleSetPower,
	)

	// Drive
	s.mcpServer.AddTool(
		mcp.NewTool("drive",
			mcp.WithDescription("Send a single movement command to the rover"),
			mcp.WithString("command",
				mcp.Required(),
				mcp.Description("Movement command: forward, backward, left, right or stop"),
				mcp.Enum("forward", "backward", "left", "right", "stop"),
			),
		),
		s.handleDrive,
	)

	// Stop
	s.mcpServer.AddTool(
		mcp.NewTool("stop",
			mcp.WithDescription("Stop the rover. Works even while the power gate is off."),
		),
		s.handleStop,
	)

	// Get status
	s.mcpServer.AddTool(
		mcp.NewTool("get_status",
			mcp.WithDescription("Get the rover's connection, power and last-command snapshot"),
		),
		s.handleGetStatus,
	)

	// Start gesture pilot
	s.mcpServer.AddTool(
		mcp.NewTool("start_gesture_pilot",
			mcp.WithDescription("Start the camera gesture loop that drives the rover from hand gestures"),
		),
		s.handleStartGesturePilot,
	)

	// Stop gesture pilot
	s.mcpServer.AddTool(
		mcp.NewTool("stop_gesture_pilot",
			mcp.WithDescription("Stop the camera gesture loop"),
		),
		s.handleStopGesturePilot,
	)
}
