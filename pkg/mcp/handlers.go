package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/assiaelattar/microbit-app/pkg/rover"
)

func (s *Server) handleGetHealth(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	linkStatus := "disconnected"
	if s.controller.Status().Connected {
		linkStatus = "connected"
	}

	status := "healthy"
	if linkStatus != "connected" {
		status = "degraded"
	}

	out := GetHealthOutput{
		Status:    status,
		Link:      linkStatus,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}

	return mcp.NewToolResultText(formatJSON(out)), nil
}

func (s *Server) handleConnectRover(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if err := s.controller.Connect(ctx); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to connect: %s", err)), nil
	}

	status := s.controller.Status()
	out := ConnectRoverOutput{
		Success: true,
		Device:  status.Device,
		Message: fmt.Sprintf("Connected to %q", status.Device),
	}
	return mcp.NewToolResultText(formatJSON(out)), nil
}

func (s *Server) handleDisconnectRover(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if err := s.controller.Disconnect(ctx); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to disconnect: %s", err)), nil
	}

	out := DisconnectRoverOutput{
		Success: true,
		Message: "Rover disconnected",
	}
	return mcp.NewToolResultText(formatJSON(out)), nil
}

func (s *Server) handleSetPower(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	on, ok := args["on"].(bool)
	if !ok {
		return mcp.NewToolResultError(`required parameter "on" must be a boolean`), nil
	}

	if err := s.controller.SetPower(ctx, on, "mcp"); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to set power: %s", err)), nil
	}

	out := SetPowerOutput{
		Success: true,
		Status:  s.controller.Status(),
	}
	return mcp.NewToolResultText(formatJSON(out)), nil
}

func (s *Server) handleDrive(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	token, err := requiredString(request, "command")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	cmd, ok := rover.ParseCommand(token)
	if !ok {
		return mcp.NewToolResultError(fmt.Sprintf("unknown command token %q", token)), nil
	}

	if err := s.controller.Drive(ctx, cmd, "mcp"); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to drive: %s", err)), nil
	}

	out := DriveOutput{
		Success: true,
		Command: string(cmd),
		Status:  s.controller.Status(),
	}
	return mcp.NewToolResultText(formatJSON(out)), nil
}

func (s *Server) handleStop(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if err := s.controller.Drive(ctx, rover.CommandStop, "mcp"); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to stop: %s", err)), nil
	}

	out := DriveOutput{
		Success: true,
		Command: string(rover.CommandStop),
		Status:  s.controller.Status(),
	}
	return mcp.NewToolResultText(formatJSON(out)), nil
}

func (s *Server) handleGetStatus(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	out := GetStatusOutput{Status: s.controller.Status()}
	return mcp.NewToolResultText(formatJSON(out)), nil
}

func (s *Server) handleStartGesturePilot(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if s.pilot == nil {
		return mcp.NewToolResultError("gesture pilot is not configured"), nil
	}

	if err := s.pilot.Start(); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to start gesture pilot: %s", err)), nil
	}

	out := GesturePilotOutput{
		Success: true,
		Message: "Gesture pilot started",
	}
	return mcp.NewToolResultText(formatJSON(out)), nil
}

func (s *Server) handleStopGesturePilot(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if s.pilot == nil {
		return mcp.NewToolResultError("gesture pilot is not configured"), nil
	}

	s.pilot.Stop()

	out := GesturePilotOutput{
		Success: true,
		Message: "Gesture pilot stopped",
	}
	return mcp.NewToolResultText(formatJSON(out)), nil
}

// --- helpers ---

func requiredString(request mcp.CallToolRequest, key string) (string, error) {
	args := request.GetArguments()
	v, ok := args[key]
	if !ok || v == nil {
		return "", fmt.Errorf("required parameter %q is missing", key)
	}
	s, ok := v.(string)
	if !ok || s == "" {
		return "", fmt.Errorf("parameter %q must be a non-empty string", key)
	}
	return s, nil
}

func formatJSON(v any) string {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Sprintf(`{"error":"failed to marshal response: %s"}`, err)
	}
	return string(b)
}
