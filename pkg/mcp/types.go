package mcp

import "github.com/assiaelattar/microbit-app/pkg/rover"

// --- Health Tool ---

// GetHealthOutput is the output for the get_health tool
type GetHealthOutput struct {
	Status    string `json:"status" jsonschema:"description=Overall health status (healthy or degraded)"`
	Link      string `json:"link" jsonschema:"description=Rover link connection status"`
	Timestamp string `json:"timestamp" jsonschema:"description=ISO8601 timestamp"`
}

// --- Link Tools ---

// ConnectRoverOutput is the output for the connect_rover tool
type ConnectRoverOutput struct {
	Success bool   `json:"success" jsonschema:"description=Whether the connection succeeded"`
	Device  string `json:"device,omitempty" jsonschema:"description=Advertised name of the connected rover"`
	Message string `json:"message" jsonschema:"description=Status message"`
}

// DisconnectRoverOutput is the output for the disconnect_rover tool
type DisconnectRoverOutput struct {
	Success bool   `json:"success" jsonschema:"description=Whether the disconnect succeeded"`
	Message string `json:"message" jsonschema:"description=Status message"`
}

// --- Control Tools ---

// SetPowerOutput is the output for the set_power tool
type SetPowerOutput struct {
	Success bool         `json:"success" jsonschema:"description=Whether the power change was sent"`
	Status  rover.Status `json:"status" jsonschema:"description=Rover status after the change"`
}

// DriveOutput is the output for the drive and stop tools
type DriveOutput struct {
	Success bool         `json:"success" jsonschema:"description=Whether the command was sent"`
	Command string       `json:"command" jsonschema:"description=The command that was sent"`
	Status  rover.Status `json:"status" jsonschema:"description=Rover status after the command"`
}

// GetStatusOutput is the output for the get_status tool
type GetStatusOutput struct {
	Status rover.Status `json:"status" jsonschema:"description=Current rover link snapshot"`
}

// --- Gesture Tools ---

// GesturePilotOutput is the output for the gesture pilot tools
type GesturePilotOutput struct {
	Success bool   `json:"success" jsonschema:"description=Whether the operation succeeded"`
	Message string `json:"message" jsonschema:"description=Status message"`
}
