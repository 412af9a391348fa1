package types

import (
	"time"

	"github.com/assiaelattar/microbit-app/pkg/db"
	"github.com/assiaelattar/microbit-app/pkg/gesture"
	"github.com/assiaelattar/microbit-app/pkg/rover"
)

// --- Request DTOs ---

// PowerRequest is the request body for POST /rover/power
type PowerRequest struct {
	On *bool `json:"on" binding:"required"`
}

// DriveRequest is the request body for POST /rover/drive.
// The raw body is additionally validated against a JSON Schema before
// the command token is looked up.
type DriveRequest struct {
	Command string `json:"command"`
}

// --- Response DTOs ---

// ErrorResponse represents an API error
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// HealthResponse is returned from GET /health
type HealthResponse struct {
	Status    string    `json:"status"`
	Link      string    `json:"link"`
	Timestamp time.Time `json:"timestamp"`
}

// LinkResponse is returned from link endpoints
type LinkResponse struct {
	Status    string    `json:"status"`
	Device    string    `json:"device,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// StatusResponse is returned from GET /rover/status and after
// power/drive operations
type StatusResponse struct {
	Rover     rover.Status `json:"rover"`
	Timestamp time.Time    `json:"timestamp"`
}

// GestureResponse is returned from the gesture endpoints
type GestureResponse struct {
	Gesture   gesture.Status `json:"gesture"`
	Timestamp time.Time      `json:"timestamp"`
}

// CommandLogResponse is returned from GET /rover/log
type CommandLogResponse struct {
	Commands []db.CommandEntry `json:"commands"`
	Count    int               `json:"count"`
}
