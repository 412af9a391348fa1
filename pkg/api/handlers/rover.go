package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/assiaelattar/microbit-app/pkg/api/types"
	"github.com/assiaelattar/microbit-app/pkg/db"
	"github.com/assiaelattar/microbit-app/pkg/rover"
	"github.com/assiaelattar/microbit-app/pkg/rover/schema"
)

// driveValidator checks the drive request body before the command token
// is looked up. Unknown tokens are rejected here rather than silently
// ignored, the silent-ignore contract applies on the wire, not at the
// API edge.
var driveValidator = schema.MustCompile(json.RawMessage(`{
	"$schema": "https://json-schema.org/draft/2020-12/schema",
	"type": "object",
	"properties": {
		"command": {
			"type": "string",
			"enum": ["forward", "backward", "left", "right", "stop", "up", "down", "go", "back"]
		}
	},
	"required": ["command"],
	"additionalProperties": false
}`))

// RoverHandler handles rover control endpoints
type RoverHandler struct {
	controller rover.Controller
	commandLog db.CommandLogStore
}

// NewRoverHandler creates a new rover handler
func NewRoverHandler(controller rover.Controller, commandLog db.CommandLogStore) *RoverHandler {
	return &RoverHandler{
		controller: controller,
		commandLog: commandLog,
	}
}

// Power handles POST /rover/power
// @Summary      Set rover power
// @Description  Turns the motor power gate on or off. Movement commands are refused while power is off.
// @Tags         rover
// @Accept       json
// @Produce      json
// @Param        request  body      types.PowerRequest  true  "Power state"
// @Success      200  {object}  types.StatusResponse
// @Failure      400  {object}  types.ErrorResponse  "Invalid request body"
// @Failure      503  {object}  types.ErrorResponse  "Rover not connected"
// @Router       /rover/power [post]
func (h *RoverHandler) Power(c *gin.Context) {
	var req types.PowerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, types.ErrorResponse{
			Error:   "invalid_request",
			Message: err.Error(),
		})
		return
	}

	if err := h.controller.SetPower(c.Request.Context(), *req.On, "api"); err != nil {
		respondLinkError(c, err)
		return
	}

	c.JSON(http.StatusOK, types.StatusResponse{
		Rover:     h.controller.Status(),
		Timestamp: time.Now(),
	})
}

// Drive handles POST /rover/drive
// @Summary      Drive the rover
// @Description  Sends a single movement command over the link
// @Tags         rover
// @Accept       json
// @Produce      json
// @Param        request  body      types.DriveRequest  true  "Movement command"
// @Success      200  {object}  types.StatusResponse
// @Failure      400  {object}  types.ErrorResponse  "Invalid or unknown command"
// @Failure      503  {object}  types.ErrorResponse  "Rover not connected or powered off"
// @Router       /rover/drive [post]
func (h *RoverHandler) Drive(c *gin.Context) {
	var body map[string]any
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, types.ErrorResponse{
			Error:   "invalid_request",
			Message: err.Error(),
		})
		return
	}

	if err := driveValidator.Validate(body); err != nil {
		c.JSON(http.StatusBadRequest, types.ErrorResponse{
			Error:   "invalid_command",
			Message: err.Error(),
		})
		return
	}

	token, _ := body["command"].(string)
	cmd, ok := rover.ParseCommand(token)
	if !ok {
		c.JSON(http.StatusBadRequest, types.ErrorResponse{
			Error:   "invalid_command",
			Message: "Unknown command token: " + token,
		})
		return
	}

	if err := h.controller.Drive(c.Request.Context(), cmd, "api"); err != nil {
		respondDriveError(c, err)
		return
	}

	c.JSON(http.StatusOK, types.StatusResponse{
		Rover:     h.controller.Status(),
		Timestamp: time.Now(),
	})
}

// Stop handles POST /rover/stop
// @Summary      Stop the rover
// @Description  Sends a stop command. Stop bypasses the power gate so it always reaches a connected rover.
// @Tags         rover
// @Produce      json
// @Success      200  {object}  types.StatusResponse
// @Failure      503  {object}  types.ErrorResponse  "Rover not connected"
// @Router       /rover/stop [post]
func (h *RoverHandler) Stop(c *gin.Context) {
	if err := h.controller.Drive(c.Request.Context(), rover.CommandStop, "api"); err != nil {
		respondDriveError(c, err)
		return
	}

	c.JSON(http.StatusOK, types.StatusResponse{
		Rover:     h.controller.Status(),
		Timestamp: time.Now(),
	})
}

// Status handles GET /rover/status
// @Summary      Rover status
// @Description  Returns the connection, power and last-command snapshot
// @Tags         rover
// @Produce      json
// @Success      200  {object}  types.StatusResponse
// @Router       /rover/status [get]
func (h *RoverHandler) Status(c *gin.Context) {
	c.JSON(http.StatusOK, types.StatusResponse{
		Rover:     h.controller.Status(),
		Timestamp: time.Now(),
	})
}

// Log handles GET /rover/log
// @Summary      Recent commands
// @Description  Returns the most recent commands sent to the rover, newest first
// @Tags         rover
// @Produce      json
// @Param        limit  query     int  false  "Maximum entries to return"  default(50)
// @Success      200  {object}  types.CommandLogResponse
// @Failure      500  {object}  types.ErrorResponse  "Database error"
// @Router       /rover/log [get]
func (h *RoverHandler) Log(c *gin.Context) {
	limit := 50
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			c.JSON(http.StatusBadRequest, types.ErrorResponse{
				Error:   "invalid_request",
				Message: "limit must be a positive integer",
			})
			return
		}
		limit = parsed
	}

	entries, err := h.commandLog.Recent(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.ErrorResponse{
			Error:   "database_error",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, types.CommandLogResponse{
		Commands: entries,
		Count:    len(entries),
	})
}

// respondDriveError maps drive errors, distinguishing the powered-off
// refusal from plain link errors.
func respondDriveError(c *gin.Context, err error) {
	if errors.Is(err, rover.ErrPoweredOff) {
		c.JSON(http.StatusServiceUnavailable, types.ErrorResponse{
			Error:   "powered_off",
			Message: "Rover power is off, turn it on before driving",
		})
		return
	}
	respondLinkError(c, err)
}
