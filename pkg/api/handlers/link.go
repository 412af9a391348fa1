package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/assiaelattar/microbit-app/pkg/api/types"
	"github.com/assiaelattar/microbit-app/pkg/rover"
)

// LinkHandler handles rover link endpoints
type LinkHandler struct {
	controller rover.Controller
}

// NewLinkHandler creates a new link handler
func NewLinkHandler(controller rover.Controller) *LinkHandler {
	return &LinkHandler{controller: controller}
}

// Connect handles POST /link/connect
// @Summary      Connect the rover
// @Description  Establishes the BLE (or serial) link. Connecting is always an explicit user action.
// @Tags         link
// @Produce      json
// @Success      200  {object}  types.LinkResponse
// @Failure      404  {object}  types.ErrorResponse  "Rover not found"
// @Failure      503  {object}  types.ErrorResponse  "Transport unavailable"
// @Failure      504  {object}  types.ErrorResponse  "Connection timed out"
// @Failure      500  {object}  types.ErrorResponse  "Link error"
// @Router       /link/connect [post]
func (h *LinkHandler) Connect(c *gin.Context) {
	if err := h.controller.Connect(c.Request.Context()); err != nil {
		respondLinkError(c, err)
		return
	}

	c.JSON(http.StatusOK, types.LinkResponse{
		Status:    "connected",
		Device:    h.controller.Status().Device,
		Timestamp: time.Now(),
	})
}

// Disconnect handles POST /link/disconnect
// @Summary      Disconnect the rover
// @Description  Tears the link down and clears cached link state
// @Tags         link
// @Produce      json
// @Success      200  {object}  types.LinkResponse
// @Failure      500  {object}  types.ErrorResponse  "Link error"
// @Router       /link/disconnect [post]
func (h *LinkHandler) Disconnect(c *gin.Context) {
	if err := h.controller.Disconnect(c.Request.Context()); err != nil {
		c.JSON(http.StatusInternalServerError, types.ErrorResponse{
			Error:   "link_error",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, types.LinkResponse{
		Status:    "disconnected",
		Timestamp: time.Now(),
	})
}

// Status handles GET /link
// @Summary      Link status
// @Description  Returns the current rover link snapshot
// @Tags         link
// @Produce      json
// @Success      200  {object}  types.StatusResponse
// @Router       /link [get]
func (h *LinkHandler) Status(c *gin.Context) {
	c.JSON(http.StatusOK, types.StatusResponse{
		Rover:     h.controller.Status(),
		Timestamp: time.Now(),
	})
}

// respondLinkError maps link sentinel errors to HTTP statuses.
func respondLinkError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, rover.ErrNotFound):
		c.JSON(http.StatusNotFound, types.ErrorResponse{
			Error:   "not_found",
			Message: "Rover not found, is it powered and advertising?",
		})
	case errors.Is(err, rover.ErrUnavailable):
		c.JSON(http.StatusServiceUnavailable, types.ErrorResponse{
			Error:   "transport_unavailable",
			Message: err.Error(),
		})
	case errors.Is(err, rover.ErrTimeout):
		c.JSON(http.StatusGatewayTimeout, types.ErrorResponse{
			Error:   "timeout",
			Message: "Timed out waiting for the rover",
		})
	case errors.Is(err, rover.ErrNotConnected):
		c.JSON(http.StatusServiceUnavailable, types.ErrorResponse{
			Error:   "not_connected",
			Message: "Rover is not connected",
		})
	default:
		c.JSON(http.StatusInternalServerError, types.ErrorResponse{
			Error:   "link_error",
			Message: err.Error(),
		})
	}
}
