package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/assiaelattar/microbit-app/pkg/api/types"
	"github.com/assiaelattar/microbit-app/pkg/gesture"
)

// GesturePilot is the surface the API needs from the gesture loop
type GesturePilot interface {
	Start() error
	Stop()
	Status() gesture.Status
}

// GestureHandler handles gesture pilot endpoints. The pilot is nil
// when no camera or vision model is configured for the active rover.
type GestureHandler struct {
	pilot GesturePilot
}

// NewGestureHandler creates a new gesture handler
func NewGestureHandler(pilot GesturePilot) *GestureHandler {
	return &GestureHandler{pilot: pilot}
}

// Start handles POST /gesture/start
// @Summary      Start the gesture pilot
// @Description  Begins the snapshot/classify/drive loop against the configured camera
// @Tags         gesture
// @Produce      json
// @Success      200  {object}  types.GestureResponse
// @Failure      409  {object}  types.ErrorResponse  "Pilot already running"
// @Failure      503  {object}  types.ErrorResponse  "Gesture pilot not configured"
// @Router       /gesture/start [post]
func (h *GestureHandler) Start(c *gin.Context) {
	if h.pilot == nil {
		respondGestureUnconfigured(c)
		return
	}

	if err := h.pilot.Start(); err != nil {
		c.JSON(http.StatusConflict, types.ErrorResponse{
			Error:   "already_running",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, types.GestureResponse{
		Gesture:   h.pilot.Status(),
		Timestamp: time.Now(),
	})
}

// Stop handles POST /gesture/stop
// @Summary      Stop the gesture pilot
// @Description  Stops the loop and waits for any in-flight cycle to finish
// @Tags         gesture
// @Produce      json
// @Success      200  {object}  types.GestureResponse
// @Failure      503  {object}  types.ErrorResponse  "Gesture pilot not configured"
// @Router       /gesture/stop [post]
func (h *GestureHandler) Stop(c *gin.Context) {
	if h.pilot == nil {
		respondGestureUnconfigured(c)
		return
	}

	h.pilot.Stop()

	c.JSON(http.StatusOK, types.GestureResponse{
		Gesture:   h.pilot.Status(),
		Timestamp: time.Now(),
	})
}

// Status handles GET /gesture
// @Summary      Gesture pilot status
// @Description  Returns the pilot state and the last classification result
// @Tags         gesture
// @Produce      json
// @Success      200  {object}  types.GestureResponse
// @Failure      503  {object}  types.ErrorResponse  "Gesture pilot not configured"
// @Router       /gesture [get]
func (h *GestureHandler) Status(c *gin.Context) {
	if h.pilot == nil {
		respondGestureUnconfigured(c)
		return
	}

	c.JSON(http.StatusOK, types.GestureResponse{
		Gesture:   h.pilot.Status(),
		Timestamp: time.Now(),
	})
}

func respondGestureUnconfigured(c *gin.Context) {
	c.JSON(http.StatusServiceUnavailable, types.ErrorResponse{
		Error:   "gesture_unconfigured",
		Message: "No camera or vision model configured for the active rover",
	})
}
