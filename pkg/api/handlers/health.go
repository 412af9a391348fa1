package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/assiaelattar/microbit-app/pkg/api/types"
	"github.com/assiaelattar/microbit-app/pkg/rover"
)

// HealthHandler handles health check endpoints
type HealthHandler struct {
	controller rover.Controller
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(controller rover.Controller) *HealthHandler {
	return &HealthHandler{controller: controller}
}

// Health handles GET /health
// @Summary      Health check
// @Description  Returns the health status of the API and the rover link
// @Tags         health
// @Produce      json
// @Success      200  {object}  types.HealthResponse  "Service is healthy"
// @Failure      503  {object}  types.HealthResponse  "Rover link is down"
// @Router       /health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	linkStatus := "disconnected"
	if h.controller.Status().Connected {
		linkStatus = "connected"
	}

	status := "healthy"
	httpStatus := http.StatusOK

	if linkStatus != "connected" {
		status = "degraded"
		httpStatus = http.StatusServiceUnavailable
	}

	c.JSON(httpStatus, types.HealthResponse{
		Status:    status,
		Link:      linkStatus,
		Timestamp: time.Now(),
	})
}
