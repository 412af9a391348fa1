package api

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/assiaelattar/microbit-app/pkg/api/handlers"
	"github.com/assiaelattar/microbit-app/pkg/db"
	"github.com/assiaelattar/microbit-app/pkg/rover"
)

// Router holds the Gin engine and dependencies
type Router struct {
	engine     *gin.Engine
	controller rover.Controller
	subscriber rover.EventSubscriber
	commandLog db.CommandLogStore
	pilot      handlers.GesturePilot
}

// NewRouter creates a new API router. The pilot may be nil when no
// camera or vision model is configured.
func NewRouter(controller rover.Controller, subscriber rover.EventSubscriber, commandLog db.CommandLogStore, pilot handlers.GesturePilot) *Router {
	gin.SetMode(gin.ReleaseMode)

	engine := gin.New()
	SetupMiddleware(engine)

	router := &Router{
		engine:     engine,
		controller: controller,
		subscriber: subscriber,
		commandLog: commandLog,
		pilot:      pilot,
	}

	router.setupRoutes()

	return router
}

// setupRoutes configures all API routes
func (r *Router) setupRoutes() {
	// Swagger UI
	r.engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	r.engine.GET("/docs", func(c *gin.Context) {
		c.Redirect(301, "/swagger/index.html")
	})

	// Health check at root
	healthHandler := handlers.NewHealthHandler(r.controller)
	r.engine.GET("/health", healthHandler.Health)

	// API v1 routes
	v1 := r.engine.Group("/api/v1")
	{
		// Health
		v1.GET("/health", healthHandler.Health)

		// Link lifecycle
		linkHandler := handlers.NewLinkHandler(r.controller)
		link := v1.Group("/link")
		{
			link.GET("", linkHandler.Status)
			link.POST("/connect", linkHandler.Connect)
			link.POST("/disconnect", linkHandler.Disconnect)
		}

		// Rover control
		roverHandler := handlers.NewRoverHandler(r.controller, r.commandLog)
		roverGroup := v1.Group("/rover")
		{
			roverGroup.POST("/power", roverHandler.Power)
			roverGroup.POST("/drive", roverHandler.Drive)
			roverGroup.POST("/stop", roverHandler.Stop)
			roverGroup.GET("/status", roverHandler.Status)
			roverGroup.GET("/log", roverHandler.Log)
		}

		// Gesture pilot
		gestureHandler := handlers.NewGestureHandler(r.pilot)
		gestureGroup := v1.Group("/gesture")
		{
			gestureGroup.GET("", gestureHandler.Status)
			gestureGroup.POST("/start", gestureHandler.Start)
			gestureGroup.POST("/stop", gestureHandler.Stop)
		}

		// Event stream
		eventsHandler := handlers.NewEventsHandler(r.subscriber)
		v1.GET("/events", eventsHandler.Events)
	}
}

// Run starts the HTTP server
func (r *Router) Run(addr string) error {
	return r.engine.Run(addr)
}
