// Package api - router setup
package api

import (
	"net/http"
	"time"

	"github.com/aethra/docflow/internal/auth"
	"github.com/aethra/docflow/internal/config"
	"github.com/aethra/docflow/internal/engine"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// Handlers groups the API handlers for router setup.
type Handlers struct {
	Auth      *AuthHandler
	Stations  *StationHandler
	Templates *TemplateHandler
	Documents *DocumentHandler
	Flows     *FlowHandler
}

// SetupRouter creates and configures the gin router.
func SetupRouter(cfg *config.Config, logger zerolog.Logger, handlers Handlers, jwtService *auth.JWTService, store *engine.Store) *gin.Engine {
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(RequestLogger(logger))
	r.Use(gin.Recovery())

	// When credentials are allowed, specific origins must be configured.
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORS.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "Accept"},
		ExposeHeaders:    []string{"Content-Length", "Content-Type"},
		AllowCredentials: cfg.CORS.AllowCredentials,
		MaxAge:           12 * time.Hour,
	}))

	// Health check (no auth required)
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy", "version": "1.0.0"})
	})

	v1 := r.Group("/api/v1")

	authRoutes := v1.Group("/auth")
	{
		authRoutes.POST("/register", handlers.Auth.Register)
		authRoutes.POST("/login", handlers.Auth.Login)
	}

	protected := v1.Group("")
	protected.Use(RequireAuth(jwtService, store))
	{
		protected.GET("/auth/profile", handlers.Auth.Profile)

		protected.GET("/stations", handlers.Stations.List)
		protected.POST("/stations", handlers.Stations.Create)
		protected.GET("/stations/:public_id", handlers.Stations.Get)
		protected.PUT("/stations/:public_id", handlers.Stations.Update)
		protected.DELETE("/stations/:public_id", handlers.Stations.Delete)
		protected.GET("/stations/:public_id/documents", handlers.Stations.Documents)

		protected.GET("/templates", handlers.Templates.List)
		protected.POST("/templates", handlers.Templates.Create)
		protected.GET("/templates/:public_id", handlers.Templates.Get)
		protected.PUT("/templates/:public_id", handlers.Templates.Update)
		protected.DELETE("/templates/:public_id", handlers.Templates.Delete)

		protected.GET("/documents", handlers.Documents.List)
		protected.POST("/documents", handlers.Documents.Create)
		protected.GET("/documents/:public_id", handlers.Documents.Get)
		protected.PUT("/documents/:public_id", handlers.Documents.Update)
		protected.DELETE("/documents/:public_id", handlers.Documents.Delete)
		protected.GET("/documents/:public_id/history", handlers.Documents.History)

		protected.GET("/flows", handlers.Flows.List)
		protected.POST("/flows", handlers.Flows.Create)
		protected.GET("/flows/:public_id", handlers.Flows.Get)
		protected.PUT("/flows/:public_id", handlers.Flows.Update)
		protected.DELETE("/flows/:public_id", handlers.Flows.Delete)
		protected.GET("/flows/:public_id/steps", handlers.Flows.ListSteps)
		protected.POST("/flows/:public_id/steps", handlers.Flows.AddStep)
		protected.PUT("/flows/:public_id/steps/:step_id", handlers.Flows.UpdateStep)
		protected.DELETE("/flows/:public_id/steps/:step_id", handlers.Flows.DeleteStep)
	}

	return r
}
