// api/router.go
package api

import (
	"database/sql"
	"net/http"
	"slices"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/Annany2002/nebula-canvas/api/handlers"
	"github.com/Annany2002/nebula-canvas/api/middleware"
	"github.com/Annany2002/nebula-canvas/config"
	"github.com/Annany2002/nebula-canvas/internal/engine"
	"github.com/Annany2002/nebula-canvas/internal/preset"
)

// Services are the collaborators the handlers share.
type Services struct {
	Engine     *engine.Engine
	Catalog    *preset.Catalog
	Translator handlers.CommandTranslator
	Shows      handlers.ShowSource
}

// SetupRouter initializes the Gin router and sets up all routes.
func SetupRouter(db *sql.DB, cfg *config.Config, svc Services) *gin.Engine {
	router := gin.Default() // Includes Logger and Recovery

	router.Use(cors.New(corsConfig(cfg)))
	// Runs after Logger/Recovery and wraps every handler below.
	router.Use(middleware.ErrorHandler())

	authHandler := handlers.NewAuthHandler(db, cfg)
	schemaHandler := handlers.NewSchemaHandler(db, cfg, svc.Engine, svc.Translator)
	designHandler := handlers.NewDesignHandler(svc.Engine, svc.Catalog, svc.Translator)
	dataHandler := handlers.NewDataHandler(svc.Shows)

	aiLimiter := middleware.NewRateLimiter(cfg.AIRateLimit, cfg.AIRateWindow)

	// --- Public Routes ---
	router.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })
	authRoutes := router.Group("/auth")
	{
		authRoutes.POST("/login", authHandler.Login)
	}

	// --- Protected Routes ---
	apiRoutes := router.Group("/api")
	apiRoutes.Use(middleware.CombinedAuthMiddleware(cfg))
	{
		apiRoutes.GET("/schema", schemaHandler.GetSchema)
		apiRoutes.POST("/schema", schemaHandler.SaveSchema)
		apiRoutes.POST("/schema/commands", schemaHandler.ApplyCommands)
		apiRoutes.POST("/schema/undo", schemaHandler.Undo)
		apiRoutes.POST("/schema/redo", schemaHandler.Redo)

		apiRoutes.POST("/ai", middleware.RateLimitMiddleware(aiLimiter), designHandler.Translate)
		apiRoutes.POST("/apply", designHandler.Apply)
		apiRoutes.GET("/presets", designHandler.ListPresets)

		apiRoutes.GET("/data", dataHandler.ListShows)
		apiRoutes.GET("/data/summary", dataHandler.Summary)
	}

	return router
}

// corsConfig allows the configured origins. An empty list or "*" allows any
// origin without credentials.
func corsConfig(cfg *config.Config) cors.Config {
	cc := cors.Config{
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders: []string{"Origin", "Content-Type", "Authorization", middleware.UserIDHeader},
		MaxAge:       12 * time.Hour,
	}
	origins := cfg.AllowedOrigins()
	if len(origins) == 0 || slices.Contains(origins, "*") {
		cc.AllowAllOrigins = true
		return cc
	}
	cc.AllowOrigins = origins
	cc.AllowCredentials = true
	return cc
}
