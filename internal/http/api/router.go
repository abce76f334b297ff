// Package api wires the HTTP surface: routing, session gating, request
// logging and panic recovery.
package api

import (
	"net/http"

	"github.com/brightfold/landing-api/internal/http/api/handlers"
	"github.com/brightfold/landing-api/internal/http/api/respond"
	"github.com/brightfold/landing-api/internal/session"
	"github.com/brightfold/landing-api/internal/storage"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Deps carries the process-scoped resources handlers are built from.
type Deps struct {
	DB       *gorm.DB
	Sessions *session.Store
	Uploads  *storage.LocalStore
	Cookie   handlers.CookieOptions
	MaxBatch int
}

// Register mounts every route on the engine.
func Register(engine *gin.Engine, deps Deps) {
	healthHandler := handlers.NewHealthHandler(deps.DB)
	landingHandler := handlers.NewLandingHandler(deps.DB)
	authHandler := handlers.NewAuthHandler(deps.DB, deps.Sessions, deps.Cookie)
	contentHandler := handlers.NewContentHandler(deps.DB)
	imageHandler := handlers.NewImageHandler(deps.DB, deps.Uploads, deps.MaxBatch)
	adminHandler := handlers.NewAdminHandler(deps.DB, deps.Sessions)
	dashboardHandler := handlers.NewDashboardHandler(deps.DB)

	engine.GET("/api/health", healthHandler.Health)

	landing := engine.Group("/api/landing")
	{
		landing.GET("/content", landingHandler.ListContent)
		landing.GET("/content/:key", landingHandler.GetContent)
		landing.GET("/images/:section_key", landingHandler.ListImages)
	}

	admin := engine.Group("/api/admin")
	admin.POST("/login", authHandler.Login)

	protected := admin.Group("", RequireSession(deps.Sessions, deps.Cookie.Name))
	{
		protected.POST("/logout", authHandler.Logout)
		protected.GET("/me", authHandler.Me)
		protected.GET("/dashboard/stats", dashboardHandler.Stats)

		protected.GET("/content", contentHandler.List)
		protected.POST("/content", contentHandler.Create)
		protected.PUT("/content/:id", contentHandler.Update)

		protected.GET("/images", imageHandler.List)
		protected.POST("/images/upload", imageHandler.Upload)
		protected.DELETE("/images/:id", imageHandler.Delete)

		protected.POST("/create", adminHandler.Create)
		protected.GET("/admins", adminHandler.List)
		protected.DELETE("/admins/:id", adminHandler.Delete)
	}

	// Uploaded images are served straight from the upload directory.
	engine.Static(deps.Uploads.PublicPath(), deps.Uploads.Dir())

	engine.NoRoute(func(c *gin.Context) {
		respond.Error(c, http.StatusNotFound, "Route not found")
	})
}
