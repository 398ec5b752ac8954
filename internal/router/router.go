package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stemsi/qbank-manager/internal/config"
	"github.com/stemsi/qbank-manager/internal/handler"
	"github.com/stemsi/qbank-manager/internal/middleware"
	"github.com/stemsi/qbank-manager/internal/response"
	"github.com/stemsi/qbank-manager/internal/view"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Bank    *handler.BankHandler
	BankAPI *handler.BankAPIHandler
}

// SetupRouter configures the editor pages, the JSON API and static assets.
func SetupRouter(cfg *config.Config, handlers *Handlers, log zerolog.Logger) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.New()
	router.Use(gin.Recovery())

	// ─── CORS ──────────────────────────────────────────────────────────
	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Request ID first so the request logger carries it.
	router.Use(response.RequestIDMiddleware(log))
	router.Use(middleware.RequestLogger())
	router.Use(middleware.Brotli())

	router.SetHTMLTemplate(view.MustTemplates())

	// Images and other assets under PUBLIC_DIR. http.Dir keeps lookups inside the root.
	publicGroup := router.Group("/public")
	publicGroup.Use(middleware.CacheControl(cfg.StaticMaxAge))
	{
		publicGroup.Static("/", cfg.PublicDir)
	}

	router.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	})

	// ─── Editor pages ──────────────────────────────────────────────────
	pages := router.Group("/")
	pages.Use(middleware.NoStore())
	{
		pages.GET("/", handlers.Bank.Index)
		pages.POST("/new", handlers.Bank.Create)
		pages.GET("/edit/:index", handlers.Bank.Edit)
		pages.POST("/edit/:index", handlers.Bank.Save)
	}

	// ─── JSON API ──────────────────────────────────────────────────────
	api := router.Group("/api/v1")
	api.Use(middleware.NoStore())
	{
		api.GET("/entries", handlers.BankAPI.ListEntries)
		api.GET("/entries/:index", handlers.BankAPI.GetEntry)
		api.GET("/images", handlers.BankAPI.ListImages)
		api.POST("/validate", handlers.BankAPI.Validate)
	}

	return router
}
