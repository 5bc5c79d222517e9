// Package server wires configuration, store, services and handlers
// into the HTTP server.
package server

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/recetario/backend/config"
	"github.com/recetario/backend/internal/api"
	"github.com/recetario/backend/internal/middleware"
	"github.com/recetario/backend/internal/service"
)

// Server represents the HTTP server
type Server struct {
	router *gin.Engine
	http   *http.Server
	logger *zap.Logger
}

// NewRouter builds the full route tree over the given store. Split out
// from New so tests can drive the real router in-process.
func NewRouter(cfg *config.Config, db *gorm.DB, logger *zap.Logger) *gin.Engine {
	authService := service.NewAuthService(db, cfg.JWTSecret, logger.Named("auth"))
	generator := service.NewGeneratorService(service.GeneratorConfig{
		APIKey: cfg.GroqAPIKey,
		APIURL: cfg.GroqAPIURL,
		Model:  cfg.GroqModel,
	}, logger.Named("generator"))
	recipeService := service.NewRecipeService(db, generator, logger.Named("recipes"))

	authHandler := api.NewAuthHandler(authService, logger.Named("api"))
	recipeHandler := api.NewRecipeHandler(recipeService, logger.Named("api"))

	gate := middleware.AuthMiddleware(authService)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORS(cfg.FrontendURL))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	authHandler.RegisterRoutes(router.Group("/auth"), gate)
	recipeHandler.RegisterRoutes(router.Group("/recipes"), gate)

	return router
}

// New creates a new server instance
func New(cfg *config.Config, db *gorm.DB, logger *zap.Logger) *Server {
	router := NewRouter(cfg, db, logger)

	return &Server{
		router: router,
		logger: logger,
		http: &http.Server{
			Addr:    ":" + cfg.ServerPort,
			Handler: router,
		},
	}
}

// Start starts the server and blocks until it stops.
func (s *Server) Start() error {
	s.logger.Info("server listening", zap.String("addr", s.http.Addr))
	if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}
