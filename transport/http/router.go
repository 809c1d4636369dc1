package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/remitwise/authgate/config"
	"github.com/remitwise/authgate/ports"
	"github.com/remitwise/authgate/service"
)

// SetupRouter sets up the Gin router
func SetupRouter(cfg *config.Config, authService *service.AuthService, limiter ports.RateLimiter, log zerolog.Logger) *gin.Engine {
	if cfg.Production {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(RecoveryMiddleware(log))
	router.Use(RequestMetrics())

	router.GET("/metrics", gin.WrapH(MetricsHandler()))

	handlers := NewAuthHandlers(cfg, authService, log)

	// Everything under /api passes the edge layer first: CORS, security
	// headers, body-size enforcement and rate limiting run before any
	// authentication.
	api := router.Group("/api")
	api.Use(EdgeMiddleware(cfg, limiter, log))

	api.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	auth := api.Group("/auth")
	{
		auth.GET("/nonce", handlers.Nonce)
		auth.POST("/nonce", handlers.Nonce)
		auth.POST("/login", handlers.Login)
		auth.POST("/logout", handlers.Logout)
		auth.GET("/me", AuthMiddleware(cfg, authService), handlers.Me)
	}

	// Protected resource routes. Handlers registered here receive the
	// authenticated identity via Identity(c).
	protected := api.Group("")
	protected.Use(AuthMiddleware(cfg, authService))
	{
		protected.GET("/authorize", handlers.Authorize)
	}

	return router
}
