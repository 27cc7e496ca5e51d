package http

import (
	"time"

	"rps_webapp/internal/config"
	"rps_webapp/internal/http/handlers"
	"rps_webapp/internal/http/middleware"
	"rps_webapp/internal/session"
	"rps_webapp/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func RegisterRoutes(r *gin.Engine, hub *session.Hub, cfg *config.Config, version string) {
	h := handlers.NewHandler(hub)
	healthHandler := handlers.NewHealthHandler(hub, middleware.RedisClient, version)

	r.Use(middleware.Metrics())

	// Health checks (no rate limiting)
	r.GET("/health", healthHandler.Health)
	r.GET("/healthz", healthHandler.Liveness)
	r.GET("/readyz", healthHandler.Readiness)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	apiWindow := time.Duration(cfg.APIRateWindow) * time.Second
	gameWindow := time.Duration(cfg.GameRateWindow) * time.Second

	api := r.Group("/api")
	api.POST("/session",
		middleware.SimpleRateLimit(cfg.APIRateLimit, apiWindow),
		h.CreateSession,
	)

	g := api.Group("/game", middleware.SessionAuth(), middleware.RedisRateLimit(cfg.APIRateLimit, apiWindow))
	g.GET("", h.GetGame)
	g.POST("/play", middleware.GameRateLimit(cfg.GameRateLimit, gameWindow), h.Play)
	g.POST("/reset", h.Reset)

	r.GET("/ws", ws.HandleWS(hub, cfg.AllowedOrigin))
}
