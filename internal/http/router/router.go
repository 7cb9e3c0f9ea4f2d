package router

import (
	"classbot.app/tutor/internal/http/handler"
	"classbot.app/tutor/internal/http/middleware"
	"classbot.app/tutor/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type RouterConfig struct {
	IsProduction    bool
	TraceHeaderName string
	RateLimit       middleware.RateLimitConfig
}

func SetupRoutes(router *gin.Engine, services *service.Services, cfg RouterConfig) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	authService := services.Auth()

	api := router.Group("/api")
	api.Use(middleware.TraceHeader(cfg.TraceHeaderName))

	authed := api.Group("")
	authed.Use(middleware.RequireSession(authService))
	{
		authHandler := handler.NewAuthHandler(authService, cfg.IsProduction)
		AuthRouter(api, authed, authHandler)

		threadHandler := handler.NewThreadHandler(services.Threads())
		ThreadRouter(authed.Group("/threads"), threadHandler)

		messageHandler := handler.NewMessageHandler(services.Messages())
		MessageRouter(authed.Group("/messages"), messageHandler)

		chatHandler := handler.NewChatHandler(services.Chat())
		ChatRouter(authed, chatHandler, middleware.RateLimit(cfg.RateLimit))
	}
}
