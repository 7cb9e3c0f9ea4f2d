package router

import (
	"classbot.app/tutor/internal/http/handler"
	"github.com/gin-gonic/gin"
)

// ChatRouter registers the model-backed routes. Only they are rate limited.
func ChatRouter(rg *gin.RouterGroup, h *handler.ChatHandler, limiter gin.HandlerFunc) {
	rg.POST("/chat", limiter, h.Send)
	rg.POST("/summarize", limiter, h.Summarize)
	rg.GET("/context", h.Context)
}
