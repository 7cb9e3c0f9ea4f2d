package router

import (
	"classbot.app/tutor/internal/http/handler"
	"github.com/gin-gonic/gin"
)

func MessageRouter(rg *gin.RouterGroup, h *handler.MessageHandler) {
	rg.GET("", h.List)
	rg.POST("", h.Append)
}
