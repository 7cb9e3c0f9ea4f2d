package router

import (
	"classbot.app/tutor/internal/http/handler"
	"github.com/gin-gonic/gin"
)

func ThreadRouter(rg *gin.RouterGroup, h *handler.ThreadHandler) {
	rg.POST("", h.Create)
	rg.GET("", h.List)
}
