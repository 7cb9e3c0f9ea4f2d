package router

import (
	"classbot.app/tutor/internal/http/handler"
	"github.com/gin-gonic/gin"
)

func AuthRouter(rg *gin.RouterGroup, authed *gin.RouterGroup, h *handler.AuthHandler) {
	rg.POST("/login", h.Login)
	authed.GET("/me", h.Me)
}
