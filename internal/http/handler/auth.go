package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"classbot.app/tutor/internal/http/dto"
	"classbot.app/tutor/internal/http/middleware"
	"classbot.app/tutor/internal/service"
)

type AuthHandler struct {
	authService  service.AuthService
	isProduction bool
}

func NewAuthHandler(authService service.AuthService, isProduction bool) *AuthHandler {
	return &AuthHandler{
		authService:  authService,
		isProduction: isProduction,
	}
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "klass, nickname and password are required"})
		return
	}

	session, err := h.authService.Login(c.Request.Context(), req.Class, req.Nickname, req.Password)
	if err != nil {
		respondError(c, err, "log in")
		return
	}

	c.SetCookie(
		middleware.SessionCookieName,
		strconv.FormatInt(session.ID, 10),
		int(time.Until(session.ExpiresAt).Seconds()),
		"/",
		"",
		h.isProduction,
		true,
	)

	c.JSON(http.StatusOK, dto.ToSessionResponse(session))
}

func (h *AuthHandler) Me(c *gin.Context) {
	session := middleware.SessionFrom(c)
	if session == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}
	c.JSON(http.StatusOK, dto.ToSessionResponse(session))
}
