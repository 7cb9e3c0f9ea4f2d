package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"classbot.app/tutor/common/logger"
	"classbot.app/tutor/internal/model"
	"classbot.app/tutor/internal/service"
)

const (
	SessionCookieName = "tutor_session"
	SessionIDHeader   = "X-Session-Id"

	sessionKey = "tutor.session"
)

// SessionValidator is satisfied by service.AuthService.
type SessionValidator interface {
	ValidateSession(ctx context.Context, sessionID int64) (*model.Session, error)
}

// RequireSession resolves the session from the X-Session-Id header or the
// session cookie and aborts with 401 when it is missing or expired.
func RequireSession(validator SessionValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		raw := c.GetHeader(SessionIDHeader)
		if raw == "" {
			if cookie, err := c.Cookie(SessionCookieName); err == nil {
				raw = cookie
			}
		}
		if raw == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
			return
		}

		sessionID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid session"})
			return
		}

		session, err := validator.ValidateSession(ctx, sessionID)
		if err != nil {
			if errors.Is(err, service.ErrSessionExpired) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "session expired"})
				return
			}
			slog.ErrorContext(ctx, "failed to validate session", "error", err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "failed to validate session"})
			return
		}

		ctx = logger.WithLogFields(ctx, logger.LogFields{
			SessionID: logger.Ptr(session.ID),
			Class:     logger.Ptr(session.Class),
		})
		c.Request = c.Request.WithContext(ctx)
		c.Set(sessionKey, session)
		c.Next()
	}
}

// SessionFrom returns the session stored by RequireSession, or nil.
func SessionFrom(c *gin.Context) *model.Session {
	v, ok := c.Get(sessionKey)
	if !ok {
		return nil
	}
	session, _ := v.(*model.Session)
	return session
}
