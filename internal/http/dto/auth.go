package dto

import (
	"time"

	"classbot.app/tutor/internal/model"
)

type LoginRequest struct {
	Class    string `json:"klass" binding:"required"`
	Nickname string `json:"nickname" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type SessionResponse struct {
	ID        int64     `json:"id,string"`
	Class     string    `json:"klass"`
	Nickname  string    `json:"nickname"`
	ExpiresAt time.Time `json:"expires_at"`
}

func ToSessionResponse(s *model.Session) *SessionResponse {
	return &SessionResponse{
		ID:        s.ID,
		Class:     s.Class,
		Nickname:  s.Nickname,
		ExpiresAt: s.ExpiresAt,
	}
}
