package dto

import (
	"time"

	"classbot.app/tutor/internal/model"
)

type AppendMessageRequest struct {
	ThreadID int64  `json:"threadId,string" binding:"required"`
	Role     string `json:"role" binding:"required,oneof=user assistant system"`
	Content  string `json:"content" binding:"required"`
}

type MessageResponse struct {
	ID        int64     `json:"id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

func ToMessageResponse(m *model.Message) MessageResponse {
	return MessageResponse{
		ID:        m.Seq,
		Role:      string(m.Role),
		Content:   m.Content,
		CreatedAt: m.CreatedAt,
	}
}

func ToMessageResponses(msgs []model.Message) []MessageResponse {
	out := make([]MessageResponse, len(msgs))
	for i := range msgs {
		out[i] = ToMessageResponse(&msgs[i])
	}
	return out
}

type ListMessagesResponse struct {
	Messages []MessageResponse `json:"messages"`
}
