package dto

import (
	"time"

	"classbot.app/tutor/internal/model"
)

type CreateThreadRequest struct {
	Title string `json:"title"`
}

type ThreadResponse struct {
	ID        int64     `json:"id,string"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func ToThreadResponse(t *model.Thread) ThreadResponse {
	return ThreadResponse{
		ID:        t.ID,
		Title:     t.Title,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
}

type ListThreadsResponse struct {
	Threads []ThreadResponse `json:"threads"`
}
