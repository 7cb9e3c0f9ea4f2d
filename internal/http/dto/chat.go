package dto

import (
	"classbot.app/tutor/internal/service"
	"classbot.app/tutor/internal/tutor"
)

type ChatRequest struct {
	ThreadID int64  `json:"threadId,string" binding:"required"`
	Message  string `json:"message" binding:"required"`
}

type ChatResponse struct {
	Content      string `json:"content"`
	Failed       bool   `json:"failed"`
	MessageID    *int64 `json:"message_id,omitempty"`
	PersistError string `json:"persist_error,omitempty"`
}

func ToChatResponse(r *service.ChatReply) *ChatResponse {
	resp := &ChatResponse{
		Content: r.Content,
		Failed:  r.Failed,
	}
	if r.Message != nil {
		resp.MessageID = &r.Message.Seq
	}
	if r.PersistErr != nil {
		resp.PersistError = r.PersistErr.Error()
	}
	return resp
}

type ContextResponse struct {
	Summary       string            `json:"summary"`
	HighWaterMark int64             `json:"high_water_mark"`
	Recent        []MessageResponse `json:"recent"`
}

func ToContextResponse(v *service.ContextView) *ContextResponse {
	return &ContextResponse{
		Summary:       v.Summary,
		HighWaterMark: v.HighWaterMark,
		Recent:        ToMessageResponses(v.Recent),
	}
}

type SummarizeRequest struct {
	ThreadID int64 `json:"threadId,string" binding:"required"`
}

// SummarizeResponse carries either a skip reason or the new summary.
type SummarizeResponse struct {
	Skipped       bool   `json:"skipped"`
	Reason        string `json:"reason,omitempty"`
	Count         int64  `json:"count"`
	Summary       string `json:"summary,omitempty"`
	HighWaterMark int64  `json:"high_water_mark"`
	Pruned        int64  `json:"pruned"`
	Warn          string `json:"warn,omitempty"`
}

func ToSummarizeResponse(r tutor.CompactResult) *SummarizeResponse {
	resp := &SummarizeResponse{
		Skipped:       r.Skipped,
		Reason:        string(r.Reason),
		Count:         r.Count,
		Summary:       r.Summary,
		HighWaterMark: r.HighWaterMark,
		Pruned:        r.Pruned,
	}
	if r.Warning != nil {
		resp.Warn = r.Warning.Error()
	}
	return resp
}
