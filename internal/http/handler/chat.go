package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"classbot.app/tutor/internal/http/dto"
	"classbot.app/tutor/internal/http/middleware"
	"classbot.app/tutor/internal/service"
)

type ChatHandler struct {
	chatService service.ChatService
}

func NewChatHandler(chatService service.ChatService) *ChatHandler {
	return &ChatHandler{chatService: chatService}
}

// Send runs one tutoring turn. A failed completion is still a 200: the error
// text is the assistant reply and is stored as such.
func (h *ChatHandler) Send(c *gin.Context) {
	var req dto.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "threadId and message are required"})
		return
	}

	reply, err := h.chatService.Send(c.Request.Context(), middleware.SessionFrom(c), req.ThreadID, req.Message)
	if err != nil {
		respondError(c, err, "send message")
		return
	}

	c.JSON(http.StatusOK, dto.ToChatResponse(reply))
}

func (h *ChatHandler) Context(c *gin.Context) {
	threadID, ok := queryInt64(c, "threadId")
	if !ok {
		return
	}
	n, ok := queryInt(c, "n")
	if !ok {
		return
	}

	view, err := h.chatService.Context(c.Request.Context(), middleware.SessionFrom(c), threadID, n)
	if err != nil {
		respondError(c, err, "load context")
		return
	}

	c.JSON(http.StatusOK, dto.ToContextResponse(view))
}

func (h *ChatHandler) Summarize(c *gin.Context) {
	var req dto.SummarizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "threadId is required"})
		return
	}

	result, err := h.chatService.Summarize(c.Request.Context(), middleware.SessionFrom(c), req.ThreadID)
	if err != nil {
		respondError(c, err, "summarize thread")
		return
	}

	c.JSON(http.StatusOK, dto.ToSummarizeResponse(result))
}
