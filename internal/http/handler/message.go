package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"classbot.app/tutor/internal/http/dto"
	"classbot.app/tutor/internal/http/middleware"
	"classbot.app/tutor/internal/model"
	"classbot.app/tutor/internal/service"
)

type MessageHandler struct {
	messageService service.MessageService
}

func NewMessageHandler(messageService service.MessageService) *MessageHandler {
	return &MessageHandler{messageService: messageService}
}

// List returns the live transcript oldest-first. Compacted messages are gone.
func (h *MessageHandler) List(c *gin.Context) {
	threadID, ok := queryInt64(c, "threadId")
	if !ok {
		return
	}
	limit, ok := queryInt(c, "limit")
	if !ok {
		return
	}

	msgs, err := h.messageService.List(c.Request.Context(), middleware.SessionFrom(c), threadID, limit)
	if err != nil {
		respondError(c, err, "list messages")
		return
	}

	c.JSON(http.StatusOK, dto.ListMessagesResponse{Messages: dto.ToMessageResponses(msgs)})
}

func (h *MessageHandler) Append(c *gin.Context) {
	var req dto.AppendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "threadId, role and content are required"})
		return
	}

	msg, err := h.messageService.Append(c.Request.Context(), middleware.SessionFrom(c), req.ThreadID, model.Role(req.Role), req.Content)
	if err != nil {
		respondError(c, err, "append message")
		return
	}

	c.JSON(http.StatusCreated, dto.ToMessageResponse(msg))
}
