package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"classbot.app/tutor/internal/http/dto"
	"classbot.app/tutor/internal/http/middleware"
	"classbot.app/tutor/internal/service"
)

type ThreadHandler struct {
	threadService service.ThreadService
}

func NewThreadHandler(threadService service.ThreadService) *ThreadHandler {
	return &ThreadHandler{threadService: threadService}
}

func (h *ThreadHandler) Create(c *gin.Context) {
	var req dto.CreateThreadRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
	}

	thread, err := h.threadService.Create(c.Request.Context(), middleware.SessionFrom(c), req.Title)
	if err != nil {
		respondError(c, err, "create thread")
		return
	}

	c.JSON(http.StatusCreated, dto.ToThreadResponse(thread))
}

func (h *ThreadHandler) List(c *gin.Context) {
	threads, err := h.threadService.ListOwn(c.Request.Context(), middleware.SessionFrom(c))
	if err != nil {
		respondError(c, err, "list threads")
		return
	}

	resp := dto.ListThreadsResponse{Threads: make([]dto.ThreadResponse, len(threads))}
	for i := range threads {
		resp.Threads[i] = dto.ToThreadResponse(&threads[i])
	}
	c.JSON(http.StatusOK, resp)
}
