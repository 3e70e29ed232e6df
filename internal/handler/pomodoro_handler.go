package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/oliver-zyn/productivity-hub/internal/middleware"
	"github.com/oliver-zyn/productivity-hub/internal/service"
)

type PomodoroHandler struct {
	pomodoroService *service.PomodoroService
}

func NewPomodoroHandler(pomodoroService *service.PomodoroService) *PomodoroHandler {
	return &PomodoroHandler{pomodoroService: pomodoroService}
}

func (h *PomodoroHandler) GetState(c *gin.Context) {
	c.JSON(http.StatusOK, h.pomodoroService.GetState(c.Request.Context(), middleware.UserID(c)))
}

func (h *PomodoroHandler) Start(c *gin.Context) {
	c.JSON(http.StatusOK, h.pomodoroService.Start(c.Request.Context(), middleware.UserID(c)))
}

func (h *PomodoroHandler) Pause(c *gin.Context) {
	c.JSON(http.StatusOK, h.pomodoroService.Pause(c.Request.Context(), middleware.UserID(c)))
}

func (h *PomodoroHandler) Reset(c *gin.Context) {
	c.JSON(http.StatusOK, h.pomodoroService.Reset(c.Request.Context(), middleware.UserID(c)))
}

func (h *PomodoroHandler) Tick(c *gin.Context) {
	c.JSON(http.StatusOK, h.pomodoroService.Tick(c.Request.Context(), middleware.UserID(c)))
}

func (h *PomodoroHandler) Skip(c *gin.Context) {
	c.JSON(http.StatusOK, h.pomodoroService.Skip(c.Request.Context(), middleware.UserID(c)))
}

func (h *PomodoroHandler) GetHistory(c *gin.Context) {
	limit := 0
	if rawLimit := c.Query("limit"); rawLimit != "" {
		if parsed, err := strconv.Atoi(rawLimit); err == nil {
			limit = parsed
		}
	}

	sessions, apiErr := h.pomodoroService.GetHistory(c.Request.Context(), middleware.UserID(c), limit)
	if apiErr != nil {
		writeError(c, apiErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"sessions": sessions})
}

func (h *PomodoroHandler) GetSession(c *gin.Context) {
	session, apiErr := h.pomodoroService.GetSession(c.Request.Context(), middleware.UserID(c), c.Param("sessionId"))
	if apiErr != nil {
		writeError(c, apiErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"session": session})
}
