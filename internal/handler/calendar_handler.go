package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oliver-zyn/productivity-hub/internal/middleware"
	"github.com/oliver-zyn/productivity-hub/internal/service"
)

type CalendarHandler struct {
	calendarService *service.CalendarService
}

func NewCalendarHandler(calendarService *service.CalendarService) *CalendarHandler {
	return &CalendarHandler{calendarService: calendarService}
}

func (h *CalendarHandler) Sync(c *gin.Context) {
	result, apiErr := h.calendarService.Sync(c.Request.Context(), middleware.UserID(c), middleware.CalendarToken(c))
	if apiErr != nil {
		writeError(c, apiErr)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *CalendarHandler) CreateEvent(c *gin.Context) {
	var req service.CreateEventInput
	if !bindJSON(c, &req) {
		return
	}

	meeting, apiErr := h.calendarService.CreateEvent(c.Request.Context(), middleware.UserID(c), middleware.CalendarToken(c), req)
	if apiErr != nil {
		writeError(c, apiErr)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"meeting": meeting})
}
