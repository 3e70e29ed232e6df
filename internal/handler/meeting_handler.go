package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oliver-zyn/productivity-hub/internal/middleware"
	"github.com/oliver-zyn/productivity-hub/internal/model"
	"github.com/oliver-zyn/productivity-hub/internal/service"
)

type MeetingHandler struct {
	dashboardService *service.DashboardService
}

func NewMeetingHandler(dashboardService *service.DashboardService) *MeetingHandler {
	return &MeetingHandler{dashboardService: dashboardService}
}

func (h *MeetingHandler) List(c *gin.Context) {
	meetings := h.dashboardService.ListMeetings(c.Request.Context(), middleware.UserID(c))
	c.JSON(http.StatusOK, gin.H{"meetings": meetings})
}

func (h *MeetingHandler) Create(c *gin.Context) {
	var req model.NewMeeting
	if !bindJSON(c, &req) {
		return
	}

	meeting, apiErr := h.dashboardService.CreateMeeting(c.Request.Context(), middleware.UserID(c), req)
	if apiErr != nil {
		writeError(c, apiErr)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"meeting": meeting})
}

func (h *MeetingHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req model.MeetingUpdate
	if !bindJSON(c, &req) {
		return
	}

	meeting, apiErr := h.dashboardService.UpdateMeeting(c.Request.Context(), middleware.UserID(c), id, req)
	if apiErr != nil {
		writeError(c, apiErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"meeting": meeting})
}

func (h *MeetingHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if apiErr := h.dashboardService.DeleteMeeting(c.Request.Context(), middleware.UserID(c), id); apiErr != nil {
		writeError(c, apiErr)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *MeetingHandler) ListTemplates(c *gin.Context) {
	templates := h.dashboardService.ListTemplates(c.Request.Context(), middleware.UserID(c))
	c.JSON(http.StatusOK, gin.H{"templates": templates})
}

func (h *MeetingHandler) CreateTemplate(c *gin.Context) {
	var req model.MeetingTemplate
	if !bindJSON(c, &req) {
		return
	}

	template, apiErr := h.dashboardService.CreateTemplate(c.Request.Context(), middleware.UserID(c), req)
	if apiErr != nil {
		writeError(c, apiErr)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"template": template})
}

func (h *MeetingHandler) DeleteTemplate(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if apiErr := h.dashboardService.DeleteTemplate(c.Request.Context(), middleware.UserID(c), id); apiErr != nil {
		writeError(c, apiErr)
		return
	}
	c.Status(http.StatusNoContent)
}
