package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oliver-zyn/productivity-hub/internal/middleware"
	"github.com/oliver-zyn/productivity-hub/internal/model"
	"github.com/oliver-zyn/productivity-hub/internal/service"
)

type TaskHandler struct {
	dashboardService *service.DashboardService
}

func NewTaskHandler(dashboardService *service.DashboardService) *TaskHandler {
	return &TaskHandler{dashboardService: dashboardService}
}

func (h *TaskHandler) List(c *gin.Context) {
	tasks := h.dashboardService.ListTasks(c.Request.Context(), middleware.UserID(c))
	c.JSON(http.StatusOK, gin.H{"tasks": tasks})
}

func (h *TaskHandler) Create(c *gin.Context) {
	var req model.NewTask
	if !bindJSON(c, &req) {
		return
	}

	task, apiErr := h.dashboardService.CreateTask(c.Request.Context(), middleware.UserID(c), req)
	if apiErr != nil {
		writeError(c, apiErr)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"task": task})
}

func (h *TaskHandler) Toggle(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	task, apiErr := h.dashboardService.ToggleTask(c.Request.Context(), middleware.UserID(c), id)
	if apiErr != nil {
		writeError(c, apiErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"task": task})
}

func (h *TaskHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if apiErr := h.dashboardService.DeleteTask(c.Request.Context(), middleware.UserID(c), id); apiErr != nil {
		writeError(c, apiErr)
		return
	}
	c.Status(http.StatusNoContent)
}
