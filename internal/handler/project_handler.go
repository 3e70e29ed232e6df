package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oliver-zyn/productivity-hub/internal/middleware"
	"github.com/oliver-zyn/productivity-hub/internal/model"
	"github.com/oliver-zyn/productivity-hub/internal/service"
)

type ProjectHandler struct {
	dashboardService *service.DashboardService
}

type subtaskRequest struct {
	Text string `json:"text"`
}

func NewProjectHandler(dashboardService *service.DashboardService) *ProjectHandler {
	return &ProjectHandler{dashboardService: dashboardService}
}

func (h *ProjectHandler) List(c *gin.Context) {
	projects := h.dashboardService.ListProjects(c.Request.Context(), middleware.UserID(c))
	c.JSON(http.StatusOK, gin.H{"projects": projects})
}

func (h *ProjectHandler) Create(c *gin.Context) {
	var req model.NewProject
	if !bindJSON(c, &req) {
		return
	}

	project, apiErr := h.dashboardService.CreateProject(c.Request.Context(), middleware.UserID(c), req)
	if apiErr != nil {
		writeError(c, apiErr)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"project": project})
}

func (h *ProjectHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req model.ProjectUpdate
	if !bindJSON(c, &req) {
		return
	}

	project, apiErr := h.dashboardService.UpdateProject(c.Request.Context(), middleware.UserID(c), id, req)
	if apiErr != nil {
		writeError(c, apiErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"project": project})
}

func (h *ProjectHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if apiErr := h.dashboardService.DeleteProject(c.Request.Context(), middleware.UserID(c), id); apiErr != nil {
		writeError(c, apiErr)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *ProjectHandler) ToggleExpanded(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	project, apiErr := h.dashboardService.ToggleProjectExpanded(c.Request.Context(), middleware.UserID(c), id)
	if apiErr != nil {
		writeError(c, apiErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"project": project})
}

func (h *ProjectHandler) AddSubtask(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req subtaskRequest
	if !bindJSON(c, &req) {
		return
	}

	subtask, apiErr := h.dashboardService.AddSubtask(c.Request.Context(), middleware.UserID(c), id, req.Text)
	if apiErr != nil {
		writeError(c, apiErr)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"subtask": subtask})
}

func (h *ProjectHandler) ToggleSubtask(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	subtaskID, ok := pathID(c, "subtaskId")
	if !ok {
		return
	}

	project, apiErr := h.dashboardService.ToggleSubtask(c.Request.Context(), middleware.UserID(c), id, subtaskID)
	if apiErr != nil {
		writeError(c, apiErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"project": project})
}

func (h *ProjectHandler) DeleteSubtask(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	subtaskID, ok := pathID(c, "subtaskId")
	if !ok {
		return
	}

	project, apiErr := h.dashboardService.DeleteSubtask(c.Request.Context(), middleware.UserID(c), id, subtaskID)
	if apiErr != nil {
		writeError(c, apiErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"project": project})
}

func (h *ProjectHandler) GenerateSubtasks(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	project, apiErr := h.dashboardService.GenerateSubtasks(c.Request.Context(), middleware.UserID(c), id)
	if apiErr != nil {
		writeError(c, apiErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"project": project})
}
