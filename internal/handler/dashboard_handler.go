package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oliver-zyn/productivity-hub/internal/middleware"
	"github.com/oliver-zyn/productivity-hub/internal/service"
	"github.com/oliver-zyn/productivity-hub/internal/store"
)

type DashboardHandler struct {
	dashboardService *service.DashboardService
}

func NewDashboardHandler(dashboardService *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

func (h *DashboardHandler) Get(c *gin.Context) {
	c.JSON(http.StatusOK, h.dashboardService.Snapshot(c.Request.Context(), middleware.UserID(c)))
}

func (h *DashboardHandler) Metrics(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"metrics": h.dashboardService.Metrics(c.Request.Context(), middleware.UserID(c))})
}

func (h *DashboardHandler) Export(c *gin.Context) {
	doc := h.dashboardService.Export(c.Request.Context(), middleware.UserID(c))
	filename := fmt.Sprintf("productivity-hub-backup-%s.json", doc.ExportedAt.Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.JSON(http.StatusOK, doc)
}

func (h *DashboardHandler) Import(c *gin.Context) {
	var req store.ImportDocument
	if !bindJSON(c, &req) {
		return
	}
	c.JSON(http.StatusOK, h.dashboardService.Import(c.Request.Context(), middleware.UserID(c), req))
}

func (h *DashboardHandler) Usage(c *gin.Context) {
	c.JSON(http.StatusOK, h.dashboardService.Usage(c.Request.Context(), middleware.UserID(c)))
}

func (h *DashboardHandler) Entry(c *gin.Context) {
	key := c.Param("key")
	data, apiErr := h.dashboardService.StoredEntry(c.Request.Context(), middleware.UserID(c), key)
	if apiErr != nil {
		writeError(c, apiErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"key": key, "data": data})
}

func (h *DashboardHandler) Clear(c *gin.Context) {
	c.JSON(http.StatusOK, h.dashboardService.ClearAll(c.Request.Context(), middleware.UserID(c)))
}
