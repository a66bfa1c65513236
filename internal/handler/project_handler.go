package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"backoffice/internal/model"
	"backoffice/internal/repository"
	"backoffice/internal/service"
)

type ProjectHandler struct {
	projects *repository.ProjectRepository
	stats    *service.StatsService
	logger   *zap.Logger
}

func NewProjectHandler(projects *repository.ProjectRepository, stats *service.StatsService, logger *zap.Logger) *ProjectHandler {
	return &ProjectHandler{
		projects: projects,
		stats:    stats,
		logger:   logger,
	}
}

type projectRequest struct {
	Code        string `json:"code" binding:"required,alphanum,max=10"`
	Name        string `json:"name" binding:"required"`
	Client      string `json:"client"`
	Description string `json:"description"`
	Status      string `json:"status" binding:"required,oneof=active completed cancelled"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
}

// CreateProject handles POST /projects.
func (h *ProjectHandler) CreateProject(c *gin.Context) {
	var req projectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	start, err := parseDate(req.StartDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	end, err := parseDate(req.EndDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	p := &model.Project{
		Code:        req.Code,
		Name:        req.Name,
		Client:      req.Client,
		Description: req.Description,
		Status:      req.Status,
		StartDate:   start,
		EndDate:     end,
	}

	id, err := h.projects.Insert(c.Request.Context(), p)
	if err != nil {
		h.logger.Error("CreateProject failed",
			zap.String("code", req.Code),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create project"})
		return
	}
	p.ID = id

	c.JSON(http.StatusCreated, p)
}

// ListProjects handles GET /projects.
func (h *ProjectHandler) ListProjects(c *gin.Context) {
	projects, err := h.projects.List(c.Request.Context())
	if err != nil {
		h.logger.Error("ListProjects failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list projects"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"projects": projects})
}

// GetProject handles GET /projects/:id.
func (h *ProjectHandler) GetProject(c *gin.Context) {
	projectID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid project id"})
		return
	}

	p, err := h.projects.FindByID(c.Request.Context(), projectID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "project not found"})
		return
	}

	c.JSON(http.StatusOK, p)
}

// UpdateProject handles PUT /projects/:id. The project code is immutable:
// issued issue codes embed it.
func (h *ProjectHandler) UpdateProject(c *gin.Context) {
	projectID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid project id"})
		return
	}

	p, err := h.projects.FindByID(c.Request.Context(), projectID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "project not found"})
		return
	}

	var req projectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Code != p.Code {
		c.JSON(http.StatusBadRequest, gin.H{"error": "project code cannot be changed"})
		return
	}

	start, err := parseDate(req.StartDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	end, err := parseDate(req.EndDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	p.Name = req.Name
	p.Client = req.Client
	p.Description = req.Description
	p.Status = req.Status
	p.StartDate = start
	p.EndDate = end

	if err := h.projects.Update(c.Request.Context(), p); err != nil {
		h.logger.Error("UpdateProject failed",
			zap.Int("project_id", projectID),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update project"})
		return
	}

	c.JSON(http.StatusOK, p)
}

// DeleteProject handles DELETE /projects/:id.
func (h *ProjectHandler) DeleteProject(c *gin.Context) {
	projectID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid project id"})
		return
	}

	if err := h.projects.Delete(c.Request.Context(), projectID); err != nil {
		h.logger.Error("DeleteProject failed",
			zap.Int("project_id", projectID),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete project"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

// GetProjectStats handles GET /projects/:id/stats.
func (h *ProjectHandler) GetProjectStats(c *gin.Context) {
	projectID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid project id"})
		return
	}

	stats, err := h.stats.GetProjectStats(c.Request.Context(), projectID)
	if err != nil {
		h.logger.Error("GetProjectStats failed",
			zap.Int("project_id", projectID),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to compute stats"})
		return
	}

	c.JSON(http.StatusOK, stats)
}
