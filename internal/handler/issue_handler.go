package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"backoffice/internal/httpserver/authctx"
	"backoffice/internal/model"
	"backoffice/internal/service"
)

type IssueHandler struct {
	issues   *service.IssueService
	subtasks *service.SubtaskService
	logger   *zap.Logger
}

func NewIssueHandler(issues *service.IssueService, subtasks *service.SubtaskService, logger *zap.Logger) *IssueHandler {
	return &IssueHandler{
		issues:   issues,
		subtasks: subtasks,
		logger:   logger,
	}
}

type issueRequest struct {
	Title        string `json:"title" binding:"required"`
	Description  string `json:"description"`
	Remark       string `json:"remark"`
	Type         string `json:"type" binding:"required"`
	Priority     string `json:"priority" binding:"required"`
	Status       string `json:"status" binding:"required"`
	StartDate    string `json:"start_date"`
	DueDate      string `json:"due_date"`
	CompleteDate string `json:"complete_date"`
}

func (r *issueRequest) toInput() (service.IssueInput, error) {
	if !model.IsValidIssueType(r.Type) {
		return service.IssueInput{}, errors.New("invalid issue type")
	}
	if !model.IsValidPriority(r.Priority) {
		return service.IssueInput{}, errors.New("invalid priority")
	}
	if !model.IsValidStatus(r.Status) {
		return service.IssueInput{}, errors.New("invalid status")
	}

	start, err := parseDate(r.StartDate)
	if err != nil {
		return service.IssueInput{}, err
	}
	due, err := parseDate(r.DueDate)
	if err != nil {
		return service.IssueInput{}, err
	}
	complete, err := parseDate(r.CompleteDate)
	if err != nil {
		return service.IssueInput{}, err
	}

	return service.IssueInput{
		Title:        r.Title,
		Description:  r.Description,
		Remark:       r.Remark,
		Type:         r.Type,
		Priority:     r.Priority,
		Status:       r.Status,
		StartDate:    start,
		DueDate:      due,
		CompleteDate: complete,
	}, nil
}

// CreateIssue handles POST /projects/:id/issues.
func (h *IssueHandler) CreateIssue(c *gin.Context) {
	projectID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid project id"})
		return
	}

	var req issueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	in, err := req.toInput()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	issue, err := h.issues.Create(c.Request.Context(), projectID, authctx.UserID(c), in)
	if err != nil {
		if errors.Is(err, service.ErrProjectNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "project not found"})
			return
		}
		h.logger.Error("CreateIssue failed",
			zap.Int("project_id", projectID),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create issue"})
		return
	}

	c.JSON(http.StatusCreated, issue)
}

// ListIssues handles GET /projects/:id/issues.
func (h *IssueHandler) ListIssues(c *gin.Context) {
	projectID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid project id"})
		return
	}

	issues, err := h.issues.ListByProject(c.Request.Context(), projectID)
	if err != nil {
		h.logger.Error("ListIssues failed",
			zap.Int("project_id", projectID),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list issues"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"issues": issues})
}

// GetIssue handles GET /issues/:id.
func (h *IssueHandler) GetIssue(c *gin.Context) {
	issueID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid issue id"})
		return
	}

	issue, err := h.issues.Get(c.Request.Context(), issueID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "issue not found"})
		return
	}

	c.JSON(http.StatusOK, issue)
}

// UpdateIssue handles PUT /issues/:id.
func (h *IssueHandler) UpdateIssue(c *gin.Context) {
	issueID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid issue id"})
		return
	}

	var req issueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	in, err := req.toInput()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	issue, err := h.issues.Update(c.Request.Context(), issueID, authctx.UserID(c), in)
	if err != nil {
		if errors.Is(err, service.ErrIssueNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "issue not found"})
			return
		}
		h.logger.Error("UpdateIssue failed",
			zap.Int("issue_id", issueID),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update issue"})
		return
	}

	c.JSON(http.StatusOK, issue)
}

// DuplicateIssue handles POST /issues/:id/duplicate.
func (h *IssueHandler) DuplicateIssue(c *gin.Context) {
	issueID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid issue id"})
		return
	}

	issue, err := h.issues.Duplicate(c.Request.Context(), issueID, authctx.UserID(c))
	if err != nil {
		if errors.Is(err, service.ErrIssueNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "issue not found"})
			return
		}
		h.logger.Error("DuplicateIssue failed",
			zap.Int("issue_id", issueID),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to duplicate issue"})
		return
	}

	c.JSON(http.StatusCreated, issue)
}

// DeleteIssue handles DELETE /issues/:id.
func (h *IssueHandler) DeleteIssue(c *gin.Context) {
	issueID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid issue id"})
		return
	}

	if err := h.issues.Delete(c.Request.Context(), issueID, authctx.UserID(c)); err != nil {
		if errors.Is(err, service.ErrIssueNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "issue not found"})
			return
		}
		h.logger.Error("DeleteIssue failed",
			zap.Int("issue_id", issueID),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete issue"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

type subtaskRequest struct {
	Title        string `json:"title" binding:"required"`
	Remark       string `json:"remark"`
	Status       string `json:"status" binding:"required"`
	StartDate    string `json:"start_date"`
	DueDate      string `json:"due_date"`
	CompleteDate string `json:"complete_date"`
}

func (r *subtaskRequest) toInput() (service.SubtaskInput, error) {
	if !model.IsValidStatus(r.Status) {
		return service.SubtaskInput{}, errors.New("invalid status")
	}

	start, err := parseDate(r.StartDate)
	if err != nil {
		return service.SubtaskInput{}, err
	}
	due, err := parseDate(r.DueDate)
	if err != nil {
		return service.SubtaskInput{}, err
	}
	complete, err := parseDate(r.CompleteDate)
	if err != nil {
		return service.SubtaskInput{}, err
	}

	return service.SubtaskInput{
		Title:        r.Title,
		Remark:       r.Remark,
		Status:       r.Status,
		StartDate:    start,
		DueDate:      due,
		CompleteDate: complete,
	}, nil
}

// CreateSubtask handles POST /issues/:id/subtasks.
func (h *IssueHandler) CreateSubtask(c *gin.Context) {
	issueID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid issue id"})
		return
	}

	var req subtaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	in, err := req.toInput()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	subtask, err := h.subtasks.Create(c.Request.Context(), issueID, in)
	if err != nil {
		if errors.Is(err, service.ErrIssueNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "issue not found"})
			return
		}
		h.logger.Error("CreateSubtask failed",
			zap.Int("issue_id", issueID),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create subtask"})
		return
	}

	c.JSON(http.StatusCreated, subtask)
}

// ListSubtasks handles GET /issues/:id/subtasks.
func (h *IssueHandler) ListSubtasks(c *gin.Context) {
	issueID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid issue id"})
		return
	}

	subtasks, err := h.subtasks.ListByIssue(c.Request.Context(), issueID)
	if err != nil {
		h.logger.Error("ListSubtasks failed",
			zap.Int("issue_id", issueID),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list subtasks"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"subtasks": subtasks})
}

// UpdateSubtask handles PUT /subtasks/:id.
func (h *IssueHandler) UpdateSubtask(c *gin.Context) {
	subtaskID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid subtask id"})
		return
	}

	var req subtaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	in, err := req.toInput()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	subtask, err := h.subtasks.Update(c.Request.Context(), subtaskID, in)
	if err != nil {
		if errors.Is(err, service.ErrSubtaskNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "subtask not found"})
			return
		}
		h.logger.Error("UpdateSubtask failed",
			zap.Int("subtask_id", subtaskID),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update subtask"})
		return
	}

	c.JSON(http.StatusOK, subtask)
}

// DeleteSubtask handles DELETE /subtasks/:id.
func (h *IssueHandler) DeleteSubtask(c *gin.Context) {
	subtaskID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid subtask id"})
		return
	}

	if err := h.subtasks.Delete(c.Request.Context(), subtaskID); err != nil {
		if errors.Is(err, service.ErrSubtaskNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "subtask not found"})
			return
		}
		h.logger.Error("DeleteSubtask failed",
			zap.Int("subtask_id", subtaskID),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete subtask"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}
