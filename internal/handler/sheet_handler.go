package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"backoffice/internal/model"
	"backoffice/internal/repository"
)

// SheetHandler covers service sheets, change requests and meeting notes.
type SheetHandler struct {
	sheets *repository.SheetRepository
	logger *zap.Logger
}

func NewSheetHandler(sheets *repository.SheetRepository, logger *zap.Logger) *SheetHandler {
	return &SheetHandler{sheets: sheets, logger: logger}
}

func projectIDParam(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid project id"})
		return 0, false
	}
	return id, true
}

func requireDate(c *gin.Context, raw string) (time.Time, bool) {
	d, err := parseDate(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return time.Time{}, false
	}
	if d == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date is required"})
		return time.Time{}, false
	}
	return *d, true
}

type serviceSheetRequest struct {
	ServiceDate string `json:"service_date" binding:"required"`
	Engineer    string `json:"engineer" binding:"required"`
	WorkSummary string `json:"work_summary" binding:"required"`
	ClientName  string `json:"client_name"`
}

// CreateServiceSheet handles POST /projects/:id/sheets.
func (h *SheetHandler) CreateServiceSheet(c *gin.Context) {
	projectID, ok := projectIDParam(c)
	if !ok {
		return
	}

	var req serviceSheetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	serviceDate, ok := requireDate(c, req.ServiceDate)
	if !ok {
		return
	}

	sheet := &model.ServiceSheet{
		ProjectID:   projectID,
		ServiceDate: serviceDate,
		Engineer:    req.Engineer,
		WorkSummary: req.WorkSummary,
		ClientName:  req.ClientName,
	}
	id, err := h.sheets.InsertServiceSheet(c.Request.Context(), sheet)
	if err != nil {
		h.logger.Error("CreateServiceSheet failed",
			zap.Int("project_id", projectID),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create service sheet"})
		return
	}
	sheet.ID = id

	c.JSON(http.StatusCreated, sheet)
}

// ListServiceSheets handles GET /projects/:id/sheets.
func (h *SheetHandler) ListServiceSheets(c *gin.Context) {
	projectID, ok := projectIDParam(c)
	if !ok {
		return
	}

	sheets, err := h.sheets.ListServiceSheets(c.Request.Context(), projectID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list service sheets"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"sheets": sheets})
}

type changeRequestRequest struct {
	RequestedBy string `json:"requested_by" binding:"required"`
	RequestDate string `json:"request_date" binding:"required"`
	Detail      string `json:"detail" binding:"required"`
}

// CreateChangeRequest handles POST /projects/:id/change-requests.
func (h *SheetHandler) CreateChangeRequest(c *gin.Context) {
	projectID, ok := projectIDParam(c)
	if !ok {
		return
	}

	var req changeRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	requestDate, ok := requireDate(c, req.RequestDate)
	if !ok {
		return
	}

	cr := &model.ChangeRequest{
		ProjectID:   projectID,
		RequestedBy: req.RequestedBy,
		RequestDate: requestDate,
		Detail:      req.Detail,
		Status:      model.ChangeRequestPending,
	}
	id, err := h.sheets.InsertChangeRequest(c.Request.Context(), cr)
	if err != nil {
		h.logger.Error("CreateChangeRequest failed",
			zap.Int("project_id", projectID),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create change request"})
		return
	}
	cr.ID = id

	c.JSON(http.StatusCreated, cr)
}

// ListChangeRequests handles GET /projects/:id/change-requests.
func (h *SheetHandler) ListChangeRequests(c *gin.Context) {
	projectID, ok := projectIDParam(c)
	if !ok {
		return
	}

	requests, err := h.sheets.ListChangeRequests(c.Request.Context(), projectID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list change requests"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"change_requests": requests})
}

type changeRequestStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=pending approved rejected"`
}

// UpdateChangeRequestStatus handles POST /change-requests/:id/status.
func (h *SheetHandler) UpdateChangeRequestStatus(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid change request id"})
		return
	}

	var req changeRequestStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.sheets.UpdateChangeRequestStatus(c.Request.Context(), id, req.Status); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update change request"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": req.Status})
}

type meetingNoteRequest struct {
	MeetingDate string `json:"meeting_date" binding:"required"`
	Attendees   string `json:"attendees" binding:"required"`
	Notes       string `json:"notes" binding:"required"`
}

// CreateMeetingNote handles POST /projects/:id/meetings.
func (h *SheetHandler) CreateMeetingNote(c *gin.Context) {
	projectID, ok := projectIDParam(c)
	if !ok {
		return
	}

	var req meetingNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	meetingDate, ok := requireDate(c, req.MeetingDate)
	if !ok {
		return
	}

	note := &model.MeetingNote{
		ProjectID:   projectID,
		MeetingDate: meetingDate,
		Attendees:   req.Attendees,
		Notes:       req.Notes,
	}
	id, err := h.sheets.InsertMeetingNote(c.Request.Context(), note)
	if err != nil {
		h.logger.Error("CreateMeetingNote failed",
			zap.Int("project_id", projectID),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create meeting note"})
		return
	}
	note.ID = id

	c.JSON(http.StatusCreated, note)
}

// ListMeetingNotes handles GET /projects/:id/meetings.
func (h *SheetHandler) ListMeetingNotes(c *gin.Context) {
	projectID, ok := projectIDParam(c)
	if !ok {
		return
	}

	notes, err := h.sheets.ListMeetingNotes(c.Request.Context(), projectID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list meeting notes"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"meetings": notes})
}
