package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"backoffice/internal/httpserver/authctx"
	"backoffice/internal/model"
	"backoffice/internal/repository"
)

// DocumentHandler manages document metadata. The byte transfer happens against
// object storage directly; this API registers and lists what was stored.
type DocumentHandler struct {
	documents *repository.DocumentRepository
	bucket    string
	logger    *zap.Logger
}

func NewDocumentHandler(documents *repository.DocumentRepository, bucket string, logger *zap.Logger) *DocumentHandler {
	return &DocumentHandler{
		documents: documents,
		bucket:    bucket,
		logger:    logger,
	}
}

type registerDocumentRequest struct {
	Filename    string `json:"filename" binding:"required"`
	ContentType string `json:"content_type" binding:"required"`
	SizeBytes   int64  `json:"size_bytes" binding:"required,min=1"`
}

// RegisterDocument handles POST /projects/:id/documents.
func (h *DocumentHandler) RegisterDocument(c *gin.Context) {
	projectID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid project id"})
		return
	}

	var req registerDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	doc := &model.Document{
		ProjectID:   projectID,
		Filename:    req.Filename,
		ObjectKey:   fmt.Sprintf("%s/projects/%d/%s", h.bucket, projectID, req.Filename),
		ContentType: req.ContentType,
		SizeBytes:   req.SizeBytes,
		UploadedBy:  authctx.UserID(c),
	}

	id, err := h.documents.Insert(c.Request.Context(), doc)
	if err != nil {
		h.logger.Error("RegisterDocument failed",
			zap.Int("project_id", projectID),
			zap.String("filename", req.Filename),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to register document"})
		return
	}
	doc.ID = id

	c.JSON(http.StatusCreated, doc)
}

// ListDocuments handles GET /projects/:id/documents.
func (h *DocumentHandler) ListDocuments(c *gin.Context) {
	projectID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid project id"})
		return
	}

	docs, err := h.documents.ListByProject(c.Request.Context(), projectID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list documents"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"documents": docs})
}

// DeleteDocument handles DELETE /documents/:id.
func (h *DocumentHandler) DeleteDocument(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid document id"})
		return
	}

	if err := h.documents.Delete(c.Request.Context(), id); err != nil {
		h.logger.Error("DeleteDocument failed",
			zap.Int("document_id", id),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete document"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}
