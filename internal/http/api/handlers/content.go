package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/brightfold/landing-api/internal/http/api/respond"
	"github.com/brightfold/landing-api/internal/models"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// ContentHandler manages content sections for the admin dashboard.
type ContentHandler struct {
	db *gorm.DB
}

// NewContentHandler constructs a ContentHandler.
func NewContentHandler(db *gorm.DB) *ContentHandler {
	return &ContentHandler{db: db}
}

// contentResponse shapes one content section record.
func contentResponse(row models.ContentSection) gin.H {
	return gin.H{
		"id":          row.ID,
		"section_key": row.SectionKey,
		"content":     row.Content,
		"created_at":  row.CreatedAt,
		"updated_at":  row.UpdatedAt,
	}
}

// List returns every content section with full records, sorted by key.
func (h *ContentHandler) List(c *gin.Context) {
	var rows []models.ContentSection
	if errFind := h.db.WithContext(c.Request.Context()).Order("section_key ASC").Find(&rows).Error; errFind != nil {
		log.WithError(errFind).Error("list content failed")
		respond.Error(c, http.StatusInternalServerError, "Internal server error")
		return
	}

	out := make([]gin.H, 0, len(rows))
	for _, row := range rows {
		out = append(out, contentResponse(row))
	}
	respond.Data(c, out)
}

// createContentRequest defines the request body for content creation.
type createContentRequest struct {
	SectionKey string `json:"section_key"`
	Content    string `json:"content"`
}

// isDuplicateKeyErr reports whether a write failed on a unique constraint.
func isDuplicateKeyErr(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique") || strings.Contains(msg, "duplicate")
}

// Create inserts a new content section. Section keys are unique; creating
// an existing key is a conflict and leaves the existing row untouched.
func (h *ContentHandler) Create(c *gin.Context) {
	var body createContentRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		respond.Error(c, http.StatusBadRequest, "Section key and content are required")
		return
	}
	sectionKey := strings.TrimSpace(body.SectionKey)
	content := strings.TrimSpace(body.Content)
	if sectionKey == "" || content == "" {
		respond.Error(c, http.StatusBadRequest, "Section key and content are required")
		return
	}

	var count int64
	if errCount := h.db.WithContext(c.Request.Context()).Model(&models.ContentSection{}).
		Where("section_key = ?", sectionKey).Count(&count).Error; errCount != nil {
		log.WithError(errCount).Error("content key check failed")
		respond.Error(c, http.StatusInternalServerError, "Internal server error")
		return
	}
	if count > 0 {
		respond.Error(c, http.StatusBadRequest, "Section key already exists")
		return
	}

	row := models.ContentSection{SectionKey: sectionKey, Content: content}
	if errCreate := h.db.WithContext(c.Request.Context()).Create(&row).Error; errCreate != nil {
		if isDuplicateKeyErr(errCreate) {
			respond.Error(c, http.StatusBadRequest, "Section key already exists")
			return
		}
		log.WithError(errCreate).Error("create content failed")
		respond.Error(c, http.StatusInternalServerError, "Internal server error")
		return
	}

	respond.DataMessage(c, "Content created successfully", contentResponse(row))
}

// updateContentRequest defines the request body for content updates.
type updateContentRequest struct {
	Content string `json:"content"`
}

// Update rewrites the content of an existing section by id. The section key
// is immutable through this operation.
func (h *ContentHandler) Update(c *gin.Context) {
	id, errParse := strconv.ParseUint(strings.TrimSpace(c.Param("id")), 10, 64)
	if errParse != nil {
		respond.Error(c, http.StatusBadRequest, "Invalid content id")
		return
	}

	var body updateContentRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		respond.Error(c, http.StatusBadRequest, "Content is required")
		return
	}
	content := strings.TrimSpace(body.Content)
	if content == "" {
		respond.Error(c, http.StatusBadRequest, "Content is required")
		return
	}

	res := h.db.WithContext(c.Request.Context()).Model(&models.ContentSection{}).
		Where("id = ?", id).
		Updates(map[string]any{"content": content, "updated_at": time.Now().UTC()})
	if res.Error != nil {
		log.WithError(res.Error).Error("update content failed")
		respond.Error(c, http.StatusInternalServerError, "Internal server error")
		return
	}
	if res.RowsAffected == 0 {
		respond.Error(c, http.StatusNotFound, "Content not found")
		return
	}

	var row models.ContentSection
	if errFind := h.db.WithContext(c.Request.Context()).First(&row, id).Error; errFind != nil {
		log.WithError(errFind).Error("reload content failed")
		respond.Error(c, http.StatusInternalServerError, "Internal server error")
		return
	}
	respond.DataMessage(c, "Content updated successfully", contentResponse(row))
}
