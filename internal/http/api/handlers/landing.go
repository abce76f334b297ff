package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/brightfold/landing-api/internal/http/api/respond"
	"github.com/brightfold/landing-api/internal/models"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// LandingHandler serves the unauthenticated landing-page content API.
type LandingHandler struct {
	db *gorm.DB
}

// NewLandingHandler constructs a LandingHandler.
func NewLandingHandler(db *gorm.DB) *LandingHandler {
	return &LandingHandler{db: db}
}

// ListContent returns every content section collapsed into a flat
// key/value mapping for direct frontend consumption.
func (h *LandingHandler) ListContent(c *gin.Context) {
	var rows []models.ContentSection
	if errFind := h.db.WithContext(c.Request.Context()).Find(&rows).Error; errFind != nil {
		log.WithError(errFind).Error("list landing content failed")
		respond.Error(c, http.StatusInternalServerError, "Internal server error")
		return
	}

	content := make(map[string]string, len(rows))
	for _, row := range rows {
		content[row.SectionKey] = row.Content
	}
	respond.Data(c, content)
}

// GetContent returns one content section by exact key match.
func (h *LandingHandler) GetContent(c *gin.Context) {
	key := strings.TrimSpace(c.Param("key"))

	var row models.ContentSection
	if errFind := h.db.WithContext(c.Request.Context()).Where("section_key = ?", key).First(&row).Error; errFind != nil {
		if errors.Is(errFind, gorm.ErrRecordNotFound) {
			respond.Error(c, http.StatusNotFound, "Content not found")
			return
		}
		log.WithError(errFind).Error("get landing content failed")
		respond.Error(c, http.StatusInternalServerError, "Internal server error")
		return
	}

	respond.Data(c, gin.H{
		"section_key": row.SectionKey,
		"content":     row.Content,
	})
}

// ListImages returns the images of one section, most recent first. A
// section with no images yields an empty list, never an error.
func (h *LandingHandler) ListImages(c *gin.Context) {
	sectionKey := strings.TrimSpace(c.Param("section_key"))

	var rows []models.LandingImage
	if errFind := h.db.WithContext(c.Request.Context()).
		Where("section_key = ?", sectionKey).
		Order("created_at DESC, id DESC").
		Find(&rows).Error; errFind != nil {
		log.WithError(errFind).Error("list landing images failed")
		respond.Error(c, http.StatusInternalServerError, "Internal server error")
		return
	}

	out := make([]gin.H, 0, len(rows))
	for _, row := range rows {
		out = append(out, gin.H{
			"id":          row.ID,
			"section_key": row.SectionKey,
			"image_url":   row.ImageURL,
			"alt_text":    row.AltText,
			"created_at":  row.CreatedAt,
		})
	}
	respond.Data(c, out)
}
