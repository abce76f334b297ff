package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/brightfold/landing-api/internal/http/api/respond"
	"github.com/brightfold/landing-api/internal/models"
	"github.com/brightfold/landing-api/internal/storage"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ImageHandler manages image uploads and their database records.
type ImageHandler struct {
	db       *gorm.DB
	store    *storage.LocalStore
	maxBatch int
}

// NewImageHandler constructs an ImageHandler.
func NewImageHandler(db *gorm.DB, store *storage.LocalStore, maxBatch int) *ImageHandler {
	if maxBatch <= 0 {
		maxBatch = 10
	}
	return &ImageHandler{db: db, store: store, maxBatch: maxBatch}
}

// imageResponse shapes one image record for admin views.
func imageResponse(row models.LandingImage) gin.H {
	return gin.H{
		"id":          row.ID,
		"section_key": row.SectionKey,
		"image_url":   row.ImageURL,
		"alt_text":    row.AltText,
		"meta":        row.Meta,
		"created_at":  row.CreatedAt,
	}
}

// uploadMeta captures what the client submitted, stored alongside the row.
func uploadMeta(header *multipart.FileHeader) datatypes.JSON {
	meta, errMarshal := json.Marshal(map[string]any{
		"original_name": header.Filename,
		"size":          header.Size,
		"content_type":  header.Header.Get("Content-Type"),
	})
	if errMarshal != nil {
		return nil
	}
	return datatypes.JSON(meta)
}

// Upload accepts either one file under "image" or a batch under "images".
// Every file is validated before anything is written; a failing file
// rejects the whole request. The response shape mirrors the input shape.
func (h *ImageHandler) Upload(c *gin.Context) {
	sectionKey := strings.TrimSpace(c.PostForm("section_key"))
	if sectionKey == "" {
		respond.Error(c, http.StatusBadRequest, "Section key is required")
		return
	}
	altText := strings.TrimSpace(c.PostForm("alt_text"))

	form, errForm := c.MultipartForm()
	if errForm != nil {
		respond.Error(c, http.StatusBadRequest, "No image file provided")
		return
	}

	var (
		files  []*multipart.FileHeader
		single bool
	)
	switch {
	case len(form.File["image"]) > 0:
		files = form.File["image"][:1]
		single = true
	case len(form.File["images"]) > 0:
		files = form.File["images"]
		if len(files) > h.maxBatch {
			respond.Error(c, http.StatusBadRequest, fmt.Sprintf("A maximum of %d images can be uploaded at once", h.maxBatch))
			return
		}
	default:
		respond.Error(c, http.StatusBadRequest, "No image file provided")
		return
	}

	// Validate the whole submission before touching disk.
	for _, header := range files {
		if errValidate := h.store.Validate(header); errValidate != nil {
			var vErr *storage.ValidationError
			if errors.As(errValidate, &vErr) {
				respond.Error(c, http.StatusBadRequest, vErr.Reason)
				return
			}
			log.WithError(errValidate).Error("upload validation failed")
			respond.Error(c, http.StatusInternalServerError, "Internal server error")
			return
		}
	}

	created := make([]models.LandingImage, 0, len(files))
	for _, header := range files {
		url, errSave := h.store.Save(header)
		if errSave != nil {
			log.WithError(errSave).Error("upload save failed")
			h.rollbackUpload(c, created)
			respond.Error(c, http.StatusInternalServerError, "Internal server error")
			return
		}
		row := models.LandingImage{
			SectionKey: sectionKey,
			ImageURL:   url,
			AltText:    altText,
			Meta:       uploadMeta(header),
		}
		if errCreate := h.db.WithContext(c.Request.Context()).Create(&row).Error; errCreate != nil {
			log.WithError(errCreate).Error("upload record failed")
			_ = h.store.Remove(url)
			h.rollbackUpload(c, created)
			respond.Error(c, http.StatusInternalServerError, "Internal server error")
			return
		}
		created = append(created, row)
	}

	if single {
		respond.DataMessage(c, "Image uploaded successfully", imageResponse(created[0]))
		return
	}
	out := make([]gin.H, 0, len(created))
	for _, row := range created {
		out = append(out, imageResponse(row))
	}
	respond.DataMessage(c, "Images uploaded successfully", out)
}

// rollbackUpload undoes rows and files already persisted by a batch that
// failed midway, so a partial batch never survives.
func (h *ImageHandler) rollbackUpload(c *gin.Context, created []models.LandingImage) {
	for _, row := range created {
		if errDelete := h.db.WithContext(c.Request.Context()).Delete(&models.LandingImage{}, row.ID).Error; errDelete != nil {
			log.WithError(errDelete).Warn("upload rollback: row delete failed")
		}
		if errRemove := h.store.Remove(row.ImageURL); errRemove != nil {
			log.WithError(errRemove).Warn("upload rollback: file remove failed")
		}
	}
}

// List returns every image across all sections, most recent first.
func (h *ImageHandler) List(c *gin.Context) {
	var rows []models.LandingImage
	if errFind := h.db.WithContext(c.Request.Context()).
		Order("created_at DESC, id DESC").
		Find(&rows).Error; errFind != nil {
		log.WithError(errFind).Error("list images failed")
		respond.Error(c, http.StatusInternalServerError, "Internal server error")
		return
	}

	out := make([]gin.H, 0, len(rows))
	for _, row := range rows {
		out = append(out, imageResponse(row))
	}
	respond.Data(c, out)
}

// Delete removes an image row and then its backing file. The row goes
// first; a file already gone from disk is not an error.
func (h *ImageHandler) Delete(c *gin.Context) {
	id, errParse := strconv.ParseUint(strings.TrimSpace(c.Param("id")), 10, 64)
	if errParse != nil {
		respond.Error(c, http.StatusBadRequest, "Invalid image id")
		return
	}

	var row models.LandingImage
	if errFind := h.db.WithContext(c.Request.Context()).First(&row, id).Error; errFind != nil {
		if errors.Is(errFind, gorm.ErrRecordNotFound) {
			respond.Error(c, http.StatusNotFound, "Image not found")
			return
		}
		log.WithError(errFind).Error("image lookup failed")
		respond.Error(c, http.StatusInternalServerError, "Internal server error")
		return
	}

	if errDelete := h.db.WithContext(c.Request.Context()).Delete(&models.LandingImage{}, id).Error; errDelete != nil {
		log.WithError(errDelete).Error("image delete failed")
		respond.Error(c, http.StatusInternalServerError, "Internal server error")
		return
	}

	if errRemove := h.store.Remove(row.ImageURL); errRemove != nil {
		log.WithError(errRemove).Warn("image file remove failed")
	}
	respond.Message(c, "Image deleted successfully")
}
