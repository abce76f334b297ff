package handlers

import (
	"net/http"

	"github.com/brightfold/landing-api/internal/http/api/respond"
	"github.com/brightfold/landing-api/internal/models"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// DashboardHandler serves aggregate statistics for the admin dashboard.
type DashboardHandler struct {
	db *gorm.DB
}

// NewDashboardHandler constructs a DashboardHandler.
func NewDashboardHandler(db *gorm.DB) *DashboardHandler {
	return &DashboardHandler{db: db}
}

// Stats returns live counts from the store. lastLogin is the current
// session's username, not a historical log.
func (h *DashboardHandler) Stats(c *gin.Context) {
	var totalAdmins int64
	if errCount := h.db.WithContext(c.Request.Context()).Model(&models.Admin{}).Count(&totalAdmins).Error; errCount != nil {
		log.WithError(errCount).Error("count admins failed")
		respond.Error(c, http.StatusInternalServerError, "Internal server error")
		return
	}

	var totalContentSections int64
	if errCount := h.db.WithContext(c.Request.Context()).Model(&models.ContentSection{}).Count(&totalContentSections).Error; errCount != nil {
		log.WithError(errCount).Error("count content sections failed")
		respond.Error(c, http.StatusInternalServerError, "Internal server error")
		return
	}

	username, _ := currentUsername(c)
	respond.Data(c, gin.H{
		"totalAdmins":          totalAdmins,
		"totalContentSections": totalContentSections,
		"lastLogin":            username,
	})
}
