package handlers

import (
	"net/http"
	"strconv"
	"strings"

	dbutil "github.com/brightfold/landing-api/internal/db"
	"github.com/brightfold/landing-api/internal/http/api/respond"
	"github.com/brightfold/landing-api/internal/models"
	"github.com/brightfold/landing-api/internal/security"
	"github.com/brightfold/landing-api/internal/session"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// AdminHandler manages admin account endpoints.
type AdminHandler struct {
	db       *gorm.DB
	sessions *session.Store
}

// NewAdminHandler constructs an AdminHandler.
func NewAdminHandler(db *gorm.DB, sessions *session.Store) *AdminHandler {
	return &AdminHandler{db: db, sessions: sessions}
}

// adminResponse shapes one admin record, never echoing the password.
func adminResponse(row models.Admin) gin.H {
	return gin.H{
		"id":         row.ID,
		"username":   row.Username,
		"created_at": row.CreatedAt,
	}
}

// createAdminRequest defines the request body for admin creation.
type createAdminRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Create creates a new admin account. The caller is already authenticated
// by the session gate.
func (h *AdminHandler) Create(c *gin.Context) {
	var body createAdminRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		respond.Error(c, http.StatusBadRequest, "Username and password are required")
		return
	}
	username := strings.TrimSpace(body.Username)
	password := strings.TrimSpace(body.Password)
	if len(username) < 3 || len(password) < 3 {
		respond.Error(c, http.StatusBadRequest, "Username and password must be at least 3 characters")
		return
	}

	var count int64
	if errCount := h.db.WithContext(c.Request.Context()).Model(&models.Admin{}).
		Where("username = ?", username).Count(&count).Error; errCount != nil {
		log.WithError(errCount).Error("admin username check failed")
		respond.Error(c, http.StatusInternalServerError, "Internal server error")
		return
	}
	if count > 0 {
		respond.Error(c, http.StatusBadRequest, "Username already exists")
		return
	}

	hash, errHash := security.HashPassword(password)
	if errHash != nil {
		log.WithError(errHash).Error("hash password failed")
		respond.Error(c, http.StatusInternalServerError, "Internal server error")
		return
	}

	admin := models.Admin{Username: username, Password: hash}
	if errCreate := h.db.WithContext(c.Request.Context()).Create(&admin).Error; errCreate != nil {
		if isDuplicateKeyErr(errCreate) {
			respond.Error(c, http.StatusBadRequest, "Username already exists")
			return
		}
		log.WithError(errCreate).Error("create admin failed")
		respond.Error(c, http.StatusInternalServerError, "Internal server error")
		return
	}

	respond.DataMessage(c, "Admin created successfully", adminResponse(admin))
}

// List returns all admin accounts, most recently created first. An optional
// username query narrows the result with a case-insensitive match.
func (h *AdminHandler) List(c *gin.Context) {
	q := h.db.WithContext(c.Request.Context()).Model(&models.Admin{})
	if usernameQ := strings.TrimSpace(c.Query("username")); usernameQ != "" {
		pattern := dbutil.NormalizeLikePattern(h.db, "%"+usernameQ+"%")
		q = q.Where(dbutil.CaseInsensitiveLikeExpr(h.db, "username"), pattern)
	}

	var rows []models.Admin
	if errFind := q.Order("created_at DESC, id DESC").Find(&rows).Error; errFind != nil {
		log.WithError(errFind).Error("list admins failed")
		respond.Error(c, http.StatusInternalServerError, "Internal server error")
		return
	}

	out := make([]gin.H, 0, len(rows))
	for _, row := range rows {
		out = append(out, adminResponse(row))
	}
	respond.Data(c, out)
}

// Delete removes an admin account. An admin may not delete their own
// account; any live sessions of the deleted admin are destroyed.
func (h *AdminHandler) Delete(c *gin.Context) {
	id, errParse := strconv.ParseUint(strings.TrimSpace(c.Param("id")), 10, 64)
	if errParse != nil {
		respond.Error(c, http.StatusBadRequest, "Invalid admin id")
		return
	}

	callerID, ok := currentAdminID(c)
	if ok && callerID == id {
		respond.Error(c, http.StatusBadRequest, "You cannot delete your own account")
		return
	}

	res := h.db.WithContext(c.Request.Context()).Delete(&models.Admin{}, id)
	if res.Error != nil {
		log.WithError(res.Error).Error("delete admin failed")
		respond.Error(c, http.StatusInternalServerError, "Internal server error")
		return
	}
	if res.RowsAffected == 0 {
		respond.Error(c, http.StatusNotFound, "Admin not found")
		return
	}

	if errSessions := h.sessions.DeleteForAdmin(c.Request.Context(), id); errSessions != nil {
		log.WithError(errSessions).Warn("delete admin sessions failed")
	}
	respond.Message(c, "Admin deleted successfully")
}
