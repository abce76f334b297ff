package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/brightfold/landing-api/internal/http/api/respond"
	"github.com/brightfold/landing-api/internal/models"
	"github.com/brightfold/landing-api/internal/security"
	"github.com/brightfold/landing-api/internal/session"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// AuthHandler handles admin login, logout and identity lookup.
type AuthHandler struct {
	db       *gorm.DB
	sessions *session.Store
	cookie   CookieOptions
}

// NewAuthHandler constructs an AuthHandler.
func NewAuthHandler(db *gorm.DB, sessions *session.Store, cookie CookieOptions) *AuthHandler {
	return &AuthHandler{db: db, sessions: sessions, cookie: cookie}
}

// loginRequest defines the request body for admin login.
type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login authenticates an admin and establishes a session. The failure
// message never distinguishes an unknown username from a wrong password.
func (h *AuthHandler) Login(c *gin.Context) {
	var body loginRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		respond.Error(c, http.StatusBadRequest, "Username and password are required")
		return
	}

	username := strings.TrimSpace(body.Username)
	password := body.Password
	if username == "" || password == "" {
		respond.Error(c, http.StatusBadRequest, "Username and password are required")
		return
	}

	var admin models.Admin
	if errFind := h.db.WithContext(c.Request.Context()).Where("username = ?", username).First(&admin).Error; errFind != nil {
		if errors.Is(errFind, gorm.ErrRecordNotFound) {
			respond.Error(c, http.StatusUnauthorized, "Invalid username or password")
			return
		}
		log.WithError(errFind).Error("login lookup failed")
		respond.Error(c, http.StatusInternalServerError, "Internal server error")
		return
	}

	if !security.CheckPassword(admin.Password, password) {
		respond.Error(c, http.StatusUnauthorized, "Invalid username or password")
		return
	}

	record, errCreate := h.sessions.Create(c.Request.Context(), admin.ID, admin.Username)
	if errCreate != nil {
		log.WithError(errCreate).Error("session create failed")
		respond.Error(c, http.StatusInternalServerError, "Internal server error")
		return
	}

	setSessionCookie(c, h.cookie, record.Token)
	respond.User(c, "Login successful", gin.H{
		"id":       admin.ID,
		"username": admin.Username,
	})
}

// Logout destroys the current session and clears the cookie.
func (h *AuthHandler) Logout(c *gin.Context) {
	token, ok := currentToken(c)
	if ok {
		if errDelete := h.sessions.Delete(c.Request.Context(), token); errDelete != nil {
			log.WithError(errDelete).Error("session delete failed")
			respond.Error(c, http.StatusInternalServerError, "Logout failed")
			return
		}
	}
	clearSessionCookie(c, h.cookie)
	respond.Message(c, "Logout successful")
}

// Me returns the authenticated admin's public profile. The admin may have
// been deleted mid-session, which reads as not found.
func (h *AuthHandler) Me(c *gin.Context) {
	adminID, ok := currentAdminID(c)
	if !ok {
		respond.Error(c, http.StatusUnauthorized, "Not authenticated")
		return
	}

	var admin models.Admin
	if errFind := h.db.WithContext(c.Request.Context()).First(&admin, adminID).Error; errFind != nil {
		if errors.Is(errFind, gorm.ErrRecordNotFound) {
			respond.Error(c, http.StatusNotFound, "Admin not found")
			return
		}
		log.WithError(errFind).Error("me lookup failed")
		respond.Error(c, http.StatusInternalServerError, "Internal server error")
		return
	}

	respond.User(c, "", gin.H{
		"id":         admin.ID,
		"username":   admin.Username,
		"created_at": admin.CreatedAt,
	})
}
