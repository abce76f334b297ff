package handlers

import (
	"net/http"

	"github.com/brightfold/landing-api/internal/http/api/respond"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// HealthHandler serves the health check endpoint.
type HealthHandler struct {
	db *gorm.DB
}

// NewHealthHandler constructs a HealthHandler.
func NewHealthHandler(db *gorm.DB) *HealthHandler {
	return &HealthHandler{db: db}
}

// Health checks database connectivity and reports service status.
func (h *HealthHandler) Health(c *gin.Context) {
	sqlDB, err := h.db.DB()
	if err != nil {
		respond.Error(c, http.StatusServiceUnavailable, "Database unavailable")
		return
	}
	if errPing := sqlDB.PingContext(c.Request.Context()); errPing != nil {
		respond.Error(c, http.StatusServiceUnavailable, "Database unavailable")
		return
	}
	respond.Message(c, "ok")
}
