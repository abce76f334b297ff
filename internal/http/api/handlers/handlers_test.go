package handlers

import (
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/brightfold/landing-api/internal/models"
	"github.com/brightfold/landing-api/internal/security"
	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

// envelope mirrors the API response contract for decoding in tests.
type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	User    json.RawMessage `json:"user"`
}

func decodeEnvelope(t *testing.T, body []byte) envelope {
	t.Helper()
	var env envelope
	if errDecode := json.Unmarshal(body, &env); errDecode != nil {
		t.Fatalf("decode envelope: %v", errDecode)
	}
	return env
}

func setupHandlersDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:handlers_%s_%d?mode=memory&cache=shared", t.Name(), time.Now().UnixNano())
	db, errOpen := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if errOpen != nil {
		t.Fatalf("open db: %v", errOpen)
	}
	if errMigrate := db.AutoMigrate(
		&models.Admin{},
		&models.ContentSection{},
		&models.LandingImage{},
		&models.Session{},
	); errMigrate != nil {
		t.Fatalf("migrate db: %v", errMigrate)
	}
	return db
}

func seedAdmin(t *testing.T, db *gorm.DB, username, password string) models.Admin {
	t.Helper()
	hash, errHash := security.HashPassword(password)
	if errHash != nil {
		t.Fatalf("hash password: %v", errHash)
	}
	admin := models.Admin{Username: username, Password: hash}
	if errCreate := db.Create(&admin).Error; errCreate != nil {
		t.Fatalf("seed admin: %v", errCreate)
	}
	return admin
}

// withIdentity injects a session identity the way the session gate does,
// so gated handlers can be exercised in isolation.
func withIdentity(adminID uint64, username, token string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("adminID", adminID)
		c.Set("adminUsername", username)
		c.Set("sessionToken", token)
		c.Next()
	}
}
