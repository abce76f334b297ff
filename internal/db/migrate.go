package db

import (
	"fmt"

	"github.com/brightfold/landing-api/internal/models"
	"gorm.io/gorm"
)

// Migrate creates or updates the schema for every landing table.
func Migrate(conn *gorm.DB) error {
	if conn == nil {
		return fmt.Errorf("db: nil connection")
	}
	return conn.AutoMigrate(
		&models.Admin{},
		&models.ContentSection{},
		&models.LandingImage{},
		&models.Session{},
	)
}
