package models

import (
	"time"

	"gorm.io/datatypes"
)

// LandingImage represents an uploaded image attached to a landing-page
// section. Section keys are not unique: a section may carry many images.
type LandingImage struct {
	ID uint64 `gorm:"primaryKey;autoIncrement"` // Primary key.

	SectionKey string `gorm:"type:text;not null;index"` // Section the image belongs to.
	ImageURL   string `gorm:"type:text;not null"`       // Public relative path to the stored file.
	AltText    string `gorm:"type:text"`                // Optional alternative text, empty allowed.

	Meta datatypes.JSON `gorm:"type:jsonb"` // Upload metadata: original name, size, content type.

	CreatedAt time.Time `gorm:"not null;autoCreateTime"` // Upload timestamp.
}

// TableName pins the legacy table name used by the landing database.
func (LandingImage) TableName() string { return "landing_images" }
