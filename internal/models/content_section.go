package models

import "time"

// ContentSection represents one editable piece of landing-page text keyed by
// a stable section identifier such as "hero_title".
type ContentSection struct {
	ID uint64 `gorm:"primaryKey;autoIncrement"` // Primary key.

	SectionKey string `gorm:"type:text;not null;uniqueIndex"` // Stable section identifier, immutable after creation.
	Content    string `gorm:"type:text;not null"`             // Rendered text for the section.

	CreatedAt time.Time `gorm:"not null;autoCreateTime"` // Creation timestamp.
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime"` // Last update timestamp.
}

// TableName pins the legacy table name used by the landing database.
func (ContentSection) TableName() string { return "landing_content" }
