package models

import "time"

// Mod represents a mod directory tracked in the inventory
type Mod struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"type:text;not null;uniqueIndex"`
	Directory string `gorm:"type:text;not null;uniqueIndex"` // Relative to the mod root
	SourceURL string `gorm:"type:text;not null"`
	Version   string `gorm:"type:text;not null"` // Opaque, never compared for ordering

	CreatedAt time.Time
	UpdatedAt time.Time

	// Relationships
	Hashes []ModHash `gorm:"foreignKey:ModID;constraint:OnDelete:CASCADE"`
}
