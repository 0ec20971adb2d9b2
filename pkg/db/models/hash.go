package models

// ModHash records the fingerprint of one package file of a mod
type ModHash struct {
	ID    uint   `gorm:"primaryKey"`
	ModID uint   `gorm:"not null;uniqueIndex:idx_mod_file"`
	File  string `gorm:"type:text;not null;uniqueIndex:idx_mod_file"`
	// Not unique: equal fingerprints across mods are reported as collisions.
	Hash string `gorm:"type:text;not null;index:idx_hash"`

	// Relationships
	Mod Mod `gorm:"foreignKey:ModID;references:ID"`
}
