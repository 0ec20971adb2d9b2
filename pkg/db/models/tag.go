package models

// Tag represents a label that can be attached to many mods
type Tag struct {
	ID   uint   `gorm:"primaryKey"`
	Name string `gorm:"column:tag;type:text;not null;uniqueIndex"`
}

// ModTag is the join table between mods and tags
type ModTag struct {
	ModID uint `gorm:"primaryKey;autoIncrement:false"`
	TagID uint `gorm:"primaryKey;autoIncrement:false;index"`

	// Relationships
	Mod Mod `gorm:"foreignKey:ModID;references:ID;constraint:OnDelete:CASCADE"`
	Tag Tag `gorm:"foreignKey:TagID;references:ID;constraint:OnDelete:CASCADE"`
}

// TagWithMods groups a tag with the mods linked to it
type TagWithMods struct {
	Tag  Tag
	Mods []Mod
}
