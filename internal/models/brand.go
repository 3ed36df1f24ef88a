package models

import "time"

// Brand is a manufacturer, like "Douwe Egberts" or "Albert Heijn".
type Brand struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"size:255;not null;index"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// BrandEAN binds a 7 digit EAN prefix to a brand.
// The digits-only part of the label check lives in the goose migration.
type BrandEAN struct {
	ID        uint   `gorm:"primaryKey"`
	Label     string `gorm:"size:7;not null;uniqueIndex;check:chk_brand_eans_label,length(label) = 7"`
	BrandID   uint   `gorm:"not null;index"`
	Brand     Brand  `gorm:"constraint:OnDelete:CASCADE"`
	CreatedAt time.Time
}

func (BrandEAN) TableName() string { return "brand_eans" }
