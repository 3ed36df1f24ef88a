package models

import "time"

// GenericProduct is a brand independent classification, e.g. "coffee beans".
type GenericProduct struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"size:255;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
