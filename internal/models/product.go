package models

import "time"

// Product is a concrete sellable item with a running stock count.
// Count is only changed through the stock adjuster.
type Product struct {
	ID               uint            `gorm:"primaryKey"`
	BrandID          uint            `gorm:"not null;index"`
	Brand            Brand           `gorm:"constraint:OnDelete:RESTRICT"`
	Name             string          `gorm:"size:255;not null"`
	Description      *string         `gorm:"type:text"`
	GenericProductID *uint           `gorm:"index"`
	GenericProduct   *GenericProduct `gorm:"constraint:OnDelete:RESTRICT"`
	Count            int             `gorm:"not null;default:0;check:chk_products_count,count >= 0"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func (p Product) DisplayName() string {
	if p.Brand.Name == "" {
		return p.Name
	}
	return p.Brand.Name + " " + p.Name
}
