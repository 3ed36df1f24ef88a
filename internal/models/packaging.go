package models

import (
	"fmt"
	"time"
)

// MaxPackagingCount matches the SMALLINT column.
const MaxPackagingCount = 32767

// Packaging is one physical wrapper of a product (single, six-pack, ...),
// identified by its own EAN.
type Packaging struct {
	ID          uint    `gorm:"primaryKey"`
	Label       string  `gorm:"size:13;not null;uniqueIndex"`
	Count       int     `gorm:"type:smallint;not null;default:1;check:chk_packagings_count,count >= 1"`
	Description *string `gorm:"size:255"`
	ProductID   uint    `gorm:"not null;index"`
	Product     Product `gorm:"constraint:OnDelete:CASCADE"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (p Packaging) String() string {
	s := fmt.Sprintf("Packaging for %dx %s", p.Count, p.Product.DisplayName())
	if p.Description != nil && *p.Description != "" {
		s += " (" + *p.Description + ")"
	}
	return s
}
