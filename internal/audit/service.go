package audit

import (
	"encoding/json"
	"fmt"

	"stockscan-backend/internal/models"

	"gorm.io/gorm"
)

const (
	EntityBrand          = "brand"
	EntityBrandEAN       = "brand_ean"
	EntityGenericProduct = "generic_product"
	EntityProduct        = "product"
	EntityPackaging      = "packaging"
)

type LogOptions struct {
	EntityType  string
	EntityID    uint
	Action      models.AuditAction
	Description string
	Before      any
	After       any
}

// WriteLog stores an audit entry through tx so it commits or rolls back
// together with the change it describes.
func WriteLog(tx *gorm.DB, opts LogOptions) error {
	// jsonb wants "null", not an empty string
	beforeStr := "null"
	afterStr := "null"

	if opts.Before != nil {
		if b, err := json.Marshal(opts.Before); err == nil {
			beforeStr = string(b)
		}
	}
	if opts.After != nil {
		if b, err := json.Marshal(opts.After); err == nil {
			afterStr = string(b)
		}
	}

	entry := models.AuditLog{
		EntityType:  opts.EntityType,
		EntityID:    opts.EntityID,
		Action:      opts.Action,
		Description: truncate(opts.Description, 255),
		BeforeData:  beforeStr,
		AfterData:   afterStr,
	}

	if err := tx.Create(&entry).Error; err != nil {
		return fmt.Errorf("audit log could not be saved: %w", err)
	}
	return nil
}

type Filter struct {
	EntityType string
	EntityID   uint
	Limit      int
}

// List returns the newest entries first.
func List(db *gorm.DB, f Filter) ([]models.AuditLog, error) {
	dbq := db.Model(&models.AuditLog{})
	if f.EntityType != "" {
		dbq = dbq.Where("entity_type = ?", f.EntityType)
	}
	if f.EntityID > 0 {
		dbq = dbq.Where("entity_id = ?", f.EntityID)
	}
	if f.Limit <= 0 || f.Limit > 500 {
		f.Limit = 100
	}

	var logs []models.AuditLog
	err := dbq.Order("created_at DESC, id DESC").Limit(f.Limit).Find(&logs).Error
	return logs, err
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
