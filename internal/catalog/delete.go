package catalog

import (
	"context"
	"fmt"

	"stockscan-backend/internal/audit"
	"stockscan-backend/internal/models"

	"gorm.io/gorm"
)

// DeleteBrand removes a brand and its prefixes. Refused while products
// reference the brand.
func (s *Service) DeleteBrand(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var brand models.Brand
		if err := tx.First(&brand, "id = ?", id).Error; err != nil {
			return notFound(err)
		}

		var n int64
		if err := tx.Model(&models.Product{}).Where("brand_id = ?", id).Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return fmt.Errorf("%w: brand %q has %d products", ErrProtected, brand.Name, n)
		}

		if err := tx.Where("brand_id = ?", id).Delete(&models.BrandEAN{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&brand).Error; err != nil {
			return err
		}
		return audit.WriteLog(tx, audit.LogOptions{
			EntityType:  audit.EntityBrand,
			EntityID:    brand.ID,
			Action:      models.AuditActionDelete,
			Description: "brand " + brand.Name,
			Before:      map[string]any{"name": brand.Name},
		})
	})
}

// DeleteProduct removes a product together with its packagings.
func (s *Service) DeleteProduct(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		p, err := findProduct(tx, id)
		if err != nil {
			return err
		}

		res := tx.Where("product_id = ?", id).Delete(&models.Packaging{})
		if res.Error != nil {
			return res.Error
		}
		if err := tx.Delete(&models.Product{}, "id = ?", id).Error; err != nil {
			return err
		}
		return audit.WriteLog(tx, audit.LogOptions{
			EntityType:  audit.EntityProduct,
			EntityID:    p.ID,
			Action:      models.AuditActionDelete,
			Description: fmt.Sprintf("product %s with %d packagings", p.DisplayName(), res.RowsAffected),
			Before:      snapshotProduct(p),
		})
	})
}

// DeleteGenericProduct is refused while products are classified under it.
func (s *Service) DeleteGenericProduct(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var g models.GenericProduct
		if err := tx.First(&g, "id = ?", id).Error; err != nil {
			return notFound(err)
		}

		var n int64
		if err := tx.Model(&models.Product{}).Where("generic_product_id = ?", id).Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return fmt.Errorf("%w: generic product %q has %d products", ErrProtected, g.Name, n)
		}

		if err := tx.Delete(&g).Error; err != nil {
			return err
		}
		return audit.WriteLog(tx, audit.LogOptions{
			EntityType:  audit.EntityGenericProduct,
			EntityID:    g.ID,
			Action:      models.AuditActionDelete,
			Description: "generic product " + g.Name,
			Before:      map[string]any{"name": g.Name},
		})
	})
}
