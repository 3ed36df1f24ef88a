package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"stockscan-backend/internal/audit"
	"stockscan-backend/internal/ean"
	"stockscan-backend/internal/models"

	"gorm.io/gorm"
)

type productSnapshot struct {
	Name             string  `json:"name"`
	Description      *string `json:"description"`
	BrandID          uint    `json:"brand_id"`
	GenericProductID *uint   `json:"generic_product_id"`
	Count            int     `json:"count"`
}

func snapshotProduct(p *models.Product) productSnapshot {
	return productSnapshot{
		Name:             p.Name,
		Description:      p.Description,
		BrandID:          p.BrandID,
		GenericProductID: p.GenericProductID,
		Count:            p.Count,
	}
}

func (s *Service) GetProduct(ctx context.Context, id uint) (*models.Product, error) {
	return findProduct(s.db.WithContext(ctx), id)
}

// Packagings lists the packagings of a product ordered by label.
func (s *Service) Packagings(ctx context.Context, productID uint) ([]models.Packaging, error) {
	var out []models.Packaging
	err := s.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("label asc").
		Find(&out).Error
	return out, err
}

// ProductUpdate holds the editable product fields; nil means unchanged.
// A GenericProductID of 0 clears the classification. The stock count is
// not editable here.
type ProductUpdate struct {
	Name             *string
	Description      *string
	BrandID          *uint
	GenericProductID *uint
}

// UpdateProduct applies u after checking that every packaging of the
// product still resolves to the product's brand.
func (s *Service) UpdateProduct(ctx context.Context, id uint, u ProductUpdate) (*models.Product, error) {
	var out *models.Product
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		p, err := findProduct(tx, id)
		if err != nil {
			return err
		}
		before := snapshotProduct(p)

		if u.Name != nil {
			name := strings.TrimSpace(*u.Name)
			if name == "" {
				return invalid(ErrInvalidInput, "name", "This field is required.")
			}
			if len([]rune(name)) > 255 {
				return invalid(ErrInvalidInput, "name", "Ensure this value has at most 255 characters.")
			}
			p.Name = name
		}
		if u.Description != nil {
			p.Description = optional(*u.Description)
		}
		if u.BrandID != nil && *u.BrandID != p.BrandID {
			var brand models.Brand
			if err := tx.First(&brand, "id = ?", *u.BrandID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return invalid(ErrInvalidInput, "brand", "Select a valid brand.")
				}
				return err
			}
			p.BrandID = brand.ID
			p.Brand = brand
		}
		if u.GenericProductID != nil {
			if *u.GenericProductID == 0 {
				p.GenericProductID = nil
				p.GenericProduct = nil
			} else {
				g, err := s.genericProductFor(tx, u.GenericProductID, "")
				if err != nil {
					return err
				}
				p.GenericProductID = &g.ID
				p.GenericProduct = g
			}
		}

		if err := s.validateProduct(tx, p); err != nil {
			return err
		}

		err = tx.Model(&models.Product{ID: p.ID}).
			Select("name", "description", "brand_id", "generic_product_id", "updated_at").
			Updates(map[string]any{
				"name":               p.Name,
				"description":        p.Description,
				"brand_id":           p.BrandID,
				"generic_product_id": p.GenericProductID,
			}).Error
		if err != nil {
			return err
		}

		if err := audit.WriteLog(tx, audit.LogOptions{
			EntityType:  audit.EntityProduct,
			EntityID:    p.ID,
			Action:      models.AuditActionUpdate,
			Description: "product " + p.DisplayName(),
			Before:      before,
			After:       snapshotProduct(p),
		}); err != nil {
			return err
		}
		out = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// validateProduct requires every packaging prefix to resolve to p's brand.
func (s *Service) validateProduct(tx *gorm.DB, p *models.Product) error {
	var pkgs []models.Packaging
	if err := tx.Where("product_id = ?", p.ID).Find(&pkgs).Error; err != nil {
		return err
	}
	for _, pkg := range pkgs {
		prefix := ean.EAN(pkg.Label).Prefix()
		be, err := findBrandEAN(tx, prefix)
		if errors.Is(err, ErrNotFound) {
			if s.opts.RejectUnregisteredPrefix {
				return invalid(ErrUnregisteredPrefix, "brand",
					fmt.Sprintf("No brand is registered for prefix %s.", prefix))
			}
			continue
		}
		if err != nil {
			return err
		}
		if be.BrandID != p.BrandID {
			return invalid(ErrBrandMismatch, "brand",
				fmt.Sprintf("%s is already associated with this EAN", be.Brand.Name))
		}
	}
	return nil
}

// ListBrands returns brands whose name starts with q, case-insensitively.
func (s *Service) ListBrands(ctx context.Context, q string) ([]models.Brand, error) {
	dbq := s.db.WithContext(ctx).Model(&models.Brand{})
	if q = strings.TrimSpace(q); q != "" {
		dbq = dbq.Where("LOWER(name) LIKE ?", strings.ToLower(q)+"%")
	}
	var out []models.Brand
	err := dbq.Order("name asc").Find(&out).Error
	return out, err
}

// ListProducts filters by brand (0 for all) and by q matching the product
// or brand name.
func (s *Service) ListProducts(ctx context.Context, brandID uint, q string) ([]models.Product, error) {
	dbq := s.db.WithContext(ctx).
		Model(&models.Product{}).
		Preload("Brand").
		Preload("GenericProduct").
		Joins("JOIN brands ON brands.id = products.brand_id")
	if brandID > 0 {
		dbq = dbq.Where("products.brand_id = ?", brandID)
	}
	if q = strings.TrimSpace(q); q != "" {
		like := "%" + strings.ToLower(q) + "%"
		dbq = dbq.Where("(LOWER(products.name) LIKE ? OR LOWER(brands.name) LIKE ?)", like, like)
	}
	var out []models.Product
	err := dbq.Order("products.name asc").Find(&out).Error
	return out, err
}

func (s *Service) ListGenericProducts(ctx context.Context, q string) ([]models.GenericProduct, error) {
	dbq := s.db.WithContext(ctx).Model(&models.GenericProduct{})
	if q = strings.TrimSpace(q); q != "" {
		dbq = dbq.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(q)+"%")
	}
	var out []models.GenericProduct
	err := dbq.Order("name asc").Find(&out).Error
	return out, err
}
