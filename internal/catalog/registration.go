package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"stockscan-backend/internal/audit"
	"stockscan-backend/internal/ean"
	"stockscan-backend/internal/metrics"
	"stockscan-backend/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type BrandEANInput struct {
	Label     string
	BrandID   *uint
	BrandName string
}

// RegisterBrandEAN binds a prefix to an existing brand or to a new one.
// Binding a prefix again to the brand that already owns it is a no-op.
func (s *Service) RegisterBrandEAN(ctx context.Context, in BrandEANInput) (*models.BrandEAN, error) {
	label := strings.TrimSpace(in.Label)
	name := strings.TrimSpace(in.BrandName)
	hasID := in.BrandID != nil && *in.BrandID != 0

	if !ean.ValidPrefix(label) {
		return nil, invalid(ErrInvalidInput, "label", fmt.Sprintf("Enter the %d digit brand prefix.", ean.PrefixLength))
	}
	if hasID && name != "" {
		msg := "Choose an existing brand or enter a new brand name, not both."
		return nil, invalid(ErrAmbiguousBrand, "brand", msg, "brand_name", msg)
	}
	if !hasID && name == "" {
		return nil, invalid(ErrInvalidInput, "brand", "Choose an existing brand or enter a new brand name.")
	}

	var out *models.BrandEAN
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		existing, err := findBrandEAN(tx, label)
		switch {
		case err == nil:
			if hasID && existing.BrandID == *in.BrandID {
				out = existing
				return nil
			}
			return duplicatePrefix(label, existing.Brand.Name)
		case !errors.Is(err, ErrNotFound):
			return err
		}

		var brand models.Brand
		if hasID {
			if err := tx.First(&brand, "id = ?", *in.BrandID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return invalid(ErrInvalidInput, "brand", "Select a valid brand.")
				}
				return err
			}
		} else {
			created, err := s.createBrand(tx, name)
			if err != nil {
				return err
			}
			brand = *created
		}

		be := models.BrandEAN{Label: label, BrandID: brand.ID}
		if err := tx.Omit(clause.Associations).Create(&be).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return duplicatePrefix(label, "")
			}
			return err
		}
		be.Brand = brand

		if err := audit.WriteLog(tx, audit.LogOptions{
			EntityType:  audit.EntityBrandEAN,
			EntityID:    be.ID,
			Action:      models.AuditActionCreate,
			Description: fmt.Sprintf("prefix %s registered to %s", label, brand.Name),
			After:       map[string]any{"label": label, "brand_id": brand.ID},
		}); err != nil {
			return err
		}

		out = &be
		metrics.Registrations.WithLabelValues(audit.EntityBrandEAN).Inc()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func duplicatePrefix(label, owner string) error {
	msg := fmt.Sprintf("Prefix %s is already registered to another brand.", label)
	if owner != "" {
		msg = fmt.Sprintf("Prefix %s is already registered to brand %q.", label, owner)
	}
	return invalid(ErrDuplicatePrefix, "label", msg)
}

func duplicateBrandName() error {
	return invalid(ErrDuplicateBrandName, "brand_name", "Brand with this name already exists.")
}

func (s *Service) createBrand(tx *gorm.DB, name string) (*models.Brand, error) {
	if len([]rune(name)) > 255 {
		return nil, invalid(ErrInvalidInput, "brand_name", "Ensure this value has at most 255 characters.")
	}
	if s.opts.UniqueBrandNames {
		var n int64
		if err := tx.Model(&models.Brand{}).Where("name = ?", name).Count(&n).Error; err != nil {
			return nil, err
		}
		if n > 0 {
			return nil, duplicateBrandName()
		}
	}

	brand := models.Brand{Name: name}
	if err := tx.Create(&brand).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, duplicateBrandName()
		}
		return nil, err
	}
	if err := audit.WriteLog(tx, audit.LogOptions{
		EntityType:  audit.EntityBrand,
		EntityID:    brand.ID,
		Action:      models.AuditActionCreate,
		Description: "brand " + brand.Name,
		After:       map[string]any{"name": brand.Name},
	}); err != nil {
		return nil, err
	}
	metrics.Registrations.WithLabelValues(audit.EntityBrand).Inc()
	return &brand, nil
}

type ProductSelection struct {
	ProductID *uint

	// used when ProductID is empty
	Name               string
	Description        string
	GenericProductID   *uint
	GenericProductName string
}

// SelectProduct returns an existing product of the brand that owns code's
// prefix, or creates a new product under that brand.
func (s *Service) SelectProduct(ctx context.Context, code ean.EAN, sel ProductSelection) (*models.Product, error) {
	var out *models.Product
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		be, err := findBrandEAN(tx, code.Prefix())
		if err != nil {
			return err
		}

		if sel.ProductID != nil && *sel.ProductID != 0 {
			var p models.Product
			err := tx.Preload("Brand").Preload("GenericProduct").
				Where("id = ? AND brand_id = ?", *sel.ProductID, be.BrandID).
				First(&p).Error
			if err != nil {
				return notFound(err)
			}
			out = &p
			return nil
		}

		p, err := s.createProduct(tx, be.Brand, sel)
		if err != nil {
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

func (s *Service) createProduct(tx *gorm.DB, brand models.Brand, sel ProductSelection) (*models.Product, error) {
	name := strings.TrimSpace(sel.Name)
	if name == "" {
		return nil, invalid(ErrInvalidInput, "name", "This field is required.")
	}
	if len([]rune(name)) > 255 {
		return nil, invalid(ErrInvalidInput, "name", "Ensure this value has at most 255 characters.")
	}

	generic, err := s.genericProductFor(tx, sel.GenericProductID, sel.GenericProductName)
	if err != nil {
		return nil, err
	}

	p := models.Product{
		BrandID:     brand.ID,
		Name:        name,
		Description: optional(sel.Description),
	}
	if generic != nil {
		p.GenericProductID = &generic.ID
	}
	if err := tx.Omit(clause.Associations).Create(&p).Error; err != nil {
		return nil, err
	}
	p.Brand = brand
	p.GenericProduct = generic

	if err := audit.WriteLog(tx, audit.LogOptions{
		EntityType:  audit.EntityProduct,
		EntityID:    p.ID,
		Action:      models.AuditActionCreate,
		Description: "product " + p.DisplayName(),
		After:       snapshotProduct(&p),
	}); err != nil {
		return nil, err
	}
	metrics.Registrations.WithLabelValues(audit.EntityProduct).Inc()
	return &p, nil
}

// genericProductFor picks a generic product by id, or by name creating it
// when no generic product has that exact name yet.
func (s *Service) genericProductFor(tx *gorm.DB, id *uint, name string) (*models.GenericProduct, error) {
	name = strings.TrimSpace(name)
	hasID := id != nil && *id != 0

	switch {
	case hasID && name != "":
		msg := "Choose an existing generic product or enter a new name, not both."
		return nil, invalid(ErrInvalidInput, "generic_product", msg, "generic_product_name", msg)
	case hasID:
		var g models.GenericProduct
		if err := tx.First(&g, "id = ?", *id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, invalid(ErrInvalidInput, "generic_product", "Select a valid generic product.")
			}
			return nil, err
		}
		return &g, nil
	case name != "":
		if len([]rune(name)) > 255 {
			return nil, invalid(ErrInvalidInput, "generic_product_name", "Ensure this value has at most 255 characters.")
		}
		var g models.GenericProduct
		err := tx.Where("name = ?", name).First(&g).Error
		if err == nil {
			return &g, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		g = models.GenericProduct{Name: name}
		if err := tx.Create(&g).Error; err != nil {
			return nil, err
		}
		if err := audit.WriteLog(tx, audit.LogOptions{
			EntityType:  audit.EntityGenericProduct,
			EntityID:    g.ID,
			Action:      models.AuditActionCreate,
			Description: "generic product " + g.Name,
			After:       map[string]any{"name": g.Name},
		}); err != nil {
			return nil, err
		}
		return &g, nil
	}
	return nil, nil
}

type PackagingInput struct {
	EAN       ean.EAN
	ProductID uint
	// Count is the number of items in one package, at least 1.
	Count       int
	Description string
}

// CreatePackaging registers a packaging with the scanned code as label.
func (s *Service) CreatePackaging(ctx context.Context, in PackagingInput) (*models.Packaging, error) {
	if in.Count < 1 || in.Count > models.MaxPackagingCount {
		return nil, invalid(ErrInvalidInput, "count",
			fmt.Sprintf("Ensure this value is between 1 and %d.", models.MaxPackagingCount))
	}
	desc := optional(in.Description)
	if desc != nil && len([]rune(*desc)) > 255 {
		return nil, invalid(ErrInvalidInput, "description", "Ensure this value has at most 255 characters.")
	}

	var out *models.Packaging
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		product, err := findProduct(tx, in.ProductID)
		if err != nil {
			return err
		}

		var n int64
		if err := tx.Model(&models.Packaging{}).Where("label = ?", in.EAN.String()).Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return invalid(ErrDuplicateLabel, "label", "Packaging with this EAN code already exists.")
		}

		if err := s.checkPackagingBrand(tx, in.EAN.String(), product, "label", "product"); err != nil {
			return err
		}

		pkg := models.Packaging{
			Label:       in.EAN.String(),
			Count:       in.Count,
			Description: desc,
			ProductID:   product.ID,
		}
		if err := tx.Omit(clause.Associations).Create(&pkg).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return invalid(ErrDuplicateLabel, "label", "Packaging with this EAN code already exists.")
			}
			return err
		}
		pkg.Product = *product

		if err := audit.WriteLog(tx, audit.LogOptions{
			EntityType:  audit.EntityPackaging,
			EntityID:    pkg.ID,
			Action:      models.AuditActionCreate,
			Description: pkg.String(),
			After:       map[string]any{"label": pkg.Label, "count": pkg.Count, "product_id": pkg.ProductID},
		}); err != nil {
			return err
		}

		out = &pkg
		metrics.Registrations.WithLabelValues(audit.EntityPackaging).Inc()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// checkPackagingBrand verifies that label's prefix belongs to product's brand.
// An unregistered prefix inherits the product's brand unless configured otherwise.
func (s *Service) checkPackagingBrand(tx *gorm.DB, label string, product *models.Product, fields ...string) error {
	be, err := findBrandEAN(tx, ean.EAN(label).Prefix())
	if errors.Is(err, ErrNotFound) {
		if !s.opts.RejectUnregisteredPrefix {
			return nil
		}
		msg := fmt.Sprintf("No brand is registered for prefix %s.", ean.EAN(label).Prefix())
		return invalid(ErrUnregisteredPrefix, fieldPairs(fields, msg)...)
	}
	if err != nil {
		return err
	}

	if be.BrandID != product.BrandID {
		msg := fmt.Sprintf("This EAN is associated with brand '%s', not with product's brand '%s'",
			be.Brand.Name, product.Brand.Name)
		return invalid(ErrBrandMismatch, fieldPairs(fields, msg)...)
	}
	return nil
}

func fieldPairs(fields []string, msg string) []string {
	out := make([]string, 0, 2*len(fields))
	for _, f := range fields {
		out = append(out, f, msg)
	}
	return out
}
