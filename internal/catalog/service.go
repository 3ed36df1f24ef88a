// Package catalog holds the scan resolution, registration and stock rules
// on top of the gorm entity store.
package catalog

import (
	"strings"

	"stockscan-backend/internal/config"
	"stockscan-backend/internal/models"

	"gorm.io/gorm"
)

type Options struct {
	// UniqueBrandNames rejects a new brand whose name is already taken.
	UniqueBrandNames bool
	// RejectUnregisteredPrefix refuses packagings whose prefix has no brand.
	// When false the packaging inherits its product's brand.
	RejectUnregisteredPrefix bool
}

func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		UniqueBrandNames:         cfg.Catalog.UniqueBrandNames,
		RejectUnregisteredPrefix: cfg.Catalog.UnregisteredPrefix == config.PrefixReject,
	}
}

type Service struct {
	db   *gorm.DB
	opts Options
}

func New(db *gorm.DB, opts Options) *Service {
	return &Service{db: db, opts: opts}
}

func findBrandEAN(tx *gorm.DB, prefix string) (*models.BrandEAN, error) {
	var be models.BrandEAN
	if err := tx.Preload("Brand").Where("label = ?", prefix).First(&be).Error; err != nil {
		return nil, notFound(err)
	}
	return &be, nil
}

func findPackaging(tx *gorm.DB, label string) (*models.Packaging, error) {
	var p models.Packaging
	err := tx.
		Preload("Product.Brand").
		Preload("Product.GenericProduct").
		Where("label = ?", label).
		First(&p).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &p, nil
}

func findProduct(tx *gorm.DB, id uint) (*models.Product, error) {
	var p models.Product
	if err := tx.Preload("Brand").Preload("GenericProduct").First(&p, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &p, nil
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
