package catalog

import (
	"context"

	"stockscan-backend/internal/models"
)

type StockLine struct {
	Product    models.Product
	Packagings []models.Packaging
}

// StockReport lists every product with its packagings, ordered by brand
// and product name.
func (s *Service) StockReport(ctx context.Context) ([]StockLine, error) {
	db := s.db.WithContext(ctx)

	var products []models.Product
	err := db.
		Preload("Brand").
		Preload("GenericProduct").
		Joins("JOIN brands ON brands.id = products.brand_id").
		Order("brands.name asc, products.name asc, products.id asc").
		Find(&products).Error
	if err != nil {
		return nil, err
	}

	var pkgs []models.Packaging
	if err := db.Order("label asc").Find(&pkgs).Error; err != nil {
		return nil, err
	}
	byProduct := make(map[uint][]models.Packaging, len(products))
	for _, p := range pkgs {
		byProduct[p.ProductID] = append(byProduct[p.ProductID], p)
	}

	out := make([]StockLine, 0, len(products))
	for _, p := range products {
		out = append(out, StockLine{Product: p, Packagings: byProduct[p.ID]})
	}
	return out, nil
}
