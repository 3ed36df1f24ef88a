package catalog

import (
	"context"
	"errors"

	"stockscan-backend/internal/ean"
	"stockscan-backend/internal/metrics"
	"stockscan-backend/internal/models"
)

type State string

const (
	StateUnknownBrand   State = "unknown_brand"
	StateUnknownProduct State = "unknown_product"
	StateKnown          State = "known"
)

// Resolution is what the store knows about a scanned code.
// Brand is set from StateUnknownProduct on, Packaging only for StateKnown.
type Resolution struct {
	State     State
	EAN       ean.EAN
	Prefix    string
	Brand     *models.Brand
	Packaging *models.Packaging
}

// Product is a shortcut to the resolved packaging's product.
func (r *Resolution) Product() *models.Product {
	if r.Packaging == nil {
		return nil
	}
	return &r.Packaging.Product
}

// Resolve looks up the brand prefix and then the packaging of code.
// Unknown entities are reported through State, not as errors.
func (s *Service) Resolve(ctx context.Context, code ean.EAN) (*Resolution, error) {
	db := s.db.WithContext(ctx)
	res := &Resolution{EAN: code, Prefix: code.Prefix()}

	be, err := findBrandEAN(db, res.Prefix)
	switch {
	case errors.Is(err, ErrNotFound):
		res.State = StateUnknownBrand
		metrics.Scans.WithLabelValues(string(res.State)).Inc()
		return res, nil
	case err != nil:
		return nil, err
	}
	res.Brand = &be.Brand

	pkg, err := findPackaging(db, code.String())
	switch {
	case errors.Is(err, ErrNotFound):
		res.State = StateUnknownProduct
	case err != nil:
		return nil, err
	default:
		res.State = StateKnown
		res.Packaging = pkg
	}

	metrics.Scans.WithLabelValues(string(res.State)).Inc()
	return res, nil
}

// BrandForEAN returns the brand registered for code's prefix.
func (s *Service) BrandForEAN(ctx context.Context, code ean.EAN) (*models.Brand, error) {
	be, err := findBrandEAN(s.db.WithContext(ctx), code.Prefix())
	if err != nil {
		return nil, err
	}
	return &be.Brand, nil
}

// ScannedItem returns the packaging labelled code with its product and brand.
func (s *Service) ScannedItem(ctx context.Context, code ean.EAN) (*models.Packaging, error) {
	return findPackaging(s.db.WithContext(ctx), code.String())
}
