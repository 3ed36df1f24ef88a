package inventory

import (
	"fmt"

	"stockscan-backend/internal/catalog"
	"stockscan-backend/internal/ean"
	"stockscan-backend/internal/models"
)

type BrandResponse struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

type BrandEANResponse struct {
	ID    uint          `json:"id"`
	Label string        `json:"label"`
	Brand BrandResponse `json:"brand"`
}

type GenericProductResponse struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

type ProductResponse struct {
	ID             uint                    `json:"id"`
	Name           string                  `json:"name"`
	DisplayName    string                  `json:"display_name"`
	Description    *string                 `json:"description"`
	Brand          BrandResponse           `json:"brand"`
	GenericProduct *GenericProductResponse `json:"generic_product"`
	Count          int                     `json:"count"`
}

type PackagingResponse struct {
	ID           uint    `json:"id"`
	Label        string  `json:"label"`
	LabelDisplay string  `json:"label_display"`
	Count        int     `json:"count"`
	Description  *string `json:"description"`
	ProductID    uint    `json:"product_id"`
	Title        string  `json:"title"`
}

type ResolutionResponse struct {
	State      catalog.State      `json:"state"`
	EAN        string             `json:"ean"`
	EANDisplay string             `json:"ean_display"`
	Prefix     string             `json:"prefix"`
	Brand      *BrandResponse     `json:"brand,omitempty"`
	Packaging  *PackagingResponse `json:"packaging,omitempty"`
	Product    *ProductResponse   `json:"product,omitempty"`
	Next       string             `json:"next"`
}

type ScannedItemResponse struct {
	Packaging PackagingResponse `json:"packaging"`
	Product   ProductResponse   `json:"product"`
	Actions   []string          `json:"actions"`
}

func toBrand(b models.Brand) BrandResponse {
	return BrandResponse{ID: b.ID, Name: b.Name}
}

func toProduct(p models.Product) ProductResponse {
	res := ProductResponse{
		ID:          p.ID,
		Name:        p.Name,
		DisplayName: p.DisplayName(),
		Description: p.Description,
		Brand:       toBrand(p.Brand),
		Count:       p.Count,
	}
	if p.GenericProduct != nil {
		res.GenericProduct = &GenericProductResponse{ID: p.GenericProduct.ID, Name: p.GenericProduct.Name}
	}
	return res
}

func toPackaging(p models.Packaging) PackagingResponse {
	return PackagingResponse{
		ID:           p.ID,
		Label:        p.Label,
		LabelDisplay: ean.Format(p.Label),
		Count:        p.Count,
		Description:  p.Description,
		ProductID:    p.ProductID,
		Title:        p.String(),
	}
}

func toScannedItem(p models.Packaging) ScannedItemResponse {
	return ScannedItemResponse{
		Packaging: toPackaging(p),
		Product:   toProduct(p.Product),
		Actions:   []string{catalog.Increase.String(), catalog.Decrease.String()},
	}
}

func toResolution(r *catalog.Resolution) ResolutionResponse {
	res := ResolutionResponse{
		State:      r.State,
		EAN:        r.EAN.String(),
		EANDisplay: r.EAN.Format(),
		Prefix:     r.Prefix,
		Next:       nextStep(r),
	}
	if r.Brand != nil {
		b := toBrand(*r.Brand)
		res.Brand = &b
	}
	if r.Packaging != nil {
		pkg := toPackaging(*r.Packaging)
		product := toProduct(r.Packaging.Product)
		res.Packaging = &pkg
		res.Product = &product
	}
	return res
}

// Workflow locations.

func brandEANPath(code ean.EAN) string { return fmt.Sprintf("/api/items/%s/brand-ean", code) }

func productSelectPath(code ean.EAN) string { return fmt.Sprintf("/api/items/%s/product", code) }

func packagingPath(code ean.EAN, productID uint) string {
	return fmt.Sprintf("/api/items/%s/products/%d/packaging", code, productID)
}

func itemPath(code ean.EAN) string { return fmt.Sprintf("/api/items/%s", code) }

func nextStep(r *catalog.Resolution) string {
	switch r.State {
	case catalog.StateUnknownBrand:
		return brandEANPath(r.EAN)
	case catalog.StateUnknownProduct:
		return productSelectPath(r.EAN)
	}
	return itemPath(r.EAN)
}
