package inventory

import (
	"stockscan-backend/internal/catalog"

	"github.com/gofiber/fiber/v2"
)

type BrandEANRequest struct {
	Label     string `json:"label" form:"label" validate:"omitempty,len=7,numeric"`
	BrandID   *uint  `json:"brand_id" form:"brand_id"`
	BrandName string `json:"brand_name" form:"brand_name" validate:"max=255"`
}

// GET /api/items/:ean/brand-ean
func BrandEANFormHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		code, err := parseEAN(c.Params("ean"))
		if err != nil {
			return respondError(c, err, fiber.Map{"ean": c.Params("ean")})
		}
		return c.JSON(fiber.Map{
			"initial": BrandEANRequest{Label: code.Prefix()},
		})
	}
}

// POST /api/items/:ean/brand-ean
// The label defaults to the scanned code's prefix.
func RegisterBrandEANHandler(svc *catalog.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		code, err := parseEAN(c.Params("ean"))
		if err != nil {
			return respondError(c, err, fiber.Map{"ean": c.Params("ean")})
		}

		var body BrandEANRequest
		if err := bind(c, &body); err != nil {
			return respondError(c, err, body)
		}
		if body.Label == "" {
			body.Label = code.Prefix()
		}

		be, err := svc.RegisterBrandEAN(c.UserContext(), catalog.BrandEANInput{
			Label:     body.Label,
			BrandID:   body.BrandID,
			BrandName: body.BrandName,
		})
		if err != nil {
			return respondError(c, err, body)
		}

		return seeOther(c, productSelectPath(code), BrandEANResponse{
			ID:    be.ID,
			Label: be.Label,
			Brand: toBrand(be.Brand),
		})
	}
}

// GET /api/brands?q=douwe
func ListBrandsHandler(svc *catalog.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		brands, err := svc.ListBrands(c.UserContext(), c.Query("q"))
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Brands could not be listed")
		}

		res := make([]BrandResponse, 0, len(brands))
		for _, b := range brands {
			res = append(res, toBrand(b))
		}
		return c.JSON(res)
	}
}

// DELETE /api/brands/:id
func DeleteBrandHandler(svc *catalog.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := idParam(c, "id")
		if err != nil {
			return err
		}
		if err := svc.DeleteBrand(c.UserContext(), id); err != nil {
			return respondError(c, err, nil)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}
