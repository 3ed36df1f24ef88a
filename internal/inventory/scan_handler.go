package inventory

import (
	"stockscan-backend/internal/catalog"

	"github.com/gofiber/fiber/v2"
)

type ScanRequest struct {
	EAN string `json:"ean" form:"ean" validate:"required,max=32"`
}

// POST /api/scan
// Redirects to brand registration, product selection or the scanned item.
func ScanHandler(svc *catalog.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body ScanRequest
		if err := bind(c, &body); err != nil {
			return respondError(c, err, body)
		}

		code, err := parseEAN(body.EAN)
		if err != nil {
			return respondError(c, err, body)
		}

		res, err := svc.Resolve(c.UserContext(), code)
		if err != nil {
			return respondError(c, err, body)
		}

		out := toResolution(res)
		return seeOther(c, out.Next, out)
	}
}

// GET /api/scan/:ean
func ResolveHandler(svc *catalog.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		code, err := parseEAN(c.Params("ean"))
		if err != nil {
			return respondError(c, err, fiber.Map{"ean": c.Params("ean")})
		}

		res, err := svc.Resolve(c.UserContext(), code)
		if err != nil {
			return respondError(c, err, nil)
		}
		return c.JSON(toResolution(res))
	}
}
