package inventory

import (
	"stockscan-backend/internal/catalog"
	"stockscan-backend/internal/ean"

	"github.com/gofiber/fiber/v2"
)

// Label and product come from the URL and cannot be changed at this step.
type CreatePackagingRequest struct {
	Count       *int   `json:"count" form:"count" validate:"omitempty,min=1,max=32767"`
	Description string `json:"description" form:"description" validate:"max=255"`
}

type packagingForm struct {
	Label       string          `json:"label"`
	Product     ProductResponse `json:"product"`
	Count       int             `json:"count"`
	Description string          `json:"description"`
}

func packagingTarget(c *fiber.Ctx) (ean.EAN, uint, error) {
	code, err := parseEAN(c.Params("ean"))
	if err != nil {
		return "", 0, err
	}
	productID, err := idParam(c, "product")
	if err != nil {
		return "", 0, err
	}
	return code, productID, nil
}

// GET /api/items/:ean/products/:product/packaging
func PackagingFormHandler(svc *catalog.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		code, productID, err := packagingTarget(c)
		if err != nil {
			return respondError(c, err, fiber.Map{"ean": c.Params("ean")})
		}

		p, err := svc.GetProduct(c.UserContext(), productID)
		if err != nil {
			return respondError(c, err, nil)
		}

		return c.JSON(fiber.Map{
			"initial": packagingForm{
				Label:   code.String(),
				Product: toProduct(*p),
				Count:   1,
			},
		})
	}
}

// POST /api/items/:ean/products/:product/packaging
func CreatePackagingHandler(svc *catalog.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		code, productID, err := packagingTarget(c)
		if err != nil {
			return respondError(c, err, fiber.Map{"ean": c.Params("ean")})
		}

		var body CreatePackagingRequest
		if err := bind(c, &body); err != nil {
			return respondError(c, err, body)
		}
		count := 1
		if body.Count != nil {
			count = *body.Count
		}

		pkg, err := svc.CreatePackaging(c.UserContext(), catalog.PackagingInput{
			EAN:         code,
			ProductID:   productID,
			Count:       count,
			Description: body.Description,
		})
		if err != nil {
			return respondError(c, err, body)
		}

		return seeOther(c, itemPath(code), toScannedItem(*pkg))
	}
}
