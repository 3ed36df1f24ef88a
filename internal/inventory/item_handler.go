package inventory

import (
	"stockscan-backend/internal/catalog"

	"github.com/gofiber/fiber/v2"
)

type StockActionRequest struct {
	Action string `json:"action" form:"action"`
}

// GET /api/items/:ean
func ScannedItemHandler(svc *catalog.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		code, err := parseEAN(c.Params("ean"))
		if err != nil {
			return respondError(c, err, fiber.Map{"ean": c.Params("ean")})
		}

		pkg, err := svc.ScannedItem(c.UserContext(), code)
		if err != nil {
			return respondError(c, err, nil)
		}
		return c.JSON(toScannedItem(*pkg))
	}
}

// POST /api/items/:ean  {"action": "add" | "subtract"}
func AdjustStockHandler(svc *catalog.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		code, err := parseEAN(c.Params("ean"))
		if err != nil {
			return respondError(c, err, fiber.Map{"ean": c.Params("ean")})
		}

		// unknown packaging is a 404 before the action is looked at
		if _, err := svc.ScannedItem(c.UserContext(), code); err != nil {
			return respondError(c, err, nil)
		}

		var body StockActionRequest
		if err := bind(c, &body); err != nil {
			return respondError(c, err, body)
		}
		dir, err := catalog.ParseAction(body.Action)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "bad action: "+body.Action)
		}

		adj, err := svc.Adjust(c.UserContext(), code, dir)
		if err != nil {
			return respondError(c, err, body)
		}

		return seeOther(c, itemPath(code), fiber.Map{
			"item":   toScannedItem(adj.Packaging),
			"before": adj.Before,
			"after":  adj.After,
		})
	}
}
