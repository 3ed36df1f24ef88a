package inventory

import (
	"errors"

	"stockscan-backend/internal/catalog"

	"github.com/gofiber/fiber/v2"
)

// respondError renders catalog errors. Validation failures echo input back
// so the client can re-present the form.
func respondError(c *fiber.Ctx, err error, input any) error {
	var verr *catalog.ValidationError
	switch {
	case errors.As(err, &verr):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error":  verr.Err.Error(),
			"fields": verr.Fields,
			"input":  input,
		})
	case errors.Is(err, catalog.ErrNotFound):
		return fiber.NewError(fiber.StatusNotFound, "Not found")
	case errors.Is(err, catalog.ErrProtected):
		return fiber.NewError(fiber.StatusConflict, err.Error())
	case errors.Is(err, catalog.ErrBadAction):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	return err
}

// seeOther points the client at the next step of the workflow.
func seeOther(c *fiber.Ctx, location string, body any) error {
	c.Location(location)
	return c.Status(fiber.StatusSeeOther).JSON(body)
}

// idParam reads a positive numeric path parameter; anything else is a 404.
func idParam(c *fiber.Ctx, name string) (uint, error) {
	id, err := c.ParamsInt(name)
	if err != nil || id <= 0 {
		return 0, fiber.NewError(fiber.StatusNotFound, "Not found")
	}
	return uint(id), nil
}
