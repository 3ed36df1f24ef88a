package inventory

import (
	"errors"

	"stockscan-backend/internal/catalog"
	"stockscan-backend/internal/ean"
	"stockscan-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type SelectProductRequest struct {
	ProductID *uint `json:"product_id" form:"product_id"`

	Name               string `json:"name" form:"name" validate:"max=255"`
	Description        string `json:"description" form:"description"`
	GenericProductID   *uint  `json:"generic_product_id" form:"generic_product_id"`
	GenericProductName string `json:"generic_product_name" form:"generic_product_name" validate:"max=255"`
}

type UpdateProductRequest struct {
	Name             *string `json:"name" validate:"omitempty,max=255"`
	Description      *string `json:"description"`
	BrandID          *uint   `json:"brand_id"`
	GenericProductID *uint   `json:"generic_product_id"`
}

// brandOrRedirect sends the client back to brand registration when the
// scanned prefix has no brand yet. A nil brand means the response is written.
func brandOrRedirect(c *fiber.Ctx, svc *catalog.Service, code ean.EAN) (*models.Brand, error) {
	brand, err := svc.BrandForEAN(c.UserContext(), code)
	if errors.Is(err, catalog.ErrNotFound) {
		return nil, seeOther(c, brandEANPath(code), fiber.Map{
			"state":  catalog.StateUnknownBrand,
			"prefix": code.Prefix(),
		})
	}
	return brand, err
}

// GET /api/items/:ean/product
// Lists the brand's products to pick from, plus the initial new-product form.
func SelectProductFormHandler(svc *catalog.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		code, err := parseEAN(c.Params("ean"))
		if err != nil {
			return respondError(c, err, fiber.Map{"ean": c.Params("ean")})
		}

		brand, err := brandOrRedirect(c, svc, code)
		if brand == nil {
			return err
		}

		products, err := svc.ListProducts(c.UserContext(), brand.ID, "")
		if err != nil {
			return err
		}
		list := make([]ProductResponse, 0, len(products))
		for _, p := range products {
			list = append(list, toProduct(p))
		}

		return c.JSON(fiber.Map{
			"brand":    toBrand(*brand),
			"products": list,
		})
	}
}

// POST /api/items/:ean/product
// Either product_id of one of the brand's products, or the fields of a new one.
func SelectProductHandler(svc *catalog.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		code, err := parseEAN(c.Params("ean"))
		if err != nil {
			return respondError(c, err, fiber.Map{"ean": c.Params("ean")})
		}

		if brand, err := brandOrRedirect(c, svc, code); brand == nil {
			return err
		}

		var body SelectProductRequest
		if err := bind(c, &body); err != nil {
			return respondError(c, err, body)
		}

		p, err := svc.SelectProduct(c.UserContext(), code, catalog.ProductSelection{
			ProductID:          body.ProductID,
			Name:               body.Name,
			Description:        body.Description,
			GenericProductID:   body.GenericProductID,
			GenericProductName: body.GenericProductName,
		})
		if err != nil {
			return respondError(c, err, body)
		}

		return seeOther(c, packagingPath(code, p.ID), toProduct(*p))
	}
}

// GET /api/products?brand_id=1&q=koffie
func ListProductsHandler(svc *catalog.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var brandID uint
		if id := c.QueryInt("brand_id", 0); id > 0 {
			brandID = uint(id)
		}

		products, err := svc.ListProducts(c.UserContext(), brandID, c.Query("q"))
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Products could not be listed")
		}

		res := make([]ProductResponse, 0, len(products))
		for _, p := range products {
			res = append(res, toProduct(p))
		}
		return c.JSON(res)
	}
}

// GET /api/products/:id
func GetProductHandler(svc *catalog.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := idParam(c, "id")
		if err != nil {
			return err
		}

		p, err := svc.GetProduct(c.UserContext(), id)
		if err != nil {
			return respondError(c, err, nil)
		}
		pkgs, err := svc.Packagings(c.UserContext(), id)
		if err != nil {
			return err
		}

		list := make([]PackagingResponse, 0, len(pkgs))
		for _, pkg := range pkgs {
			pkg.Product = *p
			list = append(list, toPackaging(pkg))
		}
		return c.JSON(fiber.Map{
			"product":    toProduct(*p),
			"packagings": list,
		})
	}
}

// PUT /api/products/:id
func UpdateProductHandler(svc *catalog.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := idParam(c, "id")
		if err != nil {
			return err
		}

		var body UpdateProductRequest
		if err := bind(c, &body); err != nil {
			return respondError(c, err, body)
		}

		p, err := svc.UpdateProduct(c.UserContext(), id, catalog.ProductUpdate{
			Name:             body.Name,
			Description:      body.Description,
			BrandID:          body.BrandID,
			GenericProductID: body.GenericProductID,
		})
		if err != nil {
			return respondError(c, err, body)
		}
		return c.JSON(toProduct(*p))
	}
}

// DELETE /api/products/:id
// Packagings of the product are removed with it.
func DeleteProductHandler(svc *catalog.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := idParam(c, "id")
		if err != nil {
			return err
		}
		if err := svc.DeleteProduct(c.UserContext(), id); err != nil {
			return respondError(c, err, nil)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// GET /api/generic-products?q=coffee
func ListGenericProductsHandler(svc *catalog.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		generics, err := svc.ListGenericProducts(c.UserContext(), c.Query("q"))
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Generic products could not be listed")
		}

		res := make([]GenericProductResponse, 0, len(generics))
		for _, g := range generics {
			res = append(res, GenericProductResponse{ID: g.ID, Name: g.Name})
		}
		return c.JSON(res)
	}
}

// DELETE /api/generic-products/:id
func DeleteGenericProductHandler(svc *catalog.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := idParam(c, "id")
		if err != nil {
			return err
		}
		if err := svc.DeleteGenericProduct(c.UserContext(), id); err != nil {
			return respondError(c, err, nil)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}
