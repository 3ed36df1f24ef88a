package server

import (
	"errors"
	"log/slog"
	"strings"
	"time"

	"stockscan-backend/internal/audit"
	"stockscan-backend/internal/catalog"
	"stockscan-backend/internal/config"
	"stockscan-backend/internal/inventory"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"
)

type Deps struct {
	Config *config.Config
	DB     *gorm.DB
	Log    *slog.Logger
}

// New builds the fiber app with every route registered.
func New(d Deps) *fiber.App {
	svc := catalog.New(d.DB, catalog.OptionsFromConfig(d.Config))

	app := fiber.New(fiber.Config{
		ErrorHandler: ErrorHandler(d.Log),
	})

	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(requestLogger(d.Log))
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(d.Config.CORSOriginList(), ","),
		AllowHeaders: "Origin, Content-Type, Accept",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.SendString("OK")
	})
	if d.Config.Metrics.Enabled {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))
	}

	api := app.Group("/api")

	// Scan entry point
	api.Post("/scan", inventory.ScanHandler(svc))
	api.Get("/scan/:ean", inventory.ResolveHandler(svc))

	// Registration workflow
	api.Get("/items/:ean/brand-ean", inventory.BrandEANFormHandler())
	api.Post("/items/:ean/brand-ean", inventory.RegisterBrandEANHandler(svc))
	api.Get("/items/:ean/product", inventory.SelectProductFormHandler(svc))
	api.Post("/items/:ean/product", inventory.SelectProductHandler(svc))
	api.Get("/items/:ean/products/:product/packaging", inventory.PackagingFormHandler(svc))
	api.Post("/items/:ean/products/:product/packaging", inventory.CreatePackagingHandler(svc))

	// Scanned item and stock
	api.Get("/items/:ean", inventory.ScannedItemHandler(svc))
	api.Post("/items/:ean", inventory.AdjustStockHandler(svc))

	// Catalog
	api.Get("/brands", inventory.ListBrandsHandler(svc))
	api.Delete("/brands/:id", inventory.DeleteBrandHandler(svc))
	api.Get("/products", inventory.ListProductsHandler(svc))
	api.Get("/products/:id", inventory.GetProductHandler(svc))
	api.Put("/products/:id", inventory.UpdateProductHandler(svc))
	api.Delete("/products/:id", inventory.DeleteProductHandler(svc))
	api.Get("/generic-products", inventory.ListGenericProductsHandler(svc))
	api.Delete("/generic-products/:id", inventory.DeleteGenericProductHandler(svc))

	api.Get("/export/stock.xlsx", inventory.ExportStockHandler(svc))
	api.Get("/audit-logs", audit.ListAuditLogsHandler(d.DB))

	return app
}

// ErrorHandler renders fiber errors as {"error": message} and hides the
// details of anything unexpected.
func ErrorHandler(log *slog.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var e *fiber.Error
		if errors.As(err, &e) {
			return c.Status(e.Code).JSON(fiber.Map{
				"error": e.Message,
			})
		}
		log.Error("unexpected error",
			"err", err,
			"method", c.Method(),
			"path", c.Path(),
			"request_id", c.GetRespHeader(fiber.HeaderXRequestID),
		)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Unexpected server error",
		})
	}
}

func requestLogger(log *slog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			var e *fiber.Error
			if errors.As(err, &e) {
				status = e.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}
		log.Debug("request",
			"method", c.Method(),
			"path", c.Path(),
			"status", status,
			"latency", time.Since(start),
			"request_id", c.GetRespHeader(fiber.HeaderXRequestID),
		)
		return err
	}
}
