package inventory

import (
	"fmt"

	"stockscan-backend/internal/catalog"
	"stockscan-backend/internal/ean"

	"github.com/gofiber/fiber/v2"
	"github.com/xuri/excelize/v2"
)

const stockSheet = "Stock"

var stockHeaders = []any{
	"Brand", "Product", "Generic product", "Stock count",
	"Packaging EAN", "Items per packaging", "Packaging description",
}

// BuildStockWorkbook writes one row per packaging, or one row for a
// product without packagings.
func BuildStockWorkbook(lines []catalog.StockLine) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", stockSheet); err != nil {
		return nil, err
	}
	if err := f.SetSheetRow(stockSheet, "A1", &stockHeaders); err != nil {
		return nil, err
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(stockSheet, "A1", "G1", bold); err != nil {
		return nil, err
	}

	row := 2
	for _, line := range lines {
		p := line.Product
		generic := ""
		if p.GenericProduct != nil {
			generic = p.GenericProduct.Name
		}
		base := []any{p.Brand.Name, p.Name, generic, p.Count}

		if len(line.Packagings) == 0 {
			if err := f.SetSheetRow(stockSheet, fmt.Sprintf("A%d", row), &base); err != nil {
				return nil, err
			}
			row++
			continue
		}
		for _, pkg := range line.Packagings {
			desc := ""
			if pkg.Description != nil {
				desc = *pkg.Description
			}
			values := append(append([]any{}, base...), ean.Format(pkg.Label), pkg.Count, desc)
			if err := f.SetSheetRow(stockSheet, fmt.Sprintf("A%d", row), &values); err != nil {
				return nil, err
			}
			row++
		}
	}

	if err := f.SetColWidth(stockSheet, "A", "G", 22); err != nil {
		return nil, err
	}
	return f, nil
}

// GET /api/export/stock.xlsx
func ExportStockHandler(svc *catalog.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		lines, err := svc.StockReport(c.UserContext())
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Stock report could not be built")
		}

		f, err := BuildStockWorkbook(lines)
		if err != nil {
			return err
		}
		defer func() { _ = f.Close() }()

		buf, err := f.WriteToBuffer()
		if err != nil {
			return err
		}

		c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Set(fiber.HeaderContentDisposition, `attachment; filename="stock.xlsx"`)
		return c.Send(buf.Bytes())
	}
}
