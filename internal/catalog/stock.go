package catalog

import (
	"context"
	"fmt"
	"strings"

	"stockscan-backend/internal/audit"
	"stockscan-backend/internal/ean"
	"stockscan-backend/internal/metrics"
	"stockscan-backend/internal/models"

	"gorm.io/gorm"
)

type Direction int

const (
	Increase Direction = iota + 1
	Decrease
)

// ParseAction maps the user facing actions onto a Direction.
func ParseAction(action string) (Direction, error) {
	switch strings.TrimSpace(action) {
	case "add":
		return Increase, nil
	case "subtract":
		return Decrease, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrBadAction, action)
}

func (d Direction) String() string {
	switch d {
	case Increase:
		return "add"
	case Decrease:
		return "subtract"
	}
	return "unknown"
}

type Adjustment struct {
	Packaging models.Packaging
	Product   models.Product
	Delta     int
	Before    int
	After     int
}

// Adjust adds or subtracts one packaging worth of items to its product.
// A result below zero is rejected with ErrNegativeStock and nothing changes.
func (s *Service) Adjust(ctx context.Context, code ean.EAN, dir Direction) (*Adjustment, error) {
	if dir != Increase && dir != Decrease {
		return nil, fmt.Errorf("%w: %d", ErrBadAction, int(dir))
	}

	var adj *Adjustment
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		pkg, err := findPackaging(tx, code.String())
		if err != nil {
			return err
		}

		delta := pkg.Count
		if dir == Decrease {
			delta = -delta
		}

		// the guard lives in the UPDATE so concurrent adjustments serialise on the row
		res := tx.Model(&models.Product{}).
			Where("id = ? AND count + ? >= 0", pkg.ProductID, delta).
			Update("count", gorm.Expr("count + ?", delta))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return invalid(ErrNegativeStock, "count", "We can't have negative counts!")
		}

		product, err := findProduct(tx, pkg.ProductID)
		if err != nil {
			return err
		}

		adj = &Adjustment{
			Packaging: *pkg,
			Product:   *product,
			Delta:     delta,
			Before:    product.Count - delta,
			After:     product.Count,
		}
		adj.Packaging.Product = *product

		action := models.AuditActionStockAdd
		if dir == Decrease {
			action = models.AuditActionStockSub
		}
		return audit.WriteLog(tx, audit.LogOptions{
			EntityType:  audit.EntityProduct,
			EntityID:    product.ID,
			Action:      action,
			Description: fmt.Sprintf("%s %d via %s", dir, pkg.Count, pkg.Label),
			Before:      map[string]int{"count": adj.Before},
			After:       map[string]int{"count": adj.After},
		})
	})

	result := "ok"
	if err != nil {
		result = "rejected"
	}
	metrics.StockAdjustments.WithLabelValues(dir.String(), result).Inc()

	if err != nil {
		return nil, err
	}
	return adj, nil
}
