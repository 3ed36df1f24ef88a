package catalog

import (
	"context"
	"testing"

	"stockscan-backend/internal/database"
	"stockscan-backend/internal/database/dbtest"
	"stockscan-backend/internal/ean"
	"stockscan-backend/internal/models"

	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T, opts Options) *Service {
	t.Helper()
	db := dbtest.New(t)
	require.NoError(t, database.SyncBrandNameIndex(db, opts.UniqueBrandNames))
	return New(db, opts)
}

func defaultOptions() Options {
	return Options{UniqueBrandNames: true}
}

func mustEAN(t *testing.T, raw string) ean.EAN {
	t.Helper()
	code, err := ean.Validate(raw)
	require.NoError(t, err)
	return code
}

func uintPtr(v uint) *uint { return &v }

func strPtr(s string) *string { return &s }

// registerKnown walks code through the full registration flow.
func registerKnown(t *testing.T, s *Service, code ean.EAN, brand, product string, count int) *models.Packaging {
	t.Helper()
	ctx := context.Background()

	_, err := s.RegisterBrandEAN(ctx, BrandEANInput{Label: code.Prefix(), BrandName: brand})
	require.NoError(t, err)

	p, err := s.SelectProduct(ctx, code, ProductSelection{Name: product})
	require.NoError(t, err)

	pkg, err := s.CreatePackaging(ctx, PackagingInput{EAN: code, ProductID: p.ID, Count: count})
	require.NoError(t, err)
	return pkg
}
