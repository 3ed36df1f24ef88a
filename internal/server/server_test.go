package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"stockscan-backend/internal/config"
	"stockscan-backend/internal/database/dbtest"
	"stockscan-backend/internal/logger"
	"stockscan-backend/internal/metrics"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()

	cfg := &config.Config{}
	cfg.HTTP.CORSOrigins = "*"
	cfg.Metrics.Enabled = true
	cfg.Catalog.UniqueBrandNames = true
	cfg.Catalog.UnregisteredPrefix = config.PrefixInherit

	return New(Deps{
		Config: cfg,
		DB:     dbtest.New(t),
		Log:    logger.NewWithWriter(io.Discard, "test"),
	})
}

type result struct {
	Status   int
	Location string
	Body     map[string]any
	Raw      []byte
}

func send(t *testing.T, app *fiber.App, method, path string, body any) result {
	t.Helper()

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return do(t, app, req)
}

func do(t *testing.T, app *fiber.App, req *http.Request) result {
	t.Helper()

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	r := result{Status: resp.StatusCode, Location: resp.Header.Get("Location"), Raw: raw}
	if strings.HasPrefix(resp.Header.Get("Content-Type"), "application/json") && len(raw) > 0 && raw[0] == '{' {
		require.NoError(t, json.Unmarshal(raw, &r.Body))
	}
	return r
}

func productCount(t *testing.T, app *fiber.App, code string) float64 {
	t.Helper()
	r := send(t, app, http.MethodGet, "/api/items/"+code, nil)
	require.Equal(t, http.StatusOK, r.Status)
	return r.Body["product"].(map[string]any)["count"].(float64)
}

func TestScanWorkflow(t *testing.T) {
	app := newTestApp(t)
	const code = "0000000000000"

	r := send(t, app, http.MethodPost, "/api/scan", map[string]any{"ean": code})
	require.Equal(t, http.StatusSeeOther, r.Status)
	assert.Equal(t, "/api/items/0000000000000/brand-ean", r.Location)
	assert.Equal(t, "unknown_brand", r.Body["state"])
	assert.Equal(t, "0000000", r.Body["prefix"])

	r = send(t, app, http.MethodGet, r.Location, nil)
	require.Equal(t, http.StatusOK, r.Status)
	assert.Equal(t, "0000000", r.Body["initial"].(map[string]any)["label"])

	r = send(t, app, http.MethodPost, "/api/items/0000000000000/brand-ean", map[string]any{"brand_name": "Acme"})
	require.Equal(t, http.StatusSeeOther, r.Status, string(r.Raw))
	assert.Equal(t, "/api/items/0000000000000/product", r.Location)

	r = send(t, app, http.MethodPost, "/api/scan", map[string]any{"ean": code})
	require.Equal(t, http.StatusSeeOther, r.Status)
	assert.Equal(t, "unknown_product", r.Body["state"])
	assert.Equal(t, "Acme", r.Body["brand"].(map[string]any)["name"])
	assert.Equal(t, "/api/items/0000000000000/product", r.Location)

	r = send(t, app, http.MethodPost, "/api/items/0000000000000/product", map[string]any{"name": "Widget"})
	require.Equal(t, http.StatusSeeOther, r.Status, string(r.Raw))
	productID := int(r.Body["id"].(float64))
	packagingURL := r.Location
	assert.Contains(t, packagingURL, "/packaging")

	r = send(t, app, http.MethodGet, packagingURL, nil)
	require.Equal(t, http.StatusOK, r.Status)
	initial := r.Body["initial"].(map[string]any)
	assert.Equal(t, code, initial["label"])
	assert.Equal(t, float64(1), initial["count"])

	r = send(t, app, http.MethodPost, packagingURL, map[string]any{"count": 6})
	require.Equal(t, http.StatusSeeOther, r.Status, string(r.Raw))
	assert.Equal(t, "/api/items/0000000000000", r.Location)

	r = send(t, app, http.MethodPost, "/api/scan", map[string]any{"ean": code})
	require.Equal(t, http.StatusSeeOther, r.Status)
	assert.Equal(t, "known", r.Body["state"])
	assert.Equal(t, "/api/items/0000000000000", r.Location)
	assert.Equal(t, float64(productID), r.Body["product"].(map[string]any)["id"])

	r = send(t, app, http.MethodPost, "/api/items/"+code, map[string]any{"action": "add"})
	require.Equal(t, http.StatusSeeOther, r.Status)
	assert.Equal(t, float64(6), productCount(t, app, code))

	r = send(t, app, http.MethodPost, "/api/items/"+code, map[string]any{"action": "subtract"})
	require.Equal(t, http.StatusSeeOther, r.Status)
	assert.Equal(t, float64(0), productCount(t, app, code))

	r = send(t, app, http.MethodPost, "/api/items/"+code, map[string]any{"action": "subtract"})
	require.Equal(t, http.StatusUnprocessableEntity, r.Status)
	assert.Equal(t, "We can't have negative counts!", r.Body["fields"].(map[string]any)["count"])
	assert.Equal(t, "subtract", r.Body["input"].(map[string]any)["action"])
	assert.Equal(t, float64(0), productCount(t, app, code))
}

func TestScanFormEncoded(t *testing.T) {
	app := newTestApp(t)

	form := url.Values{"ean": {"8 718265 638716"}}
	req := httptest.NewRequest(http.MethodPost, "/api/scan", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", fiber.MIMEApplicationForm)

	r := do(t, app, req)
	require.Equal(t, http.StatusSeeOther, r.Status)
	assert.Equal(t, "/api/items/8718265638716/brand-ean", r.Location)
	assert.Equal(t, "8 718265 638716", r.Body["ean_display"])
}

func TestScanValidation(t *testing.T) {
	app := newTestApp(t)

	tests := []struct {
		name  string
		body  any
		field string
	}{
		{"missing", map[string]any{}, "ean"},
		{"checksum", map[string]any{"ean": "8718265638717"}, "ean"},
		{"letters", map[string]any{"ean": "abc"}, "ean"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := send(t, app, http.MethodPost, "/api/scan", tt.body)
			require.Equal(t, http.StatusUnprocessableEntity, r.Status)
			assert.NotEmpty(t, r.Body["fields"].(map[string]any)[tt.field])
		})
	}
}

func TestRequestValidationIsCounted(t *testing.T) {
	app := newTestApp(t)
	failures := metrics.ValidationFailures.WithLabelValues("invalid_input")

	before := testutil.ToFloat64(failures)
	r := send(t, app, http.MethodPost, "/api/scan", map[string]any{})
	require.Equal(t, http.StatusUnprocessableEntity, r.Status)
	assert.Equal(t, before+1, testutil.ToFloat64(failures))

	r = send(t, app, http.MethodPost, "/api/scan", map[string]any{"ean": "8718265638717"})
	require.Equal(t, http.StatusUnprocessableEntity, r.Status)
	assert.Equal(t, before+2, testutil.ToFloat64(failures))
}

func TestBrandRegistrationErrors(t *testing.T) {
	app := newTestApp(t)

	r := send(t, app, http.MethodPost, "/api/items/8718265638716/brand-ean", map[string]any{"brand_name": "Douwe Egberts"})
	require.Equal(t, http.StatusSeeOther, r.Status)
	brandID := r.Body["brand"].(map[string]any)["id"]

	r = send(t, app, http.MethodPost, "/api/items/8718265638716/brand-ean", map[string]any{"brand_name": "Other"})
	require.Equal(t, http.StatusUnprocessableEntity, r.Status)
	assert.Equal(t, "duplicate brand prefix", r.Body["error"])
	assert.Equal(t, "Other", r.Body["input"].(map[string]any)["brand_name"])

	r = send(t, app, http.MethodPost, "/api/items/5901234123457/brand-ean", map[string]any{"brand_name": "X", "brand_id": brandID})
	require.Equal(t, http.StatusUnprocessableEntity, r.Status)
	assert.Equal(t, "ambiguous brand input", r.Body["error"])

	r = send(t, app, http.MethodPost, "/api/items/5901234123457/brand-ean", map[string]any{"label": "12", "brand_name": "X"})
	require.Equal(t, http.StatusUnprocessableEntity, r.Status)
	assert.NotEmpty(t, r.Body["fields"].(map[string]any)["label"])
}

func TestProductSelectionRedirectsWithoutBrand(t *testing.T) {
	app := newTestApp(t)

	r := send(t, app, http.MethodGet, "/api/items/8718265638716/product", nil)
	require.Equal(t, http.StatusSeeOther, r.Status)
	assert.Equal(t, "/api/items/8718265638716/brand-ean", r.Location)
}

func TestNotFoundAndBadRequests(t *testing.T) {
	app := newTestApp(t)

	r := send(t, app, http.MethodGet, "/api/items/8718265638716", nil)
	assert.Equal(t, http.StatusNotFound, r.Status)

	r = send(t, app, http.MethodPost, "/api/items/8718265638716", map[string]any{"action": "add"})
	assert.Equal(t, http.StatusNotFound, r.Status)

	r = send(t, app, http.MethodGet, "/api/items/8718265638716/products/abc/packaging", nil)
	assert.Equal(t, http.StatusNotFound, r.Status)

	r = send(t, app, http.MethodGet, "/api/items/8718265638716/products/42/packaging", nil)
	assert.Equal(t, http.StatusNotFound, r.Status)

	r = send(t, app, http.MethodGet, "/api/products/42", nil)
	assert.Equal(t, http.StatusNotFound, r.Status)

	// register a known item to reach the action check
	send(t, app, http.MethodPost, "/api/items/8718265638716/brand-ean", map[string]any{"brand_name": "Douwe Egberts"})
	r = send(t, app, http.MethodPost, "/api/items/8718265638716/product", map[string]any{"name": "Aroma Rood"})
	require.Equal(t, http.StatusSeeOther, r.Status)
	send(t, app, http.MethodPost, r.Location, map[string]any{"count": 1})

	r = send(t, app, http.MethodPost, "/api/items/8718265638716", map[string]any{"action": "steal"})
	assert.Equal(t, http.StatusBadRequest, r.Status)
	assert.Contains(t, r.Body["error"], "bad action")

	r = send(t, app, http.MethodPost, "/api/items/8718265638716", nil)
	assert.Equal(t, http.StatusBadRequest, r.Status)
}

func TestPackagingBrandMismatch(t *testing.T) {
	app := newTestApp(t)

	send(t, app, http.MethodPost, "/api/items/5901234123457/brand-ean", map[string]any{"brand_name": "Other"})
	r := send(t, app, http.MethodPost, "/api/items/5901234123457/product", map[string]any{"name": "Foreign"})
	require.Equal(t, http.StatusSeeOther, r.Status)
	foreignID := int(r.Body["id"].(float64))

	send(t, app, http.MethodPost, "/api/items/8718265638716/brand-ean", map[string]any{"brand_name": "Douwe Egberts"})

	path := "/api/items/8718265638716/products/" + jsonNumber(foreignID) + "/packaging"
	r = send(t, app, http.MethodPost, path, map[string]any{"count": 1})
	require.Equal(t, http.StatusUnprocessableEntity, r.Status)
	assert.Equal(t, "brand mismatch", r.Body["error"])

	r = send(t, app, http.MethodGet, "/api/items/8718265638716", nil)
	assert.Equal(t, http.StatusNotFound, r.Status)
}

func TestCatalogEndpoints(t *testing.T) {
	app := newTestApp(t)

	r := send(t, app, http.MethodPost, "/api/items/8718265638716/brand-ean", map[string]any{"brand_name": "Douwe Egberts"})
	require.Equal(t, http.StatusSeeOther, r.Status)
	brandID := int(r.Body["brand"].(map[string]any)["id"].(float64))

	r = send(t, app, http.MethodPost, "/api/items/8718265638716/product",
		map[string]any{"name": "Aroma Rood", "generic_product_name": "coffee beans"})
	require.Equal(t, http.StatusSeeOther, r.Status)
	productID := jsonNumber(int(r.Body["id"].(float64)))
	send(t, app, http.MethodPost, r.Location, map[string]any{"count": 1})

	r = send(t, app, http.MethodGet, "/api/brands?q=douwe", nil)
	require.Equal(t, http.StatusOK, r.Status)
	assert.Contains(t, string(r.Raw), "Douwe Egberts")

	r = send(t, app, http.MethodGet, "/api/generic-products?q=coffee", nil)
	require.Equal(t, http.StatusOK, r.Status)
	assert.Contains(t, string(r.Raw), "coffee beans")

	r = send(t, app, http.MethodGet, "/api/products?q=aroma", nil)
	require.Equal(t, http.StatusOK, r.Status)
	assert.Contains(t, string(r.Raw), "Aroma Rood")

	r = send(t, app, http.MethodPut, "/api/products/"+productID, map[string]any{"name": "Aroma Rood 500g"})
	require.Equal(t, http.StatusOK, r.Status, string(r.Raw))
	assert.Equal(t, "Aroma Rood 500g", r.Body["name"])

	r = send(t, app, http.MethodGet, "/api/products/"+productID, nil)
	require.Equal(t, http.StatusOK, r.Status)
	assert.Len(t, r.Body["packagings"], 1)

	r = send(t, app, http.MethodDelete, "/api/brands/"+jsonNumber(brandID), nil)
	assert.Equal(t, http.StatusConflict, r.Status)

	r = send(t, app, http.MethodGet, "/api/audit-logs?entity_type=product", nil)
	require.Equal(t, http.StatusOK, r.Status)
	assert.Contains(t, string(r.Raw), `"action":"update"`)

	r = send(t, app, http.MethodDelete, "/api/products/"+productID, nil)
	assert.Equal(t, http.StatusNoContent, r.Status)
	r = send(t, app, http.MethodDelete, "/api/brands/"+jsonNumber(brandID), nil)
	assert.Equal(t, http.StatusNoContent, r.Status)
}

func TestExportStock(t *testing.T) {
	app := newTestApp(t)

	send(t, app, http.MethodPost, "/api/items/8718265638716/brand-ean", map[string]any{"brand_name": "Douwe Egberts"})
	r := send(t, app, http.MethodPost, "/api/items/8718265638716/product", map[string]any{"name": "Aroma Rood"})
	send(t, app, http.MethodPost, r.Location, map[string]any{"count": 6, "description": "six-pack"})
	send(t, app, http.MethodPost, "/api/items/8718265638716", map[string]any{"action": "add"})

	r = send(t, app, http.MethodGet, "/api/export/stock.xlsx", nil)
	require.Equal(t, http.StatusOK, r.Status)

	f, err := excelize.OpenReader(bytes.NewReader(r.Raw))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Stock")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Brand", rows[0][0])
	assert.Equal(t, []string{"Douwe Egberts", "Aroma Rood", "", "6", "8 718265 638716", "6", "six-pack"}, rows[1])
}

func TestHealthAndMetrics(t *testing.T) {
	app := newTestApp(t)

	r := send(t, app, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, r.Status)
	assert.Equal(t, "OK", string(r.Raw))

	send(t, app, http.MethodPost, "/api/scan", map[string]any{"ean": "0000000000000"})

	r = send(t, app, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, r.Status)
	assert.Contains(t, string(r.Raw), `stockscan_scans_total{state="unknown_brand"}`)
}

func jsonNumber(n int) string {
	b, _ := json.Marshal(n)
	return string(b)
}
