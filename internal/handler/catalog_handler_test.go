package handler

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"go-supply-ledger/internal/model"
	"go-supply-ledger/internal/repository/memory"
	"go-supply-ledger/internal/service"
	"go-supply-ledger/pkg/logging"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newCatalogApp mounts the catalog routes on a bare Fiber app backed by the
// in-memory store, with one supply already on the books.
func newCatalogApp(t *testing.T) (*fiber.App, service.CatalogService, *model.Supply) {
	t.Helper()

	store := memory.NewStore()
	ledger := service.NewLedgerService(store, store.SupplyRepo(), store.TransactionRepo(), nil, service.LedgerConfig{}, logging.WithModule("ledger-test"))
	catalog := service.NewCatalogService(store, store.SupplyRepo(), store.CategoryRepo(), ledger, logging.WithModule("catalog-test"))

	supply, err := catalog.CreateSupply(&service.CreateSupplyRequest{
		ItemName:      "AA Battery",
		UnitOfMeasure: "piece",
		InitialStock:  40,
		ReorderLevel:  10,
	}, uuid.New())
	require.NoError(t, err)

	h := NewCatalogHandler(catalog)
	app := fiber.New()
	app.Put("/api/v1/supplies/:id", h.UpdateSupply)
	return app, catalog, supply
}

func putSupply(t *testing.T, app *fiber.App, id uuid.UUID, body string) (int, string) {
	t.Helper()

	req := httptest.NewRequest("PUT", "/api/v1/supplies/"+id.String(), strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(raw)
}

func TestUpdateSupply_RejectsStockLevelInBody(t *testing.T) {
	app, catalog, supply := newCatalogApp(t)

	status, body := putSupply(t, app, supply.ID, `{"item_name":"Renamed","current_stock_level":999}`)
	assert.Equal(t, 400, status)
	assert.Contains(t, body, "current_stock_level")

	// The request must be rejected whole: neither the stock nor the rest of
	// the body lands.
	current, err := catalog.GetSupply(supply.ID)
	require.NoError(t, err)
	assert.Equal(t, 40, current.CurrentStockLevel)
	assert.Equal(t, "AA Battery", current.ItemName)
}

func TestUpdateSupply_RejectsInitialStockInBody(t *testing.T) {
	app, catalog, supply := newCatalogApp(t)

	status, body := putSupply(t, app, supply.ID, `{"initial_stock":5}`)
	assert.Equal(t, 400, status)
	assert.Contains(t, body, "initial_stock")

	current, err := catalog.GetSupply(supply.ID)
	require.NoError(t, err)
	assert.Equal(t, 40, current.CurrentStockLevel)
}

func TestUpdateSupply_MetadataOnlyBodySucceeds(t *testing.T) {
	app, catalog, supply := newCatalogApp(t)

	status, _ := putSupply(t, app, supply.ID, `{"item_name":"AA Battery (1.5V)","reorder_level":25}`)
	assert.Equal(t, 200, status)

	current, err := catalog.GetSupply(supply.ID)
	require.NoError(t, err)
	assert.Equal(t, "AA Battery (1.5V)", current.ItemName)
	assert.Equal(t, 25, current.ReorderLevel)
	assert.Equal(t, 40, current.CurrentStockLevel)
}
